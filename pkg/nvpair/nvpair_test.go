package nvpair

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/hacfg/pkg/cib"
)

func parse(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

func serialize(t *testing.T, el *etree.Element) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	require.NoError(t, err)
	return out
}

func TestSetPair(t *testing.T) {
	t.Run("appends new pair with generated id", func(t *testing.T) {
		root := parse(t, `<primitive id="r"><meta_attributes id="r-meta"/></primitive>`)
		nvset := root.SelectElement(MetaAttributesTag)

		SetPair(nvset, "target-role", "Stopped")

		assert.Equal(t, []Pair{{ID: "r-meta-target-role", Name: "target-role", Value: "Stopped"}}, Pairs(nvset))
	})

	t.Run("updates existing pair", func(t *testing.T) {
		root := parse(t, `<primitive id="r"><meta_attributes id="m"><nvpair id="p" name="a" value="1"/></meta_attributes></primitive>`)
		nvset := root.SelectElement(MetaAttributesTag)

		SetPair(nvset, "a", "2")

		assert.Equal(t, []Pair{{ID: "p", Name: "a", Value: "2"}}, Pairs(nvset))
	})

	t.Run("removes pair on empty value", func(t *testing.T) {
		root := parse(t, `<primitive id="r"><meta_attributes id="m"><nvpair id="p" name="a" value="1"/></meta_attributes></primitive>`)
		nvset := root.SelectElement(MetaAttributesTag)

		SetPair(nvset, "a", "")

		assert.Empty(t, Pairs(nvset))
		assert.NotNil(t, root.SelectElement(MetaAttributesTag), "nvset must survive")
	})

	t.Run("removing missing pair is a no-op", func(t *testing.T) {
		root := parse(t, `<primitive id="r"><meta_attributes id="m"/></primitive>`)
		before := serialize(t, root)

		SetPair(root.SelectElement(MetaAttributesTag), "missing", "")

		assert.Equal(t, before, serialize(t, root))
	})

	t.Run("generated id avoids existing ids", func(t *testing.T) {
		root := parse(t, `<primitive id="r"><meta_attributes id="m"/><utilization id="m-a"/></primitive>`)
		nvset := root.SelectElement(MetaAttributesTag)

		SetPair(nvset, "a", "1")

		assert.Equal(t, "m-a-1", Pairs(nvset)[0].ID)
	})
}

func TestNvsetSurvivesRemovalOfAllPairs(t *testing.T) {
	root := parse(t, `<node id="1" uname="a"><instance_attributes id="nodes-1"><nvpair id="x" name="standby" value="on"/><nvpair id="y" name="maintenance" value="on"/></instance_attributes></node>`)
	nvset := root.SelectElement(InstanceAttributesTag)

	SetPair(nvset, "standby", "")
	SetPair(nvset, "maintenance", "")
	SyncPairs(nvset, map[string]string{"standby": "", "other": ""})

	remaining := root.SelectElement(InstanceAttributesTag)
	require.NotNil(t, remaining)
	assert.Equal(t, "nodes-1", remaining.SelectAttrValue("id", ""))
	assert.Empty(t, Pairs(remaining))
}

func TestSyncPairsIsDeterministic(t *testing.T) {
	build := func(order []string) string {
		root := parse(t, `<primitive id="r"><meta_attributes id="r-meta"/></primitive>`)
		nvset := root.SelectElement(MetaAttributesTag)
		desired := make(map[string]string)
		for _, name := range order {
			desired[name] = "v-" + name
		}
		SyncPairs(nvset, desired)
		return serialize(t, root)
	}

	first := build([]string{"zeta", "alpha", "mid", "beta"})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, build([]string{"beta", "mid", "zeta", "alpha"}))
	}

	root := parse(t, first)
	var names []string
	for _, pair := range Pairs(root.SelectElement(MetaAttributesTag)) {
		names = append(names, pair.Name)
	}
	assert.Equal(t, []string{"alpha", "beta", "mid", "zeta"}, names)
}

func TestAppendNewSet(t *testing.T) {
	t.Run("creates set with sorted non-empty pairs", func(t *testing.T) {
		root := parse(t, `<primitive id="r"/>`)

		nvset := AppendNewSet(root, InstanceAttributesTag, map[string]string{"b": "2", "a": "1", "skip": ""}, cib.NewIDProvider())

		require.NotNil(t, nvset)
		assert.Equal(t, "r-instance_attributes", nvset.SelectAttrValue("id", ""))
		assert.Equal(t, []Pair{
			{ID: "r-instance_attributes-a", Name: "a", Value: "1"},
			{ID: "r-instance_attributes-b", Name: "b", Value: "2"},
		}, Pairs(nvset))
	})

	t.Run("nothing created for empty values", func(t *testing.T) {
		root := parse(t, `<primitive id="r"/>`)

		assert.Nil(t, AppendNewSet(root, InstanceAttributesTag, map[string]string{"a": ""}, nil))
		assert.Nil(t, AppendNewSet(root, InstanceAttributesTag, nil, nil))
		assert.Empty(t, root.ChildElements())
	})

	t.Run("provider keeps booked ids unique", func(t *testing.T) {
		root := parse(t, `<primitive id="r"/>`)
		ids := cib.NewIDProvider()
		ids.Book("r-meta_attributes")

		nvset := AppendNewSet(root, MetaAttributesTag, map[string]string{"a": "1"}, ids)

		assert.Equal(t, "r-meta_attributes-1", nvset.SelectAttrValue("id", ""))
	})
}

func TestArrangeFirstSet(t *testing.T) {
	t.Run("only removing without nvset is a no-op", func(t *testing.T) {
		root := parse(t, `<node id="1" uname="a"/>`)
		before := serialize(t, root)

		ArrangeFirstSet(InstanceAttributesTag, root, map[string]string{"flag": ""}, "")

		assert.Equal(t, before, serialize(t, root))
	})

	t.Run("empty map is a no-op", func(t *testing.T) {
		root := parse(t, `<node id="1" uname="a"/>`)
		ArrangeFirstSet(InstanceAttributesTag, root, map[string]string{}, "")
		assert.Empty(t, root.ChildElements())
	})

	t.Run("creates set as first child with given id", func(t *testing.T) {
		root := parse(t, `<node id="1" uname="a"><utilization id="u"/></node>`)

		ArrangeFirstSet(InstanceAttributesTag, root, map[string]string{"standby": "on"}, "nodes-1")

		children := root.ChildElements()
		require.Len(t, children, 2)
		assert.Equal(t, InstanceAttributesTag, children[0].Tag)
		assert.Equal(t, "nodes-1", children[0].SelectAttrValue("id", ""))
		assert.Equal(t, []Pair{{ID: "nodes-1-standby", Name: "standby", Value: "on"}}, Pairs(children[0]))
	})

	t.Run("generates id when none given", func(t *testing.T) {
		root := parse(t, `<op_defaults/>`)
		root.CreateAttr("id", "op_defaults")

		ArrangeFirstMetaAttributes(root, map[string]string{"timeout": "20s"}, "")

		assert.Equal(t, "op_defaults-meta_attributes", root.SelectElement(MetaAttributesTag).SelectAttrValue("id", ""))
	})

	t.Run("reuses first set only", func(t *testing.T) {
		root := parse(t, `<node id="1" uname="a"><instance_attributes id="first"><nvpair id="f-a" name="a" value="1"/></instance_attributes><instance_attributes id="second"><nvpair id="s-a" name="a" value="1"/></instance_attributes></node>`)

		ArrangeFirstInstanceAttributes(root, map[string]string{"a": ""}, "unused")

		sets := root.SelectElements(InstanceAttributesTag)
		require.Len(t, sets, 2)
		assert.Empty(t, Pairs(sets[0]))
		assert.Len(t, Pairs(sets[1]), 1)
	})
}

func TestReadValue(t *testing.T) {
	root := parse(t, `<primitive id="r">
  <meta_attributes id="m1">
    <nvpair id="a1" name="target-role" value=""/>
    <nvpair id="a2" name="target-role" value="Stopped"/>
  </meta_attributes>
  <meta_attributes id="m2">
    <nvpair id="b1" name="target-role" value="Started"/>
  </meta_attributes>
</primitive>`)

	assert.Equal(t, "Stopped", ReadValue(MetaAttributesTag, root, "target-role", "default"))
	assert.Equal(t, "Stopped", MetaAttributeValue(root, "target-role", ""))
	assert.Equal(t, "default", ReadValue(MetaAttributesTag, root, "missing", "default"))
	assert.Equal(t, "default", ReadValue(InstanceAttributesTag, root, "target-role", "default"))
}

func TestHasMetaAttribute(t *testing.T) {
	root := parse(t, `<primitive id="r"><meta_attributes id="m"><nvpair id="p" name="is-managed" value=""/></meta_attributes></primitive>`)

	assert.True(t, HasMetaAttribute(root, "is-managed"))
	assert.False(t, HasMetaAttribute(root, "target-role"))
}
