// Package nvpair manipulates name-value sets (nvsets) of the CIB.
//
// An nvset element is never removed once it exists, even when its last pair
// goes away. Pacemaker ACLs may grant write access to nvpairs but not to the
// nvset holding them, and removing the set would get the whole change
// rejected.
package nvpair

import (
	"sort"

	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/cib"
)

const (
	MetaAttributesTag     = "meta_attributes"
	InstanceAttributesTag = "instance_attributes"
)

// Pair is one nvpair of a set
type Pair struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SetPair updates the pair called name, appends a new one or, when value is
// empty, removes it
func SetPair(nvset *etree.Element, name, value string) {
	pair := findPair(nvset, name)
	switch {
	case pair == nil && value != "":
		appendPair(nvset, name, value, nil)
	case pair != nil && value != "":
		pair.CreateAttr("value", value)
	case pair != nil:
		nvset.RemoveChild(pair)
	}
}

// SyncPairs applies SetPair for every entry of desired in name order
func SyncPairs(nvset *etree.Element, desired map[string]string) {
	for _, name := range sortedNames(desired) {
		SetPair(nvset, name, desired[name])
	}
}

// AppendNewSet appends a new nvset holding the non-empty entries of desired
// to container. Nothing is created when there are none.
func AppendNewSet(container *etree.Element, tag string, desired map[string]string, ids *cib.IDProvider) *etree.Element {
	if onlyRemoving(desired) {
		return nil
	}
	nvset := container.CreateElement(tag)
	nvset.CreateAttr("id", cib.CreateSubelementID(container, tag, ids))
	for _, name := range sortedNames(desired) {
		if value := desired[name]; value != "" {
			appendPair(nvset, name, value, ids)
		}
	}
	return nvset
}

// ArrangeFirstSet puts desired into the first nvset of tag under container,
// creating the set as the first child of container when needed. No set is
// created for a request that only removes pairs. newID names a created set;
// an id is generated when it is empty.
//
// Only the first nvset is touched. Containers holding more sets of the same
// tag keep their other sets as they are.
func ArrangeFirstSet(tag string, container *etree.Element, desired map[string]string, newID string) {
	if len(desired) == 0 {
		return
	}
	nvset := container.SelectElement(tag)
	if nvset == nil {
		if onlyRemoving(desired) {
			return
		}
		if newID == "" {
			newID = cib.CreateSubelementID(container, tag, nil)
		}
		nvset = etree.NewElement(tag)
		nvset.CreateAttr("id", newID)
		container.InsertChildAt(0, nvset)
	}
	SyncPairs(nvset, desired)
}

// ReadValue returns the first non-empty value of name in the tag nvsets
// directly under container, or def.
//
// The lookup is unsound when container holds several nvsets of tag or a set
// holds several pairs with the name: the first match in document order wins.
func ReadValue(tag string, container *etree.Element, name, def string) string {
	for _, nvset := range container.SelectElements(tag) {
		for _, pair := range nvset.SelectElements("nvpair") {
			if pair.SelectAttrValue("name", "") != name {
				continue
			}
			if value := pair.SelectAttrValue("value", ""); value != "" {
				return value
			}
		}
	}
	return def
}

// Pairs lists the nvpairs of nvset
func Pairs(nvset *etree.Element) []Pair {
	var pairs []Pair
	for _, el := range nvset.SelectElements("nvpair") {
		pairs = append(pairs, Pair{
			ID:    el.SelectAttrValue("id", ""),
			Name:  el.SelectAttrValue("name", ""),
			Value: el.SelectAttrValue("value", ""),
		})
	}
	return pairs
}

// HasMetaAttribute reports whether a meta_attributes set of el has a pair
// called name
func HasMetaAttribute(el *etree.Element, name string) bool {
	for _, nvset := range el.SelectElements(MetaAttributesTag) {
		if findPair(nvset, name) != nil {
			return true
		}
	}
	return false
}

// MetaAttributeValue reads a meta attribute of el
func MetaAttributeValue(el *etree.Element, name, def string) string {
	return ReadValue(MetaAttributesTag, el, name, def)
}

// ArrangeFirstMetaAttributes is ArrangeFirstSet for meta_attributes
func ArrangeFirstMetaAttributes(container *etree.Element, desired map[string]string, newID string) {
	ArrangeFirstSet(MetaAttributesTag, container, desired, newID)
}

// ArrangeFirstInstanceAttributes is ArrangeFirstSet for instance_attributes
func ArrangeFirstInstanceAttributes(container *etree.Element, desired map[string]string, newID string) {
	ArrangeFirstSet(InstanceAttributesTag, container, desired, newID)
}

func findPair(nvset *etree.Element, name string) *etree.Element {
	for _, pair := range nvset.SelectElements("nvpair") {
		if pair.SelectAttrValue("name", "") == name {
			return pair
		}
	}
	return nil
}

func appendPair(nvset *etree.Element, name, value string, ids *cib.IDProvider) {
	pair := nvset.CreateElement("nvpair")
	pair.CreateAttr("id", cib.CreateSubelementID(nvset, name, ids))
	pair.CreateAttr("name", name)
	pair.CreateAttr("value", value)
}

func onlyRemoving(desired map[string]string) bool {
	for _, value := range desired {
		if value != "" {
			return false
		}
	}
	return true
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
