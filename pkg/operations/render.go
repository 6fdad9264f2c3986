package operations

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/cib"
	"github.com/cuemby/hacfg/pkg/nvpair"
	"github.com/cuemby/hacfg/pkg/reports"
)

// CreateOperations appends an operations element holding ops, sorted by name,
// to the primitive
func CreateOperations(primitive *etree.Element, ops []Operation, ids *cib.IDProvider) (*etree.Element, error) {
	sorted := make([]Operation, len(ops))
	copy(sorted, ops)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i]["name"] < sorted[j]["name"]
	})

	operations := primitive.CreateElement("operations")
	for _, op := range sorted {
		if _, err := AppendNewOperation(operations, op, ids); err != nil {
			return nil, err
		}
	}
	return operations, nil
}

// AppendNewOperation appends an op element to operations. The id is
// generated from the primitive id, name and interval unless the operation
// brings its own.
func AppendNewOperation(operations *etree.Element, op Operation, ids *cib.IDProvider) (*etree.Element, error) {
	id, hasID := op["id"]
	if hasID {
		if cib.DoesIDExist(operations, id) || ids.IsBooked(id) {
			return nil, reports.NewLibraryError(reports.NewIDAlreadyExists(id))
		}
		if ids != nil {
			ids.Book(id)
		}
	} else {
		id = createID(operations.Parent(), op["name"], op["interval"], ids)
	}

	el := operations.CreateElement("op")
	el.CreateAttr("id", id)
	keys := make([]string, 0, len(op))
	for k := range op {
		if k != "id" && k != CheckLevelAttribute {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		el.CreateAttr(k, op[k])
	}

	if level, ok := op[CheckLevelAttribute]; ok {
		nvset := el.CreateElement(nvpair.InstanceAttributesTag)
		nvset.CreateAttr("id", cib.CreateSubelementID(el, nvpair.InstanceAttributesTag, ids))
		pair := nvset.CreateElement("nvpair")
		pair.CreateAttr("id", cib.CreateSubelementID(nvset, CheckLevelAttribute, ids))
		pair.CreateAttr("name", CheckLevelAttribute)
		pair.CreateAttr("value", level)
	}
	return el, nil
}

func createID(primitive *etree.Element, name, interval string, ids *cib.IDProvider) string {
	return cib.CreateSubelementID(primitive, fmt.Sprintf("%s-interval-%s", name, interval), ids)
}

// GetResourceOperations returns the op elements of a resource, only those
// with one of names when names is not empty
func GetResourceOperations(resource *etree.Element, names ...string) []*etree.Element {
	operations := resource.SelectElement("operations")
	if operations == nil {
		return nil
	}
	var ops []*etree.Element
	for _, op := range operations.SelectElements("op") {
		if len(names) == 0 || contains(names, op.SelectAttrValue("name", "")) {
			ops = append(ops, op)
		}
	}
	return ops
}

// Disable sets enabled=false on the op
func Disable(op *etree.Element) {
	op.CreateAttr("enabled", "false")
}

// Enable drops the enabled attribute, pacemaker treats ops as enabled by
// default
func Enable(op *etree.Element) {
	op.RemoveAttr("enabled")
}

// IsEnabled reports whether the op runs
func IsEnabled(op *etree.Element) bool {
	return cib.IsTrue(op.SelectAttrValue("enabled", "true"))
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
