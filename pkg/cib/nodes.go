package cib

import (
	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/reports"
	"github.com/cuemby/hacfg/pkg/validate"
)

// EnsureNode returns the node element with the uname from the nodes section,
// creating it with the given id when missing
func EnsureNode(nodes *etree.Element, id, uname string) *etree.Element {
	for _, node := range nodes.SelectElements("node") {
		if node.SelectAttrValue("uname", "") == uname {
			return node
		}
	}
	node := nodes.CreateElement("node")
	node.CreateAttr("id", id)
	node.CreateAttr("uname", uname)
	return node
}

// ValidateNewID checks that id is well formed and not used in the document
// containing el
func ValidateNewID(el *etree.Element, id, description string) []reports.Item {
	if item := validate.ID(id, description); item != nil {
		return []reports.Item{*item}
	}
	if DoesIDExist(el, id) {
		return []reports.Item{reports.NewIDAlreadyExists(id)}
	}
	return nil
}
