package cib

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/cuemby/hacfg/pkg/validate"
)

// IDProvider books ids of elements that are about to be created, so that ids
// generated before the elements land in the document do not collide.
type IDProvider struct {
	booked map[string]bool
}

// NewIDProvider creates an empty provider
func NewIDProvider() *IDProvider {
	return &IDProvider{booked: make(map[string]bool)}
}

// Book reserves ids
func (p *IDProvider) Book(ids ...string) {
	for _, id := range ids {
		p.booked[id] = true
	}
}

// IsBooked reports whether id has been reserved
func (p *IDProvider) IsBooked(id string) bool {
	return p != nil && p.booked[id]
}

// DoesIDExist reports whether any element of the document containing el,
// outside the status section, has the id
func DoesIDExist(el *etree.Element, id string) bool {
	return FindByID(el, id) != nil
}

// FindUniqueID returns base, or base-N with the lowest N, that is neither in
// the document nor booked. The returned id gets booked.
func FindUniqueID(el *etree.Element, base string, provider *IDProvider) string {
	id := base
	for counter := 1; DoesIDExist(el, id) || provider.IsBooked(id); counter++ {
		id = fmt.Sprintf("%s-%d", base, counter)
	}
	if provider != nil {
		provider.Book(id)
	}
	return id
}

// CreateSubelementID builds a unique id for a new child of parent
func CreateSubelementID(parent *etree.Element, suffix string, provider *IDProvider) string {
	base := validate.SanitizeID(fmt.Sprintf("%s-%s", parent.SelectAttrValue("id", ""), suffix))
	return FindUniqueID(parent, base, provider)
}

// FindByID returns the element of the document with the id, or nil
func FindByID(el *etree.Element, id string) *etree.Element {
	var found *etree.Element
	walk(top(el), func(e *etree.Element) bool {
		if e.Tag == "status" {
			return false
		}
		if e.SelectAttrValue("id", "") == id {
			found = e
		}
		return found == nil
	})
	return found
}

func top(el *etree.Element) *etree.Element {
	for el.Parent() != nil {
		el = el.Parent()
	}
	return el
}

// walk visits el and its descendants depth first. Returning false from fn
// skips the children of the visited element.
func walk(el *etree.Element, fn func(*etree.Element) bool) {
	if !fn(el) {
		return
	}
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
