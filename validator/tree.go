package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// Element tag names for the property hierarchy and fee structure.
const (
	tagRoot     = "PhysicalProperty"
	tagProperty = "Property"
	tagClass    = "ChargeOfferClass"
	tagAmount   = "ChargeOfferAmount"
)

// feeParentTags are the hierarchy levels that may carry fee classes.
var feeParentTags = map[string]bool{
	"Property":  true,
	"Building":  true,
	"Floorplan": true,
	"ILS_Unit":  true,
}

// offerItemTags are the four offer item variants.
var offerItemTags = map[string]bool{
	"ChargeOfferItem":  true,
	"PetOfferItem":     true,
	"ParkingOfferItem": true,
	"StorageOfferItem": true,
}

// Document wraps one parsed, immutable tree for the duration of a single
// validation call. The parent index is built once and shared by every rule
// that needs ancestor lookups.
type Document struct {
	root    xmldom.Element
	parents map[xmldom.Node]xmldom.Element
}

func newDocument(root xmldom.Element) *Document {
	d := &Document{
		root:    root,
		parents: make(map[xmldom.Node]xmldom.Element),
	}
	walkElements(root, func(el xmldom.Element) {
		children := el.Children()
		for i := uint(0); i < children.Length(); i++ {
			if child := children.Item(i); child != nil {
				d.parents[child] = el
			}
		}
	})
	return d
}

// Root returns the document element.
func (d *Document) Root() xmldom.Element { return d.root }

// Parent returns the parent element of el, or nil for the root.
func (d *Document) Parent(el xmldom.Element) xmldom.Element {
	return d.parents[el]
}

// NearestAncestor walks up from el and returns the first ancestor whose tag
// is in tags, or nil if none exists.
func (d *Document) NearestAncestor(el xmldom.Element, tags map[string]bool) xmldom.Element {
	for cur := d.parents[el]; cur != nil; cur = d.parents[cur] {
		if tags[string(cur.TagName())] {
			return cur
		}
	}
	return nil
}

// Path builds a human-readable location for el, qualifying each step with
// its identity attribute when one is present, e.g.
// /PhysicalProperty/Property[@IDValue='p1']/ChargeOfferClass[@Code='APP'].
func (d *Document) Path(el xmldom.Element) string {
	var parts []string
	for cur := el; cur != nil; cur = d.parents[cur] {
		tag := string(cur.TagName())
		if id := identityOf(cur); id != "" {
			tag = fmt.Sprintf("%s[@%s='%s']", tag, identityAttrOf(cur), id)
		}
		parts = append([]string{tag}, parts...)
	}
	return "/" + strings.Join(parts, "/")
}

// Properties returns the direct Property children of the root.
func (d *Document) Properties() []xmldom.Element {
	return namedChildren(d.root, tagProperty)
}

// Classes returns every ChargeOfferClass in document order.
func (d *Document) Classes() []xmldom.Element {
	var classes []xmldom.Element
	walkElements(d.root, func(el xmldom.Element) {
		if string(el.TagName()) == tagClass {
			classes = append(classes, el)
		}
	})
	return classes
}

// walkElements visits el and every descendant element in document order.
func walkElements(el xmldom.Element, fn func(xmldom.Element)) {
	if el == nil {
		return
	}
	fn(el)
	children := el.Children()
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			walkElements(child, fn)
		}
	}
}

// childElements returns the direct element children of el.
func childElements(el xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	children := el.Children()
	for i := uint(0); i < children.Length(); i++ {
		if child := children.Item(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// namedChildren returns the direct children of el with the given tag.
func namedChildren(el xmldom.Element, tag string) []xmldom.Element {
	var out []xmldom.Element
	for _, child := range childElements(el) {
		if string(child.TagName()) == tag {
			out = append(out, child)
		}
	}
	return out
}

// firstNamed returns the first direct child of el with the given tag, or nil.
func firstNamed(el xmldom.Element, tag string) xmldom.Element {
	for _, child := range childElements(el) {
		if string(child.TagName()) == tag {
			return child
		}
	}
	return nil
}

// descendantsNamed returns every descendant of el with the given tag.
func descendantsNamed(el xmldom.Element, tag string) []xmldom.Element {
	var out []xmldom.Element
	walkElements(el, func(e xmldom.Element) {
		if e != el && string(e.TagName()) == tag {
			out = append(out, e)
		}
	})
	return out
}

// offerItems returns the direct offer item children of a class element.
func offerItems(class xmldom.Element) []xmldom.Element {
	var out []xmldom.Element
	for _, child := range childElements(class) {
		if offerItemTags[string(child.TagName())] {
			out = append(out, child)
		}
	}
	return out
}

// attr returns the named attribute of el, untrimmed.
func attr(el xmldom.Element, name string) string {
	return string(el.GetAttribute(xmldom.DOMString(name)))
}

// text returns el's text content trimmed of surrounding whitespace.
func text(el xmldom.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(string(el.TextContent()))
}

// rawText returns el's text content with whitespace preserved.
func rawText(el xmldom.Element) string {
	if el == nil {
		return ""
	}
	return string(el.TextContent())
}

// childText returns the trimmed text of el's first child with the given tag,
// or "" when the child is absent.
func childText(el xmldom.Element, tag string) string {
	return text(firstNamed(el, tag))
}

func identityOf(el xmldom.Element) string {
	for _, name := range []string{"IDValue", "InternalCode", "Code"} {
		if v := attr(el, name); v != "" {
			return v
		}
	}
	return ""
}

func identityAttrOf(el xmldom.Element) string {
	for _, name := range []string{"IDValue", "InternalCode", "Code"} {
		if attr(el, name) != "" {
			return name
		}
	}
	return ""
}
