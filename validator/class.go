package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// classChildren are the element tags a ChargeOfferClass may legally carry.
var classChildren = map[string]bool{
	"ChargeOfferItem":  true,
	"PetOfferItem":     true,
	"ParkingOfferItem": true,
	"StorageOfferItem": true,
	"Limits":           true,
	"Name":             true,
	"Description":      true,
}

// ClassStructureRule checks ChargeOfferClass existence and code rules: a
// required non-empty Code, uniqueness among siblings of the same parent
// (repeating a Code under a different parent is fine), at least one offer
// item, and no unexpected or whitespace-only children.
type ClassStructureRule struct{}

func (r *ClassStructureRule) Name() string { return "class_structure" }

func (r *ClassStructureRule) Validate(doc *Document) *Result {
	result := NewResult()

	byParent := make(map[xmldom.Element][]xmldom.Element)
	var parentOrder []xmldom.Element

	for _, class := range doc.Classes() {
		code := strings.TrimSpace(attr(class, "Code"))
		classPath := doc.Path(class)

		if code == "" {
			result.AddError("class_has_code",
				classMissingCodeMessage(class, classPath),
				classPath)
			continue
		}

		items := offerItems(class)
		if len(items) == 0 {
			result.AddError("class_has_items",
				fmt.Sprintf("<ChargeOfferClass Code='%s'> must contain at least one offer item (%s)",
					code, joinSortedTags(offerItemTags)),
				classPath,
				Detail{"code": code})
		}

		for _, child := range childElements(class) {
			tag := string(child.TagName())
			if !classChildren[tag] {
				result.AddWarning("class_no_empty_children",
					fmt.Sprintf("<ChargeOfferClass Code='%s'> contains unexpected child element <%s>", code, tag),
					classPath+"/"+tag,
					Detail{"code": code, "unexpected_element": tag})
			}
			if raw := rawText(child); raw != "" && strings.TrimSpace(raw) == "" && len(childElements(child)) == 0 {
				result.AddWarning("class_no_empty_children",
					fmt.Sprintf("<ChargeOfferClass Code='%s'>/<%s> contains whitespace-only text content", code, tag),
					classPath+"/"+tag,
					Detail{"code": code})
			}
		}

		parent := doc.Parent(class)
		if _, ok := byParent[parent]; !ok {
			parentOrder = append(parentOrder, parent)
		}
		byParent[parent] = append(byParent[parent], class)
	}

	for _, parent := range parentOrder {
		r.checkCodeUniqueness(doc, result, parent, byParent[parent])
	}

	return result
}

func (r *ClassStructureRule) checkCodeUniqueness(doc *Document, result *Result, parent xmldom.Element, classes []xmldom.Element) {
	parentKey := "root"
	if parent != nil {
		parentKey = string(parent.TagName())
		if id := identityOf(parent); id != "" {
			parentKey = fmt.Sprintf("%s[@id='%s']", parentKey, id)
		}
	}

	seen := make(map[string]bool)
	for _, class := range classes {
		code := strings.TrimSpace(attr(class, "Code"))
		if code == "" {
			continue // already reported
		}
		if seen[code] {
			result.AddError("class_code_unique_in_parent",
				fmt.Sprintf("Duplicate <ChargeOfferClass Code='%s'> found within parent %s. Class Codes must be unique within the same parent", code, parentKey),
				doc.Path(class),
				Detail{"code": code, "parent": parentKey})
			continue
		}
		seen[code] = true
	}
}

// classMissingCodeMessage tries to name the offending class by its Name,
// Description or first item so feeds can locate it without a Code.
func classMissingCodeMessage(class xmldom.Element, classPath string) string {
	if name := childText(class, "Name"); name != "" {
		return fmt.Sprintf("<ChargeOfferClass> with Name='%s' missing required non-empty 'Code' attribute", name)
	}
	if desc := childText(class, "Description"); desc != "" {
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}
		return fmt.Sprintf("<ChargeOfferClass> with Description='%s' missing required non-empty 'Code' attribute", desc)
	}
	for _, item := range offerItems(class) {
		if code := strings.TrimSpace(attr(item, "InternalCode")); code != "" {
			return fmt.Sprintf("<ChargeOfferClass> containing item '%s' missing required non-empty 'Code' attribute", code)
		}
		if name := childText(item, "Name"); name != "" {
			return fmt.Sprintf("<ChargeOfferClass> containing '%s' missing required non-empty 'Code' attribute", name)
		}
	}
	return fmt.Sprintf("<ChargeOfferClass> at %s missing required non-empty 'Code' attribute", classPath)
}

func joinSortedTags(set map[string]bool) string {
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, ", ")
}
