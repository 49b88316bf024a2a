package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// itemRecord is one entry in the document-wide item registry: everything the
// cross-document rules need to know about an offer item without re-walking
// the tree.
type itemRecord struct {
	element           xmldom.Element
	classCode         string
	propertyID        string
	chargeRequirement string
	amountBasis       string
	percentageOfCode  string
	frequency         string
}

// buildItemRegistry scans every class once and returns the registry plus the
// item codes in document order. The registry is rebuilt per validation call
// from the read-only tree; nothing is cached across calls.
func buildItemRegistry(doc *Document) map[string]itemRecord {
	registry, _ := buildItemRegistryOrdered(doc)
	return registry
}

func buildItemRegistryOrdered(doc *Document) (map[string]itemRecord, []string) {
	registry := make(map[string]itemRecord)
	var order []string

	for _, prop := range doc.Properties() {
		propID := attr(prop, "IDValue")
		for _, class := range descendantsNamed(prop, tagClass) {
			classCode := attr(class, "Code")
			for _, item := range offerItems(class) {
				code := strings.TrimSpace(attr(item, "InternalCode"))
				if code == "" {
					continue
				}

				chargeReq, freq := "", ""
				if chars := firstNamed(item, "Characteristics"); chars != nil {
					chargeReq = childText(chars, "ChargeRequirement")
					freq = childText(chars, "PaymentFrequency")
				}

				if _, exists := registry[code]; !exists {
					order = append(order, code)
				}
				registry[code] = itemRecord{
					element:           item,
					classCode:         classCode,
					propertyID:        propID,
					chargeRequirement: chargeReq,
					amountBasis:       childText(item, "AmountBasis"),
					percentageOfCode:  percentageOfCode(item),
					frequency:         freq,
				}
			}
		}
	}

	return registry, order
}

// IntegrityRule runs the whole-document checks that need the item registry:
// percentage-of self-references and cycles, references to Included items,
// AppliesTo membership, runtime cap notes, and Included items carrying a
// recurring payment frequency. References to codes absent from the document
// are tolerated without error.
type IntegrityRule struct{}

func (r *IntegrityRule) Name() string { return "cross_document" }

func (r *IntegrityRule) Validate(doc *Document) *Result {
	result := NewResult()
	registry, order := buildItemRegistryOrdered(doc)

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		r.checkClassLimits(doc, result, class, classCode)
	}

	r.checkPercentageReferences(doc, result, registry, order)
	r.checkIncludedItems(doc, result)

	return result
}

func (r *IntegrityRule) checkClassLimits(doc *Document, result *Result, class xmldom.Element, classCode string) {
	limits := firstNamed(class, "Limits")
	if limits == nil {
		return
	}
	classPath := doc.Path(class)

	if appliesTo := firstNamed(limits, "AppliesTo"); appliesTo != nil {
		inClass := make(map[string]bool)
		for _, item := range offerItems(class) {
			inClass[strings.TrimSpace(attr(item, "InternalCode"))] = true
		}

		for _, ic := range namedChildren(appliesTo, "InternalCode") {
			code := text(ic)
			if code == "" {
				continue // reported by the limits rule
			}
			if !inClass[code] {
				result.AddWarning("limit_applies_to_same_class",
					fmt.Sprintf("Class '%s' <Limits>/<AppliesTo> references code '%s' which is not in this class. Only codes within the same class are considered", classCode, code),
					classPath+"/Limits/AppliesTo",
					Detail{"class_code": classCode, "referenced_code": code})
			}
		}
	}

	// Occurrence and amount caps are enforced at runtime, not by document
	// validation; their presence is only noted.
	if maxOccur := firstNamed(limits, "MaximumOccurences"); maxOccur != nil && text(maxOccur) != "" {
		result.AddInfo("limit_occurrence_cap_runtime",
			fmt.Sprintf("Class '%s' has MaximumOccurences cap. Selectable instances are limited at runtime", classCode),
			classPath+"/Limits/MaximumOccurences",
			Detail{"class_code": classCode})
	}
	if maxAmount := firstNamed(limits, "MaximumAmount"); maxAmount != nil && text(maxAmount) != "" {
		result.AddInfo("limit_amount_cap_runtime",
			fmt.Sprintf("Class '%s' has MaximumAmount cap. Total charges are limited at runtime", classCode),
			classPath+"/Limits/MaximumAmount",
			Detail{"class_code": classCode})
	}
}

func (r *IntegrityRule) checkPercentageReferences(doc *Document, result *Result, registry map[string]itemRecord, order []string) {
	for _, code := range order {
		rec := registry[code]
		target := rec.percentageOfCode
		if target == "" {
			continue
		}
		itemPath := doc.Path(rec.element)

		if target == code {
			result.AddError("reference_no_self",
				fmt.Sprintf("Item '%s' cannot reference itself in <PercentageOfCode>", code),
				itemPath+"/PercentageOfCode",
				Detail{"item_code": code})
			continue
		}

		if hasCircularReference(code, registry) {
			result.AddError("reference_no_circular",
				fmt.Sprintf("Item '%s' has circular percentage-of reference chain", code),
				itemPath+"/PercentageOfCode",
				Detail{"item_code": code})
		}

		if ref, ok := registry[target]; ok && ref.chargeRequirement == "Included" {
			result.AddError("reference_not_included",
				fmt.Sprintf("Item '%s' references Included item '%s'. Cannot calculate percentage of a zero/empty amount", code, target),
				itemPath+"/PercentageOfCode",
				Detail{"item_code": code, "referenced_code": target})
		}
	}
}

// hasCircularReference follows the percentage-of chain from code. Each item
// has at most one outgoing edge, so the walk is a plain loop with a visited
// set bounded by the registry size; a chain that leaves the registry simply
// terminates.
func hasCircularReference(code string, registry map[string]itemRecord) bool {
	visited := make(map[string]bool)
	for cur := code; ; {
		if visited[cur] {
			return true
		}
		rec, ok := registry[cur]
		if !ok || rec.percentageOfCode == "" {
			return false
		}
		visited[cur] = true
		cur = rec.percentageOfCode
	}
}

func (r *IntegrityRule) checkIncludedItems(doc *Document, result *Result) {
	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		for _, item := range offerItems(class) {
			chars := firstNamed(item, "Characteristics")
			if chars == nil || childText(chars, "ChargeRequirement") != "Included" {
				continue
			}
			if freq := childText(chars, "PaymentFrequency"); recurringFrequencies[freq] {
				itemCode := attr(item, "InternalCode")
				if itemCode == "" {
					itemCode = "unknown"
				}
				result.AddError("included_no_recurring",
					fmt.Sprintf("Item '%s' has ChargeRequirement='Included' but PaymentFrequency='%s'. Included items cannot have recurring billing", itemCode, freq),
					doc.Path(item)+"/Characteristics/PaymentFrequency",
					Detail{"class_code": classCode, "item_code": itemCode, "frequency": freq})
			}
		}
	}
}
