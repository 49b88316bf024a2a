package validator

import (
	"fmt"

	"github.com/agentflare-ai/go-xmldom"
)

// FrequencyAlignmentRule checks payment cadence coherence: the AmountPerType
// enum, recurring items taking a percentage of one-time items, per-type and
// lifecycle combinations, and the informational notes around Applicant
// multiplicity and one-time charges with a TermBasis.
type FrequencyAlignmentRule struct{}

func (r *FrequencyAlignmentRule) Name() string { return "frequency_alignment" }

func (r *FrequencyAlignmentRule) Validate(doc *Document) *Result {
	result := NewResult()
	registry := buildItemRegistry(doc)

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		for _, item := range offerItems(class) {
			itemCode := attr(item, "InternalCode")
			if itemCode == "" {
				itemCode = "unknown"
			}
			r.checkItem(doc, result, item, itemCode, classCode, registry)
		}
	}

	return result
}

func (r *FrequencyAlignmentRule) checkItem(
	doc *Document,
	result *Result,
	item xmldom.Element,
	itemCode, classCode string,
	registry map[string]itemRecord,
) {
	itemPath := doc.Path(item)
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	perType := childText(item, "AmountPerType")
	if perType != "" {
		if !perTypes[perType] {
			result.AddError("amount_per_type_enum",
				fmt.Sprintf("Invalid AmountPerType '%s'. Must be one of: %s", perType, allowedList(perTypes)),
				itemPath+"/AmountPerType", detail)
		} else if perType == "Applicant" {
			result.AddInfo("amount_per_applicant_note",
				fmt.Sprintf("Item '%s' uses AmountPerType='Applicant'. The amount will be multiplied by the number of applicants", itemCode),
				itemPath+"/AmountPerType", detail)
		}
	}

	freq, lifecycle := "", ""
	if chars := firstNamed(item, "Characteristics"); chars != nil {
		freq = childText(chars, "PaymentFrequency")
		lifecycle = childText(chars, "Lifecycle")
	}
	basis := childText(item, "AmountBasis")
	pctCode := percentageOfCode(item)

	// Recurring charge priced as a percentage of a one-time charge repeats a
	// fee that only settles once.
	if recurringFrequencies[freq] && basis == basisPercentage && pctCode != "" {
		if ref, ok := registry[pctCode]; ok && oneTimeFrequencies[ref.frequency] {
			result.AddError("frequency_basis_coherent",
				fmt.Sprintf("Item '%s' has recurring PaymentFrequency='%s' but references one-time item '%s' (PaymentFrequency='%s'). This creates inconsistent billing semantics",
					itemCode, freq, pctCode, ref.frequency),
				itemPath+"/PercentageOfCode",
				Detail{
					"class_code":           classCode,
					"item_code":            itemCode,
					"frequency":            freq,
					"referenced_code":      pctCode,
					"referenced_frequency": ref.frequency,
				})
		}
	}

	if (freq == "Hourly" || freq == "Per-occurrence") && perType == "Period" {
		result.AddError("frequency_per_type_coherent",
			fmt.Sprintf("Item '%s' has PaymentFrequency='%s' with AmountPerType='Period'. This combination is not allowed", itemCode, freq),
			itemPath+"/AmountPerType",
			Detail{"class_code": classCode, "item_code": itemCode, "frequency": freq})
	}

	if freq == "Monthly" && (basis == basisRange || basis == basisRangeAlias) {
		result.AddWarning("frequency_range_monthly",
			fmt.Sprintf("Item '%s' has PaymentFrequency='Monthly' with AmountBasis='%s'. Range should be expressed by occurrences, not conflicting frequencies", itemCode, basis),
			itemPath+"/AmountBasis", detail)
	}

	if lifecycle == "During Term" && freq == "" {
		result.AddError("frequency_during_term_required",
			fmt.Sprintf("Item '%s' has Lifecycle='During Term' but no <PaymentFrequency>. Frequency is required for During Term charges", itemCode),
			itemPath+"/Characteristics", detail)
	}

	if oneTimeFrequencies[freq] {
		for _, block := range namedChildren(item, tagAmount) {
			if childText(block, "TermBasis") != "" {
				result.AddInfo("onetime_with_term_basis",
					fmt.Sprintf("Item '%s' has one-time PaymentFrequency='%s' with TermBasis. This is allowed", itemCode, freq),
					itemPath+"/ChargeOfferAmount/TermBasis",
					Detail{"class_code": classCode, "item_code": itemCode, "frequency": freq})
				break // one note per item
			}
		}
	}
}

// percentageOfCode returns the item's percentage-of target, reading the
// item-level element first and falling back to the first amount block.
func percentageOfCode(item xmldom.Element) string {
	if code := childText(item, "PercentageOfCode"); code != "" {
		return code
	}
	for _, block := range namedChildren(item, tagAmount) {
		if code := childText(block, "PercentageOfCode"); code != "" {
			return code
		}
	}
	return ""
}
