package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// CharacteristicsRule validates the Characteristics block of each offer
// item: required ChargeRequirement and Lifecycle enums, optional
// PaymentFrequency and Refundability enums, the conditional scope demanded
// by ChargeRequirement=Conditional, and the refund details demanded by
// Refundable/Deposit items.
type CharacteristicsRule struct{}

func (r *CharacteristicsRule) Name() string { return "item_characteristics" }

func (r *CharacteristicsRule) Validate(doc *Document) *Result {
	result := NewResult()
	allCodes := collectItemCodes(doc)

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
			chars := firstNamed(item, "Characteristics")
			if chars == nil {
				continue // absence reported by the item structure rule
			}
			charPath := doc.Path(item) + "/Characteristics"
			r.checkCharacteristics(result, chars, itemCode, classCode, charPath, allCodes)
		}
	}

	return result
}

// collectItemCodes gathers every InternalCode in the document for conditional
// reference checks.
func collectItemCodes(doc *Document) map[string]bool {
	codes := make(map[string]bool)
	for _, class := range doc.Classes() {
		for _, item := range offerItems(class) {
			if code := strings.TrimSpace(attr(item, "InternalCode")); code != "" {
				codes[code] = true
			}
		}
	}
	return codes
}

func (r *CharacteristicsRule) checkCharacteristics(
	result *Result,
	chars xmldom.Element,
	itemCode, classCode, charPath string,
	allCodes map[string]bool,
) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	chargeReq := ""
	if reqElem := firstNamed(chars, "ChargeRequirement"); reqElem == nil {
		result.AddError("char_requirement_required",
			fmt.Sprintf("Item '%s' missing required <ChargeRequirement> in <Characteristics>", itemCode),
			charPath, detail)
	} else if chargeReq = text(reqElem); chargeReq == "" {
		result.AddError("char_requirement_required",
			fmt.Sprintf("Item '%s' has empty <ChargeRequirement>", itemCode),
			charPath+"/ChargeRequirement", detail)
	} else if !chargeRequirements[chargeReq] {
		result.AddError("char_requirement_required",
			fmt.Sprintf("Invalid ChargeRequirement '%s'. Must be one of: %s", chargeReq, allowedList(chargeRequirements)),
			charPath+"/ChargeRequirement", detail)
	} else if chargeReq == "Conditional" {
		r.checkConditionalScope(result, chars, itemCode, classCode, charPath, allCodes)
	}

	if lcElem := firstNamed(chars, "Lifecycle"); lcElem == nil {
		result.AddError("char_lifecycle_required",
			fmt.Sprintf("Item '%s' missing required <Lifecycle> in <Characteristics>", itemCode),
			charPath, detail)
	} else if lifecycle := text(lcElem); lifecycle == "" {
		result.AddError("char_lifecycle_required",
			fmt.Sprintf("Item '%s' has empty <Lifecycle>", itemCode),
			charPath+"/Lifecycle", detail)
	} else if !lifecycleStages[lifecycle] {
		result.AddError("char_lifecycle_required",
			fmt.Sprintf("Invalid Lifecycle '%s'. Must be one of: %s", lifecycle, allowedList(lifecycleStages)),
			charPath+"/Lifecycle", detail)
	}

	if freq := childText(chars, "PaymentFrequency"); freq != "" && !paymentFrequencies[freq] {
		result.AddError("char_frequency_valid",
			fmt.Sprintf("Invalid PaymentFrequency '%s'. Must be one of: %s", freq, allowedList(paymentFrequencies)),
			charPath+"/PaymentFrequency", detail)
	}

	r.checkRefundability(result, chars, itemCode, classCode, charPath)

	if reqDesc := firstNamed(chars, "RequirementDescription"); reqDesc != nil {
		if raw := rawText(reqDesc); raw != "" && strings.TrimSpace(raw) == "" {
			result.AddError("char_requirement_desc_nonempty",
				fmt.Sprintf("Item '%s' has whitespace-only <RequirementDescription>", itemCode),
				charPath+"/RequirementDescription", detail)
		}
	}
}

// checkConditionalScope accepts either a ConditionalInternalCode text list
// (comma or space separated) or a ConditionalScope element holding
// InternalCode children.
func (r *CharacteristicsRule) checkConditionalScope(
	result *Result,
	chars xmldom.Element,
	itemCode, classCode, charPath string,
	allCodes map[string]bool,
) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	var refs []string
	if condElem := firstNamed(chars, "ConditionalInternalCode"); condElem != nil {
		raw := strings.ReplaceAll(text(condElem), ",", " ")
		refs = strings.Fields(raw)
	} else if scope := firstNamed(chars, "ConditionalScope"); scope != nil {
		for _, ic := range namedChildren(scope, "InternalCode") {
			if code := text(ic); code != "" {
				refs = append(refs, code)
			}
		}
	}

	if len(refs) == 0 {
		result.AddError("char_conditional_has_codes",
			fmt.Sprintf("Item '%s' has ChargeRequirement='Conditional' but no valid conditional codes", itemCode),
			charPath, detail)
		return
	}

	for _, ref := range refs {
		if ref == itemCode {
			result.AddError("char_no_self_reference",
				fmt.Sprintf("Item '%s' cannot be conditional on itself", itemCode),
				charPath+"/ConditionalInternalCode", detail)
			continue
		}
		if !allCodes[ref] {
			result.AddError("char_conditional_code_exists",
				fmt.Sprintf("Item '%s' references non-existent code '%s' in <ConditionalInternalCode>", itemCode, ref),
				charPath+"/ConditionalInternalCode",
				Detail{"class_code": classCode, "item_code": itemCode, "referenced_code": ref})
		}
	}
}

// checkRefundability validates the Refundability enum and, for Refundable or
// Deposit items, the RefundDetails block. The legacy flat
// RefundabilityMaxType/RefundabilityMax fields on Characteristics are
// accepted as fallbacks for the RefundDetails children.
func (r *CharacteristicsRule) checkRefundability(
	result *Result,
	chars xmldom.Element,
	itemCode, classCode, charPath string,
) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	refund := childText(chars, "Refundability")
	if refund == "" {
		return
	}

	if !refundabilities[refund] {
		result.AddError("char_refundability_valid",
			fmt.Sprintf("Invalid Refundability '%s'. Must be one of: %s", refund, allowedList(refundabilities)),
			charPath+"/Refundability", detail)
		return
	}

	if refund != "Refundable" && refund != "Deposit" {
		return
	}

	details := firstNamed(chars, "RefundDetails")
	if details == nil {
		result.AddError("char_refund_details_required",
			fmt.Sprintf("Item '%s' has Refundability='%s' but missing <RefundDetails> element", itemCode, refund),
			charPath, detail)
		return
	}
	detailsPath := charPath + "/RefundDetails"

	maxType := firstNamed(details, "RefundMaxType")
	if maxType == nil {
		maxType = firstNamed(chars, "RefundabilityMaxType")
	}
	if maxType == nil {
		result.AddError("char_refund_max_type_required",
			fmt.Sprintf("Item '%s' has Refundability='%s' but missing <RefundabilityMaxType>", itemCode, refund),
			charPath, detail)
	} else if v := text(maxType); v == "" {
		result.AddError("char_refund_max_type_required",
			fmt.Sprintf("Item '%s' has empty <RefundabilityMaxType>", itemCode),
			charPath+"/RefundabilityMaxType", detail)
	} else if !refundabilityMaxTypes[v] {
		result.AddError("char_refund_max_type_required",
			fmt.Sprintf("Invalid RefundabilityMaxType '%s'. Must be one of: %s", v, allowedList(refundabilityMaxTypes)),
			charPath+"/RefundabilityMaxType", detail)
	}

	maxElem := firstNamed(details, "RefundMax")
	if maxElem == nil {
		maxElem = firstNamed(chars, "RefundabilityMax")
	}
	if maxElem == nil {
		result.AddError("char_refund_max_required",
			fmt.Sprintf("Item '%s' has Refundability='%s' but missing <RefundabilityMax>", itemCode, refund),
			charPath, detail)
	} else if v := text(maxElem); v == "" {
		result.AddError("char_refund_max_required",
			fmt.Sprintf("Item '%s' has empty <RefundabilityMax>", itemCode),
			charPath+"/RefundabilityMax", detail)
	} else if !isDecimal(v) {
		result.AddError("char_refund_max_required",
			fmt.Sprintf("Item '%s' <RefundabilityMax> must be a valid decimal, found '%s'", itemCode, v),
			charPath+"/RefundabilityMax", detail)
	} else if !isNonNegativeDecimal(v) {
		result.AddError("char_refund_max_required",
			fmt.Sprintf("Item '%s' <RefundabilityMax> must be >= 0, found '%s'", itemCode, v),
			charPath+"/RefundabilityMax", detail)
	}

	if perType := childText(details, "RefundPerType"); perType != "" && !perTypes[perType] {
		result.AddError("char_refund_per_type_valid",
			fmt.Sprintf("Invalid RefundPerType '%s'. Must be one of: %s", perType, allowedList(perTypes)),
			detailsPath+"/RefundPerType", detail)
	}
}
