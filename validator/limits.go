package validator

import "fmt"

// ClassLimitsRule validates the optional Limits block of a fee class:
// MaximumOccurences (the MITS feed spelling) as an integer >= 1,
// MaximumAmount as a plain decimal >= 0, and non-empty AppliesTo codes.
// Whether AppliesTo codes resolve inside the class is an integrity concern
// checked with the rest of the cross-document rules.
type ClassLimitsRule struct{}

func (r *ClassLimitsRule) Name() string { return "class_limits" }

func (r *ClassLimitsRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, class := range doc.Classes() {
		code := attr(class, "Code")
		if code == "" {
			code = "unknown"
		}

		limits := firstNamed(class, "Limits")
		if limits == nil {
			continue
		}
		limitsPath := doc.Path(class) + "/Limits"

		if maxOccur := firstNamed(limits, "MaximumOccurences"); maxOccur != nil {
			value := text(maxOccur)
			if !isPositiveInteger(value) {
				result.AddError("limit_occurrences_valid",
					fmt.Sprintf("<MaximumOccurences> in class '%s' must be an integer >= 1, found '%s'", code, value),
					limitsPath+"/MaximumOccurences",
					Detail{"code": code, "value": value})
			}
		}

		if maxAmount := firstNamed(limits, "MaximumAmount"); maxAmount != nil {
			value := text(maxAmount)
			if !isNonNegativeDecimal(value) {
				result.AddError("limit_amount_valid",
					fmt.Sprintf("<MaximumAmount> in class '%s' must be a decimal >= 0 with no currency symbols, found '%s'", code, value),
					limitsPath+"/MaximumAmount",
					Detail{"code": code, "value": value})
			}
		}

		if appliesTo := firstNamed(limits, "AppliesTo"); appliesTo != nil {
			for idx, codeElem := range namedChildren(appliesTo, "InternalCode") {
				if text(codeElem) == "" {
					result.AddError("limit_applies_to_nonempty",
						fmt.Sprintf("<InternalCode> #%d in <AppliesTo> of class '%s' must be a non-empty string", idx+1, code),
						fmt.Sprintf("%s/AppliesTo/InternalCode[%d]", limitsPath, idx+1),
						Detail{"code": code})
				}
			}
		}
	}

	return result
}
