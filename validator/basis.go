package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// AmountBasisRule enforces the pricing decision table keyed by AmountBasis.
// Each basis constrains which of Amounts, Percentage and PercentageOfCode may
// be populated; an empty basis is legal only for Included items, which in
// turn must carry no payable values at all.
type AmountBasisRule struct{}

func (r *AmountBasisRule) Name() string { return "amount_basis" }

func (r *AmountBasisRule) Validate(doc *Document) *Result {
	result := NewResult()

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
			r.checkItem(doc, result, item, itemCode, classCode)
		}
	}

	return result
}

func (r *AmountBasisRule) checkItem(doc *Document, result *Result, item xmldom.Element, itemCode, classCode string) {
	itemPath := doc.Path(item)
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	chargeReq := ""
	if chars := firstNamed(item, "Characteristics"); chars != nil {
		chargeReq = childText(chars, "ChargeRequirement")
	}
	basis := childText(item, "AmountBasis")
	blocks := namedChildren(item, tagAmount)

	if chargeReq == "Included" {
		if basis != "" {
			result.AddError("basis_included_empty",
				fmt.Sprintf("Item '%s' has ChargeRequirement='Included' but non-empty AmountBasis='%s'. AmountBasis must be empty for Included items", itemCode, basis),
				itemPath+"/AmountBasis", detail)
		}
		for idx, block := range blocks {
			blockPath := fmt.Sprintf("%s/ChargeOfferAmount[%d]", itemPath, idx+1)
			if amounts := joinedAmountsText(block); amounts != "" {
				result.AddError("basis_included_amounts_empty",
					fmt.Sprintf("Item '%s' has ChargeRequirement='Included' but non-empty <Amounts>='%s'. All amounts must be empty for Included items", itemCode, amounts),
					blockPath+"/Amounts", detail)
			}
			if pct := childText(block, "Percentage"); pct != "" {
				result.AddError("basis_included_percentage_empty",
					fmt.Sprintf("Item '%s' has ChargeRequirement='Included' but non-empty <Percentage>='%s'. All percentages must be empty for Included items", itemCode, pct),
					blockPath+"/Percentage", detail)
			}
		}
		return
	}

	if basis != "" && !amountBases[basis] {
		result.AddError("basis_enum_valid",
			fmt.Sprintf("Invalid AmountBasis '%s'. Must be one of: %s", basis, allowedList(amountBases)),
			itemPath+"/AmountBasis", detail)
		return
	}

	if basis == "" {
		result.AddError("item_amount_basis_required",
			fmt.Sprintf("Item '%s' has empty AmountBasis but ChargeRequirement='%s'. AmountBasis can only be empty if ChargeRequirement='Included'", itemCode, chargeReq),
			itemPath+"/AmountBasis", detail)
		return
	}

	for idx, block := range blocks {
		blockPath := fmt.Sprintf("%s/ChargeOfferAmount[%d]", itemPath, idx+1)

		pctCode := childText(block, "PercentageOfCode")
		if pctCode == "" {
			pctCode = childText(item, "PercentageOfCode")
		}
		if pctCode != "" && basis != basisPercentage {
			result.AddError("item_percentage_code_when_needed",
				fmt.Sprintf("Item '%s' has <PercentageOfCode> but AmountBasis='%s'. PercentageOfCode should only be present when AmountBasis='Percentage Of'", itemCode, basis),
				blockPath+"/PercentageOfCode", detail)
		}

		r.checkBlock(result, block, basis, itemCode, itemPath, blockPath, pctCode, detail)
	}
}

func (r *AmountBasisRule) checkBlock(
	result *Result,
	block xmldom.Element,
	basis, itemCode, itemPath, blockPath, pctCode string,
	detail Detail,
) {
	amountsElems := namedChildren(block, "Amounts")
	amountsText := joinedAmountsText(block)
	pctText := childText(block, "Percentage")

	// Value count: separate <Amounts> elements, or values packed into one
	// comma/newline-delimited element.
	valueCount := len(amountsElems)
	if valueCount == 1 {
		valueCount = len(splitSteppedValues(text(amountsElems[0])))
	}

	switch basis {
	case basisExplicit:
		if valueCount == 0 {
			result.AddError("basis_explicit_amounts_nonempty",
				fmt.Sprintf("Item '%s' has AmountBasis='Explicit' but empty <Amounts>. At least one amount value is required", itemCode),
				blockPath+"/Amounts", detail)
		}
		if pctText != "" {
			result.AddError("basis_explicit_percentage_empty",
				fmt.Sprintf("Item '%s' has AmountBasis='Explicit' but non-empty <Percentage>='%s'. Percentage must be empty for Explicit basis", itemCode, pctText),
				blockPath+"/Percentage", detail)
		}

	case basisPercentage:
		if pctText == "" {
			result.AddError("basis_percentage_has_value",
				fmt.Sprintf("Item '%s' has AmountBasis='Percentage Of' but empty <Percentage>. Percentage value is required", itemCode),
				blockPath+"/Percentage", detail)
		}
		if amountsText != "" {
			result.AddError("basis_percentage_amounts_empty",
				fmt.Sprintf("Item '%s' has AmountBasis='Percentage Of' but non-empty <Amounts>='%s'. Amounts must be empty for Percentage Of basis", itemCode, amountsText),
				blockPath+"/Amounts", detail)
		}
		if pctCode == "" {
			result.AddError("basis_percentage_has_code",
				fmt.Sprintf("Item '%s' has AmountBasis='Percentage Of' but empty <PercentageOfCode>. PercentageOfCode is required to reference the target item", itemCode),
				itemPath+"/PercentageOfCode", detail)
		} else if pctCode == itemCode {
			result.AddError("basis_percentage_no_circular",
				fmt.Sprintf("Item '%s' has AmountBasis='Percentage Of' with <PercentageOfCode>='%s'. An item cannot reference itself", itemCode, pctCode),
				itemPath+"/PercentageOfCode", detail)
		}

	case basisRange, basisRangeAlias:
		// Exactly two separate <Amounts> elements, lowest then highest. A
		// comma or dash joined pair in a single element does not count.
		if n := len(amountsElems); n != 2 {
			result.AddError("basis_range_two_amounts",
				rangeCountMessage(itemCode, basis, n, amountsElems),
				blockPath+"/Amounts",
				Detail{
					"class_code": detail["class_code"],
					"item_code":  itemCode,
					"count":      strconv.Itoa(n),
				})
		}

	case basisStepped:
		if valueCount < 2 {
			result.AddError("basis_stepped_min_two",
				fmt.Sprintf("Item '%s' has AmountBasis='Stepped' but only %d amount value(s). At least 2 amount values are required for Stepped pricing", itemCode, valueCount),
				blockPath+"/Amounts",
				Detail{
					"class_code": detail["class_code"],
					"item_code":  itemCode,
					"count":      strconv.Itoa(valueCount),
				})
		}

	case basisVariable:
		hasAmounts := amountsText != ""
		hasPct := pctText != ""
		if !hasAmounts && !hasPct {
			result.AddError("basis_variable_not_both",
				fmt.Sprintf("Item '%s' has AmountBasis='Variable' but both <Amounts> and <Percentage> are empty. Variable basis requires either Amounts OR Percentage", itemCode),
				blockPath, detail)
		} else if hasAmounts && hasPct {
			result.AddError("basis_variable_not_both",
				fmt.Sprintf("Item '%s' has AmountBasis='Variable' but both <Amounts> and <Percentage> are present. Variable basis requires either Amounts OR Percentage, not both", itemCode),
				blockPath, detail)
		}
	}
}

func rangeCountMessage(itemCode, basis string, n int, amountsElems []xmldom.Element) string {
	switch n {
	case 0:
		return fmt.Sprintf("Item '%s' has AmountBasis='%s' but no <Amounts> elements. Within Range requires exactly two separate <Amounts> elements (lowest and highest)", itemCode, basis)
	case 1:
		msg := fmt.Sprintf("Item '%s' has AmountBasis='%s' but only 1 <Amounts> element. Within Range requires exactly two separate <Amounts> elements (first is lowest, second is highest)", itemCode, basis)
		if looksJoinedRange(text(amountsElems[0])) {
			msg += ". Comma or dash separated values in a single element are not accepted"
		}
		return msg
	default:
		return fmt.Sprintf("Item '%s' has AmountBasis='%s' but %d <Amounts> elements. Within Range requires exactly two separate <Amounts> elements (first is lowest, second is highest)", itemCode, basis, n)
	}
}

// joinedAmountsText collects the non-empty text of every Amounts element in
// a block, comma joined, for reporting and emptiness checks.
func joinedAmountsText(block xmldom.Element) string {
	var parts []string
	for _, elem := range namedChildren(block, "Amounts") {
		if t := text(elem); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}
