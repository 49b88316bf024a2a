package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// AmountBlocksRule validates the contents of ChargeOfferAmount blocks:
// decimal format and sign of Amounts and Percentage, the TermBasis enum,
// Duration, and scheduled pricing windows including the cross-block overlap
// check. Included items are exempt from the at-least-one-value requirement
// since their blocks are required to be empty.
type AmountBlocksRule struct{}

func (r *AmountBlocksRule) Name() string { return "amount_blocks" }

func (r *AmountBlocksRule) Validate(doc *Document) *Result {
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

type scheduledWindow struct {
	blockIdx int
	window   dateWindow
}

func (r *AmountBlocksRule) checkItem(doc *Document, result *Result, item xmldom.Element, itemCode, classCode string) {
	itemPath := doc.Path(item)
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	included := false
	if chars := firstNamed(item, "Characteristics"); chars != nil {
		included = childText(chars, "ChargeRequirement") == "Included"
	}

	var windows []scheduledWindow

	for idx, block := range namedChildren(item, tagAmount) {
		blockPath := fmt.Sprintf("%s/ChargeOfferAmount[%d]", itemPath, idx+1)

		amountsText := joinedAmountsText(block)
		pctText := childText(block, "Percentage")

		if !included && amountsText == "" && pctText == "" {
			result.AddError("amount_block_nonempty",
				fmt.Sprintf("Amount block in item '%s' has both empty <Amounts> and <Percentage>. At least one must be present", itemCode),
				blockPath, detail)
		}

		if amountsText != "" {
			r.checkAmounts(result, amountsText, itemCode, classCode, blockPath+"/Amounts")
		}
		if pctText != "" {
			r.checkPercentage(result, pctText, itemCode, classCode, blockPath+"/Percentage")
		}

		if termBasis := childText(block, "TermBasis"); termBasis != "" && !termBases[termBasis] {
			result.AddError("amount_term_basis_valid",
				fmt.Sprintf("Invalid TermBasis '%s'. Must be one of: %s", termBasis, allowedList(termBases)),
				blockPath+"/TermBasis", detail)
		}

		if w, ok := r.checkDates(result, block, itemCode, classCode, blockPath); ok {
			windows = append(windows, scheduledWindow{blockIdx: idx + 1, window: w})
		}
	}

	// Scheduled windows of one item must not overlap.
	for i := 0; i < len(windows); i++ {
		for j := i + 1; j < len(windows); j++ {
			if windows[i].window.overlaps(windows[j].window) {
				result.AddError("amount_windows_no_overlap",
					fmt.Sprintf("Item '%s' has overlapping scheduled pricing windows: block #%d and block #%d",
						itemCode, windows[i].blockIdx, windows[j].blockIdx),
					itemPath,
					Detail{
						"class_code": classCode,
						"item_code":  itemCode,
						"block1":     strconv.Itoa(windows[i].blockIdx),
						"block2":     strconv.Itoa(windows[j].blockIdx),
					})
			}
		}
	}
}

func (r *AmountBlocksRule) checkAmounts(result *Result, amountsText, itemCode, classCode, amountsPath string) {
	detail := func(val string) Detail {
		return Detail{"class_code": classCode, "item_code": itemCode, "value": val}
	}

	for _, val := range splitSteppedValues(amountsText) {
		if !isDecimal(val) {
			result.AddError("amount_decimal_valid",
				fmt.Sprintf("Amount value '%s' in item '%s' is not a valid decimal number", val, itemCode),
				amountsPath, detail(val))
			continue
		}
		if frac := fractionDigits(val); frac > 2 {
			result.AddError("amount_decimal_valid",
				fmt.Sprintf("Amount value '%s' in item '%s' has more than 2 decimal places", val, itemCode),
				amountsPath, detail(val))
		}
		if strings.HasPrefix(val, "-") {
			result.AddError("amount_nonnegative",
				fmt.Sprintf("Amount value '%s' in item '%s' must be >= 0", val, itemCode),
				amountsPath, detail(val))
		}
	}
}

func (r *AmountBlocksRule) checkPercentage(result *Result, pctText, itemCode, classCode, pctPath string) {
	detail := Detail{"class_code": classCode, "item_code": itemCode, "value": pctText}

	val, ok := parseDecimal(pctText)
	if !ok {
		result.AddError("percentage_decimal_valid",
			fmt.Sprintf("Percentage value '%s' in item '%s' is not a valid decimal number", pctText, itemCode),
			pctPath, detail)
		return
	}
	if val < 0 {
		result.AddError("percentage_decimal_valid",
			fmt.Sprintf("Percentage value '%s' in item '%s' must be >= 0", pctText, itemCode),
			pctPath, detail)
	}
	// Over 100 is legal, e.g. early termination multipliers.
	if val > 100 {
		result.AddInfo("percentage_over_100",
			fmt.Sprintf("Percentage value %s%% in item '%s' exceeds 100%% (allowed for cases like early termination fees)", pctText, itemCode),
			pctPath, detail)
	}
}

func (r *AmountBlocksRule) checkDates(
	result *Result,
	block xmldom.Element,
	itemCode, classCode, blockPath string,
) (dateWindow, bool) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	earliest := childText(block, "StartTermEarliest")
	latest := childText(block, "StartTermLatest")

	if duration := childText(block, "Duration"); duration != "" {
		v, err := strconv.Atoi(duration)
		if err != nil {
			result.AddError("amount_duration_valid",
				fmt.Sprintf("<Duration> in item '%s' must be an integer, found '%s'", itemCode, duration),
				blockPath+"/Duration", detail)
		} else if v < 0 {
			result.AddError("amount_duration_valid",
				fmt.Sprintf("<Duration> in item '%s' must be >= 0, found '%s'", itemCode, duration),
				blockPath+"/Duration", detail)
		}
	}

	if earliest == "" && latest == "" {
		return dateWindow{}, false
	}

	if earliest == "" {
		result.AddError("amount_schedule_start_required",
			fmt.Sprintf("Scheduled pricing in item '%s' missing required <StartTermEarliest>", itemCode),
			blockPath, detail)
		return dateWindow{}, false
	}

	start, ok := parseDate(earliest)
	if !ok {
		result.AddError("amount_date_parseable",
			fmt.Sprintf("Date value '%s' in item '%s' is not in a recognized format", earliest, itemCode),
			blockPath+"/StartTermEarliest",
			Detail{"class_code": classCode, "item_code": itemCode, "value": earliest})
		return dateWindow{}, false
	}

	hasEnd := false
	end := start
	if latest != "" {
		if parsed, ok := parseDate(latest); ok {
			end, hasEnd = parsed, true
		} else {
			result.AddError("amount_date_parseable",
				fmt.Sprintf("Date value '%s' in item '%s' is not in a recognized format", latest, itemCode),
				blockPath+"/StartTermLatest",
				Detail{"class_code": classCode, "item_code": itemCode, "value": latest})
		}
	}

	if hasEnd && start.After(end) {
		result.AddError("amount_dates_ordered",
			fmt.Sprintf("StartTermEarliest (%s) > StartTermLatest (%s) in item '%s'", earliest, latest, itemCode),
			blockPath, detail)
	}

	return newDateWindow(start, end, hasEnd), true
}

// fractionDigits returns the number of digits after the decimal point of a
// lexically valid decimal.
func fractionDigits(s string) int {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
