package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// DataQualityRule covers the hygiene and duplicate checks at the end of the
// pipeline: blank or control-character text in required fields, currency
// junk in numeric values, case-insensitive duplicate item names, and items
// whose characteristics are structurally identical.
type DataQualityRule struct{}

func (r *DataQualityRule) Name() string { return "data_quality" }

func (r *DataQualityRule) Validate(doc *Document) *Result {
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
			itemPath := doc.Path(item)
			r.checkTextHygiene(result, item, itemCode, classCode, itemPath)
			r.checkNumericHygiene(result, item, itemCode, classCode, itemPath)
		}
	}

	r.checkDuplicates(doc, result)

	return result
}

func (r *DataQualityRule) checkTextHygiene(result *Result, item xmldom.Element, itemCode, classCode, itemPath string) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	for _, field := range []string{"Name", "Description"} {
		elem := firstNamed(item, field)
		if elem == nil {
			continue // absence reported by the item structure rule
		}
		raw := rawText(elem)
		if strings.TrimSpace(raw) == "" {
			result.AddError("hygiene_text_nonblank",
				fmt.Sprintf("Item '%s' has empty or whitespace-only <%s>", itemCode, field),
				itemPath+"/"+field, detail)
			continue
		}
		if hasControlChars(raw) {
			result.AddError("hygiene_no_control_chars",
				fmt.Sprintf("Item '%s' <%s> contains control characters", itemCode, field),
				itemPath+"/"+field, detail)
		}
	}
}

// hasControlChars reports control characters other than tab, newline and
// carriage return.
func hasControlChars(s string) bool {
	for _, r := range s {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

func (r *DataQualityRule) checkNumericHygiene(result *Result, item xmldom.Element, itemCode, classCode, itemPath string) {
	for idx, block := range namedChildren(item, tagAmount) {
		blockPath := fmt.Sprintf("%s/ChargeOfferAmount[%d]", itemPath, idx+1)

		for _, amounts := range namedChildren(block, "Amounts") {
			r.checkNumericValue(result, text(amounts), itemCode, classCode, blockPath+"/Amounts")
		}
		if pct := childText(block, "Percentage"); pct != "" {
			r.checkNumericValue(result, pct, itemCode, classCode, blockPath+"/Percentage")
		}
	}
}

func (r *DataQualityRule) checkNumericValue(result *Result, value, itemCode, classCode, fieldPath string) {
	// A thousands-grouped number would be shredded by the stepped-value
	// split, so catch it on the raw text first.
	if isThousandsGrouped(value) {
		result.AddError("hygiene_numeric_format",
			fmt.Sprintf("Numeric value '%s' in item '%s' contains invalid characters. No currency symbols or thousands separators allowed", strings.TrimSpace(value), itemCode),
			fieldPath,
			Detail{"class_code": classCode, "item_code": itemCode, "value": strings.TrimSpace(value)})
		return
	}

	for _, val := range splitSteppedValues(value) {
		if junk := numericJunk(val); junk != "" && junk != "leading plus sign" {
			result.AddError("hygiene_numeric_format",
				fmt.Sprintf("Numeric value '%s' in item '%s' contains invalid characters. No currency symbols or thousands separators allowed", val, itemCode),
				fieldPath,
				Detail{"class_code": classCode, "item_code": itemCode, "value": val})
		}
		if strings.HasPrefix(val, "+") {
			result.AddError("hygiene_no_leading_plus",
				fmt.Sprintf("Numeric value '%s' in item '%s' has leading plus sign. Not allowed", val, itemCode),
				fieldPath,
				Detail{"class_code": classCode, "item_code": itemCode, "value": val})
		}
	}
}

func (r *DataQualityRule) checkDuplicates(doc *Document, result *Result) {
	type itemEntry struct {
		code string
		name string
		hash string
	}

	byClass := make(map[string][]itemEntry)
	var classOrder []string

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		if _, ok := byClass[classCode]; !ok {
			classOrder = append(classOrder, classCode)
		}
		for _, item := range offerItems(class) {
			itemCode := attr(item, "InternalCode")
			if itemCode == "" {
				itemCode = "unknown"
			}
			hash := characteristicsHash(item)
			name := strings.ToLower(childText(item, "Name"))
			if hash != "" {
				hash = name + "|" + hash
			}
			byClass[classCode] = append(byClass[classCode], itemEntry{
				code: itemCode,
				name: name,
				hash: hash,
			})
		}
	}

	for _, classCode := range classOrder {
		items := byClass[classCode]

		nameCodes := make(map[string][]string)
		var nameOrder []string
		for _, item := range items {
			if item.name == "" {
				continue
			}
			if _, ok := nameCodes[item.name]; !ok {
				nameOrder = append(nameOrder, item.name)
			}
			nameCodes[item.name] = append(nameCodes[item.name], item.code)
		}
		for _, name := range nameOrder {
			if codes := nameCodes[name]; len(codes) > 1 {
				result.AddError("duplicate_item_name",
					fmt.Sprintf("Duplicate item Name '%s' found in class '%s' (items: %s). Names should be unique within a class",
						name, classCode, strings.Join(codes, ", ")),
					fmt.Sprintf("/ChargeOfferClass[@Code='%s']", classCode),
					Detail{"class_code": classCode, "duplicate_name": name})
			}
		}

		hashCodes := make(map[string][]string)
		var hashOrder []string
		for _, item := range items {
			if item.hash == "" {
				continue // no characteristics; reported by the item structure rule
			}
			if _, ok := hashCodes[item.hash]; !ok {
				hashOrder = append(hashOrder, item.hash)
			}
			hashCodes[item.hash] = append(hashCodes[item.hash], item.code)
		}
		for _, hash := range hashOrder {
			if codes := hashCodes[hash]; len(codes) > 1 {
				result.AddError("duplicate_item_definition",
					fmt.Sprintf("Duplicate item definition found in class '%s' (items: %s). Items have identical name and characteristics",
						classCode, strings.Join(codes, ", ")),
					fmt.Sprintf("/ChargeOfferClass[@Code='%s']", classCode),
					Detail{"class_code": classCode})
			}
		}
	}
}

// characteristicsHash builds a canonical representation of an item's
// Characteristics block: children sorted by tag, tag:text pairs joined, so
// structurally identical items collide regardless of child order.
func characteristicsHash(item xmldom.Element) string {
	chars := firstNamed(item, "Characteristics")
	if chars == nil {
		return ""
	}

	var parts []string
	for _, child := range childElements(chars) {
		if t := text(child); t != "" {
			parts = append(parts, string(child.TagName())+":"+t)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
