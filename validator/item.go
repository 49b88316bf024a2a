package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// commonItemChildren are the tags every offer item variant may carry,
// including the PMS passthrough fields feeds attach for their own systems.
var commonItemChildren = map[string]bool{
	"Name":                   true,
	"Description":            true,
	"Characteristics":        true,
	"ItemMinimumOccurrences": true,
	"ItemMaximumOccurrences": true,
	"AmountBasis":            true,
	"PercentageOfCode":       true,
	"AmountPerType":          true,
	"ChargeOfferAmount":      true,
	"PmsItemCode":            true,
	"PmsItemDescription":     true,
	"PmsItemCategory":        true,
}

var specializedItemChildren = map[string]map[string]bool{
	"PetOfferItem": {
		"Allowed":        true,
		"PetBreedorType": true,
		"MaximumSize":    true,
		"MaximumWeight":  true,
		"PetCare":        true,
	},
	"ParkingOfferItem": {
		"StructureType":    true,
		"ParkingSpaceSize": true,
		"SizeType":         true,
		"RegularSpace":     true,
		"Handicapped":      true,
		"Electric":         true,
		"SpaceDescription": true,
	},
	"StorageOfferItem": {
		"StorageType": true,
		"StorageUoM":  true,
		"Height":      true,
		"Width":       true,
		"Length":      true,
	},
}

// ItemStructureRule validates the common shape every offer item shares:
// a non-empty InternalCode unique within the class, required Name and
// Description, exactly one Characteristics block, at least one amount block,
// coherent occurrence bounds, and no unknown children beyond the variant's
// allowed extras.
type ItemStructureRule struct{}

func (r *ItemStructureRule) Name() string { return "item_structure" }

func (r *ItemStructureRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		seen := make(map[string]bool)

		for _, item := range offerItems(class) {
			itemCode := strings.TrimSpace(attr(item, "InternalCode"))
			itemPath := doc.Path(class) + "/" + string(item.TagName())

			if itemCode == "" {
				result.AddError("item_has_internal_code",
					fmt.Sprintf("Offer item in class '%s' missing required non-empty 'InternalCode' attribute", classCode),
					itemPath,
					Detail{"class_code": classCode})
				continue
			}
			itemPath = fmt.Sprintf("%s[@InternalCode='%s']", itemPath, itemCode)

			if seen[itemCode] {
				result.AddError("item_internal_code_unique",
					fmt.Sprintf("Duplicate InternalCode '%s' found in class '%s'. Codes must be unique within the same ChargeOfferClass", itemCode, classCode),
					itemPath,
					Detail{"class_code": classCode, "internal_code": itemCode})
			} else {
				seen[itemCode] = true
			}

			r.checkItem(result, item, itemCode, classCode, itemPath)
		}
	}

	return result
}

func (r *ItemStructureRule) checkItem(result *Result, item xmldom.Element, itemCode, classCode, itemPath string) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	if name := firstNamed(item, "Name"); name == nil {
		result.AddError("item_has_name",
			fmt.Sprintf("Item '%s' in class '%s' missing required <Name> element", itemCode, classCode),
			itemPath, detail)
	} else if text(name) == "" {
		result.AddError("item_has_name",
			fmt.Sprintf("Item '%s' in class '%s' has empty <Name> element", itemCode, classCode),
			itemPath+"/Name", detail)
	}

	if desc := firstNamed(item, "Description"); desc == nil {
		result.AddError("item_has_description",
			fmt.Sprintf("Item '%s' in class '%s' missing required <Description> element", itemCode, classCode),
			itemPath, detail)
	} else if text(desc) == "" {
		result.AddError("item_has_description",
			fmt.Sprintf("Item '%s' in class '%s' has empty <Description> element", itemCode, classCode),
			itemPath+"/Description", detail)
	}

	switch n := len(namedChildren(item, "Characteristics")); {
	case n == 0:
		result.AddError("item_has_one_characteristics",
			fmt.Sprintf("Item '%s' in class '%s' missing required <Characteristics> element", itemCode, classCode),
			itemPath, detail)
	case n > 1:
		result.AddError("item_has_one_characteristics",
			fmt.Sprintf("Item '%s' in class '%s' has multiple <Characteristics> elements. Only one is allowed", itemCode, classCode),
			itemPath,
			Detail{"class_code": classCode, "item_code": itemCode, "count": strconv.Itoa(n)})
	}

	if len(namedChildren(item, tagAmount)) == 0 {
		result.AddError("item_has_amount_blocks",
			fmt.Sprintf("Item '%s' in class '%s' must contain at least one <ChargeOfferAmount> element", itemCode, classCode),
			itemPath, detail)
	}

	r.checkOccurrences(result, item, itemCode, classCode, itemPath)

	allowed := commonItemChildren
	if extra := specializedItemChildren[string(item.TagName())]; extra != nil {
		allowed = make(map[string]bool, len(commonItemChildren)+len(extra))
		for tag := range commonItemChildren {
			allowed[tag] = true
		}
		for tag := range extra {
			allowed[tag] = true
		}
	}
	for _, child := range childElements(item) {
		tag := string(child.TagName())
		if !allowed[tag] {
			result.AddWarning("item_no_unexpected_children",
				fmt.Sprintf("Item '%s' contains unexpected child element <%s>", itemCode, tag),
				itemPath+"/"+tag, detail)
		}
	}
}

func (r *ItemStructureRule) checkOccurrences(result *Result, item xmldom.Element, itemCode, classCode, itemPath string) {
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	var minVal, maxVal int
	hasMin, hasMax := false, false

	if minText := childText(item, "ItemMinimumOccurrences"); minText != "" {
		v, err := strconv.Atoi(minText)
		switch {
		case err != nil:
			result.AddError("item_min_occurrence_valid",
				fmt.Sprintf("<ItemMinimumOccurrences> in item '%s' must be an integer, found '%s'", itemCode, minText),
				itemPath+"/ItemMinimumOccurrences", detail)
		case v < 0:
			result.AddError("item_min_occurrence_valid",
				fmt.Sprintf("<ItemMinimumOccurrences> in item '%s' must be >= 0, found '%s'", itemCode, minText),
				itemPath+"/ItemMinimumOccurrences", detail)
		default:
			minVal, hasMin = v, true
		}
	}

	if maxText := childText(item, "ItemMaximumOccurrences"); maxText != "" {
		v, err := strconv.Atoi(maxText)
		switch {
		case err != nil:
			result.AddError("item_max_occurrence_valid",
				fmt.Sprintf("<ItemMaximumOccurrences> in item '%s' must be an integer, found '%s'", itemCode, maxText),
				itemPath+"/ItemMaximumOccurrences", detail)
		case v < 1:
			result.AddError("item_max_occurrence_valid",
				fmt.Sprintf("<ItemMaximumOccurrences> in item '%s' must be >= 1, found '%s'", itemCode, maxText),
				itemPath+"/ItemMaximumOccurrences", detail)
		default:
			maxVal, hasMax = v, true
		}
	}

	if hasMin && hasMax && minVal > maxVal {
		result.AddError("item_occurrence_range_valid",
			fmt.Sprintf("Item '%s' has ItemMinimumOccurrences (%d) > ItemMaximumOccurrences (%d). Min must be <= Max", itemCode, minVal, maxVal),
			itemPath,
			Detail{
				"class_code": classCode,
				"item_code":  itemCode,
				"min":        strconv.Itoa(minVal),
				"max":        strconv.Itoa(maxVal),
			})
	}
}
