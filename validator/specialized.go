package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// PetItemRule validates PetOfferItem extras: the Allowed yes/no flag, empty
// amounts when pets are not allowed, the MaximumWeight format, and the
// refund cap fields a pet deposit requires.
type PetItemRule struct{}

func (r *PetItemRule) Name() string { return "pet_items" }

func (r *PetItemRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		for _, item := range namedChildren(class, "PetOfferItem") {
			itemCode := attr(item, "InternalCode")
			if itemCode == "" {
				itemCode = "unknown"
			}
			r.checkPetItem(doc, result, item, itemCode, classCode)
		}
	}

	return result
}

func (r *PetItemRule) checkPetItem(doc *Document, result *Result, item xmldom.Element, itemCode, classCode string) {
	itemPath := doc.Path(item)
	detail := Detail{"class_code": classCode, "item_code": itemCode}

	if allowed := childText(item, "Allowed"); allowed != "" {
		if !petAllowedValues[allowed] {
			result.AddError("pet_allowed_enum",
				fmt.Sprintf("Invalid Allowed '%s'. Must be one of: %s", allowed, allowedList(petAllowedValues)),
				itemPath+"/Allowed", detail)
		}

		if allowed == "No" {
			for idx, block := range namedChildren(item, tagAmount) {
				blockPath := fmt.Sprintf("%s/ChargeOfferAmount[%d]", itemPath, idx+1)
				if amounts := joinedAmountsText(block); amounts != "" {
					result.AddError("pet_not_allowed_amounts_empty",
						fmt.Sprintf("Pet item '%s' has Allowed='No' but non-empty <Amounts>='%s'. Amounts must be empty when pets are not allowed", itemCode, amounts),
						blockPath+"/Amounts", detail)
				}
				if pct := childText(block, "Percentage"); pct != "" {
					result.AddError("pet_not_allowed_amounts_empty",
						fmt.Sprintf("Pet item '%s' has Allowed='No' but non-empty <Percentage>='%s'. Percentage must be empty when pets are not allowed", itemCode, pct),
						blockPath+"/Percentage", detail)
				}
			}
		}
	}

	if weight := childText(item, "MaximumWeight"); weight != "" && !isPetWeight(weight) {
		result.AddError("pet_weight_format",
			fmt.Sprintf("Pet item '%s' has invalid <MaximumWeight>='%s'. Expected format: number with optional unit (e.g., '50lb', '25kg', '30')", itemCode, weight),
			itemPath+"/MaximumWeight",
			Detail{"class_code": classCode, "item_code": itemCode, "value": weight})
	}

	// A pet deposit needs its refund cap declared even when the generic
	// characteristics checks accept the flat fallback fields.
	if chars := firstNamed(item, "Characteristics"); chars != nil {
		if childText(chars, "Refundability") == "Deposit" {
			if refundCapField(chars, "RefundMaxType", "RefundabilityMaxType") == "" {
				result.AddError("pet_deposit_max_required",
					fmt.Sprintf("Pet deposit '%s' has Refundability='Deposit' but missing <RefundabilityMaxType>", itemCode),
					itemPath+"/Characteristics", detail)
			}
			if refundCapField(chars, "RefundMax", "RefundabilityMax") == "" {
				result.AddError("pet_deposit_max_required",
					fmt.Sprintf("Pet deposit '%s' has Refundability='Deposit' but missing <RefundabilityMax>", itemCode),
					itemPath+"/Characteristics", detail)
			}
		}
	}
}

// refundCapField reads a refund cap value from RefundDetails or from the
// legacy flat field on Characteristics.
func refundCapField(chars xmldom.Element, detailsTag, flatTag string) string {
	if details := firstNamed(chars, "RefundDetails"); details != nil {
		if v := childText(details, detailsTag); v != "" {
			return v
		}
	}
	return childText(chars, flatTag)
}

// ParkingItemRule validates ParkingOfferItem extras: the availability enums
// on Electric, RegularSpace and Handicapped.
type ParkingItemRule struct{}

func (r *ParkingItemRule) Name() string { return "parking_items" }

func (r *ParkingItemRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		for _, item := range namedChildren(class, "ParkingOfferItem") {
			itemCode := attr(item, "InternalCode")
			if itemCode == "" {
				itemCode = "unknown"
			}
			itemPath := doc.Path(item)
			detail := Detail{"class_code": classCode, "item_code": itemCode}

			for _, field := range []string{"Electric", "RegularSpace", "Handicapped"} {
				if v := childText(item, field); v != "" && !availabilityValues[v] {
					result.AddError("parking_availability_enum",
						fmt.Sprintf("Invalid %s '%s'. Must be one of: %s", field, v, allowedList(availabilityValues)),
						itemPath+"/"+field, detail)
				}
			}
		}
	}

	return result
}

// StorageItemRule validates StorageOfferItem extras: non-negative decimal
// dimensions and a recognized unit of measure.
type StorageItemRule struct{}

func (r *StorageItemRule) Name() string { return "storage_items" }

func (r *StorageItemRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, class := range doc.Classes() {
		classCode := attr(class, "Code")
		if classCode == "" {
			classCode = "unknown"
		}
		for _, item := range namedChildren(class, "StorageOfferItem") {
			itemCode := attr(item, "InternalCode")
			if itemCode == "" {
				itemCode = "unknown"
			}
			itemPath := doc.Path(item)

			for _, field := range []string{"Height", "Width", "Length"} {
				v := childText(item, field)
				if v == "" {
					continue
				}
				if !isDecimal(v) {
					result.AddError("storage_dimension_valid",
						fmt.Sprintf("Storage item '%s' <%s> must be a valid decimal, found '%s'", itemCode, field, v),
						itemPath+"/"+field,
						Detail{"class_code": classCode, "item_code": itemCode, "value": v})
				} else if !isNonNegativeDecimal(v) {
					result.AddError("storage_dimension_valid",
						fmt.Sprintf("Storage item '%s' <%s> must be >= 0, found '%s'", itemCode, field, v),
						itemPath+"/"+field,
						Detail{"class_code": classCode, "item_code": itemCode, "value": v})
				}
			}

			if uom := strings.ToLower(childText(item, "StorageUoM")); uom != "" && !storageUnits[uom] {
				result.AddError("storage_uom_recognized",
					fmt.Sprintf("Storage item '%s' has unrecognized <StorageUoM>='%s'. Expected one of: %s", itemCode, uom, allowedList(storageUnits)),
					itemPath+"/StorageUoM",
					Detail{"class_code": classCode, "item_code": itemCode, "value": uom})
			}
		}
	}

	return result
}
