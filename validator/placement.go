package validator

import (
	"fmt"
	"sort"
	"strings"
)

// FeePlacementRule checks that every ChargeOfferClass has an ancestor at one
// of the four supported hierarchy levels. Intermediate wrapper elements
// between the level and the class are tolerated. Each offer item must also
// carry at least one ChargeOfferAmount; the amount check repeats the
// item-level rule in placement context so a misparented class still reports
// complete findings.
type FeePlacementRule struct{}

func (r *FeePlacementRule) Name() string { return "fee_placement" }

func (r *FeePlacementRule) Validate(doc *Document) *Result {
	result := NewResult()

	supported := make([]string, 0, len(feeParentTags))
	for tag := range feeParentTags {
		supported = append(supported, tag)
	}
	sort.Strings(supported)

	for _, class := range doc.Classes() {
		if doc.NearestAncestor(class, feeParentTags) == nil {
			result.AddError("fee_placement_supported",
				fmt.Sprintf("<ChargeOfferClass> found outside supported parent contexts. Must be under one of: %s",
					strings.Join(supported, ", ")),
				doc.Path(class))
		}

		classCode := attr(class, "Code")
		for _, item := range offerItems(class) {
			if len(namedChildren(item, tagAmount)) == 0 {
				result.AddError("item_has_amount_blocks",
					"Offer item must contain at least one <ChargeOfferAmount> element",
					doc.Path(item),
					Detail{"class_code": classCode, "item_code": attr(item, "InternalCode")})
			}
		}
	}

	return result
}
