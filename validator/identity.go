package validator

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// IdentityHygieneRule checks Building, Floorplan and ILS_Unit identity
// attributes: non-empty, free of surrounding whitespace, and unique within
// the enclosing Property. Floorplan and ILS_Unit ids use per-Property scope,
// the same as Building.
type IdentityHygieneRule struct{}

func (r *IdentityHygieneRule) Name() string { return "identity_hygiene" }

var identityLevels = []struct {
	tag    string
	ruleID string
}{
	{"Building", "building_id_unique"},
	{"Floorplan", "floorplan_id_unique"},
	{"ILS_Unit", "unit_id_unique"},
}

func (r *IdentityHygieneRule) Validate(doc *Document) *Result {
	result := NewResult()

	for _, prop := range doc.Properties() {
		propID := strings.TrimSpace(attr(prop, "IDValue"))
		if propID == "" {
			propID = "unknown"
		}
		for _, level := range identityLevels {
			checkLevelIDs(result, prop, propID, level.tag, level.ruleID)
		}
	}

	return result
}

func checkLevelIDs(result *Result, prop xmldom.Element, propID, tag, ruleID string) {
	seen := make(map[string]bool)

	for idx, elem := range descendantsNamed(prop, tag) {
		id := attr(elem, "IDValue")

		if strings.TrimSpace(id) == "" {
			result.AddError("id_no_whitespace",
				fmt.Sprintf("<%s> element #%d in Property '%s' has empty @IDValue attribute", tag, idx+1, propID),
				fmt.Sprintf("/Property[@IDValue='%s']//%s[%d]", propID, tag, idx+1))
			continue
		}

		if id != strings.TrimSpace(id) {
			result.AddError("id_no_whitespace",
				fmt.Sprintf("<%s> @IDValue '%s' in Property '%s' has leading or trailing whitespace", tag, id, propID),
				fmt.Sprintf("/Property[@IDValue='%s']//%s[@IDValue='%s']", propID, tag, id),
				Detail{"id_value": id, "trimmed": strings.TrimSpace(id)})
			// Uniqueness is still checked on the trimmed value so a trimmed
			// duplicate is flagged independently.
			id = strings.TrimSpace(id)
		}

		if seen[id] {
			result.AddError(ruleID,
				fmt.Sprintf("Duplicate <%s> @IDValue '%s' found in Property '%s'. IDs must be unique within each Property", tag, id, propID),
				fmt.Sprintf("/Property[@IDValue='%s']//%s[@IDValue='%s']", propID, tag, id),
				Detail{"duplicate_id": id, "property_id": propID})
			continue
		}
		seen[id] = true
	}
}
