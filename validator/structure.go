package validator

import (
	"fmt"
	"strings"
)

// ContainerRule checks the document container shape: a PhysicalProperty root
// holding at least one Property, each with a non-empty @IDValue unique across
// the whole document. This is the only rule whose failure terminates the
// pipeline; everything downstream assumes this shape exists.
type ContainerRule struct{}

func (r *ContainerRule) Name() string { return "container" }

func (r *ContainerRule) Validate(doc *Document) *Result {
	result := NewResult()
	root := doc.Root()

	if tag := string(root.TagName()); tag != tagRoot {
		result.AddError("root_is_physical_property",
			fmt.Sprintf("Root element must be <PhysicalProperty>, found <%s>", tag),
			"/"+tag)
		return result
	}

	properties := doc.Properties()
	if len(properties) == 0 {
		result.AddError("property_exists",
			"<PhysicalProperty> must contain at least one <Property> element",
			"/PhysicalProperty")
		return result
	}

	seen := make(map[string]bool, len(properties))
	for idx, prop := range properties {
		id := attr(prop, "IDValue")
		trimmed := strings.TrimSpace(id)

		if trimmed == "" {
			result.AddError("property_has_id",
				fmt.Sprintf("<Property> element #%d missing or has empty @IDValue attribute", idx+1),
				fmt.Sprintf("/PhysicalProperty/Property[%d]", idx+1))
			continue
		}

		if seen[trimmed] {
			result.AddError("property_id_unique",
				fmt.Sprintf("Duplicate Property @IDValue '%s' found. Property IDs must be unique across all <Property> elements", trimmed),
				fmt.Sprintf("/PhysicalProperty/Property[@IDValue='%s']", trimmed),
				Detail{"duplicate_id": trimmed})
			continue
		}
		seen[trimmed] = true
	}

	return result
}
