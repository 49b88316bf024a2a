package validator

import (
	"sort"
	"strings"
)

// Controlled vocabularies for characteristic fields. Matching is exact and
// case-sensitive unless a rule states otherwise.

var chargeRequirements = map[string]bool{
	"Included":    true,
	"Mandatory":   true,
	"Optional":    true,
	"Situational": true,
	"Conditional": true,
}

var lifecycleStages = map[string]bool{
	"At Application": true,
	"Move-in":        true,
	"During Term":    true,
	"Move-out":       true,
}

var paymentFrequencies = map[string]bool{
	"One-time":       true,
	"Monthly":        true,
	"Quarterly":      true,
	"Annually":       true,
	"Hourly":         true,
	"Per-occurrence": true,
}

// recurringFrequencies repeat over the life of the term; the rest settle once
// per triggering event.
var recurringFrequencies = map[string]bool{
	"Monthly":   true,
	"Quarterly": true,
	"Annually":  true,
}

var oneTimeFrequencies = map[string]bool{
	"One-time":       true,
	"Hourly":         true,
	"Per-occurrence": true,
}

var refundabilities = map[string]bool{
	"Non-refundable": true,
	"Refundable":     true,
	"Deposit":        true,
}

var refundabilityMaxTypes = map[string]bool{
	"Amount":     true,
	"Percentage": true,
}

const (
	basisExplicit   = "Explicit"
	basisPercentage = "Percentage Of"
	basisRange      = "Within Range"
	basisStepped    = "Stepped"
	basisVariable   = "Variable"

	// Legacy alias for Within Range still emitted by some feeds.
	basisRangeAlias = "Range or Variable"
)

var amountBases = map[string]bool{
	basisExplicit:   true,
	basisPercentage: true,
	basisRange:      true,
	basisStepped:    true,
	basisVariable:   true,
	basisRangeAlias: true,
}

var termBases = map[string]bool{
	"Whole Lease": true,
	"Whole Term":  true,
}

var perTypes = map[string]bool{
	"Item":        true,
	"Applicant":   true,
	"Leaseholder": true,
	"Person":      true,
	"Period":      true,
}

var petAllowedValues = map[string]bool{
	"Yes": true,
	"No":  true,
}

var availabilityValues = map[string]bool{
	"None":      true,
	"Available": true,
}

var storageUnits = map[string]bool{
	"sqft": true, "sq ft": true, "square feet": true,
	"sqm": true, "sq m": true, "square meters": true,
	"cuft": true, "cu ft": true, "cubic feet": true,
	"cum": true, "cu m": true, "cubic meters": true,
	"ft": true, "feet": true,
	"m": true, "meters": true,
	"in": true, "inches": true,
}

// allowedList renders an enum set as a stable, comma-joined string for
// diagnostic details.
func allowedList(set map[string]bool) string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, ", ")
}
