package validator

import (
	"strings"
	"testing"
)

func replaceRequirement(item, req string) string {
	return strings.Replace(item,
		"<ChargeRequirement>Mandatory</ChargeRequirement>",
		"<ChargeRequirement>"+req+"</ChargeRequirement>", 1)
}

// itemWith builds an offer item with the given basis line and amount block
// body, carrying otherwise valid characteristics.
func itemWith(code, basis, blockBody string) string {
	basisLine := ""
	if basis != "" {
		basisLine = "<AmountBasis>" + basis + "</AmountBasis>"
	}
	return `
      <ChargeOfferItem InternalCode="` + code + `">
        <Name>Fee ` + code + `</Name>
        <Description>Description for ` + code + `</Description>
        ` + basisLine + `
        <Characteristics>
          <ChargeRequirement>Mandatory</ChargeRequirement>
          <Lifecycle>At Application</Lifecycle>
          <PaymentFrequency>One-time</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount>` + blockBody + `</ChargeOfferAmount>
      </ChargeOfferItem>`
}

func TestAmountBasis_InvalidEnum(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Sometimes", "<Amounts>50.00</Amounts>")))
	if !hasRule(res.Errors, "basis_enum_valid") {
		t.Fatalf("expected basis_enum_valid, got %v", res.Errors)
	}
}

func TestAmountBasis_EmptyBasisRequiresIncluded(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "", "<Amounts>50.00</Amounts>")))
	if !hasRule(res.Errors, "item_amount_basis_required") {
		t.Fatalf("expected item_amount_basis_required, got %v", res.Errors)
	}
}

func TestAmountBasis_IncludedWithAmountsExactlyOneError(t *testing.T) {
	item := `
      <ChargeOfferItem InternalCode="util-fee">
        <Name>Utilities</Name>
        <Description>Utilities included in rent</Description>
        <Characteristics>
          <ChargeRequirement>Included</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>One-time</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount>
          <Amounts>25.00</Amounts>
        </ChargeOfferAmount>
      </ChargeOfferItem>`

	res := validate(t, feeDocument(item))
	if res.Valid {
		t.Fatal("expected invalid document")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", res.Errors)
	}
	if res.Errors[0].RuleID != "basis_included_amounts_empty" {
		t.Fatalf("expected basis_included_amounts_empty, got %s", res.Errors[0].RuleID)
	}
}

func TestAmountBasis_IncludedCleanItemValid(t *testing.T) {
	item := `
      <ChargeOfferItem InternalCode="util-fee">
        <Name>Utilities</Name>
        <Description>Utilities included in rent</Description>
        <Characteristics>
          <ChargeRequirement>Included</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>One-time</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount></ChargeOfferAmount>
      </ChargeOfferItem>`

	res := validate(t, feeDocument(item))
	if !res.Valid {
		t.Fatalf("expected valid Included item, got %v", res.Errors)
	}
}

func TestAmountBasis_IncludedWithBasisAndPercentage(t *testing.T) {
	item := itemWith("util-fee", "Explicit", "<Percentage>10</Percentage>")
	item = replaceRequirement(item, "Included")

	res := validate(t, feeDocument(item))
	if !hasRule(res.Errors, "basis_included_empty") {
		t.Fatalf("expected basis_included_empty, got %v", res.Errors)
	}
	if !hasRule(res.Errors, "basis_included_percentage_empty") {
		t.Fatalf("expected basis_included_percentage_empty, got %v", res.Errors)
	}
}

func TestAmountBasis_ExplicitRequiresAmounts(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "")))
	if !hasRule(res.Errors, "basis_explicit_amounts_nonempty") {
		t.Fatalf("expected basis_explicit_amounts_nonempty, got %v", res.Errors)
	}
}

func TestAmountBasis_ExplicitRejectsPercentage(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "<Amounts>50.00</Amounts><Percentage>10</Percentage>")))
	if !hasRule(res.Errors, "basis_explicit_percentage_empty") {
		t.Fatalf("expected basis_explicit_percentage_empty, got %v", res.Errors)
	}
}

func TestAmountBasis_PercentageOfComplete(t *testing.T) {
	doc := feeDocument(
		standardItem("rent", "Monthly Rent") +
			itemWith("admin-fee", "Percentage Of", "<Percentage>10</Percentage><PercentageOfCode>rent</PercentageOfCode>"))

	res := validate(t, doc)
	if !res.Valid {
		t.Fatalf("expected valid percentage-of item, got %v", res.Errors)
	}
}

func TestAmountBasis_PercentageOfMissingPieces(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Percentage Of", "<Amounts>50.00</Amounts>")))
	for _, id := range []string{"basis_percentage_has_value", "basis_percentage_amounts_empty", "basis_percentage_has_code"} {
		if !hasRule(res.Errors, id) {
			t.Fatalf("expected %s, got %v", id, res.Errors)
		}
	}
}

func TestAmountBasis_PercentageCodeWithoutPercentageBasis(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "<Amounts>50.00</Amounts><PercentageOfCode>other</PercentageOfCode>")))
	if !hasRule(res.Errors, "item_percentage_code_when_needed") {
		t.Fatalf("expected item_percentage_code_when_needed, got %v", res.Errors)
	}
}

func TestAmountBasis_RangeRequiresTwoAmounts(t *testing.T) {
	// Two separate elements: valid.
	res := validate(t, feeDocument(itemWith("fee-1", "Within Range", "<Amounts>25.00</Amounts><Amounts>75.00</Amounts>")))
	if hasRule(res.Errors, "basis_range_two_amounts") {
		t.Fatalf("two separate Amounts should satisfy range, got %v", res.Errors)
	}

	// A joined pair in one element does not count.
	res = validate(t, feeDocument(itemWith("fee-2", "Within Range", "<Amounts>25.00-75.00</Amounts>")))
	if !hasRule(res.Errors, "basis_range_two_amounts") {
		t.Fatalf("expected basis_range_two_amounts, got %v", res.Errors)
	}

	// Three elements is too many.
	res = validate(t, feeDocument(itemWith("fee-3", "Within Range", "<Amounts>1.00</Amounts><Amounts>2.00</Amounts><Amounts>3.00</Amounts>")))
	if !hasRule(res.Errors, "basis_range_two_amounts") {
		t.Fatalf("expected basis_range_two_amounts for three elements, got %v", res.Errors)
	}
}

func TestAmountBasis_RangeAliasAccepted(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Range or Variable", "<Amounts>25.00</Amounts><Amounts>75.00</Amounts>")))
	if hasRule(res.Errors, "basis_enum_valid") || hasRule(res.Errors, "basis_range_two_amounts") {
		t.Fatalf("Range or Variable alias should behave as Within Range, got %v", res.Errors)
	}
}

func TestAmountBasis_SteppedRequiresTwoValues(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Stepped", "<Amounts>50.00</Amounts>")))
	if !hasRule(res.Errors, "basis_stepped_min_two") {
		t.Fatalf("expected basis_stepped_min_two, got %v", res.Errors)
	}

	// Comma-packed values in one element count individually.
	res = validate(t, feeDocument(itemWith("fee-2", "Stepped", "<Amounts>25.00, 50.00, 75.00</Amounts>")))
	if hasRule(res.Errors, "basis_stepped_min_two") {
		t.Fatalf("comma-separated stepped values should count, got %v", res.Errors)
	}

	// So do separate elements.
	res = validate(t, feeDocument(itemWith("fee-3", "Stepped", "<Amounts>25.00</Amounts><Amounts>50.00</Amounts>")))
	if hasRule(res.Errors, "basis_stepped_min_two") {
		t.Fatalf("separate stepped elements should count, got %v", res.Errors)
	}

	// Tab-joined values as well.
	res = validate(t, feeDocument(itemWith("fee-4", "Stepped", "<Amounts>25.00\t50.00</Amounts>")))
	if hasRule(res.Errors, "basis_stepped_min_two") {
		t.Fatalf("tab-separated stepped values should count, got %v", res.Errors)
	}
}

func TestAmountBasis_VariableRequiresExactlyOne(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Variable", "")))
	if !hasRule(res.Errors, "basis_variable_not_both") {
		t.Fatalf("expected basis_variable_not_both for empty block, got %v", res.Errors)
	}

	res = validate(t, feeDocument(itemWith("fee-2", "Variable", "<Amounts>50.00</Amounts><Percentage>10</Percentage>")))
	if !hasRule(res.Errors, "basis_variable_not_both") {
		t.Fatalf("expected basis_variable_not_both for both present, got %v", res.Errors)
	}

	res = validate(t, feeDocument(itemWith("fee-3", "Variable", "<Amounts>50.00</Amounts>")))
	if hasRule(res.Errors, "basis_variable_not_both") {
		t.Fatalf("single Amounts should satisfy Variable, got %v", res.Errors)
	}
}
