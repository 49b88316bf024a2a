package validator

import (
	"strings"
	"testing"
)

func TestFrequency_PerTypeEnum(t *testing.T) {
	item := strings.Replace(standardItem("fee-1", "Fee"),
		"<AmountBasis>", "<AmountPerType>Household</AmountPerType><AmountBasis>", 1)
	res := validate(t, feeDocument(item))
	if !hasRule(res.Errors, "amount_per_type_enum") {
		t.Fatalf("expected amount_per_type_enum, got %v", res.Errors)
	}
}

func TestFrequency_PerApplicantNote(t *testing.T) {
	item := strings.Replace(standardItem("fee-1", "Fee"),
		"<AmountBasis>", "<AmountPerType>Applicant</AmountPerType><AmountBasis>", 1)
	res := validate(t, feeDocument(item))
	if !res.Valid {
		t.Fatalf("Applicant per-type is legal, got %v", res.Errors)
	}
	if !hasRule(res.Info, "amount_per_applicant_note") {
		t.Fatalf("expected amount_per_applicant_note info, got %v", res.Info)
	}
}

func TestFrequency_RecurringPercentageOfOneTime(t *testing.T) {
	doc := feeDocument(
		standardItem("app-fee", "Application Fee") +
			pctItem("admin-pct", "app-fee", "Monthly"))

	res := validate(t, doc)
	if !hasRule(res.Errors, "frequency_basis_coherent") {
		t.Fatalf("expected frequency_basis_coherent, got %v", res.Errors)
	}
}

func TestFrequency_HourlyWithPeriodPerType(t *testing.T) {
	item := strings.Replace(standardItem("fee-1", "Fee"),
		"<AmountBasis>", "<AmountPerType>Period</AmountPerType><AmountBasis>", 1)
	item = strings.Replace(item,
		"<PaymentFrequency>One-time</PaymentFrequency>", "<PaymentFrequency>Hourly</PaymentFrequency>", 1)

	res := validate(t, feeDocument(item))
	if !hasRule(res.Errors, "frequency_per_type_coherent") {
		t.Fatalf("expected frequency_per_type_coherent, got %v", res.Errors)
	}
}

func TestFrequency_MonthlyWithRangeWarning(t *testing.T) {
	item := itemWith("fee-1", "Within Range", "<Amounts>25.00</Amounts><Amounts>75.00</Amounts>")
	item = strings.Replace(item,
		"<PaymentFrequency>One-time</PaymentFrequency>", "<PaymentFrequency>Monthly</PaymentFrequency>", 1)

	res := validate(t, feeDocument(item))
	if !hasRule(res.Warnings, "frequency_range_monthly") {
		t.Fatalf("expected frequency_range_monthly warning, got %v", res.Warnings)
	}
}

func TestFrequency_DuringTermRequiresFrequency(t *testing.T) {
	item := strings.Replace(itemWith("fee-1", "Explicit", "<Amounts>50.00</Amounts>"),
		"<Lifecycle>At Application</Lifecycle>", "<Lifecycle>During Term</Lifecycle>", 1)
	item = strings.Replace(item, "<PaymentFrequency>One-time</PaymentFrequency>", "", 1)

	res := validate(t, feeDocument(item))
	if !hasRule(res.Errors, "frequency_during_term_required") {
		t.Fatalf("expected frequency_during_term_required, got %v", res.Errors)
	}
}

func TestFrequency_OneTimeWithTermBasisNote(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "<Amounts>50.00</Amounts><TermBasis>Whole Lease</TermBasis>")))
	if !res.Valid {
		t.Fatalf("one-time with TermBasis is allowed, got %v", res.Errors)
	}
	if !hasRule(res.Info, "onetime_with_term_basis") {
		t.Fatalf("expected onetime_with_term_basis info, got %v", res.Info)
	}
}
