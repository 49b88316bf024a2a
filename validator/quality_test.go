package validator

import (
	"strings"
	"testing"
)

func TestQuality_BlankName(t *testing.T) {
	item := strings.Replace(standardItem("fee-1", "placeholder"),
		"<Name>placeholder</Name>", "<Name>   </Name>", 1)
	res := validate(t, feeDocument(item))
	if !hasRule(res.Errors, "hygiene_text_nonblank") {
		t.Fatalf("expected hygiene_text_nonblank, got %v", res.Errors)
	}
}

func TestQuality_CurrencyJunkInAmounts(t *testing.T) {
	for _, value := range []string{"$50.00", "1,500.00", "50 00"} {
		res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "<Amounts>"+value+"</Amounts>")))
		if !hasRule(res.Errors, "hygiene_numeric_format") {
			t.Fatalf("value %q: expected hygiene_numeric_format, got %v", value, res.Errors)
		}
	}
}

func TestQuality_LeadingPlus(t *testing.T) {
	res := validate(t, feeDocument(itemWith("fee-1", "Explicit", "<Amounts>+50.00</Amounts>")))
	if !hasRule(res.Errors, "hygiene_no_leading_plus") {
		t.Fatalf("expected hygiene_no_leading_plus, got %v", res.Errors)
	}
	if hasRule(res.Errors, "hygiene_numeric_format") {
		t.Fatalf("leading plus has its own rule, got %v", res.Errors)
	}
}

func TestQuality_DuplicateItemNames(t *testing.T) {
	doc := feeDocument(
		standardItem("fee-1", "Application Fee") +
			strings.Replace(standardItem("fee-2", "application fee"),
				"<Lifecycle>At Application</Lifecycle>", "<Lifecycle>Move-in</Lifecycle>", 1))

	res := validate(t, doc)
	if !hasRule(res.Errors, "duplicate_item_name") {
		t.Fatalf("expected case-insensitive duplicate_item_name, got %v", res.Errors)
	}
}

func TestQuality_DuplicateItemDefinition(t *testing.T) {
	doc := feeDocument(standardItem("fee-1", "Application Fee") + standardItem("fee-2", "Application Fee"))
	res := validate(t, doc)
	if !hasRule(res.Errors, "duplicate_item_definition") {
		t.Fatalf("expected duplicate_item_definition, got %v", res.Errors)
	}
}

func TestQuality_DistinctItemsNotFlagged(t *testing.T) {
	doc := feeDocument(standardItem("fee-1", "Application Fee") + standardItem("fee-2", "Administration Fee"))
	res := validate(t, doc)
	if hasRule(res.Errors, "duplicate_item_definition") || hasRule(res.Errors, "duplicate_item_name") {
		t.Fatalf("distinct items should not be flagged, got %v", res.Errors)
	}
}
