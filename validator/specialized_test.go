package validator

import "testing"

func petItem(code, extras, blockBody string) string {
	return `
      <PetOfferItem InternalCode="` + code + `">
        <Name>Pet Fee ` + code + `</Name>
        <Description>Monthly pet rent</Description>
        <AmountBasis>Explicit</AmountBasis>` + extras + `
        <Characteristics>
          <ChargeRequirement>Optional</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>Monthly</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount>` + blockBody + `</ChargeOfferAmount>
      </PetOfferItem>`
}

func TestPetItem_AllowedEnum(t *testing.T) {
	res := validate(t, feeDocument(petItem("pet-1", "<Allowed>Maybe</Allowed>", "<Amounts>35.00</Amounts>")))
	if !hasRule(res.Errors, "pet_allowed_enum") {
		t.Fatalf("expected pet_allowed_enum, got %v", res.Errors)
	}

	res = validate(t, feeDocument(petItem("pet-2", "<Allowed>Yes</Allowed>", "<Amounts>35.00</Amounts>")))
	if hasRule(res.Errors, "pet_allowed_enum") {
		t.Fatalf("Yes is a valid Allowed value, got %v", res.Errors)
	}
}

func TestPetItem_NotAllowedRequiresEmptyAmounts(t *testing.T) {
	res := validate(t, feeDocument(petItem("pet-1", "<Allowed>No</Allowed>", "<Amounts>35.00</Amounts><Percentage>5</Percentage>")))
	if ruleCount(res.Errors, "pet_not_allowed_amounts_empty") != 2 {
		t.Fatalf("expected two pet_not_allowed_amounts_empty errors, got %v", res.Errors)
	}
}

func TestPetItem_WeightFormat(t *testing.T) {
	good := []string{"50lb", "25kg", "30", "45.5 lbs", "20 pounds"}
	for _, w := range good {
		res := validate(t, feeDocument(petItem("pet-1", "<MaximumWeight>"+w+"</MaximumWeight>", "<Amounts>35.00</Amounts>")))
		if hasRule(res.Errors, "pet_weight_format") {
			t.Fatalf("weight %q should be accepted, got %v", w, res.Errors)
		}
	}

	res := validate(t, feeDocument(petItem("pet-2", "<MaximumWeight>heavy</MaximumWeight>", "<Amounts>35.00</Amounts>")))
	if !hasRule(res.Errors, "pet_weight_format") {
		t.Fatalf("expected pet_weight_format, got %v", res.Errors)
	}
}

func TestPetItem_DepositRequiresCaps(t *testing.T) {
	deposit := `
      <PetOfferItem InternalCode="pet-dep">
        <Name>Pet Deposit</Name>
        <Description>Refundable pet deposit</Description>
        <AmountBasis>Explicit</AmountBasis>
        <Characteristics>
          <ChargeRequirement>Optional</ChargeRequirement>
          <Lifecycle>Move-in</Lifecycle>
          <PaymentFrequency>One-time</PaymentFrequency>
          <Refundability>Deposit</Refundability>
        </Characteristics>
        <ChargeOfferAmount><Amounts>300.00</Amounts></ChargeOfferAmount>
      </PetOfferItem>`

	res := validate(t, feeDocument(deposit))
	if ruleCount(res.Errors, "pet_deposit_max_required") != 2 {
		t.Fatalf("expected pet_deposit_max_required for both cap fields, got %v", res.Errors)
	}
}

func TestParkingItem_AvailabilityEnum(t *testing.T) {
	parking := `
      <ParkingOfferItem InternalCode="park-1">
        <Name>Covered Parking</Name>
        <Description>Reserved covered space</Description>
        <AmountBasis>Explicit</AmountBasis>
        <Electric>Sometimes</Electric>
        <RegularSpace>Available</RegularSpace>
        <Handicapped>None</Handicapped>
        <Characteristics>
          <ChargeRequirement>Optional</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>Monthly</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount><Amounts>75.00</Amounts></ChargeOfferAmount>
      </ParkingOfferItem>`

	res := validate(t, feeDocument(parking))
	if ruleCount(res.Errors, "parking_availability_enum") != 1 {
		t.Fatalf("expected one parking_availability_enum for Electric, got %v", res.Errors)
	}
}

func TestStorageItem_DimensionsAndUnit(t *testing.T) {
	storage := `
      <StorageOfferItem InternalCode="store-1">
        <Name>Storage Unit</Name>
        <Description>Basement storage unit</Description>
        <AmountBasis>Explicit</AmountBasis>
        <StorageUoM>parsecs</StorageUoM>
        <Height>tall</Height>
        <Width>-4</Width>
        <Length>10.5</Length>
        <Characteristics>
          <ChargeRequirement>Optional</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>Monthly</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount><Amounts>45.00</Amounts></ChargeOfferAmount>
      </StorageOfferItem>`

	res := validate(t, feeDocument(storage))
	if ruleCount(res.Errors, "storage_dimension_valid") != 2 {
		t.Fatalf("expected two storage_dimension_valid errors, got %v", res.Errors)
	}
	if !hasRule(res.Errors, "storage_uom_recognized") {
		t.Fatalf("expected storage_uom_recognized, got %v", res.Errors)
	}
}

func TestStorageItem_ValidStorage(t *testing.T) {
	storage := `
      <StorageOfferItem InternalCode="store-1">
        <Name>Storage Unit</Name>
        <Description>Basement storage unit</Description>
        <AmountBasis>Explicit</AmountBasis>
        <StorageUoM>sq ft</StorageUoM>
        <Height>8</Height>
        <Width>4</Width>
        <Length>10.5</Length>
        <Characteristics>
          <ChargeRequirement>Optional</ChargeRequirement>
          <Lifecycle>During Term</Lifecycle>
          <PaymentFrequency>Monthly</PaymentFrequency>
        </Characteristics>
        <ChargeOfferAmount><Amounts>45.00</Amounts></ChargeOfferAmount>
      </StorageOfferItem>`

	res := validate(t, feeDocument(storage))
	if !res.Valid {
		t.Fatalf("expected valid storage item, got %v", res.Errors)
	}
}
