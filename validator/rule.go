package validator

// Rule validates one section of the MITS 5.0 fee-offer specification against
// a parsed document. Rules are pure: they read the shared tree through the
// Document wrapper and return an independent Result, never mutating shared
// state, so the orchestrator is free to run them in any scheduler that
// preserves the fixed merge order.
type Rule interface {
	// Name returns the stable identifier used for tracing and ordering
	// (e.g. "container", "amount_basis").
	Name() string

	// Validate checks the rule against the document and returns its findings.
	Validate(doc *Document) *Result
}

// containerRules run in the terminal phase: a failure here stops the
// pipeline because every later rule assumes a minimally shaped tree.
func containerRules() []Rule {
	return []Rule{
		&ContainerRule{},
	}
}

// structureRules complete the structural phase once the container shape is
// established.
func structureRules() []Rule {
	return []Rule{
		&FeePlacementRule{},
		&IdentityHygieneRule{},
	}
}

// classRules cover fee-class existence, code scoping and limits.
func classRules() []Rule {
	return []Rule{
		&ClassStructureRule{},
		&ClassLimitsRule{},
	}
}

// itemRules cover per-item structure, characteristics and pricing basis.
func itemRules() []Rule {
	return []Rule{
		&ItemStructureRule{},
		&CharacteristicsRule{},
		&AmountBasisRule{},
		&AmountBlocksRule{},
	}
}

// alignmentRules cover frequency coherence and the specialized item variants.
func alignmentRules() []Rule {
	return []Rule{
		&FrequencyAlignmentRule{},
		&PetItemRule{},
		&ParkingItemRule{},
		&StorageItemRule{},
	}
}

// integrityRules cover whole-document reference checks.
func integrityRules() []Rule {
	return []Rule{
		&IntegrityRule{},
	}
}

// qualityRules cover text/numeric hygiene and duplicate detection.
func qualityRules() []Rule {
	return []Rule{
		&DataQualityRule{},
	}
}
