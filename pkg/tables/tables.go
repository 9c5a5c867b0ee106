// Package tables holds the static pattern tables the lane router pipeline
// is built from: guard signatures, cascade pattern families, entity
// dictionaries, canonical forms, and per-type importance weights.
//
// Tables are constructed once at startup by Build and never mutated
// afterwards; concurrent readers need no synchronization. Configuration can
// append entries but never remove or reorder the built-in ones.
package tables

import (
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
)

// Tables is the merged, immutable rule table set.
type Tables struct {
	// Guard stack.
	InjectionSignatures []string
	NonDomainPhrases    []string
	Conjunctions        []string
	PasteDumpAlphaRatio float64
	PasteDumpMinLength  int
	MaxQueryLength      int

	// Lane cascade.
	PolitenessPrefixes      []string
	PolitenessSuffixes      []string
	EllipticalPatterns      []string
	ImplicitActionPatterns  []string
	CommandPatterns         []string
	LookupIdentifierPattern string
	LookupPhrasePatterns    []string
	ProblemWordPattern      string
	TemporalContextPatterns []string
	DiagnosisIntentPatterns []string

	// Entity extraction dictionaries: surface form -> canonical identifier.
	EquipmentAliases map[string]string
	SystemNames      map[string]string
	PartNames        map[string]string
	MaritimeTerms    map[string]string

	// Entity extraction regexes.
	FaultCodePatterns  []string
	MeasurementPattern string

	// Canonicalization.
	CanonicalForms map[string]string // lowercased surface form -> canonical id
	UnitForms      map[string]string // lowercased unit spelling -> normalized unit
	TypeWeights    map[string]float64
}

// Build merges the built-in tables with the extensions from cfg. A nil cfg
// yields the built-in tables with default thresholds.
func Build(cfg *config.RouterConfig) *Tables {
	if cfg == nil {
		cfg = config.Default()
	}

	t := &Tables{
		InjectionSignatures: append(cloneSlice(injectionSignatures), cfg.Tables.ExtraInjectionSignatures...),
		NonDomainPhrases:    append(cloneSlice(nonDomainPhrases), cfg.Tables.ExtraNonDomainPhrases...),
		Conjunctions:        cloneSlice(conjunctions),
		PasteDumpAlphaRatio: cfg.Guards.PasteDumpAlphaRatio,
		PasteDumpMinLength:  cfg.Guards.PasteDumpMinLength,
		MaxQueryLength:      cfg.Guards.MaxQueryLength,

		PolitenessPrefixes:      cloneSlice(politenessPrefixes),
		PolitenessSuffixes:      cloneSlice(politenessSuffixes),
		EllipticalPatterns:      cloneSlice(ellipticalPatterns),
		ImplicitActionPatterns:  cloneSlice(implicitActionPatterns),
		CommandPatterns:         cloneSlice(commandPatterns),
		LookupIdentifierPattern: lookupIdentifierPattern,
		LookupPhrasePatterns:    cloneSlice(lookupPhrasePatterns),
		ProblemWordPattern:      problemWordPattern,
		TemporalContextPatterns: cloneSlice(temporalContextPatterns),
		DiagnosisIntentPatterns: cloneSlice(diagnosisIntentPatterns),

		EquipmentAliases: mergeMaps(equipmentAliases, cfg.Tables.ExtraEquipmentAliases),
		SystemNames:      mergeMaps(systemNames, nil),
		PartNames:        mergeMaps(partNames, nil),
		MaritimeTerms:    mergeMaps(maritimeTerms, nil),

		FaultCodePatterns:  cloneSlice(faultCodePatterns),
		MeasurementPattern: measurementPattern,

		UnitForms:   mergeMaps(unitForms, nil),
		TypeWeights: mergeWeights(typeWeights),
	}

	// The canonical-forms table covers every dictionary surface form plus
	// self-mappings for the canonical identifiers, so canonicalization is
	// idempotent by construction.
	forms := make(map[string]string)
	for _, dict := range []map[string]string{t.EquipmentAliases, t.SystemNames, t.PartNames, t.MaritimeTerms} {
		for alias, canonical := range dict {
			forms[alias] = canonical
			forms[lower(canonical)] = canonical
		}
	}
	for alias, canonical := range cfg.Tables.ExtraCanonicalForms {
		forms[lower(alias)] = canonical
		forms[lower(canonical)] = canonical
	}
	t.CanonicalForms = forms

	return t
}

func cloneSlice(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func mergeMaps(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[lower(k)] = v
	}
	for k, v := range extra {
		out[lower(k)] = v
	}
	return out
}

func mergeWeights(base map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base))
	for k, v := range base {
		out[k] = v
	}
	return out
}
