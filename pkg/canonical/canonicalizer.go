// Package canonical normalizes extracted entities to canonical identifiers
// and assigns fixed per-type importance weights. It never invents an entity
// absent from extraction and never drops one, however low its confidence;
// downstream consumers decide relevance.
package canonical

import (
	"regexp"
	"strings"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/extraction"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

// Entity is the normalized, weighted form of an extracted entity.
type Entity struct {
	Type       extraction.EntityType `json:"type"`
	Value      string                `json:"value"`
	Canonical  string                `json:"canonical"`
	Confidence float64               `json:"confidence"`
	Weight     float64               `json:"weight"`
}

var (
	measurementValueRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s?(.+)$`)
	faultCodeSepRe     = regexp.MustCompile(`[\s-]+`)
	nonIdentRe         = regexp.MustCompile(`[^A-Z0-9_]+`)
)

// Canonicalizer maps surface forms to canonical identifiers via the static
// lookup tables. Immutable after construction.
type Canonicalizer struct {
	forms   map[string]string
	units   map[string]string
	weights map[string]float64
}

// New builds a Canonicalizer from the given tables.
func New(t *tables.Tables) *Canonicalizer {
	return &Canonicalizer{
		forms:   t.CanonicalForms,
		units:   t.UnitForms,
		weights: t.TypeWeights,
	}
}

// Canonicalize maps each extracted entity to its canonical form, then
// merges duplicate (type, canonical) pairs keeping the maximum confidence.
// Output order follows first occurrence. Canonicalizing an already-canonical
// list is a no-op.
func (c *Canonicalizer) Canonicalize(entities []extraction.Entity) []Entity {
	out := make([]Entity, 0, len(entities))
	index := make(map[string]int, len(entities))

	for _, entity := range entities {
		canonical := c.canonicalForm(entity.Type, entity.Value)
		key := string(entity.Type) + "\x00" + canonical

		if i, seen := index[key]; seen {
			if entity.Confidence > out[i].Confidence {
				out[i].Confidence = entity.Confidence
			}
			continue
		}

		index[key] = len(out)
		out = append(out, Entity{
			Type:       entity.Type,
			Value:      entity.Value,
			Canonical:  canonical,
			Confidence: entity.Confidence,
			Weight:     c.weights[string(entity.Type)],
		})
	}
	return out
}

func (c *Canonicalizer) canonicalForm(typ extraction.EntityType, value string) string {
	switch typ {
	case extraction.TypeFaultCode:
		return faultCodeSepRe.ReplaceAllString(strings.ToUpper(strings.TrimSpace(value)), "")
	case extraction.TypeMeasurement:
		return c.normalizeMeasurement(value)
	default:
		if canonical, ok := c.forms[strings.ToLower(strings.TrimSpace(value))]; ok {
			return canonical
		}
		// Unknown surface form: fall back to a stable identifier shape.
		// The rewrite is a fixed point, so re-canonicalizing is a no-op.
		upper := strings.ToUpper(strings.TrimSpace(value))
		return strings.Trim(nonIdentRe.ReplaceAllString(upper, "_"), "_")
	}
}

// normalizeMeasurement rewrites "24v" or "88 deg c" as "24 V" / "88 °C",
// using the unit spelling table. Unknown units are uppercased as-is.
func (c *Canonicalizer) normalizeMeasurement(value string) string {
	m := measurementValueRe.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return strings.ToUpper(strings.TrimSpace(value))
	}
	number, unit := m[1], strings.TrimSpace(strings.ToLower(m[2]))
	if normalized, ok := c.units[unit]; ok {
		return number + " " + normalized
	}
	return number + " " + strings.ToUpper(unit)
}
