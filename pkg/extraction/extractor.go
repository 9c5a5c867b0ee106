// Package extraction identifies maritime-domain entities in a query.
// Extraction is structurally independent of lane classification: its output
// never influences, and is never influenced by, the lane decision.
package extraction

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/metrics"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

// EntityType names an entity family.
type EntityType string

const (
	TypeEquipment    EntityType = "equipment"
	TypeSystem       EntityType = "system"
	TypePart         EntityType = "part"
	TypeFaultCode    EntityType = "fault_code"
	TypeMeasurement  EntityType = "measurement"
	TypeMaritimeTerm EntityType = "maritime_term"
)

// Detection confidence per family. Dictionary hits on specific equipment
// are trusted more than free-text maritime vocabulary.
const (
	confFaultCode    = 0.95
	confEquipment    = 0.90
	confSystem       = 0.85
	confMeasurement  = 0.85
	confPart         = 0.80
	confMaritimeTerm = 0.70
)

// specificity orders types for overlap ties: fault codes beat equipment,
// equipment beats generic terms.
var specificity = map[EntityType]int{
	TypeFaultCode:    6,
	TypeEquipment:    5,
	TypeSystem:       4,
	TypeMeasurement:  3,
	TypePart:         2,
	TypeMaritimeTerm: 1,
}

// Span is the half-open byte range [Start, End) of a detection.
type Span struct {
	Start int
	End   int
}

// Entity is a single detection. Value is the raw matched text.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Confidence float64    `json:"confidence"`
	Span       Span       `json:"-"`
}

func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// matcher is one compiled recognizer: a regex bound to a type and a fixed
// detection confidence.
type matcher struct {
	typ        EntityType
	confidence float64
	re         *regexp.Regexp
}

// Extractor scans queries for entities of all families. Immutable after
// construction; safe for concurrent use.
type Extractor struct {
	matchers []matcher
}

// NewExtractor compiles the entity dictionaries and regex conventions from
// the given tables.
func NewExtractor(t *tables.Tables) (*Extractor, error) {
	e := &Extractor{}

	dictionaries := []struct {
		typ        EntityType
		confidence float64
		dict       map[string]string
	}{
		{TypeEquipment, confEquipment, t.EquipmentAliases},
		{TypeSystem, confSystem, t.SystemNames},
		{TypePart, confPart, t.PartNames},
		{TypeMaritimeTerm, confMaritimeTerm, t.MaritimeTerms},
	}
	for _, d := range dictionaries {
		for alias := range d.dict {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(alias) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("failed to compile %s alias %q: %w", d.typ, alias, err)
			}
			e.matchers = append(e.matchers, matcher{typ: d.typ, confidence: d.confidence, re: re})
		}
	}

	for _, pattern := range t.FaultCodePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile fault code pattern %q: %w", pattern, err)
		}
		e.matchers = append(e.matchers, matcher{typ: TypeFaultCode, confidence: confFaultCode, re: re})
	}

	re, err := regexp.Compile(t.MeasurementPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile measurement pattern %q: %w", t.MeasurementPattern, err)
	}
	e.matchers = append(e.matchers, matcher{typ: TypeMeasurement, confidence: confMeasurement, re: re})

	return e, nil
}

// Extract returns every entity detected in the query, overlap-resolved and
// ordered by position. A query may yield zero, one, or many entities of
// mixed types.
func (e *Extractor) Extract(query string) []Entity {
	var candidates []Entity
	for _, m := range e.matchers {
		for _, idx := range m.re.FindAllStringIndex(query, -1) {
			candidates = append(candidates, Entity{
				Type:       m.typ,
				Value:      query[idx[0]:idx[1]],
				Confidence: m.confidence,
				Span:       Span{Start: idx[0], End: idx[1]},
			})
		}
	}

	resolved := resolveOverlaps(candidates)
	for _, entity := range resolved {
		metrics.RecordEntityExtracted(string(entity.Type))
	}
	return resolved
}

// resolveOverlaps keeps the higher-confidence detection when two spans
// overlap; ties resolve to the more specific type, then the longer match.
// Detections are never averaged.
func resolveOverlaps(candidates []Entity) []Entity {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if specificity[a.Type] != specificity[b.Type] {
			return specificity[a.Type] > specificity[b.Type]
		}
		if la, lb := a.Span.End-a.Span.Start, b.Span.End-b.Span.Start; la != lb {
			return la > lb
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		return a.Value < b.Value
	})

	kept := make([]Entity, 0, len(candidates))
	for _, candidate := range candidates {
		overlapping := false
		for _, existing := range kept {
			if candidate.Span.overlaps(existing.Span) {
				overlapping = true
				break
			}
		}
		if !overlapping {
			kept = append(kept, candidate)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Span.Start != kept[j].Span.Start {
			return kept[i].Span.Start < kept[j].Span.Start
		}
		return kept[i].Span.End < kept[j].Span.End
	})
	return kept
}
