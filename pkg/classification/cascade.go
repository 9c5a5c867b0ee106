package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/metrics"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

// Pattern family names, in cascade order.
const (
	FamilyElliptical     = "elliptical"
	FamilyImplicitAction = "implicit_action"
	FamilyCommand        = "command"
	FamilyDirectLookup   = "direct_lookup"
	FamilyGPTTrigger     = "gpt_trigger"
	FamilyNone           = "none"
)

// ReasonNoMatch is the diagnostic reason recorded when no family matched.
// Reason codes are diagnostic only; no behavior may branch on them.
const ReasonNoMatch = "no_pattern_match"

// Match is the outcome of one cascade evaluation.
type Match struct {
	Lane       Lane
	Family     string
	Reason     string
	Confidence float64
}

// preppedFamily stores precompiled patterns for one rule of a pattern
// family, with its target lane and diagnostic reason code.
type preppedFamily struct {
	Family     string
	Reason     string
	Lane       Lane
	Confidence float64
	Patterns   []*regexp.Regexp
}

// Cascade evaluates pattern families in strict priority order and falls
// through to UNKNOWN when nothing matches. UNKNOWN is deliberate: treating
// "didn't understand" as a safe lookup is a latent security defect.
type Cascade struct {
	families []preppedFamily
	prefixes []string // politeness prefixes, longest first
	suffixes []string // politeness suffixes, longest first
}

// NewCascade compiles the pattern families from the given tables.
func NewCascade(t *tables.Tables) (*Cascade, error) {
	specs := []struct {
		family     string
		reason     string
		lane       Lane
		confidence float64
		patterns   []string
	}{
		{FamilyElliptical, "elliptical_command", LaneRulesOnly, 0.70, t.EllipticalPatterns},
		{FamilyImplicitAction, "implicit_action", LaneRulesOnly, 0.75, t.ImplicitActionPatterns},
		{FamilyCommand, "explicit_command", LaneRulesOnly, 0.90, t.CommandPatterns},
		{FamilyDirectLookup, "structured_identifier", LaneNoLLM, 0.95, []string{t.LookupIdentifierPattern}},
		{FamilyDirectLookup, "direct_lookup", LaneNoLLM, 0.85, t.LookupPhrasePatterns},
		{FamilyGPTTrigger, "diagnosis_intent", LaneGPT, 0.85, t.DiagnosisIntentPatterns},
		{FamilyGPTTrigger, "problem_vocabulary", LaneGPT, 0.80, []string{t.ProblemWordPattern}},
		{FamilyGPTTrigger, "temporal_context", LaneGPT, 0.75, t.TemporalContextPatterns},
	}

	c := &Cascade{
		prefixes: sortedByLength(t.PolitenessPrefixes),
		suffixes: sortedByLength(t.PolitenessSuffixes),
	}
	for _, spec := range specs {
		prepped := preppedFamily{
			Family:     spec.family,
			Reason:     spec.reason,
			Lane:       spec.lane,
			Confidence: spec.confidence,
		}
		for _, pattern := range spec.patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("failed to compile %s pattern %q: %w", spec.family, pattern, err)
			}
			prepped.Patterns = append(prepped.Patterns, re)
		}
		c.families = append(c.families, prepped)
	}
	return c, nil
}

// Classify runs the cascade over a guard-cleared query. First match wins;
// the fallback is always UNKNOWN, never a permissive lane.
func (c *Cascade) Classify(query string) Match {
	normalized := c.stripPoliteness(query)
	if normalized == "" {
		return Match{Lane: LaneUnknown, Family: FamilyNone, Reason: ReasonNoMatch}
	}

	for _, fam := range c.families {
		for _, re := range fam.Patterns {
			if re.MatchString(normalized) {
				metrics.RecordCascadeMatch(fam.Family)
				logging.Debugf("Cascade matched family %q (reason=%s, lane=%s)", fam.Family, fam.Reason, fam.Lane)
				return Match{Lane: fam.Lane, Family: fam.Family, Reason: fam.Reason, Confidence: fam.Confidence}
			}
		}
	}

	return Match{Lane: LaneUnknown, Family: FamilyNone, Reason: ReasonNoMatch}
}

// stripPoliteness removes politeness prefixes and suffixes at word
// boundaries. It is a pure normalization step applied once per query and
// never removes interior content words.
func (c *Cascade) stripPoliteness(query string) string {
	s := strings.ToLower(strings.TrimSpace(query))
	s = strings.Trim(s, " \t,.!?")

	for changed := true; changed; {
		changed = false
		for _, prefix := range c.prefixes {
			if s == prefix {
				return ""
			}
			if rest, ok := cutAffix(s, prefix, true); ok {
				s = rest
				changed = true
				break
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, suffix := range c.suffixes {
			if s == suffix {
				return ""
			}
			if rest, ok := cutAffix(s, suffix, false); ok {
				s = rest
				changed = true
				break
			}
		}
	}
	return strings.Trim(s, " \t,.!?")
}

// cutAffix removes affix from the front (prefix=true) or back of s when it
// sits at a word boundary, returning the trimmed remainder.
func cutAffix(s, affix string, prefix bool) (string, bool) {
	if prefix {
		if !strings.HasPrefix(s, affix) {
			return s, false
		}
		rest := s[len(affix):]
		if rest == "" || (rest[0] != ' ' && rest[0] != ',') {
			return s, false
		}
		return strings.TrimLeft(rest, " ,"), true
	}
	if !strings.HasSuffix(s, affix) {
		return s, false
	}
	rest := s[:len(s)-len(affix)]
	if rest == "" || (rest[len(rest)-1] != ' ' && rest[len(rest)-1] != ',') {
		return s, false
	}
	return strings.TrimRight(rest, " ,"), true
}

func sortedByLength(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
