// Package guard rejects unsafe or off-topic input before any lane pattern
// is evaluated, so no adversarial payload ever reaches an LLM or a lookup
// path. Guards run in a fixed order and are pure and total: matching is
// backtracking-free (Go regexp is RE2) and always terminates.
package guard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/classification"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/metrics"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

// Guard names, also used as metric labels.
const (
	GuardPasteDump    = "paste_dump"
	GuardNonDomain    = "non_domain"
	GuardInjection    = "injection_token"
	GuardClauseDomain = "clause_domain"
)

// Verdict is a terminal guard outcome. A nil *Verdict means pass-through.
type Verdict struct {
	Lane   classification.Lane
	Guard  string
	Reason string
}

// Stack is the ordered chain of guards. Immutable after construction and
// safe for unlimited concurrent callers.
type Stack struct {
	nonDomain  []*regexp.Regexp
	injection  []*regexp.Regexp
	clauseRe   *regexp.Regexp
	alphaRatio float64
	minLength  int
}

// NewStack compiles the guard signatures from the given tables.
func NewStack(t *tables.Tables) (*Stack, error) {
	s := &Stack{
		alphaRatio: t.PasteDumpAlphaRatio,
		minLength:  t.PasteDumpMinLength,
	}

	for _, pattern := range t.NonDomainPhrases {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile non-domain pattern %q: %w", pattern, err)
		}
		s.nonDomain = append(s.nonDomain, re)
	}
	for _, pattern := range t.InjectionSignatures {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile injection signature %q: %w", pattern, err)
		}
		s.injection = append(s.injection, re)
	}

	quoted := make([]string, len(t.Conjunctions))
	for i, word := range t.Conjunctions {
		quoted[i] = regexp.QuoteMeta(word)
	}
	clauseRe, err := regexp.Compile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile clause splitter: %w", err)
	}
	s.clauseRe = clauseRe

	return s, nil
}

// Evaluate runs the guards in order against the query. It returns the first
// terminal verdict, or nil when every guard passes.
func (s *Stack) Evaluate(query string) *Verdict {
	if v := s.checkPasteDump(query); v != nil {
		return s.hit(v)
	}
	if v := s.checkNonDomain(query); v != nil {
		return s.hit(v)
	}
	if v := s.checkInjection(query, GuardInjection); v != nil {
		return s.hit(v)
	}
	if v := s.checkClauses(query); v != nil {
		return s.hit(v)
	}
	return nil
}

func (s *Stack) hit(v *Verdict) *Verdict {
	metrics.RecordGuardHit(v.Guard)
	logging.Debugf("Guard %q fired: lane=%s reason=%s", v.Guard, v.Lane, v.Reason)
	return v
}

// checkPasteDump flags structural gibberish: long input whose alphabetic
// rune ratio falls below the threshold (pasted logs, hex dumps, minified
// blobs).
func (s *Stack) checkPasteDump(query string) *Verdict {
	var total, alpha int
	for _, r := range query {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			alpha++
		}
	}
	if total < s.minLength {
		return nil
	}
	if float64(alpha)/float64(total) < s.alphaRatio {
		return &Verdict{Lane: classification.LaneUnknown, Guard: GuardPasteDump, Reason: GuardPasteDump}
	}
	return nil
}

// checkNonDomain matches off-topic phrase patterns against the whole query.
func (s *Stack) checkNonDomain(query string) *Verdict {
	for _, re := range s.nonDomain {
		if re.MatchString(query) {
			return &Verdict{Lane: classification.LaneBlocked, Guard: GuardNonDomain, Reason: "non_domain_topic"}
		}
	}
	return nil
}

// checkInjection matches structural injection markers anywhere in the
// text. A query can start on-domain and embed a token mid-string.
func (s *Stack) checkInjection(text, guard string) *Verdict {
	for _, re := range s.injection {
		if re.MatchString(text) {
			return &Verdict{Lane: classification.LaneBlocked, Guard: guard, Reason: "injection_token"}
		}
	}
	return nil
}

// checkClauses splits the query on coordinating conjunctions and re-applies
// the non-domain and injection guards to each clause independently. Any bad
// clause blocks the whole query, closing "false domain anchor" inputs like
// "check the engine also what's bitcoin price".
func (s *Stack) checkClauses(query string) *Verdict {
	clauses := s.clauseRe.Split(query, -1)
	if len(clauses) < 2 {
		return nil
	}
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		for _, re := range s.nonDomain {
			if re.MatchString(clause) {
				return &Verdict{Lane: classification.LaneBlocked, Guard: GuardClauseDomain, Reason: "non_domain_clause"}
			}
		}
		if v := s.checkInjection(clause, GuardClauseDomain); v != nil {
			return &Verdict{Lane: classification.LaneBlocked, Guard: GuardClauseDomain, Reason: "injection_clause"}
		}
	}
	return nil
}
