// Package services wires the guard stack, lane cascade, entity extractor,
// and canonicalizer into the classification pipeline consumed by the API
// server and the CLI.
package services

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/canonical"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/classification"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/config"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/extraction"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/guard"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/logging"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/observability/metrics"
	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

// Diagnostic reason codes produced by the pipeline itself (the cascade and
// guards carry their own). Reasons are never used for behavior branching.
const (
	ReasonEmptyOrInvalid = "empty_or_invalid"
	ReasonInternalError  = "internal_error"
)

// Global classification service instance
var (
	globalMu                    sync.RWMutex
	globalClassificationService *ClassificationService
)

// Scores carries the confidence pair consumed by caller-side policy.
type Scores struct {
	IntentConfidence float64 `json:"intent_confidence"`
	EntityConfidence float64 `json:"entity_confidence"`
}

// Metadata carries per-request bookkeeping.
type Metadata struct {
	LatencyMs int64 `json:"latency_ms"`
}

// Result is the sole externally visible artifact of a classification. It
// has no lifecycle beyond the request.
type Result struct {
	Lane              classification.Lane `json:"lane"`
	LaneReason        string              `json:"lane_reason"`
	Entities          []extraction.Entity `json:"entities"`
	CanonicalEntities []canonical.Entity  `json:"canonical_entities"`
	Scores            Scores              `json:"scores"`
	Metadata          Metadata            `json:"metadata"`
}

// ClassificationService runs the full pipeline. It is a pure, synchronous,
// CPU-bound function of its input plus the immutable tables: no I/O, no
// locks, no observable effect of one request on another.
type ClassificationService struct {
	guards        *guard.Stack
	cascade       *classification.Cascade
	extractor     *extraction.Extractor
	canonicalizer *canonical.Canonicalizer
	maxQueryRunes int
}

// NewClassificationService builds the pipeline from the given config. The
// pattern tables are constructed once here and never mutated afterwards.
func NewClassificationService(cfg *config.RouterConfig) (*ClassificationService, error) {
	t := tables.Build(cfg)

	guards, err := guard.NewStack(t)
	if err != nil {
		return nil, err
	}
	cascade, err := classification.NewCascade(t)
	if err != nil {
		return nil, err
	}
	extractor, err := extraction.NewExtractor(t)
	if err != nil {
		return nil, err
	}

	service := &ClassificationService{
		guards:        guards,
		cascade:       cascade,
		extractor:     extractor,
		canonicalizer: canonical.New(t),
		maxQueryRunes: t.MaxQueryLength,
	}

	globalMu.Lock()
	globalClassificationService = service
	globalMu.Unlock()
	return service, nil
}

// GetGlobalClassificationService returns the most recently constructed
// service, or nil if none exists yet.
func GetGlobalClassificationService() *ClassificationService {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalClassificationService
}

// Classify converts a raw query into a Result. It is total: for any input,
// including adversarial and non-UTF-8 bytes, it returns exactly one of the
// five lanes and never panics across this boundary. An internal matcher
// fault fails closed to BLOCKED.
func (s *ClassificationService) Classify(query string) (result *Result) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("Classification fault, failing closed: %v", r)
			metrics.RecordInternalFault()
			result = &Result{
				Lane:              classification.LaneBlocked,
				LaneReason:        ReasonInternalError,
				Entities:          []extraction.Entity{},
				CanonicalEntities: []canonical.Entity{},
			}
		}
		result.Metadata.LatencyMs = time.Since(start).Milliseconds()
		metrics.RecordClassification(string(result.Lane), time.Since(start).Seconds())
	}()

	result = s.classify(query)
	return result
}

func (s *ClassificationService) classify(query string) *Result {
	result := &Result{
		Entities:          []extraction.Entity{},
		CanonicalEntities: []canonical.Entity{},
	}

	if strings.TrimSpace(query) == "" || utf8.RuneCountInString(query) > s.maxQueryRunes {
		result.Lane = classification.LaneUnknown
		result.LaneReason = ReasonEmptyOrInvalid
		return result
	}

	if verdict := s.guards.Evaluate(query); verdict != nil {
		result.Lane = verdict.Lane
		result.LaneReason = verdict.Reason
		return result
	}

	// The cascade decides the lane; extraction runs on the guard-cleared
	// query regardless of which lane was chosen. The two must not interact.
	match := s.cascade.Classify(query)
	result.Lane = match.Lane
	result.LaneReason = match.Reason
	result.Scores.IntentConfidence = match.Confidence

	entities := s.extractor.Extract(query)
	if len(entities) > 0 {
		result.Entities = entities
	}
	canonicalEntities := s.canonicalizer.Canonicalize(entities)
	if len(canonicalEntities) > 0 {
		result.CanonicalEntities = canonicalEntities
	}
	result.Scores.EntityConfidence = maxConfidence(canonicalEntities)

	return result
}

// ClassifyBatch classifies queries independently. Requests are
// order-insensitive, so the batch fans out across goroutines with no
// coordination beyond the join.
func (s *ClassificationService) ClassifyBatch(queries []string) []*Result {
	results := make([]*Result, len(queries))
	var wg sync.WaitGroup
	for i, query := range queries {
		wg.Add(1)
		go func(i int, query string) {
			defer wg.Done()
			results[i] = s.Classify(query)
		}(i, query)
	}
	wg.Wait()
	return results
}

func maxConfidence(entities []canonical.Entity) float64 {
	best := 0.0
	for _, entity := range entities {
		if entity.Confidence > best {
			best = entity.Confidence
		}
	}
	return best
}
