// Package classification assigns exactly one lane to a guard-cleared query
// via an ordered cascade of pattern families.
package classification

// Lane is the five-way classification outcome of a query. The set is
// exhaustive and mutually exclusive: every query resolves to exactly one.
type Lane string

const (
	// LaneBlocked marks adversarial or off-topic input. Callers must
	// execute no action and render a neutral refusal.
	LaneBlocked Lane = "BLOCKED"

	// LaneUnknown marks input the router could not understand. Callers
	// show a clarification UI rather than guessing.
	LaneUnknown Lane = "UNKNOWN"

	// LaneNoLLM marks a direct database lookup; no language model is
	// involved.
	LaneNoLLM Lane = "NO_LLM"

	// LaneRulesOnly marks an actionable command dispatched to a
	// permission-checked handler.
	LaneRulesOnly Lane = "RULES_ONLY"

	// LaneGPT marks a diagnostic question requiring a language model.
	LaneGPT Lane = "GPT"
)

// Valid reports whether l is one of the five defined lanes.
func (l Lane) Valid() bool {
	switch l {
	case LaneBlocked, LaneUnknown, LaneNoLLM, LaneRulesOnly, LaneGPT:
		return true
	}
	return false
}
