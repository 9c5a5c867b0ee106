package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLaneValid(t *testing.T) {
	for _, lane := range []Lane{LaneBlocked, LaneUnknown, LaneNoLLM, LaneRulesOnly, LaneGPT} {
		assert.True(t, lane.Valid(), "lane %q", lane)
	}

	assert.False(t, Lane("").Valid())
	assert.False(t, Lane("MAYBE").Valid())
	assert.False(t, Lane("blocked").Valid())
}
