package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortalex12333/Cloud-PMS-sub020/pkg/tables"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(tables.Build(nil))
	require.NoError(t, err)
	return extractor
}

func TestExtractEntityFamilies(t *testing.T) {
	extractor := newTestExtractor(t)

	tests := []struct {
		query string
		want  []Entity
	}{
		{
			query: "diagnose E047 on ME1",
			want: []Entity{
				{Type: TypeFaultCode, Value: "E047", Confidence: 0.95, Span: Span{9, 13}},
				{Type: TypeEquipment, Value: "ME1", Confidence: 0.90, Span: Span{17, 20}},
			},
		},
		{
			query: "create work order for bilge pump",
			want: []Entity{
				{Type: TypeEquipment, Value: "bilge pump", Confidence: 0.90, Span: Span{22, 32}},
			},
		},
		{
			query: "impeller for the watermaker",
			want: []Entity{
				{Type: TypePart, Value: "impeller", Confidence: 0.80, Span: Span{0, 8}},
				{Type: TypeEquipment, Value: "watermaker", Confidence: 0.90, Span: Span{17, 27}},
			},
		},
		{
			query: "fuel system pressure 4.2 bar",
			want: []Entity{
				{Type: TypeSystem, Value: "fuel system", Confidence: 0.85, Span: Span{0, 11}},
				{Type: TypeMeasurement, Value: "4.2 bar", Confidence: 0.85, Span: Span{21, 28}},
			},
		},
		{
			query: "no entities here",
			want:  []Entity{},
		},
	}

	for _, tt := range tests {
		got := extractor.Extract(tt.query)
		assert.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	extractor := newTestExtractor(t)

	upper := extractor.Extract("BILGE PUMP STATUS")
	require.Len(t, upper, 1)
	assert.Equal(t, TypeEquipment, upper[0].Type)
	assert.Equal(t, "BILGE PUMP", upper[0].Value)
}

func TestOverlapResolution(t *testing.T) {
	extractor := newTestExtractor(t)

	t.Run("higher confidence wins", func(t *testing.T) {
		// "bilge pump" (equipment, 0.90) overlaps "bilge" (maritime term,
		// 0.70); only the equipment entity survives.
		got := extractor.Extract("bilge pump")
		require.Len(t, got, 1)
		assert.Equal(t, TypeEquipment, got[0].Type)
		assert.Equal(t, "bilge pump", got[0].Value)
	})

	t.Run("equal confidence prefers the longer match", func(t *testing.T) {
		// "main engine 1" and "main engine" are both equipment aliases at
		// the same confidence; the longer span wins.
		got := extractor.Extract("main engine 1 oil pressure")
		require.NotEmpty(t, got)
		assert.Equal(t, "main engine 1", got[0].Value)
		for _, entity := range got[1:] {
			assert.NotEqual(t, "main engine", entity.Value)
		}
	})

	t.Run("non-overlapping detections all survive", func(t *testing.T) {
		got := extractor.Extract("bilge pump and fuel filter in the engine room")
		values := make([]string, len(got))
		for i, entity := range got {
			values[i] = entity.Value
		}
		assert.Equal(t, []string{"bilge pump", "fuel filter", "engine room"}, values)
	})
}

func TestExtractOrderedByPosition(t *testing.T) {
	extractor := newTestExtractor(t)

	got := extractor.Extract("E047 after swapping the impeller on gen 1")
	require.Len(t, got, 3)
	assert.Equal(t, TypeFaultCode, got[0].Type)
	assert.Equal(t, TypePart, got[1].Type)
	assert.Equal(t, TypeEquipment, got[2].Type)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i].Span.Start, got[i-1].Span.End)
	}
}

func TestMeasurementForms(t *testing.T) {
	extractor := newTestExtractor(t)

	tests := []struct {
		query string
		value string
	}{
		{"running at 1500 rpm", "1500 rpm"},
		{"coolant at 88 deg c", "88 deg c"},
		{"battery reads 24v", "24v"},
		{"pressure dropped to 2.5 bar", "2.5 bar"},
	}
	for _, tt := range tests {
		got := extractor.Extract(tt.query)
		require.Len(t, got, 1, "query %q", tt.query)
		assert.Equal(t, TypeMeasurement, got[0].Type, "query %q", tt.query)
		assert.Equal(t, tt.value, got[0].Value, "query %q", tt.query)
	}
}
