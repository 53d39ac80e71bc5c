package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []WeightedScore
		want   float64
		wantOK bool
	}{
		{name: "nothing graded", scores: nil},
		{name: "zero weights", scores: []WeightedScore{{Score: 8, Weight: 0}}},
		{name: "single", scores: []WeightedScore{{Score: 7.5, Weight: 40}}, want: 7.5, wantOK: true},
		{
			name:   "weighted",
			scores: []WeightedScore{{Score: 10, Weight: 30}, {Score: 5, Weight: 70}},
			want:   6.5,
			wantOK: true,
		},
		{
			name:   "rounded",
			scores: []WeightedScore{{Score: 7, Weight: 1}, {Score: 8, Weight: 1}, {Score: 8, Weight: 1}},
			want:   7.67,
			wantOK: true,
		},
		{
			name:   "weights need not add up to 100",
			scores: []WeightedScore{{Score: 6, Weight: 2}, {Score: 9, Weight: 1}},
			want:   7,
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WeightedAverage(tt.scores)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNewWeightCheck(t *testing.T) {
	assert.Equal(t, WeightCheck{ClassID: 1, TotalWeight: 100, Expected: 100, Valid: true}, NewWeightCheck(1, 100))
	assert.Equal(t, WeightCheck{ClassID: 1, TotalWeight: 70, Expected: 100, Difference: 30}, NewWeightCheck(1, 70))
	assert.Equal(t, WeightCheck{ClassID: 2, TotalWeight: 120, Expected: 100, Difference: -20}, NewWeightCheck(2, 120))
}
