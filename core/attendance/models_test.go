package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func boolPtr(b bool) *bool { return &b }

func TestPercentage(t *testing.T) {
	tests := []struct {
		presences, lessons int
		want               float64
	}{
		{0, 0, 100},
		{0, 4, 0},
		{4, 4, 100},
		{2, 3, 66.7},
		{1, 3, 33.3},
		{7, 8, 87.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.presences, tt.lessons), "%d/%d", tt.presences, tt.lessons)
	}
}

func TestNewSummary(t *testing.T) {
	assert.Equal(t, Summary{EnrollmentID: 1, StudentID: "24000001", Lessons: 3, Presences: 2, Absences: 1, Percentage: 66.7},
		NewSummary(1, "24000001", 3, 2))
	assert.Equal(t, Summary{EnrollmentID: 2, StudentID: "24000002", Percentage: 100}, NewSummary(2, "24000002", 0, 0))
}

func TestSheet_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name       string
		sheet      Sheet
		wantFields []string
	}{
		{name: "valid", sheet: Sheet{Entries: []Entry{{EnrollmentID: 1, Present: boolPtr(false)}, {EnrollmentID: 2, Present: boolPtr(true)}}}},
		{name: "empty", sheet: Sheet{}, wantFields: []string{"registros"}},
		{name: "missing presence", sheet: Sheet{Entries: []Entry{{EnrollmentID: 1}}}, wantFields: []string{"registros[0].presente"}},
		{
			name:       "repeated enrolment",
			sheet:      Sheet{Entries: []Entry{{EnrollmentID: 1, Present: boolPtr(true)}, {EnrollmentID: 1, Present: boolPtr(false)}}},
			wantFields: []string{"registros[1].inscricaoId"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sheet.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				return
			}
			var fields []string
			for _, f := range core.FieldErrors(err, translator) {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}
