package class

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func TestNewClass_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name       string
		nc         NewClass
		wantFields []string
	}{
		{name: "valid", nc: NewClass{SubjectID: 1, ProfessorID: "P2400001", Semester: "2024.2"}},
		{name: "empty", nc: NewClass{}, wantFields: []string{"disciplinaId", "professorId", "semestre"}},
		{name: "bad semester", nc: NewClass{SubjectID: 1, ProfessorID: "P2400001", Semester: "2024.3"}, wantFields: []string{"semestre"}},
		{name: "short professor code", nc: NewClass{SubjectID: 1, ProfessorID: "P24", Semester: "2024.1"}, wantFields: []string{"professorId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nc.Validate(validate)
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

func TestNewEnrollment_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	ne := NewEnrollment{ClassID: 1, StudentID: "24000001"}
	require.NoError(t, ne.Validate(validate))
	assert.Equal(t, Enrolled, ne.Status)

	over := 10.1
	ne = NewEnrollment{ClassID: 1, StudentID: "24000001", FinalGrade: &over}
	assert.Error(t, ne.Validate(validate))

	status := "PENDING"
	ue := UpdateEnrollment{Status: &status}
	assert.Error(t, ue.Validate(validate))
}
