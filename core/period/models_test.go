package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }

func TestNewPeriod_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	tests := []struct {
		name       string
		np         NewPeriod
		wantFields []string
	}{
		{name: "valid", np: NewPeriod{CurriculumID: 1, Number: 1}},
		{name: "empty", np: NewPeriod{}, wantFields: []string{"curriculoId", "numero"}},
		{name: "number too high", np: NewPeriod{CurriculumID: 1, Number: 21}, wantFields: []string{"numero"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.np.Validate(validate)
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

func TestNewLink_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	t.Run("mandatory defaults to true", func(t *testing.T) {
		nl := NewLink{SubjectID: 5, PeriodID: 2}
		require.NoError(t, nl.Validate(validate))
		require.NotNil(t, nl.Mandatory)
		assert.True(t, *nl.Mandatory)
		assert.Equal(t, Link{SubjectID: 5, PeriodID: 2, Mandatory: true}, nl.Build())
	})

	t.Run("zero order is rejected", func(t *testing.T) {
		nl := NewLink{SubjectID: 5, PeriodID: 2, Order: intPtr(0)}
		flds := core.FieldErrors(nl.Validate(validate), translator)
		require.Len(t, flds, 1)
		assert.Equal(t, "ordem", flds[0].Field)
	})
}

func TestUpdateLink_Validate(t *testing.T) {
	validate, translator := core.NewValidator()

	ul := UpdateLink{}
	flds := core.FieldErrors(ul.Validate(validate), translator)
	require.Len(t, flds, 1)
	assert.Equal(t, emptyLinkUpdateText, flds[0].Error)

	ul = UpdateLink{Mandatory: boolPtr(false)}
	require.NoError(t, ul.Validate(validate))
	l := Link{ID: 1, Order: intPtr(2), Mandatory: true}
	ul.Apply(&l)
	assert.Equal(t, Link{ID: 1, Order: intPtr(2)}, l)

	// field rules run before the non-empty rule
	ul = UpdateLink{Order: intPtr(-1)}
	flds = core.FieldErrors(ul.Validate(validate), translator)
	require.Len(t, flds, 1)
	assert.Equal(t, "ordem", flds[0].Field)
}

func TestVariantsFieldSets(t *testing.T) {
	read := core.JSONFieldNames(Period{})
	create := core.JSONFieldNames(NewPeriod{})
	update := core.JSONFieldNames(UpdatePeriod{})

	assert.ElementsMatch(t, create, update)
	assert.ElementsMatch(t, append(create, "id", "createdAt", "updatedAt"), read)
	assert.ElementsMatch(t,
		append(read, "curriculo", "disciplinas", "totalDisciplinas", "totalAlunos"),
		core.JSONFieldNames(WithRelations{}))
	assert.Subset(t, read, core.JSONFieldNames(Summary{}))

	t.Run("links", func(t *testing.T) {
		read := core.JSONFieldNames(Link{})
		create := core.JSONFieldNames(NewLink{})
		update := core.JSONFieldNames(UpdateLink{})

		assert.ElementsMatch(t, append(create, "id", "createdAt", "updatedAt"), read)
		// a link never moves to another subject or period
		assert.ElementsMatch(t, append(update, "disciplinaId", "periodoId"), create)
	})
}
