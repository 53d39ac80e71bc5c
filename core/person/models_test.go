package person

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func strPtr(s string) *string { return &s }

func TestNewPerson_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	date := core.Date("2001-02-30")

	tests := []struct {
		name       string
		np         NewPerson
		wantFields []string
	}{
		{name: "minimal", np: NewPerson{FullName: "Ana Maria"}},
		{
			name: "complete",
			np: NewPerson{
				FullName: " Ana Maria ",
				Sex:      strPtr("F"),
				Email:    strPtr("ANA@Escola.com.br"),
				CPF:      strPtr("123.456.789-09"),
				Phone:    strPtr("(81) 99999-0000"),
				Address:  &Address{City: "Recife", State: "pe", PostalCode: "50000-000"},
			},
		},
		{name: "missing name", np: NewPerson{}, wantFields: []string{"nomeCompleto"}},
		{name: "short name", np: NewPerson{FullName: "Al"}, wantFields: []string{"nomeCompleto"}},
		{
			name: "bad fields",
			np: NewPerson{
				FullName:  "Ana Maria",
				Sex:       strPtr("X"),
				Email:     strPtr("ana"),
				CPF:       strPtr("123"),
				BirthDate: &date,
				Address:   &Address{State: "Pernambuco", PostalCode: "123"},
			},
			wantFields: []string{"sexo", "email", "cpf", "dataNascimento", "endereco.estado", "endereco.cep"},
		},
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
				assert.NotEmpty(t, f.Error)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestNewPerson_Clean(t *testing.T) {
	np := NewPerson{
		FullName: " Ana ",
		Email:    strPtr(" ANA@X.COM "),
		CPF:      strPtr("123.456.789-09"),
		Phone:    strPtr("  "),
		Address:  &Address{State: "sp", PostalCode: "01310-100"},
	}
	np.Clean()
	assert.Equal(t, "Ana", np.FullName)
	assert.Equal(t, "ana@x.com", *np.Email)
	assert.Equal(t, "12345678909", *np.CPF)
	assert.Nil(t, np.Phone)
	assert.Equal(t, &Address{State: "SP", PostalCode: "01310100"}, np.Address)
}

func TestUpdatePerson(t *testing.T) {
	validate, _ := core.NewValidator()

	// every field is optional
	require.NoError(t, (&UpdatePerson{}).Validate(validate))
	assert.Error(t, (&UpdatePerson{FullName: strPtr("Al")}).Validate(validate))

	p := Person{ID: 1, FullName: "Ana", Email: strPtr("ana@x.com"), Address: &Address{City: "Natal"}}
	UpdatePerson{FullName: strPtr("Ana Maria"), Address: &Address{}}.Apply(&p)
	assert.Equal(t, "Ana Maria", p.FullName)
	assert.Equal(t, "ana@x.com", *p.Email)
	assert.Nil(t, p.Address)
}

func TestVariantsFieldSets(t *testing.T) {
	read := core.JSONFieldNames(Person{})
	create := core.JSONFieldNames(NewPerson{})
	update := core.JSONFieldNames(UpdatePerson{})

	assert.ElementsMatch(t, create, update)
	assert.Subset(t, read, create)
	assert.ElementsMatch(t, []string{"id", "createdAt", "updatedAt"}, without(read, create))
}

func without(all, drop []string) []string {
	seen := make(map[string]bool, len(drop))
	for _, d := range drop {
		seen[d] = true
	}
	var out []string
	for _, a := range all {
		if !seen[a] {
			out = append(out, a)
		}
	}
	return out
}
