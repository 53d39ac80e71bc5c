package student

import (
	"encoding/json"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/user"
)

func int64Ptr(i int64) *int64 { return &i }

func newValidator() (*validator.Validate, ut.Translator) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	InitValidators(validate)
	return validate, translator
}

func fieldNames(flds []core.FieldError) []string {
	names := make([]string, 0, len(flds))
	for _, f := range flds {
		names = append(names, f.Field)
	}
	return names
}

func TestNewStudent_Validate(t *testing.T) {
	validate, translator := newValidator()
	gpa := 10.5

	tests := []struct {
		name       string
		ns         NewStudent
		wantFields []string
	}{
		{name: "existing person", ns: NewStudent{PersonID: int64Ptr(1), CourseID: 1, EntryYear: 2024}},
		{name: "inline person", ns: NewStudent{Person: &person.NewPerson{FullName: "Ana Maria"}, CourseID: 1, EntryYear: 2024}},
		{name: "given ra", ns: NewStudent{RA: "2024A001", PersonID: int64Ptr(1), CourseID: 1, EntryYear: 2024}},
		{
			name:       "no person",
			ns:         NewStudent{CourseID: 1, EntryYear: 2024},
			wantFields: []string{"pessoaId"},
		},
		{
			name:       "both persons",
			ns:         NewStudent{PersonID: int64Ptr(1), Person: &person.NewPerson{FullName: "Ana Maria"}, CourseID: 1, EntryYear: 2024},
			wantFields: []string{"pessoaId"},
		},
		{
			name:       "field rules first",
			ns:         NewStudent{RA: "123", CourseID: 1, EntryYear: 1800, GPA: &gpa},
			wantFields: []string{"ra", "anoIngresso", "coeficienteAcad"},
		},
		{
			name:       "inline person errors are nested",
			ns:         NewStudent{Person: &person.NewPerson{FullName: "Al", CPF: strPtr("1")}, CourseID: 1, EntryYear: 2024},
			wantFields: []string{"pessoa.nomeCompleto", "pessoa.cpf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, StatusActive, tt.ns.Build(1).Status)
				return
			}
			assert.ElementsMatch(t, tt.wantFields, fieldNames(core.FieldErrors(err, translator)))
		})
	}
}

func strPtr(s string) *string { return &s }

func TestNewStudentWithUser_Validate(t *testing.T) {
	validate, translator := newValidator()
	base := NewStudent{PersonID: int64Ptr(1), CourseID: 1, EntryYear: 2024}

	t.Run("no user", func(t *testing.T) {
		nsu := NewStudentWithUser{NewStudent: base}
		require.NoError(t, nsu.Validate(validate))
		assert.Nil(t, nsu.NewUser(1))
	})

	t.Run("password required with createUser", func(t *testing.T) {
		nsu := NewStudentWithUser{NewStudent: base, CreateUser: true, Username: "ana"}
		flds := core.FieldErrors(nsu.Validate(validate), translator)
		assert.Equal(t, []string{"password"}, fieldNames(flds))
	})

	t.Run("password similar to username", func(t *testing.T) {
		nsu := NewStudentWithUser{NewStudent: base, CreateUser: true, Username: "anamaria", Password: "anamaria1"}
		flds := core.FieldErrors(nsu.Validate(validate), translator)
		require.Equal(t, []string{"password"}, fieldNames(flds))
		assert.Equal(t, user.PasswordPolicyText(user.PwdAttrSimTag), flds[0].Error)
	})

	t.Run("role defaults to ALUNO", func(t *testing.T) {
		nsu := NewStudentWithUser{NewStudent: base, CreateUser: true, Username: " Ana_M ", Password: "s3nha-F0rte!"}
		require.NoError(t, nsu.Validate(validate))
		nu := nsu.NewUser(9)
		require.NotNil(t, nu)
		assert.Equal(t, user.RoleAluno, nu.Role)
		assert.Equal(t, "ana_m", nu.Username)
		assert.Equal(t, int64(9), nu.PersonID)
	})

	t.Run("flat json", func(t *testing.T) {
		var nsu NewStudentWithUser
		body := `{"pessoaId":1,"cursoId":1,"anoIngresso":2024,"createUser":true,"username":"ana","password":"s3nha-F0rte!"}`
		require.NoError(t, json.Unmarshal([]byte(body), &nsu))
		assert.Equal(t, int64(1), nsu.CourseID)
		assert.True(t, nsu.CreateUser)
	})
}

func TestUpdateStudent_Apply(t *testing.T) {
	validate, _ := newValidator()
	s := Student{RA: "2024A001", PersonID: 1, CourseID: 1, EntryYear: 2024, Status: StatusActive}

	us := UpdateStudent{Status: strPtr("TRANCADO"), PeriodID: int64Ptr(3)}
	require.NoError(t, us.Validate(validate))
	us.Apply(&s)
	assert.Equal(t, StatusLocked, s.Status)
	assert.Equal(t, int64Ptr(3), s.PeriodID)
	assert.Equal(t, "2024A001", s.RA)

	us = UpdateStudent{Status: strPtr("FORMADO")}
	assert.Error(t, us.Validate(validate))
}

func TestVariantsFieldSets(t *testing.T) {
	read := core.JSONFieldNames(Student{})
	create := core.JSONFieldNames(NewStudent{})
	update := core.JSONFieldNames(UpdateStudent{})

	assert.ElementsMatch(t, []string{
		"ra", "pessoaId", "cursoId", "coorteId", "periodoId", "turnoId", "anoIngresso", "situacao",
		"igreja", "coeficienteAcad", "createdAt", "updatedAt",
	}, read)
	// the person may be created inline
	assert.ElementsMatch(t, append(update, "ra", "pessoaId", "pessoa"), create)
	// the RA and the person never change
	assert.Subset(t, read, update)
	assert.NotContains(t, update, "ra")
	assert.NotContains(t, update, "pessoaId")

	withUser := core.JSONFieldNames(NewStudentWithUser{})
	assert.ElementsMatch(t, append(create, "createUser", "username", "password", "role"), withUser)
	assert.Subset(t, core.JSONFieldNames(WithRelations{}), read)
}
