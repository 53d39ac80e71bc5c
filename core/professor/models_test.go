package professor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/user"
)

func int64Ptr(i int64) *int64 { return &i }

func TestNewProfessorWithUser_Validate(t *testing.T) {
	validate, translator := core.NewValidator()
	user.InitValidators(validate, translator)
	InitValidators(validate)

	tests := []struct {
		name       string
		npu        NewProfessorWithUser
		wantFields []string
	}{
		{
			name: "inline person without user",
			npu: NewProfessorWithUser{NewProfessor: NewProfessor{
				Person:    &person.NewPerson{FullName: "João da Silva"},
				StartDate: "2024-02-01",
			}},
		},
		{
			name: "with user",
			npu: NewProfessorWithUser{
				NewProfessor: NewProfessor{PersonID: int64Ptr(4), StartDate: "2024-02-01"},
				CreateUser:   true,
				Username:     "joao",
				Password:     "Pr0fess0r#2024",
			},
		},
		{
			name: "missing password",
			npu: NewProfessorWithUser{
				NewProfessor: NewProfessor{PersonID: int64Ptr(4), StartDate: "2024-02-01"},
				CreateUser:   true,
				Username:     "joao",
			},
			wantFields: []string{"password"},
		},
		{
			name: "missing username and bad date",
			npu: NewProfessorWithUser{
				NewProfessor: NewProfessor{PersonID: int64Ptr(4), StartDate: "2024-13-01"},
				CreateUser:   true,
				Password:     "Pr0fess0r#2024",
			},
			wantFields: []string{"username", "dataInicio"},
		},
		{
			name:       "no person",
			npu:        NewProfessorWithUser{NewProfessor: NewProfessor{StartDate: "2024-02-01"}},
			wantFields: []string{"pessoaId"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.npu.Validate(validate)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, StatusActive, tt.npu.Build(1).Status)
				if nu := tt.npu.NewUser(1); nu != nil {
					assert.Equal(t, user.RoleProfessor, nu.Role)
				}
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

func TestUpdateProfessor_Apply(t *testing.T) {
	validate, _ := core.NewValidator()
	p := Professor{ID: "P2400001", PersonID: 1, StartDate: "2024-01-01", Status: StatusActive}
	status := "INATIVO"
	up := UpdateProfessor{Status: &status}
	require.NoError(t, up.Validate(validate))
	up.Apply(&p)
	assert.Equal(t, StatusInactive, p.Status)
	assert.Equal(t, core.Date("2024-01-01"), p.StartDate)
}

func TestVariantsFieldSets(t *testing.T) {
	read := core.JSONFieldNames(Professor{})
	create := core.JSONFieldNames(NewProfessor{})
	update := core.JSONFieldNames(UpdateProfessor{})

	assert.ElementsMatch(t, []string{"matricula", "pessoaId", "dataInicio", "formacaoAcad", "situacao", "createdAt", "updatedAt"}, read)
	assert.ElementsMatch(t, append(update, "matricula", "pessoaId", "pessoa"), create)
	assert.Subset(t, read, update)
	assert.NotContains(t, update, "matricula")

	withUser := core.JSONFieldNames(NewProfessorWithUser{})
	assert.ElementsMatch(t, append(create, "createUser", "username", "password", "role"), withUser)
	assert.Subset(t, core.JSONFieldNames(WithRelations{}), append(read, "pessoa"))
}
