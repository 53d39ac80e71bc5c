package professor

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/user"
)

// Situations
const (
	StatusActive   = "ATIVO"
	StatusInactive = "INATIVO"
)

var Schema = core.Schema[string, Professor]{
	Table:      "professores",
	Key:        "matricula",
	KeyOf:      func(p *Professor) string { return p.ID },
	Unique:     [][]string{{"pessoa_id"}},
	Search:     []string{"matricula", "formacao_acad"},
	References: []core.Reference{{Column: "pessoa_id", Table: "pessoas"}},
}

type Repository = core.Repository[string, Professor]

// Professor is keyed by its registration code (matrícula).
type Professor struct {
	ID            string    `json:"matricula" db:"matricula"`
	PersonID      int64     `json:"pessoaId" db:"pessoa_id"`
	StartDate     core.Date `json:"dataInicio" db:"data_inicio"`
	Qualification *string   `json:"formacaoAcad,omitempty" db:"formacao_acad"`
	Status        string    `json:"situacao" db:"situacao"`
	core.Timestamps
}

// Summary is the embedded shape of a Professor in related records.
type Summary struct {
	ID       string `json:"matricula"`
	PersonID int64  `json:"pessoaId"`
	FullName string `json:"nomeCompleto"`
}

func (p Professor) Summary(prs person.Person) Summary {
	return Summary{ID: p.ID, PersonID: p.PersonID, FullName: prs.FullName}
}

type WithRelations struct {
	Professor
	Person *person.Person `json:"pessoa,omitempty"`
}

type NewProfessor struct {
	ID            string            `json:"matricula" validate:"omitempty,regcode"`
	PersonID      *int64            `json:"pessoaId" validate:"omitempty,gt=0"`
	Person        *person.NewPerson `json:"pessoa"`
	StartDate     core.Date         `json:"dataInicio" validate:"required,isodate"`
	Qualification *string           `json:"formacaoAcad" validate:"omitempty,max=255"`
	Status        string            `json:"situacao" validate:"omitempty,oneof=ATIVO INATIVO"`
}

func (np *NewProfessor) Clean() {
	np.ID = core.CleanString(np.ID)
	np.Qualification = core.CleanStringPtr(np.Qualification)
	np.Status = core.CleanString(np.Status)
	if np.Status == "" {
		np.Status = StatusActive
	}
	if np.Person != nil {
		np.Person.Clean()
	}
}

func (np *NewProfessor) Validate(validate *validator.Validate) error {
	np.Clean()
	return core.ValidateStruct(validate, np)
}

func (np NewProfessor) Refine() []core.FieldError {
	return person.CheckPersonRef(np.PersonID, np.Person)
}

func (np NewProfessor) Build(personID int64) Professor {
	status := np.Status
	if status == "" {
		status = StatusActive
	}
	return Professor{
		ID:            np.ID,
		PersonID:      personID,
		StartDate:     np.StartDate,
		Qualification: np.Qualification,
		Status:        status,
	}
}

// NewProfessorWithUser optionally creates the login of the new professor.
type NewProfessorWithUser struct {
	NewProfessor
	CreateUser bool   `json:"createUser"`
	Username   string `json:"username" validate:"required_if=CreateUser true,omitempty,min=3,max=50,alphanum_"`
	Password   string `json:"password" validate:"required_if=CreateUser true"`
	Role       string `json:"role" validate:"omitempty,oneof=ADMIN SECRETARIA PROFESSOR ALUNO"`
}

func (npu *NewProfessorWithUser) Clean() {
	npu.NewProfessor.Clean()
	npu.Username = core.CleanString(npu.Username, true /* lower */)
	npu.Role = core.CleanString(npu.Role)
	if npu.Role == "" {
		npu.Role = user.RoleProfessor
	}
}

func (npu *NewProfessorWithUser) Validate(validate *validator.Validate) error {
	npu.Clean()
	return core.ValidateStruct(validate, npu)
}

func (npu NewProfessorWithUser) NewUser(personID int64) *user.NewUser {
	if !npu.CreateUser {
		return nil
	}
	return &user.NewUser{
		PersonID: personID,
		Username: npu.Username,
		Password: npu.Password,
		Role:     npu.Role,
		IsActive: user.Active,
	}
}

type UpdateProfessor struct {
	StartDate     *core.Date `json:"dataInicio" validate:"omitempty,isodate"`
	Qualification *string    `json:"formacaoAcad" validate:"omitempty,max=255"`
	Status        *string    `json:"situacao" validate:"omitempty,oneof=ATIVO INATIVO"`
}

func (up *UpdateProfessor) Validate(validate *validator.Validate) error {
	up.Status = core.CleanStringPtr(up.Status)
	return core.ValidateStruct(validate, up)
}

func (up UpdateProfessor) Apply(p *Professor) {
	if up.StartDate != nil {
		p.StartDate = *up.StartDate
	}
	if up.Qualification != nil {
		p.Qualification = core.CleanStringPtr(up.Qualification)
	}
	if up.Status != nil {
		p.Status = *up.Status
	}
}

// InitValidators registers the password policy of the with-user payload.
func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		if v, ok := sl.Current().Interface().(NewProfessorWithUser); ok && v.CreateUser {
			user.ReportPassword(sl, v.Password, v.Username)
		}
	}, NewProfessorWithUser{})
}
