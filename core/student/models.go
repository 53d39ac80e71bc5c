package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/cohort"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/period"
	"github.com/trezcool/academia/core/person"
	"github.com/trezcool/academia/core/user"
)

// Situations
const (
	StatusActive    = "ATIVO"
	StatusLocked    = "TRANCADO"
	StatusGraduated = "CONCLUIDO"
	StatusCancelled = "CANCELADO"
)

var Schema = core.Schema[string, Student]{
	Table:  "alunos",
	Key:    "ra",
	KeyOf:  func(s *Student) string { return s.RA },
	Unique: [][]string{{"pessoa_id"}},
	Search: []string{"ra", "igreja"},
	References: []core.Reference{
		{Column: "pessoa_id", Table: "pessoas"},
		{Column: "curso_id", Table: "cursos"},
		{Column: "coorte_id", Table: "coortes"},
		{Column: "periodo_id", Table: "periodos"},
		{Column: "turno_id", Table: "turnos"},
	},
}

type Repository = core.Repository[string, Student]

// Student is keyed by its registration code (RA, registro acadêmico).
type Student struct {
	RA        string   `json:"ra" db:"ra"`
	PersonID  int64    `json:"pessoaId" db:"pessoa_id"`
	CourseID  int64    `json:"cursoId" db:"curso_id"`
	CohortID  *int64   `json:"coorteId,omitempty" db:"coorte_id"`
	PeriodID  *int64   `json:"periodoId,omitempty" db:"periodo_id"`
	ShiftID   *int64   `json:"turnoId,omitempty" db:"turno_id"`
	EntryYear int      `json:"anoIngresso" db:"ano_ingresso"`
	Status    string   `json:"situacao" db:"situacao"`
	Church    *string  `json:"igreja,omitempty" db:"igreja"`
	GPA       *float64 `json:"coeficienteAcad,omitempty" db:"coeficiente_acad"`
	core.Timestamps
}

// Summary is the embedded shape of a Student in related records.
type Summary struct {
	RA       string `json:"ra"`
	PersonID int64  `json:"pessoaId"`
	FullName string `json:"nomeCompleto"`
}

func (s Student) Summary(p person.Person) Summary {
	return Summary{RA: s.RA, PersonID: s.PersonID, FullName: p.FullName}
}

type WithRelations struct {
	Student
	Person *person.Person  `json:"pessoa,omitempty"`
	Course *course.Summary `json:"curso,omitempty"`
	Shift  *course.Summary `json:"turno,omitempty"`
	Cohort *cohort.Summary `json:"coorte,omitempty"`
	Period *period.Summary `json:"periodo,omitempty"`
}

// NewStudent contains information needed to create a new Student.
// The person is either an existing one (pessoaId) or created inline (pessoa).
type NewStudent struct {
	RA        string            `json:"ra" validate:"omitempty,regcode"`
	PersonID  *int64            `json:"pessoaId" validate:"omitempty,gt=0"`
	Person    *person.NewPerson `json:"pessoa"`
	CourseID  int64             `json:"cursoId" validate:"required,gt=0"`
	CohortID  *int64            `json:"coorteId" validate:"omitempty,gt=0"`
	PeriodID  *int64            `json:"periodoId" validate:"omitempty,gt=0"`
	ShiftID   *int64            `json:"turnoId" validate:"omitempty,gt=0"`
	EntryYear int               `json:"anoIngresso" validate:"required,min=1900,max=2100"`
	Status    string            `json:"situacao" validate:"omitempty,oneof=ATIVO TRANCADO CONCLUIDO CANCELADO"`
	Church    *string           `json:"igreja" validate:"omitempty,max=120"`
	GPA       *float64          `json:"coeficienteAcad" validate:"omitempty,min=0,max=10"`
}

func (ns *NewStudent) Clean() {
	ns.RA = core.CleanString(ns.RA)
	ns.Status = core.CleanString(ns.Status)
	if ns.Status == "" {
		ns.Status = StatusActive
	}
	ns.Church = core.CleanStringPtr(ns.Church)
	if ns.Person != nil {
		ns.Person.Clean()
	}
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return core.ValidateStruct(validate, ns)
}

func (ns NewStudent) Refine() []core.FieldError {
	return person.CheckPersonRef(ns.PersonID, ns.Person)
}

// Build returns the Student of the person personID. The RA is left as given (maybe empty).
func (ns NewStudent) Build(personID int64) Student {
	status := ns.Status
	if status == "" {
		status = StatusActive
	}
	return Student{
		RA:        ns.RA,
		PersonID:  personID,
		CourseID:  ns.CourseID,
		CohortID:  ns.CohortID,
		PeriodID:  ns.PeriodID,
		ShiftID:   ns.ShiftID,
		EntryYear: ns.EntryYear,
		Status:    status,
		Church:    ns.Church,
		GPA:       ns.GPA,
	}
}

// NewStudentWithUser optionally creates the login of the new student.
type NewStudentWithUser struct {
	NewStudent
	CreateUser bool   `json:"createUser"`
	Username   string `json:"username" validate:"required_if=CreateUser true,omitempty,min=3,max=50,alphanum_"`
	Password   string `json:"password" validate:"required_if=CreateUser true"`
	Role       string `json:"role" validate:"omitempty,oneof=ADMIN SECRETARIA PROFESSOR ALUNO"`
}

func (nsu *NewStudentWithUser) Clean() {
	nsu.NewStudent.Clean()
	nsu.Username = core.CleanString(nsu.Username, true /* lower */)
	nsu.Role = core.CleanString(nsu.Role)
	if nsu.Role == "" {
		nsu.Role = user.RoleAluno
	}
}

func (nsu *NewStudentWithUser) Validate(validate *validator.Validate) error {
	nsu.Clean()
	return core.ValidateStruct(validate, nsu)
}

// NewUser returns the user to create for the person personID, nil when no login is wanted.
func (nsu NewStudentWithUser) NewUser(personID int64) *user.NewUser {
	if !nsu.CreateUser {
		return nil
	}
	return &user.NewUser{
		PersonID: personID,
		Username: nsu.Username,
		Password: nsu.Password,
		Role:     nsu.Role,
		IsActive: user.Active,
	}
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// The RA and the person of a student never change.
type UpdateStudent struct {
	CourseID  *int64   `json:"cursoId" validate:"omitempty,gt=0"`
	CohortID  *int64   `json:"coorteId" validate:"omitempty,gt=0"`
	PeriodID  *int64   `json:"periodoId" validate:"omitempty,gt=0"`
	ShiftID   *int64   `json:"turnoId" validate:"omitempty,gt=0"`
	EntryYear *int     `json:"anoIngresso" validate:"omitempty,min=1900,max=2100"`
	Status    *string  `json:"situacao" validate:"omitempty,oneof=ATIVO TRANCADO CONCLUIDO CANCELADO"`
	Church    *string  `json:"igreja" validate:"omitempty,max=120"`
	GPA       *float64 `json:"coeficienteAcad" validate:"omitempty,min=0,max=10"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Status = core.CleanStringPtr(us.Status)
	return core.ValidateStruct(validate, us)
}

func (us UpdateStudent) Apply(s *Student) {
	if us.CourseID != nil {
		s.CourseID = *us.CourseID
	}
	if us.CohortID != nil {
		s.CohortID = us.CohortID
	}
	if us.PeriodID != nil {
		s.PeriodID = us.PeriodID
	}
	if us.ShiftID != nil {
		s.ShiftID = us.ShiftID
	}
	if us.EntryYear != nil {
		s.EntryYear = *us.EntryYear
	}
	if us.Status != nil {
		s.Status = *us.Status
	}
	if us.Church != nil {
		s.Church = core.CleanStringPtr(us.Church)
	}
	if us.GPA != nil {
		s.GPA = us.GPA
	}
}

// InitValidators registers the password policy of the with-user payload.
func InitValidators(validate *validator.Validate) {
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		if v, ok := sl.Current().Interface().(NewStudentWithUser); ok && v.CreateUser {
			user.ReportPassword(sl, v.Password, v.Username)
		}
	}, NewStudentWithUser{})
}
