package subject

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

var Schema = core.Schema[int64, Subject]{
	Table:      "disciplinas",
	Key:        "id",
	KeyOf:      func(s *Subject) int64 { return s.ID },
	SetSeq:     func(s *Subject, id int64) { s.ID = id },
	Unique:     [][]string{{"curso_id", "codigo"}},
	Search:     []string{"codigo", "nome"},
	References: []core.Reference{{Column: "curso_id", Table: "cursos"}},
}

type Repository = core.Repository[int64, Subject]

type Subject struct {
	ID           int64   `json:"id" db:"id"`
	CourseID     int64   `json:"cursoId" db:"curso_id"`
	Code         string  `json:"codigo" db:"codigo"`
	Name         string  `json:"nome" db:"nome"`
	Credits      int     `json:"creditos" db:"creditos"`
	Workload     int     `json:"cargaHoraria" db:"carga_horaria"`
	Syllabus     *string `json:"ementa,omitempty" db:"ementa"`
	Bibliography *string `json:"bibliografia,omitempty" db:"bibliografia"`
	Active       bool    `json:"ativo" db:"ativo"`
	core.Timestamps
}

// Summary is the embedded shape of a Subject in related records.
type Summary struct {
	ID       int64  `json:"id"`
	Code     string `json:"codigo"`
	Name     string `json:"nome"`
	Credits  int    `json:"creditos"`
	Workload int    `json:"cargaHoraria"`
}

func (s Subject) Summary() Summary {
	return Summary{ID: s.ID, Code: s.Code, Name: s.Name, Credits: s.Credits, Workload: s.Workload}
}

// PeriodRef is a period the subject is linked to.
type PeriodRef struct {
	LinkID    int64   `json:"vinculoId"`
	PeriodID  int64   `json:"periodoId"`
	Number    int     `json:"numero"`
	Name      *string `json:"nome,omitempty"`
	Order     *int    `json:"ordem,omitempty"`
	Mandatory bool    `json:"obrigatoria"`
}

type WithRelations struct {
	Subject
	Course  *course.Summary `json:"curso,omitempty"`
	Periods []PeriodRef     `json:"periodos"`
}

type NewSubject struct {
	CourseID     int64   `json:"cursoId" validate:"required,gt=0"`
	Code         string  `json:"codigo" validate:"required,notblank,min=2,max=20"`
	Name         string  `json:"nome" validate:"required,notblank,min=3,max=120"`
	Credits      *int    `json:"creditos" validate:"required,min=0,max=99"`
	Workload     int     `json:"cargaHoraria" validate:"required,min=1,max=1000"`
	Syllabus     *string `json:"ementa" validate:"omitempty,max=5000"`
	Bibliography *string `json:"bibliografia" validate:"omitempty,max=5000"`
	Active       *bool   `json:"ativo"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Code = core.CleanString(ns.Code)
	ns.Name = core.CleanString(ns.Name)
	ns.Syllabus = core.CleanStringPtr(ns.Syllabus)
	ns.Bibliography = core.CleanStringPtr(ns.Bibliography)
	if ns.Active == nil {
		active := true
		ns.Active = &active
	}
	return core.ValidateStruct(validate, ns)
}

func (ns NewSubject) Build() Subject {
	s := Subject{
		CourseID:     ns.CourseID,
		Code:         ns.Code,
		Name:         ns.Name,
		Workload:     ns.Workload,
		Syllabus:     ns.Syllabus,
		Bibliography: ns.Bibliography,
		Active:       ns.Active == nil || *ns.Active,
	}
	if ns.Credits != nil {
		s.Credits = *ns.Credits
	}
	return s
}

type UpdateSubject struct {
	CourseID     *int64  `json:"cursoId" validate:"omitempty,gt=0"`
	Code         *string `json:"codigo" validate:"omitempty,notblank,min=2,max=20"`
	Name         *string `json:"nome" validate:"omitempty,notblank,min=3,max=120"`
	Credits      *int    `json:"creditos" validate:"omitempty,min=0,max=99"`
	Workload     *int    `json:"cargaHoraria" validate:"omitempty,min=1,max=1000"`
	Syllabus     *string `json:"ementa" validate:"omitempty,max=5000"`
	Bibliography *string `json:"bibliografia" validate:"omitempty,max=5000"`
	Active       *bool   `json:"ativo"`
}

func (us *UpdateSubject) Validate(validate *validator.Validate) error {
	us.Code = core.CleanStringPtr(us.Code)
	us.Name = core.CleanStringPtr(us.Name)
	return core.ValidateStruct(validate, us)
}

func (us UpdateSubject) Apply(s *Subject) {
	if us.CourseID != nil {
		s.CourseID = *us.CourseID
	}
	if us.Code != nil {
		s.Code = *us.Code
	}
	if us.Name != nil {
		s.Name = *us.Name
	}
	if us.Credits != nil {
		s.Credits = *us.Credits
	}
	if us.Workload != nil {
		s.Workload = *us.Workload
	}
	if us.Syllabus != nil {
		s.Syllabus = core.CleanStringPtr(us.Syllabus)
	}
	if us.Bibliography != nil {
		s.Bibliography = core.CleanStringPtr(us.Bibliography)
	}
	if us.Active != nil {
		s.Active = *us.Active
	}
}
