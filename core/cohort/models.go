package cohort

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var Schema = core.Schema[int64, Cohort]{
	Table:  "coortes",
	Key:    "id",
	KeyOf:  func(c *Cohort) int64 { return c.ID },
	SetSeq: func(c *Cohort, id int64) { c.ID = id },
	Unique: [][]string{{"curso_id", "turno_id", "curriculo_id", "ano_ingresso", "rotulo"}},
	Search: []string{"rotulo"},
	References: []core.Reference{
		{Column: "curso_id", Table: "cursos"},
		{Column: "turno_id", Table: "turnos"},
		{Column: "curriculo_id", Table: "curriculos"},
	},
}

type Repository = core.Repository[int64, Cohort]

// Cohort groups the students who entered a course in the same year, shift and curriculum.
type Cohort struct {
	ID           int64  `json:"id" db:"id"`
	CourseID     int64  `json:"cursoId" db:"curso_id"`
	ShiftID      int64  `json:"turnoId" db:"turno_id"`
	CurriculumID int64  `json:"curriculoId" db:"curriculo_id"`
	EntryYear    int    `json:"anoIngresso" db:"ano_ingresso"`
	Label        string `json:"rotulo" db:"rotulo"`
	Active       bool   `json:"ativo" db:"ativo"`
	core.Timestamps
}

type Summary struct {
	ID        int64  `json:"id"`
	EntryYear int    `json:"anoIngresso"`
	Label     string `json:"rotulo"`
}

func (c Cohort) Summary() Summary {
	return Summary{ID: c.ID, EntryYear: c.EntryYear, Label: c.Label}
}

type NewCohort struct {
	CourseID     int64  `json:"cursoId" validate:"required,gt=0"`
	ShiftID      int64  `json:"turnoId" validate:"required,gt=0"`
	CurriculumID int64  `json:"curriculoId" validate:"required,gt=0"`
	EntryYear    int    `json:"anoIngresso" validate:"required,min=1900,max=2100"`
	Label        string `json:"rotulo" validate:"required,notblank,min=1,max=50"`
	Active       *bool  `json:"ativo"`
}

func (nc *NewCohort) Validate(validate *validator.Validate) error {
	nc.Label = core.CleanString(nc.Label)
	if nc.Active == nil {
		active := true
		nc.Active = &active
	}
	return core.ValidateStruct(validate, nc)
}

func (nc NewCohort) Build() Cohort {
	return Cohort{
		CourseID:     nc.CourseID,
		ShiftID:      nc.ShiftID,
		CurriculumID: nc.CurriculumID,
		EntryYear:    nc.EntryYear,
		Label:        nc.Label,
		Active:       nc.Active == nil || *nc.Active,
	}
}

type UpdateCohort struct {
	CourseID     *int64  `json:"cursoId" validate:"omitempty,gt=0"`
	ShiftID      *int64  `json:"turnoId" validate:"omitempty,gt=0"`
	CurriculumID *int64  `json:"curriculoId" validate:"omitempty,gt=0"`
	EntryYear    *int    `json:"anoIngresso" validate:"omitempty,min=1900,max=2100"`
	Label        *string `json:"rotulo" validate:"omitempty,notblank,min=1,max=50"`
	Active       *bool   `json:"ativo"`
}

func (uc *UpdateCohort) Validate(validate *validator.Validate) error {
	uc.Label = core.CleanStringPtr(uc.Label)
	return core.ValidateStruct(validate, uc)
}

func (uc UpdateCohort) Apply(c *Cohort) {
	if uc.CourseID != nil {
		c.CourseID = *uc.CourseID
	}
	if uc.ShiftID != nil {
		c.ShiftID = *uc.ShiftID
	}
	if uc.CurriculumID != nil {
		c.CurriculumID = *uc.CurriculumID
	}
	if uc.EntryYear != nil {
		c.EntryYear = *uc.EntryYear
	}
	if uc.Label != nil {
		c.Label = *uc.Label
	}
	if uc.Active != nil {
		c.Active = *uc.Active
	}
}
