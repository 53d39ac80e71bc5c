package curriculum

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var Schema = core.Schema[int64, Curriculum]{
	Table:  "curriculos",
	Key:    "id",
	KeyOf:  func(c *Curriculum) int64 { return c.ID },
	SetSeq: func(c *Curriculum, id int64) { c.ID = id },
	Unique: [][]string{{"curso_id", "turno_id", "versao"}},
	Search: []string{"versao"},
	References: []core.Reference{
		{Column: "curso_id", Table: "cursos"},
		{Column: "turno_id", Table: "turnos"},
	},
}

type Repository = core.Repository[int64, Curriculum]

const validityText = "vigenteAte não pode ser anterior a vigenteDe"

// Curriculum is a versioned study plan of a course in a shift.
type Curriculum struct {
	ID         int64      `json:"id" db:"id"`
	CourseID   int64      `json:"cursoId" db:"curso_id"`
	ShiftID    int64      `json:"turnoId" db:"turno_id"`
	Version    string     `json:"versao" db:"versao"`
	ValidFrom  core.Date  `json:"vigenteDe" db:"vigente_de"`
	ValidUntil *core.Date `json:"vigenteAte,omitempty" db:"vigente_ate"`
	Active     bool       `json:"ativo" db:"ativo"`
	core.Timestamps
}

func (c Curriculum) Refine() []core.FieldError {
	return checkValidity(c.ValidFrom, c.ValidUntil)
}

// Summary is the embedded shape of a Curriculum in related records.
type Summary struct {
	ID      int64  `json:"id"`
	Version string `json:"versao"`
	Active  bool   `json:"ativo"`
}

func (c Curriculum) Summary() Summary {
	return Summary{ID: c.ID, Version: c.Version, Active: c.Active}
}

// Current reports whether the curriculum is active and valid on day.
func (c Curriculum) Current(day core.Date) bool {
	if !c.Active || day.Before(c.ValidFrom) {
		return false
	}
	return c.ValidUntil == nil || !c.ValidUntil.Before(day)
}

type NewCurriculum struct {
	CourseID   int64      `json:"cursoId" validate:"required,gt=0"`
	ShiftID    int64      `json:"turnoId" validate:"required,gt=0"`
	Version    string     `json:"versao" validate:"required,notblank,min=1,max=20"`
	ValidFrom  core.Date  `json:"vigenteDe" validate:"required,isodate"`
	ValidUntil *core.Date `json:"vigenteAte" validate:"omitempty,isodate"`
	Active     *bool      `json:"ativo"`
}

func (nc *NewCurriculum) Validate(validate *validator.Validate) error {
	nc.Version = core.CleanString(nc.Version)
	if nc.ValidUntil != nil && nc.ValidUntil.IsZero() {
		nc.ValidUntil = nil
	}
	if nc.Active == nil {
		active := true
		nc.Active = &active
	}
	return core.ValidateStruct(validate, nc)
}

func (nc NewCurriculum) Refine() []core.FieldError {
	return checkValidity(nc.ValidFrom, nc.ValidUntil)
}

func (nc NewCurriculum) Build() Curriculum {
	return Curriculum{
		CourseID:   nc.CourseID,
		ShiftID:    nc.ShiftID,
		Version:    nc.Version,
		ValidFrom:  nc.ValidFrom,
		ValidUntil: nc.ValidUntil,
		Active:     nc.Active == nil || *nc.Active,
	}
}

type UpdateCurriculum struct {
	CourseID   *int64     `json:"cursoId" validate:"omitempty,gt=0"`
	ShiftID    *int64     `json:"turnoId" validate:"omitempty,gt=0"`
	Version    *string    `json:"versao" validate:"omitempty,notblank,min=1,max=20"`
	ValidFrom  *core.Date `json:"vigenteDe" validate:"omitempty,isodate"`
	ValidUntil *core.Date `json:"vigenteAte" validate:"omitempty,isodate"`
	Active     *bool      `json:"ativo"`
}

func (uc *UpdateCurriculum) Validate(validate *validator.Validate) error {
	uc.Version = core.CleanStringPtr(uc.Version)
	return core.ValidateStruct(validate, uc)
}

// Refine only checks the window when both ends are given; the stored record is checked on save.
func (uc UpdateCurriculum) Refine() []core.FieldError {
	if uc.ValidFrom == nil {
		return nil
	}
	return checkValidity(*uc.ValidFrom, uc.ValidUntil)
}

func (uc UpdateCurriculum) Apply(c *Curriculum) {
	if uc.CourseID != nil {
		c.CourseID = *uc.CourseID
	}
	if uc.ShiftID != nil {
		c.ShiftID = *uc.ShiftID
	}
	if uc.Version != nil {
		c.Version = *uc.Version
	}
	if uc.ValidFrom != nil {
		c.ValidFrom = *uc.ValidFrom
	}
	if uc.ValidUntil != nil {
		// an empty date clears the end of the window
		if uc.ValidUntil.IsZero() {
			c.ValidUntil = nil
		} else {
			c.ValidUntil = uc.ValidUntil
		}
	}
	if uc.Active != nil {
		c.Active = *uc.Active
	}
}

func checkValidity(from core.Date, until *core.Date) []core.FieldError {
	if until != nil && !until.IsZero() && until.Before(from) {
		return []core.FieldError{{Field: "vigenteAte", Error: validityText}}
	}
	return nil
}
