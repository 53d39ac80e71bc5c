package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var Schema = core.Schema[int64, Course]{
	Table:  "cursos",
	Key:    "id",
	KeyOf:  func(c *Course) int64 { return c.ID },
	SetSeq: func(c *Course, id int64) { c.ID = id },
	Unique: [][]string{{"nome"}},
	Search: []string{"nome", "grau"},
}

type Repository = core.Repository[int64, Course]

type Course struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"nome" db:"nome"`
	Degree string `json:"grau" db:"grau"`
	core.Timestamps
}

// Summary is the embedded shape of a Course in related records.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

func (c Course) Summary() Summary {
	return Summary{ID: c.ID, Name: c.Name}
}

type NewCourse struct {
	Name   string `json:"nome" validate:"required,notblank,min=3,max=120"`
	Degree string `json:"grau" validate:"required,notblank,min=2,max=60"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Degree = core.CleanString(nc.Degree)
	return core.ValidateStruct(validate, nc)
}

func (nc NewCourse) Build() Course {
	return Course{Name: nc.Name, Degree: nc.Degree}
}

type UpdateCourse struct {
	Name   *string `json:"nome" validate:"omitempty,notblank,min=3,max=120"`
	Degree *string `json:"grau" validate:"omitempty,notblank,min=2,max=60"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanStringPtr(uc.Name)
	uc.Degree = core.CleanStringPtr(uc.Degree)
	return core.ValidateStruct(validate, uc)
}

func (uc UpdateCourse) Apply(c *Course) {
	if uc.Name != nil {
		c.Name = *uc.Name
	}
	if uc.Degree != nil {
		c.Degree = *uc.Degree
	}
}
