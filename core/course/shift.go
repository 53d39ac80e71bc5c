package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var ShiftSchema = core.Schema[int64, Shift]{
	Table:  "turnos",
	Key:    "id",
	KeyOf:  func(s *Shift) int64 { return s.ID },
	SetSeq: func(s *Shift, id int64) { s.ID = id },
	Unique: [][]string{{"nome"}},
	Search: []string{"nome"},
}

type ShiftRepository = core.Repository[int64, Shift]

// Shift is a time-of-day slot (e.g. Matutino, Noturno) in which courses run.
type Shift struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"nome" db:"nome"`
	core.Timestamps
}

func (s Shift) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name}
}

type NewShift struct {
	Name string `json:"nome" validate:"required,notblank,min=2,max=40"`
}

func (ns *NewShift) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	return core.ValidateStruct(validate, ns)
}

func (ns NewShift) Build() Shift {
	return Shift{Name: ns.Name}
}

type UpdateShift struct {
	Name *string `json:"nome" validate:"omitempty,notblank,min=2,max=40"`
}

func (us *UpdateShift) Validate(validate *validator.Validate) error {
	us.Name = core.CleanStringPtr(us.Name)
	return core.ValidateStruct(validate, us)
}

func (us UpdateShift) Apply(s *Shift) {
	if us.Name != nil {
		s.Name = *us.Name
	}
}
