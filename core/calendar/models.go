package calendar

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var Schema = core.Schema[int64, Event]{
	Table:  "eventos",
	Key:    "id",
	KeyOf:  func(e *Event) int64 { return e.ID },
	SetSeq: func(e *Event, id int64) { e.ID = id },
	Search: []string{"nome", "semestre"},
}

type Repository = core.Repository[int64, Event]

const windowText = "dataFim não pode ser anterior a dataInicio"

// Event is an entry of the academic calendar spanning one or more days.
type Event struct {
	ID        int64     `json:"id" db:"id"`
	Semester  string    `json:"semestre" db:"semestre"`
	Name      string    `json:"nome" db:"nome"`
	StartDate core.Date `json:"dataInicio" db:"data_inicio"`
	EndDate   core.Date `json:"dataFim" db:"data_fim"`
	core.Timestamps
}

func (e Event) Refine() []core.FieldError {
	return checkWindow(e.StartDate, e.EndDate)
}

// On reports whether the event spans day.
func (e Event) On(day core.Date) bool {
	return !day.Before(e.StartDate) && !e.EndDate.Before(day)
}

type NewEvent struct {
	Semester  string    `json:"semestre" validate:"required,semester"`
	Name      string    `json:"nome" validate:"required,notblank,min=3,max=120"`
	StartDate core.Date `json:"dataInicio" validate:"required,isodate"`
	EndDate   core.Date `json:"dataFim" validate:"required,isodate"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Semester = core.CleanString(ne.Semester)
	ne.Name = core.CleanString(ne.Name)
	return core.ValidateStruct(validate, ne)
}

func (ne NewEvent) Refine() []core.FieldError {
	return checkWindow(ne.StartDate, ne.EndDate)
}

func (ne NewEvent) Build() Event {
	return Event{Semester: ne.Semester, Name: ne.Name, StartDate: ne.StartDate, EndDate: ne.EndDate}
}

type UpdateEvent struct {
	Semester  *string    `json:"semestre" validate:"omitempty,semester"`
	Name      *string    `json:"nome" validate:"omitempty,notblank,min=3,max=120"`
	StartDate *core.Date `json:"dataInicio" validate:"omitempty,isodate"`
	EndDate   *core.Date `json:"dataFim" validate:"omitempty,isodate"`
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Semester = core.CleanStringPtr(ue.Semester)
	ue.Name = core.CleanStringPtr(ue.Name)
	return core.ValidateStruct(validate, ue)
}

// Refine checks the window when both ends are given; the stored record is checked on save.
func (ue UpdateEvent) Refine() []core.FieldError {
	if ue.StartDate == nil || ue.EndDate == nil {
		return nil
	}
	return checkWindow(*ue.StartDate, *ue.EndDate)
}

func (ue UpdateEvent) Apply(e *Event) {
	if ue.Semester != nil {
		e.Semester = *ue.Semester
	}
	if ue.Name != nil {
		e.Name = *ue.Name
	}
	if ue.StartDate != nil {
		e.StartDate = *ue.StartDate
	}
	if ue.EndDate != nil {
		e.EndDate = *ue.EndDate
	}
}

func checkWindow(start, end core.Date) []core.FieldError {
	if end.Before(start) {
		return []core.FieldError{{Field: "dataFim", Error: windowText}}
	}
	return nil
}
