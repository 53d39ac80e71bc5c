package attendance

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	MaxBatch = 200

	duplicateEnrollmentText = "inscrição repetida no lote"
)

var Schema = core.Schema[int64, Attendance]{
	Table:  "frequencias",
	Key:    "id",
	KeyOf:  func(a *Attendance) int64 { return a.ID },
	SetSeq: func(a *Attendance, id int64) { a.ID = id },
	Unique: [][]string{{"aula_id", "inscricao_id"}},
	References: []core.Reference{
		{Column: "aula_id", Table: "aulas", OnDelete: core.Cascade},
		{Column: "inscricao_id", Table: "inscricoes", OnDelete: core.Cascade},
	},
}

type Repository = core.Repository[int64, Attendance]

// Attendance records whether an enrolment was present at a lesson. There is at most one per pair.
type Attendance struct {
	ID            int64   `json:"id" db:"id"`
	LessonID      int64   `json:"aulaId" db:"aula_id"`
	EnrollmentID  int64   `json:"inscricaoId" db:"inscricao_id"`
	Present       bool    `json:"presente" db:"presente"`
	Justification *string `json:"justificativa,omitempty" db:"justificativa"`
	core.Timestamps
}

type NewAttendance struct {
	LessonID      int64   `json:"aulaId" validate:"required,gt=0"`
	EnrollmentID  int64   `json:"inscricaoId" validate:"required,gt=0"`
	Present       *bool   `json:"presente" validate:"required"`
	Justification *string `json:"justificativa" validate:"omitempty,max=500"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Justification = core.CleanStringPtr(na.Justification)
	return core.ValidateStruct(validate, na)
}

func (na NewAttendance) Build() Attendance {
	return Attendance{
		LessonID:      na.LessonID,
		EnrollmentID:  na.EnrollmentID,
		Present:       na.Present != nil && *na.Present,
		Justification: na.Justification,
	}
}

type UpdateAttendance struct {
	Present       *bool   `json:"presente"`
	Justification *string `json:"justificativa" validate:"omitempty,max=500"`
}

func (ua *UpdateAttendance) Validate(validate *validator.Validate) error {
	return core.ValidateStruct(validate, ua)
}

func (ua UpdateAttendance) Apply(a *Attendance) {
	if ua.Present != nil {
		a.Present = *ua.Present
	}
	if ua.Justification != nil {
		a.Justification = core.CleanStringPtr(ua.Justification)
	}
}

// Entry is one row of a lesson attendance sheet.
type Entry struct {
	EnrollmentID  int64   `json:"inscricaoId" validate:"required,gt=0"`
	Present       *bool   `json:"presente" validate:"required"`
	Justification *string `json:"justificativa" validate:"omitempty,max=500"`
}

// Sheet registers the attendance of a lesson, one row per enrolment.
type Sheet struct {
	Entries []Entry `json:"registros" validate:"required,min=1,max=200,dive"`
}

func (s *Sheet) Validate(validate *validator.Validate) error {
	for i := range s.Entries {
		s.Entries[i].Justification = core.CleanStringPtr(s.Entries[i].Justification)
	}
	return core.ValidateStruct(validate, s)
}

func (s Sheet) Refine() []core.FieldError {
	var flds []core.FieldError
	seen := make(map[int64]bool, len(s.Entries))
	for i, e := range s.Entries {
		if seen[e.EnrollmentID] {
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("registros[%d].inscricaoId", i), Error: duplicateEnrollmentText})
		}
		seen[e.EnrollmentID] = true
	}
	return flds
}

// Summary is the attendance of an enrolment over the lessons where attendance was taken.
type Summary struct {
	EnrollmentID int64   `json:"inscricaoId"`
	StudentID    string  `json:"alunoId"`
	Lessons      int     `json:"totalAulas"`
	Presences    int     `json:"presencas"`
	Absences     int     `json:"faltas"`
	Percentage   float64 `json:"percentual"`
}

func NewSummary(enrollmentID int64, studentID string, lessons, presences int) Summary {
	return Summary{
		EnrollmentID: enrollmentID,
		StudentID:    studentID,
		Lessons:      lessons,
		Presences:    presences,
		Absences:     lessons - presences,
		Percentage:   Percentage(presences, lessons),
	}
}

// Percentage returns presences over lessons in percent with 1 decimal.
// It is 100 when no lesson was given.
func Percentage(presences, lessons int) float64 {
	if lessons <= 0 {
		return 100
	}
	return math.Round(float64(presences)/float64(lessons)*1000) / 10
}
