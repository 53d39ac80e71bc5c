package class

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/subject"
)

var Schema = core.Schema[int64, Class]{
	Table:  "turmas",
	Key:    "id",
	KeyOf:  func(c *Class) int64 { return c.ID },
	SetSeq: func(c *Class, id int64) { c.ID = id },
	Unique: [][]string{{"disciplina_id", "semestre", "secao"}},
	Search: []string{"semestre", "sala", "secao"},
	References: []core.Reference{
		{Column: "disciplina_id", Table: "disciplinas"},
		{Column: "professor_id", Table: "professores"},
		{Column: "periodo_id", Table: "periodos"},
	},
}

type Repository = core.Repository[int64, Class]

// Class (turma) is a subject offered by a professor in a semester.
type Class struct {
	ID          int64   `json:"id" db:"id"`
	SubjectID   int64   `json:"disciplinaId" db:"disciplina_id"`
	ProfessorID string  `json:"professorId" db:"professor_id"`
	Semester    string  `json:"semestre" db:"semestre"`
	PeriodID    *int64  `json:"periodoId,omitempty" db:"periodo_id"`
	Room        *string `json:"sala,omitempty" db:"sala"`
	Schedule    *string `json:"horario,omitempty" db:"horario"`
	Section     *string `json:"secao,omitempty" db:"secao"`
	core.Timestamps
}

type WithRelations struct {
	Class
	Subject       *subject.Summary        `json:"disciplina,omitempty"`
	Professor     *professor.Summary      `json:"professor,omitempty"`
	Enrollments   []EnrollmentWithStudent `json:"inscricoes"`
	TotalEnrolled int                     `json:"totalInscritos"`
}

type NewClass struct {
	SubjectID   int64   `json:"disciplinaId" validate:"required,gt=0"`
	ProfessorID string  `json:"professorId" validate:"required,regcode"`
	Semester    string  `json:"semestre" validate:"required,semester"`
	PeriodID    *int64  `json:"periodoId" validate:"omitempty,gt=0"`
	Room        *string `json:"sala" validate:"omitempty,max=40"`
	Schedule    *string `json:"horario" validate:"omitempty,max=100"`
	Section     *string `json:"secao" validate:"omitempty,max=10"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.ProfessorID = core.CleanString(nc.ProfessorID)
	nc.Semester = core.CleanString(nc.Semester)
	nc.Room = core.CleanStringPtr(nc.Room)
	nc.Schedule = core.CleanStringPtr(nc.Schedule)
	nc.Section = core.CleanStringPtr(nc.Section)
	return core.ValidateStruct(validate, nc)
}

func (nc NewClass) Build() Class {
	return Class{
		SubjectID:   nc.SubjectID,
		ProfessorID: nc.ProfessorID,
		Semester:    nc.Semester,
		PeriodID:    nc.PeriodID,
		Room:        nc.Room,
		Schedule:    nc.Schedule,
		Section:     nc.Section,
	}
}

type UpdateClass struct {
	SubjectID   *int64  `json:"disciplinaId" validate:"omitempty,gt=0"`
	ProfessorID *string `json:"professorId" validate:"omitempty,regcode"`
	Semester    *string `json:"semestre" validate:"omitempty,semester"`
	PeriodID    *int64  `json:"periodoId" validate:"omitempty,gt=0"`
	Room        *string `json:"sala" validate:"omitempty,max=40"`
	Schedule    *string `json:"horario" validate:"omitempty,max=100"`
	Section     *string `json:"secao" validate:"omitempty,max=10"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.ProfessorID = core.CleanStringPtr(uc.ProfessorID)
	uc.Semester = core.CleanStringPtr(uc.Semester)
	return core.ValidateStruct(validate, uc)
}

func (uc UpdateClass) Apply(c *Class) {
	if uc.SubjectID != nil {
		c.SubjectID = *uc.SubjectID
	}
	if uc.ProfessorID != nil {
		c.ProfessorID = *uc.ProfessorID
	}
	if uc.Semester != nil {
		c.Semester = *uc.Semester
	}
	if uc.PeriodID != nil {
		c.PeriodID = uc.PeriodID
	}
	// blank text clears the optional fields
	if uc.Room != nil {
		c.Room = core.CleanStringPtr(uc.Room)
	}
	if uc.Schedule != nil {
		c.Schedule = core.CleanStringPtr(uc.Schedule)
	}
	if uc.Section != nil {
		c.Section = core.CleanStringPtr(uc.Section)
	}
}
