package class

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

// Enrollment statuses
const (
	Enrolled  = "ENROLLED"
	Cancelled = "CANCELLED"
	Approved  = "APPROVED"
	Failed    = "FAILED"
)

var EnrollmentSchema = core.Schema[int64, Enrollment]{
	Table:  "inscricoes",
	Key:    "id",
	KeyOf:  func(e *Enrollment) int64 { return e.ID },
	SetSeq: func(e *Enrollment, id int64) { e.ID = id },
	Unique: [][]string{{"turma_id", "aluno_id"}},
	References: []core.Reference{
		{Column: "turma_id", Table: "turmas", OnDelete: core.Cascade},
		{Column: "aluno_id", Table: "alunos"},
	},
}

type EnrollmentRepository = core.Repository[int64, Enrollment]

// Enrollment places a student in a class. A student is enrolled at most once per class.
type Enrollment struct {
	ID         int64    `json:"id" db:"id"`
	ClassID    int64    `json:"turmaId" db:"turma_id"`
	StudentID  string   `json:"alunoId" db:"aluno_id"`
	Status     string   `json:"status" db:"status"`
	FinalGrade *float64 `json:"mediaFinal,omitempty" db:"media_final"`
	core.Timestamps
}

type EnrollmentWithStudent struct {
	Enrollment
	Student *student.Summary `json:"aluno,omitempty"`
}

type NewEnrollment struct {
	ClassID    int64    `json:"turmaId" validate:"required,gt=0"`
	StudentID  string   `json:"alunoId" validate:"required,regcode"`
	Status     string   `json:"status" validate:"omitempty,oneof=ENROLLED CANCELLED APPROVED FAILED"`
	FinalGrade *float64 `json:"mediaFinal" validate:"omitempty,min=0,max=10"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	ne.StudentID = core.CleanString(ne.StudentID)
	ne.Status = core.CleanString(ne.Status)
	if ne.Status == "" {
		ne.Status = Enrolled
	}
	return core.ValidateStruct(validate, ne)
}

func (ne NewEnrollment) Build() Enrollment {
	status := ne.Status
	if status == "" {
		status = Enrolled
	}
	return Enrollment{
		ClassID:    ne.ClassID,
		StudentID:  ne.StudentID,
		Status:     status,
		FinalGrade: ne.FinalGrade,
	}
}

type UpdateEnrollment struct {
	Status     *string  `json:"status" validate:"omitempty,oneof=ENROLLED CANCELLED APPROVED FAILED"`
	FinalGrade *float64 `json:"mediaFinal" validate:"omitempty,min=0,max=10"`
}

func (ue *UpdateEnrollment) Validate(validate *validator.Validate) error {
	ue.Status = core.CleanStringPtr(ue.Status)
	return core.ValidateStruct(validate, ue)
}

func (ue UpdateEnrollment) Apply(e *Enrollment) {
	if ue.Status != nil {
		e.Status = *ue.Status
	}
	if ue.FinalGrade != nil {
		e.FinalGrade = ue.FinalGrade
	}
}
