package evaluation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

const (
	MaxGradeBatch = 200

	duplicateEnrollmentText = "inscrição repetida no lote"
)

var GradeSchema = core.Schema[int64, Grade]{
	Table:  "notas",
	Key:    "id",
	KeyOf:  func(g *Grade) int64 { return g.ID },
	SetSeq: func(g *Grade, id int64) { g.ID = id },
	Unique: [][]string{{"avaliacao_id", "inscricao_id"}},
	References: []core.Reference{
		{Column: "avaliacao_id", Table: "avaliacoes", OnDelete: core.Cascade},
		{Column: "inscricao_id", Table: "inscricoes", OnDelete: core.Cascade},
	},
}

type GradeRepository = core.Repository[int64, Grade]

// Grade is the score of an enrolment in an evaluation. There is at most one per pair.
type Grade struct {
	ID           int64   `json:"id" db:"id"`
	EvaluationID int64   `json:"avaliacaoId" db:"avaliacao_id"`
	EnrollmentID int64   `json:"inscricaoId" db:"inscricao_id"`
	Score        float64 `json:"nota" db:"nota"`
	Remark       *string `json:"observacao,omitempty" db:"observacao"`
	core.Timestamps
}

// GradeInput is one row of a grade launch.
type GradeInput struct {
	EnrollmentID int64    `json:"inscricaoId" validate:"required,gt=0"`
	Score        *float64 `json:"nota" validate:"required,min=0,max=10"`
	Remark       *string  `json:"observacao" validate:"omitempty,max=255"`
}

// LaunchGrades creates or replaces the grades of an evaluation.
type LaunchGrades struct {
	Grades []GradeInput `json:"notas" validate:"required,min=1,max=200,dive"`
}

func (lg *LaunchGrades) Validate(validate *validator.Validate) error {
	for i := range lg.Grades {
		lg.Grades[i].Remark = core.CleanStringPtr(lg.Grades[i].Remark)
	}
	return core.ValidateStruct(validate, lg)
}

func (lg LaunchGrades) Refine() []core.FieldError {
	var flds []core.FieldError
	seen := make(map[int64]bool, len(lg.Grades))
	for i, g := range lg.Grades {
		if seen[g.EnrollmentID] {
			flds = append(flds, core.FieldError{Field: fmt.Sprintf("notas[%d].inscricaoId", i), Error: duplicateEnrollmentText})
		}
		seen[g.EnrollmentID] = true
	}
	return flds
}
