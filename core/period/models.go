package period

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/curriculum"
	"github.com/trezcool/academia/core/subject"
)

var Schema = core.Schema[int64, Period]{
	Table:      "periodos",
	Key:        "id",
	KeyOf:      func(p *Period) int64 { return p.ID },
	SetSeq:     func(p *Period, id int64) { p.ID = id },
	Unique:     [][]string{{"curriculo_id", "numero"}},
	Search:     []string{"nome", "descricao"},
	References: []core.Reference{{Column: "curriculo_id", Table: "curriculos"}},
}

type Repository = core.Repository[int64, Period]

// Period is one term (1st, 2nd...) of a curriculum.
type Period struct {
	ID           int64   `json:"id" db:"id"`
	CurriculumID int64   `json:"curriculoId" db:"curriculo_id"`
	Number       int     `json:"numero" db:"numero"`
	Name         *string `json:"nome,omitempty" db:"nome"`
	Description  *string `json:"descricao,omitempty" db:"descricao"`
	core.Timestamps
}

type Summary struct {
	ID     int64   `json:"id"`
	Number int     `json:"numero"`
	Name   *string `json:"nome,omitempty"`
}

func (p Period) Summary() Summary {
	return Summary{ID: p.ID, Number: p.Number, Name: p.Name}
}

// LinkedSubject is a subject as listed in a period.
type LinkedSubject struct {
	LinkID    int64           `json:"vinculoId"`
	Order     *int            `json:"ordem,omitempty"`
	Mandatory bool            `json:"obrigatoria"`
	Subject   subject.Summary `json:"disciplina"`
}

type WithRelations struct {
	Period
	Curriculum    *curriculum.Summary `json:"curriculo,omitempty"`
	Subjects      []LinkedSubject     `json:"disciplinas"`
	TotalSubjects int                 `json:"totalDisciplinas"`
	TotalStudents int                 `json:"totalAlunos"`
}

type NewPeriod struct {
	CurriculumID int64   `json:"curriculoId" validate:"required,gt=0"`
	Number       int     `json:"numero" validate:"required,min=1,max=20"`
	Name         *string `json:"nome" validate:"omitempty,max=80"`
	Description  *string `json:"descricao" validate:"omitempty,max=500"`
}

func (np *NewPeriod) Validate(validate *validator.Validate) error {
	np.Name = core.CleanStringPtr(np.Name)
	np.Description = core.CleanStringPtr(np.Description)
	return core.ValidateStruct(validate, np)
}

func (np NewPeriod) Build() Period {
	return Period{
		CurriculumID: np.CurriculumID,
		Number:       np.Number,
		Name:         np.Name,
		Description:  np.Description,
	}
}

type UpdatePeriod struct {
	CurriculumID *int64  `json:"curriculoId" validate:"omitempty,gt=0"`
	Number       *int    `json:"numero" validate:"omitempty,min=1,max=20"`
	Name         *string `json:"nome" validate:"omitempty,max=80"`
	Description  *string `json:"descricao" validate:"omitempty,max=500"`
}

func (up *UpdatePeriod) Validate(validate *validator.Validate) error {
	return core.ValidateStruct(validate, up)
}

func (up UpdatePeriod) Apply(p *Period) {
	if up.CurriculumID != nil {
		p.CurriculumID = *up.CurriculumID
	}
	if up.Number != nil {
		p.Number = *up.Number
	}
	// blank text clears the optional fields
	if up.Name != nil {
		p.Name = core.CleanStringPtr(up.Name)
	}
	if up.Description != nil {
		p.Description = core.CleanStringPtr(up.Description)
	}
}
