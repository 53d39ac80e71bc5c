package evaluation

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

// Evaluation types
const (
	TypeExam          = "EXAM"
	TypeAssignment    = "ASSIGNMENT"
	TypeParticipation = "PARTICIPATION"
	TypeOther         = "OTHER"
)

var Schema = core.Schema[int64, Evaluation]{
	Table:      "avaliacoes",
	Key:        "id",
	KeyOf:      func(e *Evaluation) int64 { return e.ID },
	SetSeq:     func(e *Evaluation, id int64) { e.ID = id },
	Unique:     [][]string{{"turma_id", "codigo"}},
	Search:     []string{"codigo", "descricao"},
	References: []core.Reference{{Column: "turma_id", Table: "turmas", OnDelete: core.Cascade}},
}

type Repository = core.Repository[int64, Evaluation]

type Evaluation struct {
	ID          int64     `json:"id" db:"id"`
	ClassID     int64     `json:"turmaId" db:"turma_id"`
	Date        core.Date `json:"data" db:"data"`
	Type        string    `json:"tipo" db:"tipo"`
	Code        string    `json:"codigo" db:"codigo"`
	Description *string   `json:"descricao,omitempty" db:"descricao"`
	Weight      int       `json:"peso" db:"peso"`
	FileURL     *string   `json:"arquivoUrl,omitempty" db:"arquivo_url"`
	core.Timestamps
}

type NewEvaluation struct {
	ClassID     int64     `json:"turmaId" validate:"required,gt=0"`
	Date        core.Date `json:"data" validate:"required,isodate"`
	Type        string    `json:"tipo" validate:"required,oneof=EXAM ASSIGNMENT PARTICIPATION OTHER"`
	Code        string    `json:"codigo" validate:"required,notblank,min=1,max=10"`
	Description *string   `json:"descricao" validate:"omitempty,max=255"`
	Weight      int       `json:"peso" validate:"required,min=1,max=32767"`
	FileURL     *string   `json:"arquivoUrl" validate:"omitempty,url"`
}

func (ne *NewEvaluation) Validate(validate *validator.Validate) error {
	ne.Type = core.CleanString(ne.Type)
	ne.Code = core.CleanString(ne.Code)
	ne.Description = core.CleanStringPtr(ne.Description)
	ne.FileURL = core.CleanStringPtr(ne.FileURL)
	return core.ValidateStruct(validate, ne)
}

func (ne NewEvaluation) Build() Evaluation {
	return Evaluation{
		ClassID:     ne.ClassID,
		Date:        ne.Date,
		Type:        ne.Type,
		Code:        ne.Code,
		Description: ne.Description,
		Weight:      ne.Weight,
		FileURL:     ne.FileURL,
	}
}

type UpdateEvaluation struct {
	Date        *core.Date `json:"data" validate:"omitempty,isodate"`
	Type        *string    `json:"tipo" validate:"omitempty,oneof=EXAM ASSIGNMENT PARTICIPATION OTHER"`
	Code        *string    `json:"codigo" validate:"omitempty,notblank,min=1,max=10"`
	Description *string    `json:"descricao" validate:"omitempty,max=255"`
	Weight      *int       `json:"peso" validate:"omitempty,min=1,max=32767"`
	FileURL     *string    `json:"arquivoUrl" validate:"omitempty,url"`
}

func (ue *UpdateEvaluation) Validate(validate *validator.Validate) error {
	ue.Type = core.CleanStringPtr(ue.Type)
	ue.Code = core.CleanStringPtr(ue.Code)
	return core.ValidateStruct(validate, ue)
}

func (ue UpdateEvaluation) Apply(e *Evaluation) {
	if ue.Date != nil {
		e.Date = *ue.Date
	}
	if ue.Type != nil {
		e.Type = *ue.Type
	}
	if ue.Code != nil {
		e.Code = *ue.Code
	}
	if ue.Description != nil {
		e.Description = core.CleanStringPtr(ue.Description)
	}
	if ue.Weight != nil {
		e.Weight = *ue.Weight
	}
	if ue.FileURL != nil {
		e.FileURL = core.CleanStringPtr(ue.FileURL)
	}
}
