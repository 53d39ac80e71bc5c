package period

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var LinkSchema = core.Schema[int64, Link]{
	Table:  "disciplina_periodo",
	Key:    "id",
	KeyOf:  func(l *Link) int64 { return l.ID },
	SetSeq: func(l *Link, id int64) { l.ID = id },
	Unique: [][]string{{"disciplina_id", "periodo_id"}},
	References: []core.Reference{
		{Column: "disciplina_id", Table: "disciplinas"},
		{Column: "periodo_id", Table: "periodos", OnDelete: core.Cascade},
	},
}

type LinkRepository = core.Repository[int64, Link]

const emptyLinkUpdateText = "Informe pelo menos um campo para atualizar (ordem ou obrigatoria)"

// Link places a subject in a period. A subject is linked at most once per period.
type Link struct {
	ID        int64 `json:"id" db:"id"`
	SubjectID int64 `json:"disciplinaId" db:"disciplina_id"`
	PeriodID  int64 `json:"periodoId" db:"periodo_id"`
	Order     *int  `json:"ordem,omitempty" db:"ordem"`
	Mandatory bool  `json:"obrigatoria" db:"obrigatoria"`
	core.Timestamps
}

type NewLink struct {
	SubjectID int64 `json:"disciplinaId" validate:"required,gt=0"`
	PeriodID  int64 `json:"periodoId" validate:"required,gt=0"`
	Order     *int  `json:"ordem" validate:"omitempty,min=1"`
	Mandatory *bool `json:"obrigatoria"`
}

func (nl *NewLink) Validate(validate *validator.Validate) error {
	if nl.Mandatory == nil {
		mandatory := true
		nl.Mandatory = &mandatory
	}
	return core.ValidateStruct(validate, nl)
}

func (nl NewLink) Build() Link {
	return Link{
		SubjectID: nl.SubjectID,
		PeriodID:  nl.PeriodID,
		Order:     nl.Order,
		Mandatory: nl.Mandatory == nil || *nl.Mandatory,
	}
}

type UpdateLink struct {
	Order     *int  `json:"ordem" validate:"omitempty,min=1"`
	Mandatory *bool `json:"obrigatoria"`
}

func (ul *UpdateLink) Validate(validate *validator.Validate) error {
	return core.ValidateStruct(validate, ul)
}

// Refine rejects empty updates. The error is reported on the payload itself (empty path).
func (ul UpdateLink) Refine() []core.FieldError {
	if ul.Order == nil && ul.Mandatory == nil {
		return []core.FieldError{{Field: "", Error: emptyLinkUpdateText}}
	}
	return nil
}

func (ul UpdateLink) Apply(l *Link) {
	if ul.Order != nil {
		l.Order = ul.Order
	}
	if ul.Mandatory != nil {
		l.Mandatory = *ul.Mandatory
	}
}
