package lesson

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

var Schema = core.Schema[int64, Lesson]{
	Table:      "aulas",
	Key:        "id",
	KeyOf:      func(l *Lesson) int64 { return l.ID },
	SetSeq:     func(l *Lesson, id int64) { l.ID = id },
	Search:     []string{"conteudo", "observacao"},
	References: []core.Reference{{Column: "turma_id", Table: "turmas", OnDelete: core.Cascade}},
}

type Repository = core.Repository[int64, Lesson]

// Lesson (aula) is one meeting of a class.
type Lesson struct {
	ID          int64     `json:"id" db:"id"`
	ClassID     int64     `json:"turmaId" db:"turma_id"`
	Date        core.Date `json:"data" db:"data"`
	Content     string    `json:"conteudo" db:"conteudo"`
	MaterialURL *string   `json:"materialUrl,omitempty" db:"material_url"`
	Notes       *string   `json:"observacao,omitempty" db:"observacao"`
	core.Timestamps
}

type NewLesson struct {
	ClassID     int64     `json:"turmaId" validate:"required,gt=0"`
	Date        core.Date `json:"data" validate:"required,isodate"`
	Content     string    `json:"conteudo" validate:"required,notblank,min=1,max=255"`
	MaterialURL *string   `json:"materialUrl" validate:"omitempty,url"`
	Notes       *string   `json:"observacao" validate:"omitempty,max=1000"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Content = core.CleanString(nl.Content)
	nl.MaterialURL = core.CleanStringPtr(nl.MaterialURL)
	nl.Notes = core.CleanStringPtr(nl.Notes)
	return core.ValidateStruct(validate, nl)
}

func (nl NewLesson) Build() Lesson {
	return Lesson{
		ClassID:     nl.ClassID,
		Date:        nl.Date,
		Content:     nl.Content,
		MaterialURL: nl.MaterialURL,
		Notes:       nl.Notes,
	}
}

type UpdateLesson struct {
	Date        *core.Date `json:"data" validate:"omitempty,isodate"`
	Content     *string    `json:"conteudo" validate:"omitempty,notblank,min=1,max=255"`
	MaterialURL *string    `json:"materialUrl" validate:"omitempty,url"`
	Notes       *string    `json:"observacao" validate:"omitempty,max=1000"`
}

func (ul *UpdateLesson) Validate(validate *validator.Validate) error {
	ul.Content = core.CleanStringPtr(ul.Content)
	return core.ValidateStruct(validate, ul)
}

func (ul UpdateLesson) Apply(l *Lesson) {
	if ul.Date != nil {
		l.Date = *ul.Date
	}
	if ul.Content != nil {
		l.Content = *ul.Content
	}
	// blank text clears the optional fields
	if ul.MaterialURL != nil {
		l.MaterialURL = core.CleanStringPtr(ul.MaterialURL)
	}
	if ul.Notes != nil {
		l.Notes = core.CleanStringPtr(ul.Notes)
	}
}
