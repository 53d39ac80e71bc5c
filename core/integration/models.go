package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/professor"
	"github.com/trezcool/academia/core/student"
)

// Sources
const SourceDirectus = "directus"

// Kinds of imported records
const (
	KindStudent   = "aluno"
	KindProfessor = "professor"
)

// Item statuses
const (
	StatusCreated = "created"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

const MaxImportItems = 50

var Schema = core.Schema[int64, Link]{
	Table:  "integracoes",
	Key:    "id",
	KeyOf:  func(l *Link) int64 { return l.ID },
	SetSeq: func(l *Link, id int64) { l.ID = id },
	Unique: [][]string{{"origem", "tipo", "external_id"}},
	Search: []string{"external_id", "codigo"},
}

type Repository = core.Repository[int64, Link]

// Link remembers which local record an external record was imported as.
type Link struct {
	ID         int64  `json:"id" db:"id"`
	Source     string `json:"origem" db:"origem"`
	Kind       string `json:"tipo" db:"tipo"`
	ExternalID string `json:"externalId" db:"external_id"`
	Code       string `json:"codigo" db:"codigo"` // RA or matrícula
	core.Timestamps
}

// ExternalID is the id of a record in the source system. It is sent as a JSON string or number
// and always kept as a string.
type ExternalID string

func (id *ExternalID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ExternalID(strings.TrimSpace(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			*id = ExternalID(strconv.FormatInt(i, 10))
			return nil
		}
		f, err := v.Float64()
		if err != nil {
			return err
		}
		*id = ExternalID(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return errors.Errorf("directusId: esperado texto ou número, recebido %s", data)
	}
	return nil
}

type StudentItem struct {
	student.NewStudentWithUser
	DirectusID ExternalID `json:"directusId" validate:"required,max=100"`
}

type ImportStudentsRequest struct {
	Items []StudentItem `json:"items" validate:"required,min=1,max=50,dive"`
}

func (r *ImportStudentsRequest) Validate(validate *validator.Validate) error {
	for i := range r.Items {
		r.Items[i].Clean()
	}
	return core.ValidateStruct(validate, r)
}

// Refine runs the cross-field rules of every item.
func (r ImportStudentsRequest) Refine() []core.FieldError {
	var flds []core.FieldError
	for i, it := range r.Items {
		flds = append(flds, prefixed(i, it.Refine())...)
	}
	return flds
}

type ProfessorItem struct {
	professor.NewProfessorWithUser
	DirectusID ExternalID `json:"directusId" validate:"required,max=100"`
}

type ImportProfessorsRequest struct {
	Items []ProfessorItem `json:"items" validate:"required,min=1,max=50,dive"`
}

func (r *ImportProfessorsRequest) Validate(validate *validator.Validate) error {
	for i := range r.Items {
		r.Items[i].Clean()
	}
	return core.ValidateStruct(validate, r)
}

func (r ImportProfessorsRequest) Refine() []core.FieldError {
	var flds []core.FieldError
	for i, it := range r.Items {
		flds = append(flds, prefixed(i, it.Refine())...)
	}
	return flds
}

func prefixed(i int, flds []core.FieldError) []core.FieldError {
	out := make([]core.FieldError, len(flds))
	for j, f := range flds {
		out[j] = core.FieldError{Field: core.JoinPath(itemPath(i), f.Field), Error: f.Error}
	}
	return out
}

func itemPath(i int) string {
	return fmt.Sprintf("items[%d]", i)
}

// ItemResult is the outcome of one imported item.
type ItemResult struct {
	Index      int               `json:"index"`
	DirectusID string            `json:"directusId"`
	Status     string            `json:"status"`
	Code       string            `json:"codigo,omitempty"`
	PersonID   int64             `json:"pessoaId,omitempty"`
	UserID     *int64            `json:"usuarioId,omitempty"`
	Error      string            `json:"error,omitempty"`
	Errors     []core.FieldError `json:"errors,omitempty"`
}

type Result struct {
	Total   int          `json:"total"`
	Created int          `json:"criados"`
	Skipped int          `json:"ignorados"`
	Failed  int          `json:"falhas"`
	Items   []ItemResult `json:"items"`
}

func (r *Result) add(ir ItemResult) {
	r.Total++
	switch ir.Status {
	case StatusCreated:
		r.Created++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Items = append(r.Items, ir)
}
