package core

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	ErrNotFound     = errors.New("registro não encontrado")
	ErrInvalidInput = errors.New("dados inválidos")
	ErrDuplicate    = errors.New("já existe um registro com este valor")
)

// FieldError is used to indicate an error with a specific struct field.
// Field holds the JSON path, e.g. `pessoa.cpf` or `items[2].password`.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	if err == nil {
		err = ErrInvalidInput
	}
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	if len(err.Fields) == 0 {
		return err.Err.Error()
	}
	msgs := make([]string, len(err.Fields))
	for i, f := range err.Fields {
		msgs[i] = f.Field + ": " + f.Error
	}
	return err.Err.Error() + ": " + strings.Join(msgs, "; ")
}

// UniqueViolation is returned by the storage layer when a unique constraint fails.
type UniqueViolation struct {
	Table  string
	Fields []string
}

func (u UniqueViolation) Error() string {
	return fmt.Sprintf("%s: valor duplicado para (%s)", u.Table, strings.Join(u.Fields, ", "))
}

// ReferenceViolation is returned by the storage layer when a foreign key constraint fails:
// the referenced record does not exist or the deleted record is still referenced.
type ReferenceViolation struct {
	Table      string
	Constraint string
}

func (r ReferenceViolation) Error() string {
	return fmt.Sprintf("%s: registro relacionado inexistente ou em uso (%s)", r.Table, r.Constraint)
}

func IsReferenceViolation(err error) bool {
	_, ok := errors.Cause(err).(*ReferenceViolation)
	return ok
}

func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

func IsUniqueViolation(err error) bool {
	_, ok := errors.Cause(err).(*UniqueViolation)
	return ok
}

// FieldErrors flattens a validation failure into an ordered list of path + message pairs.
// It returns nil when err is not a validation failure.
func FieldErrors(err error, translator ut.Translator) []FieldError {
	switch e := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make([]FieldError, len(e))
		for i, fe := range e {
			flds[i] = FieldError{Field: fieldPath(fe.Namespace()), Error: fe.Translate(translator)}
		}
		return flds
	case *ValidationError:
		return e.Fields
	}
	return nil
}

// fieldPath turns a validator namespace into a JSON path: the root struct name and the
// names of embedded structs are dropped (JSON names never start with an upper-case letter).
func fieldPath(ns string) string {
	segs := strings.Split(ns, ".")
	path := segs[:0]
	for _, seg := range segs {
		if seg == "" || unicode.IsUpper([]rune(seg)[0]) {
			continue
		}
		path = append(path, seg)
	}
	return strings.Join(path, ".")
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}

// IsDuplicate reports whether err is a validation failure caused by an already existing value.
func IsDuplicate(err error) bool {
	verr, ok := errors.Cause(err).(*ValidationError)
	return ok && verr.Err == ErrDuplicate
}

// PrefixFields prepends prefix to the field paths of a validation failure. Other errors are returned as is.
func PrefixFields(err error, prefix string) error {
	verr, ok := errors.Cause(err).(*ValidationError)
	if !ok {
		return err
	}
	flds := make([]FieldError, len(verr.Fields))
	for i, f := range verr.Fields {
		flds[i] = FieldError{Field: JoinPath(prefix, f.Field), Error: f.Error}
	}
	return &ValidationError{Err: verr.Err, Fields: flds}
}

// JoinPath joins two field paths, e.g. `items[0]` and `pessoa.cpf`.
func JoinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	}
	return prefix + "." + path
}
