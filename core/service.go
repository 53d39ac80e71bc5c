package core

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var NowFunc = time.Now // mockable

// Timestamps is embedded by every stored record.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"` // UTC
}

func (ts *Timestamps) Stamp(now time.Time, created bool) {
	if created || ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

type stamper interface {
	Stamp(now time.Time, created bool)
}

func stamp(rec interface{}, created bool) {
	if s, ok := rec.(stamper); ok {
		s.Stamp(NowFunc().UTC(), created)
	}
}

// Service is the CRUD service shared by the academic records.
// Records implementing Refiner are checked before every write.
type Service[K comparable, T any] struct {
	repo   Repository[K, T]
	order  []DBOrdering
	fields map[string]string // {column: json name}
}

func NewService[K comparable, T any](repo Repository[K, T], defaultOrdering ...DBOrdering) *Service[K, T] {
	var zero T
	fields := make(map[string]string)
	for name, col := range Columns(zero) {
		fields[col] = name
	}
	return &Service[K, T]{repo: repo, order: defaultOrdering, fields: fields}
}

func (svc *Service[K, T]) Repo() Repository[K, T] { return svc.repo }

func (svc *Service[K, T]) check(rec *T) error {
	if r, ok := interface{}(rec).(Refiner); ok {
		if flds := r.Refine(); len(flds) > 0 {
			return NewValidationError(ErrInvalidInput, flds...)
		}
	}
	return nil
}

// uniqueErr reports a unique violation on the JSON field of its first column.
func (svc *Service[K, T]) uniqueErr(err error) error {
	uv, ok := errors.Cause(err).(*UniqueViolation)
	if !ok {
		return err
	}
	fld := ""
	if len(uv.Fields) > 0 {
		if name, ok := svc.fields[uv.Fields[0]]; ok {
			fld = name
		}
	}
	return NewValidationError(ErrDuplicate, FieldError{Field: fld, Error: ErrDuplicate.Error()})
}

func (svc *Service[K, T]) Create(ctx context.Context, rec T) (T, error) {
	if err := svc.check(&rec); err != nil {
		return rec, err
	}
	stamp(&rec, true)
	if err := svc.repo.Create(ctx, &rec); err != nil {
		return rec, svc.uniqueErr(errors.Wrap(err, "creating record"))
	}
	return rec, nil
}

func (svc *Service[K, T]) Get(ctx context.Context, id K) (T, error) {
	rec, err := svc.repo.Get(ctx, id)
	return rec, errors.Wrap(err, "getting record")
}

func (svc *Service[K, T]) List(ctx context.Context, filter Filter, page PageRequest, ordering ...DBOrdering) (Page[T], error) {
	if len(ordering) == 0 {
		ordering = svc.order
	}
	recs, total, err := svc.repo.Query(ctx, filter, page, ordering...)
	if err != nil {
		return Page[T]{}, errors.Wrap(err, "querying records")
	}
	return NewPage(recs, page, total), nil
}

// Update loads the record, applies patch and stores it.
func (svc *Service[K, T]) Update(ctx context.Context, id K, patch func(*T)) (T, error) {
	rec, err := svc.repo.Get(ctx, id)
	if err != nil {
		return rec, errors.Wrap(err, "getting record")
	}
	patch(&rec)
	if err := svc.check(&rec); err != nil {
		return rec, err
	}
	stamp(&rec, false)
	if err := svc.repo.Update(ctx, &rec); err != nil {
		return rec, svc.uniqueErr(errors.Wrap(err, "updating record"))
	}
	return rec, nil
}

func (svc *Service[K, T]) Delete(ctx context.Context, ids ...K) error {
	return errors.Wrap(svc.repo.Delete(ctx, ids...), "deleting records")
}

// CountBy returns a func counting the records of repo whose column equals a value.
func CountBy[K comparable, T any, V any](repo Repository[K, T], column string) func(ctx context.Context, v V) (int, error) {
	return func(ctx context.Context, v V) (int, error) {
		_, total, err := repo.Query(ctx, Filter{}.Where(column, v), PageRequest{Page: 1, Limit: 1})
		return total, errors.Wrapf(err, "counting by %s", column)
	}
}

// FindAll returns every record of repo matching filter.
func FindAll[K comparable, T any](ctx context.Context, repo Repository[K, T], filter Filter, ordering ...DBOrdering) ([]T, error) {
	recs, _, err := repo.Query(ctx, filter, All, ordering...)
	return recs, errors.Wrap(err, "querying records")
}

// FindOne returns the first record of repo matching filter or ErrNotFound.
func FindOne[K comparable, T any](ctx context.Context, repo Repository[K, T], filter Filter) (T, error) {
	recs, _, err := repo.Query(ctx, filter, PageRequest{Page: 1, Limit: 1})
	if err != nil {
		var zero T
		return zero, errors.Wrap(err, "querying records")
	}
	if len(recs) == 0 {
		var zero T
		return zero, ErrNotFound
	}
	return recs[0], nil
}
