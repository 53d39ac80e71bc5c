package inmemdb

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/reflectx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

var mapper = reflectx.NewMapperFunc("db", strings.ToLower)

// Table is a generic in-memory table keyed by the schema key.
type Table[K comparable, T any] struct {
	db     *DB
	schema core.Schema[K, T]
	rows   map[K]T
	seq    int64
	fields map[string]*reflectx.FieldInfo
}

var _ core.Repository[int64, struct{}] = (*Table[int64, struct{}])(nil)

func NewTable[K comparable, T any](db *DB, schema core.Schema[K, T]) *Table[K, T] {
	var zero T
	t := &Table[K, T]{
		db:     db,
		schema: schema,
		rows:   make(map[K]T),
		fields: mapper.TypeMap(reflect.TypeOf(zero)).Names,
	}
	db.register(t)
	return t
}

func (t *Table[K, T]) name() string                 { return t.schema.Table }
func (t *Table[K, T]) references() []core.Reference { return t.schema.References }

func (t *Table[K, T]) keysWhere(col string, vals []interface{}) []interface{} {
	var keys []interface{}
	for k := range t.rows {
		rec := t.rows[k]
		v, err := t.value(&rec, col)
		if err != nil || v == nil {
			continue
		}
		for _, val := range vals {
			if equal(v, val) {
				keys = append(keys, k)
				break
			}
		}
	}
	return keys
}

func (t *Table[K, T]) remove(j *journal, keys []interface{}) error {
	if len(keys) == 0 {
		return nil
	}
	for ref, refs := range t.db.referrers(t.schema.Table) {
		for _, fk := range refs {
			used := ref.keysWhere(fk.Column, keys)
			if len(used) == 0 {
				continue
			}
			if fk.OnDelete != core.Cascade {
				return &core.ReferenceViolation{Table: t.schema.Table, Constraint: ref.name() + "_" + fk.Column + "_fkey"}
			}
			if err := ref.remove(j, used); err != nil {
				return err
			}
		}
	}
	for _, key := range keys {
		k := key.(K)
		rec, ok := t.rows[k]
		if !ok {
			continue
		}
		delete(t.rows, k)
		j.record(func() { t.rows[k] = rec })
	}
	return nil
}

// track returns a journal for the writes of one call and a func ending the call:
// on error the writes are undone, otherwise they join the transaction carried by ctx.
func track(ctx context.Context) (*journal, func(*error)) {
	j := new(journal)
	return j, func(err *error) {
		if *err != nil {
			j.rollback()
			return
		}
		if tx := journalFrom(ctx); tx != nil {
			tx.undo = append(tx.undo, j.undo...)
		}
	}
}

// value returns the value of col in rec, pointers dereferenced. Nil pointers yield nil.
func (t *Table[K, T]) value(rec *T, col string) (interface{}, error) {
	fi, ok := t.fields[col]
	if !ok {
		return nil, errors.Errorf("%s: unknown column %q", t.schema.Table, col)
	}
	v := reflectx.FieldByIndexesReadOnly(reflect.ValueOf(rec).Elem(), fi.Index)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	return v.Interface(), nil
}

func (t *Table[K, T]) checkUnique(rec *T, key K) error {
	for _, cols := range t.schema.Unique {
		vals := make([]interface{}, len(cols))
		var hasNull bool
		for i, col := range cols {
			v, err := t.value(rec, col)
			if err != nil {
				return err
			}
			if v == nil {
				hasNull = true
				break
			}
			vals[i] = v
		}
		if hasNull {
			continue // NULLs are never equal
		}
		for k := range t.rows {
			if k == key {
				continue
			}
			other := t.rows[k]
			same := true
			for i, col := range cols {
				ov, _ := t.value(&other, col)
				if !equal(ov, vals[i]) {
					same = false
					break
				}
			}
			if same {
				return &core.UniqueViolation{Table: t.schema.Table, Fields: cols}
			}
		}
	}
	return nil
}

func (t *Table[K, T]) Create(ctx context.Context, rec *T) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	var key K
	if t.schema.SetSeq == nil {
		key = t.schema.KeyOf(rec)
		if _, ok := t.rows[key]; ok {
			return &core.UniqueViolation{Table: t.schema.Table, Fields: []string{t.schema.Key}}
		}
	}
	if err := t.checkUnique(rec, key); err != nil {
		return err
	}
	if t.schema.SetSeq != nil {
		t.seq++
		t.schema.SetSeq(rec, t.seq)
		key = t.schema.KeyOf(rec)
	}
	t.rows[key] = *rec
	if j := journalFrom(ctx); j != nil {
		j.record(func() { delete(t.rows, key) })
	}
	return nil
}

func (t *Table[K, T]) Get(_ context.Context, id K) (T, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	if rec, ok := t.rows[id]; ok {
		return rec, nil
	}
	var zero T
	return zero, core.ErrNotFound
}

func (t *Table[K, T]) filter(filter core.Filter) ([]T, error) {
	search := strings.ToLower(filter.Search)
	recs := make([]T, 0, len(t.rows))
	for k := range t.rows {
		rec := t.rows[k]
		ok, err := t.matches(&rec, filter, search)
		if err != nil {
			return nil, err
		}
		if ok {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (t *Table[K, T]) matches(rec *T, filter core.Filter, search string) (bool, error) {
	for _, cond := range filter.Conditions {
		v, err := t.value(rec, cond.Column)
		if err != nil {
			return false, err
		}
		if !equal(v, cond.Value) {
			return false, nil
		}
	}
	if search == "" || len(filter.SearchColumns) == 0 {
		return true, nil
	}
	for _, col := range filter.SearchColumns {
		v, err := t.value(rec, col)
		if err != nil {
			return false, err
		}
		if v != nil && strings.Contains(strings.ToLower(fmt.Sprint(v)), search) {
			return true, nil
		}
	}
	return false, nil
}

func (t *Table[K, T]) Query(_ context.Context, filter core.Filter, page core.PageRequest, ordering ...core.DBOrdering) ([]T, int, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	recs, err := t.filter(filter)
	if err != nil {
		return nil, 0, err
	}
	for _, ord := range ordering {
		if _, ok := t.fields[ord.Field]; !ok {
			return nil, 0, errors.Errorf("%s: unknown column %q", t.schema.Table, ord.Field)
		}
	}
	ordering = append(ordering[:len(ordering):len(ordering)], core.DBOrdering{Field: t.schema.Key, Ascending: true})
	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range ordering {
			vi, _ := t.value(&recs[i], ord.Field)
			vj, _ := t.value(&recs[j], ord.Field)
			c := compare(vi, vj)
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})

	total := len(recs)
	if page.Unbounded() {
		return recs, total, nil
	}
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Limit
	if end > total {
		end = total
	}
	return recs[start:end], total, nil
}

func (t *Table[K, T]) Update(ctx context.Context, rec *T) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	key := t.schema.KeyOf(rec)
	prev, ok := t.rows[key]
	if !ok {
		return core.ErrNotFound
	}
	if err := t.checkUnique(rec, key); err != nil {
		return err
	}
	t.rows[key] = *rec
	if j := journalFrom(ctx); j != nil {
		j.record(func() { t.rows[key] = prev })
	}
	return nil
}

// Delete removes the rows with the given keys. Rows referencing them are deleted along
// when the reference cascades; otherwise a *core.ReferenceViolation is returned and nothing is deleted.
func (t *Table[K, T]) Delete(ctx context.Context, ids ...K) (err error) {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()

	j, done := track(ctx)
	defer done(&err)
	keys := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = id
	}
	return t.remove(j, keys)
}

func (t *Table[K, T]) Sum(_ context.Context, filter core.Filter, column string) (float64, error) {
	t.db.mu.RLock()
	defer t.db.mu.RUnlock()

	recs, err := t.filter(filter)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range recs {
		v, err := t.value(&recs[i], column)
		if err != nil {
			return 0, err
		}
		if f, ok := toFloat(v); ok {
			sum += f
		}
	}
	return sum, nil
}

// equal compares column values loosely: named types compare equal to their underlying values.
func equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok && ba != bb {
			if !ba {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
