package pgdb

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Table implements core.Repository over one table. Columns come from the `db` tags of T.
type Table[K comparable, T any] struct {
	db      *DB
	schema  core.Schema[K, T]
	columns []string // every mapped column
	known   map[string]bool
}

func NewTable[K comparable, T any](db *DB, schema core.Schema[K, T]) *Table[K, T] {
	var zero T
	tm := db.Mapper.TypeMap(reflect.TypeOf(zero))
	t := &Table[K, T]{db: db, schema: schema, known: make(map[string]bool)}
	for _, fi := range tm.Index {
		if fi.Embedded || fi.Name == "" || strings.Contains(fi.Path, ".") {
			continue
		}
		if _, ok := fi.Field.Tag.Lookup("db"); !ok {
			continue
		}
		t.columns = append(t.columns, fi.Name)
		t.known[fi.Name] = true
	}
	return t
}

func (t *Table[K, T]) table() string { return pq.QuoteIdentifier(t.schema.Table) }

func (t *Table[K, T]) column(col string) (string, error) {
	if !t.known[col] {
		return "", errors.Errorf("%s: unknown column %q", t.schema.Table, col)
	}
	return pq.QuoteIdentifier(col), nil
}

// values returns the writable columns of rec and their values.
func (t *Table[K, T]) values(rec *T, withKey bool) ([]string, []interface{}) {
	v := reflect.ValueOf(rec).Elem()
	cols := make([]string, 0, len(t.columns))
	args := make([]interface{}, 0, len(t.columns))
	for _, col := range t.columns {
		if col == t.schema.Key && !withKey {
			continue
		}
		cols = append(cols, col)
		args = append(args, t.db.Mapper.FieldByName(v, col).Interface())
	}
	return cols, args
}

func (t *Table[K, T]) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	pqErr, ok := errors.Cause(err).(*pq.Error)
	if !ok {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return &core.UniqueViolation{Table: t.schema.Table, Fields: t.uniqueColumns(pqErr.Constraint)}
	case foreignKeyViolation:
		return &core.ReferenceViolation{Table: t.schema.Table, Constraint: pqErr.Constraint}
	}
	return err
}

// uniqueColumns finds the unique set behind a constraint named the postgres way
// (<table>_<col>_<col>_key). The constraint name is returned when none matches.
func (t *Table[K, T]) uniqueColumns(constraint string) []string {
	for _, cols := range t.schema.Unique {
		if constraint == t.schema.Table+"_"+strings.Join(cols, "_")+"_key" {
			return cols
		}
	}
	return []string{constraint}
}

func (t *Table[K, T]) Create(ctx context.Context, rec *T) error {
	cols, args := t.values(rec, t.schema.SetSeq == nil)
	quoted := make([]string, len(cols))
	holders := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = pq.QuoteIdentifier(col)
		holders[i] = fmt.Sprintf("$%d", i+1)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		t.table(), strings.Join(quoted, ", "), strings.Join(holders, ", "))
	return t.mapErr(sqlx.GetContext(ctx, t.db.ext(ctx), rec, q, args...))
}

func (t *Table[K, T]) Get(ctx context.Context, id K) (T, error) {
	var rec T
	q := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", t.table(), pq.QuoteIdentifier(t.schema.Key))
	err := sqlx.GetContext(ctx, t.db.ext(ctx), &rec, q, id)
	return rec, t.mapErr(err)
}

// where renders the filter as a WHERE clause starting at placeholder $1.
func (t *Table[K, T]) where(filter core.Filter) (string, []interface{}, error) {
	var (
		clauses []string
		args    []interface{}
	)
	for _, cond := range filter.Conditions {
		col, err := t.column(cond.Column)
		if err != nil {
			return "", nil, err
		}
		if cond.Value == nil {
			clauses = append(clauses, col+" IS NULL")
			continue
		}
		args = append(args, cond.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter.Search != "" && len(filter.SearchColumns) > 0 {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		ors := make([]string, 0, len(filter.SearchColumns))
		for _, c := range filter.SearchColumns {
			col, err := t.column(c)
			if err != nil {
				return "", nil, err
			}
			ors = append(ors, fmt.Sprintf("%s::text ILIKE $%d", col, len(args)))
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (t *Table[K, T]) Query(ctx context.Context, filter core.Filter, page core.PageRequest, ordering ...core.DBOrdering) ([]T, int, error) {
	where, args, err := t.where(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := sqlx.GetContext(ctx, t.db.ext(ctx), &total, "SELECT COUNT(*) FROM "+t.table()+where, args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting records")
	}

	orders := make([]string, 0, len(ordering)+1)
	for _, ord := range ordering {
		col, err := t.column(ord.Field)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
	}
	orders = append(orders, pq.QuoteIdentifier(t.schema.Key)+" ASC")

	q := "SELECT * FROM " + t.table() + where + " ORDER BY " + strings.Join(orders, ", ")
	if !page.Unbounded() {
		q += fmt.Sprintf(" LIMIT %d OFFSET %d", page.Limit, page.Offset())
	}
	recs := make([]T, 0)
	if err := sqlx.SelectContext(ctx, t.db.ext(ctx), &recs, q, args...); err != nil {
		return nil, 0, errors.Wrap(err, "selecting records")
	}
	return recs, total, nil
}

func (t *Table[K, T]) Update(ctx context.Context, rec *T) error {
	cols, args := t.values(rec, false)
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), i+1)
	}
	args = append(args, t.schema.KeyOf(rec))
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		t.table(), strings.Join(sets, ", "), pq.QuoteIdentifier(t.schema.Key), len(args))
	return t.mapErr(sqlx.GetContext(ctx, t.db.ext(ctx), rec, q, args...))
}

func (t *Table[K, T]) Delete(ctx context.Context, ids ...K) error {
	if len(ids) == 0 {
		return nil
	}
	holders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		holders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s IN (%s)",
		t.table(), pq.QuoteIdentifier(t.schema.Key), strings.Join(holders, ", "))
	_, err := t.db.ext(ctx).ExecContext(ctx, q, args...)
	return t.mapErr(err)
}

func (t *Table[K, T]) Sum(ctx context.Context, filter core.Filter, column string) (float64, error) {
	col, err := t.column(column)
	if err != nil {
		return 0, err
	}
	where, args, err := t.where(filter)
	if err != nil {
		return 0, err
	}
	var sum null.Float64 // NULL when nothing matches
	q := fmt.Sprintf("SELECT SUM(%s)::float8 FROM %s%s", col, t.table(), where)
	if err := sqlx.GetContext(ctx, t.db.ext(ctx), &sum, q, args...); err != nil {
		return 0, errors.Wrap(err, "summing records")
	}
	return sum.Float64, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
