package core

import (
	"context"
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Condition matches rows whose Column equals Value.
type Condition struct {
	Column string
	Value  interface{}
}

// Filter applies AND operation on Conditions.
// Search does a case-insensitive match on one of SearchColumns.
type Filter struct {
	Search        string
	SearchColumns []string
	Conditions    []Condition
}

func (f Filter) Where(col string, val interface{}) Filter {
	f.Conditions = append(f.Conditions[:len(f.Conditions):len(f.Conditions)], Condition{Column: col, Value: val})
	return f
}

func (f Filter) Matching(search string, cols ...string) Filter {
	f.Search = CleanString(search)
	f.SearchColumns = cols
	return f
}

// OnDelete is the action taken on the referencing rows when a referenced row is deleted.
type OnDelete int

const (
	Restrict OnDelete = iota
	Cascade
)

// Reference is a foreign key: Column holds the key of a row of Table.
type Reference struct {
	Column   string
	Table    string
	OnDelete OnDelete
}

// Schema describes how a record type is stored.
type Schema[K comparable, T any] struct {
	Table      string
	Key        string
	KeyOf      func(*T) K
	SetSeq     func(*T, int64) // nil when the key is supplied by the caller
	Unique     [][]string
	Search     []string
	References []Reference
}

// Repository is the storage contract shared by every record type.
type Repository[K comparable, T any] interface {
	Create(ctx context.Context, rec *T) error
	Get(ctx context.Context, id K) (T, error)
	// Query returns the records of the requested page and the total count of matching records.
	Query(ctx context.Context, filter Filter, page PageRequest, ordering ...DBOrdering) ([]T, int, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, ids ...K) error
	// Sum adds up the numeric column over the matching records. It is 0 when nothing matches.
	Sum(ctx context.Context, filter Filter, column string) (float64, error)
}

// Transactor runs fn inside a transaction carried by the context passed to fn.
// Every repository call made with that context joins the transaction.
type Transactor interface {
	Tx(ctx context.Context, fn func(ctx context.Context) error) error
}
