// Package inmemdb is an in-process store used in development and tests.
package inmemdb

import (
	"context"
	"sync"

	"github.com/trezcool/academia/core"
)

type txKey struct{}

// table is the untyped view of a Table used for cross-table reference checks.
// Its methods expect db.mu to be held for writing.
type table interface {
	name() string
	references() []core.Reference
	// keysWhere returns the keys of the rows whose col holds one of vals.
	keysWhere(col string, vals []interface{}) []interface{}
	// remove deletes the given row keys, honouring the references to this table.
	remove(j *journal, keys []interface{}) error
}

// journal records how to undo the writes of one transaction.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// DB holds every table behind one lock.
type DB struct {
	mu     sync.RWMutex
	txMu   sync.Mutex
	tables map[string]table
}

func Open() *DB {
	return &DB{tables: make(map[string]table)}
}

func (db *DB) register(t table) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.tables[t.name()] = t
}

// Tx runs fn in a transaction: when fn fails, the writes fn made are undone.
// Writes made meanwhile outside the transaction are kept.
// Transactions are serialized; nested calls join the outer transaction.
func (db *DB) Tx(ctx context.Context, fn func(ctx context.Context) error) error {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	j := new(journal)
	if err := fn(context.WithValue(ctx, txKey{}, j)); err != nil {
		db.mu.Lock()
		j.rollback()
		db.mu.Unlock()
		return err
	}
	return nil
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

// referrers returns the tables holding a reference to name, with the references.
func (db *DB) referrers(name string) map[table][]core.Reference {
	refs := make(map[table][]core.Reference)
	for _, t := range db.tables {
		for _, ref := range t.references() {
			if ref.Table == name {
				refs[t] = append(refs[t], ref)
			}
		}
	}
	return refs
}
