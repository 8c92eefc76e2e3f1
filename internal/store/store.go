// Package store is the table-level persistence boundary. Repositories talk to
// a Store; adapters translate the calls to SQL (postgres) or PostgREST
// (supabase).
package store

import (
	"context"
	"errors"
)

// Row is a column → value mapping used for writes.
type Row map[string]any

const (
	OpEq = "eq"
	OpIn = "in"
)

type Filter struct {
	Column string
	Op     string
	Values []any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Values: []any{value}}
}

func In(column string, values ...any) Filter {
	return Filter{Column: column, Op: OpIn, Values: values}
}

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

type Query struct {
	Table   string
	Filters []Filter
	Order   []Order
	Limit   int
}

// Store writes return the affected rows into dest, which must be a pointer
// to a slice of row structs. A nil dest discards them.
type Store interface {
	Select(ctx context.Context, q Query, dest any) error
	Insert(ctx context.Context, table string, rows []Row, dest any) error
	Update(ctx context.Context, table string, values Row, filters []Filter, dest any) error
	Upsert(ctx context.Context, table string, values Row, conflictColumn string, dest any) error
	Delete(ctx context.Context, table string, filters []Filter) (int64, error)
	Ping(ctx context.Context) error
}

// Transactor is implemented by stores that can run several writes atomically.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// Error carries the adapter's message so it can be passed through to clients.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var serr *Error
	if errors.As(err, &serr) {
		return err
	}
	return &Error{Op: op, Table: table, Err: err}
}

// ErrEmptyFilter guards Update and Delete against touching a whole table.
var ErrEmptyFilter = errors.New("store: update or delete without filter")
