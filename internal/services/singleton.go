package services

import (
	"context"
	"time"

	"portfolio-backend-go/internal/store"
)

// SingletonID is the only id a singleton table accepts.
const SingletonID = 1

// SingletonRepository reads and replaces one-row content tables.
type SingletonRepository[T any] struct {
	Store    store.Store
	Schema   Schema
	Fallback func(now time.Time) T
	Now      func() time.Time
}

func NewSingletonRepository[T any](st store.Store, schema Schema, fallback func(time.Time) T) *SingletonRepository[T] {
	return &SingletonRepository[T]{
		Store:    st,
		Schema:   schema,
		Fallback: fallback,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the newest row, or the fallback content when the table is empty.
func (r *SingletonRepository[T]) Get(ctx context.Context) (T, error) {
	var zero T
	items := []T{}
	q := store.Query{
		Table: r.Schema.Table,
		Order: []store.Order{store.Desc("created_at"), store.Desc("id")},
		Limit: 1,
	}
	if err := r.Store.Select(ctx, q, &items); err != nil {
		return zero, ErrStore(err, "Failed to fetch "+r.Schema.Name)
	}
	if len(items) == 0 {
		return r.Fallback(r.Now()), nil
	}
	return items[0], nil
}

// Put replaces the content with one upsert keyed on SingletonID.
func (r *SingletonRepository[T]) Put(ctx context.Context, payload map[string]any) (T, error) {
	var zero T
	row, err := r.Schema.BuildCreate(payload)
	if err != nil {
		return zero, err
	}
	row["id"] = int64(SingletonID)
	row["updated_at"] = r.Now()
	saved := []T{}
	if err := r.Store.Upsert(ctx, r.Schema.Table, row, "id", &saved); err != nil {
		return zero, ErrStore(err, "Failed to update "+r.Schema.Name)
	}
	if len(saved) == 0 {
		return zero, ErrStore(nil, "Failed to update "+r.Schema.Name)
	}
	return saved[0], nil
}
