package services

import (
	"context"
	"time"

	"portfolio-backend-go/internal/store"
)

// Repository is the CRUD surface shared by every list entity. T is the row
// struct the store decodes into.
type Repository[T any] struct {
	Store  store.Store
	Schema Schema
	Now    func() time.Time
}

func NewRepository[T any](st store.Store, schema Schema) *Repository[T] {
	return &Repository[T]{Store: st, Schema: schema, Now: func() time.Time { return time.Now().UTC() }}
}

func (r *Repository[T]) List(ctx context.Context, filters ...store.Filter) ([]T, error) {
	return r.list(ctx, r.Store, filters...)
}

func (r *Repository[T]) list(ctx context.Context, st store.Store, filters ...store.Filter) ([]T, error) {
	items := []T{}
	err := st.Select(ctx, store.Query{Table: r.Schema.Table, Filters: filters, Order: r.Schema.Order}, &items)
	if err != nil {
		return nil, ErrStore(err, "Failed to fetch "+r.Schema.Plural)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r *Repository[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	items := []T{}
	err := r.Store.Select(ctx, store.Query{Table: r.Schema.Table, Filters: []store.Filter{store.Eq("id", id)}, Limit: 1}, &items)
	if err != nil {
		return zero, ErrStore(err, "Failed to fetch "+r.Schema.Name)
	}
	if len(items) == 0 {
		return zero, ErrNotFound(capitalize(r.Schema.Name) + " not found")
	}
	return items[0], nil
}

func (r *Repository[T]) Create(ctx context.Context, payload map[string]any) (T, error) {
	var zero T
	row, err := r.Schema.BuildCreate(payload)
	if err != nil {
		return zero, err
	}
	return r.insert(ctx, r.Store, row)
}

func (r *Repository[T]) insert(ctx context.Context, st store.Store, row store.Row) (T, error) {
	var zero T
	created := []T{}
	if err := st.Insert(ctx, r.Schema.Table, []store.Row{row}, &created); err != nil {
		return zero, ErrStore(err, "Failed to create "+r.Schema.Name)
	}
	if len(created) == 0 {
		return zero, ErrStore(nil, "Failed to create "+r.Schema.Name)
	}
	return created[0], nil
}

// Update writes only the keys present in payload. A missing row is NotFound.
func (r *Repository[T]) Update(ctx context.Context, id int64, payload map[string]any) (T, error) {
	var zero T
	row, err := r.Schema.BuildUpdate(payload, r.Now())
	if err != nil {
		return zero, err
	}
	return r.update(ctx, r.Store, id, row)
}

func (r *Repository[T]) update(ctx context.Context, st store.Store, id int64, row store.Row) (T, error) {
	var zero T
	updated := []T{}
	if err := st.Update(ctx, r.Schema.Table, row, []store.Filter{store.Eq("id", id)}, &updated); err != nil {
		return zero, ErrStore(err, "Failed to update "+r.Schema.Name)
	}
	if len(updated) == 0 {
		return zero, ErrNotFound(capitalize(r.Schema.Name) + " not found")
	}
	return updated[0], nil
}

// Delete succeeds whether or not the row existed.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	if _, err := r.Store.Delete(ctx, r.Schema.Table, []store.Filter{store.Eq("id", id)}); err != nil {
		return ErrStore(err, "Failed to delete "+r.Schema.Name)
	}
	return nil
}
