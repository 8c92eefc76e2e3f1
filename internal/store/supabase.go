package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

// Supabase implements Store through the PostgREST API of a hosted project.
// PostgREST has no multi-request transactions, so Supabase does not
// implement Transactor and callers fall back to compensating writes.
// The underlying client takes no context; ctx is only checked up front.
type Supabase struct {
	from func(table string) *postgrest.QueryBuilder
}

func NewSupabase(client *supa.Client) *Supabase {
	return &Supabase{from: client.From}
}

func (s *Supabase) Select(ctx context.Context, q Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	builder := applyFilters(s.from(q.Table).Select("*", "", false), q.Filters)
	for _, o := range q.Order {
		builder = builder.Order(o.Column, &postgrest.OrderOpts{Ascending: !o.Desc})
	}
	if q.Limit > 0 {
		builder = builder.Limit(q.Limit, "")
	}
	return wrap("select", q.Table, execute(builder, dest))
}

func (s *Supabase) Insert(ctx context.Context, table string, rows []Row, dest any) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	builder := s.from(table).Insert(rows, false, "", returning(dest), "")
	return wrap("insert", table, execute(builder, dest))
}

func (s *Supabase) Update(ctx context.Context, table string, values Row, filters []Filter, dest any) error {
	if len(filters) == 0 {
		return wrap("update", table, ErrEmptyFilter)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	builder := applyFilters(s.from(table).Update(values, returning(dest), ""), filters)
	return wrap("update", table, execute(builder, dest))
}

func (s *Supabase) Upsert(ctx context.Context, table string, values Row, conflictColumn string, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	builder := s.from(table).Upsert(values, conflictColumn, returning(dest), "")
	return wrap("upsert", table, execute(builder, dest))
}

func (s *Supabase) Delete(ctx context.Context, table string, filters []Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, wrap("delete", table, ErrEmptyFilter)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	builder := applyFilters(s.from(table).Delete("representation", ""), filters)
	body, _, err := builder.Execute()
	if err != nil {
		return 0, wrap("delete", table, err)
	}
	var deleted []json.RawMessage
	if err := json.Unmarshal(body, &deleted); err != nil {
		return 0, nil
	}
	return int64(len(deleted)), nil
}

func (s *Supabase) Ping(ctx context.Context) error {
	var rows []json.RawMessage
	return s.Select(ctx, Query{Table: "hero_content", Limit: 1}, &rows)
}

func applyFilters(builder *postgrest.FilterBuilder, filters []Filter) *postgrest.FilterBuilder {
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			values := make([]string, len(f.Values))
			for i, v := range f.Values {
				values[i] = fmt.Sprint(v)
			}
			builder = builder.In(f.Column, values)
		default:
			builder = builder.Eq(f.Column, fmt.Sprint(f.Values[0]))
		}
	}
	return builder
}

func returning(dest any) string {
	if dest == nil {
		return "minimal"
	}
	return "representation"
}

func execute(builder *postgrest.FilterBuilder, dest any) error {
	body, _, err := builder.Execute()
	if err != nil {
		return err
	}
	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
