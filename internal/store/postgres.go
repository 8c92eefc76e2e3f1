package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Postgres implements Store on top of sqlx. Identifiers are always quoted
// because several tables use "order" as a column.
type Postgres struct {
	db sqlx.ExtContext
	// raw is nil inside a transaction.
	raw *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db, raw: db}
}

func (p *Postgres) Select(ctx context.Context, q Query, dest any) error {
	query, args := buildSelect(q)
	return wrap("select", q.Table, sqlx.SelectContext(ctx, p.db, dest, query, args...))
}

func (p *Postgres) Insert(ctx context.Context, table string, rows []Row, dest any) error {
	if len(rows) == 0 {
		return nil
	}
	query, args := buildInsert(table, rows)
	return wrap("insert", table, p.returning(ctx, dest, query, args))
}

func (p *Postgres) Update(ctx context.Context, table string, values Row, filters []Filter, dest any) error {
	if len(filters) == 0 {
		return wrap("update", table, ErrEmptyFilter)
	}
	query, args := buildUpdate(table, values, filters)
	return wrap("update", table, p.returning(ctx, dest, query, args))
}

func (p *Postgres) Upsert(ctx context.Context, table string, values Row, conflictColumn string, dest any) error {
	query, args := buildUpsert(table, values, conflictColumn)
	return wrap("upsert", table, p.returning(ctx, dest, query, args))
}

func (p *Postgres) Delete(ctx context.Context, table string, filters []Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, wrap("delete", table, ErrEmptyFilter)
	}
	where, args := buildWhere(filters, 1)
	res, err := p.db.ExecContext(ctx, "DELETE FROM "+quote(table)+where, args...)
	if err != nil {
		return 0, wrap("delete", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if p.raw == nil {
		return nil
	}
	return p.raw.PingContext(ctx)
}

func (p *Postgres) InTx(ctx context.Context, fn func(tx Store) error) error {
	if p.raw == nil {
		return fn(p)
	}
	tx, err := p.raw.BeginTxx(ctx, nil)
	if err != nil {
		return wrap("begin", "", err)
	}
	if err := fn(&Postgres{db: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return wrap("commit", "", tx.Commit())
}

func (p *Postgres) returning(ctx context.Context, dest any, query string, args []any) error {
	if dest == nil {
		_, err := p.db.ExecContext(ctx, query, args...)
		return err
	}
	err := sqlx.SelectContext(ctx, p.db, dest, query+" RETURNING *", args...)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

func buildSelect(q Query) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(quote(q.Table))
	where, args := buildWhere(q.Filters, 1)
	b.WriteString(where)
	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, quote(o.Column)+" "+dir)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String(), args
}

func buildInsert(table string, rows []Row) (string, []any) {
	columns := sortedColumns(rows[0])
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quote(c)
	}
	args := make([]any, 0, len(rows)*len(columns))
	tuples := make([]string, 0, len(rows))
	n := 1
	for _, row := range rows {
		ph := make([]string, len(columns))
		for i, c := range columns {
			ph[i] = "$" + strconv.Itoa(n)
			args = append(args, row[c])
			n++
		}
		tuples = append(tuples, "("+strings.Join(ph, ", ")+")")
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", quote(table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
	return query, args
}

func buildUpdate(table string, values Row, filters []Filter) (string, []any) {
	columns := sortedColumns(values)
	sets := make([]string, len(columns))
	args := make([]any, 0, len(columns))
	for i, c := range columns {
		sets[i] = quote(c) + " = $" + strconv.Itoa(i+1)
		args = append(args, values[c])
	}
	where, whereArgs := buildWhere(filters, len(args)+1)
	args = append(args, whereArgs...)
	return "UPDATE " + quote(table) + " SET " + strings.Join(sets, ", ") + where, args
}

func buildUpsert(table string, values Row, conflictColumn string) (string, []any) {
	query, args := buildInsert(table, []Row{values})
	sets := []string{}
	for _, c := range sortedColumns(values) {
		if c == conflictColumn {
			continue
		}
		sets = append(sets, quote(c)+" = EXCLUDED."+quote(c))
	}
	if len(sets) == 0 {
		return query + " ON CONFLICT (" + quote(conflictColumn) + ") DO NOTHING", args
	}
	return query + " ON CONFLICT (" + quote(conflictColumn) + ") DO UPDATE SET " + strings.Join(sets, ", "), args
}

func buildWhere(filters []Filter, start int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(filters))
	args := []any{}
	n := start
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			if len(f.Values) == 0 {
				clauses = append(clauses, "FALSE")
				continue
			}
			ph := make([]string, len(f.Values))
			for i, v := range f.Values {
				ph[i] = "$" + strconv.Itoa(n)
				args = append(args, v)
				n++
			}
			clauses = append(clauses, quote(f.Column)+" IN ("+strings.Join(ph, ", ")+")")
		default:
			clauses = append(clauses, quote(f.Column)+" = $"+strconv.Itoa(n))
			args = append(args, f.Values[0])
			n++
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func sortedColumns(row Row) []string {
	columns := make([]string, 0, len(row))
	for c := range row {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
