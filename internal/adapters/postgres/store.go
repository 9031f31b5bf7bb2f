package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// Store is the remote implementation of store.Adapter. Every operation runs
// under a per-operation timeout so a slow network backend cannot hang the
// caller indefinitely.
type Store struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

var _ store.Adapter = (*Store)(nil)

// Options tunes the store. Zero values get defaults.
type Options struct {
	// OpTimeout bounds each storage operation. Defaults to 5s.
	OpTimeout time.Duration
}

func NewStore(pool *pgxpool.Pool, opts Options) *Store {
	timeout := opts.OpTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{pool: pool, opTimeout: timeout}
}

func (s *Store) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range createStatements() {
		opCtx, cancel := s.opCtx(ctx)
		_, err := s.pool.Exec(opCtx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrSchema, err)
		}
	}
	return nil
}

func (s *Store) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	rel, err := store.ValidateQuery(q)
	if err != nil {
		return nil, err
	}
	sql, args := compileSelect(rel, q)

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	rows, err := s.pool.Query(opCtx, sql, args...)
	if err != nil {
		return nil, translate(rel.Name, err)
	}
	defer rows.Close()

	out := make([]store.Row, 0)
	for rows.Next() {
		dests, build := scanDests(rel)
		if err := rows.Scan(dests...); err != nil {
			return nil, translate(rel.Name, err)
		}
		out = append(out, build())
	}
	if err := rows.Err(); err != nil {
		return nil, translate(rel.Name, err)
	}
	return out, nil
}

func (s *Store) SelectOne(ctx context.Context, q store.Query) (store.Row, error) {
	q.Limit = 1
	rows, err := s.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	return rows[0], nil
}

func (s *Store) Insert(ctx context.Context, relation string, row store.Row) (string, error) {
	rel, ok := store.RelationByName(relation)
	if !ok {
		return "", fmt.Errorf("%w: unknown relation %q", store.ErrQuery, relation)
	}
	// Normalize client-side first so both backends reject the same inputs.
	norm, err := store.NormalizeRow(rel, row)
	if err != nil {
		return "", err
	}

	cols := make([]string, 0, len(rel.Columns))
	params := make([]string, 0, len(rel.Columns))
	args := make([]any, 0, len(rel.Columns))
	for _, col := range rel.Columns {
		cols = append(cols, col.Name)
		params = append(params, fmt.Sprintf("$%d", len(args)+1))
		args = append(args, norm[col.Name])
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		rel.Name, strings.Join(cols, ", "), strings.Join(params, ", "))

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	if _, err := s.pool.Exec(opCtx, sql, args...); err != nil {
		return "", translate(rel.Name, err)
	}
	return norm["id"].(string), nil
}

func (s *Store) Count(ctx context.Context, relation string) (int64, error) {
	rel, ok := store.RelationByName(relation)
	if !ok {
		return 0, fmt.Errorf("%w: unknown relation %q", store.ErrQuery, relation)
	}

	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var n int64
	if err := s.pool.QueryRow(opCtx, "SELECT COUNT(*) FROM "+rel.Name).Scan(&n); err != nil {
		return 0, translate(rel.Name, err)
	}
	return n, nil
}

// compileSelect renders q as SQL. Column and relation names come from the
// validated descriptors, never from caller text; every value is bound as a
// positional parameter. (The original remote client interpolated OR-filter
// values into the query string; that hole is closed here.)
func compileSelect(rel store.Relation, q store.Query) (string, []any) {
	var sb strings.Builder
	colNames := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		colNames[i] = c.Name
	}
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(colNames, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(rel.Name)

	var args []any
	for i, clause := range q.Where {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString("(")
		for j, cond := range clause.Any {
			if j > 0 {
				sb.WriteString(" OR ")
			}
			switch {
			case cond.Op == store.OpEq && cond.Value == nil:
				sb.WriteString(cond.Field + " IS NULL")
			case cond.Op == store.OpEq:
				args = append(args, cond.Value)
				fmt.Fprintf(&sb, "%s = $%d", cond.Field, len(args))
			case cond.Op == store.OpContains:
				substr, _ := cond.Value.(string)
				args = append(args, "%"+escapeLike(substr)+"%")
				fmt.Fprintf(&sb, "%s ILIKE $%d", cond.Field, len(args))
			}
		}
		sb.WriteString(")")
	}

	for i, o := range q.OrderBy {
		if i == 0 {
			sb.WriteString(" ORDER BY ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(o.Field)
		if o.Desc {
			sb.WriteString(" DESC")
		} else {
			sb.WriteString(" ASC")
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// scanDests allocates typed scan targets for one row of rel and returns a
// closure assembling the normalized store.Row after Scan.
func scanDests(rel store.Relation) ([]any, func() store.Row) {
	type slot struct {
		col store.Column
		s   **string
		i   **int64
		f   **float64
		t   **time.Time
	}
	slots := make([]slot, len(rel.Columns))
	dests := make([]any, len(rel.Columns))
	for i, col := range rel.Columns {
		sl := slot{col: col}
		switch col.Type {
		case store.Int:
			sl.i = new(*int64)
			dests[i] = sl.i
		case store.Numeric:
			sl.f = new(*float64)
			dests[i] = sl.f
		case store.Date, store.Timestamp:
			sl.t = new(*time.Time)
			dests[i] = sl.t
		default:
			sl.s = new(*string)
			dests[i] = sl.s
		}
		slots[i] = sl
	}
	build := func() store.Row {
		row := make(store.Row, len(slots))
		for _, sl := range slots {
			switch {
			case sl.s != nil:
				if *sl.s == nil {
					row[sl.col.Name] = nil
				} else {
					row[sl.col.Name] = **sl.s
				}
			case sl.i != nil:
				if *sl.i == nil {
					row[sl.col.Name] = nil
				} else {
					row[sl.col.Name] = **sl.i
				}
			case sl.f != nil:
				if *sl.f == nil {
					row[sl.col.Name] = nil
				} else {
					row[sl.col.Name] = **sl.f
				}
			default:
				if *sl.t == nil {
					row[sl.col.Name] = nil
				} else if sl.col.Type == store.Date {
					row[sl.col.Name] = (*sl.t).UTC().Format("2006-01-02")
				} else {
					row[sl.col.Name] = (*sl.t).UTC()
				}
			}
		}
		return row
	}
	return dests, build
}
