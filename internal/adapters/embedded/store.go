// Package embedded implements the store port with an in-process engine.
// Tables live in process memory for the lifetime of the store; the engine is
// initialized once by Open and reused. It is safe for concurrent use.
package embedded

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/keralasamajam/community-hub/internal/ports/out/store"
)

// Store is the embedded implementation of store.Adapter.
type Store struct {
	mu     sync.RWMutex
	tables map[string][]store.Row
}

var _ store.Adapter = (*Store)(nil)

// Open initializes the in-process engine. Call once per process and reuse.
func Open() *Store {
	return &Store{tables: make(map[string][]store.Row)}
}

// EnsureSchema declares any missing relations. Idempotent: existing tables
// and their rows are left untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rel := range store.Relations() {
		if _, ok := s.tables[rel.Name]; !ok {
			s.tables[rel.Name] = []store.Row{}
		}
	}
	return nil
}

func (s *Store) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	_ = ctx
	rel, err := store.ValidateQuery(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.tables[rel.Name]
	if !ok {
		return nil, fmt.Errorf("%w: relation %q not declared", store.ErrSchema, rel.Name)
	}

	out := make([]store.Row, 0)
	for _, row := range rows {
		if matches(row, q.Where) {
			out = append(out, cloneRow(row))
		}
	}
	sortRows(out, q.OrderBy)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
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
	_ = ctx
	rel, ok := store.RelationByName(relation)
	if !ok {
		return "", fmt.Errorf("%w: unknown relation %q", store.ErrQuery, relation)
	}
	norm, err := store.NormalizeRow(rel, row)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tables[rel.Name]
	if !ok {
		return "", fmt.Errorf("%w: relation %q not declared", store.ErrSchema, rel.Name)
	}

	for _, col := range rel.Columns {
		if !col.Unique || norm[col.Name] == nil {
			continue
		}
		for _, other := range existing {
			if valueEqual(other[col.Name], norm[col.Name]) {
				return "", &store.ConflictError{Relation: rel.Name, Field: col.Name}
			}
		}
	}
	for _, fk := range rel.ForeignKeys {
		if err := s.checkRef(rel, fk, norm[fk.Column]); err != nil {
			return "", err
		}
	}

	s.tables[rel.Name] = append(existing, cloneRow(norm))
	return norm["id"].(string), nil
}

func (s *Store) Count(ctx context.Context, relation string) (int64, error) {
	_ = ctx
	if _, ok := store.RelationByName(relation); !ok {
		return 0, fmt.Errorf("%w: unknown relation %q", store.ErrQuery, relation)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.tables[relation]
	if !ok {
		return 0, fmt.Errorf("%w: relation %q not declared", store.ErrSchema, relation)
	}
	return int64(len(rows)), nil
}

// checkRef enforces a foreign key: the referenced id must exist.
// Caller holds the write lock.
func (s *Store) checkRef(rel store.Relation, fk store.ForeignKey, v any) error {
	id, _ := v.(string)
	if id == "" {
		return fmt.Errorf("%w: %s.%s must reference %s", store.ErrQuery, rel.Name, fk.Column, fk.Ref)
	}
	for _, row := range s.tables[fk.Ref] {
		if row["id"] == id {
			return nil
		}
	}
	return fmt.Errorf("%s.%s references missing %s row %q: %w", rel.Name, fk.Column, fk.Ref, id, store.ErrNotFound)
}

func matches(row store.Row, where []store.Clause) bool {
	for _, clause := range where {
		hit := false
		for _, c := range clause.Any {
			if condMatches(row, c) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func condMatches(row store.Row, c store.Cond) bool {
	v := row[c.Field]
	switch c.Op {
	case store.OpEq:
		if v == nil || c.Value == nil {
			return v == nil && c.Value == nil
		}
		return valueEqual(v, c.Value)
	case store.OpContains:
		str, ok := v.(string)
		if !ok {
			return false
		}
		substr, _ := c.Value.(string)
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	return false
}

func valueEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	// Comparison values arrive from callers untyped; align numerics with the
	// normalized representation before comparing.
	switch bv := b.(type) {
	case int:
		if av, ok := a.(int64); ok {
			return av == int64(bv)
		}
	case int64:
		if av, ok := a.(int64); ok {
			return av == bv
		}
	case float64:
		if av, ok := a.(float64); ok {
			return av == bv
		}
	}
	return a == b
}

func sortRows(rows []store.Row, orderBy []store.Order) {
	if len(orderBy) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orderBy {
			c := compareValues(rows[i][o.Field], rows[j][o.Field])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compareValues orders normalized values of one column type; nil sorts first.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case int64:
		bv, _ := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		bv, _ := b.(time.Time)
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	}
	return 0
}

func cloneRow(r store.Row) store.Row {
	out := make(store.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
