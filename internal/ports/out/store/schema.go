package store

import (
	"fmt"
	"strings"
	"time"
)

// ColType is the logical type of a column, shared by both backends. The
// embedded engine normalizes values to these types on insert; the remote
// adapter normalizes on scan, so the two return value-equal rows.
type ColType int

const (
	Text ColType = iota
	Int
	Numeric
	Date // ISO YYYY-MM-DD string at the port boundary
	Timestamp
)

// Column describes one relation column.
type Column struct {
	Name    string
	Type    ColType
	NotNull bool
	Unique  bool
}

// ForeignKey declares that Column references the id of relation Ref.
type ForeignKey struct {
	Column string
	Ref    string
}

// Relation describes one relation's shape and constraints. The first column
// is always the primary key "id".
type Relation struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// Column returns the named column definition.
func (r Relation) Column(name string) (Column, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Relations returns the four relation descriptors, ordered so that foreign
// key targets are declared before their referrers.
func Relations() []Relation {
	return []Relation{
		{
			Name: "members",
			Columns: []Column{
				{Name: "id", Type: Text, NotNull: true, Unique: true},
				{Name: "full_name", Type: Text, NotNull: true},
				{Name: "email", Type: Text, NotNull: true, Unique: true},
				{Name: "mobile", Type: Text, NotNull: true, Unique: true},
				{Name: "password", Type: Text, NotNull: true},
				{Name: "country", Type: Text},
				{Name: "occupation", Type: Text},
				{Name: "spouse_name", Type: Text},
				{Name: "address", Type: Text},
				{Name: "district", Type: Text},
				{Name: "pincode", Type: Text},
				{Name: "created_at", Type: Timestamp, NotNull: true},
			},
		},
		{
			Name: "events",
			Columns: []Column{
				{Name: "id", Type: Text, NotNull: true, Unique: true},
				{Name: "name", Type: Text, NotNull: true},
				{Name: "date", Type: Date, NotNull: true},
				{Name: "venue", Type: Text, NotNull: true},
				{Name: "adult_rate", Type: Numeric, NotNull: true},
				{Name: "kids_rate", Type: Numeric, NotNull: true},
				{Name: "description", Type: Text},
			},
		},
		{
			Name: "dependents",
			Columns: []Column{
				{Name: "id", Type: Text, NotNull: true, Unique: true},
				{Name: "member_id", Type: Text, NotNull: true},
				{Name: "name", Type: Text, NotNull: true},
				{Name: "age", Type: Int},
				{Name: "school", Type: Text},
			},
			ForeignKeys: []ForeignKey{
				{Column: "member_id", Ref: "members"},
			},
		},
		{
			Name: "registrations",
			Columns: []Column{
				{Name: "id", Type: Text, NotNull: true, Unique: true},
				{Name: "member_id", Type: Text, NotNull: true},
				{Name: "event_id", Type: Text, NotNull: true},
				{Name: "event_name", Type: Text, NotNull: true},
				{Name: "event_date", Type: Date, NotNull: true},
				{Name: "event_venue", Type: Text, NotNull: true},
				{Name: "adults", Type: Int, NotNull: true},
				{Name: "kids", Type: Int, NotNull: true},
				{Name: "total_amount", Type: Numeric, NotNull: true},
				{Name: "paid_amount", Type: Numeric, NotNull: true},
				{Name: "status", Type: Text, NotNull: true},
				{Name: "registered_at", Type: Timestamp, NotNull: true},
			},
			ForeignKeys: []ForeignKey{
				{Column: "member_id", Ref: "members"},
				{Column: "event_id", Ref: "events"},
			},
		},
	}
}

// RelationByName looks up a relation descriptor.
func RelationByName(name string) (Relation, bool) {
	for _, r := range Relations() {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

// NormalizeValue coerces v to the canonical Go representation for t:
// Text->string, Int->int64, Numeric->float64, Date->"YYYY-MM-DD" string,
// Timestamp->UTC time.Time. nil passes through for nullable columns.
func NormalizeValue(t ColType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Int:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		}
	case Numeric:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case Date:
		switch d := v.(type) {
		case string:
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return nil, fmt.Errorf("%w: bad date %q", ErrQuery, d)
			}
			return d, nil
		case time.Time:
			return d.UTC().Format("2006-01-02"), nil
		}
	case Timestamp:
		switch ts := v.(type) {
		case time.Time:
			return ts.UTC(), nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, ts)
			if err != nil {
				return nil, fmt.Errorf("%w: bad timestamp %q", ErrQuery, ts)
			}
			return parsed.UTC(), nil
		}
	}
	return nil, fmt.Errorf("%w: cannot normalize %T as %s", ErrQuery, v, typeName(t))
}

func typeName(t ColType) string {
	switch t {
	case Text:
		return "text"
	case Int:
		return "int"
	case Numeric:
		return "numeric"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	}
	return "unknown"
}

// ValidateQuery checks q against the relation descriptors before execution,
// so both adapters reject unknown relations/columns identically.
func ValidateQuery(q Query) (Relation, error) {
	rel, ok := RelationByName(q.From)
	if !ok {
		return Relation{}, fmt.Errorf("%w: unknown relation %q", ErrQuery, q.From)
	}
	for _, cl := range q.Where {
		if len(cl.Any) == 0 {
			return Relation{}, fmt.Errorf("%w: empty clause", ErrQuery)
		}
		for _, c := range cl.Any {
			if _, ok := rel.Column(c.Field); !ok {
				return Relation{}, fmt.Errorf("%w: unknown column %s.%s", ErrQuery, rel.Name, c.Field)
			}
			if c.Op != OpEq && c.Op != OpContains {
				return Relation{}, fmt.Errorf("%w: unknown operator %q", ErrQuery, c.Op)
			}
			if c.Op == OpContains {
				if _, ok := c.Value.(string); !ok {
					return Relation{}, fmt.Errorf("%w: contains needs a string value", ErrQuery)
				}
			}
		}
	}
	for _, o := range q.OrderBy {
		if _, ok := rel.Column(o.Field); !ok {
			return Relation{}, fmt.Errorf("%w: unknown order column %s.%s", ErrQuery, rel.Name, o.Field)
		}
	}
	return rel, nil
}

// NormalizeRow validates row against rel and returns a normalized copy.
// Unknown columns are rejected; NOT NULL columns must carry a value.
func NormalizeRow(rel Relation, row Row) (Row, error) {
	out := make(Row, len(rel.Columns))
	for name := range row {
		if _, ok := rel.Column(name); !ok {
			return nil, fmt.Errorf("%w: unknown column %s.%s", ErrQuery, rel.Name, name)
		}
	}
	for _, col := range rel.Columns {
		v, present := row[col.Name]
		if !present || v == nil {
			if col.NotNull {
				return nil, fmt.Errorf("%w: %s.%s must not be null", ErrQuery, rel.Name, col.Name)
			}
			out[col.Name] = nil
			continue
		}
		norm, err := NormalizeValue(col.Type, v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rel.Name, col.Name, err)
		}
		out[col.Name] = norm
	}
	if s, _ := out["id"].(string); strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: %s row is missing an id", ErrQuery, rel.Name)
	}
	return out, nil
}
