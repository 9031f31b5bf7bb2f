// Package sessioncache implements the session-cache port as a single JSON
// file on local disk, the non-browser equivalent of the original client's
// localStorage slot.
package sessioncache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/keralasamajam/community-hub/internal/domain"
	"github.com/keralasamajam/community-hub/internal/ports/out/sessioncache"
)

// Cache stores the serialized current member at a fixed path.
type Cache struct {
	path string
}

var _ sessioncache.Cache = (*Cache)(nil)

func New(path string) *Cache {
	return &Cache{path: path}
}

type sessionFile struct {
	Member     memberJSON      `json:"member"`
	Dependents []dependentJSON `json:"dependents"`
}

type memberJSON struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Email      string  `json:"email"`
	Mobile     string  `json:"mobile"`
	Country    string  `json:"country"`
	Occupation string  `json:"occupation"`
	SpouseName *string `json:"spouse_name,omitempty"`
	Address    *string `json:"address,omitempty"`
	District   *string `json:"district,omitempty"`
	Pincode    *string `json:"pincode,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

type dependentJSON struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Age    *int    `json:"age,omitempty"`
	School *string `json:"school,omitempty"`
}

func (c *Cache) Save(ctx context.Context, m domain.Member) error {
	_ = ctx
	doc := sessionFile{
		Member: memberJSON{
			ID:         string(m.ID),
			FullName:   m.FullName,
			Email:      m.Email,
			Mobile:     m.Mobile,
			Country:    m.Country,
			Occupation: m.Occupation,
			SpouseName: m.SpouseName,
			Address:    m.Address,
			District:   m.District,
			Pincode:    m.Pincode,
			CreatedAt:  m.CreatedAt.Format(timeLayout),
		},
	}
	for _, d := range m.Dependents {
		doc.Dependents = append(doc.Dependents, dependentJSON{
			ID:     string(d.ID),
			Name:   d.Name,
			Age:    d.Age,
			School: d.School,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

func (c *Cache) Load(ctx context.Context) (domain.Member, bool, error) {
	_ = ctx
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Member{}, false, nil
		}
		return domain.Member{}, false, err
	}

	var doc sessionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		// A corrupt slot is stale local data, not a fault: discard it and
		// report unauthenticated.
		_ = os.Remove(c.path)
		return domain.Member{}, false, nil
	}

	m := domain.Member{
		ID:         domain.ID(doc.Member.ID),
		FullName:   doc.Member.FullName,
		Email:      doc.Member.Email,
		Mobile:     doc.Member.Mobile,
		Country:    doc.Member.Country,
		Occupation: doc.Member.Occupation,
		SpouseName: doc.Member.SpouseName,
		Address:    doc.Member.Address,
		District:   doc.Member.District,
		Pincode:    doc.Member.Pincode,
	}
	if ts, err := parseTime(doc.Member.CreatedAt); err == nil {
		m.CreatedAt = ts
	}
	for _, d := range doc.Dependents {
		m.Dependents = append(m.Dependents, domain.Dependent{
			ID:       domain.ID(d.ID),
			MemberID: m.ID,
			Name:     d.Name,
			Age:      d.Age,
			School:   d.School,
		})
	}
	return m, true, nil
}

const timeLayout = time.RFC3339Nano

func parseTime(s string) (time.Time, error) {
	ts, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

func (c *Cache) Clear(ctx context.Context) error {
	_ = ctx
	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
