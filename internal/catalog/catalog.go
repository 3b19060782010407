package catalog

import (
	"fmt"

	"gameshot-quiz-service/internal/domain"
)

// Catalog is an immutable, indexed set of entries. Build it once and share it.
type Catalog struct {
	entries []domain.CatalogEntry
	genres  []map[string]struct{}
	buckets []map[string]struct{}
}

// New indexes entries. Names and ids must be unique because answers are compared by name.
func New(entries []domain.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]domain.CatalogEntry, len(entries)),
		genres:  make([]map[string]struct{}, len(entries)),
		buckets: make([]map[string]struct{}, len(entries)),
	}
	names := make(map[string]struct{}, len(entries))
	ids := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if _, dup := names[e.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", domain.ErrDuplicateEntry, e.Name)
		}
		if _, dup := ids[e.ID]; dup {
			return nil, fmt.Errorf("%w: id %q", domain.ErrDuplicateEntry, e.ID)
		}
		names[e.Name] = struct{}{}
		ids[e.ID] = struct{}{}

		e.Genres = append([]string(nil), e.Genres...)
		e.Screenshots = append([]string(nil), e.Screenshots...)
		c.entries[i] = e

		gs := make(map[string]struct{}, len(e.Genres))
		bs := make(map[string]struct{}, len(e.Genres))
		for _, g := range e.Genres {
			gs[g] = struct{}{}
			if b := Bucket(g); b != BucketOther {
				bs[b] = struct{}{}
			}
		}
		c.genres[i] = gs
		c.buckets[i] = bs
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entry list.
func (c *Catalog) Entries() []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) sharesGenre(i, j int) bool {
	return intersects(c.genres[i], c.genres[j])
}

func (c *Catalog) sharesBucket(i, j int) bool {
	return intersects(c.buckets[i], c.buckets[j])
}

func intersects(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
