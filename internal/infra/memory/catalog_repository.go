package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gameshot-quiz-service/internal/catalog"
	"gameshot-quiz-service/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches catalog entries from a backing store (file, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// CatalogRepository loads the catalog once and shares it. Concurrent first calls
// share a single load; a failed load is retried by the next call.
type CatalogRepository struct {
	loader CatalogLoader
	sf     singleflight.Group

	mu      sync.RWMutex
	catalog *catalog.Catalog
}

func NewCatalogRepository(loader CatalogLoader) *CatalogRepository {
	return &CatalogRepository{loader: loader}
}

func (r *CatalogRepository) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if cat := r.cached(); cat != nil {
		return cat, nil
	}

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		if cat := r.cached(); cat != nil {
			return cat, nil
		}

		entries, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		cat, err := catalog.New(entries)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.catalog = cat
		r.mu.Unlock()
		log.Info().Int("entries", cat.Len()).Msg("catalog loaded")
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*catalog.Catalog), nil
}

func (r *CatalogRepository) cached() *catalog.Catalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog
}

// StaticCatalogLoader is a simple loader backed by a slice (useful for tests/demos).
type StaticCatalogLoader struct {
	entries []domain.CatalogEntry
}

func NewStaticCatalogLoader(entries []domain.CatalogEntry) *StaticCatalogLoader {
	return &StaticCatalogLoader{entries: entries}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.CatalogEntry, error) {
	out := make([]domain.CatalogEntry, len(l.entries))
	copy(out, l.entries)
	return out, nil
}

// FileCatalogLoader reads an exported JSON dataset and normalizes it.
type FileCatalogLoader struct {
	path string
}

func NewFileCatalogLoader(path string) *FileCatalogLoader {
	return &FileCatalogLoader{path: path}
}

func (l *FileCatalogLoader) LoadCatalog(_ context.Context) ([]domain.CatalogEntry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	raw, err := catalog.DecodeRawEntries(data)
	if err != nil {
		return nil, err
	}
	entries, rep := catalog.NormalizeEntries(raw)
	log.Info().
		Str("path", l.path).
		Int("kept", rep.Kept).
		Int("noScreenshots", rep.NoScreenshots).
		Int("duplicateNames", rep.DuplicateNames).
		Int("missingNameOrId", rep.MissingNameOrID).
		Msg("catalog file normalized")
	return entries, nil
}
