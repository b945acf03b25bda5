// Package search provides full-text search over stored location
// descriptions. The index is rebuilt from the store on demand; the store
// stays the single source of truth.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/adalundhe/trailhead/core/schema"
	"github.com/blevesearch/bleve/v2"
)

// locationDocument is the shape indexed per record.
type locationDocument struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

// RecordLister supplies the records to index, typically the catalog store.
type RecordLister interface {
	ListAll(ctx context.Context) ([]schema.LocationRecord, error)
}

// Hit is one search result.
type Hit struct {
	Name  string
	Score float64
}

// Index wraps a bleve index keyed by location name.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewMemIndex creates an in-memory index. Suitable for per-process use; the
// index is cheap to rebuild from the store.
func NewMemIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Open opens (creating if missing) a persistent index at path.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, bleve.NewIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	return &Index{index: idx}, nil
}

// Rebuild reindexes every stored record, replacing prior entries.
func (i *Index) Rebuild(ctx context.Context, lister RecordLister) (int, error) {
	records, err := lister.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	batch := i.index.NewBatch()
	for _, record := range records {
		activities := make([]string, 0, len(record.Activities))
		for tag := range record.Activities {
			activities = append(activities, tag)
		}
		sort.Strings(activities)

		doc := locationDocument{
			Name:        record.Name,
			Description: record.Description,
			Activities:  activities,
		}
		if err := batch.Index(strings.ToLower(record.Name), doc); err != nil {
			return 0, fmt.Errorf("index %q: %w", record.Name, err)
		}
	}

	if err := i.index.Batch(batch); err != nil {
		return 0, fmt.Errorf("apply batch: %w", err)
	}
	return len(records), nil
}

// Add indexes a single record.
func (i *Index) Add(record *schema.LocationRecord) error {
	activities := make([]string, 0, len(record.Activities))
	for tag := range record.Activities {
		activities = append(activities, tag)
	}
	sort.Strings(activities)

	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Index(strings.ToLower(record.Name), locationDocument{
		Name:        record.Name,
		Description: record.Description,
		Activities:  activities,
	})
}

// Remove drops a record from the index by name.
func (i *Index) Remove(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Delete(strings.ToLower(schema.NormalizeName(name)))
}

// Search matches free text against names, descriptions, and activity tags,
// returning up to limit hits ranked by score.
func (i *Index) Search(ctx context.Context, text string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	query := bleve.NewMatchQuery(text)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"name"}

	i.mu.RLock()
	defer i.mu.RUnlock()

	result, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		name, _ := hit.Fields["name"].(string)
		if name == "" {
			name = hit.ID
		}
		hits = append(hits, Hit{Name: name, Score: hit.Score})
	}
	return hits, nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}
