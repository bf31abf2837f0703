// Package catalog indexes lessons for keyword search.
//
// Each lesson is registered as a tool in a BM25-backed discovery index under
// the "lessons" namespace, with its summary and default source attached as
// documentation. Search ranks lessons by title, summary and tags; Describe
// returns the documentation of a single lesson.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/tooldiscovery/index"
	"github.com/jonwraymond/tooldiscovery/search"
	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/jonwraymond/toolfoundation/model"

	"github.com/jonwraymond/playground/snippet"
)

// Namespace is the index namespace lessons are registered under.
const Namespace = "lessons"

// DefaultLimit caps search results when the caller passes a non-positive
// limit.
const DefaultLimit = 10

// ErrUnknownLesson is returned by Describe for keys not in the catalog.
var ErrUnknownLesson = errors.New("catalog: unknown lesson")

// Hit is one search result.
type Hit struct {
	Key     string
	Title   string
	Summary string
	Tags    []string
}

// Doc is the documentation of one lesson.
type Doc struct {
	Key             string
	Title           string
	Summary         string
	Source          string
	RequiresFixture bool
}

// Catalog is a searchable view of a registry.
//
// Contract:
// - Concurrency: safe for concurrent use once built.
// - Errors: index failures are returned wrapped; unknown keys return
// ErrUnknownLesson.
type Catalog struct {
	registry *snippet.Registry
	idx      index.Index
	docs     tooldoc.Store
}

// New indexes every lesson of reg. A nil registry indexes snippet.Default().
func New(reg *snippet.Registry) (*Catalog, error) {
	if reg == nil {
		reg = snippet.Default()
	}
	idx := index.NewInMemoryIndex(index.IndexOptions{
		Searcher: search.NewBM25Searcher(search.BM25Config{}),
	})
	var docs tooldoc.Store = tooldoc.NewInMemoryStore(tooldoc.StoreOptions{Index: idx})
	store, ok := docs.(*tooldoc.InMemoryStore)
	if !ok {
		return nil, errors.New("catalog: doc store does not accept registrations")
	}

	for _, l := range reg.Lessons() {
		tool := model.Tool{
			Tool: mcp.Tool{
				Name:        l.Key,
				Description: describe(l),
				InputSchema: map[string]any{"type": "object"},
			},
			Namespace: Namespace,
			Tags:      model.NormalizeTags(l.Tags),
		}
		if err := idx.RegisterTool(tool, model.NewLocalBackend(l.Key)); err != nil {
			return nil, fmt.Errorf("catalog: register %q: %w", l.Key, err)
		}
		if err := store.RegisterDoc(ID(l.Key), tooldoc.DocEntry{
			Summary: l.Summary,
			Notes:   l.Source,
		}); err != nil {
			return nil, fmt.Errorf("catalog: document %q: %w", l.Key, err)
		}
	}

	return &Catalog{registry: reg, idx: idx, docs: docs}, nil
}

// ID returns the index id of the lesson key.
func ID(key string) string {
	return Namespace + ":" + key
}

func describe(l snippet.Lesson) string {
	if l.Summary == "" {
		return l.Title
	}
	return l.Title + ". " + l.Summary
}

// Search returns up to limit lessons matching query, best match first. An
// empty query lists lessons in registry order.
func (c *Catalog) Search(query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query = strings.TrimSpace(query)
	if query == "" {
		var hits []Hit
		for _, l := range c.registry.Lessons() {
			if len(hits) == limit {
				break
			}
			hits = append(hits, c.hit(l.Key))
		}
		return hits, nil
	}

	summaries, err := c.idx.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", query, err)
	}
	hits := make([]Hit, 0, len(summaries))
	for _, s := range summaries {
		if s.Namespace != Namespace {
			continue
		}
		h := c.hit(s.Name)
		if len(s.Tags) > 0 {
			h.Tags = s.Tags
		}
		hits = append(hits, h)
	}
	return hits, nil
}

func (c *Catalog) hit(key string) Hit {
	l, _ := c.registry.Lesson(key)
	return Hit{Key: key, Title: l.Title, Summary: l.Summary, Tags: l.Tags}
}

// Describe returns the documentation of the lesson key.
func (c *Catalog) Describe(key string) (Doc, error) {
	l, ok := c.registry.Lesson(key)
	if !ok {
		return Doc{}, fmt.Errorf("%w: %q", ErrUnknownLesson, key)
	}
	td, err := c.docs.DescribeTool(ID(key), tooldoc.DetailFull)
	if err != nil {
		return Doc{}, fmt.Errorf("catalog: describe %q: %w", key, err)
	}
	doc := Doc{
		Key:             key,
		Title:           l.Title,
		Summary:         td.Summary,
		Source:          td.Notes,
		RequiresFixture: l.RequiresFixture,
	}
	if td.Tool != nil && doc.Summary == "" {
		doc.Summary = td.Tool.Description
	}
	return doc, nil
}

// Len returns the number of indexed lessons.
func (c *Catalog) Len() int {
	return c.registry.Len()
}
