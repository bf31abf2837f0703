package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonwraymond/playground/catalog"
	"github.com/jonwraymond/playground/config"
	"github.com/jonwraymond/playground/page"
	"github.com/jonwraymond/playground/snippet"
	"github.com/jonwraymond/playground/storage"
)

func loadRegistry(path string) (*snippet.Registry, error) {
	if path == "" {
		return snippet.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lessons: %w", err)
	}
	defer f.Close()
	return snippet.Load(f)
}

func loadMarkup(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(data), nil
}

func openStorage(cfg config.Config) (storage.Local, func(), error) {
	if cfg.Storage == config.StorageMemory {
		return storage.NewMemory(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath()), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := storage.OpenSQLite(cfg.DatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func printSearch(w io.Writer, cat *catalog.Catalog, query string) error {
	hits, err := cat.Search(query, catalog.DefaultLimit)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Fprintf(w, "No lessons match %q\n", query)
		return nil
	}
	for _, h := range hits {
		fmt.Fprintf(w, "%-28s %s\n", h.Key, h.Title)
		if h.Summary != "" {
			fmt.Fprintf(w, "%-28s %s\n", "", h.Summary)
		}
	}
	return nil
}

func runHeadless(ctx context.Context, w io.Writer, p *page.Page, key string) error {
	res, err := p.Run(ctx, key)
	if err != nil {
		return err
	}
	if res.Deferred {
		if err := p.Sync(); err != nil {
			return err
		}
	}
	widget, _ := p.Widget(key)
	for _, e := range widget.Transcript() {
		fmt.Fprintf(w, "[%s] %s\n", e.Kind, e.Text)
	}
	return nil
}
