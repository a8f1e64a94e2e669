// Package snapshot captures the whole resolved store at one point in time.
//
// A snapshot holds the overview and every category listing. It is built
// with the same strict operations the browser uses, so a snapshot either
// contains the whole store or is not produced at all. Snapshots can be
// encoded as JSON, YAML or TOML ([Encode]) or stored in MongoDB
// ([MongoSink]).
package snapshot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/containerpak/cpakstore/pkg/catalog"
)

// Catalog is the part of [catalog.Resolver] a snapshot is built from.
type Catalog interface {
	ListCategories(ctx context.Context) ([]catalog.CategorySummary, error)
	ListCategory(ctx context.Context, category string) ([]catalog.Package, error)
	Options() catalog.Options
}

// Source records where a snapshot was resolved from.
type Source struct {
	IndexURL      string `json:"index_url" yaml:"index_url" toml:"index_url" bson:"index_url"`
	CategoriesURL string `json:"categories_url" yaml:"categories_url" toml:"categories_url" bson:"categories_url"`
	RawHost       string `json:"raw_host" yaml:"raw_host" toml:"raw_host" bson:"raw_host"`
}

// Snapshot is the resolved store.
type Snapshot struct {
	ID         string                       `json:"id" yaml:"id" toml:"id" bson:"_id"`
	CreatedAt  time.Time                    `json:"created_at" yaml:"created_at" toml:"created_at" bson:"created_at"`
	Source     Source                       `json:"source" yaml:"source" toml:"source" bson:"source"`
	Categories []catalog.CategorySummary    `json:"categories" yaml:"categories" toml:"categories" bson:"categories"`
	Packages   map[string][]catalog.Package `json:"packages" yaml:"packages" toml:"packages" bson:"packages"`
}

// PackageCount returns the number of packages across all categories.
func (s *Snapshot) PackageCount() int {
	n := 0
	for _, pkgs := range s.Packages {
		n += len(pkgs)
	}
	return n
}

// Build resolves the overview and then every category. Categories are
// listed concurrently; the first failure aborts the snapshot.
func Build(ctx context.Context, c Catalog) (*Snapshot, error) {
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([][]catalog.Package, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	for i, cat := range cats {
		if cat.Count == 0 {
			continue
		}
		g.Go(func() error {
			pkgs, err := c.ListCategory(gctx, cat.Name)
			listings[i] = pkgs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := c.Options()
	s := &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Source: Source{
			IndexURL:      opts.IndexURL,
			CategoriesURL: opts.CategoriesURL,
			RawHost:       opts.RawHost,
		},
		Categories: cats,
		Packages:   make(map[string][]catalog.Package, len(cats)),
	}
	for i, cat := range cats {
		if listings[i] == nil {
			listings[i] = []catalog.Package{}
		}
		s.Packages[cat.Name] = listings[i]
	}
	return s, nil
}
