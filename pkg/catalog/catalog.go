package catalog

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/observability"
)

const maxPreviewIcons = 3

// FetchIndex fetches the store index.
func (r *Resolver) FetchIndex(ctx context.Context) (Index, error) {
	r.logger.Debug("fetching index", "url", r.opts.IndexURL)
	var idx Index
	if err := r.fetch.Get(ctx, r.opts.IndexURL, &idx); err != nil {
		return Index{}, errors.Wrap(errors.ErrCodeUnreachableIndex, err, "cannot load store index")
	}
	return idx, nil
}

// FetchCategoryMetas fetches the category metadata document.
func (r *Resolver) FetchCategoryMetas(ctx context.Context) (CategoryMetas, error) {
	r.logger.Debug("fetching categories metadata", "url", r.opts.CategoriesURL)
	var metas CategoryMetas
	if err := r.fetch.Get(ctx, r.opts.CategoriesURL, &metas); err != nil {
		return CategoryMetas{}, errors.Wrap(errors.ErrCodeUnreachableCategories, err, "cannot load categories metadata")
	}
	return metas, nil
}

// ListCategory resolves every package of category concurrently.
//
// The listing is all or nothing: the first package that fails cancels the
// others and its error is returned without partial results. Packages are
// returned in index document order.
func (r *Resolver) ListCategory(ctx context.Context, category string) ([]Package, error) {
	idx, err := r.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	cat, ok := idx.Get(category)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCategory, "unknown category %s", category)
	}
	return r.resolveCategory(ctx, category, cat)
}

func (r *Resolver) resolveCategory(ctx context.Context, name string, cat Category) (pkgs []Package, err error) {
	start := time.Now()
	defer func() {
		observability.Resolve().OnCategoryListed(ctx, name, len(pkgs), time.Since(start), err)
	}()

	out := make([]Package, cat.Len())
	g, gctx := errgroup.WithContext(ctx)
	i := 0
	for origin, entry := range cat.All() {
		slot := &out[i]
		i++
		g.Go(func() error {
			p, err := r.ResolvePackage(gctx, origin, entry)
			if err != nil {
				return err
			}
			*slot = *p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Debug("listed category", "category", name, "packages", len(out))
	return out, nil
}

// Package resolves the detail view of one package of a category.
func (r *Resolver) Package(ctx context.Context, category, origin string) (*PackageDetail, error) {
	idx, err := r.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	cat, ok := idx.Get(category)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownCategory, "unknown category %s", category)
	}
	entry, ok := cat.Get(origin)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownOrigin, "unknown package %s in %s", origin, category)
	}
	return r.ResolvePackageDetail(ctx, origin, entry)
}

// ListCategories builds the store overview. The index and the category
// metadata are fetched concurrently. Every category declared in the
// metadata becomes a summary, ranked by descending package count with ties
// kept in metadata order, and gets the layout slot of its rank.
func (r *Resolver) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	var (
		idx   Index
		metas CategoryMetas
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		idx, err = r.FetchIndex(gctx)
		return err
	})
	g.Go(func() (err error) {
		metas, err = r.FetchCategoryMetas(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summaries := make([]CategorySummary, 0, metas.Len())
	for name, meta := range metas.All() {
		cat, _ := idx.Get(name)
		summaries = append(summaries, CategorySummary{
			Name:         name,
			Icon:         meta.Icon,
			Color:        meta.Color,
			Count:        cat.Len(),
			PreviewIcons: previewIcons(cat),
		})
	}

	slices.SortStableFunc(summaries, func(a, b CategorySummary) int {
		return b.Count - a.Count
	})
	for i := range summaries {
		summaries[i].Layout = SlotFor(i)
	}
	return summaries, nil
}

func previewIcons(cat Category) []string {
	icons := make([]string, 0, min(cat.Len(), maxPreviewIcons))
	for _, entry := range cat.All() {
		if len(icons) == maxPreviewIcons {
			break
		}
		icons = append(icons, IconURL(entry.Manifest))
	}
	return icons
}
