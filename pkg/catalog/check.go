package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const checkConcurrency = 8

// PackageReport is the outcome of resolving one package during a check.
// Exactly one of Detail and Err is set.
type PackageReport struct {
	Category string
	Origin   string
	Entry    IndexEntry
	Detail   *PackageDetail
	Err      error
}

// OK reports whether the package resolved.
func (p PackageReport) OK() bool { return p.Err == nil }

// Check resolves every package of every category independently and
// reports each outcome. Unlike [Resolver.ListCategory], a failing package
// does not stop the others; only an unreachable index fails the check.
// Reports are ordered by category and origin in index document order.
func (r *Resolver) Check(ctx context.Context) ([]PackageReport, error) {
	idx, err := r.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}

	var reports []PackageReport
	for category, cat := range idx.All() {
		for origin, entry := range cat.All() {
			reports = append(reports, PackageReport{Category: category, Origin: origin, Entry: entry})
		}
	}

	var g errgroup.Group
	g.SetLimit(checkConcurrency)
	for i := range reports {
		rep := &reports[i]
		g.Go(func() error {
			detail, err := r.ResolvePackageDetail(ctx, rep.Origin, rep.Entry)
			rep.Detail, rep.Err = detail, err
			if err != nil {
				r.logger.Debug("check failed", "category", rep.Category, "origin", rep.Origin, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return reports, nil
}
