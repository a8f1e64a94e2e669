package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/observability"
)

// Default document locations of the Containerpak store.
const (
	DefaultIndexURL      = "https://raw.githubusercontent.com/Containerpak/store/main/index.json"
	DefaultCategoriesURL = "https://raw.githubusercontent.com/Containerpak/store/main/categories.json"
	DefaultRawHost       = "raw.githubusercontent.com"
)

// Fetcher is the transport the resolver runs on.
type Fetcher interface {
	// Get fetches url and JSON-decodes the body into v.
	Get(ctx context.Context, url string, v any) error
	Prober
}

// Options configures a Resolver.
type Options struct {
	IndexURL      string      // store index document
	CategoriesURL string      // category metadata document
	RawHost       string      // host serving upstream cpak.json files
	Logger        *log.Logger // debug output, nil to discard
}

// WithDefaults fills unset fields with the public store locations.
func (o Options) WithDefaults() Options {
	if o.IndexURL == "" {
		o.IndexURL = DefaultIndexURL
	}
	if o.CategoriesURL == "" {
		o.CategoriesURL = DefaultCategoriesURL
	}
	if o.RawHost == "" {
		o.RawHost = DefaultRawHost
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Validate checks that the configured locations are usable.
func (o Options) Validate() error {
	o = o.WithDefaults()
	if err := errors.ValidateURL(o.IndexURL); err != nil {
		return err
	}
	if err := errors.ValidateURL(o.CategoriesURL); err != nil {
		return err
	}
	return errors.ValidateHost(o.RawHost)
}

// Resolver turns store index entries into resolved packages. It holds no
// mutable state and is safe for concurrent use.
type Resolver struct {
	fetch  Fetcher
	opts   Options
	logger *log.Logger
}

// NewResolver creates a Resolver that fetches through f.
func NewResolver(f Fetcher, opts Options) *Resolver {
	opts = opts.WithDefaults()
	return &Resolver{fetch: f, opts: opts, logger: opts.Logger}
}

// Options returns the effective options.
func (r *Resolver) Options() Options { return r.opts }

// DescriptorURL is the location of the cpak.json of origin at ref.
func (r *Resolver) DescriptorURL(o Origin, ref string) string {
	return fmt.Sprintf("https://%s/%s/%s/%s/cpak.json", r.opts.RawHost, o.Owner, o.Repo, ref)
}

// ResolvePackage resolves a single index entry: it fetches the manifest,
// selects the upstream reference, fetches the descriptor at that reference
// and merges the result. Any failure is terminal for the package.
func (r *Resolver) ResolvePackage(ctx context.Context, origin string, entry IndexEntry) (*Package, error) {
	res, err := r.resolve(ctx, origin, entry)
	if err != nil {
		return nil, err
	}
	return &res.Package, nil
}

// ResolvePackageDetail resolves an entry like [Resolver.ResolvePackage] and
// additionally probes its screenshots and showcase clip.
func (r *Resolver) ResolvePackageDetail(ctx context.Context, origin string, entry IndexEntry) (*PackageDetail, error) {
	res, err := r.resolve(ctx, origin, entry)
	if err != nil {
		return nil, err
	}

	base := BaseURL(entry.Manifest)
	shots, err := LocateScreenshots(ctx, r.fetch, base)
	if err != nil {
		return nil, err
	}
	showcase, err := LocateShowcase(ctx, r.fetch, base)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("probed media", "origin", origin, "screenshots", len(shots), "showcase", showcase != "")

	res.Screenshots = shots
	res.Showcase = showcase
	return res, nil
}

func (r *Resolver) resolve(ctx context.Context, origin string, entry IndexEntry) (res *PackageDetail, err error) {
	start := time.Now()
	defer func() {
		observability.Resolve().OnPackageResolved(ctx, origin, time.Since(start), err)
	}()

	r.logger.Debug("fetching manifest", "origin", origin, "url", entry.Manifest)
	var m Manifest
	if err := r.fetch.Get(ctx, entry.Manifest, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreachableManifest, err, "cannot fetch manifest for %s", origin)
	}

	ref, err := SelectRef(m)
	if err != nil {
		return nil, errors.Prefix(err, "%s", origin)
	}

	o := ParseOrigin(origin)
	if !o.Valid() {
		return nil, errors.New(errors.ErrCodeMalformedOrigin, "origin %q is not <prefix>/<owner>/<repo>", origin)
	}

	descURL := r.DescriptorURL(o, ref)
	r.logger.Debug("fetching descriptor", "origin", origin, "ref", ref, "url", descURL)
	var d Descriptor
	if err := r.fetch.Get(ctx, descURL, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreachableDescriptor, err, "cannot fetch cpak.json for %s", origin)
	}

	return &PackageDetail{
		Package: Package{
			Origin:      origin,
			Name:        entry.Name,
			Description: ResolveDescription(m.Description, entry.Description, d.Description),
			Version:     d.Version,
			Icon:        IconURL(entry.Manifest),
			Manifest:    entry.Manifest,
		},
		Descriptor:    &d,
		DescriptorURL: descURL,
	}, nil
}
