package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/observability"
)

// MaxScreenshots is the highest screenshot index that is ever probed.
const MaxScreenshots = 10

const (
	iconFile     = "icon.svg"
	showcaseFile = "showcase.webm"
)

// Prober tests whether a URL exists without downloading it.
type Prober interface {
	// Head reports whether url exists. Only a transport failure is an error;
	// a missing resource is (false, nil).
	Head(ctx context.Context, url string) (bool, error)
}

// BaseURL strips the final "/segment" of a URL. A URL without a slash is
// returned unchanged.
func BaseURL(u string) string {
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[:i]
	}
	return u
}

// IconURL derives the icon location from a manifest URL. It does not check
// that the icon exists.
func IconURL(manifestURL string) string {
	return BaseURL(manifestURL) + "/" + iconFile
}

// ScreenshotURL returns the location of the i-th screenshot (1-based).
func ScreenshotURL(base string, i int) string {
	return base + "/screenshot-" + strconv.Itoa(i) + ".webp"
}

// LocateScreenshots probes screenshot-1.webp, screenshot-2.webp, ... under
// base one at a time and returns the URLs that exist, stopping at the first
// gap and never probing past [MaxScreenshots]. Each call probes from
// scratch.
func LocateScreenshots(ctx context.Context, p Prober, base string) ([]string, error) {
	var urls []string
	for i := 1; i <= MaxScreenshots; i++ {
		u := ScreenshotURL(base, i)
		ok, err := probe(ctx, p, u, "screenshot")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		urls = append(urls, u)
	}
	return urls, nil
}

// LocateShowcase probes showcase.webm under base and returns its URL, or ""
// when it does not exist.
func LocateShowcase(ctx context.Context, p Prober, base string) (string, error) {
	u := base + "/" + showcaseFile
	ok, err := probe(ctx, p, u, "showcase")
	if err != nil || !ok {
		return "", err
	}
	return u, nil
}

func probe(ctx context.Context, p Prober, url, asset string) (bool, error) {
	ok, err := p.Head(ctx, url)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeUnreachableAsset, err, "cannot probe %s", url)
	}
	observability.Resolve().OnProbe(ctx, asset, ok)
	return ok, nil
}
