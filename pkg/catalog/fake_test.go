package catalog

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
)

var errFakeNotFound = stderrors.New("fake: not found")

// fakeFetcher serves documents and probe results from memory.
type fakeFetcher struct {
	mu      sync.Mutex
	docs    map[string]string
	heads   map[string]bool
	headErr map[string]error
	gets    []string
	probes  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		docs:    make(map[string]string),
		heads:   make(map[string]bool),
		headErr: make(map[string]error),
	}
}

func (f *fakeFetcher) doc(url string, v any) *fakeFetcher {
	switch v := v.(type) {
	case string:
		f.docs[url] = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		f.docs[url] = string(data)
	}
	return f
}

func (f *fakeFetcher) Get(ctx context.Context, url string, v any) error {
	f.mu.Lock()
	f.gets = append(f.gets, url)
	data, ok := f.docs[url]
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", errFakeNotFound, url)
	}
	return json.Unmarshal([]byte(data), v)
}

func (f *fakeFetcher) Head(_ context.Context, url string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, url)
	if err := f.headErr[url]; err != nil {
		return false, err
	}
	return f.heads[url], nil
}

func (f *fakeFetcher) fetched(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.gets {
		if u == url {
			return true
		}
	}
	return false
}

// store builds a fake store with an index, category metadata and one
// manifest and descriptor per package.
type store struct {
	*fakeFetcher
	opts Options
}

func newStore() *store {
	return &store{
		fakeFetcher: newFakeFetcher(),
		opts: Options{
			IndexURL:      "https://store.test/index.json",
			CategoriesURL: "https://store.test/categories.json",
			RawHost:       "raw.test",
		},
	}
}

func (s *store) manifestURL(origin string) string {
	return "https://store.test/manifests/" + origin + "/manifest.json"
}

// addPackage registers the manifest and descriptor of origin on branch main.
func (s *store) addPackage(origin, version string) {
	o := ParseOrigin(origin)
	s.doc(s.manifestURL(origin), Manifest{Branch: "main"})
	s.doc(fmt.Sprintf("https://raw.test/%s/%s/main/cpak.json", o.Owner, o.Repo), Descriptor{Version: version})
}

func (s *store) resolver() *Resolver {
	return NewResolver(s, s.opts)
}
