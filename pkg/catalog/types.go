package catalog

import (
	"encoding/json"
	"fmt"
)

// Index is the top-level store document: category name to category.
type Index = Ordered[Category]

// Category maps origin identifiers to their index entries.
type Category = Ordered[IndexEntry]

// CategoryMetas is the category metadata document: category name to its
// display attributes.
type CategoryMetas = Ordered[CategoryMeta]

// IndexEntry is one package as declared by the store index, before its
// manifest is resolved.
type IndexEntry struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	Release     string `json:"release,omitempty"`
	Manifest    string `json:"manifest"`
}

// CategoryMeta holds the display attributes of a category.
type CategoryMeta struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Manifest is the store-side document pointing at an upstream reference.
type Manifest struct {
	Branch      string `json:"branch,omitempty"`
	Commit      string `json:"commit,omitempty"`
	Release     string `json:"release,omitempty"`
	Description string `json:"description,omitempty"`
}

// Descriptor is the upstream cpak.json document. Only the fields the store
// displays are decoded. The original bytes are kept for validation and are
// what a fetched descriptor encodes back to, unknown keys included.
type Descriptor struct {
	Version        string          `json:"version"`
	Description    string          `json:"description,omitempty"`
	Image          string          `json:"image,omitempty"`
	Binaries       []string        `json:"binaries,omitempty"`
	DesktopEntries []string        `json:"desktop_entries,omitempty"`
	Dependencies   []string        `json:"dependencies,omitempty"`
	Addons         []string        `json:"addons,omitempty"`
	Override       map[string]bool `json:"override,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the descriptor and retains a copy of data.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	type plain Descriptor
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Descriptor(p)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the fetched bytes unchanged. A descriptor built in
// memory encodes its typed fields.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	type plain Descriptor
	return json.Marshal(plain(d))
}

// Raw returns the descriptor exactly as it was fetched, or nil for a
// descriptor that was built in memory.
func (d *Descriptor) Raw() json.RawMessage {
	if d == nil {
		return nil
	}
	return d.raw
}

// Package is a fully resolved store package.
type Package struct {
	Origin      string `json:"origin" yaml:"origin" toml:"origin" bson:"origin"`
	Name        string `json:"name" yaml:"name" toml:"name" bson:"name"`
	Description string `json:"description" yaml:"description" toml:"description" bson:"description"`
	Version     string `json:"version" yaml:"version" toml:"version" bson:"version"`
	Icon        string `json:"icon" yaml:"icon" toml:"icon" bson:"icon"`
	Manifest    string `json:"manifest" yaml:"manifest" toml:"manifest" bson:"manifest"`
}

// PackageDetail is a package with its descriptor and probed media.
type PackageDetail struct {
	Package
	Descriptor    *Descriptor `json:"descriptor"`
	DescriptorURL string      `json:"descriptor_url"`
	Screenshots   []string    `json:"screenshots"`
	Showcase      string      `json:"showcase,omitempty"`
}

// CategorySummary is one tile of the store overview.
type CategorySummary struct {
	Name         string     `json:"name" yaml:"name" toml:"name" bson:"name"`
	Icon         string     `json:"icon" yaml:"icon" toml:"icon" bson:"icon"`
	Color        string     `json:"color" yaml:"color" toml:"color" bson:"color"`
	Count        int        `json:"count" yaml:"count" toml:"count" bson:"count"`
	PreviewIcons []string   `json:"preview_icons" yaml:"preview_icons" toml:"preview_icons" bson:"preview_icons"`
	Layout       LayoutSlot `json:"layout" yaml:"layout" toml:"layout" bson:"layout"`
}

// LayoutSlot is a grid tile size in columns and rows.
type LayoutSlot struct {
	Cols int `json:"cols" yaml:"cols" toml:"cols" bson:"cols"`
	Rows int `json:"rows" yaml:"rows" toml:"rows" bson:"rows"`
}

// Class renders the slot as grid utility classes, e.g. "col-span-2 row-span-1".
func (s LayoutSlot) Class() string {
	return fmt.Sprintf("col-span-%d row-span-%d", s.Cols, s.Rows)
}
