package catalog

import "strings"

// ResolveDescription picks the text shown for a package. The manifest wins
// over the index entry, which wins over the upstream descriptor. Each value
// is trimmed first, so a whitespace-only value counts as absent.
func ResolveDescription(manifest, index, descriptor string) string {
	return FirstNonEmpty(
		strings.TrimSpace(manifest),
		strings.TrimSpace(index),
		strings.TrimSpace(descriptor),
	)
}
