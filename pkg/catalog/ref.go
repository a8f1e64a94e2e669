package catalog

import "github.com/containerpak/cpakstore/pkg/errors"

// FirstNonEmpty returns the first non-empty value, or "" if there is none.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SelectRef picks the upstream reference a manifest points at: branch,
// then commit, then release. A manifest without any of them fails with
// MISSING_REFERENCE.
func SelectRef(m Manifest) (string, error) {
	if ref := FirstNonEmpty(m.Branch, m.Commit, m.Release); ref != "" {
		return ref, nil
	}
	return "", errors.New(errors.ErrCodeMissingReference, "manifest declares no branch, commit or release")
}
