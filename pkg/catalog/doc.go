// Package catalog resolves the Containerpak store.
//
// # Overview
//
// The store is described by a chain of JSON documents:
//
//  1. The index maps category names to packages, keyed by origin
//     ("gh/<owner>/<repo>"), each pointing at a manifest URL
//  2. The manifest selects an upstream branch, commit or release
//  3. The upstream cpak.json at that reference carries the version
//
// Media next to the manifest is found by convention: icon.svg always,
// screenshot-N.webp and showcase.webm by HEAD probes.
//
// # Resolving
//
// A [Resolver] runs the whole chain on a [Fetcher]:
//
//	r := catalog.NewResolver(transport.NewClient(transport.Options{}), catalog.Options{})
//	pkgs, err := r.ListCategory(ctx, "Utilities")
//
// [Resolver.ListCategory] resolves all packages of a category concurrently
// and fails as a whole if any package fails. [Resolver.Check] resolves
// everything and reports failures per package instead.
//
// # Errors
//
// Failures carry codes from [errors]: UNREACHABLE_* for fetches,
// UNKNOWN_CATEGORY and UNKNOWN_ORIGIN for lookups, MISSING_REFERENCE and
// MALFORMED_ORIGIN for documents the chain cannot follow.
package catalog
