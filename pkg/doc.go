// Package pkg provides the libraries behind cpakstore, the Containerpak store
// browser.
//
// # Overview
//
// The Containerpak store is a set of JSON documents: an index mapping
// categories to package origins and manifest URLs, and a category metadata
// document. Each package manifest points at an upstream repository whose
// cpak.json descriptor carries the package version. The pkg directory turns
// those documents into resolved packages:
//
//  1. [catalog] - Resolution pipeline (index, manifest, descriptor, media)
//  2. [transport] - HTTP fetching with retries and caching
//  3. [cache] - Document cache backends (file, memory, Redis)
//  4. [lint] - Descriptor schema, version and icon checks
//  5. [snapshot] - Whole-store snapshots as JSON, YAML, TOML or MongoDB documents
//
// # Architecture
//
// The typical data flow:
//
//	index.json + categories.json
//	         ↓
//	    [catalog] Resolver (via [transport] Client and [cache])
//	         ↓
//	    manifest.json → cpak.json → icon, screenshots, showcase
//	         ↓
//	    Package / PackageDetail / CategorySummary
//	         ↓
//	    CLI tables, JSON API, [snapshot], [lint] reports
//
// # Quick Start
//
//	client := transport.NewClient(transport.Options{Cache: cache.NewNullCache()})
//	r := catalog.NewResolver(client, catalog.Options{})
//
//	cats, err := r.ListCategories(ctx)
//	if err != nil {
//	    return err
//	}
//	for _, c := range cats {
//	    fmt.Println(c.Name, c.Count)
//	}
//
// # Supporting Packages
//
//   - [errors] - Coded errors shared by the CLI and the HTTP API
//   - [observability] - Resolve, cache and HTTP hooks with a Prometheus implementation
//   - [httputil] - Retry with exponential backoff
//   - [buildinfo] - Version information injected at build time
package pkg
