// Package pkg provides the core libraries for cargoplan.
//
// # Overview
//
// Cargoplan validates Cargo-style package descriptors and resolves feature
// selections into deterministic build plans. The pkg directory is organized
// into three main areas:
//
//  1. Domain logic - descriptor parsing, feature resolution, plan output
//  2. Infrastructure - caching, plan storage, registry clients
//  3. Surfaces - feature-graph rendering and the HTTP API
//
// # Architecture
//
// The typical data flow through cargoplan:
//
//	Descriptor TOML
//	         ↓
//	    [descriptor] package (parse + validate)
//	         ↓
//	    [resolver] package (feature-closure resolution)
//	         ↓
//	    [plan] package (deterministic build plan)
//	         ↓
//	    JSON output / [render] feature graph / [store] persistence
//
// # Quick Start
//
// Parse a descriptor and resolve its default feature closure:
//
//	import (
//	    "github.com/matzehuels/cargoplan/pkg/descriptor"
//	    "github.com/matzehuels/cargoplan/pkg/resolver"
//	)
//
//	d, err := descriptor.ParseFile("Cargo.toml")
//	if err != nil {
//	    return err
//	}
//	p, err := resolver.Resolve(d, nil, resolver.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p.Features, len(p.Dependencies))
//
// # Main Packages
//
// [descriptor] - TOML descriptor parsing, validation, and canonical encoding.
// Covers package identity, artifact kinds, dependency tables, and the
// feature-reference grammar (feat, dep:name, dep/feat, dep?/feat).
//
// [resolver] - Deterministic feature-closure resolution producing build
// plans, plus the feature-activation graph for visualization.
//
// [plan] - The resolved build plan type and its JSON serialization.
//
// [dag] - Directed graph with deterministic iteration and cycle detection,
// used for the feature-activation graph.
//
// [render] - Graphviz DOT generation and SVG/PNG rendering of feature graphs.
//
// [cache] / [store] - Pluggable caching (file, Redis, null) and plan
// persistence (file, MongoDB).
//
// [registry] - Cached, retrying HTTP clients for package registries
// (crates.io), used by the audit command.
//
// [server] - The HTTP API exposing check and resolve operations.
//
// [errors] - Structured error codes shared by the CLI and the API.
//
// [observability] - Optional hooks for metrics and tracing backends.
//
// [descriptor]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/descriptor
// [resolver]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/resolver
// [plan]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/plan
// [dag]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/dag
// [render]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/store
// [registry]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/registry
// [server]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cargoplan/pkg/observability
package pkg
