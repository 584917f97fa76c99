// Package inspect answers questions about a set of installed Python
// distributions: what is installed, what depends on what, and what an
// extra would pull in.
//
// # Overview
//
// The engine operates on an immutable snapshot of the installed set,
// usually produced by scanning site-packages directories (see [dist]).
// It has no IO of its own; metadata files and remote registries are
// reached through the [MetadataSource] and [VersionSource] interfaces.
//
// # The Index
//
// [BuildIndex] turns a scan into an [Index] keyed by normalized package
// name (PEP 503), so "Foo_Bar" and "foo-bar" resolve to the same entry:
//
//	idx := inspect.BuildIndex(pkgs)
//	pkg, ok := idx.Get("Foo_Bar")
//
// Every comparison inside the engine goes through the same
// normalization. When two scanned distributions normalize to the same
// name, the one observed later wins.
//
// # Reports
//
// [Search] resolves query names against the index and lazily assembles
// one [Report] per match:
//
//	reports, missing := inspect.Search(ctx, names, idx, inspect.SearchOptions{
//	    Metadata: src,
//	    Latest:   client, // optional remote lookup
//	})
//	for report := range reports {
//	    // render
//	}
//
// Missing names never abort the batch, and a failed remote lookup
// degrades that report's LatestVersion to [UnknownVersion] instead of
// failing it.
//
// # Reverse Dependencies and Extras
//
// [Dependents] scans the whole index for packages that require a target,
// either unconditionally or through an extra. [Extras] resolves a
// package's optional dependency groups against the installed set,
// dropping double-counted unconditional deps. Both are plain functions
// over the index and are also invoked during report assembly.
//
// [dist]: github.com/mindw/pipshow/pkg/dist
package inspect
