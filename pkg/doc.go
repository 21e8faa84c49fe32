// Package pkg provides the libraries behind treecharts, a tree chart layout
// and rendering engine.
//
// # Overview
//
// Treecharts turns hierarchical data into tree charts. A tree flows
// through four stages:
//
//	tree file (.json / .toml)
//	         ↓
//	    [tree]       parse, validate, path-copy toggles
//	         ↓
//	    [normalize]  resolve styles, assign ids, size every node
//	         ↓
//	    [layout]     position nodes for the chart type
//	         ↓
//	    [render]     draw a scene and serialize it (SVG, PNG, PDF, JSON, DOT)
//
// [chart] ties the stages together behind a small handle that renders into
// a container, toggles collapsible nodes and exports. [pipeline] wraps a
// chart with the artifact [cache] for the CLI and HTTP host.
//
// # Quick Start
//
//	root, _ := tree.Load("org.json")
//	c, _ := chart.New(&chart.FileContainer{Path: "org.svg"}, style.Config{
//	    Type: style.ChartRightAngle,
//	})
//	if _, err := c.Render(ctx, root); err != nil {
//	    return err
//	}
//	c.Toggle(ctx, "0.1") // expand a collapsible node; org.svg is rewritten
//
// # Main Packages
//
// ## Model
//
// [tree] - The input tree, its file formats and immutable toggle updates.
//
// [style] - Chart configuration, enumerations and the cascading resolution
// of node and edge styles.
//
// [normalize] - Turns a tree into sized, identified nodes.
//
// [measure] - Text measurement with embedded Go fonts.
//
// ## Layout and Rendering
//
// [layout] - Hierarchical (top-to-bottom, bottom-to-top) and radial layouts.
//
// [render] - Scene drawing (shapes, connectors, decoration) and sinks.
//
// [imageload] - Concurrent image prefetch for image nodes.
//
// ## Infrastructure
//
// [chart] - The chart handle and its containers.
//
// [pipeline] - Render and export with caching, shared by every entry point.
//
// [cache] - Artifact caches: file, Redis, MongoDB and a no-op cache.
//
// [errors] - Structured error codes.
//
// [observability] - Hooks for metrics and tracing.
//
// [httputil] - HTTP fetching used by the image loader.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [tree]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree
// [style]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style
// [normalize]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize
// [measure]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure
// [layout]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout
// [render]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render
// [imageload]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload
// [chart]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart
// [pipeline]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/cache
// [errors]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors
// [observability]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/buildinfo
package pkg
