// Package render turns laid-out trees into documents.
//
// # Overview
//
// Rendering is split into drawing and serialization:
//
//   - [scene]: format-independent primitives (rects, paths, text, hit regions)
//   - [shape]: node shape strategies
//   - [connector]: edge generators per chart type
//   - [decoration]: title block and download control
//   - [sink]: SVG, PNG, PDF and JSON serializers of a scene
//   - [dot]: DOT export of a tree and Graphviz cross-rendering
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg). The PDF sink always goes through them; the PNG sink uses
// them only on request and otherwise rasterizes natively.
//
//	svg := sink.RenderSVG(s)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// [scene]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene
// [shape]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/shape
// [connector]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/connector
// [decoration]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/decoration
// [sink]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/sink
// [dot]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/dot
package render
