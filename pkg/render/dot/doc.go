// Package dot exports a normalized tree as a Graphviz diagram.
//
// # Overview
//
// The native layout engine is the primary renderer. This package is an
// alternative for users who want to post-process a chart with Graphviz
// tools or let Graphviz lay it out. Node shapes, colors, edge labels and
// arrow directions carry over; positions do not.
//
// # Usage
//
//	src := dot.ToDOT(root, dot.Options{Type: cfg.Type, Flow: cfg.HorizontalAlign})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Chart Types
//
// Chart types map onto Graphviz engines and spline modes:
//
//   - direct: dot with straight lines
//   - right-angle: dot with orthogonal splines
//   - curved: dot with curved splines
//   - all-direction: twopi, a radial engine
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package dot
