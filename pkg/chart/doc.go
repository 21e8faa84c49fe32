// Package chart is the stateful front of the engine: it renders a tree into
// a container, toggles collapsible nodes, and exports the current drawing.
//
// # Rendering
//
// A [Chart] owns a working copy of the input tree and the [State] of its
// last render. Every render runs the full pipeline:
//
//	normalize → layout → decoration → connectors + shapes → SVG
//
// and hands the interactive SVG document to the chart's [Container].
// Image references are fetched in the background while the layout is
// computed and joined before drawing.
//
//	c, err := chart.New(&chart.FileContainer{Path: "tree.svg"}, cfg)
//	if err != nil {
//	    return err
//	}
//	if _, err := c.Render(ctx, root); err != nil {
//	    return err
//	}
//
// # Interaction
//
// [Chart.Toggle] flips the recorded state of one collapsible node and
// re-renders. The working tree is updated by path copying, so the caller's
// tree is never modified and toggling twice reproduces the original layout.
//
// # Export
//
// [Chart.Export] writes the current drawing as a static SVG without
// interactive controls. [Chart.ExportFormat] also produces PNG, PDF, JSON
// geometry and Graphviz DOT. All exports fail with NOT_RENDERED before the
// first render.
package chart
