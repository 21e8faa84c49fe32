// Package sink serializes a [scene.Scene] into output formats.
//
// # Formats
//
//   - SVG ([RenderSVG]): interactive or static vector document
//   - PNG ([RenderPNG]): native rasterization, or rsvg-convert on request
//   - PDF ([RenderPDF]): via rsvg-convert
//   - JSON ([RenderJSON]): computed geometry for external tools
//
// Sinks never change geometry. The interactive SVG and a static export of
// the same scene differ only in the hit regions the interactive one adds.
//
// [scene.Scene]: github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene
package sink
