package sink

import (
	"context"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
)

// RenderPDF renders s as PDF via the static SVG.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s *scene.Scene) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(s))
}
