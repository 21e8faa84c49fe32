package sink

import (
	"testing"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/connector"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/shape"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

func sampleTree() *tree.Node {
	return &tree.Node{
		Value: "Root & Co",
		Children: []*tree.Node{
			{Value: "B", EdgeText: "yes"},
			{
				Value:            "C",
				Description:      "details",
				NodeConfig:       &style.NodeConfig{Type: style.ShapeCollapsible},
				CollapsibleState: &tree.CollapsibleState{Expanded: false},
			},
		},
	}
}

func buildScene(t *testing.T, root *tree.Node, cfg style.Config) (*layout.Layout, *scene.Scene) {
	t.Helper()
	cfg.SetDefaults()
	m := measure.Approx{}
	n, err := normalize.Tree(root, cfg, m)
	if err != nil {
		t.Fatalf("normalize.Tree() error: %v", err)
	}
	l := layout.Build(n, cfg)
	s := scene.New(l.Width, l.Height)
	s.Add(connector.Draw(&connector.Context{Scene: s, Measurer: m}, l))
	s.Add(shape.Draw(&shape.Context{Scene: s}, l))
	return l, s
}
