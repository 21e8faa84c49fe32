package chart_test

import (
	"context"
	"fmt"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

func Example() {
	root := &tree.Node{
		Value: "CEO",
		Children: []*tree.Node{
			{Value: "CTO", Description: "Engineering", NodeConfig: &style.NodeConfig{Type: style.ShapeCollapsible}},
			{Value: "CFO"},
		},
	}

	c, err := chart.New(&chart.MemoryContainer{}, style.Config{Type: style.ChartRightAngle},
		chart.WithMeasurer(measure.Approx{}))
	if err != nil {
		fmt.Println(err)
		return
	}
	ctx := context.Background()
	if _, err := c.Render(ctx, root); err != nil {
		fmt.Println(err)
		return
	}
	if _, err := c.Toggle(ctx, "0.0"); err != nil {
		fmt.Println(err)
		return
	}
	expanded, _ := c.Expanded("0.0")
	fmt.Println("expanded:", expanded)

	_, err = c.Toggle(ctx, "0.1")
	fmt.Println(err)
	// Output:
	// expanded: true
	// NOT_COLLAPSIBLE: node "0.1" is a rectangle
}
