package layout

import (
	"math"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// radialStart is the direction of the first wedge: straight up.
const radialStart = -math.Pi / 2

// Radial is the all-direction core.
//
// The root sits at the center. Each node's wedge is split among its
// children in proportion to their subtree leaf counts, and every child
// sits on the bisector of its own wedge. The ring radius of a depth is the
// smallest value at which the ring clears the previous ring by
// verticalGap and every node's circumscribed circle, padded by half the
// horizontal gap, fits inside its wedge. Wedges of different subtrees are
// disjoint, so no two nodes overlap.
func Radial(root *normalize.Node, cfg style.Config) *Layout {
	l := &Layout{
		Root:          newNodes(root),
		Type:          cfg.Type,
		Flow:          cfg.HorizontalAlign,
		HorizontalGap: cfg.HorizontalGap,
		VerticalGap:   cfg.VerticalGap,
	}

	leaves := make(map[*Node]int)
	countLeaves(l.Root, leaves)
	assignWedges(l.Root, radialStart, radialStart+2*math.Pi, leaves)

	var rings [][]*Node
	l.Root.Walk(func(n *Node) {
		for len(rings) <= n.Depth {
			rings = append(rings, nil)
		}
		rings[n.Depth] = append(rings[n.Depth], n)
	})

	radii := make([]float64, len(rings))
	prevRho := 0.0
	for d, ring := range rings {
		maxRho := 0.0
		for _, n := range ring {
			maxRho = math.Max(maxRho, halfDiagonal(n))
		}
		if d == 0 {
			prevRho = maxRho
			continue
		}
		r := radii[d-1] + prevRho + cfg.VerticalGap + maxRho
		for _, n := range ring {
			span := n.AngleEnd - n.AngleStart
			if span >= math.Pi || span <= 0 {
				continue
			}
			need := (halfDiagonal(n) + cfg.HorizontalGap/2) / math.Sin(span/2)
			r = math.Max(r, need)
		}
		radii[d] = r
		prevRho = maxRho
	}

	l.Root.Walk(func(n *Node) {
		r := radii[n.Depth]
		cx := r * math.Cos(n.Angle)
		cy := r * math.Sin(n.Angle)
		n.X = cx - n.Width/2
		n.Y = cy - n.Height/2
	})

	finish(l, cfg)
	l.CenterX = l.Root.CenterX()
	l.CenterY = l.Root.CenterY()
	return l
}

func countLeaves(n *Node, leaves map[*Node]int) int {
	if len(n.Children) == 0 {
		leaves[n] = 1
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += countLeaves(c, leaves)
	}
	leaves[n] = total
	return total
}

func assignWedges(n *Node, start, end float64, leaves map[*Node]int) {
	n.AngleStart, n.AngleEnd = start, end
	n.Angle = (start + end) / 2
	if n.Depth == 0 {
		n.Angle = 0
	}
	total := float64(leaves[n])
	at := start
	for _, c := range n.Children {
		span := (end - start) * float64(leaves[c]) / total
		assignWedges(c, at, at+span, leaves)
		at += span
	}
}

func halfDiagonal(n *Node) float64 {
	return math.Hypot(n.Width, n.Height) / 2
}
