// Package tree defines the caller-supplied hierarchical input of a chart.
//
// A [Node] is a plain record: a label, optional metadata, optional style
// overrides and an ordered list of children. The engine never mutates a
// caller's tree; interactive state changes go through [WithExpanded], which
// returns a new root sharing every subtree that did not change.
//
// Nodes are addressed by their index path from the root ("0", "0.1",
// "0.1.2"). Paths are deterministic for a given tree shape, which keeps
// re-renders reproducible and lets hit regions name the node they toggle.
//
// # Cycles
//
// The input must be a strict tree. [Walk] keeps a visited set and returns
// [ErrCycle] instead of recursing forever when a node is reachable twice.
package tree

import (
	"errors"
	"strconv"
	"strings"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// ConnectionCustom marks a child whose incoming connector is drawn from
// caller-supplied path data.
const ConnectionCustom = "custom"

// ErrCycle is returned when a node is reached twice during a walk.
var ErrCycle = errors.New("tree contains a cycle")

// Node is a single record of the input tree.
type Node struct {
	Value       string `json:"value" toml:"value"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
	Title       string `json:"title,omitempty" toml:"title,omitempty"`
	Subtitle    string `json:"subtitle,omitempty" toml:"subtitle,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty" toml:"imageUrl,omitempty"`
	EdgeText    string `json:"edgeText,omitempty" toml:"edgeText,omitempty"`

	NodeConfig *style.NodeConfig `json:"nodeConfig,omitempty" toml:"nodeConfig,omitempty"`
	EdgeConfig *style.EdgeConfig `json:"edgeConfig,omitempty" toml:"edgeConfig,omitempty"`

	CollapsibleState *CollapsibleState `json:"collapsibleState,omitempty" toml:"collapsibleState,omitempty"`

	// ConnectionType set to "custom" replaces the connector generator for
	// the edge into this node with ConnectionPath.
	ConnectionType string `json:"connectionType,omitempty" toml:"connectionType,omitempty"`
	ConnectionPath string `json:"connectionPath,omitempty" toml:"connectionPath,omitempty"`

	Children []*Node `json:"child,omitempty" toml:"child,omitempty"`
}

// CollapsibleState records whether a collapsible node shows its description.
type CollapsibleState struct {
	Expanded bool `json:"expanded" toml:"expanded"`
}

// Expanded reports the recorded state of a collapsible node.
// Nodes without a recorded state are collapsed.
func (n *Node) Expanded() bool {
	return n != nil && n.CollapsibleState != nil && n.CollapsibleState.Expanded
}

// Label returns the primary text of the node: the title when set,
// otherwise the value.
func (n *Node) Label() string {
	if n == nil {
		return ""
	}
	if n.Title != "" {
		return n.Title
	}
	return n.Value
}

// HasCustomConnection reports whether the edge into n uses caller path data.
func (n *Node) HasCustomConnection() bool {
	return strings.EqualFold(n.ConnectionType, ConnectionCustom) && n.ConnectionPath != ""
}

// RootID is the identifier of the root node.
const RootID = "0"

// ChildID returns the identifier of the i-th child of the node parentID.
func ChildID(parentID string, i int) string {
	return parentID + "." + strconv.Itoa(i)
}

// ParseID splits an identifier into its child indexes below the root.
// "0" yields an empty slice; "0.2.1" yields [2 1].
func ParseID(id string) ([]int, bool) {
	parts := strings.Split(id, ".")
	if len(parts) == 0 || parts[0] != RootID {
		return nil, false
	}
	idx := make([]int, 0, len(parts)-1)
	for _, p := range parts[1:] {
		i, err := strconv.Atoi(p)
		if err != nil || i < 0 {
			return nil, false
		}
		idx = append(idx, i)
	}
	return idx, true
}

// Find returns the node addressed by id, or nil.
func Find(root *Node, id string) *Node {
	idx, ok := ParseID(id)
	if !ok || root == nil {
		return nil
	}
	n := root
	for _, i := range idx {
		if i >= len(n.Children) || n.Children[i] == nil {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

// VisitFunc is called for each node during a walk with its identifier and depth.
type VisitFunc func(n *Node, id string, depth int) error

// Walk visits the tree depth-first, parents before children.
// Nil children are skipped. A node reached twice yields ErrCycle.
func Walk(root *Node, fn VisitFunc) error {
	if root == nil {
		return nil
	}
	visited := make(map[*Node]struct{})
	return walk(root, RootID, 0, visited, fn)
}

func walk(n *Node, id string, depth int, visited map[*Node]struct{}, fn VisitFunc) error {
	if _, seen := visited[n]; seen {
		return ErrCycle
	}
	visited[n] = struct{}{}
	if err := fn(n, id, depth); err != nil {
		return err
	}
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		if err := walk(c, ChildID(id, i), depth+1, visited, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the tree.
func Count(root *Node) (int, error) {
	count := 0
	err := Walk(root, func(*Node, string, int) error {
		count++
		return nil
	})
	return count, err
}

// WithExpanded returns a tree in which the node addressed by id records
// expanded. Only the nodes on the path from the root to the target are
// copied; every other subtree is shared with the input.
func WithExpanded(root *Node, id string, expanded bool) (*Node, bool) {
	idx, ok := ParseID(id)
	if !ok || root == nil {
		return nil, false
	}
	return withExpanded(root, idx, expanded)
}

func withExpanded(n *Node, idx []int, expanded bool) (*Node, bool) {
	cp := *n
	if len(idx) == 0 {
		cp.CollapsibleState = &CollapsibleState{Expanded: expanded}
		return &cp, true
	}
	i := idx[0]
	if i >= len(n.Children) || n.Children[i] == nil {
		return nil, false
	}
	child, ok := withExpanded(n.Children[i], idx[1:], expanded)
	if !ok {
		return nil, false
	}
	cp.Children = make([]*Node, len(n.Children))
	copy(cp.Children, n.Children)
	cp.Children[i] = child
	return &cp, true
}
