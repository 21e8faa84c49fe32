package chart

import (
	"context"
	stderrors "errors"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/layout"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/observability"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/connector"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/decoration"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/scene"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/shape"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/render/sink"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

// State is the outcome of one render. It is replaced wholesale by the next
// render and must not be modified.
type State struct {
	// Tree is the working copy the render was computed from.
	Tree *tree.Node
	Root *normalize.Node
	// Layout holds the final positions, after decoration.
	Layout  *layout.Layout
	Scene   *scene.Scene
	Overlay decoration.Overlay
	Images  *imageload.Set
	// Document is the interactive SVG handed to the container.
	Document []byte

	Width, Height float64
	Duration      time.Duration
}

// Chart renders one tree into a container and keeps the state needed for
// interaction and export. Its methods are safe for concurrent use.
type Chart struct {
	mu sync.Mutex

	container Container
	cfg       style.Config
	logger    *log.Logger
	measurer  measure.Measurer
	loader    *imageload.Loader
	hooks     observability.PipelineHooks
	embedFont bool

	state *State
}

// Option configures a [Chart].
type Option func(*Chart)

// WithLogger sets the logger for render diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Chart) { c.logger = l }
}

// WithMeasurer replaces the embedded-font text measurer.
func WithMeasurer(m measure.Measurer) Option {
	return func(c *Chart) { c.measurer = m }
}

// WithImageLoader sets the loader used for image nodes.
func WithImageLoader(l *imageload.Loader) Option {
	return func(c *Chart) { c.loader = l }
}

// WithHooks sets the render hooks. The default is the globally registered
// [observability.Pipeline] hooks.
func WithHooks(h observability.PipelineHooks) Option {
	return func(c *Chart) { c.hooks = h }
}

// WithEmbeddedFont embeds the measuring font in attached documents.
func WithEmbeddedFont() Option {
	return func(c *Chart) { c.embedFont = true }
}

// New returns a chart drawing into container. Defaults are applied to cfg.
func New(container Container, cfg style.Config, opts ...Option) (*Chart, error) {
	if isNil(container) {
		return nil, errors.New(errors.ErrCodeMissingContainer, "chart requires a container")
	}
	cfg.SetDefaults()
	c := &Chart{container: container, cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if c.measurer == nil {
		c.measurer = measure.Default()
	}
	if c.loader == nil {
		c.loader = &imageload.Loader{Logger: c.logger}
	}
	if c.hooks == nil {
		c.hooks = observability.Pipeline()
	}
	return c, nil
}

// Config returns the chart configuration with defaults applied.
func (c *Chart) Config() style.Config {
	return c.cfg
}

// State returns the state of the last render, or nil.
func (c *Chart) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Render lays out root, draws it and attaches the interactive document to
// the container. root is not modified; later toggles work on a path copy.
func (c *Chart) Render(ctx context.Context, root *tree.Node) (*State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(ctx, root)
}

// Toggle flips the expanded state of the collapsible node id and
// re-renders.
func (c *Chart) Toggle(ctx context.Context, id string) (*State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil {
		return nil, errors.New(errors.ErrCodeNotRendered, "chart has not been rendered")
	}
	src, err := c.collapsible(id)
	if err != nil {
		return nil, err
	}
	expanded := !src.Expanded()
	next, ok := tree.WithExpanded(c.state.Tree, id, expanded)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownNode, "no node with id %q", id)
	}
	c.logger.Debug("toggle", "node", id, "expanded", expanded)
	c.hooks.OnToggle(ctx, id, expanded)
	return c.render(ctx, next)
}

// Expanded reports the recorded state of the collapsible node id.
func (c *Chart) Expanded(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == nil {
		return false, errors.New(errors.ErrCodeNotRendered, "chart has not been rendered")
	}
	src, err := c.collapsible(id)
	if err != nil {
		return false, err
	}
	return src.Expanded(), nil
}

func (c *Chart) collapsible(id string) (*tree.Node, error) {
	n := c.state.Layout.Node(id)
	if n == nil {
		return nil, errors.New(errors.ErrCodeUnknownNode, "no node with id %q", id)
	}
	if n.Src.Style.Type != style.ShapeCollapsible {
		return nil, errors.New(errors.ErrCodeNotCollapsible, "node %q is a %s", id, n.Src.Style.Type)
	}
	return n.Src.Source, nil
}

func (c *Chart) render(ctx context.Context, root *tree.Node) (*State, error) {
	start := time.Now()

	n, err := normalize.Tree(root, c.cfg, c.measurer)
	c.hooks.OnNormalizeComplete(ctx, count(n), time.Since(start), err)
	if err != nil {
		return nil, classify(err)
	}

	refs := imageload.URLs(n)
	var pending *imageload.Pending
	var images *imageload.Set
	if prev := c.state; prev != nil && prev.Images.Covers(refs) {
		images = prev.Images
	} else {
		pending = c.loader.Start(ctx, refs)
	}

	chartType := string(c.cfg.Type.Normalize())
	layoutStart := time.Now()
	c.hooks.OnLayoutStart(ctx, chartType, count(n))
	l := layout.Build(n, c.cfg)
	c.hooks.OnLayoutComplete(ctx, chartType, time.Since(layoutStart), nil)

	overlay := decoration.Apply(l, c.cfg, c.measurer)
	if pending != nil {
		images = pending.Wait()
		if failed := images.Failed(); len(failed) > 0 {
			c.logger.Debug("images failed to load", "count", len(failed))
		}
	}

	formats := []string{"svg"}
	c.hooks.OnRenderStart(ctx, formats)
	s := c.draw(l, overlay, images)

	var opts []sink.SVGOption
	opts = append(opts, sink.WithInteraction())
	if c.embedFont {
		opts = append(opts, sink.WithEmbeddedFont())
	}
	doc := sink.RenderSVG(s, opts...)
	err = c.container.Attach(doc)
	c.hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach document")
	}

	st := &State{
		Tree:     root,
		Root:     n,
		Layout:   l,
		Scene:    s,
		Overlay:  overlay,
		Images:   images,
		Document: doc,
		Width:    l.Width,
		Height:   l.Height,
		Duration: time.Since(start),
	}
	c.state = st
	c.logger.Debug("rendered chart",
		"type", chartType,
		"nodes", len(l.Nodes),
		"width", l.Width,
		"height", l.Height,
		"duration", st.Duration)
	return st, nil
}

// draw builds the scene. Connectors are painted behind nodes and the
// overlay on top.
func (c *Chart) draw(l *layout.Layout, overlay decoration.Overlay, images *imageload.Set) *scene.Scene {
	s := scene.New(l.Width, l.Height)
	s.Add(connector.Draw(&connector.Context{Scene: s, Measurer: c.measurer}, l))
	s.Add(shape.Draw(&shape.Context{Scene: s, Images: images}, l))
	s.Add(overlay.Elements()...)
	return s
}

// isNil also catches typed nils such as (*FileContainer)(nil).
func isNil(c Container) bool {
	if c == nil {
		return true
	}
	switch v := reflect.ValueOf(c); v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func count(n *normalize.Node) int {
	if n == nil {
		return 0
	}
	return n.Count()
}

func classify(err error) error {
	switch {
	case stderrors.Is(err, tree.ErrCycle):
		return errors.Wrap(errors.ErrCodeCycle, err, "tree contains a cycle")
	case stderrors.Is(err, normalize.ErrEmptyTree):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "empty tree")
	}
	return err
}
