package cli

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/chart"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/imageload"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

const (
	defaultAddr = "localhost:8080"

	// maxBodyBytes caps POST /api/charts request bodies.
	maxBodyBytes = 4 << 20

	defaultMaxCharts = 256
	defaultChartTTL  = time.Hour
)

// serveCommand creates the HTTP host command.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath, chartType, addr string
	limits := serverLimits{MaxCharts: defaultMaxCharts, IdleTTL: defaultChartTTL}

	cmd := &cobra.Command{
		Use:   "serve [tree-file]",
		Short: "Host interactive charts over HTTP",
		Long: `Start an HTTP host for interactive charts. With a tree file, GET /
shows that chart; clicking a collapsible node toggles it and the download
control saves a static copy. Charts can also be created with POST /api/charts.

Posted charts may only load remote images from public addresses or inline
data URIs. They are dropped after --chart-ttl without use, and the least
recently used chart is dropped once --max-charts is reached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := newServer(c.Logger)
			srv.limits = limits
			if hc, err := httputil.NewCache(imageCacheDir(), imageCacheTTL); err == nil {
				srv.images.Cache = hc.Namespace("public:")
			}
			if len(args) == 1 {
				in, err := loadInput(args[0], configPath, chartType)
				if err != nil {
					return err
				}
				id, err := srv.pin(cmd.Context(), in.Tree, in.Config, c.imageLoader(args[0], false))
				if err != nil {
					return err
				}
				printKeyValue("chart", id)
			} else {
				printWarning("No tree file given; create charts with POST /api/charts")
			}
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "chart config file (.toml or .json)")
	cmd.Flags().StringVarP(&chartType, "type", "t", "", "chart type: "+strings.Join(chartTypeNames(), ", "))
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&limits.MaxCharts, "max-charts", limits.MaxCharts, "maximum number of posted charts kept in memory")
	cmd.Flags().DurationVar(&limits.IdleTTL, "chart-ttl", limits.IdleTTL, "drop posted charts unused for this long (0 keeps them)")
	_ = cmd.RegisterFlagCompletionFunc("type", completeFixed(chartTypeNames()...))

	return cmd
}

// =============================================================================
// server - Chart registry and HTTP handlers
// =============================================================================

// serverLimits bounds the charts created through the API. The chart
// loaded from the command line is pinned and never counts.
type serverLimits struct {
	MaxCharts int
	IdleTTL   time.Duration
}

// hostedChart pairs a chart with the container holding its live document.
type hostedChart struct {
	id        string
	chart     *chart.Chart
	container *chart.MemoryContainer
	pinned    bool
	lastUsed  time.Time
	elem      *list.Element
}

// server keeps charts in memory keyed by a random id. Unpinned charts are
// kept in LRU order (front = most recent).
type server struct {
	logger *log.Logger
	// images loads the images of posted charts.
	images *imageload.Loader
	limits serverLimits
	now    func() time.Time

	mu        sync.Mutex
	defaultID string
	charts    map[string]*hostedChart
	lru       *list.List
}

func newServer(logger *log.Logger) *server {
	return &server{
		logger: logger,
		images: &imageload.Loader{
			Client:    httputil.NewPublicClient(imageload.DefaultTimeout),
			DenyFiles: true,
			Logger:    logger,
		},
		limits: serverLimits{MaxCharts: defaultMaxCharts, IdleTTL: defaultChartTTL},
		now:    time.Now,
		charts: make(map[string]*hostedChart),
		lru:    list.New(),
	}
}

// create renders a posted chart and registers it, evicting idle or least
// recently used charts to stay within the limits.
func (s *server) create(ctx context.Context, root *tree.Node, cfg style.Config) (string, error) {
	return s.add(ctx, root, cfg, s.images, false)
}

// pin renders the served default chart with a trusted loader.
func (s *server) pin(ctx context.Context, root *tree.Node, cfg style.Config, loader *imageload.Loader) (string, error) {
	if loader == nil {
		loader = s.images
	}
	id, err := s.add(ctx, root, cfg, loader, true)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.defaultID = id
	s.mu.Unlock()
	return id, nil
}

func (s *server) add(ctx context.Context, root *tree.Node, cfg style.Config, loader *imageload.Loader, pinned bool) (string, error) {
	container := &chart.MemoryContainer{}
	ch, err := chart.New(container, cfg, chart.WithLogger(s.logger), chart.WithImageLoader(loader))
	if err != nil {
		return "", err
	}
	if _, err := ch.Render(ctx, root); err != nil {
		return "", err
	}

	h := &hostedChart{id: uuid.NewString(), chart: ch, container: container, pinned: pinned}
	s.mu.Lock()
	now := s.now()
	h.lastUsed = now
	if !pinned {
		s.expireLocked(now)
		for s.limits.MaxCharts > 0 && s.lru.Len() >= s.limits.MaxCharts {
			s.removeLocked(s.lru.Back().Value.(*hostedChart), "capacity")
		}
		h.elem = s.lru.PushFront(h)
	}
	s.charts[h.id] = h
	total := len(s.charts)
	s.mu.Unlock()

	s.logger.Info("chart created", "id", h.id, "nodes", len(ch.State().Layout.Nodes), "hosted", total)
	return h.id, nil
}

// lookup returns a live chart and marks it used.
func (s *server) lookup(id string) (*hostedChart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.charts[id]
	now := s.now()
	if ok && s.idleLocked(h, now) {
		s.removeLocked(h, "idle")
		ok = false
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownChart, "chart %q not found", id)
	}
	h.lastUsed = now
	if h.elem != nil {
		s.lru.MoveToFront(h.elem)
	}
	return h, nil
}

// remove drops a posted chart. The pinned chart cannot be removed.
func (s *server) remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.charts[id]
	if !ok {
		return errors.New(errors.ErrCodeUnknownChart, "chart %q not found", id)
	}
	if h.pinned {
		return errors.New(errors.ErrCodeInvalidInput, "chart %q is served at / and cannot be deleted", id)
	}
	s.removeLocked(h, "deleted")
	return nil
}

// sweep drops charts idle for longer than the TTL.
func (s *server) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked(s.now())
}

func (s *server) expireLocked(now time.Time) {
	for e := s.lru.Back(); e != nil; {
		h := e.Value.(*hostedChart)
		if !s.idleLocked(h, now) {
			return
		}
		e = e.Prev()
		s.removeLocked(h, "idle")
	}
}

func (s *server) idleLocked(h *hostedChart, now time.Time) bool {
	return !h.pinned && s.limits.IdleTTL > 0 && now.Sub(h.lastUsed) > s.limits.IdleTTL
}

func (s *server) removeLocked(h *hostedChart, reason string) {
	if h.elem != nil {
		s.lru.Remove(h.elem)
		h.elem = nil
	}
	delete(s.charts, h.id)
	s.logger.Debug("chart dropped", "id", h.id, "reason", reason)
}

func (s *server) defaultChart() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultID
}

// routes builds the HTTP router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Route("/api/charts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleInfo)
			r.Delete("/", s.handleDelete)
			r.Get("/svg", s.handleSVG)
			r.Get("/download", s.handleDownload)
			r.Post("/nodes/{node}/toggle", s.handleToggle)
		})
	})
	return r
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	printSuccess("Serving on %s", StyleLink.Render("http://"+addr))

	var sweeps <-chan time.Time
	if s.limits.IdleTTL > 0 {
		ticker := time.NewTicker(max(s.limits.IdleTTL/4, time.Second))
		defer ticker.Stop()
		sweeps = ticker.C
	}
	for {
		select {
		case err := <-errc:
			return err
		case <-sweeps:
			s.sweep()
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return hs.Shutdown(shutdownCtx)
		}
	}
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// createRequest is the POST /api/charts body.
type createRequest struct {
	Tree   *tree.Node   `json:"tree"`
	Config style.Config `json:"config"`
}

// chartInfo describes a hosted chart.
type chartInfo struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Nodes  int     `json:"nodes"`
}

// toggleResponse answers a toggle request.
type toggleResponse struct {
	chartInfo
	Node     string `json:"node"`
	Expanded bool   `json:"expanded"`
}

func infoFor(id string, st *chart.State) chartInfo {
	return chartInfo{ID: id, Width: st.Width, Height: st.Height, Nodes: len(st.Layout.Nodes)}
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "tree is required"))
		return
	}
	id, err := s.create(r.Context(), req.Tree, req.Config)
	if err != nil {
		s.writeError(w, err)
		return
	}
	h, err := s.lookup(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, infoFor(id, h.chart.State()))
}

func (s *server) handleInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h, err := s.lookup(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infoFor(id, h.chart.State()))
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.remove(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSVG(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(h.container.Document())
}

func (s *server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id, node := chi.URLParam(r, "id"), chi.URLParam(r, "node")
	h, err := s.lookup(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	st, err := h.chart.Toggle(r.Context(), node)
	if err != nil {
		s.writeError(w, err)
		return
	}
	expanded, _ := h.chart.Expanded(node)
	writeJSON(w, http.StatusOK, toggleResponse{chartInfo: infoFor(id, st), Node: node, Expanded: expanded})
}

func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	h, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = chart.FormatSVG
	}
	if err := chart.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	data, err := h.chart.Bytes(r.Context(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := h.chart.Filename()
	name = strings.TrimSuffix(name, path.Ext(name)) + "." + format
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	chart.FormatSVG:  "image/svg+xml",
	chart.FormatPNG:  "image/png",
	chart.FormatPDF:  "application/pdf",
	chart.FormatJSON: "application/json",
	chart.FormatDOT:  "text/vnd.graphviz",
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := s.defaultChart()
	if id == "" {
		http.Error(w, "no chart loaded; create one with POST /api/charts", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, map[string]string{"ID": id}); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	body := map[string]string{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = string(code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>treecharts</title>
<style>body{margin:0;padding:24px;font-family:sans-serif}[data-action]{cursor:pointer}</style>
</head>
<body>
<div id="chart"></div>
<script>
const base = "/api/charts/{{.ID}}";
const host = document.getElementById("chart");
async function load() {
  const res = await fetch(base + "/svg");
  host.innerHTML = await res.text();
}
host.addEventListener("click", async (e) => {
  const el = e.target.closest("[data-action]");
  if (!el) return;
  if (el.dataset.action === "toggle") {
    await fetch(base + "/nodes/" + encodeURIComponent(el.dataset.target) + "/toggle", {method: "POST"});
    await load();
  } else if (el.dataset.action === "download") {
    window.location = base + "/download";
  }
});
load();
</script>
</body>
</html>
`))
