package cli

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

func newTestServer(t *testing.T) (*server, *httptest.Server, string) {
	t.Helper()
	srv := newServer(quietLogger())
	root, err := tree.Parse([]byte(sampleTreeJSON), "json")
	if err != nil {
		t.Fatal(err)
	}
	id, err := srv.pin(context.Background(), root, defaultConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts, id
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	if err := json.NewDecoder(res.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestServeIndexAndSVG(t *testing.T) {
	_, ts, id := newTestServer(t)

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusOK || !strings.Contains(string(body), "/api/charts/"+id) {
		t.Errorf("GET / = %d, body missing chart id", res.StatusCode)
	}

	res, err = http.Get(ts.URL + "/api/charts/" + id + "/svg")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if ct := res.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(string(body), `data-action="toggle"`) {
		t.Error("hosted document should be interactive")
	}
}

func TestServeToggle(t *testing.T) {
	_, ts, id := newTestServer(t)

	before := decode[chartInfo](t, mustGet(t, ts.URL+"/api/charts/"+id))

	res, err := http.Post(ts.URL+"/api/charts/"+id+"/nodes/0.0/toggle", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", res.StatusCode)
	}
	got := decode[toggleResponse](t, res)
	if !got.Expanded || got.Node != "0.0" {
		t.Errorf("toggle response = %+v", got)
	}
	if got.Height <= before.Height {
		t.Errorf("height %v should grow past %v after expanding", got.Height, before.Height)
	}
}

func TestServeErrors(t *testing.T) {
	_, ts, id := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown chart", http.MethodGet, "/api/charts/nope/svg", "", 404, "UNKNOWN_CHART"},
		{"unknown node", http.MethodPost, "/api/charts/" + id + "/nodes/0.9/toggle", "", 404, "UNKNOWN_NODE"},
		{"not collapsible", http.MethodPost, "/api/charts/" + id + "/nodes/0.1/toggle", "", 400, "NOT_COLLAPSIBLE"},
		{"bad format", http.MethodGet, "/api/charts/" + id + "/download?format=gif", "", 400, "INVALID_FORMAT"},
		{"bad body", http.MethodPost, "/api/charts", "{", 400, "INVALID_INPUT"},
		{"missing tree", http.MethodPost, "/api/charts", "{}", 400, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			res, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			if res.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.status)
			}
			body := decode[map[string]string](t, res)
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
		})
	}
}

func TestServeCreateAndDownload(t *testing.T) {
	_, ts, _ := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/charts", "application/json",
		strings.NewReader(`{"tree": {"value": "root", "child": [{"value": "leaf"}]}, "config": {"type": "curved"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", res.StatusCode)
	}
	info := decode[chartInfo](t, res)
	if info.ID == "" || info.Nodes != 2 {
		t.Errorf("create response = %+v", info)
	}

	tests := []struct {
		format string
		ctype  string
		file   string
	}{
		{"", "image/svg+xml", "treechart.svg"},
		{"png", "image/png", "treechart.png"},
		{"dot", "text/vnd.graphviz", "treechart.dot"},
	}
	for _, tt := range tests {
		res := mustGet(t, ts.URL+"/api/charts/"+info.ID+"/download?format="+tt.format)
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if res.StatusCode != http.StatusOK || len(body) == 0 {
			t.Errorf("download %q = %d (%d bytes)", tt.format, res.StatusCode, len(body))
		}
		if ct := res.Header.Get("Content-Type"); ct != tt.ctype {
			t.Errorf("download %q Content-Type = %q, want %q", tt.format, ct, tt.ctype)
		}
		if cd := res.Header.Get("Content-Disposition"); !strings.Contains(cd, tt.file) {
			t.Errorf("download %q Content-Disposition = %q, want %q", tt.format, cd, tt.file)
		}
		if tt.format == "" && strings.Contains(string(body), "data-action") {
			t.Error("downloaded SVG should be static")
		}
	}
}

func TestServeIndexWithoutChart(t *testing.T) {
	ts := httptest.NewServer(newServer(quietLogger()).routes())
	defer ts.Close()

	res := mustGet(t, ts.URL+"/")
	res.Body.Close()
	if res.StatusCode != http.StatusNotFound {
		t.Errorf("GET / without chart = %d, want 404", res.StatusCode)
	}
}

func mustGet(t *testing.T, url string) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func postChart(t *testing.T, ts *httptest.Server, body string) chartInfo {
	t.Helper()
	res, err := http.Post(ts.URL+"/api/charts", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode != http.StatusCreated {
		res.Body.Close()
		t.Fatalf("create status = %d", res.StatusCode)
	}
	return decode[chartInfo](t, res)
}

func TestServePostedImagesStayRemote(t *testing.T) {
	_, ts, _ := newTestServer(t)

	secret := filepath.Join(t.TempDir(), "secret.png")
	contents := append(append([]byte{}, pngBytes...), "host file contents"...)
	if err := os.WriteFile(secret, contents, 0o644); err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(contents)
	}))
	defer internal.Close()

	for _, ref := range []string{secret, "../" + filepath.Base(filepath.Dir(secret)) + "/secret.png", internal.URL + "/logo.png"} {
		body, _ := json.Marshal(map[string]any{
			"tree": map[string]any{"value": "x", "imageUrl": ref, "nodeConfig": map[string]string{"type": "image"}},
		})
		info := postChart(t, ts, string(body))

		res := mustGet(t, ts.URL+"/api/charts/"+info.ID+"/svg")
		svg, _ := io.ReadAll(res.Body)
		res.Body.Close()
		if strings.Contains(string(svg), base64.StdEncoding.EncodeToString(contents)) {
			t.Errorf("imageUrl %q: served SVG embeds the referenced bytes", ref)
		}
		if !strings.Contains(string(svg), "image-placeholder") {
			t.Errorf("imageUrl %q: expected a placeholder", ref)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("internal server was fetched %d times", hits.Load())
	}
}

func TestServeEvictsCharts(t *testing.T) {
	srv, ts, pinned := newTestServer(t)
	now := time.Unix(1_700_000_000, 0)
	srv.now = func() time.Time { return now }
	srv.limits = serverLimits{MaxCharts: 2, IdleTTL: time.Minute}
	const body = `{"tree": {"value": "root"}}`

	a := postChart(t, ts, body)
	b := postChart(t, ts, body)
	mustGet(t, ts.URL+"/api/charts/"+a.ID).Body.Close() // a becomes most recent
	c := postChart(t, ts, body)

	status := func(id string) int {
		res := mustGet(t, ts.URL+"/api/charts/"+id)
		res.Body.Close()
		return res.StatusCode
	}
	if got := status(b.ID); got != http.StatusNotFound {
		t.Errorf("least recently used chart status = %d, want 404", got)
	}
	for _, id := range []string{a.ID, c.ID, pinned} {
		if got := status(id); got != http.StatusOK {
			t.Errorf("chart %s status = %d, want 200", id, got)
		}
	}

	now = now.Add(2 * time.Minute)
	srv.sweep()
	for _, id := range []string{a.ID, c.ID} {
		if got := status(id); got != http.StatusNotFound {
			t.Errorf("idle chart %s status = %d, want 404", id, got)
		}
	}
	if got := status(pinned); got != http.StatusOK {
		t.Errorf("pinned chart status = %d after sweep, want 200", got)
	}

	srv.mu.Lock()
	hosted, queued := len(srv.charts), srv.lru.Len()
	srv.mu.Unlock()
	if hosted != 1 || queued != 0 {
		t.Errorf("hosted = %d, queued = %d; want 1, 0", hosted, queued)
	}
}

func TestServeDelete(t *testing.T) {
	_, ts, pinned := newTestServer(t)
	info := postChart(t, ts, `{"tree": {"value": "root"}}`)

	del := func(id string) *http.Response {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/charts/"+id, nil)
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return res
	}
	if res := del(info.ID); res.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", res.StatusCode)
	}
	if res := del(info.ID); res.StatusCode != http.StatusNotFound {
		t.Errorf("second DELETE status = %d, want 404", res.StatusCode)
	}
	if res := del(pinned); res.StatusCode != http.StatusBadRequest {
		t.Errorf("DELETE pinned status = %d, want 400", res.StatusCode)
	}
}
