package imageload

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/measure"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/tree"
)

var png = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func imageServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(png)
		case "/page.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoader(t *testing.T) {
	srv := imageServer(t, nil)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "local.png"), png, 0o644); err != nil {
		t.Fatal(err)
	}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	l := &Loader{Client: srv.Client(), BaseDir: dir, Attempts: 1}
	set := l.Load(context.Background(), []string{
		srv.URL + "/ok.png",
		srv.URL + "/missing.png",
		srv.URL + "/page.html",
		"local.png",
		"absent.png",
		dataURI,
		"ftp://example.com/a.png",
	})

	tests := []struct {
		ref    string
		status Status
		mime   string
	}{
		{srv.URL + "/ok.png", StatusLoaded, "image/png"},
		{srv.URL + "/missing.png", StatusFailed, ""},
		{srv.URL + "/page.html", StatusFailed, ""},
		{"local.png", StatusLoaded, "image/png"},
		{"absent.png", StatusFailed, ""},
		{dataURI, StatusLoaded, "image/png"},
		{"ftp://example.com/a.png", StatusFailed, ""},
		{"never-requested.png", StatusUnknown, ""},
	}
	for _, tt := range tests {
		img := set.Lookup(tt.ref)
		if img.Status != tt.status {
			t.Errorf("Lookup(%.40q).Status = %v, want %v (err %v)", tt.ref, img.Status, tt.status, img.Err)
		}
		if img.MIME != tt.mime {
			t.Errorf("Lookup(%.40q).MIME = %q, want %q", tt.ref, img.MIME, tt.mime)
		}
		if tt.status == StatusFailed && img.Err == nil {
			t.Errorf("Lookup(%.40q) failed without an error", tt.ref)
		}
	}
	if got := len(set.Failed()); got != 4 {
		t.Errorf("len(Failed()) = %d, want 4", got)
	}
}

func TestLoader_Deduplicates(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	l := &Loader{Client: srv.Client()}
	ref := srv.URL + "/ok.png"

	set := l.Load(context.Background(), []string{ref, ref, "", ref})
	if set.Len() != 1 || hits.Load() != 1 {
		t.Errorf("Len() = %d, hits = %d; want 1, 1", set.Len(), hits.Load())
	}
}

func TestLoader_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	ref := srv.URL + "/ok.png"

	for range 2 {
		l := &Loader{Client: srv.Client(), Cache: cache}
		if img := l.Load(context.Background(), []string{ref}).Lookup(ref); img.Status != StatusLoaded {
			t.Fatalf("status = %v (%v)", img.Status, img.Err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestLoader_Untrusted(t *testing.T) {
	var hits atomic.Int32
	srv := imageServer(t, &hits)
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.png")
	if err := os.WriteFile(secret, png, 0o644); err != nil {
		t.Fatal(err)
	}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	l := &Loader{Client: httputil.NewPublicClient(time.Second), BaseDir: dir, DenyFiles: true, Attempts: 1}
	set := l.Load(context.Background(), []string{
		secret,
		"secret.png",
		"../" + filepath.Base(dir) + "/secret.png",
		srv.URL + "/ok.png",
		dataURI,
	})

	for _, ref := range []string{secret, "secret.png", "../" + filepath.Base(dir) + "/secret.png"} {
		img := set.Lookup(ref)
		if img.Status != StatusFailed || !stderrors.Is(img.Err, ErrFilesDenied) {
			t.Errorf("Lookup(%q) = %v (%v), want failed with ErrFilesDenied", ref, img.Status, img.Err)
		}
	}
	if img := set.Lookup(srv.URL + "/ok.png"); img.Status != StatusFailed || !stderrors.Is(img.Err, httputil.ErrNonPublicAddress) {
		t.Errorf("loopback fetch = %v (%v), want refused", img.Status, img.Err)
	}
	if hits.Load() != 0 {
		t.Errorf("loopback server hit %d times, want 0", hits.Load())
	}
	if img := set.Lookup(dataURI); img.Status != StatusLoaded {
		t.Errorf("data URI status = %v (%v), want loaded", img.Status, img.Err)
	}
}

func TestPendingOverlapsCaller(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	l := &Loader{Client: srv.Client()}
	p := l.Start(context.Background(), []string{srv.URL + "/slow.png"})
	// Start must return before the fetch completes.
	close(release)
	if img := p.Wait().Lookup(srv.URL + "/slow.png"); img.Status != StatusLoaded {
		t.Errorf("status = %v (%v)", img.Status, img.Err)
	}
}

func TestNilSetAndPending(t *testing.T) {
	var s *Set
	if s.Lookup("x").Status != StatusUnknown || s.Len() != 0 || s.Failed() != nil {
		t.Error("nil Set should report nothing loaded")
	}
	var p *Pending
	if p.Wait() != nil {
		t.Error("nil Pending should return nil Set")
	}
	if (&Loader{}).Load(context.Background(), nil).Len() != 0 {
		t.Error("empty batch should be empty")
	}
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		mime    string
		wantErr bool
	}{
		{"data:image/svg+xml,%3Csvg%2F%3E", "<svg/>", "image/svg+xml", false},
		{"data:image/gif;base64,R0lGODlh", "GIF89a", "image/gif", false},
		{"data:image/gif;base64,R0lGODlh==x", "", "", true},
		{"data:image/png", "", "", true},
	}
	for _, tt := range tests {
		data, mt, err := decodeDataURI(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("decodeDataURI(%q) err = %v", tt.in, err)
			continue
		}
		if string(data) != tt.want || mt != tt.mime {
			t.Errorf("decodeDataURI(%q) = %q, %q", tt.in, data, mt)
		}
	}
}

func TestURLs(t *testing.T) {
	img := &style.NodeConfig{Type: style.ShapeImage}
	root := &tree.Node{Value: "root", Children: []*tree.Node{
		{Value: "a", ImageURL: "a.png", NodeConfig: img},
		{Value: "b", ImageURL: "b.png"},
		{Value: "c", ImageURL: "a.png", NodeConfig: img, Children: []*tree.Node{
			{Value: "d", ImageURL: "d.png", NodeConfig: img},
			{Value: "e", NodeConfig: img},
		}},
	}}
	n, err := normalize.Tree(root, style.Config{}, measure.Approx{})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := URLs(n), []string{"a.png", "d.png"}; !slices.Equal(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}
}
