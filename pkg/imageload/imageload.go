// Package imageload fetches the pictures of image nodes.
//
// Loading is best-effort and runs alongside layout: [Loader.Start] begins
// every fetch in the background and returns a [Pending] that the renderer
// joins right before drawing. A reference that cannot be loaded is marked
// [StatusFailed] and its node is drawn with a placeholder; it never fails
// the render.
//
// References may be http(s) URLs, data URIs, or paths relative to the
// loader's base directory. A loader serving untrusted input denies file
// references and fetches through a client restricted to public addresses.
package imageload

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/errors"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/normalize"
	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// Status is the load state of one reference.
type Status int

const (
	// StatusUnknown means no load was attempted.
	StatusUnknown Status = iota
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Image is the outcome of loading one reference.
type Image struct {
	URL    string
	Data   []byte
	MIME   string
	Status Status
	Err    error
}

// Set holds the loaded images of one render. A nil Set reports every
// reference as [StatusUnknown].
type Set struct {
	images map[string]Image
}

// Lookup returns the image loaded for ref.
func (s *Set) Lookup(ref string) Image {
	if s == nil {
		return Image{URL: ref}
	}
	if img, ok := s.images[ref]; ok {
		return img
	}
	return Image{URL: ref}
}

// Covers reports whether every reference in refs has an entry in s.
func (s *Set) Covers(refs []string) bool {
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if s == nil {
			return false
		}
		if _, ok := s.images[ref]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of references in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.images)
}

// Failed returns the references that could not be loaded, sorted.
func (s *Set) Failed() []string {
	if s == nil {
		return nil
	}
	var out []string
	for ref, img := range s.images {
		if img.Status == StatusFailed {
			out = append(out, ref)
		}
	}
	slices.Sort(out)
	return out
}

// Defaults applied by [Loader] for zero fields.
const (
	DefaultConcurrency = 8
	DefaultAttempts    = 3
	DefaultTimeout     = 10 * time.Second
	retryDelay         = 200 * time.Millisecond
)

// Loader loads image references. The zero value is usable.
type Loader struct {
	// Client performs remote fetches; nil uses httputil.DefaultClient.
	Client *http.Client
	// BaseDir resolves relative paths; empty means the working directory.
	BaseDir string
	// DenyFiles fails every file reference. Hosts rendering untrusted
	// trees set it, together with a [httputil.NewPublicClient] client.
	DenyFiles bool
	// Cache stores remote payloads between runs; nil disables caching.
	Cache *httputil.Cache
	// Logger receives per-reference debug output; nil discards it.
	Logger *log.Logger

	MaxBytes    int64
	Timeout     time.Duration
	Concurrency int
	Attempts    int
}

// Pending is an in-flight batch of loads.
type Pending struct {
	done chan struct{}
	set  *Set
}

// Wait blocks until every load of the batch has finished. A nil Pending
// returns a nil Set.
func (p *Pending) Wait() *Set {
	if p == nil {
		return nil
	}
	<-p.done
	return p.set
}

type cachedImage struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
}

// Start begins loading refs in the background. Duplicates and empty
// references are skipped. Failures are recorded per reference; one failing
// load never cancels the others.
func (l *Loader) Start(ctx context.Context, refs []string) *Pending {
	p := &Pending{done: make(chan struct{}), set: &Set{images: make(map[string]Image)}}
	refs = unique(refs)
	if len(refs) == 0 {
		close(p.done)
		return p
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(cmpOr(l.Concurrency, DefaultConcurrency))
	go func() {
		defer close(p.done)
		for _, ref := range refs {
			g.Go(func() error {
				img := l.load(ctx, ref)
				mu.Lock()
				p.set.images[ref] = img
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()
	return p
}

// Load is Start followed by Wait.
func (l *Loader) Load(ctx context.Context, refs []string) *Set {
	return l.Start(ctx, refs).Wait()
}

func (l *Loader) load(ctx context.Context, ref string) Image {
	start := time.Now()
	data, mt, err := l.fetch(ctx, ref)
	if err == nil && !strings.HasPrefix(mt, "image/") {
		err = fmt.Errorf("not an image: %s", mt)
	}
	if err != nil {
		l.logger().Debug("image load failed", "ref", shorten(ref), "error", err)
		return Image{URL: ref, Status: StatusFailed, Err: err}
	}
	l.logger().Debug("image loaded", "ref", shorten(ref), "bytes", len(data), "duration", time.Since(start))
	return Image{URL: ref, Data: data, MIME: mt, Status: StatusLoaded}
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, string, error) {
	if err := errors.ValidateImageURL(ref); err != nil {
		return nil, "", err
	}
	switch {
	case strings.HasPrefix(ref, "data:"):
		return decodeDataURI(ref)
	case isRemote(ref):
		return l.fetchRemote(ctx, ref)
	case l.DenyFiles:
		return nil, "", ErrFilesDenied
	default:
		return l.readFile(ref)
	}
}

// ErrFilesDenied is the load error of a file reference when
// [Loader.DenyFiles] is set.
var ErrFilesDenied = stderrors.New("file image references are not allowed")

func (l *Loader) fetchRemote(ctx context.Context, ref string) ([]byte, string, error) {
	var images *httputil.Cache
	if l.Cache != nil {
		images = l.Cache.Namespace("img:")
		var c cachedImage
		if ok, _ := images.Get(ref, &c); ok {
			return c.Data, c.MIME, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cmpOr(l.Timeout, DefaultTimeout))
	defer cancel()

	var (
		data []byte
		mt   string
	)
	err := httputil.Retry(ctx, cmpOr(l.Attempts, DefaultAttempts), retryDelay, func() error {
		var err error
		data, mt, err = httputil.Fetch(ctx, l.Client, ref, l.MaxBytes)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if images != nil {
		if err := images.Set(ref, cachedImage{Data: data, MIME: mt}); err != nil {
			l.logger().Debug("image cache write failed", "error", err)
		}
	}
	return data, mt, nil
}

func (l *Loader) readFile(ref string) ([]byte, string, error) {
	path := ref
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	limit := l.MaxBytes
	if limit <= 0 {
		limit = httputil.DefaultMaxBytes
	}
	if info.Size() > limit {
		return nil, "", fmt.Errorf("%s exceeds %d bytes", path, limit)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, httputil.MediaType(mime.TypeByExtension(filepath.Ext(path)), data), nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return discard
	}
	return l.Logger
}

// decodeDataURI decodes "data:[<media type>][;base64],<data>".
func decodeDataURI(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	isBase64 := strings.HasSuffix(meta, ";base64")
	meta = strings.TrimSuffix(meta, ";base64")
	mt, _, _ := strings.Cut(meta, ";")
	if mt == "" {
		mt = "text/plain"
	}

	var (
		data []byte
		err  error
	)
	if isBase64 {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(payload)
		}
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, "", fmt.Errorf("decode data URI: %w", err)
	}
	return data, mt, nil
}

// URLs returns the image references of every image node under root, in
// depth-first order without duplicates.
func URLs(root *normalize.Node) []string {
	if root == nil {
		return nil
	}
	var refs []string
	root.Walk(func(n *normalize.Node) {
		if n.Style.Type == style.ShapeImage && n.Source.ImageURL != "" {
			refs = append(refs, n.Source.ImageURL)
		}
	})
	return unique(refs)
}

func unique(refs []string) []string {
	seen := make(map[string]bool, len(refs))
	out := refs[:0:0]
	for _, r := range refs {
		if r != "" && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func shorten(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}

func cmpOr[T int | int64 | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}
	return def
}

var discard = log.NewWithOptions(io.Discard, log.Options{})
