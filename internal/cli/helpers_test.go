package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/style"
)

// sampleTreeJSON is A → [B (collapsible) → [D], C].
const sampleTreeJSON = `{
  "value": "A",
  "child": [
    {
      "value": "B",
      "description": "Details that only show when expanded.",
      "nodeConfig": {"type": "collapsible-node"},
      "child": [{"value": "D"}]
    },
    {"value": "C"}
  ]
}`

func writeTree(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "org.json")
	if err := os.WriteFile(path, []byte(sampleTreeJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func defaultConfig() style.Config {
	var cfg style.Config
	cfg.SetDefaults()
	return cfg
}

// pngBytes is a PNG signature; enough for the loader to accept a file.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

// writeImageTree writes a one-node image tree referencing logo.png next to
// it and returns the tree path.
func writeImageTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "logo.json")
	doc := `{"value": "Acme", "imageUrl": "logo.png", "nodeConfig": {"type": "image"}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
