package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads a tree from a .json or .toml file.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
}

// Parse decodes a tree in the given format ("json" or "toml").
//
// A JSON document may be either the root node itself or an array holding
// a single root, which is how tree data is commonly published.
func Parse(data []byte, format string) (*Node, error) {
	var root Node
	switch strings.ToLower(format) {
	case "json":
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var roots []*Node
			if err := json.Unmarshal(trimmed, &roots); err != nil {
				return nil, fmt.Errorf("decode json tree: %w", err)
			}
			if len(roots) != 1 || roots[0] == nil {
				return nil, fmt.Errorf("decode json tree: want exactly one root, got %d", len(roots))
			}
			return roots[0], nil
		}
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("decode json tree: %w", err)
		}
	case "toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
			return nil, fmt.Errorf("decode toml tree: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported tree format %q (want json or toml)", format)
	}
	return &root, nil
}

// Marshal encodes a tree as indented JSON.
func Marshal(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}
