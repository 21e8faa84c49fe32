package httputil_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SujoyGhosh-scott/treecharts-monorepo-sub001/pkg/httputil"
)

func ExampleCache() {
	dir := filepath.Join(os.TempDir(), "treecharts-example")
	cache, err := httputil.NewCache(dir, 24*time.Hour)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer os.RemoveAll(dir)

	images := cache.Namespace("img:")
	_ = images.Set("https://example.com/a.png", []byte("payload"))

	var data []byte
	if ok, err := images.Get("https://example.com/a.png", &data); ok && err == nil {
		fmt.Println(string(data))
	}
	// Output:
	// payload
}

func ExampleCache_miss() {
	dir := filepath.Join(os.TempDir(), "treecharts-example-miss")
	cache, _ := httputil.NewCache(dir, time.Hour)
	defer os.RemoveAll(dir)

	var result []byte
	ok, err := cache.Get("nonexistent", &result)
	fmt.Println("Found:", ok)
	fmt.Println("Error:", err)
	// Output:
	// Found: false
	// Error: <nil>
}

func ExampleMediaType() {
	fmt.Println(httputil.MediaType("image/png; charset=binary", nil))
	fmt.Println(httputil.MediaType("", []byte("GIF89a....")))
	// Output:
	// image/png
	// image/gif
}
