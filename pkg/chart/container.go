package chart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Container receives every rendered document.
type Container interface {
	Attach(doc []byte) error
}

// ContainerFunc adapts a function to [Container].
type ContainerFunc func(doc []byte) error

// Attach implements Container.
func (f ContainerFunc) Attach(doc []byte) error { return f(doc) }

// WriterContainer writes each document to W.
type WriterContainer struct {
	W io.Writer
}

// Attach implements Container.
func (c *WriterContainer) Attach(doc []byte) error {
	if c.W == nil {
		return fmt.Errorf("writer container: nil writer")
	}
	_, err := c.W.Write(doc)
	return err
}

// FileContainer replaces the file at Path with each document. Writes go
// through a temporary file in the same directory so readers never see a
// partial document.
type FileContainer struct {
	Path string
}

// Attach implements Container.
func (c *FileContainer) Attach(doc []byte) error {
	if c.Path == "" {
		return fmt.Errorf("file container: empty path")
	}
	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.Path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.Path)
}

// MemoryContainer keeps the latest document in memory.
type MemoryContainer struct {
	mu       sync.RWMutex
	doc      []byte
	attaches int
}

// Attach implements Container.
func (c *MemoryContainer) Attach(doc []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = bytes.Clone(doc)
	c.attaches++
	return nil
}

// Document returns a copy of the latest document, or nil.
func (c *MemoryContainer) Document() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return bytes.Clone(c.doc)
}

// Attaches returns how many documents have been attached.
func (c *MemoryContainer) Attaches() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attaches
}
