// Package codebase tracks the Java sources of a workspace and builds
// universes from their current contents.
package codebase

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/freebuilder/java"
)

type Codebase struct {
	mu    sync.RWMutex
	roots []string
	files map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	// ParseErr is the *java.SyntaxError of the last update, if any.
	ParseErr error
}

func New(roots ...string) *Codebase {
	return &Codebase{
		roots: roots,
		files: make(map[string]*FileInfo),
	}
}

func (c *Codebase) Roots() []string {
	return c.roots
}

// ScanAll reads every .java file below the roots. A root may also name a
// single file. Hidden directories are skipped.
func (c *Codebase) ScanAll() error {
	for _, root := range c.roots {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if path != root && strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".java" {
				return c.ScanFile(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("scan %s: %w", root, err)
		}
	}
	return nil
}

func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return c.UpdateFile(path, content)
}

// UpdateFile replaces the content of path. Syntax errors are recorded on
// the FileInfo rather than returned.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	_, parseErr := java.ParseFile(path, content)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{
		Path:     path,
		Content:  content,
		ParseErr: parseErr,
	}
	return nil
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the tracked files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Universe parses every tracked file afresh, in path order, and returns the
// sealed result. Files with syntax errors contribute the declarations that
// could be recovered.
func (c *Codebase) Universe() (*java.Universe, error) {
	u := java.NewUniverse()
	for _, path := range c.Paths() {
		info := c.GetFile(path)
		if info == nil {
			continue
		}
		file, _ := java.ParseFile(path, info.Content)
		if err := u.Add(file); err != nil {
			return nil, err
		}
	}
	u.Seal()
	return u, nil
}

// SyntaxErrors returns the recorded parse failures in path order.
func (c *Codebase) SyntaxErrors() []*java.SyntaxError {
	var errs []*java.SyntaxError
	for _, path := range c.Paths() {
		info := c.GetFile(path)
		if info == nil || info.ParseErr == nil {
			continue
		}
		if se, ok := info.ParseErr.(*java.SyntaxError); ok {
			errs = append(errs, se)
		}
	}
	return errs
}
