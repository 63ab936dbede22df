// Package files is the document store: HTML documents and folders kept
// under a single private root directory. Every path handed to the store is
// relative to that root and may not leave it.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

const (
	// DefaultRoot is the store root used when settings name none.
	DefaultRoot = "ai-editor-files"

	// EmptyDocument is the content of a new untitled document.
	EmptyDocument = "<p></p>"

	// TitledDocument is the content of a new document with a title slot.
	TitledDocument = "<h1></h1><p></p>"
)

// Store reads and writes documents under a root directory.
type Store struct {
	root string
	// mu serializes name allocation so two creates cannot pick the same name.
	mu sync.Mutex
}

// NewStore opens the store at root, creating the directory if needed.
func NewStore(root string) (*Store, error) {
	if root == "" {
		root = DefaultRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store root %s: %w", abs, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// Clean normalizes a store-relative path to forward slashes. It rejects
// absolute paths and paths that climb out of the root.
func Clean(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if strings.HasPrefix(rel, "/") {
		return "", pathError("resolve", rel, ErrInvalidPath)
	}
	cleaned := path.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", pathError("resolve", rel, ErrInvalidPath)
	}
	if cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

// Abs resolves a store-relative path to an absolute one.
func (s *Store) Abs(rel string) (string, error) {
	cleaned, err := Clean(rel)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// Rel converts an absolute path under the root back to a store path.
func (s *Store) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		return "", pathError("resolve", abs, ErrInvalidPath)
	}
	return Clean(filepath.ToSlash(rel))
}

// Exists reports whether the path exists.
func (s *Store) Exists(rel string) bool {
	abs, err := s.Abs(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// IsDir reports whether the path is an existing folder.
func (s *Store) IsDir(rel string) bool {
	abs, err := s.Abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.IsDir()
}

// Read returns the content of a document.
func (s *Store) Read(rel string) (string, error) {
	abs, err := s.Abs(rel)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", pathError("read", rel, ErrNotFound)
		}
		return "", fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return "", pathError("read", rel, ErrIsDirectory)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return string(data), nil
}

// Write stores content at the path, creating parent folders. The write
// goes through a temp file and a rename so readers never see a partial
// document.
func (s *Store) Write(rel, content string) error {
	abs, err := s.Abs(rel)
	if err != nil {
		return err
	}
	if abs == s.root {
		return pathError("write", rel, ErrIsDirectory)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save %s: %w", rel, err)
	}
	return nil
}

// Delete removes a document or a folder with everything in it.
func (s *Store) Delete(rel string) error {
	abs, err := s.Abs(rel)
	if err != nil {
		return err
	}
	if abs == s.root {
		return pathError("delete", rel, ErrInvalidPath)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pathError("delete", rel, ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("failed to delete %s: %w", rel, err)
	}
	return nil
}

// Move relocates src to dst. dst must not exist.
func (s *Store) Move(src, dst string) error {
	absSrc, err := s.Abs(src)
	if err != nil {
		return err
	}
	absDst, err := s.Abs(dst)
	if err != nil {
		return err
	}
	if absSrc == s.root || absDst == s.root {
		return pathError("move", src, ErrInvalidPath)
	}
	if absSrc == absDst {
		return nil
	}
	if strings.HasPrefix(absDst, absSrc+string(filepath.Separator)) {
		return pathError("move", dst, ErrInvalidPath)
	}

	if _, err := os.Stat(absSrc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pathError("move", src, ErrNotFound)
		}
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if _, err := os.Stat(absDst); err == nil {
		return pathError("move", dst, ErrAlreadyExists)
	}

	if err := os.MkdirAll(filepath.Dir(absDst), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}
	if err := os.Rename(absSrc, absDst); err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}

// List returns the tree under dir, folders first, then by display name.
func (s *Store) List(dir string) ([]models.FileItem, error) {
	abs, err := s.Abs(dir)
	if err != nil {
		return nil, err
	}
	if !s.IsDir(dir) {
		return nil, pathError("list", dir, ErrNotFound)
	}
	return s.list(abs)
}

func (s *Store) list(abs string) ([]models.FileItem, error) {
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", abs, err)
	}

	items := make([]models.FileItem, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		full := filepath.Join(abs, entry.Name())
		rel, err := s.Rel(full)
		if err != nil {
			continue
		}

		item := models.FileItem{
			Name:         entry.Name(),
			Path:         rel,
			DisplayName:  DisplayName(entry.Name()),
			LastModified: info.ModTime(),
			IsDirectory:  entry.IsDir(),
		}
		if entry.IsDir() {
			children, err := s.list(full)
			if err != nil {
				return nil, err
			}
			item.Children = children
		} else {
			item.Size = info.Size()
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDirectory != items[j].IsDirectory {
			return items[i].IsDirectory
		}
		a, b := strings.ToLower(items[i].DisplayName), strings.ToLower(items[j].DisplayName)
		if a != b {
			return a < b
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Documents returns the store paths of every document under dir, depth
// first in tree order.
func (s *Store) Documents(dir string) ([]string, error) {
	items, err := s.List(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	var walk func([]models.FileItem)
	walk = func(items []models.FileItem) {
		for _, item := range items {
			if item.IsDirectory {
				walk(item.Children)
			} else if strings.HasSuffix(item.Name, Extension) {
				out = append(out, item.Path)
			}
		}
	}
	walk(items)
	return out, nil
}

func (s *Store) names(dir string) ([]string, error) {
	abs, err := s.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
