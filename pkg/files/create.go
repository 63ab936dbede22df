package files

import (
	"fmt"
	"os"
	"path"
	"strings"
)

// CreateUntitled writes a new empty document in dir and returns its path.
// The first one is Untitled.html, later ones Untitled-01.html and on.
func (s *Store) CreateUntitled(dir string, withTitle bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := Clean(dir)
	if err != nil {
		return "", err
	}
	names, err := s.names(dir)
	if err != nil {
		return "", err
	}

	name := UntitledName + Extension
	if n := nextNumber(names, UntitledName, Extension); n > 0 {
		name = numbered(UntitledName, n) + Extension
	}

	content := EmptyDocument
	if withTitle {
		content = TitledDocument
	}

	rel := join(dir, name)
	if err := s.Write(rel, content); err != nil {
		return "", err
	}
	return rel, nil
}

// CreateFolder makes a new folder under parent and returns its path. The
// first one is "New Folder", later ones "New Folder-01" and on.
func (s *Store) CreateFolder(parent string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, err := Clean(parent)
	if err != nil {
		return "", err
	}
	names, err := s.names(parent)
	if err != nil {
		return "", err
	}

	name := NewFolderName
	if n := nextNumber(names, NewFolderName, ""); n > 0 {
		name = numbered(NewFolderName, n)
	}

	rel := join(parent, name)
	abs, err := s.Abs(rel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder %s: %w", rel, err)
	}
	return rel, nil
}

// UniqueFileName returns a free document path in dir for a display name:
// the plain file name when it is unused, else the next numbered variant.
func (s *Store) UniqueFileName(dir, displayName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uniqueFileName(dir, displayName, "")
}

func (s *Store) uniqueFileName(dir, displayName, self string) (string, error) {
	dir, err := Clean(dir)
	if err != nil {
		return "", err
	}

	name := FileName(displayName)
	rel := join(dir, name)
	if rel == self || !s.Exists(rel) {
		return rel, nil
	}

	names, err := s.names(dir)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(name, Extension)
	n := nextNumber(names, base, Extension)
	if n < 1 {
		n = 1
	}
	return join(dir, numbered(base, n)+Extension), nil
}

// CreateDocument writes content under a free name derived from
// displayName and returns the path used.
func (s *Store) CreateDocument(dir, displayName, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rel, err := s.uniqueFileName(dir, displayName, "")
	if err != nil {
		return "", err
	}
	if err := s.Write(rel, content); err != nil {
		return "", err
	}
	return rel, nil
}

// Rename gives the document or folder at oldPath a new display name within
// the same folder and returns the new path. A document whose new name is
// taken gets the next numbered variant; a folder gets ErrAlreadyExists.
func (s *Store) Rename(oldPath, newDisplayName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldPath, err := Clean(oldPath)
	if err != nil {
		return "", err
	}
	if oldPath == "" {
		return "", pathError("rename", oldPath, ErrInvalidPath)
	}
	if strings.TrimSpace(newDisplayName) == "" {
		return "", fmt.Errorf("new name cannot be empty")
	}
	if !s.Exists(oldPath) {
		return "", pathError("rename", oldPath, ErrNotFound)
	}

	dir := path.Dir(oldPath)
	if dir == "." {
		dir = ""
	}

	var newPath string
	if s.IsDir(oldPath) {
		name := SanitizeFileName(newDisplayName)
		if name == "" {
			return "", pathError("rename", newDisplayName, ErrInvalidPath)
		}
		newPath = join(dir, name)
		if newPath != oldPath && s.Exists(newPath) {
			return "", pathError("rename", newPath, ErrAlreadyExists)
		}
	} else {
		newPath, err = s.uniqueFileName(dir, newDisplayName, oldPath)
		if err != nil {
			return "", err
		}
	}

	if newPath == oldPath {
		return oldPath, nil
	}
	if err := s.Move(oldPath, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}
