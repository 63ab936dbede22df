package files

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Extension is the file extension of every document.
	Extension = ".html"

	UntitledName  = "Untitled"
	NewFolderName = "New Folder"
)

var (
	forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	numberedSuffix = regexp.MustCompile(`^(.*)-(\d{2,})$`)
)

// SanitizeFileName removes characters no file system accepts
// Examples:
//
//	"Notes: Q1/Q2" → "Notes Q1Q2"
//	"  draft?  "   → "draft"
func SanitizeFileName(name string) string {
	return strings.TrimSpace(forbiddenChars.ReplaceAllString(name, ""))
}

// FileName converts a display name or title into a document file name.
// Names that already carry the extension are returned unchanged.
// Examples:
//
//	"My Notes"  → "My-Notes.html"
//	"???"       → "Untitled.html"
func FileName(displayName string) string {
	if strings.HasSuffix(strings.ToLower(displayName), Extension) {
		return displayName
	}

	safe := SanitizeFileName(displayName)
	if safe == "" {
		safe = UntitledName
	}
	return whitespaceRun.ReplaceAllString(safe, "-") + Extension
}

// DisplayName converts a file name back into the name shown to users.
// Folders are returned as-is.
// Examples:
//
//	"My-Notes.html"    → "My Notes"
//	"My-Notes-03.html" → "My-Notes 3"
//	"Untitled-01.html" → "Untitled 1"
func DisplayName(fileName string) string {
	if !strings.HasSuffix(fileName, Extension) {
		return fileName
	}

	name := strings.TrimSuffix(fileName, Extension)
	if strings.TrimSpace(name) == "" {
		return UntitledName
	}

	if m := numberedSuffix.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[2])
		if strings.TrimSpace(m[1]) == "" {
			return fmt.Sprintf("%s %d", UntitledName, n)
		}
		return fmt.Sprintf("%s %d", m[1], n)
	}

	return strings.ReplaceAll(name, "-", " ")
}

// numbered formats the n-th collision variant of a base name.
func numbered(base string, n int) string {
	return fmt.Sprintf("%s-%02d", base, n)
}

// nextNumber returns one past the highest number used by names matching
// base or base-NN (with the given suffix). The bare base counts as 0. When
// nothing matches it returns -1.
func nextNumber(names []string, base, suffix string) int {
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(base) + `(?:-(\d+))?` + regexp.QuoteMeta(suffix) + `$`)

	highest := -1
	for _, name := range names {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		n := 0
		if m[1] != "" {
			n, _ = strconv.Atoi(m[1])
		}
		highest = max(highest, n)
	}
	if highest < 0 {
		return -1
	}
	return highest + 1
}
