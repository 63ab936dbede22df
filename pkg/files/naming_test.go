package files

import (
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Notes", want: "Notes"},
		{name: "forbidden characters", input: `Notes: Q1/Q2 <draft>?`, want: "Notes Q1Q2 draft"},
		{name: "control characters", input: "a\x00b\x1fc", want: "abc"},
		{name: "trimmed", input: "  spaced  ", want: "spaced"},
		{name: "only forbidden", input: `<>:"|?*`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My Notes", "My-Notes.html"},
		{"My   Spaced   Notes", "My-Spaced-Notes.html"},
		{"Already.html", "Already.html"},
		{"???", "Untitled.html"},
		{"", "Untitled.html"},
		{"Case Kept", "Case-Kept.html"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FileName(tt.input); got != tt.want {
				t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"My-Notes.html", "My Notes"},
		{"My-Notes-03.html", "My-Notes 3"},
		{"Untitled.html", "Untitled"},
		{"Untitled-01.html", "Untitled 1"},
		{"-07.html", "Untitled 7"},
		{"Version-2.html", "Version 2"},
		{".html", "Untitled"},
		{"New Folder", "New Folder"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNextNumber(t *testing.T) {
	names := []string{"Untitled.html", "Untitled-03.html", "untitled-01.html", "Other.html"}
	if got := nextNumber(names, "Untitled", ".html"); got != 4 {
		t.Errorf("nextNumber() = %d, want 4", got)
	}
	if got := nextNumber([]string{"Other.html"}, "Untitled", ".html"); got != -1 {
		t.Errorf("nextNumber() with no match = %d, want -1", got)
	}
	if got := nextNumber([]string{"New Folder"}, "New Folder", ""); got != 1 {
		t.Errorf("nextNumber() for folders = %d, want 1", got)
	}
}
