package composer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/intent"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

func sampleLines() []models.Line {
	return []models.Line{
		{ID: "a", Number: 1, Content: "Title", Type: models.LineParagraph},
		{ID: "b", Number: 2, Content: "First paragraph.", Type: models.LineParagraph},
		{ID: "c", Number: 3, Content: "Second paragraph.", Type: models.LineParagraph},
		{ID: "d", Number: 4, Content: "Closing words.", Type: models.LineParagraph},
	}
}

func numbers(lines []models.Line) []int {
	out := make([]int, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Number)
	}
	return out
}

func TestTargetLines(t *testing.T) {
	two := 2
	tests := []struct {
		name     string
		intent   intent.Intent
		selected string
		want     []int
	}{
		{
			name:     "selection wins over line numbers",
			intent:   intent.Intent{Operation: models.OpInlineEdit, LineNumbers: []int{4}},
			selected: "First paragraph.\nSecond paragraph.",
			want:     []int{2, 3},
		},
		{
			name:   "explicit line numbers",
			intent: intent.Intent{Operation: models.OpMultiLineEdit, LineNumbers: []int{1, 3}},
			want:   []int{1, 3},
		},
		{
			name:   "continuation anchor keeps lines up to it",
			intent: intent.Intent{Operation: models.OpContinueText, AfterLine: &two},
			want:   []int{1, 2},
		},
		{
			name:   "anchor ignored for other operations",
			intent: intent.Intent{Operation: models.OpSummarizeText, AfterLine: &two},
			want:   []int{1, 2, 3, 4},
		},
		{
			name:   "everything by default",
			intent: intent.Intent{Operation: models.OpAnalyzeText},
			want:   []int{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetLines(tt.intent, sampleLines(), tt.selected)
			assert.Equal(t, tt.want, numbers(got))
		})
	}
}

func TestCompose(t *testing.T) {
	in := Input{
		Message:      "edit line 2 to be formal",
		Filename:     "notes.html",
		FullContent:  "Title\nFirst paragraph.",
		SelectedText: "",
		Lines:        sampleLines(),
		Intent:       intent.Parse("edit line 2 to be formal"),
	}

	p, err := Compose(in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.User, "Request: \"edit line 2 to be formal\"\n\nFilename: notes.html\n\nDocument Content:\nTitle\nFirst paragraph.\n\n"))
	assert.NotContains(t, p.User, "Selected Text:")

	idx := strings.Index(p.User, "Lines to Consider:\n")
	require.GreaterOrEqual(t, idx, 0)
	var lines []models.Line
	require.NoError(t, json.Unmarshal([]byte(p.User[idx+len("Lines to Consider:\n"):]), &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].ID)

	assert.Contains(t, p.System, `"operation": "inline_edit"`)
	assert.Contains(t, p.System, `working on "notes.html"`)
}

func TestComposeSelectionAndCount(t *testing.T) {
	it := intent.Parse("add 3 lines after line 2")
	p, err := Compose(Input{
		Message:      "add 3 lines after line 2",
		Filename:     "f.html",
		SelectedText: "Second paragraph.",
		Lines:        sampleLines(),
		Intent:       it,
	})
	require.NoError(t, err)
	assert.Contains(t, p.User, "Selected Text:\nSecond paragraph.\n\n")
	assert.Contains(t, p.User, "Requested Lines: 3\n\n")
}

func TestComposeEmptyTargetsEncodeAsArray(t *testing.T) {
	p, err := Compose(Input{
		Message: "summarize",
		Intent:  intent.Intent{Operation: models.OpSummarizeText},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.User, "Lines to Consider:\n[]"))
}

func TestSystemPrompt(t *testing.T) {
	for _, op := range models.Operations {
		t.Run(string(op), func(t *testing.T) {
			p := SystemPrompt(op, "doc.html", false)
			assert.True(t, strings.HasPrefix(p, `You are a precise document editor working on "doc.html". `))
			assert.Contains(t, p, `"operation": "`+string(op)+`"`)
			assert.Contains(t, p, "Rules:\n1. ")
			assert.Contains(t, p, responseFormat)
		})
	}
}

func TestSystemPromptAnalyzeVariants(t *testing.T) {
	file := SystemPrompt(models.OpAnalyzeText, "doc.html", true)
	selection := SystemPrompt(models.OpAnalyzeText, "doc.html", false)

	assert.Contains(t, file, "this file's content and purpose")
	assert.Contains(t, selection, "explain the selected content")
	assert.NotEqual(t, file, selection)
}

func TestComposeEnhance(t *testing.T) {
	p := ComposeEnhance(EnhanceInput{
		SelectedText: "teh cat",
		Prompt:       "fix typos",
		Context:      "a story",
		Filename:     "story.html",
	})
	assert.Equal(t, enhanceSystemPrompt, p.System)
	assert.Equal(t, "Selected text: \"teh cat\"\n\nEnhancement prompt: \"fix typos\"\nContext: a story\nFile: story.html", p.User)

	bare := ComposeEnhance(EnhanceInput{SelectedText: "x", Prompt: "y"})
	assert.Equal(t, "Selected text: \"x\"\n\nEnhancement prompt: \"y\"", bare.User)
}
