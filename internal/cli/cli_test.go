package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

func withIO(t *testing.T, input string) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	oldIn, oldOut, oldErr := stdin, stdout, stderr
	t.Cleanup(func() {
		stdin, stdout, stderr = oldIn, oldOut, oldErr
		SetGlobalFlags(false, false, false)
	})
	var out, errOut bytes.Buffer
	SetIO(strings.NewReader(input), &out, &errOut)
	return &out, &errOut
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full word", input: "YES\n", want: true},
		{name: "no", input: "n\n", defaultYes: true, want: false},
		{name: "empty takes default", input: "\n", defaultYes: true, want: true},
		{name: "eof takes default", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := withIO(t, tt.input)
			got, err := Confirm("Delete?", tt.defaultYes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete?")
		})
	}
}

func TestConfirmSkipped(t *testing.T) {
	out, _ := withIO(t, "n\n")
	SetGlobalFlags(false, false, true)

	got, err := Confirm("Delete?", false)

	require.NoError(t, err)
	assert.True(t, got)
	assert.Empty(t, out.String())
}

func TestPrinters(t *testing.T) {
	out, errOut := withIO(t, "")
	SetGlobalFlags(false, true, false)

	PrintSuccess("saved %s", "a.html")
	PrintWarning("careful")

	assert.Equal(t, "OK: saved a.html\n", out.String())
	assert.Equal(t, "WARNING: careful\n", errOut.String())

	out.Reset()
	SetGlobalFlags(true, true, false)
	PrintInfo("hidden")
	assert.Empty(t, out.String())
}

func TestFormatLine(t *testing.T) {
	assert.Equal(t, "  1   Plain", FormatLine(models.Line{Number: 1, Content: "Plain"}))
	assert.Equal(t, "  2 * - Item", FormatLine(models.Line{
		Number: 2, Content: "Item", Type: models.LineListItem, AIEnhanced: true,
	}))
	assert.Equal(t, " 10   ## Title", FormatLine(models.Line{
		Number: 10, Content: "Title", Type: models.LineParagraph, Attrs: &models.LineAttrs{Level: 2},
	}))
}

func TestWriteLinesWraps(t *testing.T) {
	var buf bytes.Buffer
	WriteLines(&buf, []models.Line{{Number: 1, Content: "one two three four five six"}}, 20)

	rows := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Greater(t, len(rows), 1)
	for _, row := range rows[1:] {
		assert.True(t, strings.HasPrefix(row, "      "), row)
	}
}

func TestValidateLineRange(t *testing.T) {
	from, to, err := ValidateLineRange("2-4", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, from)
	assert.Equal(t, 4, to)

	from, to, err = ValidateLineRange("3", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, from)
	assert.Equal(t, 3, to)

	for _, bad := range []string{"", "x", "0", "4-2", "2-9"} {
		_, _, err := ValidateLineRange(bad, 5)
		assert.Error(t, err, bad)
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateOutputFormat("json"))
	assert.Error(t, ValidateOutputFormat("xml"))
	assert.NoError(t, ValidateDocumentName("Meeting notes"))
	assert.Error(t, ValidateDocumentName("../escape"))
	assert.Error(t, ValidateDocumentName("  "))
	assert.NoError(t, ValidateSpacing(models.SpacingNone))
	assert.Error(t, ValidateSpacing("double"))
	assert.NoError(t, ValidateModel("gpt-4o", []string{"gpt-4o", "gpt-4o-mini"}))
	assert.Error(t, ValidateModel("gpt-2", []string{"gpt-4o"}))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "-", FormatAge(time.Time{}, now))
	assert.Equal(t, "just now", FormatAge(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", FormatAge(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", FormatAge(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", FormatAge(now.Add(-48*time.Hour), now))
	assert.Equal(t, "2024-01-01", FormatAge(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcd...", TruncateString("abcdefghij", 7))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestOutputResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputResults(&buf, "json", map[string]int{"lines": 3}))
	assert.JSONEq(t, `{"lines":3}`, buf.String())

	buf.Reset()
	require.NoError(t, OutputResults(&buf, "yaml", map[string]int{"lines": 3}))
	assert.Equal(t, "lines: 3\n", buf.String())

	assert.Error(t, OutputResults(&buf, "xml", nil))
}

func TestResolveDocument(t *testing.T) {
	store, err := files.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Write("notes/Plan.html", "<p>a</p>"))
	require.NoError(t, store.Write("Ideas.html", "<p>b</p>"))
	require.NoError(t, store.Write("archive/Ideas.html", "<p>c</p>"))
	ctx := &CommandContext{Files: store}

	got, err := ctx.ResolveDocument("notes/Plan")
	require.NoError(t, err)
	assert.Equal(t, "notes/Plan.html", got)

	got, err = ctx.ResolveDocument("plan")
	require.NoError(t, err)
	assert.Equal(t, "notes/Plan.html", got)

	got, err = ctx.ResolveDocument("Ideas.html")
	require.NoError(t, err)
	assert.Equal(t, "Ideas.html", got)

	_, err = ctx.ResolveDocument("ideas")
	assert.ErrorContains(t, err, "multiple documents")

	_, err = ctx.ResolveDocument("missing")
	assert.ErrorContains(t, err, "not found")
}
