package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantOp  models.Operation
		lines   []int
		after   *int
		count   int
		file    bool
		rule    string
	}{
		{name: "range edit", message: "edit lines 3-5", wantOp: models.OpMultiLineEdit, lines: []int{3, 4, 5}, rule: "edit-lines"},
		{name: "single line edit", message: "Fix line 2", wantOp: models.OpInlineEdit, lines: []int{2}, rule: "edit-lines"},
		{name: "list edit", message: "rewrite lines 2, 4, 6", wantOp: models.OpMultiLineEdit, lines: []int{2, 4, 6}, rule: "edit-lines"},
		{name: "edit stops at prose", message: "fix line 3 and add more", wantOp: models.OpInlineEdit, lines: []int{3}, rule: "edit-lines"},
		{name: "delete lines", message: "delete lines 1-2", wantOp: models.OpDeleteText, lines: []int{1, 2}, rule: "delete-lines"},
		{name: "continue after line", message: "continue after line 3", wantOp: models.OpContinueText, after: intPtr(3), rule: "continue"},
		{name: "count is not an anchor", message: "add 5 lines", wantOp: models.OpContinueText, count: 5, rule: "continue"},
		{name: "count and anchor", message: "add 2 paragraphs after line 4", wantOp: models.OpContinueText, after: intPtr(4), count: 2, rule: "continue"},
		{name: "bare anchor", message: "continue 3", wantOp: models.OpContinueText, after: intPtr(3), rule: "continue"},
		{name: "word count", message: "add two more lines", wantOp: models.OpContinueText, count: 2, rule: "continue"},
		{name: "continue phrase", message: "keep going", wantOp: models.OpContinueText, rule: "continue-keywords"},
		{name: "generate file", message: "Create a new file about Go channels", wantOp: models.OpGenerateFile, rule: "generate-file"},
		{name: "summarize", message: "summarize this", wantOp: models.OpSummarizeText, rule: "summarize-keywords"},
		{name: "edit keyword", message: "please improve the flow", wantOp: models.OpInlineEdit, rule: "edit-keywords"},
		{name: "file analysis", message: "what is this file about", wantOp: models.OpAnalyzeText, file: true, rule: "analyze-keywords"},
		{name: "passage analysis", message: "review the tone", wantOp: models.OpAnalyzeText, rule: "analyze-keywords"},
		{name: "word boundaries", message: "address the reader", wantOp: models.OpAnalyzeText, file: true, rule: "default"},
		{name: "summarize named lines", message: "summarize lines 2-3", wantOp: models.OpSummarizeText, lines: []int{2, 3}, rule: "summarize-keywords"},
		{name: "explain named lines", message: "explain lines 1,2", wantOp: models.OpAnalyzeText, lines: []int{1, 2}, file: true, rule: "analyze-keywords"},
		{name: "review one line", message: "review line 4 for tone", wantOp: models.OpAnalyzeText, lines: []int{4}, rule: "analyze-keywords"},
		{name: "default keeps line refs", message: "line 7?", wantOp: models.OpAnalyzeText, lines: []int{7}, file: true, rule: "default"},
		{name: "default", message: "hello there", wantOp: models.OpAnalyzeText, file: true, rule: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.message)
			assert.Equal(t, tt.wantOp, got.Operation)
			assert.Equal(t, tt.lines, got.LineNumbers)
			assert.Equal(t, tt.after, got.AfterLine)
			assert.Equal(t, tt.count, got.RequestedCount)
			assert.Equal(t, tt.file, got.IsFileQuery)
			assert.Equal(t, tt.rule, got.Rule)
		})
	}
}

func TestParserCustomRules(t *testing.T) {
	p := NewParser(Rule{Name: "never", Match: func(string) (Intent, bool) { return Intent{}, false }})

	got := p.Parse("anything")
	assert.Equal(t, models.OpAnalyzeText, got.Operation)
	assert.True(t, got.IsFileQuery)
	assert.Equal(t, "default", got.Rule)
	assert.Equal(t, []string{"never"}, p.Rules())
}

func TestDefaultRulesEndWithDefault(t *testing.T) {
	names := NewParser().Rules()
	assert.Equal(t, "default", names[len(names)-1])
	assert.Equal(t, "delete-lines", names[0])
}

func TestExtractLineNumbers(t *testing.T) {
	tests := []struct {
		spec string
		want []int
	}{
		{"2-5", []int{2, 3, 4, 5}},
		{"2,4,6", []int{2, 4, 6}},
		{"3", []int{3}},
		{"5 - 3", []int{3, 4, 5}},
		{"1-2, 7 and 9", []int{1, 2, 7, 9}},
		{"0, 2, 2", []int{2}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLineNumbers(tt.spec))
		})
	}

	assert.Len(t, ExtractLineNumbers("1-5000"), maxRange)
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec     string
		from, to int
		wantErr  bool
	}{
		{spec: "3", from: 3, to: 3},
		{spec: " 2 - 5 ", from: 2, to: 5},
		{spec: "4-4", from: 4, to: 4},
		{spec: "5-2", wantErr: true},
		{spec: "0", wantErr: true},
		{spec: "a-b", wantErr: true},
		{spec: "2-", wantErr: true},
		{spec: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			from, to, err := ParseRange(tt.spec)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestRequestedCount(t *testing.T) {
	assert.Equal(t, 3, RequestedCount("Add 3 lines about testing"))
	assert.Equal(t, 1, RequestedCount("add 1 line"))
	assert.Equal(t, 4, RequestedCount("four new paragraphs please"))
	assert.Equal(t, 0, RequestedCount("continue the story"))
}

func TestIsFileQuery(t *testing.T) {
	assert.True(t, IsFileQuery("What happens here"))
	assert.True(t, IsFileQuery("describe this"))
	assert.True(t, IsFileQuery("review the file"))
	assert.False(t, IsFileQuery("review the tone"))
}
