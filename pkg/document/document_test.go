package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{
			name:  "paragraphs and heading",
			input: "<h2>Title</h2><p>Body <strong>bold</strong></p>",
			want: []Block{
				{Kind: KindHeading, Tag: "h2", Level: 2, Text: "Title", Inner: "Title"},
				{Kind: KindParagraph, Tag: "p", Text: "Body bold", Inner: "Body <strong>bold</strong>"},
			},
		},
		{
			name:  "list items become blocks",
			input: "<ol><li>one</li><li>two</li></ol>",
			want: []Block{
				{Kind: KindListItem, Tag: "li", Ordered: true, Text: "one", Inner: "one"},
				{Kind: KindListItem, Tag: "li", Ordered: true, Text: "two", Inner: "two"},
			},
		},
		{
			name:  "whitespace text nodes skipped",
			input: "<p>a</p>\n  \n<p>b</p>",
			want: []Block{
				{Kind: KindParagraph, Tag: "p", Text: "a", Inner: "a"},
				{Kind: KindParagraph, Tag: "p", Text: "b", Inner: "b"},
			},
		},
		{
			name:  "bare text becomes paragraph",
			input: "loose & text",
			want: []Block{
				{Kind: KindParagraph, Tag: "p", Text: "loose & text", Inner: "loose &amp; text"},
			},
		},
		{
			name:  "other elements kept",
			input: "<blockquote>quoted</blockquote>",
			want: []Block{
				{Kind: KindOther, Tag: "blockquote", Text: "quoted", Inner: "quoted"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Blocks())
		})
	}
}

func TestHTMLRoundTrip(t *testing.T) {
	src := "<h1>Title</h1><p>Intro</p><p> </p><ul><li>a</li><li>b</li></ul><p>End</p>"
	doc := MustParse(src)
	assert.Equal(t, src, doc.HTML())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Heading", MustParse("<p>first</p><h2> Heading </h2>").Title())
	assert.Equal(t, "first", MustParse("<p></p><p>first</p>").Title())
	assert.Equal(t, "", MustParse("<h1></h1><p></p>").Title())
}

func TestApply(t *testing.T) {
	doc := MustParse("<p>Intro <em>here</em></p><p>Body</p>")

	doc.Apply(nil, []models.Line{
		{Number: 1, Content: "Intro here", Type: models.LineParagraph, SpacedAfter: true},
		{Number: 2, Content: "New <para>", Type: models.LineParagraph},
		{Number: 3, Content: "Body", Type: models.LineParagraph},
		{Number: 4, Content: "Item", Type: models.LineListItem},
		{Number: 5, Content: "Sub", Type: models.LineParagraph, Attrs: &models.LineAttrs{Level: 3}},
	})

	assert.Equal(t,
		"<p>Intro <em>here</em></p><p> </p><p>New &lt;para&gt;</p><p>Body</p><ul><li>Item</li></ul><h3>Sub</h3>",
		doc.HTML())
	assert.Len(t, doc.ContentBlocks(), 5)
}

func TestEditorNotifiesSubscribers(t *testing.T) {
	e := NewEditor()

	var seen []string
	unsubscribe := e.OnUpdate(func(d *Document) {
		seen = append(seen, d.Text())
	})

	require.NoError(t, e.SetContent("<p>one</p>"))
	e.Apply(nil, []models.Line{{Number: 1, Content: "two", Type: models.LineParagraph}})
	unsubscribe()
	require.NoError(t, e.SetContent("<p>three</p>"))

	assert.Equal(t, []string{"one", "two"}, seen)
	assert.Equal(t, "<p>three</p>", e.HTML())
}

func TestEditorSelection(t *testing.T) {
	e := NewEditor()
	require.NoError(t, e.SetContent("<p>a</p><p></p><p>b</p><p>c</p>"))

	assert.Equal(t, "a\nb", e.Selection(1, 2))
	assert.Equal(t, "b\nc", e.Selection(2, 10))
	assert.Equal(t, "", e.Selection(3, 2))
}

func TestFromText(t *testing.T) {
	doc, err := FromText("# Trip Notes\n\nPack light & early.\n\n\nBook the ferry.")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Trip Notes</h1><p>Pack light &amp; early.</p><p>Book the ferry.</p>", doc.HTML())
	assert.Equal(t, "Trip Notes", doc.Title())

	doc, err = FromText("  <p>Already <b>markup</b></p>")
	require.NoError(t, err)
	assert.Equal(t, "<p>Already <b>markup</b></p>", doc.HTML())

	doc, err = FromText("   ")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}

func TestHTMLKeepsAttributesAndVoidElements(t *testing.T) {
	src := `<img src="a.png"><p style="text-align:center">Hi</p><blockquote class="q"><p>Q</p></blockquote><hr><ul class="todo"><li data-done="1">x</li></ul>`
	doc := MustParse(src)

	assert.Equal(t,
		`<img src="a.png"><p style="text-align:center">Hi</p><blockquote class="q"><p>Q</p></blockquote><hr><ul class="todo"><li data-done="1">x</li></ul>`,
		doc.HTML())
	assert.Equal(t, "Hi\nQ\nx", doc.Text())
}

func TestBlockSpacer(t *testing.T) {
	blocks := MustParse(`<p> </p><p><br></p><p><img src="x.png"></p><hr><div></div>`).Blocks()
	require.Len(t, blocks, 5)

	assert.True(t, blocks[0].Spacer())
	assert.True(t, blocks[1].Spacer())
	assert.False(t, blocks[2].Spacer())
	assert.True(t, blocks[2].Blank())
	assert.False(t, blocks[3].Spacer())
	assert.False(t, blocks[4].Spacer())
}

func idLines(pairs ...string) []models.Line {
	var lines []models.Line
	for i := 0; i+1 < len(pairs); i += 2 {
		lines = append(lines, models.Line{
			ID:      pairs[i],
			Number:  len(lines) + 1,
			Content: pairs[i+1],
			Type:    models.LineParagraph,
		})
	}
	return lines
}

func TestApplyKeepsUntrackedBlocks(t *testing.T) {
	const src = `<p>A</p><hr><p><img src="x.png"></p><p>B</p>`
	prev := idLines("a", "A", "b", "B")

	t.Run("edit", func(t *testing.T) {
		doc := MustParse(src)
		doc.Apply(prev, idLines("a", "A edited", "b", "B"))
		assert.Equal(t, `<p>A edited</p><hr><p><img src="x.png"/></p><p>B</p>`, doc.HTML())
	})

	t.Run("insert", func(t *testing.T) {
		doc := MustParse(src)
		doc.Apply(prev, idLines("a", "A", "n", "New", "b", "B"))
		assert.Equal(t, `<p>A</p><hr><p><img src="x.png"/></p><p>New</p><p>B</p>`, doc.HTML())
	})

	t.Run("delete moves blocks up", func(t *testing.T) {
		doc := MustParse(`<p>Z</p>` + src)
		doc.Apply(idLines("z", "Z", "a", "A", "b", "B"), idLines("z", "Z", "b", "B"))
		assert.Equal(t, `<p>Z</p><hr><p><img src="x.png"/></p><p>B</p>`, doc.HTML())
	})

	t.Run("delete first line keeps blocks on top", func(t *testing.T) {
		doc := MustParse(src)
		doc.Apply(prev, idLines("b", "B"))
		assert.Equal(t, `<hr><p><img src="x.png"/></p><p>B</p>`, doc.HTML())
	})
}

func TestApplySpacing(t *testing.T) {
	t.Run("existing blank runs stay", func(t *testing.T) {
		doc := MustParse(`<p> </p><p>A</p><p> </p><p> </p><p>B</p>`)
		lines := idLines("a", "A", "b", "B")
		lines[0].SpacedAfter = true
		doc.Apply(idLines("a", "A", "b", "B"), lines)
		assert.Equal(t, `<p> </p><p>A</p><p> </p><p> </p><p>B</p>`, doc.HTML())
	})

	t.Run("spacers only for new runs", func(t *testing.T) {
		doc := MustParse(`<p>A</p><p> </p><p>B</p>`)
		lines := idLines("a", "A", "n", "New", "b", "B")
		lines[0].SpacedAfter = true
		lines[1].SpacedAfter = true
		doc.Apply(idLines("a", "A", "b", "B"), lines)
		assert.Equal(t, `<p>A</p><p> </p><p>New</p><p> </p><p>B</p>`, doc.HTML())
	})
}

func TestApplyEditKeepsElement(t *testing.T) {
	doc := MustParse(`<h2 id="top">Old</h2><p class="lead">Hi <b>there</b></p>`)
	lines := idLines("h", "New title", "p", "Hello & bye")
	lines[0].Attrs = &models.LineAttrs{Level: 2}

	doc.Apply(idLines("h", "Old", "p", "Hi there"), lines)

	assert.Equal(t, `<h2 id="top">New title</h2><p class="lead">Hello &amp; bye</p>`, doc.HTML())
}
