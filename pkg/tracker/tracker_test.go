package tracker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/document"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

type fixture struct {
	now time.Time
	ids int
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) id() string {
	f.ids++
	return fmt.Sprintf("id-%d", f.ids)
}

func newTracker(f *fixture) *Tracker {
	return New(WithClock(f.clock), WithIDGenerator(f.id))
}

func TestUpdateSkipsBlankBlocks(t *testing.T) {
	f := &fixture{now: time.Unix(100, 0)}
	tr := newTracker(f)

	lines := tr.Update(document.MustParse("<h2>Title</h2><p></p><p>   </p><p>Body</p><ol><li>Step</li></ol>"))
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, "Title", lines[0].Content)
	assert.Equal(t, models.LineParagraph, lines[0].Type)
	assert.Equal(t, 2, lines[0].HeadingLevel())
	assert.True(t, lines[0].SpacedAfter)

	assert.Equal(t, 2, lines[1].Number)
	assert.False(t, lines[1].SpacedAfter)

	assert.Equal(t, models.LineListItem, lines[2].Type)
	require.NotNil(t, lines[2].Attrs)
	assert.True(t, lines[2].Attrs.Ordered)
}

func TestUpdateMediaBlocksAreNotSpacers(t *testing.T) {
	tr := newTracker(&fixture{now: time.Unix(100, 0)})

	lines := tr.Update(document.MustParse(`<p>A</p><hr><p>B</p><p><img src="x.png"></p><p>C</p>`))

	assert.Len(t, lines, 3)
	assert.False(t, lines[0].SpacedAfter)
	assert.False(t, lines[1].SpacedAfter)
}

func TestUpdateIsIdempotent(t *testing.T) {
	f := &fixture{now: time.Unix(100, 0)}
	tr := newTracker(f)
	doc := document.MustParse("<p>a</p><p>b</p>")

	first := tr.Update(doc)
	f.now = f.now.Add(time.Minute)
	second := tr.Update(doc)

	assert.Equal(t, first, second)
}

func TestUpdateReusesEntriesByNumber(t *testing.T) {
	f := &fixture{now: time.Unix(100, 0)}
	tr := newTracker(f)
	created := f.now

	tr.Update(document.MustParse("<p>a</p><p>b</p>"))
	tr.Annotate(2, func(l *models.Line) { l.AIEnhanced = true })

	f.now = created.Add(time.Minute)
	lines := tr.Update(document.MustParse("<p>a</p><p>b changed</p><p>c</p>"))
	require.Len(t, lines, 3)

	assert.Equal(t, "id-1", lines[0].ID)
	assert.Equal(t, created, lines[0].LastModified)

	assert.Equal(t, "id-2", lines[1].ID)
	assert.Equal(t, created, lines[1].Timestamp)
	assert.Equal(t, f.now, lines[1].LastModified)
	assert.True(t, lines[1].AIEnhanced)

	assert.Equal(t, "id-3", lines[2].ID)
	assert.Equal(t, f.now, lines[2].Timestamp)
}

func TestSeedCarriesReconciledState(t *testing.T) {
	f := &fixture{now: time.Unix(100, 0)}
	tr := newTracker(f)

	tr.Seed([]models.Line{
		{ID: "keep", Number: 1, Content: "Intro", Type: models.LineParagraph},
		{ID: "ai", Number: 2, Content: "New para", Type: models.LineParagraph, AIEnhanced: true},
	})

	lines := tr.Update(document.MustParse("<p>Intro</p><p>New para</p>"))
	assert.Equal(t, "keep", lines[0].ID)
	assert.Equal(t, "ai", lines[1].ID)
	assert.True(t, lines[1].AIEnhanced)
}

func TestGet(t *testing.T) {
	tr := New()
	tr.Update(document.MustParse("<p>one</p><p>two</p>"))

	line, ok := tr.Get(2)
	require.True(t, ok)
	assert.Equal(t, "two", line.Content)

	_, ok = tr.Get(3)
	assert.False(t, ok)
	assert.Equal(t, 2, tr.Len())
}
