// Package tracker derives the numbered, id-tagged line view of a document.
package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillmate/quillmate-cli/pkg/document"
	"github.com/quillmate/quillmate-cli/pkg/models"
)

// Tracker keeps the latest line snapshot of a document.
type Tracker struct {
	mu    sync.RWMutex
	lines []models.Line
	now   func() time.Time
	newID func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides how new line ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// New creates an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update recomputes the snapshot from doc and replaces the previous one
// wholesale. Blank blocks get no number. The entry previously held at the
// same number donates its id, creation time and AI flags; lastModified only
// moves when the content differs.
func (t *Tracker) Update(doc *document.Document) []models.Line {
	t.mu.Lock()
	defer t.mu.Unlock()

	blocks := doc.Blocks()
	now := t.now()
	next := make([]models.Line, 0, len(blocks))

	for i, b := range blocks {
		if b.Blank() {
			continue
		}

		number := len(next) + 1
		line := models.Line{
			Number:       number,
			Content:      b.Text,
			Type:         lineType(b),
			Attrs:        lineAttrs(b),
			Timestamp:    now,
			LastModified: now,
			SpacedAfter:  i+1 < len(blocks) && blocks[i+1].Spacer(),
		}

		if number <= len(t.lines) {
			prev := t.lines[number-1]
			line.ID = prev.ID
			line.Timestamp = prev.Timestamp
			line.AIEnhanced = prev.AIEnhanced
			line.AIMetadata = prev.AIMetadata
			if prev.Content == line.Content {
				line.LastModified = prev.LastModified
			}
		}
		if line.ID == "" {
			line.ID = t.newID()
		}

		next = append(next, line)
	}

	t.lines = next
	return models.CloneLines(next)
}

func lineType(b document.Block) models.LineType {
	if b.Kind == document.KindListItem {
		return models.LineListItem
	}
	return models.LineParagraph
}

func lineAttrs(b document.Block) *models.LineAttrs {
	switch {
	case b.Kind == document.KindHeading:
		return &models.LineAttrs{Level: b.Level}
	case b.Kind == document.KindListItem && b.Ordered:
		return &models.LineAttrs{Ordered: true}
	}
	return nil
}

// Seed installs a snapshot produced elsewhere, typically a reconciled one,
// so the next Update carries its ids and AI flags forward.
func (t *Tracker) Seed(lines []models.Line) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = models.CloneLines(lines)
}

// Lines returns a copy of the current snapshot.
func (t *Tracker) Lines() []models.Line {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return models.CloneLines(t.lines)
}

// Len returns the number of tracked lines.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.lines)
}

// Get returns the line with the given number.
func (t *Tracker) Get(number int) (models.Line, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if number < 1 || number > len(t.lines) {
		return models.Line{}, false
	}
	return models.CloneLines(t.lines[number-1 : number])[0], true
}

// Annotate applies fn to the line with the given number in place.
func (t *Tracker) Annotate(number int, fn func(*models.Line)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if number < 1 || number > len(t.lines) {
		return false
	}
	fn(&t.lines[number-1])
	t.lines[number-1].Number = number
	return true
}
