package document

import (
	"strings"
	"sync"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

// UpdateFunc receives a snapshot of the document after every change.
type UpdateFunc func(*Document)

// Editor owns the live document and notifies subscribers on every change.
type Editor struct {
	mu        sync.Mutex
	doc       *Document
	listeners map[int]UpdateFunc
	nextID    int
}

// NewEditor creates an editor holding an empty document.
func NewEditor() *Editor {
	return &Editor{
		doc:       New(),
		listeners: make(map[int]UpdateFunc),
	}
}

// OnUpdate subscribes fn to document changes. The returned function
// removes the subscription.
func (e *Editor) OnUpdate(fn UpdateFunc) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// SetContent replaces the document with parsed HTML.
func (e *Editor) SetContent(src string) error {
	doc, err := Parse(src)
	if err != nil {
		return err
	}
	e.replace(func() { e.doc = doc })
	return nil
}

// Apply writes a line snapshot back into the document. prev is the
// snapshot the current content blocks map to; see Document.Apply.
func (e *Editor) Apply(prev, lines []models.Line) {
	e.replace(func() { e.doc.Apply(prev, lines) })
}

func (e *Editor) replace(mutate func()) {
	e.mu.Lock()
	mutate()
	snapshot := e.doc.Clone()
	listeners := make([]UpdateFunc, 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Document returns a snapshot of the current document.
func (e *Editor) Document() *Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// HTML renders the current document.
func (e *Editor) HTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.HTML()
}

// Text returns the visible text of the current document.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Text()
}

// Selection returns the text of content lines from..to (1-based,
// inclusive), one line per block. Out-of-range bounds are clamped.
func (e *Editor) Selection(from, to int) string {
	e.mu.Lock()
	content := e.doc.ContentBlocks()
	e.mu.Unlock()

	if from < 1 {
		from = 1
	}
	if to > len(content) {
		to = len(content)
	}
	if from > to {
		return ""
	}

	parts := make([]string, 0, to-from+1)
	for _, b := range content[from-1 : to] {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n")
}
