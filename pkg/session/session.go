// Package session is the core of the application shell: it owns the active
// document, keeps its line view current, routes assistant requests and
// persists edits.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillmate/quillmate-cli/pkg/assistant"
	"github.com/quillmate/quillmate-cli/pkg/autosave"
	"github.com/quillmate/quillmate-cli/pkg/document"
	"github.com/quillmate/quillmate-cli/pkg/files"
	"github.com/quillmate/quillmate-cli/pkg/logging"
	"github.com/quillmate/quillmate-cli/pkg/models"
	"github.com/quillmate/quillmate-cli/pkg/observability"
	"github.com/quillmate/quillmate-cli/pkg/tracker"
)

var (
	// ErrBusy rejects a request while another one is outstanding.
	ErrBusy = errors.New("a request is already in progress")
	// ErrNoDocument means no file is open.
	ErrNoDocument = errors.New("no document is open")
	// ErrNoTitle means the document has no text to derive a name from.
	ErrNoTitle = errors.New("document has no title")
)

// Default delays, matching models.DefaultSettings.
const (
	DefaultRefreshDelay  = 500 * time.Millisecond
	DefaultAutosaveDelay = time.Second
)

// Config wires a session to its collaborators.
type Config struct {
	Store     *files.Store
	Assistant *assistant.Assistant

	RefreshDelay  time.Duration
	AutosaveDelay time.Duration

	Metrics *observability.Metrics
	Logger  *slog.Logger
	// NewID mints ids for lines created by enhancement.
	NewID func() string
	Now   func() time.Time
}

// Selection is an inclusive 1-based range of line numbers. The zero value
// selects nothing.
type Selection struct {
	From int
	To   int
}

// Empty reports whether the selection covers no lines.
func (s Selection) Empty() bool {
	return s.From <= 0 || s.To < s.From
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Response *assistant.ChatResponse
	// Mutated is set when the document changed.
	Mutated bool
	// Opened is the path of a generated file that is now the active
	// document.
	Opened string
}

// Session is the editing state of one open document.
type Session struct {
	store     *files.Store
	assistant *assistant.Assistant
	editor    *document.Editor
	tracker   *tracker.Tracker
	refresher *autosave.Debouncer
	saver     *autosave.Saver
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time

	// syncMu keeps a debounced refresh from landing between seeding the
	// tracker and applying the same lines to the document.
	syncMu sync.Mutex

	mu        sync.Mutex
	path      string
	busy      bool
	lastSaved string

	unsubscribe func()
}

// New creates a session with no open document.
func New(cfg Config) *Session {
	if cfg.RefreshDelay <= 0 {
		cfg.RefreshDelay = DefaultRefreshDelay
	}
	if cfg.AutosaveDelay <= 0 {
		cfg.AutosaveDelay = DefaultAutosaveDelay
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Session{
		store:     cfg.Store,
		assistant: cfg.Assistant,
		editor:    document.NewEditor(),
		tracker:   tracker.New(tracker.WithClock(cfg.Now), tracker.WithIDGenerator(cfg.NewID)),
		logger:    logging.OrDiscard(cfg.Logger),
		newID:     cfg.NewID,
		now:       cfg.Now,
	}
	s.refresher = autosave.NewDebouncer(cfg.RefreshDelay, func() { s.Refresh() })
	s.saver = autosave.NewSaver(cfg.AutosaveDelay, s.save,
		autosave.WithLogger(s.logger),
		autosave.WithMetrics(cfg.Metrics))
	s.unsubscribe = s.editor.OnUpdate(func(*document.Document) {
		s.refresher.Trigger()
		s.saver.Schedule()
	})
	return s
}

// Open makes the document at rel the active one. Pending edits of the
// previous document are saved first.
func (s *Session) Open(rel string) error {
	if err := s.saver.Flush(); err != nil {
		s.logger.Warn("failed to save before switching documents", "path", s.Path(), "error", err)
	}

	content, err := s.store.Read(rel)
	if err != nil {
		return err
	}
	rel, _ = files.Clean(rel)

	s.mu.Lock()
	s.path = rel
	s.lastSaved = content
	s.mu.Unlock()

	s.tracker.Seed(nil)
	if err := s.editor.SetContent(content); err != nil {
		return fmt.Errorf("failed to parse %s: %w", rel, err)
	}
	s.refresher.Flush()
	// Opening is not an edit.
	s.saver.Cancel()

	s.logger.Info("opened document", "path", rel, "lines", s.tracker.Len())
	return nil
}

// Path returns the active document's store path, or "" when none is open.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Filename returns the base name of the active document.
func (s *Session) Filename() string {
	if p := s.Path(); p != "" {
		return path.Base(p)
	}
	return ""
}

// Editor exposes the live document.
func (s *Session) Editor() *document.Editor {
	return s.editor
}

// Lines returns the current line snapshot.
func (s *Session) Lines() []models.Line {
	return s.tracker.Lines()
}

// Busy reports whether an assistant request is outstanding.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Subscribe calls fn after every document change, including reloads and
// applied assistant edits. It returns an unsubscribe function.
func (s *Session) Subscribe(fn func()) func() {
	return s.editor.OnUpdate(func(*document.Document) { fn() })
}

// SetContent replaces the document with user-edited HTML. The line view
// and the file catch up after their debounce delays.
func (s *Session) SetContent(html string) error {
	if s.Path() == "" {
		return ErrNoDocument
	}
	return s.editor.SetContent(html)
}

// Refresh recomputes the line view immediately.
func (s *Session) Refresh() []models.Line {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()
	return s.tracker.Update(s.editor.Document())
}

// Save writes the document now, cancelling any pending auto-save.
func (s *Session) Save() error {
	if s.saver.Pending() {
		return s.saver.Flush()
	}
	return s.save()
}

// Dirty reports whether the document differs from what was last written.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	last := s.lastSaved
	s.mu.Unlock()
	return s.editor.HTML() != last
}

// LastSaved returns when the last auto-save succeeded.
func (s *Session) LastSaved() time.Time {
	return s.saver.LastSaved()
}

func (s *Session) save() error {
	rel := s.Path()
	if rel == "" {
		return ErrNoDocument
	}
	html := s.editor.HTML()
	if err := s.store.Write(rel, html); err != nil {
		return err
	}
	s.mu.Lock()
	s.lastSaved = html
	s.mu.Unlock()
	return nil
}

// Close saves pending edits and stops background work.
func (s *Session) Close() error {
	err := s.saver.Flush()
	s.saver.Stop()
	s.refresher.Stop()
	s.unsubscribe()
	return err
}

func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return ErrNoDocument
	}
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Chat sends message about the current document, and the selected lines
// when sel is not empty, then applies the answer. Errors leave the
// document untouched; assistant.UserMessage renders them for the user.
func (s *Session) Chat(ctx context.Context, message string, sel Selection) (*Reply, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	s.refresher.Flush()
	req := assistant.ChatRequest{
		Message:      message,
		LineMetadata: s.tracker.Lines(),
		FullContent:  s.editor.Text(),
		Filename:     s.Filename(),
	}
	if !sel.Empty() {
		req.SelectedText = s.editor.Selection(sel.From, sel.To)
	}

	resp, err := s.assistant.Chat(ctx, req)
	if err != nil {
		return nil, err
	}

	reply := &Reply{Response: resp}
	switch {
	case resp.EnhancedText != nil:
		s.applyLines(resp.EnhancedText.Lines)
		reply.Mutated = true
	case resp.GeneratedFile != nil:
		opened, err := s.openGenerated(resp.GeneratedFile.Filename, resp.GeneratedFile.Content)
		if err != nil {
			return nil, err
		}
		reply.Opened = opened
	}
	return reply, nil
}

// applyLines installs a reconciled snapshot. The current snapshot tells the
// document which block each id belongs to; the tracker is seeded so ids and
// AI flags survive the recomputation the edit triggers.
func (s *Session) applyLines(lines []models.Line) {
	s.refresher.Cancel()

	s.syncMu.Lock()
	current := s.tracker.Update(s.editor.Document())
	s.tracker.Seed(lines)
	s.editor.Apply(current, lines)
	s.syncMu.Unlock()

	s.refresher.Flush()
}

func (s *Session) openGenerated(name, content string) (string, error) {
	doc, err := document.FromText(content)
	if err != nil {
		return "", fmt.Errorf("failed to build generated document: %w", err)
	}

	dir := path.Dir(s.Path())
	if dir == "." {
		dir = ""
	}
	rel, err := s.store.CreateDocument(dir, name, doc.HTML())
	if err != nil {
		return "", err
	}
	s.logger.Info("generated document", "path", rel)
	if err := s.Open(rel); err != nil {
		return "", err
	}
	return rel, nil
}

// RenameFromTitle renames the active file after its first heading, or its
// first line when it has no heading, and returns the new path.
func (s *Session) RenameFromTitle() (string, error) {
	current := s.Path()
	if current == "" {
		return "", ErrNoDocument
	}
	title := s.editor.Document().Title()
	if title == "" {
		return "", ErrNoTitle
	}
	if files.FileName(title) == path.Base(current) {
		return current, nil
	}

	if err := s.Save(); err != nil {
		return "", err
	}
	renamed, err := s.store.Rename(current, title)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.path = renamed
	s.mu.Unlock()
	s.logger.Info("renamed document from title", "from", current, "to", renamed)
	return renamed, nil
}
