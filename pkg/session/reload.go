package session

import (
	"github.com/quillmate/quillmate-cli/pkg/watch"
)

// HandleExternalChanges reloads the active document when another program
// rewrote it. Writes of our own, and changes that arrive while local edits
// are still unsaved, are ignored; the local copy wins. It reports whether
// the document was reloaded.
func (s *Session) HandleExternalChanges(events []watch.Event) bool {
	rel := s.Path()
	if rel == "" {
		return false
	}
	abs, err := s.store.Abs(rel)
	if err != nil {
		return false
	}

	for _, ev := range events {
		if ev.Path != abs {
			continue
		}
		if ev.Op == watch.OpRemove || ev.Op == watch.OpRename {
			s.logger.Warn("active document was moved or deleted outside the editor", "path", rel)
			return false
		}
		return s.reload(rel)
	}
	return false
}

func (s *Session) reload(rel string) bool {
	content, err := s.store.Read(rel)
	if err != nil {
		s.logger.Warn("failed to read externally changed document", "path", rel, "error", err)
		return false
	}

	s.mu.Lock()
	ours := content == s.lastSaved
	s.mu.Unlock()
	if ours || content == s.editor.HTML() {
		return false
	}
	if s.saver.Pending() || s.Busy() {
		s.logger.Warn("ignoring external change, local edits pending", "path", rel)
		return false
	}

	if err := s.editor.SetContent(content); err != nil {
		s.logger.Warn("failed to parse externally changed document", "path", rel, "error", err)
		return false
	}
	s.mu.Lock()
	s.lastSaved = content
	s.mu.Unlock()
	s.refresher.Flush()
	s.saver.Cancel()

	s.logger.Info("reloaded document changed on disk", "path", rel)
	return true
}
