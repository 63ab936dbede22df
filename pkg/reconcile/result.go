package reconcile

import (
	"fmt"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

// Kind classifies a reconciliation outcome.
type Kind int

const (
	// KindMutation carries a replacement line snapshot.
	KindMutation Kind = iota
	// KindMessage carries text for the user and leaves the document alone.
	KindMessage
	// KindRejected means validation failed and nothing may change.
	KindRejected
	// KindNewFile carries a document to write and open.
	KindNewFile
)

func (k Kind) String() string {
	switch k {
	case KindMutation:
		return "mutation"
	case KindMessage:
		return "message"
	case KindRejected:
		return "rejected"
	case KindNewFile:
		return "new_file"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// GeneratedFile is a whole new document produced by generate_file.
type GeneratedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Result is the outcome of reconciling one response.
type Result struct {
	Kind      Kind
	Operation models.Operation
	Message   string
	// Lines is the full after-snapshot for KindMutation.
	Lines        []models.Line
	Analysis     *models.Analysis
	File         *GeneratedFile
	SpacersAdded int
	Err          error
}

// Mutates reports whether the result replaces the document's lines.
func (r Result) Mutates() bool {
	return r.Kind == KindMutation
}

// CountMismatchError rejects a continuation that returned the wrong number
// of lines.
type CountMismatchError struct {
	Requested int
	Received  int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("Error: Requested %d lines but received %d. Please try again.", e.Requested, e.Received)
}
