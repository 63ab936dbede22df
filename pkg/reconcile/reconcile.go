// Package reconcile merges a decoded assistant response into a line
// snapshot. Every reconciliation either yields a complete after-snapshot or
// leaves the before-snapshot untouched.
package reconcile

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

// Request describes the instruction a response answers.
type Request struct {
	Instruction string
	// RequestedCount is the number of lines the instruction asked for, 0 if
	// none was named.
	RequestedCount int
	// AfterLine is the anchor the instruction named, nil if none.
	AfterLine *int
}

// Reconciler applies responses to snapshots.
type Reconciler struct {
	now     func() time.Time
	newID   func() string
	spacing string
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithIDGenerator overrides how ids for new lines are minted.
func WithIDGenerator(fn func() string) Option {
	return func(r *Reconciler) { r.newID = fn }
}

// WithSpacing selects the spacer policy, models.SpacingPreserve or
// models.SpacingNone.
func WithSpacing(policy string) Option {
	return func(r *Reconciler) { r.spacing = policy }
}

// New creates a reconciler.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		now:     time.Now,
		newID:   uuid.NewString,
		spacing: models.SpacingPreserve,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile applies resp to before. before is never modified.
func (r *Reconciler) Reconcile(before []models.Line, resp Response, req Request) Result {
	var res Result
	switch v := resp.(type) {
	case *EditResponse:
		res = r.edit(before, v, req)
	case *ContinueResponse:
		res = r.continueText(before, v, req)
	case *SummarizeResponse:
		res = summarize(v)
	case *AnalyzeResponse:
		res = analyze(v)
	case *DeleteResponse:
		res = r.delete(before, v)
	case *GenerateFileResponse:
		res = generateFile(v)
	default:
		res = Result{
			Kind:    KindRejected,
			Message: "Unable to process the request",
			Err:     fmt.Errorf("%w: %T", ErrUnknownOperation, resp),
		}
	}
	if resp != nil {
		res.Operation = resp.Operation()
	}
	return res
}

func (r *Reconciler) prompt(resp Response, req Request) string {
	if req.Instruction != "" {
		return req.Instruction
	}
	return resp.Note()
}

func (r *Reconciler) edit(before []models.Line, resp *EditResponse, req Request) Result {
	changes := make(map[int]Change, len(resp.Changes))
	for _, c := range resp.Changes {
		if _, dup := changes[c.LineNumber]; !dup {
			changes[c.LineNumber] = c
		}
	}

	now := r.now()
	lines := models.CloneLines(before)
	applied := 0
	for i, line := range lines {
		c, ok := changes[line.Number]
		if !ok {
			continue
		}
		applied++

		next := line
		next.Content = StripMarkup(c.Content)
		if c.Type != "" && c.Type != line.Type {
			next.Type = c.Type
			next.Attrs = nil
		}
		next.LastModified = now
		next.AIEnhanced = true
		next.AIMetadata = &models.AIMetadata{
			LastEnhanced:      now,
			EnhancementPrompt: r.prompt(resp, req),
			OriginalContent:   line.Content,
		}
		lines[i] = next
	}
	models.Renumber(lines)

	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Updated %d line(s)", applied)
	}
	return Result{Kind: KindMutation, Message: msg, Lines: lines}
}

var addLinesRe = regexp.MustCompile(`(?i)add (\d+) lines?`)

func (r *Reconciler) requestedCount(resp *ContinueResponse, req Request) int {
	if req.RequestedCount > 0 {
		return req.RequestedCount
	}
	if m := addLinesRe.FindStringSubmatch(resp.Message); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func (r *Reconciler) continueText(before []models.Line, resp *ContinueResponse, req Request) Result {
	if n := r.requestedCount(resp, req); n > 0 && len(resp.NewLines) != n {
		err := &CountMismatchError{Requested: n, Received: len(resp.NewLines)}
		return Result{Kind: KindRejected, Message: err.Error(), Err: err}
	}

	after := 0
	for _, l := range before {
		after = max(after, l.Number)
	}
	switch {
	case req.AfterLine != nil:
		after = *req.AfterLine
	case resp.AfterLine != nil:
		after = *resp.AfterLine
	}
	after = max(0, after)

	now := r.now()
	prompt := r.prompt(resp, req)
	inserted := make([]models.Line, len(resp.NewLines))
	for i, nl := range resp.NewLines {
		typ := nl.Type
		if typ == "" {
			typ = models.LineParagraph
		}
		inserted[i] = models.Line{
			ID:           r.newID(),
			Content:      StripMarkup(nl.Content),
			Type:         typ,
			Timestamp:    now,
			LastModified: now,
			AIEnhanced:   true,
			AIMetadata: &models.AIMetadata{
				LastEnhanced:      now,
				EnhancementPrompt: prompt,
			},
		}
	}

	// Lines numbered past the anchor shift down.
	ordered := models.CloneLines(before)
	slices.SortStableFunc(ordered, func(a, b models.Line) int { return cmp.Compare(a.Number, b.Number) })
	var head, tail []models.Line
	for _, l := range ordered {
		if l.Number <= after {
			head = append(head, l)
		} else {
			tail = append(tail, l)
		}
	}
	spacers := 0
	if r.spacing == models.SpacingPreserve && usesSpacers(before) {
		spacers = spaceRun(head, inserted, len(tail) > 0)
	}

	lines := make([]models.Line, 0, len(before)+len(inserted))
	lines = append(lines, head...)
	lines = append(lines, inserted...)
	lines = append(lines, tail...)
	models.Renumber(lines)

	return Result{Kind: KindMutation, Message: resp.Message, Lines: lines, SpacersAdded: spacers}
}

// usesSpacers reports whether the document separates blocks with blank
// spacer blocks anywhere.
func usesSpacers(lines []models.Line) bool {
	for _, l := range lines {
		if l.SpacedAfter {
			return true
		}
	}
	return false
}

// spaceRun marks spacers around an inserted run so the blank-line
// convention holds: after the anchor, between new lines, and after the run
// when content follows. It returns the number of spacers added.
func spaceRun(head, inserted []models.Line, contentFollows bool) int {
	added := 0
	if len(head) > 0 && !head[len(head)-1].SpacedAfter {
		head[len(head)-1].SpacedAfter = true
		added++
	}
	for i := range inserted {
		if i < len(inserted)-1 || contentFollows {
			inserted[i].SpacedAfter = true
			added++
		}
	}
	return added
}

func summarize(resp *SummarizeResponse) Result {
	return Result{Kind: KindMessage, Message: resp.Summary}
}

func analyze(resp *AnalyzeResponse) Result {
	a := resp.Analysis
	return Result{Kind: KindMessage, Message: FormatAnalysis(a), Analysis: &a}
}

func (r *Reconciler) delete(before []models.Line, resp *DeleteResponse) Result {
	drop := make(map[int]bool, len(resp.LinesToDelete))
	for _, n := range resp.LinesToDelete {
		drop[n] = true
	}

	var lines []models.Line
	removed := 0
	for _, l := range models.CloneLines(before) {
		if drop[l.Number] || strings.TrimSpace(l.Content) == "" {
			removed++
			continue
		}
		if l.Type == "" {
			l.Type = models.LineParagraph
		}
		lines = append(lines, l)
	}

	if len(lines) == 0 {
		now := r.now()
		lines = []models.Line{{
			ID:           r.newID(),
			Content:      " ",
			Type:         models.LineParagraph,
			Timestamp:    now,
			LastModified: now,
		}}
	}
	models.Renumber(lines)

	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Deleted %d line(s)", removed)
	}
	return Result{Kind: KindMutation, Message: msg, Lines: lines}
}

func generateFile(resp *GenerateFileResponse) Result {
	msg := resp.Message
	if msg == "" {
		msg = fmt.Sprintf("Generated %s", resp.Filename)
	}
	return Result{
		Kind:    KindNewFile,
		Message: msg,
		File:    &GeneratedFile{Filename: resp.Filename, Content: resp.Content},
	}
}
