// Package intent routes a free-text instruction to an assistant operation.
//
// Routing is an ordered list of rules; the first rule that matches wins and
// the last rule always matches. Nothing is scored.
package intent

import (
	"regexp"
	"strings"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

// Intent is the routing decision for one instruction.
type Intent struct {
	Operation   models.Operation `json:"operation"`
	LineNumbers []int            `json:"lineNumbers,omitempty"`
	// AfterLine is the explicit continuation anchor, nil when none was named.
	AfterLine *int `json:"afterLine,omitempty"`
	// RequestedCount is the number of lines a continuation asked for, 0 when
	// no count was named.
	RequestedCount int    `json:"requestedCount,omitempty"`
	IsFileQuery    bool   `json:"isFileQuery,omitempty"`
	Rule           string `json:"rule"`
}

// Rule is one routing predicate. Match receives the lower-cased instruction.
type Rule struct {
	Name  string
	Match func(msg string) (Intent, bool)
}

// Parser evaluates rules in order.
type Parser struct {
	rules []Rule
}

// NewParser creates a parser over the given rules. With no rules it uses
// DefaultRules.
func NewParser(rules ...Rule) *Parser {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Parser{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (p *Parser) Rules() []string {
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.Name
	}
	return names
}

// Parse routes message. A parser whose rules all fail falls back to the
// default analysis intent.
func (p *Parser) Parse(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))
	for _, r := range p.rules {
		if in, ok := r.Match(msg); ok {
			in.Rule = r.Name
			return in
		}
	}
	return Intent{Operation: models.OpAnalyzeText, IsFileQuery: true, Rule: "default"}
}

var defaultParser = NewParser()

// Parse routes message with the default rules.
func Parse(message string) Intent {
	return defaultParser.Parse(message)
}

const lineSpec = `(\d+(?:\s*-\s*\d+)?(?:\s*(?:,|and)\s*\d+(?:\s*-\s*\d+)?)*)`

var (
	editVerbs = []string{
		"edit", "change", "modify", "update", "fix", "improve", "enhance",
		"rewrite", "rephrase", "revise", "adjust", "tweak", "refine", "polish",
		"shorten", "lengthen", "expand", "clarify", "simplify",
	}
	continuePhrases = []string{
		"continue", "add", "append", "extend", "proceed", "go on",
		"write more", "add more", "keep going",
	}
	summarizePhrases = []string{
		"summarize", "summary", "tldr", "summarise", "brief", "overview",
		"recap", "condense", "digest", "outline",
	}
	deletePhrases = []string{"delete", "remove", "erase"}
	analyzePhrases = []string{
		"analyze", "analyse", "review", "check", "suggest", "examine",
		"inspect", "evaluate", "assess", "explain", "describe",
		"tell me about", "what is", "what does", "how does", "show me",
		"help me understand", "what's in", "contents of", "purpose of",
		"about this file", "about the file", "understand this file",
		"understand the file",
	}

	deleteLinesRe = regexp.MustCompile(`\b(?:delete|remove|erase|drop)\b.*?\blines?\s+` + lineSpec)
	editLinesRe   = regexp.MustCompile(`\b(?:` + strings.Join(editVerbs, "|") + `)\b.*?\blines?\s+` + lineSpec)
	generateRe    = regexp.MustCompile(`\b(?:create|generate|make|draft|write)\s+(?:me\s+)?(?:a|an|new|another)\s+(?:new\s+)?(?:\w+\s+)?(?:file|document)\b`)
	continueRe    = regexp.MustCompile(`\b(?:continue|add|append|extend)\b`)
	anchorRe      = regexp.MustCompile(`\b(?:after|following|below|from)\s+(?:line\s+)?(\d+)\b`)
	lineAnchorRe  = regexp.MustCompile(`\b(?:continue|add|append|extend)\s+(?:at\s+)?line\s+(\d+)\b`)
	bareAnchorRe  = regexp.MustCompile(`\b(?:continue|add|append|extend)\s+(\d+)\b`)
	countRe       = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s+(?:more\s+|new\s+|additional\s+|extra\s+)?(?:lines?|paragraphs?)\b`)
	fileQueryRe   = regexp.MustCompile(`^(?:what|how|explain|show|tell)`)
	lineRefRe     = regexp.MustCompile(`\blines?\s+` + lineSpec)
)

// DefaultRules returns the built-in routing table.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "delete-lines", Match: matchDeleteLines},
		{Name: "edit-lines", Match: matchEditLines},
		{Name: "generate-file", Match: matchGenerateFile},
		{Name: "continue", Match: matchContinue},
		keywordRule("edit-keywords", models.OpInlineEdit, editVerbs),
		keywordRule("continue-keywords", models.OpContinueText, continuePhrases),
		keywordRule("summarize-keywords", models.OpSummarizeText, summarizePhrases),
		keywordRule("delete-keywords", models.OpDeleteText, deletePhrases),
		keywordRule("analyze-keywords", models.OpAnalyzeText, analyzePhrases),
		{Name: "default", Match: func(msg string) (Intent, bool) {
			return Intent{Operation: models.OpAnalyzeText, IsFileQuery: true, LineNumbers: LineRefs(msg)}, true
		}},
	}
}

func matchDeleteLines(msg string) (Intent, bool) {
	m := deleteLinesRe.FindStringSubmatch(msg)
	if m == nil {
		return Intent{}, false
	}
	numbers := ExtractLineNumbers(m[1])
	if len(numbers) == 0 {
		return Intent{}, false
	}
	return Intent{Operation: models.OpDeleteText, LineNumbers: numbers}, true
}

func matchEditLines(msg string) (Intent, bool) {
	m := editLinesRe.FindStringSubmatch(msg)
	if m == nil {
		return Intent{}, false
	}
	numbers := ExtractLineNumbers(m[1])
	switch len(numbers) {
	case 0:
		return Intent{}, false
	case 1:
		return Intent{Operation: models.OpInlineEdit, LineNumbers: numbers}, true
	}
	return Intent{Operation: models.OpMultiLineEdit, LineNumbers: numbers}, true
}

func matchGenerateFile(msg string) (Intent, bool) {
	if !generateRe.MatchString(msg) {
		return Intent{}, false
	}
	return Intent{Operation: models.OpGenerateFile}, true
}

func matchContinue(msg string) (Intent, bool) {
	if !continueRe.MatchString(msg) {
		return Intent{}, false
	}

	in := Intent{Operation: models.OpContinueText, RequestedCount: RequestedCount(msg)}
	if m := anchorRe.FindStringSubmatch(msg); m != nil {
		in.AfterLine = intPtr(atoi(m[1]))
	} else if m := lineAnchorRe.FindStringSubmatch(msg); m != nil {
		in.AfterLine = intPtr(atoi(m[1]))
	} else if in.RequestedCount == 0 {
		if m := bareAnchorRe.FindStringSubmatch(msg); m != nil {
			in.AfterLine = intPtr(atoi(m[1]))
		}
	}
	return in, true
}

func keywordRule(name string, op models.Operation, phrases []string) Rule {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(p), " ", `\s+`)
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)

	return Rule{Name: name, Match: func(msg string) (Intent, bool) {
		if !re.MatchString(msg) {
			return Intent{}, false
		}
		in := Intent{Operation: op}
		switch op {
		case models.OpAnalyzeText:
			in.IsFileQuery = IsFileQuery(msg)
		case models.OpContinueText:
			in.RequestedCount = RequestedCount(msg)
			return in, true
		}
		in.LineNumbers = LineRefs(msg)
		return in, true
	}}
}

// LineRefs returns the line numbers an instruction names with "line N" or
// "lines N-M, K", or nil.
func LineRefs(message string) []int {
	m := lineRefRe.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return nil
	}
	return ExtractLineNumbers(m[1])
}

// IsFileQuery reports whether an instruction asks about the whole file.
func IsFileQuery(message string) bool {
	msg := strings.ToLower(strings.TrimSpace(message))
	return strings.Contains(msg, "file") || strings.Contains(msg, "this") || fileQueryRe.MatchString(msg)
}

// RequestedCount returns the number of lines an instruction asks for
// ("add 3 lines", "two more paragraphs"), or 0.
func RequestedCount(message string) int {
	m := countRe.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return 0
	}
	if n, ok := numberWords[m[1]]; ok {
		return n
	}
	return atoi(m[1])
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

func intPtr(n int) *int { return &n }
