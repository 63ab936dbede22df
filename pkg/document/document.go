// Package document holds an HTML document as an ordered list of top-level
// blocks. It is the in-memory model the line tracker reads and the
// reconciler writes back to.
package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

// BlockKind is the structural kind of a top-level block.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindOther
)

// Block is one top-level unit of a document. Items of a top-level list are
// blocks of their own.
type Block struct {
	Kind    BlockKind
	Tag     string
	Level   int
	Ordered bool
	Text    string
	Inner   string
	// Attr holds the element's attributes; ListAttr those of the list a
	// list item came from.
	Attr     []xhtml.Attribute
	ListAttr []xhtml.Attribute
	// Media marks blocks that render something besides text, such as an
	// image or a rule.
	Media bool
}

// Blank reports whether the block has no visible text. Blank blocks are
// kept in the document but get no line number.
func (b Block) Blank() bool {
	return strings.TrimSpace(b.Text) == ""
}

// Spacer reports whether the block is an empty paragraph that only keeps a
// blank line between its neighbours.
func (b Block) Spacer() bool {
	return b.Kind == KindParagraph && b.Blank() && !b.Media
}

// SpacerBlock is the single-space placeholder paragraph used to keep a blank
// line between paragraphs.
func SpacerBlock() Block {
	return Block{Kind: KindParagraph, Tag: "p", Text: " ", Inner: " "}
}

// Document is an ordered list of blocks.
type Document struct {
	blocks []Block
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// FromBlocks builds a document from blocks, copying the slice.
func FromBlocks(blocks []Block) *Document {
	return &Document{blocks: append([]Block(nil), blocks...)}
}

// Parse reads an HTML body fragment into a document.
func Parse(src string) (*Document, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	doc := &Document{}
	for _, n := range nodes {
		doc.blocks = append(doc.blocks, blocksFor(n)...)
	}
	return doc, nil
}

// MustParse is Parse for trusted literals.
func MustParse(src string) *Document {
	doc, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return doc
}

func blocksFor(n *xhtml.Node) []Block {
	switch n.Type {
	case xhtml.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []Block{{Kind: KindParagraph, Tag: "p", Text: n.Data, Inner: html.EscapeString(n.Data)}}
	case xhtml.ElementNode:
	default:
		return nil
	}

	b := Block{
		Tag:   n.Data,
		Text:  textContent(n),
		Inner: innerHTML(n),
		Attr:  n.Attr,
		Media: hasMedia(n),
	}
	switch n.DataAtom {
	case atom.Ul, atom.Ol:
		var items []Block
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xhtml.ElementNode || c.DataAtom != atom.Li {
				continue
			}
			items = append(items, Block{
				Kind:     KindListItem,
				Tag:      "li",
				Ordered:  n.DataAtom == atom.Ol,
				Text:     textContent(c),
				Inner:    innerHTML(c),
				Attr:     c.Attr,
				ListAttr: n.Attr,
				Media:    hasMedia(c),
			})
		}
		return items
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		b.Kind = KindHeading
		b.Level = int(n.Data[1] - '0')
	case atom.P:
		b.Kind = KindParagraph
	default:
		b.Kind = KindOther
	}
	return []Block{b}
}

// hasMedia reports whether n is, or contains, an element that renders
// something besides text.
func hasMedia(n *xhtml.Node) bool {
	if n.Type != xhtml.ElementNode {
		return false
	}
	if voidElements[n.Data] {
		return n.DataAtom != atom.Br
	}
	switch n.DataAtom {
	case atom.Audio, atom.Canvas, atom.Iframe, atom.Object, atom.Svg, atom.Video:
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasMedia(c) {
			return true
		}
	}
	return false
}

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func textContent(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func innerHTML(n *xhtml.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on writer errors; bytes.Buffer has none.
		_ = xhtml.Render(&buf, c)
	}
	return buf.String()
}

// Blocks returns a copy of the document's blocks.
func (d *Document) Blocks() []Block {
	return append([]Block(nil), d.blocks...)
}

// Len returns the number of blocks, blank ones included.
func (d *Document) Len() int {
	return len(d.blocks)
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	return FromBlocks(d.blocks)
}

// ContentBlocks returns the non-blank blocks in order. Their 1-based
// positions are the line numbers the tracker assigns.
func (d *Document) ContentBlocks() []Block {
	var out []Block
	for _, b := range d.blocks {
		if !b.Blank() {
			out = append(out, b)
		}
	}
	return out
}

// Text returns the visible text of the document, one block per line.
func (d *Document) Text() string {
	var parts []string
	for _, b := range d.ContentBlocks() {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n")
}

// Title returns the first heading's text, falling back to the first
// non-blank block.
func (d *Document) Title() string {
	for _, b := range d.blocks {
		if b.Kind == KindHeading && !b.Blank() {
			return strings.TrimSpace(b.Text)
		}
	}
	if content := d.ContentBlocks(); len(content) > 0 {
		return strings.TrimSpace(content[0].Text)
	}
	return ""
}

// HTML renders the document. Consecutive list items are regrouped into
// a single list carrying the first item's list attributes.
func (d *Document) HTML() string {
	var sb strings.Builder
	for i := 0; i < len(d.blocks); i++ {
		b := d.blocks[i]
		if b.Kind != KindListItem {
			tag := b.Tag
			if tag == "" {
				tag = "p"
			}
			writeElement(&sb, tag, b.Attr, b.Inner)
			continue
		}

		list := "ul"
		if b.Ordered {
			list = "ol"
		}
		writeStartTag(&sb, list, b.ListAttr)
		for ; i < len(d.blocks) && d.blocks[i].Kind == KindListItem && d.blocks[i].Ordered == b.Ordered; i++ {
			writeElement(&sb, "li", d.blocks[i].Attr, d.blocks[i].Inner)
		}
		i--
		sb.WriteString("</" + list + ">")
	}
	return sb.String()
}

func writeElement(sb *strings.Builder, tag string, attrs []xhtml.Attribute, inner string) {
	writeStartTag(sb, tag, attrs)
	if voidElements[tag] {
		return
	}
	sb.WriteString(inner)
	sb.WriteString("</" + tag + ">")
}

func writeStartTag(sb *strings.Builder, tag string, attrs []xhtml.Attribute) {
	sb.WriteString("<" + tag)
	for _, a := range attrs {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace + ":")
		}
		sb.WriteString(a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	sb.WriteByte('>')
}

// Apply writes a line snapshot back into the document. prev is the
// snapshot the document's content blocks currently map to, position for
// position; it may be nil, in which case lines are matched by text.
//
// A line matched to a block keeps that block's markup when its text is
// unchanged, and the block's tag and attributes otherwise. Untracked
// blocks (spacers, rules, images) travel with the content block before
// them; those of deleted lines stay with the nearest surviving block
// above. A spacer is synthesized only after a SpacedAfter line that is
// not already followed by one.
func (d *Document) Apply(prev, lines []models.Line) {
	var lead, content []Block
	var trailing [][]Block
	for _, b := range d.blocks {
		switch {
		case !b.Blank():
			content = append(content, b)
			trailing = append(trailing, nil)
		case len(content) == 0:
			lead = append(lead, b)
		default:
			trailing[len(content)-1] = append(trailing[len(content)-1], b)
		}
	}

	byID := make(map[string]int, len(prev))
	for i, l := range prev {
		if i < len(content) && l.ID != "" {
			byID[l.ID] = i
		}
	}

	used := make([]bool, len(content))
	matched := make([]int, len(lines))
	for j, l := range lines {
		matched[j] = -1
		if prev != nil {
			if i, ok := byID[l.ID]; ok && !used[i] {
				matched[j] = i
			}
		} else {
			for i, b := range content {
				if !used[i] && b.Text == l.Content && sameShape(b, l) {
					matched[j] = i
					break
				}
			}
		}
		if matched[j] >= 0 {
			used[matched[j]] = true
		}
	}

	// Blocks that followed a removed line move up to the last kept one.
	carried := make([][]Block, len(content))
	owner := -1
	for i := range content {
		if used[i] {
			owner = i
			continue
		}
		for _, b := range trailing[i] {
			if b.Spacer() {
				continue
			}
			if owner < 0 {
				lead = append(lead, b)
			} else {
				carried[owner] = append(carried[owner], b)
			}
		}
	}

	next := make([]Block, 0, len(d.blocks)+len(lines))
	next = append(next, lead...)
	for j, l := range lines {
		var after []Block
		if i := matched[j]; i >= 0 {
			next = append(next, restyle(content[i], l))
			after = append(append(after, trailing[i]...), carried[i]...)
		} else {
			next = append(next, blockForLine(l))
		}
		if l.SpacedAfter && (len(after) == 0 || !after[0].Spacer()) {
			next = append(next, SpacerBlock())
		}
		next = append(next, after...)
	}
	d.blocks = next
}

// sameShape reports whether l can be rendered with b's element.
func sameShape(b Block, l models.Line) bool {
	if (b.Kind == KindListItem) != (l.Type == models.LineListItem) {
		return false
	}
	if b.Kind == KindHeading {
		return l.HeadingLevel() == b.Level
	}
	return l.HeadingLevel() == 0
}

func restyle(b Block, l models.Line) Block {
	if !sameShape(b, l) {
		return blockForLine(l)
	}
	if b.Text == l.Content {
		return b
	}
	b.Text = l.Content
	b.Inner = html.EscapeString(l.Content)
	b.Media = false
	return b
}

func blockForLine(l models.Line) Block {
	inner := html.EscapeString(l.Content)
	if l.Type == models.LineListItem {
		ordered := l.Attrs != nil && l.Attrs.Ordered
		return Block{Kind: KindListItem, Tag: "li", Ordered: ordered, Text: l.Content, Inner: inner}
	}
	if level := l.HeadingLevel(); level >= 1 && level <= 6 {
		return Block{Kind: KindHeading, Tag: fmt.Sprintf("h%d", level), Level: level, Text: l.Content, Inner: inner}
	}
	return Block{Kind: KindParagraph, Tag: "p", Text: l.Content, Inner: inner}
}

// FromText builds a document from plain text. Blank lines separate
// paragraphs; text that already looks like HTML is parsed as such.
func FromText(text string) (*Document, error) {
	trimmed := strings.TrimSpace(text)
	if looksLikeHTML(trimmed) {
		return Parse(trimmed)
	}

	doc := New()
	for _, para := range paragraphSplit.Split(trimmed, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if strings.HasPrefix(para, "# ") {
			title := strings.TrimSpace(strings.TrimPrefix(para, "# "))
			doc.blocks = append(doc.blocks, Block{Kind: KindHeading, Tag: "h1", Level: 1, Text: title, Inner: html.EscapeString(title)})
			continue
		}
		doc.blocks = append(doc.blocks, Block{Kind: KindParagraph, Tag: "p", Text: para, Inner: html.EscapeString(para)})
	}
	return doc, nil
}

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	htmlBlockRe    = regexp.MustCompile(`(?i)^<(?:p|h[1-6]|ul|ol|div|blockquote)[\s>]`)
)

func looksLikeHTML(s string) bool {
	return htmlBlockRe.MatchString(s)
}
