package wordtree

import "strings"

// Alignment is the paragraph justification value.
type Alignment string

const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignBoth    Alignment = "both"
)

// Numbering ties a paragraph to a list definition and level.
type Numbering struct {
	ListID int
	Level  int
}

// Formatting holds direct paragraph-level formatting. Zero values mean
// "not set"; twips for indents and spacing, points for font size.
type Formatting struct {
	LeftIndent  int
	SpaceBefore int
	SpaceAfter  int
	LineSpacing float64
	Alignment   Alignment
	FontFamily  string
	FontSize    float64
}

// Paragraph is a body element holding an ordered list of content items.
type Paragraph struct {
	items     []Content
	style     string
	numbering *Numbering
	format    Formatting
	bookmarks []string
	preserved bool
}

// NewParagraph builds a paragraph from content items.
func NewParagraph(items ...Content) *Paragraph {
	return &Paragraph{items: items}
}

// NewTextParagraph builds a single-run paragraph, the common case in tests
// and in synthesized blanks.
func NewTextParagraph(text string) *Paragraph {
	if text == "" {
		return &Paragraph{}
	}
	return &Paragraph{items: []Content{&Run{Text: text}}}
}

func (*Paragraph) bodyElement() {}

// Text returns the paragraph's visible plain text.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, item := range p.items {
		visibleText(&sb, item)
	}
	return sb.String()
}

// Content returns the paragraph's content items in order.
func (p *Paragraph) Content() []Content {
	return p.items
}

// AddContent appends a content item.
func (p *Paragraph) AddContent(items ...Content) {
	p.items = append(p.items, items...)
}

// Style returns the paragraph style identifier ("" when unset).
func (p *Paragraph) Style() string { return p.style }

// SetStyle replaces the paragraph style identifier.
func (p *Paragraph) SetStyle(id string) { p.style = id }

// Numbering returns the list binding, or nil for non-list paragraphs.
func (p *Paragraph) Numbering() *Numbering { return p.numbering }

// SetNumbering attaches or clears the list binding.
func (p *Paragraph) SetNumbering(n *Numbering) { p.numbering = n }

// Format returns the direct formatting.
func (p *Paragraph) Format() Formatting { return p.format }

func (p *Paragraph) SetLeftIndent(twips int)    { p.format.LeftIndent = twips }
func (p *Paragraph) SetSpaceBefore(twips int)   { p.format.SpaceBefore = twips }
func (p *Paragraph) SetSpaceAfter(twips int)    { p.format.SpaceAfter = twips }
func (p *Paragraph) SetLineSpacing(v float64)   { p.format.LineSpacing = v }
func (p *Paragraph) SetAlignment(a Alignment)   { p.format.Alignment = a }
func (p *Paragraph) SetFont(family string, size float64) {
	p.format.FontFamily = family
	p.format.FontSize = size
}

// Bookmarks returns bookmark names anchored in this paragraph.
func (p *Paragraph) Bookmarks() []string { return p.bookmarks }

// AddBookmark anchors a bookmark in this paragraph.
func (p *Paragraph) AddBookmark(name string) {
	p.bookmarks = append(p.bookmarks, name)
}

// IsPreserved reports whether the host marked this paragraph as protected
// from structural edits (live TOC fields and similar).
func (p *Paragraph) IsPreserved() bool { return p.preserved }

// SetPreserved marks or unmarks the paragraph as protected.
func (p *Paragraph) SetPreserved(v bool) { p.preserved = v }
