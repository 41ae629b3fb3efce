package wordtree

import "strings"

// Content is an item inside a paragraph: a text run, hyperlink, image,
// field code, text box, or a tracked-change wrapper holding nested items.
type Content interface {
	content()
}

// Run is a contiguous span of text with uniform formatting.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Font   string
	Size   float64 // points
}

// Hyperlink is a clickable link with display text.
type Hyperlink struct {
	Text   string
	Target string
}

// Image is an embedded picture. Dimensions are in EMU (914400 per inch,
// 9525 per pixel at 96 DPI).
type Image struct {
	WidthEMU  int64
	HeightEMU int64
}

// Field is a field code (TOC, PAGEREF, ...) with its cached result text.
type Field struct {
	Instruction string
	Result      string
}

// TextBox is a floating shape or text box anchored to the paragraph.
type TextBox struct {
	Text string
}

// RevisionKind distinguishes tracked insertions from tracked deletions.
type RevisionKind uint8

const (
	RevisionInsert RevisionKind = iota
	RevisionDelete
)

// Revision wraps content items recorded as a tracked change.
type Revision struct {
	Kind  RevisionKind
	Items []Content
}

func (*Run) content()       {}
func (*Hyperlink) content() {}
func (*Image) content()     {}
func (*Field) content()     {}
func (*TextBox) content()   {}
func (*Revision) content()  {}

// visibleText appends the rendered text of a content item. Delete
// revisions contribute nothing; insert revisions contribute their
// nested items.
func visibleText(sb *strings.Builder, c Content) {
	switch item := c.(type) {
	case *Run:
		sb.WriteString(item.Text)
	case *Hyperlink:
		sb.WriteString(item.Text)
	case *Field:
		sb.WriteString(item.Result)
	case *TextBox:
		sb.WriteString(item.Text)
	case *Revision:
		if item.Kind == RevisionDelete {
			return
		}
		for _, nested := range item.Items {
			visibleText(sb, nested)
		}
	}
}
