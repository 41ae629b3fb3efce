// Package wordtree is an in-memory model of a word-processing document
// body: an ordered sequence of paragraphs and tables, with cells that own
// their own paragraph lists. It exposes exactly the read/write surface the
// blank-line engine consumes and makes no attempt to round-trip the binary
// file format; parsing lives in internal/parser.
package wordtree

// BodyElement is a top-level document element: *Paragraph or *Table.
type BodyElement interface {
	bodyElement()
}

// Style is a named paragraph style as far as this engine cares: an id and
// the left indent the style contributes when a paragraph has none of its own.
type Style struct {
	ID         string
	LeftIndent int // twips, 0 when the style defines none
}

// Document is the mutable body-element sequence plus the style registry.
type Document struct {
	elements []BodyElement
	styles   map[string]Style
}

// NewDocument builds an empty document.
func NewDocument(elements ...BodyElement) *Document {
	return &Document{
		elements: elements,
		styles:   make(map[string]Style),
	}
}

// Len returns the number of body elements.
func (d *Document) Len() int { return len(d.elements) }

// Element returns the body element at i, or nil when out of range.
func (d *Document) Element(i int) BodyElement {
	if i < 0 || i >= len(d.elements) {
		return nil
	}
	return d.elements[i]
}

// Append adds elements at the end of the body.
func (d *Document) Append(elements ...BodyElement) {
	d.elements = append(d.elements, elements...)
}

// InsertAt inserts el so it occupies index i. Out-of-range indices clamp.
func (d *Document) InsertAt(i int, el BodyElement) {
	if i < 0 {
		i = 0
	}
	if i > len(d.elements) {
		i = len(d.elements)
	}
	d.elements = append(d.elements, nil)
	copy(d.elements[i+1:], d.elements[i:])
	d.elements[i] = el
}

// RemoveAt removes the element at i. No-op when out of range.
func (d *Document) RemoveAt(i int) {
	if i < 0 || i >= len(d.elements) {
		return
	}
	d.elements = append(d.elements[:i], d.elements[i+1:]...)
}

// Tables returns the body-level tables in document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range d.elements {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// DefineStyle registers or replaces a style definition.
func (d *Document) DefineStyle(s Style) {
	if d.styles == nil {
		d.styles = make(map[string]Style)
	}
	d.styles[s.ID] = s
}

// StyleByID looks up a registered style.
func (d *Document) StyleByID(id string) (Style, bool) {
	s, ok := d.styles[id]
	return s, ok
}
