package blankline

import "github.com/dgallion1/docnorm/internal/wordtree"

// Scope tags where a context was built.
type Scope uint8

const (
	ScopeBody Scope = iota
	ScopeCell
)

// Context is everything a rule may look at for one position: the current
// element and its immediate neighbors, plus the owning cell and table when
// the position is inside a cell.
type Context struct {
	Doc     *wordtree.Document
	Scope   Scope
	Index   int
	Current wordtree.BodyElement
	Prev    wordtree.BodyElement
	Next    wordtree.BodyElement

	// Cell scope only.
	Cell      *wordtree.Cell
	CellIndex int
	Table     *wordtree.Table
}

// bodyContext builds the context for body position i.
func bodyContext(doc *wordtree.Document, i int) Context {
	return Context{
		Doc:     doc,
		Scope:   ScopeBody,
		Index:   i,
		Current: doc.Element(i),
		Prev:    doc.Element(i - 1),
		Next:    doc.Element(i + 1),
	}
}

// cellContext builds the context for paragraph i of a cell. Neighbors are
// the cell's own paragraphs; body-level neighbors do not apply.
func cellContext(doc *wordtree.Document, t *wordtree.Table, cell *wordtree.Cell, i int) Context {
	ctx := Context{
		Doc:       doc,
		Scope:     ScopeCell,
		Index:     i,
		CellIndex: i,
		Cell:      cell,
		Table:     t,
	}
	if p := cell.ParagraphAt(i); p != nil {
		ctx.Current = p
	}
	if p := cell.ParagraphAt(i - 1); p != nil {
		ctx.Prev = p
	}
	if p := cell.ParagraphAt(i + 1); p != nil {
		ctx.Next = p
	}
	return ctx
}

// CurrentParagraph returns the current element as a paragraph, or nil.
func (c Context) CurrentParagraph() *wordtree.Paragraph {
	p, _ := c.Current.(*wordtree.Paragraph)
	return p
}

// PrevParagraph returns the previous element as a paragraph, or nil.
func (c Context) PrevParagraph() *wordtree.Paragraph {
	p, _ := c.Prev.(*wordtree.Paragraph)
	return p
}

// NextParagraph returns the next element as a paragraph, or nil.
func (c Context) NextParagraph() *wordtree.Paragraph {
	p, _ := c.Next.(*wordtree.Paragraph)
	return p
}

// NextTable returns the next element as a table, or nil.
func (c Context) NextTable() *wordtree.Table {
	t, _ := c.Next.(*wordtree.Table)
	return t
}

// PrevTable returns the previous element as a table, or nil.
func (c Context) PrevTable() *wordtree.Table {
	t, _ := c.Prev.(*wordtree.Table)
	return t
}
