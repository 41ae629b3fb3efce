// Package blankline normalizes vertical whitespace in a word-processing
// document tree: context-sensitive removal and insertion of blank
// separator paragraphs, preservation of author spacing no rule governs,
// indentation alignment of list continuations, and a final dedup/restyle
// pass. The tree is mutated in place; the engine owns nothing beyond one
// Process call and must not run concurrently on the same tree.
package blankline

import (
	"strings"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

// Normalize captures a snapshot of the untouched tree and runs the full
// pipeline. Callers that need the snapshot earlier (before other host
// passes mutate the tree) call Capture and Process separately.
func Normalize(doc *wordtree.Document, opts Options) Counts {
	return Process(doc, Capture(doc), opts)
}

// Process runs the fixed seven-phase pipeline over the whole tree and
// returns aggregate mutation counts. Phase order is load-bearing: removal
// must finish before addition (so addition never sees doomed blanks as
// already present), addition before preservation (rule-driven blanks
// outrank raw preservation), and indentation after all of them (it only
// touches the final paragraph set).
func Process(doc *wordtree.Document, snap *Snapshot, opts Options) Counts {
	e := &engine{doc: doc, snap: snap, opts: opts}

	e.stripSmallIndents()
	e.removeBodyBlanks()
	e.removeCellBlanks()
	e.addBodyBlanks()
	e.addCellBlanks()
	e.preserveBodyBlanks()
	e.preserveCellBlanks()
	e.alignIndentation()
	e.dedupBlanks()
	e.restyleBlanks()

	return e.counts
}

type engine struct {
	doc    *wordtree.Document
	snap   *Snapshot
	opts   Options
	counts Counts
}

// newBlank synthesizes an empty paragraph carrying the configured style.
func (e *engine) newBlank() *wordtree.Paragraph {
	p := wordtree.NewParagraph()
	if e.opts.BlankStyle.StyleID != "" {
		p.SetStyle(e.opts.BlankStyle.StyleID)
	}
	return p
}

// tableHasNestedContent reports whether any cell of the table contains a
// nested table. Such tables are skipped by every structural phase.
func tableHasNestedContent(t *wordtree.Table) bool {
	for _, row := range t.Rows() {
		for _, cell := range row.Cells() {
			if cell.HasNestedTable() {
				return true
			}
		}
	}
	return false
}

// removeBodyBlanks walks the body backward, which stays safe under
// in-place deletion, and deletes every unprotected blank the removal
// table claims.
func (e *engine) removeBodyBlanks() {
	for i := e.doc.Len() - 1; i >= 0; i-- {
		p, ok := e.doc.Element(i).(*wordtree.Paragraph)
		if !ok || !IsBlank(p) || p.IsPreserved() {
			continue
		}
		if _, matched := firstMatch(removalRules, bodyContext(e.doc, i)); matched {
			e.doc.RemoveAt(i)
			e.counts.Removed++
		}
	}
}

// removeCellBlanks applies the same logic inside every cell of every
// body-level table, skipping nested-content tables and never deleting a
// cell's only remaining paragraph.
func (e *engine) removeCellBlanks() {
	for _, t := range e.doc.Tables() {
		if tableHasNestedContent(t) {
			continue
		}
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for i := len(cell.Paragraphs()) - 1; i >= 0; i-- {
					if len(cell.Paragraphs()) <= 1 {
						break
					}
					p := cell.ParagraphAt(i)
					if !IsBlank(p) || p.IsPreserved() {
						continue
					}
					ctx := cellContext(e.doc, t, cell, i)
					if _, matched := firstMatch(removalRules, ctx); matched {
						cell.RemoveParagraphAt(i)
						e.counts.Removed++
					}
				}
			}
		}
	}
}

// addBodyBlanks walks the body forward, inserting blanks where the
// addition table demands one and skipping past each fresh insertion. The
// large-image check is orthogonal to the rule table: a non-blank
// paragraph carrying a large image gets a blank above it unless the
// previous element is already blank or is centered non-empty text.
func (e *engine) addBodyBlanks() {
	for i := 0; i < e.doc.Len(); i++ {
		if e.blankAboveLargeImage(i) {
			i++
		}

		ctx := bodyContext(e.doc, i)
		rule, matched := firstMatch(additionRules, ctx)
		if !matched {
			continue
		}
		if rule.ID == AddAboveNavLink {
			// The nav link loses its indent whenever the rule fires,
			// whether or not a blank gets inserted.
			if next := ctx.NextParagraph(); next != nil {
				next.SetLeftIndent(0)
			}
		}
		if e.blankExistsAt(ctx, rule) {
			continue
		}
		e.doc.InsertAt(i+1, e.newBlank())
		e.counts.Added++
		i++
	}
}

// blankAboveLargeImage inserts the above-image blank at body position i
// when warranted and reports whether it did.
func (e *engine) blankAboveLargeImage(i int) bool {
	p, ok := e.doc.Element(i).(*wordtree.Paragraph)
	if !ok || i == 0 || IsBlank(p) || !HasLargeImage(p) {
		return false
	}
	if prev, ok := e.doc.Element(i - 1).(*wordtree.Paragraph); ok {
		if IsBlank(prev) {
			return false
		}
		if IsCentered(prev) && strings.TrimSpace(prev.Text()) != "" {
			return false
		}
	}
	e.doc.InsertAt(i, e.newBlank())
	e.counts.Added++
	return true
}

// blankExistsAt checks the slot a matched addition rule targets. Rules in
// the insertsBefore set trigger on the next element, so the blank would
// sit where the current element is; all others trigger on the current
// element and the blank would sit where the next element is.
func (e *engine) blankExistsAt(ctx Context, rule Rule) bool {
	var neighbor *wordtree.Paragraph
	if insertsBefore[rule.ID] {
		neighbor = ctx.CurrentParagraph()
	} else {
		neighbor = ctx.NextParagraph()
	}
	return neighbor != nil && IsBlank(neighbor)
}

// addCellBlanks runs the addition walk inside every cell, restricted to
// cell-scoped rules, never inserting at a cell's last slot.
func (e *engine) addCellBlanks() {
	for _, t := range e.doc.Tables() {
		if tableHasNestedContent(t) {
			continue
		}
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				e.addBlanksInCell(t, cell)
			}
		}
	}
}

func (e *engine) addBlanksInCell(t *wordtree.Table, cell *wordtree.Cell) {
	for i := 0; i < len(cell.Paragraphs()); i++ {
		if e.cellBlankAboveLargeImage(cell, i) {
			i++
		}

		ctx := cellContext(e.doc, t, cell, i)
		rule, matched := firstMatch(additionRules, ctx)
		if !matched || e.blankExistsAt(ctx, rule) {
			continue
		}
		target := i + 1
		if target >= len(cell.Paragraphs()) {
			continue
		}
		cell.InsertParagraphAt(target, e.newBlank())
		e.counts.Added++
		i++
	}
}

func (e *engine) cellBlankAboveLargeImage(cell *wordtree.Cell, i int) bool {
	p := cell.ParagraphAt(i)
	if p == nil || i == 0 || IsBlank(p) || !HasLargeImage(p) {
		return false
	}
	if prev := cell.ParagraphAt(i - 1); prev != nil {
		if IsBlank(prev) {
			return false
		}
		if IsCentered(prev) && strings.TrimSpace(prev.Text()) != "" {
			return false
		}
	}
	cell.InsertParagraphAt(i, e.newBlank())
	e.counts.Added++
	return true
}

// preserveBodyBlanks reinstates author blanks at body positions where the
// snapshot says one originally lived, no blank currently exists, and no
// removal rule would immediately claim the reinstated blank. Runs after
// both rule phases so rule decisions always win over raw preservation.
func (e *engine) preserveBodyBlanks() {
	for i := 1; i < e.doc.Len(); i++ {
		if isBlankElement(e.doc.Element(i-1)) || isBlankElement(e.doc.Element(i)) {
			continue
		}
		if !e.snap.wasBlankAtBody(e.doc, i) {
			continue
		}
		blank := e.newBlank()
		hypothetical := Context{
			Doc:     e.doc,
			Scope:   ScopeBody,
			Index:   i,
			Current: blank,
			Prev:    e.doc.Element(i - 1),
			Next:    e.doc.Element(i),
		}
		if _, matched := firstMatch(removalRules, hypothetical); matched {
			continue
		}
		e.doc.InsertAt(i, blank)
		e.counts.Preserved++
		i++
	}
}

// preserveCellBlanks is the per-cell preservation walk, keyed by cell id.
func (e *engine) preserveCellBlanks() {
	tableIndex := 0
	for i := 0; i < e.doc.Len(); i++ {
		t, ok := e.doc.Element(i).(*wordtree.Table)
		if !ok {
			continue
		}
		idx := tableIndex
		tableIndex++
		if tableHasNestedContent(t) {
			continue
		}
		for r, row := range t.Rows() {
			for c, cell := range row.Cells() {
				e.preserveBlanksInCell(t, cell, cellID(idx, r, c, t))
			}
		}
	}
}

func (e *engine) preserveBlanksInCell(t *wordtree.Table, cell *wordtree.Cell, id string) {
	for i := 1; i < len(cell.Paragraphs()); i++ {
		if IsBlank(cell.ParagraphAt(i-1)) || IsBlank(cell.ParagraphAt(i)) {
			continue
		}
		if !e.snap.wasBlankInCell(id, cell, i) {
			continue
		}
		blank := e.newBlank()
		hypothetical := Context{
			Doc:       e.doc,
			Scope:     ScopeCell,
			Index:     i,
			CellIndex: i,
			Cell:      cell,
			Table:     t,
			Current:   blank,
			Prev:      cell.ParagraphAt(i - 1),
			Next:      cell.ParagraphAt(i),
		}
		if _, matched := firstMatch(removalRules, hypothetical); matched {
			continue
		}
		cell.InsertParagraphAt(i, blank)
		e.counts.Preserved++
		i++
	}
}

// dedupBlanks collapses any adjacent blank pair to a single blank, then
// strips trailing blanks from cells down to the last non-blank content,
// never dropping a cell below one paragraph.
func (e *engine) dedupBlanks() {
	for i := e.doc.Len() - 1; i >= 1; i-- {
		if isBlankElement(e.doc.Element(i)) && isBlankElement(e.doc.Element(i-1)) {
			e.doc.RemoveAt(i)
		}
	}

	for _, t := range e.doc.Tables() {
		if tableHasNestedContent(t) {
			continue
		}
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for i := len(cell.Paragraphs()) - 1; i >= 1; i-- {
					if IsBlank(cell.ParagraphAt(i)) && IsBlank(cell.ParagraphAt(i-1)) {
						cell.RemoveParagraphAt(i)
					}
				}
				for len(cell.Paragraphs()) > 1 {
					last := len(cell.Paragraphs()) - 1
					if !IsBlank(cell.ParagraphAt(last)) {
						break
					}
					cell.RemoveParagraphAt(last)
				}
			}
		}
	}
}

// restyleBlanks forces every surviving blank paragraph to the configured
// uniform look, regardless of which phase created or preserved it.
func (e *engine) restyleBlanks() {
	for i := 0; i < e.doc.Len(); i++ {
		if p, ok := e.doc.Element(i).(*wordtree.Paragraph); ok && IsBlank(p) {
			e.restyle(p)
		}
	}
	for _, t := range e.doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					if IsBlank(p) {
						e.restyle(p)
					}
				}
			}
		}
	}
}

func (e *engine) restyle(p *wordtree.Paragraph) {
	bs := e.opts.BlankStyle
	if bs.StyleID != "" {
		p.SetStyle(bs.StyleID)
	}
	p.SetSpaceBefore(bs.SpaceBefore)
	p.SetSpaceAfter(bs.SpaceAfter)
	if bs.LineSpacing > 0 {
		p.SetLineSpacing(bs.LineSpacing)
	}
	if bs.FontFamily != "" || bs.FontSize > 0 {
		p.SetFont(bs.FontFamily, bs.FontSize)
	}
}

func isBlankElement(el wordtree.BodyElement) bool {
	p, ok := el.(*wordtree.Paragraph)
	return ok && IsBlank(p)
}
