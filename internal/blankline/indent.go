package blankline

import (
	"strings"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

// stripSmallIndents clears direct left indents under 0.25" from non-blank,
// non-list paragraphs at body and cell scope. Trivial indentation is
// template noise and would otherwise make the rule tables read it as
// intentional structure. Runs before any rule phase.
func (e *engine) stripSmallIndents() {
	for i := 0; i < e.doc.Len(); i++ {
		if p, ok := e.doc.Element(i).(*wordtree.Paragraph); ok {
			stripSmallIndent(p)
		}
	}
	for _, t := range e.doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					stripSmallIndent(p)
				}
			}
		}
	}
}

func stripSmallIndent(p *wordtree.Paragraph) {
	if IsBlank(p) || IsListItem(p) {
		return
	}
	if indent := p.Format().LeftIndent; indent > 0 && indent < smallIndentTwips {
		p.SetLeftIndent(0)
	}
}

// alignIndentation aligns list-continuation paragraphs with the governing
// list level. For every non-list indented paragraph it scans backward for
// the nearest list item, stopping at a table boundary or at non-indented
// non-list text; when found, the paragraph's indent becomes the configured
// text indent for that item's level. When no governing item exists but the
// immediately preceding paragraph is itself indented, the paragraph joins
// the continuation chain at the level-0 indent. Runs after the rule phases
// so it only ever sees the final paragraph set.
func (e *engine) alignIndentation() {
	for i := 0; i < e.doc.Len(); i++ {
		p, ok := e.doc.Element(i).(*wordtree.Paragraph)
		if !ok || !e.needsAlignment(p) {
			continue
		}
		if level, found := e.governingListLevelBody(i); found {
			e.setAlignedIndent(p, e.opts.textIndentFor(level))
			continue
		}
		if prev, ok := e.doc.Element(i - 1).(*wordtree.Paragraph); ok {
			if !IsListItem(prev) && IsIndented(prev, e.doc) {
				e.setAlignedIndent(p, e.opts.textIndentFor(0))
			}
		}
	}

	for _, t := range e.doc.Tables() {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				e.alignIndentationInCell(cell)
			}
		}
	}
}

func (e *engine) alignIndentationInCell(cell *wordtree.Cell) {
	paras := cell.Paragraphs()
	for i, p := range paras {
		if !e.needsAlignment(p) {
			continue
		}
		if level, found := e.governingListLevelCell(paras, i); found {
			e.setAlignedIndent(p, e.opts.textIndentFor(level))
			continue
		}
		if i > 0 && !IsListItem(paras[i-1]) && IsIndented(paras[i-1], e.doc) {
			e.setAlignedIndent(p, e.opts.textIndentFor(0))
		}
	}
}

func (e *engine) needsAlignment(p *wordtree.Paragraph) bool {
	return p != nil && !IsBlank(p) && !IsListItem(p) && IsIndented(p, e.doc)
}

func (e *engine) setAlignedIndent(p *wordtree.Paragraph, target int) {
	if p.Format().LeftIndent == target {
		return
	}
	p.SetLeftIndent(target)
	e.counts.IndentFixed++
}

// governingListLevelBody scans backward from body position i for the list
// item governing a continuation paragraph.
func (e *engine) governingListLevelBody(i int) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		p, ok := e.doc.Element(j).(*wordtree.Paragraph)
		if !ok {
			// Table boundary: the continuation chain does not cross it.
			return 0, false
		}
		if IsListItem(p) {
			return p.Numbering().Level, true
		}
		if IsBlank(p) || IsIndented(p, e.doc) {
			continue
		}
		if strings.TrimSpace(p.Text()) != "" {
			// Non-indented body text ends the chain.
			return 0, false
		}
	}
	return 0, false
}

func (e *engine) governingListLevelCell(paras []*wordtree.Paragraph, i int) (int, bool) {
	for j := i - 1; j >= 0; j-- {
		p := paras[j]
		if IsListItem(p) {
			return p.Numbering().Level, true
		}
		if IsBlank(p) || IsIndented(p, e.doc) {
			continue
		}
		if strings.TrimSpace(p.Text()) != "" {
			return 0, false
		}
	}
	return 0, false
}
