package blankline

import (
	"fmt"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

// bodyBlank records the neighbor fingerprints of one blank paragraph found
// at body scope before any mutation.
type bodyBlank struct {
	before ElementHash
	after  ElementHash
}

// cellBlank records one blank paragraph found inside a cell, keyed by a
// cell id that stays stable across body-index shifts.
type cellBlank struct {
	cellID    string
	paraIndex int
	before    ElementHash
	after     ElementHash
}

// Snapshot is the pre-mutation record of every blank paragraph's position,
// reduced to neighbor fingerprints. It is read-only after Capture and
// feeds only the preservation fallback; it is unrelated to whole-document
// backups kept elsewhere.
type Snapshot struct {
	bodyBlanks []bodyBlank
	cellBlanks []cellBlank
}

// Capture walks the unmodified tree and fingerprints the neighbors of
// every blank paragraph, at body scope and inside every cell. Must run
// before any rule phase: later phases shift indices and the fingerprints
// are the only way positions survive that.
func Capture(doc *wordtree.Document) *Snapshot {
	snap := &Snapshot{}

	for i := 0; i < doc.Len(); i++ {
		p, ok := doc.Element(i).(*wordtree.Paragraph)
		if !ok || !IsBlank(p) {
			continue
		}
		snap.bodyBlanks = append(snap.bodyBlanks, bodyBlank{
			before: HashElement(doc.Element(i - 1)),
			after:  HashElement(doc.Element(i + 1)),
		})
	}

	tableIndex := 0
	for i := 0; i < doc.Len(); i++ {
		t, ok := doc.Element(i).(*wordtree.Table)
		if !ok {
			continue
		}
		for r, row := range t.Rows() {
			for c, cell := range row.Cells() {
				id := cellID(tableIndex, r, c, t)
				paras := cell.Paragraphs()
				for j, p := range paras {
					if !IsBlank(p) {
						continue
					}
					snap.cellBlanks = append(snap.cellBlanks, cellBlank{
						cellID:    id,
						paraIndex: j,
						before:    hashCellNeighbor(paras, j-1),
						after:     hashCellNeighbor(paras, j+1),
					})
				}
			}
		}
		tableIndex++
	}

	return snap
}

// cellID builds a cell key from the table's body ordinal, the row/column
// position and the table's first-cell text prefix. Row and column counts
// do not change in this engine, but the format must stay stable across
// phases, so the text prefix disambiguates tables whose ordinal shifts.
func cellID(tableIndex, row, col int, t *wordtree.Table) string {
	return fmt.Sprintf("t%d-r%d-c%d-%s", tableIndex, row, col, textPrefix(t.FirstCellText()))
}

func hashCellNeighbor(paras []*wordtree.Paragraph, i int) ElementHash {
	if i < 0 || i >= len(paras) {
		return ElementHash{Kind: KindNone}
	}
	return HashElement(paras[i])
}

// wasBlankAtBody reports whether a blank paragraph originally sat at the
// given body position. It recomputes the neighbor fingerprints at the
// current index (the element now occupying the slot becomes the "after"
// neighbor) and looks for a matching record. Approximate by design.
func (s *Snapshot) wasBlankAtBody(doc *wordtree.Document, index int) bool {
	if s == nil {
		return false
	}
	before := HashElement(doc.Element(index - 1))
	after := HashElement(doc.Element(index))
	for _, rec := range s.bodyBlanks {
		if hashesMatch(rec.before, before) && hashesMatch(rec.after, after) {
			return true
		}
	}
	return false
}

// wasBlankInCell is the cell-scope equivalent of wasBlankAtBody, keyed by
// the cell id so only that cell's records are considered.
func (s *Snapshot) wasBlankInCell(id string, cell *wordtree.Cell, paraIndex int) bool {
	if s == nil {
		return false
	}
	paras := cell.Paragraphs()
	before := hashCellNeighbor(paras, paraIndex-1)
	after := hashCellNeighbor(paras, paraIndex)
	for _, rec := range s.cellBlanks {
		if rec.cellID != id {
			continue
		}
		if hashesMatch(rec.before, before) && hashesMatch(rec.after, after) {
			return true
		}
	}
	return false
}

// BodyBlankCount returns how many body-scope blanks were captured.
func (s *Snapshot) BodyBlankCount() int {
	if s == nil {
		return 0
	}
	return len(s.bodyBlanks)
}

// CellBlankCount returns how many cell-scope blanks were captured.
func (s *Snapshot) CellBlankCount() int {
	if s == nil {
		return 0
	}
	return len(s.cellBlanks)
}
