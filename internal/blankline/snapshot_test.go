package blankline

import (
	"testing"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

func TestCapture_Counts(t *testing.T) {
	table := wordtree.NewTable(1, 2)
	cell, _ := table.Cell(0, 0)
	cell.ParagraphAt(0).AddContent(&wordtree.Run{Text: "cell text"})
	cell.InsertParagraphAt(1, blankPara())
	cell.InsertParagraphAt(2, textPara("more"))
	// The sibling cell's default paragraph is itself a blank and counts too.

	doc := wordtree.NewDocument(
		textPara("alpha"),
		blankPara(),
		textPara("beta"),
		blankPara(),
		table,
	)

	snap := Capture(doc)
	if got := snap.BodyBlankCount(); got != 2 {
		t.Errorf("expected 2 body blanks, got %d", got)
	}
	if got := snap.CellBlankCount(); got != 2 {
		t.Errorf("expected 2 cell blanks, got %d", got)
	}
}

func TestWasBlankAtBody_AfterShift(t *testing.T) {
	doc := wordtree.NewDocument(
		textPara("alpha"),
		blankPara(),
		textPara("beta"),
		textPara("gamma"),
	)
	snap := Capture(doc)

	// Drop the blank; "beta" shifts into its slot.
	doc.RemoveAt(1)

	if !snap.wasBlankAtBody(doc, 1) {
		t.Error("expected a blank record between alpha and beta")
	}
	if snap.wasBlankAtBody(doc, 2) {
		t.Error("no blank was recorded between beta and gamma")
	}
	if snap.wasBlankAtBody(doc, 0) {
		t.Error("no blank was recorded at the document start")
	}
}

func TestWasBlankAtBody_DocumentEdges(t *testing.T) {
	doc := wordtree.NewDocument(
		blankPara(),
		textPara("body"),
		blankPara(),
	)
	snap := Capture(doc)

	doc.RemoveAt(2)
	doc.RemoveAt(0)

	if !snap.wasBlankAtBody(doc, 0) {
		t.Error("expected a leading-blank record (KindNone before neighbor)")
	}
	if !snap.wasBlankAtBody(doc, 1) {
		t.Error("expected a trailing-blank record (KindNone after neighbor)")
	}
}

func TestWasBlankInCell_AfterShift(t *testing.T) {
	table := wordtree.NewTable(1, 1)
	cell, _ := table.Cell(0, 0)
	cell.ParagraphAt(0).AddContent(&wordtree.Run{Text: "first"})
	cell.InsertParagraphAt(1, blankPara())
	cell.InsertParagraphAt(2, textPara("second"))

	doc := wordtree.NewDocument(table)
	snap := Capture(doc)

	cell.RemoveParagraphAt(1)

	id := cellID(0, 0, 0, table)
	if !snap.wasBlankInCell(id, cell, 1) {
		t.Error("expected a blank record between first and second")
	}
	if snap.wasBlankInCell(id, cell, 0) {
		t.Error("no blank was recorded before first")
	}
	if snap.wasBlankInCell("t9-r0-c0-other", cell, 1) {
		t.Error("records must not leak across cell ids")
	}
}

func TestSnapshot_NilSafe(t *testing.T) {
	var snap *Snapshot
	doc := wordtree.NewDocument(textPara("x"))

	if snap.wasBlankAtBody(doc, 0) {
		t.Error("nil snapshot must report no blanks")
	}
	if snap.BodyBlankCount() != 0 || snap.CellBlankCount() != 0 {
		t.Error("nil snapshot counts must be zero")
	}
}
