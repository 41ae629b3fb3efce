package blankline

import (
	"testing"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

func TestFirstMatch_OrderWins(t *testing.T) {
	// A blank whose next neighbor is both a heading and a list item can
	// match two removal rules; the earlier one must win.
	numberedHeading := heading1("Section")
	numberedHeading.SetNumbering(&wordtree.Numbering{ListID: 1, Level: 0})
	doc := wordtree.NewDocument(
		listItem("prev item", 0),
		blankPara(),
		numberedHeading,
	)

	rule, matched := firstMatch(removalRules, bodyContext(doc, 1))
	if !matched {
		t.Fatal("expected a removal rule to match")
	}
	if rule.ID != RemoveBeforeHeading1 {
		t.Errorf("expected %s to win, got %s", RemoveBeforeHeading1, rule.ID)
	}
}

func TestFirstMatch_ScopeFilter(t *testing.T) {
	// RemoveCellFirstParagraph is cell-only; a body context that would
	// otherwise satisfy its predicate must not match it.
	doc := wordtree.NewDocument(blankPara(), textPara("body"))
	ctx := bodyContext(doc, 0)
	ctx.Table = wordtree.NewTable(2, 1)

	if rule, matched := firstMatch(removalRules, ctx); matched {
		t.Errorf("expected no match at body scope, got %s", rule.ID)
	}
}

func TestTableShapePredicates(t *testing.T) {
	if !isSquareTable(wordtree.NewTable(1, 1)) {
		t.Error("1x1 table should be square")
	}
	if isSquareTable(wordtree.NewTable(2, 1)) || isSquareTable(wordtree.NewTable(1, 2)) {
		t.Error("tables with more than one row or column are not square")
	}
	if isSquareTable(nil) {
		t.Error("nil table is not square")
	}

	if !isLargeTable(wordtree.NewTable(2, 1)) || !isLargeTable(wordtree.NewTable(1, 2)) {
		t.Error("multi-row and multi-column tables should be large")
	}
	if isLargeTable(wordtree.NewTable(1, 1)) {
		t.Error("1x1 table is not large")
	}
	if isLargeTable(nil) {
		t.Error("nil table is not large")
	}
}

func TestIsFirstSquareTable(t *testing.T) {
	first := squareTable("first")
	second := squareTable("second")
	doc := wordtree.NewDocument(
		wordtree.NewTable(2, 2), // large table does not count
		first,
		textPara("between"),
		second,
	)

	if !isFirstSquareTable(doc, first) {
		t.Error("expected the first 1x1 table to be recognized")
	}
	if isFirstSquareTable(doc, second) {
		t.Error("the second 1x1 table is not the first")
	}
	if isFirstSquareTable(doc, nil) {
		t.Error("nil table is never the first")
	}
}

func TestRelatedDocTableNearby(t *testing.T) {
	doc := wordtree.NewDocument(squareTable("Related Documents"))
	for i := 0; i < 20; i++ {
		doc.Append(textPara("filler"))
	}

	if !relatedDocTableNearby(doc, 3) {
		t.Error("table within the lookback window should be found")
	}
	if relatedDocTableNearby(doc, relatedDocTableLookback+2) {
		t.Error("table beyond the lookback window must not be found")
	}
}

func TestRelatedDocTableNearby_ShapeAndPrefix(t *testing.T) {
	// A large table with the same text does not suppress.
	large := wordtree.NewTable(2, 1)
	cell, _ := large.Cell(0, 0)
	cell.ParagraphAt(0).AddContent(&wordtree.Run{Text: "Related Documents"})
	doc := wordtree.NewDocument(large, textPara("x"), textPara("y"))
	if relatedDocTableNearby(doc, 2) {
		t.Error("only 1x1 tables count")
	}

	// Prefix match is case-insensitive and tolerates singular form.
	doc2 := wordtree.NewDocument(squareTable("RELATED DOCUMENT LIST"), textPara("x"), textPara("y"))
	if !relatedDocTableNearby(doc2, 2) {
		t.Error("case-insensitive prefix should match")
	}

	doc3 := wordtree.NewDocument(squareTable("Reference Material"), textPara("x"), textPara("y"))
	if relatedDocTableNearby(doc3, 2) {
		t.Error("unrelated first-cell text must not match")
	}
}

func TestRemoveCellTrailing_SecondToLast(t *testing.T) {
	table := wordtree.NewTable(1, 1)
	cell, _ := table.Cell(0, 0)
	cell.ParagraphAt(0).AddContent(&wordtree.Run{Text: "content"})
	cell.InsertParagraphAt(1, blankPara())
	cell.InsertParagraphAt(2, blankPara())

	doc := wordtree.NewDocument(table)

	// The second-to-last blank matches only because the last is blank too.
	rule, matched := firstMatch(removalRules, cellContext(doc, table, cell, 1))
	if !matched || rule.ID != RemoveCellTrailing {
		t.Fatalf("expected %s for second-to-last blank, matched=%v", RemoveCellTrailing, matched)
	}

	// With content at the end, a middle blank does not trail.
	cell.RemoveParagraphAt(2)
	cell.InsertParagraphAt(2, textPara("tail"))
	if rule, matched := firstMatch(removalRules, cellContext(doc, table, cell, 1)); matched {
		t.Errorf("expected no match for a middle blank, got %s", rule.ID)
	}
}

func TestRemoveAfterLargeImageCell_RequiresOnlyBlanksBelow(t *testing.T) {
	table := wordtree.NewTable(1, 1)
	cell, _ := table.Cell(0, 0)
	cell.RemoveParagraphAt(0)
	cell.InsertParagraphAt(0, imagePara(300))
	cell.InsertParagraphAt(1, blankPara())
	cell.InsertParagraphAt(2, blankPara())
	cell.InsertParagraphAt(3, blankPara())

	doc := wordtree.NewDocument(table)

	// Index 1 is deep enough that the trailing rule cannot claim it first.
	rule, matched := firstMatch(removalRules, cellContext(doc, table, cell, 1))
	if !matched || rule.ID != RemoveAfterLargeImageCell {
		t.Fatalf("expected %s, matched=%v", RemoveAfterLargeImageCell, matched)
	}

	// Text below the blank keeps it alive.
	cell.RemoveParagraphAt(2)
	cell.InsertParagraphAt(2, textPara("caption"))
	if rule, matched := firstMatch(removalRules, cellContext(doc, table, cell, 1)); matched {
		t.Errorf("expected no match with content below, got %s", rule.ID)
	}
}

func TestAdditionRules_InsertsBeforeSet(t *testing.T) {
	// The before-set must cover exactly the rules whose trigger is the
	// next element.
	want := map[string]bool{
		AddBeforeFirstSquare: true,
		AddAboveBoldColon:    true,
		AddAboveNavLink:      true,
		AddAboveDisclaimer:   true,
	}
	if len(insertsBefore) != len(want) {
		t.Fatalf("expected %d before-rules, got %d", len(want), len(insertsBefore))
	}
	for id := range want {
		if !insertsBefore[id] {
			t.Errorf("expected %s in the before-set", id)
		}
	}
}
