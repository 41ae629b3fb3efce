package blankline

import (
	"strings"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

// RuleScope restricts where a rule is evaluated.
type RuleScope uint8

const (
	RuleScopeBody RuleScope = iota
	RuleScopeCell
	RuleScopeBoth
)

// Rule is one entry of a priority-encoded decision table. Rules are pure
// predicates over a Context; the position of a rule in its list is part of
// the contract, because evaluation returns the first match, not the best.
type Rule struct {
	ID      string
	Scope   RuleScope
	Matches func(Context) bool
}

func (r Rule) appliesIn(s Scope) bool {
	switch r.Scope {
	case RuleScopeBoth:
		return true
	case RuleScopeBody:
		return s == ScopeBody
	default:
		return s == ScopeCell
	}
}

// Removal rule ids.
const (
	RemoveBeforeHeading1      = "remove/before-heading1"
	RemoveCellFirstParagraph  = "remove/cell-first-paragraph"
	RemoveAboveLargeTable     = "remove/above-large-table"
	RemoveBetweenListItems    = "remove/between-list-items"
	RemoveListToContinuation  = "remove/list-to-continuation"
	RemoveBeforeFirstListItem = "remove/before-first-list-item"
	RemoveBoldColonGap        = "remove/bold-colon-gap"
	RemoveBelowNavLink        = "remove/below-nav-link"
	RemoveCellTrailing        = "remove/cell-trailing"
	RemoveAfterLargeImageCell = "remove/after-large-image-in-cell"
)

// Addition rule ids.
const (
	AddAfterHeading1     = "add/after-heading1"
	AddAfterFinalTOC     = "add/after-final-toc"
	AddBeforeFirstSquare = "add/before-first-square-table"
	AddAfterSquareTable  = "add/after-square-table"
	AddAfterLargeTable   = "add/after-large-table"
	AddAboveBoldColon    = "add/above-bold-colon"
	AddAfterBoldColon    = "add/after-bold-colon"
	AddAboveNavLink      = "add/above-nav-link"
	AddAfterListItems    = "add/after-list-items"
	AddAroundLargeImage  = "add/around-large-image"
	AddAboveDisclaimer   = "add/above-disclaimer"
)

// insertsBefore marks the addition rules whose trigger is the next
// element, so the blank goes in front of it. Every other addition rule
// triggers on the current element and the blank follows it. The target
// slot is the same either way; the set decides which neighbor counts as
// "a blank already exists here".
var insertsBefore = map[string]bool{
	AddBeforeFirstSquare: true,
	AddAboveBoldColon:    true,
	AddAboveNavLink:      true,
	AddAboveDisclaimer:   true,
}

// removalRules decide that the blank paragraph at ctx.Index must be
// deleted. Evaluated in this fixed order; first match wins.
var removalRules = []Rule{
	{
		ID:    RemoveBeforeHeading1,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			next := ctx.NextParagraph()
			return IsHeading1(next) && strings.TrimSpace(next.Text()) != ""
		},
	},
	{
		ID:    RemoveCellFirstParagraph,
		Scope: RuleScopeCell,
		Matches: func(ctx Context) bool {
			return ctx.CellIndex == 0 && ctx.Table != nil && ctx.Table.RowCount() > 1
		},
	},
	{
		ID:    RemoveAboveLargeTable,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			return isLargeTable(ctx.NextTable())
		},
	},
	{
		ID:    RemoveBetweenListItems,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			return IsListItem(ctx.PrevParagraph()) && IsListItem(ctx.NextParagraph())
		},
	},
	{
		ID:    RemoveListToContinuation,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			if !IsListItem(ctx.PrevParagraph()) {
				return false
			}
			next := ctx.NextParagraph()
			return next != nil && (IsListItem(next) || IsIndented(next, ctx.Doc))
		},
	},
	{
		ID:    RemoveBeforeFirstListItem,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			if !IsListItem(ctx.NextParagraph()) {
				return false
			}
			prev := ctx.PrevParagraph()
			return prev != nil && !IsListItem(prev) && !IsBlank(prev) &&
				!IsIndented(prev, ctx.Doc) && strings.TrimSpace(prev.Text()) != ""
		},
	},
	{
		ID:    RemoveBoldColonGap,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			prev := ctx.PrevParagraph()
			if prev == nil || IsIndented(prev, ctx.Doc) || !StartsWithBoldColon(prev) {
				return false
			}
			next := ctx.NextParagraph()
			return next != nil && (IsListItem(next) || IsIndented(next, ctx.Doc))
		},
	},
	{
		ID:    RemoveBelowNavLink,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			return IsNavigationLink(ctx.PrevParagraph())
		},
	},
	{
		ID:    RemoveCellTrailing,
		Scope: RuleScopeCell,
		Matches: func(ctx Context) bool {
			if ctx.Cell == nil || ctx.Cell.HasNestedTable() {
				return false
			}
			paras := ctx.Cell.Paragraphs()
			last := len(paras) - 1
			if ctx.CellIndex == last {
				return true
			}
			return ctx.CellIndex == last-1 && IsBlank(ctx.Cell.ParagraphAt(last))
		},
	},
	{
		ID:    RemoveAfterLargeImageCell,
		Scope: RuleScopeCell,
		Matches: func(ctx Context) bool {
			if ctx.Cell == nil || !HasLargeImage(ctx.PrevParagraph()) {
				return false
			}
			// The image must be the effective end of the cell: nothing
			// but blanks from here down.
			paras := ctx.Cell.Paragraphs()
			for i := ctx.CellIndex + 1; i < len(paras); i++ {
				if !IsBlank(paras[i]) {
					return false
				}
			}
			return true
		},
	},
}

// additionRules decide that a blank must exist next to the trigger
// element. Evaluated in this fixed order; first match wins.
var additionRules = []Rule{
	{
		ID:    AddAfterHeading1,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			cur := ctx.CurrentParagraph()
			return IsHeading1(cur) && strings.TrimSpace(cur.Text()) != "" && ctx.Next != nil
		},
	},
	{
		ID:    AddAfterFinalTOC,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			if !IsTOCEntry(ctx.CurrentParagraph()) || ctx.Next == nil {
				return false
			}
			return !IsTOCEntry(ctx.NextParagraph())
		},
	},
	{
		ID:    AddBeforeFirstSquare,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			next := ctx.NextTable()
			return isSquareTable(next) && isFirstSquareTable(ctx.Doc, next)
		},
	},
	{
		ID:    AddAfterSquareTable,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			t, _ := ctx.Current.(*wordtree.Table)
			return isSquareTable(t) && ctx.Next != nil
		},
	},
	{
		ID:    AddAfterLargeTable,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			t, _ := ctx.Current.(*wordtree.Table)
			return isLargeTable(t) && ctx.Next != nil
		},
	},
	{
		ID:    AddAboveBoldColon,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			next := ctx.NextParagraph()
			return next != nil && !IsBlank(next) && !IsIndented(next, ctx.Doc) &&
				StartsWithBoldColon(next)
		},
	},
	{
		ID:    AddAfterBoldColon,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			cur := ctx.CurrentParagraph()
			if cur == nil || IsIndented(cur, ctx.Doc) || !StartsWithBoldColon(cur) {
				return false
			}
			next := ctx.NextParagraph()
			if next == nil || IsBlank(next) || IsListItem(next) || IsIndented(next, ctx.Doc) {
				return false
			}
			if ctx.Scope == ScopeBody && relatedDocTableNearby(ctx.Doc, ctx.Index) {
				return false
			}
			return true
		},
	},
	{
		ID:    AddAboveNavLink,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			return IsNavigationLink(ctx.NextParagraph())
		},
	},
	{
		ID:    AddAfterListItems,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			if !IsListItem(ctx.CurrentParagraph()) {
				return false
			}
			next := ctx.NextParagraph()
			if next == nil || IsBlank(next) {
				return false
			}
			if isCenteredImage(next) {
				return true
			}
			return !IsListItem(next) && !IsIndented(next, ctx.Doc)
		},
	},
	{
		ID:    AddAroundLargeImage,
		Scope: RuleScopeBoth,
		Matches: func(ctx Context) bool {
			cur := ctx.CurrentParagraph()
			return cur != nil && !IsBlank(cur) && HasLargeImage(cur) && ctx.Next != nil
		},
	},
	{
		ID:    AddAboveDisclaimer,
		Scope: RuleScopeBody,
		Matches: func(ctx Context) bool {
			return IsDisclaimer(ctx.NextParagraph())
		},
	},
}

// firstMatch evaluates rules in order within the given scope and returns
// the first that matches.
func firstMatch(rules []Rule, ctx Context) (Rule, bool) {
	for _, r := range rules {
		if !r.appliesIn(ctx.Scope) {
			continue
		}
		if r.Matches(ctx) {
			return r, true
		}
	}
	return Rule{}, false
}

func isSquareTable(t *wordtree.Table) bool {
	return t != nil && t.RowCount() == 1 && t.ColumnCount() == 1
}

func isLargeTable(t *wordtree.Table) bool {
	return t != nil && (t.RowCount() > 1 || t.ColumnCount() > 1)
}

// isFirstSquareTable reports whether t is the first 1×1 table in document
// order.
func isFirstSquareTable(doc *wordtree.Document, t *wordtree.Table) bool {
	if t == nil {
		return false
	}
	for _, candidate := range doc.Tables() {
		if isSquareTable(candidate) {
			return candidate == t
		}
	}
	return false
}

// isCenteredImage reports whether the paragraph is a centered image line.
func isCenteredImage(p *wordtree.Paragraph) bool {
	return IsCentered(p) && FirstImage(p) != nil
}

// relatedDocTableLookback is how far above a bold-colon paragraph a
// "Related Document" table suppresses the after-blank.
const relatedDocTableLookback = 15

// relatedDocTableNearby reports whether a 1×1 "Related Document" table
// appears within the preceding lookback window of body positions.
func relatedDocTableNearby(doc *wordtree.Document, index int) bool {
	start := index - relatedDocTableLookback
	if start < 0 {
		start = 0
	}
	for i := start; i < index; i++ {
		t, ok := doc.Element(i).(*wordtree.Table)
		if !ok || !isSquareTable(t) {
			continue
		}
		text := strings.ToLower(t.FirstCellText())
		if strings.HasPrefix(text, "related document") {
			return true
		}
	}
	return false
}
