package blankline

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docnorm/internal/wordtree"
)

const (
	// emuPerPixel converts drawing extents to pixels at 96 DPI.
	emuPerPixel = 9525

	// imageSizeThresholdPx separates "small" inline decorations from
	// images that deserve their own vertical breathing room.
	imageSizeThresholdPx = 100

	// smallIndentTwips is 0.25": indents below this are treated as noise,
	// not structure.
	smallIndentTwips = 360

	// boldColonScanLimit bounds how far into a paragraph's text a colon
	// still counts as a "Label: value" lead-in.
	boldColonScanLimit = 55

	// listContinuationStyle / listContinuationIndentTwips: the host
	// library fails to resolve the style-level indent of this one style,
	// so its indent is hardcoded here. Named workaround; do not
	// generalize.
	listContinuationStyle       = "ListParagraph"
	listContinuationIndentTwips = 720
)

var tocStylePattern = regexp.MustCompile(`(?i)^toc\d?$`)

// navLinkPhrases identify the "back to top" navigation hyperlink
// paragraphs some templates place under each section.
var navLinkPhrases = []string{
	"top of the document",
	"top of document",
}

// disclaimerPhrases identify the boilerplate end-of-document disclaimer
// paragraph by fixed fragments of its text.
var disclaimerPhrases = []string{
	"end of document",
	"uncontrolled when printed",
}

// IsBlank reports whether a paragraph carries no visible content: no
// non-whitespace text in any run (recursing through revision wrappers), no
// hyperlink, image, field, or text box, and no bookmarks.
func IsBlank(p *wordtree.Paragraph) bool {
	if p == nil {
		return false
	}
	if len(p.Bookmarks()) > 0 {
		return false
	}
	return contentIsBlank(p.Content())
}

func contentIsBlank(items []wordtree.Content) bool {
	for _, item := range items {
		switch c := item.(type) {
		case *wordtree.Run:
			if strings.TrimSpace(c.Text) != "" {
				return false
			}
		case *wordtree.Revision:
			if c.Kind == wordtree.RevisionDelete {
				continue
			}
			if !contentIsBlank(c.Items) {
				return false
			}
		default:
			// Hyperlinks, images, fields and text boxes all count as
			// visible content even when their text is empty.
			return false
		}
	}
	return true
}

// IsListItem reports whether the paragraph is bound to a numbering
// definition.
func IsListItem(p *wordtree.Paragraph) bool {
	return p != nil && p.Numbering() != nil
}

// IsHeading1 reports whether the paragraph carries the level-1 heading
// style.
func IsHeading1(p *wordtree.Paragraph) bool {
	if p == nil {
		return false
	}
	style := p.Style()
	return strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1")
}

// IsTOCEntry reports whether the paragraph uses a table-of-contents style
// (TOC, TOC1..TOC9).
func IsTOCEntry(p *wordtree.Paragraph) bool {
	return p != nil && tocStylePattern.MatchString(p.Style())
}

// StartsWithBoldColon reports whether the paragraph opens with a bold run
// and a colon appears within the first boldColonScanLimit characters of
// its plain text, the "Label: value" pattern.
func StartsWithBoldColon(p *wordtree.Paragraph) bool {
	first := firstRun(p)
	if first == nil || !first.Bold {
		return false
	}
	return strings.Contains(runePrefix(p.Text(), boldColonScanLimit), ":")
}

// IsCentered reports whether the paragraph is center-aligned.
func IsCentered(p *wordtree.Paragraph) bool {
	return p != nil && p.Format().Alignment == wordtree.AlignCenter
}

// IsCenteredBold reports whether the paragraph is center-aligned and opens
// with a bold run.
func IsCenteredBold(p *wordtree.Paragraph) bool {
	if !IsCentered(p) {
		return false
	}
	first := firstRun(p)
	return first != nil && first.Bold
}

// IsNavigationLink reports whether the paragraph is a "Top of Document"
// navigation hyperlink.
func IsNavigationLink(p *wordtree.Paragraph) bool {
	if p == nil {
		return false
	}
	hasLink := false
	for _, item := range p.Content() {
		if _, ok := item.(*wordtree.Hyperlink); ok {
			hasLink = true
			break
		}
	}
	if !hasLink {
		return false
	}
	text := strings.ToLower(p.Text())
	for _, phrase := range navLinkPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// IsDisclaimer reports whether the paragraph is the end-of-document
// disclaimer, matched by fixed phrase fragments.
func IsDisclaimer(p *wordtree.Paragraph) bool {
	if p == nil {
		return false
	}
	text := strings.ToLower(p.Text())
	if text == "" {
		return false
	}
	for _, phrase := range disclaimerPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// EffectiveLeftIndent resolves the paragraph's left indent in twips:
// direct formatting when positive, otherwise the owning style's indent.
// The list-continuation style is special-cased (see the constant above).
func EffectiveLeftIndent(p *wordtree.Paragraph, doc *wordtree.Document) int {
	if p == nil {
		return 0
	}
	if indent := p.Format().LeftIndent; indent > 0 {
		return indent
	}
	styleID := p.Style()
	if styleID == "" {
		return 0
	}
	if strings.EqualFold(styleID, listContinuationStyle) {
		return listContinuationIndentTwips
	}
	if doc != nil {
		if style, ok := doc.StyleByID(styleID); ok && style.LeftIndent > 0 {
			return style.LeftIndent
		}
	}
	return 0
}

// IsIndented reports whether the paragraph's effective left indent is
// positive.
func IsIndented(p *wordtree.Paragraph, doc *wordtree.Document) bool {
	return EffectiveLeftIndent(p, doc) > 0
}

// FirstImage returns the first image in the paragraph, recursing through
// revision wrappers, or nil when there is none.
func FirstImage(p *wordtree.Paragraph) *wordtree.Image {
	if p == nil {
		return nil
	}
	return firstImageIn(p.Content())
}

func firstImageIn(items []wordtree.Content) *wordtree.Image {
	for _, item := range items {
		switch c := item.(type) {
		case *wordtree.Image:
			return c
		case *wordtree.Revision:
			if img := firstImageIn(c.Items); img != nil {
				return img
			}
		}
	}
	return nil
}

// IsSmallImage reports whether both dimensions are under the size
// threshold, meaning an inline icon rather than a figure.
func IsSmallImage(img *wordtree.Image) bool {
	if img == nil {
		return false
	}
	limit := int64(imageSizeThresholdPx * emuPerPixel)
	return img.WidthEMU < limit && img.HeightEMU < limit
}

// IsLargeImage reports whether both dimensions exceed the size threshold.
func IsLargeImage(img *wordtree.Image) bool {
	if img == nil {
		return false
	}
	limit := int64(imageSizeThresholdPx * emuPerPixel)
	return img.WidthEMU > limit && img.HeightEMU > limit
}

// HasLargeImage reports whether the paragraph carries a large image.
func HasLargeImage(p *wordtree.Paragraph) bool {
	return IsLargeImage(FirstImage(p))
}

// firstRun returns the paragraph's first run, looking through insert
// revisions.
func firstRun(p *wordtree.Paragraph) *wordtree.Run {
	if p == nil {
		return nil
	}
	return firstRunIn(p.Content())
}

func firstRunIn(items []wordtree.Content) *wordtree.Run {
	for _, item := range items {
		switch c := item.(type) {
		case *wordtree.Run:
			return c
		case *wordtree.Revision:
			if c.Kind == wordtree.RevisionDelete {
				continue
			}
			if r := firstRunIn(c.Items); r != nil {
				return r
			}
		}
	}
	return nil
}
