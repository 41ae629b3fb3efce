package blankline

import "github.com/dgallion1/docnorm/internal/wordtree"

// hashTextPrefixLen bounds how much neighbor text a fingerprint records.
const hashTextPrefixLen = 50

// ElementKind tags what a fingerprint was taken from.
type ElementKind uint8

const (
	KindNone ElementKind = iota
	KindParagraph
	KindTable
)

// ElementHash is a lossy fingerprint of a body element, used to re-locate
// positions after earlier phases have shifted indices. It is approximate
// by design: two different elements with the same kind, text prefix and
// numbering flag are indistinguishable.
type ElementHash struct {
	Kind         ElementKind
	TextPrefix   string
	Style        string
	HasNumbering bool
}

// HashElement fingerprints a body element. nil hashes to KindNone.
func HashElement(el wordtree.BodyElement) ElementHash {
	switch e := el.(type) {
	case *wordtree.Paragraph:
		return ElementHash{
			Kind:         KindParagraph,
			TextPrefix:   textPrefix(e.Text()),
			Style:        e.Style(),
			HasNumbering: e.Numbering() != nil,
		}
	case *wordtree.Table:
		return ElementHash{
			Kind:       KindTable,
			TextPrefix: textPrefix(e.FirstCellText()),
		}
	default:
		return ElementHash{Kind: KindNone}
	}
}

// hashesMatch compares fingerprints on kind, text prefix and numbering.
// Style is recorded but deliberately not compared, so restyling between
// capture and lookup does not break relocation.
func hashesMatch(a, b ElementHash) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindNone {
		return true
	}
	return a.TextPrefix == b.TextPrefix && a.HasNumbering == b.HasNumbering
}

func textPrefix(s string) string {
	return runePrefix(s, hashTextPrefixLen)
}

// runePrefix returns the first n characters of s without splitting a
// multi-byte rune.
func runePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
