package parser

import (
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestIsSupportedExtension(t *testing.T) {
	cases := []struct {
		filename string
		want     bool
	}{
		{"report.docx", true},
		{"REPORT.DOCX", true},
		{"archive.doc", false},
		{"notes.txt", false},
		{"noextension", false},
	}
	for _, tc := range cases {
		if got := IsSupportedExtension(tc.filename); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.filename, got, tc.want)
		}
	}
}

func TestCheckExtension(t *testing.T) {
	if err := CheckExtension("report.docx"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckExtension("report.pdf"); err == nil {
		t.Error("expected an error for unsupported extensions")
	}
}

func TestParse_RejectsUnsupportedExtension(t *testing.T) {
	if _, err := Parse(strings.NewReader("not a docx"), "file.txt"); err == nil {
		t.Error("expected an error for unsupported file type")
	}
}

func TestConvertNumbering_ParsesDecimalValues(t *testing.T) {
	num := convertNumbering(&docx.NumProperties{
		NumID: &docx.NumID{Val: "3"},
		Ilvl:  &docx.Ilevel{Val: "2"},
	})
	if num == nil {
		t.Fatal("expected numbering")
	}
	if num.ListID != 3 || num.Level != 2 {
		t.Errorf("got list %d level %d, want list 3 level 2", num.ListID, num.Level)
	}
}

func TestConvertNumbering_SkipsUnparsable(t *testing.T) {
	if num := convertNumbering(nil); num != nil {
		t.Errorf("nil props: got %+v", num)
	}
	if num := convertNumbering(&docx.NumProperties{}); num != nil {
		t.Errorf("missing numId: got %+v", num)
	}
	if num := convertNumbering(&docx.NumProperties{NumID: &docx.NumID{Val: "abc"}}); num != nil {
		t.Errorf("non-numeric numId: got %+v", num)
	}
}

func TestConvertNumbering_BadLevelFallsBackToZero(t *testing.T) {
	num := convertNumbering(&docx.NumProperties{
		NumID: &docx.NumID{Val: "7"},
		Ilvl:  &docx.Ilevel{Val: "x"},
	})
	if num == nil || num.ListID != 7 || num.Level != 0 {
		t.Errorf("got %+v, want list 7 level 0", num)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	// A .docx name with non-zip content must fail at the container level.
	if _, err := Parse(strings.NewReader("garbage bytes"), "file.docx"); err == nil {
		t.Error("expected an error for a malformed container")
	}
}
