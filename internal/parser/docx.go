package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dgallion1/docnorm/internal/wordtree"
	"github.com/fumiama/go-docx"
)

// Parse reads a .docx stream and builds the wordtree document.
func Parse(r io.Reader, filename string) (*wordtree.Document, error) {
	if err := CheckExtension(filename); err != nil {
		return nil, err
	}

	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "docnorm-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := wordtree.NewDocument()
	for _, item := range doc.Document.Body.Items {
		switch el := item.(type) {
		case *docx.Paragraph:
			tree.Append(convertParagraph(el))
		case *docx.Table:
			tree.Append(convertTable(el))
		}
	}
	return tree, nil
}

func convertParagraph(src *docx.Paragraph) *wordtree.Paragraph {
	p := wordtree.NewParagraph()

	if props := src.Properties; props != nil {
		if props.Style != nil {
			p.SetStyle(props.Style.Val)
		}
		if props.Justification != nil {
			p.SetAlignment(wordtree.Alignment(props.Justification.Val))
		}
		if props.Ind != nil && props.Ind.Left > 0 {
			p.SetLeftIndent(props.Ind.Left)
		}
		if num := convertNumbering(props.NumProperties); num != nil {
			p.SetNumbering(num)
		}
	}

	for _, child := range src.Children {
		switch c := child.(type) {
		case *docx.Run:
			p.AddContent(convertRun(c)...)
		case *docx.Hyperlink:
			p.AddContent(&wordtree.Hyperlink{
				Text:   runText(&c.Run),
				Target: c.ID,
			})
		}
	}
	return p
}

// convertNumbering maps w:numPr onto a Numbering. The attribute values are
// decimal strings in the XML; a paragraph whose numId does not parse gets no
// numbering, and an unparsable ilvl falls back to level 0.
func convertNumbering(src *docx.NumProperties) *wordtree.Numbering {
	if src == nil || src.NumID == nil {
		return nil
	}
	id, err := strconv.Atoi(src.NumID.Val)
	if err != nil {
		return nil
	}
	num := &wordtree.Numbering{ListID: id}
	if src.Ilvl != nil {
		if lvl, err := strconv.Atoi(src.Ilvl.Val); err == nil {
			num.Level = lvl
		}
	}
	return num
}

func convertRun(src *docx.Run) []wordtree.Content {
	bold := src.RunProperties != nil && src.RunProperties.Bold != nil
	italic := src.RunProperties != nil && src.RunProperties.Italic != nil

	var items []wordtree.Content
	for _, child := range src.Children {
		switch c := child.(type) {
		case *docx.Text:
			items = append(items, &wordtree.Run{Text: c.Text, Bold: bold, Italic: italic})
		case *docx.Drawing:
			if img := convertDrawing(c); img != nil {
				items = append(items, img)
			}
		}
	}
	return items
}

func convertDrawing(d *docx.Drawing) *wordtree.Image {
	if d.Inline != nil && d.Inline.Extent != nil {
		return &wordtree.Image{
			WidthEMU:  d.Inline.Extent.CX,
			HeightEMU: d.Inline.Extent.CY,
		}
	}
	if d.Anchor != nil && d.Anchor.Extent != nil {
		return &wordtree.Image{
			WidthEMU:  d.Anchor.Extent.CX,
			HeightEMU: d.Anchor.Extent.CY,
		}
	}
	return nil
}

func runText(run *docx.Run) string {
	var text string
	for _, child := range run.Children {
		if t, ok := child.(*docx.Text); ok {
			text += t.Text
		}
	}
	return text
}

func convertTable(src *docx.Table) *wordtree.Table {
	t := &wordtree.Table{}
	for _, srcRow := range src.TableRows {
		var cells []*wordtree.Cell
		for _, srcCell := range srcRow.TableCells {
			var paragraphs []*wordtree.Paragraph
			for _, srcPara := range srcCell.Paragraphs {
				paragraphs = append(paragraphs, convertParagraph(srcPara))
			}
			cells = append(cells, wordtree.NewCell(paragraphs...))
		}
		t.AddRow(wordtree.NewRow(cells...))
	}
	return t
}
