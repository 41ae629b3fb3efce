package wordtree

import "fmt"

// Table is a body element made of rows of cells.
type Table struct {
	rows []*Row
}

// Row is an ordered list of cells.
type Row struct {
	cells []*Cell
}

// Cell owns an ordered list of paragraphs and any nested tables. Per the
// OOXML invariant a well-formed cell always holds at least one paragraph.
type Cell struct {
	paragraphs []*Paragraph
	tables     []*Table
}

func (*Table) bodyElement() {}

// NewTable builds a rows×cols table where every cell starts with one empty
// paragraph.
func NewTable(rows, cols int) *Table {
	t := &Table{}
	for r := 0; r < rows; r++ {
		row := &Row{}
		for c := 0; c < cols; c++ {
			row.cells = append(row.cells, &Cell{paragraphs: []*Paragraph{{}}})
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// AddRow appends a row.
func (t *Table) AddRow(r *Row) { t.rows = append(t.rows, r) }

// Rows returns the table's rows in order.
func (t *Table) Rows() []*Row { return t.rows }

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnCount returns the widest row's cell count.
func (t *Table) ColumnCount() int {
	max := 0
	for _, row := range t.rows {
		if len(row.cells) > max {
			max = len(row.cells)
		}
	}
	return max
}

// Cell returns the cell at (row, col) or an error for malformed access.
func (t *Table) Cell(row, col int) (*Cell, error) {
	if row < 0 || row >= len(t.rows) {
		return nil, fmt.Errorf("row %d out of range (%d rows)", row, len(t.rows))
	}
	r := t.rows[row]
	if col < 0 || col >= len(r.cells) {
		return nil, fmt.Errorf("column %d out of range (%d cells in row %d)", col, len(r.cells), row)
	}
	return r.cells[col], nil
}

// FirstCellText returns the text of cell (0,0), or "" when the table is
// malformed. Used by fingerprinting; malformed access is "no information".
func (t *Table) FirstCellText() string {
	cell, err := t.Cell(0, 0)
	if err != nil {
		return ""
	}
	var text string
	for _, p := range cell.paragraphs {
		if s := p.Text(); s != "" {
			text = s
			break
		}
	}
	return text
}

// NewRow builds a row from cells.
func NewRow(cells ...*Cell) *Row { return &Row{cells: cells} }

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell { return r.cells }

// NewCell builds a cell from paragraphs, inserting an empty paragraph when
// none are given so the cell invariant holds from birth.
func NewCell(paragraphs ...*Paragraph) *Cell {
	if len(paragraphs) == 0 {
		paragraphs = []*Paragraph{{}}
	}
	return &Cell{paragraphs: paragraphs}
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph { return c.paragraphs }

// ParagraphAt returns the paragraph at i, or nil when out of range.
func (c *Cell) ParagraphAt(i int) *Paragraph {
	if i < 0 || i >= len(c.paragraphs) {
		return nil
	}
	return c.paragraphs[i]
}

// InsertParagraphAt inserts p so it occupies index i. Out-of-range indices
// clamp to the ends.
func (c *Cell) InsertParagraphAt(i int, p *Paragraph) {
	if i < 0 {
		i = 0
	}
	if i > len(c.paragraphs) {
		i = len(c.paragraphs)
	}
	c.paragraphs = append(c.paragraphs, nil)
	copy(c.paragraphs[i+1:], c.paragraphs[i:])
	c.paragraphs[i] = p
}

// RemoveParagraphAt removes the paragraph at i. No-op when out of range.
func (c *Cell) RemoveParagraphAt(i int) {
	if i < 0 || i >= len(c.paragraphs) {
		return
	}
	c.paragraphs = append(c.paragraphs[:i], c.paragraphs[i+1:]...)
}

// AddNestedTable attaches a table nested inside this cell.
func (c *Cell) AddNestedTable(t *Table) { c.tables = append(c.tables, t) }

// NestedTables returns tables nested inside this cell.
func (c *Cell) NestedTables() []*Table { return c.tables }

// HasNestedTable reports whether the cell contains a nested table, which
// forbids structural edits to its paragraph list.
func (c *Cell) HasNestedTable() bool { return len(c.tables) > 0 }
