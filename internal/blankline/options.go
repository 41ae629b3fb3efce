package blankline

// ListLevel configures the indents used by one list nesting level.
// Values are twips.
type ListLevel struct {
	Level        int
	SymbolIndent int
	TextIndent   int
}

// BlankStyle is the uniform look applied to every surviving blank
// paragraph in the final phase. Twips for spacing, points for font size.
type BlankStyle struct {
	StyleID     string
	SpaceBefore int
	SpaceAfter  int
	LineSpacing float64
	FontFamily  string
	FontSize    float64
}

// Options configures one normalization run.
type Options struct {
	ListLevels []ListLevel
	BlankStyle BlankStyle
}

// Counts are the aggregate mutation counters returned by Process.
type Counts struct {
	Removed     int `json:"removed"`
	Added       int `json:"added"`
	Preserved   int `json:"preserved"`
	IndentFixed int `json:"indentation_fixed"`
}

// Total returns the sum of all mutation counters.
func (c Counts) Total() int {
	return c.Removed + c.Added + c.Preserved + c.IndentFixed
}

// DefaultOptions returns the standard Word-like level indents and a plain
// "Normal" blank style.
func DefaultOptions() Options {
	return Options{
		ListLevels: []ListLevel{
			{Level: 0, SymbolIndent: 360, TextIndent: 720},
			{Level: 1, SymbolIndent: 1080, TextIndent: 1440},
			{Level: 2, SymbolIndent: 1800, TextIndent: 2160},
			{Level: 3, SymbolIndent: 2520, TextIndent: 2880},
		},
		BlankStyle: BlankStyle{
			StyleID:     "Normal",
			SpaceAfter:  0,
			LineSpacing: 1.0,
			FontFamily:  "Calibri",
			FontSize:    11,
		},
	}
}

// textIndentFor returns the configured text indent for a list level,
// falling back to standard 720-twip steps when the level is not configured.
func (o Options) textIndentFor(level int) int {
	for _, l := range o.ListLevels {
		if l.Level == level {
			return l.TextIndent
		}
	}
	if level < 0 {
		level = 0
	}
	return 720 * (level + 1)
}
