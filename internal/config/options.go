package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dgallion1/docnorm/internal/blankline"
)

// optionsFile mirrors the TOML layout of a normalization options file:
//
//	[blank_style]
//	style = "Normal"
//	space_after = 0
//	line_spacing = 1.0
//	font_family = "Calibri"
//	font_size = 11.0
//
//	[[list_levels]]
//	level = 0
//	symbol_indent = 360
//	text_indent = 720
type optionsFile struct {
	BlankStyle *blankStyleSection `toml:"blank_style"`
	ListLevels []listLevelSection `toml:"list_levels"`
}

type blankStyleSection struct {
	Style       string  `toml:"style"`
	SpaceBefore int     `toml:"space_before"`
	SpaceAfter  int     `toml:"space_after"`
	LineSpacing float64 `toml:"line_spacing"`
	FontFamily  string  `toml:"font_family"`
	FontSize    float64 `toml:"font_size"`
}

type listLevelSection struct {
	Level        int `toml:"level"`
	SymbolIndent int `toml:"symbol_indent"`
	TextIndent   int `toml:"text_indent"`
}

// LoadOptions reads a TOML options file, layering it over the engine
// defaults. An empty path returns the defaults unchanged.
func LoadOptions(path string) (blankline.Options, error) {
	opts := blankline.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	var file optionsFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return opts, fmt.Errorf("decode options file %s: %w", path, err)
	}

	if file.BlankStyle != nil {
		bs := file.BlankStyle
		if bs.Style != "" {
			opts.BlankStyle.StyleID = bs.Style
		}
		opts.BlankStyle.SpaceBefore = bs.SpaceBefore
		opts.BlankStyle.SpaceAfter = bs.SpaceAfter
		if bs.LineSpacing > 0 {
			opts.BlankStyle.LineSpacing = bs.LineSpacing
		}
		if bs.FontFamily != "" {
			opts.BlankStyle.FontFamily = bs.FontFamily
		}
		if bs.FontSize > 0 {
			opts.BlankStyle.FontSize = bs.FontSize
		}
	}

	if len(file.ListLevels) > 0 {
		levels := make([]blankline.ListLevel, 0, len(file.ListLevels))
		for _, l := range file.ListLevels {
			levels = append(levels, blankline.ListLevel{
				Level:        l.Level,
				SymbolIndent: l.SymbolIndent,
				TextIndent:   l.TextIndent,
			})
		}
		opts.ListLevels = levels
	}

	return opts, nil
}
