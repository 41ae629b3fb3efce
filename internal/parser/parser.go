// Package parser imports .docx files into the wordtree model. Only the
// structure the blank-line engine consumes is converted; everything else
// in the file is left behind (the service reports mutation counts, it does
// not re-serialize the binary).
package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".docx": true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// CheckExtension returns an error for unsupported filenames.
func CheckExtension(filename string) error {
	if !IsSupportedExtension(filename) {
		return fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
	return nil
}
