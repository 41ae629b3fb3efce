package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docnorm",
	Short: "Blank-line normalizer for Word documents",
	Long:  "docnorm applies context-sensitive spacing and indentation rules to .docx files and reports what it changed.",
}

func main() {
	rootCmd.AddCommand(normalizeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
