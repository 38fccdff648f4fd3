package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-booktrans/internal/config"
)

// deriveTextPath converts a workbook path to a text output name.
// Example: "kafiah.xlsx" -> "kafiah.txt"
func deriveTextPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".txt"
}

// deriveTranslatedPath converts a source document path to a translated
// output name. Example: "kafiah.txt" -> "kafiah_english.txt"
func deriveTranslatedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_english" + ext
}

// deriveMergedPath converts a source document path to a bilingual
// output name. Example: "kafiah.txt" -> "kafiah_merged.txt"
func deriveMergedPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_merged" + ext
}

// resolveOutput resolves the final output path from the flag value, the
// configured output directory, and the name derived from the input.
func resolveOutput(output, outputDir, defaultName string) string {
	return config.ResolveOutputPath(config.ExpandPath(output), config.ExpandPath(outputDir), defaultName)
}

// requireFile checks that an input file exists and is accessible.
func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}
	return nil
}
