// Package merge interleaves a source document and its translation into a
// bilingual file, pairing non-empty lines as [Arabic]/[English] blocks.
//
// Synchronization is page-scoped: a "Page " marker in the source stream
// advances the translated stream past its own next marker. Line counts
// between corresponding markers are trusted; if a chunk failed to
// translate, pairings within that page drift and realign only at the
// next page marker. No fuzzy matching is attempted.
package merge

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
)

// pageMarkerPrefix identifies page marker lines in both streams.
const pageMarkerPrefix = "Page "

// Files merges the documents at arabicPath and englishPath into a
// bilingual file at outputPath. The two inputs are read concurrently;
// the output is written once.
func Files(ctx context.Context, arabicPath, englishPath, outputPath string) error {
	var arabic, english []string

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		arabic, err = readLines(arabicPath)
		return err
	})
	g.Go(func() error {
		var err error
		english, err = readLines(englishPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := Lines(arabic, english)
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil { // #nosec G306 -- plain text output
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return nil
}

// Lines interleaves two line streams into the bilingual format.
// Exposed separately from Files so the pairing logic is testable
// without touching the filesystem.
func Lines(arabic, english []string) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 80) + "\n")
	b.WriteString("Arabic-English Translation\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")

	ar, en := 0, 0
	for ar < len(arabic) && en < len(english) {
		arLine := strings.TrimSpace(arabic[ar])
		enLine := strings.TrimSpace(english[en])

		// Skip empty lines independently on both sides.
		if arLine == "" {
			ar++
			continue
		}
		if enLine == "" {
			en++
			continue
		}

		// A source page marker resynchronizes both streams: emit the
		// marker block and advance the translated stream past its own
		// next marker.
		if strings.HasPrefix(arLine, pageMarkerPrefix) {
			b.WriteString("\n" + strings.Repeat("=", 40) + "\n")
			b.WriteString(arLine + "\n")
			b.WriteString(strings.Repeat("-", 40) + "\n\n")
			ar++
			for en < len(english) && !strings.HasPrefix(strings.TrimSpace(english[en]), pageMarkerPrefix) {
				en++
			}
			en++
			continue
		}

		b.WriteString("[Arabic]\n")
		b.WriteString(arLine + "\n\n")
		b.WriteString("[English]\n")
		b.WriteString(enLine + "\n")
		b.WriteString(strings.Repeat("-", 40) + "\n\n")

		ar++
		en++
	}

	return b.String()
}

// readLines reads a file and splits it into lines.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI user
	if err != nil {
		return nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return strings.Split(string(data), "\n"), nil
}
