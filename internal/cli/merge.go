package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// MergeCmd creates the merge command.
// The env parameter provides injectable dependencies for testing.
func MergeCmd(env *Env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge <arabic.txt> <english.txt>",
		Short: "Merge source and translation into a bilingual document",
		Long: `Merge a page-annotated source document and its translation into a
single bilingual file of [Arabic]/[English] line pairs.

The two streams are synchronized at "Page <n>" markers; line pairings
between markers assume both documents kept the same paragraph count.`,
		Example: `  booktrans merge kafiah.txt kafiah_english.txt
  booktrans merge kafiah.txt kafiah_english.txt -o kafiah_merged.txt`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, env, args[0], args[1], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <arabic>_merged.txt)")

	return cmd
}

// runMerge executes the merge.
// Validation order: both files exist -> config -> output path.
func runMerge(cmd *cobra.Command, env *Env, arabicPath, englishPath, output string) error {
	ctx := cmd.Context()

	if err := requireFile(arabicPath); err != nil {
		return err
	}
	if err := requireFile(englishPath); err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}
	outputPath := resolveOutput(output, cfg.OutputDir, deriveMergedPath(arabicPath))

	if err := env.Merger.Merge(ctx, arabicPath, englishPath, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Merged translations into %s\n", outputPath)
	return nil
}
