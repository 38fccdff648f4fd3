package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConvertCmd creates the convert command.
// The env parameter provides injectable dependencies for testing.
func ConvertCmd(env *Env) *cobra.Command {
	var (
		output    string
		sheetName string
		title     string
	)

	cmd := &cobra.Command{
		Use:   "convert <workbook.xlsx>",
		Short: "Convert a workbook to a page-annotated text document",
		Long: `Convert a tabular book export to a page-annotated text document.

The workbook is expected to carry the body text in column 5 and the page
number in column 6 (the first sheet is used unless --sheet is given).
The output uses "Page <n>" markers and "=" separator lines, the format
the translate and merge commands consume.`,
		Example: `  booktrans convert kafiah.xlsx
  booktrans convert kafiah.xlsx -o kafiah.txt --title "كفية المتحفظ ونهاية المتلفظ"
  booktrans convert export.xlsx --sheet "Sheet2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(env, args[0], output, sheetName, title)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>.txt)")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to convert (default: first sheet)")
	cmd.Flags().StringVar(&title, "title", "", "Document title for the header block (default: workbook name)")

	return cmd
}

// runConvert executes the conversion.
// Validation order: file exists -> config -> output path.
func runConvert(env *Env, inputPath, output, sheetName, title string) error {
	if err := requireFile(inputPath); err != nil {
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}
	outputPath := resolveOutput(output, cfg.OutputDir, deriveTextPath(inputPath))

	converter := env.ConverterFactory.NewConverter(title, sheetName)
	if err := converter.Convert(inputPath, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Converted %s to %s\n", inputPath, outputPath)
	return nil
}
