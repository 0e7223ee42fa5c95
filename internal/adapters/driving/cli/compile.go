package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablecast-cli/internal/core/services"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file.md]",
	Short: "Compile markup to a rich-text document",
	Long: `Compiles lightweight markup into the structured rich-text JSON that
StructuredText fields receive during import. Useful for checking how a
cell's markup will be stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	markup, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading markup file: %w", err)
	}

	doc := services.NewRichTextCompiler().Compile(string(markup))

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
