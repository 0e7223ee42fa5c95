package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
)

var (
	validateSchema   string
	validateType     string
	validateMappings string
	validateJSON     bool
	validateNoOracle bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file.csv]",
	Short: "Preview-validate a CSV file without importing",
	Long: `Runs the bounded preview validation: mapping coverage of required
fields plus per-cell type checks over a sample of rows. Findings are
advisory; validation never blocks a later import.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "schema file defining content types (required)")
	validateCmd.Flags().StringVarP(&validateType, "type", "t", "", "target content type id (required)")
	validateCmd.Flags().StringVarP(&validateMappings, "mappings", "m", "", "JSON file with edited field mappings")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output the result as JSON")
	validateCmd.Flags().BoolVar(&validateNoOracle, "no-oracle", false, "skip the suggestion oracle, use the fallback matcher")
	validateCmd.MarkFlagRequired("schema") //nolint:errcheck
	validateCmd.MarkFlagRequired("type")   //nolint:errcheck
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	opts := driving.ImportOptions{ContentType: validateType}

	if validateMappings != "" {
		mappings, err := loadMappings(validateMappings)
		if err != nil {
			return err
		}
		opts.Mappings = mappings
	}

	importer := importService
	if importer == nil {
		p, err := buildPipeline(args[0], validateSchema, true, validateNoOracle)
		if err != nil {
			return err
		}
		defer p.close()
		importer = p.importer
	}

	_, result, err := importer.Preview(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if validateJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printIssues(cmd, "Errors", result.Errors)
	printIssues(cmd, "Warnings", result.Warnings)
	for _, hint := range result.Suggestions {
		cmd.Printf("Hint: %s\n", hint)
	}

	if result.IsValid() {
		cmd.Println("Preview is valid: no blocking errors found.")
		return nil
	}
	return fmt.Errorf("%d validation errors", len(result.Errors))
}

func printIssues(cmd *cobra.Command, label string, issues []domain.ValidationIssue) {
	if len(issues) == 0 {
		return
	}
	cmd.Printf("%s:\n", label)
	for _, issue := range issues {
		if issue.Row > 0 {
			cmd.Printf("  row %d, field %s: %s", issue.Row, issue.Field, issue.Message)
		} else {
			cmd.Printf("  field %s: %s", issue.Field, issue.Message)
		}
		if issue.Value != "" {
			cmd.Printf(" (value %q)", issue.Value)
		}
		cmd.Println()
	}
}
