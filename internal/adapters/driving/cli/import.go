package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablecast-cli/internal/core/domain"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
)

var (
	importSchema   string
	importType     string
	importMappings string
	importUpdate   string
	importDryRun   bool
	importNoOracle bool
)

var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Import a CSV file into the record store",
	Long: `Imports every row of a CSV file as a record of the given content type.

Mappings are suggested automatically unless --mappings provides an edited
set (as produced by "tablecast map"). Row failures are isolated: a row
that cannot be transformed or resolved is reported and skipped while the
rest of the batch proceeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importSchema, "schema", "s", "", "schema file defining content types (required)")
	importCmd.Flags().StringVarP(&importType, "type", "t", "", "target content type id (required)")
	importCmd.Flags().StringVarP(&importMappings, "mappings", "m", "", "JSON file with edited field mappings")
	importCmd.Flags().StringVar(&importUpdate, "update-key", "", "field used to update existing records instead of duplicating")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "import into an in-memory store, write nothing to disk")
	importCmd.Flags().BoolVar(&importNoOracle, "no-oracle", false, "skip the suggestion oracle, use the fallback matcher")
	importCmd.MarkFlagRequired("schema") //nolint:errcheck
	importCmd.MarkFlagRequired("type")   //nolint:errcheck
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	opts := driving.ImportOptions{
		ContentType: importType,
		UpdateKey:   importUpdate,
	}

	if importMappings != "" {
		mappings, err := loadMappings(importMappings)
		if err != nil {
			return err
		}
		opts.Mappings = mappings
	}

	importer := importService
	if importer == nil {
		p, err := buildPipeline(args[0], importSchema, importDryRun, importNoOracle)
		if err != nil {
			return err
		}
		defer p.close()
		importer = p.importer
	}

	result, err := importer.Run(context.Background(), opts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d records (%d created, %d updated, %d failed).\n",
		result.Created+result.Updated, result.Created, result.Updated, result.Failed)
	for _, ie := range result.Errors {
		if ie.Field != "" {
			cmd.Printf("  row %d, field %s: %s\n", ie.Row, ie.Field, ie.Message)
		} else {
			cmd.Printf("  row %d: %s\n", ie.Row, ie.Message)
		}
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d rows failed", result.Failed)
	}
	return nil
}

func loadMappings(path string) ([]domain.FieldMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mappings file: %w", err)
	}
	var mappings []domain.FieldMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parsing mappings file: %w", err)
	}
	return mappings, nil
}
