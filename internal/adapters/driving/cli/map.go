package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
)

var (
	mapSchema   string
	mapType     string
	mapNoOracle bool
)

var mapCmd = &cobra.Command{
	Use:   "map [file.csv]",
	Short: "Suggest column-to-field mappings",
	Long: `Prints suggested mappings between the file's columns and the target
content type's fields as JSON. Edit the output and pass it back to
"tablecast import --mappings" to override individual suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().StringVarP(&mapSchema, "schema", "s", "", "schema file defining content types (required)")
	mapCmd.Flags().StringVarP(&mapType, "type", "t", "", "target content type id (required)")
	mapCmd.Flags().BoolVar(&mapNoOracle, "no-oracle", false, "skip the suggestion oracle, use the fallback matcher")
	mapCmd.MarkFlagRequired("schema") //nolint:errcheck
	mapCmd.MarkFlagRequired("type")   //nolint:errcheck
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	importer := importService
	if importer == nil {
		p, err := buildPipeline(args[0], mapSchema, true, mapNoOracle)
		if err != nil {
			return err
		}
		defer p.close()
		importer = p.importer
	}

	mappings, _, err := importer.Preview(context.Background(), driving.ImportOptions{
		ContentType: mapType,
	})
	if err != nil {
		return fmt.Errorf("mapping failed: %w", err)
	}

	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
