// Package cli implements the cobra command tree that drives the import
// pipeline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/tablecast-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tablecast-cli/internal/adapters/driven/oracle/openai"
	schemafile "github.com/custodia-labs/tablecast-cli/internal/adapters/driven/schema/file"
	"github.com/custodia-labs/tablecast-cli/internal/adapters/driven/source/csvfile"
	"github.com/custodia-labs/tablecast-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tablecast-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driven"
	"github.com/custodia-labs/tablecast-cli/internal/core/ports/driving"
	"github.com/custodia-labs/tablecast-cli/internal/core/services"
	"github.com/custodia-labs/tablecast-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag   bool
	configDirFlag string
)

// importService can be preset by tests; when nil, commands build the full
// pipeline from adapters.
var importService driving.ImportService

var rootCmd = &cobra.Command{
	Use:   "tablecast",
	Short: "Import spreadsheet data into a schema-driven record store",
	Long: `tablecast turns tabular spreadsheet data into typed records.

It proposes column-to-field mappings (via an optional suggestion oracle,
with a deterministic fallback), validates a preview sample, coerces each
cell to its target field kind, resolves deferred cross-record references
and persists the finished records.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default ~/.tablecast)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// pipeline bundles the assembled services and the adapters they own.
type pipeline struct {
	importer driving.ImportService
	store    driven.RecordStore
	oracle   driven.MappingOracle
}

func (p *pipeline) close() {
	if p.oracle != nil {
		p.oracle.Close() //nolint:errcheck
	}
	if p.store != nil {
		p.store.Close() //nolint:errcheck
	}
}

// buildPipeline wires adapters and services for one command invocation.
func buildPipeline(csvPath, schemaPath string, dryRun, noOracle bool) (*pipeline, error) {
	cfg, err := configfile.NewConfigStore(configDirFlag)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	schemas, err := schemafile.NewProvider(schemaPath)
	if err != nil {
		return nil, err
	}

	var store driven.RecordStore
	if dryRun {
		logger.Info("Dry run: records go to an in-memory store")
		store = memory.NewRecordStore()
	} else {
		store, err = sqlite.NewStore(cfg.GetString(configfile.KeyDataDir))
		if err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
	}

	var oracle driven.MappingOracle
	if apiKey := cfg.GetString(configfile.KeyOracleAPIKey); apiKey != "" && !noOracle {
		oracle, err = openai.New(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString(configfile.KeyOracleBaseURL),
			Model:   cfg.GetString(configfile.KeyOracleModel),
		})
		if err != nil {
			store.Close() //nolint:errcheck
			return nil, fmt.Errorf("configuring oracle: %w", err)
		}
	}

	richtext := services.NewRichTextCompiler()
	importer := services.NewImporterService(
		csvfile.NewReader(csvPath),
		schemas,
		store,
		services.NewMapperService(oracle),
		services.NewValidatorService(),
		services.NewTransformerService(richtext),
		services.NewResolverService(store),
	)

	return &pipeline{importer: importer, store: store, oracle: oracle}, nil
}
