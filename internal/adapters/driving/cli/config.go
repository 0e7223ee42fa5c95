package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/tablecast-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tablecast configuration",
	Long: `Reads and writes the TOML configuration file.

Recognised keys include:
  oracle.api_key    API key for the mapping-suggestion oracle
  oracle.base_url   oracle API base URL (for compatible providers)
  oracle.model      oracle model name
  storage.data_dir  directory holding the record database`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configfile.NewConfigStore(configDirFlag)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		val, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Printf("%v\n", val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configfile.NewConfigStore(configDirFlag)
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("saving configuration: %w", err)
		}
		cmd.Printf("Set %s.\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
