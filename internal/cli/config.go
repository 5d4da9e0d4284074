package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// defaultDatabase is used when neither --db nor a config file names one.
const defaultDatabase = "fiberbudget.db"

// Config is the optional yaml configuration file. Flags given on the
// command line win over values from the file.
type Config struct {
	Database   string `yaml:"db"`
	CatalogDir string `yaml:"catalog"`
	Format     string `yaml:"format"`
}

// applyConfig merges the config file (if any) into opts, then fills in
// defaults. Called from the root command's PersistentPreRunE after flag
// parsing, so cmd.Flags().Changed reflects what the user typed.
func applyConfig(opts *RootOptions, cmd *cobra.Command) error {
	if opts.ConfigPath != "" {
		data, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("reading config %s: %w", opts.ConfigPath, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config %s: %w", opts.ConfigPath, err)
		}

		if !cmd.Flags().Changed("db") && cfg.Database != "" {
			opts.Database = cfg.Database
		}
		if !cmd.Flags().Changed("catalog") && cfg.CatalogDir != "" {
			opts.CatalogDir = cfg.CatalogDir
		}
		if !cmd.Flags().Changed("format") && cfg.Format != "" {
			if !isValidFormat(cfg.Format) {
				return fmt.Errorf("invalid format %q in config: must be one of %v", cfg.Format, ValidFormats)
			}
			opts.Format = cfg.Format
		}
	}

	if opts.Database == "" {
		opts.Database = defaultDatabase
	}
	return nil
}
