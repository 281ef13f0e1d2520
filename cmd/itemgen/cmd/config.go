package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/itemgen/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect itemgen configuration",
	Long: `Inspect the configuration itemgen resolves from defaults, itemgen.toml,
ITEMGEN_* environment variables and flags. Directives in a package are
applied per package on top of it.

Examples:
  itemgen config show
  itemgen config show --format json
  itemgen config where`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show which itemgen.toml is used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Source == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "no itemgen.toml found, using defaults")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Source)
		unknown, err := config.UnknownKeys(cfg.Source)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			fmt.Fprintf(cmd.OutOrStdout(), "  unknown key: %s\n", key)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", config.FormatTOML, "Output format: toml, json, yaml")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eff, err := cfg.WithDirective(nil)
	if err != nil {
		return err
	}

	data, err := config.Marshal(eff, configFormat)
	if err != nil {
		return err
	}
	if configFormat != config.FormatJSON {
		fmt.Fprint(cmd.OutOrStdout(), "# itemgen configuration\n")
		if eff.Source != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# from %s\n", eff.Source)
		}
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
