package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/generate"
)

var describeFormat string

var describeCmd = &cobra.Command{
	Use:   "describe [package]",
	Short: "Show what itemgen would generate for a package",
	Long: `List the variants, declarations and tag collisions of a package without
writing anything.

Examples:
  itemgen describe ./colors
  itemgen describe --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVar(&describeFormat, "format", config.FormatYAML, "Output format: yaml, json, toml")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pattern := "."
	if len(args) == 1 {
		pattern = args[0]
	}

	res, err := generate.GenerateFromPackage(pattern, cfg)
	if err != nil {
		return err
	}
	data, err := generate.Describe(res).Marshal(describeFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
