package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/generate"
)

var checkCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Check that generated files are up to date",
	Long: `Generate in memory and compare with the files on disk. Nothing is written.

Exit codes:
  0 - Generated files are up to date
  1 - A file is missing or out of date, or generation failed

Examples:
  itemgen check ./...`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	results, err := generateAll(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}

	report, err := generate.CheckAll(results)
	if err != nil {
		return err
	}

	for _, path := range report.UpToDate {
		pterm.Printf("%s %s\n", pterm.LightGreen("✓"), path)
	}
	for _, path := range report.Stale {
		pterm.Printf("%s %s %s\n", pterm.Red("✗"), path, pterm.Gray("(out of date)"))
	}
	for _, path := range report.Missing {
		pterm.Printf("%s %s %s\n", pterm.Red("✗"), path, pterm.Gray("(missing)"))
	}

	if report.OK() {
		pterm.Success.Printf("%d generated file(s) up to date\n", len(report.UpToDate))
		return nil
	}
	return errors.WithHint(
		errors.Mark(
			errors.Newf("%d of %d generated file(s) need regenerating",
				len(report.Stale)+len(report.Missing), len(results)),
			errors.ErrStale),
		"run go generate ./... or itemgen ./...")
}
