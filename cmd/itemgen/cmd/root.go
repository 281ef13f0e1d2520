// Package cmd holds the itemgen command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/errors"
	"github.com/teranos/itemgen/generate"
	"github.com/teranos/itemgen/logger"
)

var (
	flagOutput     string
	flagName       string
	flagTables     string
	flagNoAccessor bool
	flagStrict     bool
	flagExport     bool
	flagScope      string
	flagFile       string
	flagExclude    []string
	flagConfig     string
	flagStdout     bool
	flagVerbose    int
	flagLogJSON    bool
)

// RootCmd generates items_gen.go for the given packages.
var RootCmd = &cobra.Command{
	Use:   "itemgen [packages]",
	Short: "Generate a typed table of a package's constants and variables",
	Long: `itemgen reads the top-level constants and variables of a Go package and
writes items_gen.go next to it: a sum type with one variant per declared
type, tables of every declaration by name, and a generic accessor that
iterates the declarations of one type.

Options come from, lowest to highest precedence: defaults, itemgen.toml
(found walking up from the working directory), ITEMGEN_* environment
variables, //itemgen:module directives in the package, and flags.

Examples:
  //go:generate go run github.com/teranos/itemgen/cmd/itemgen
  itemgen ./...                        # every package below here
  itemgen --tables combined --export   # one exported items table
  itemgen --stdout ./colors            # print instead of writing
  itemgen check ./...                  # fail when a file is stale`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(flagLogJSON, flagVerbose); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		if logger.JSONOutput {
			pterm.DisableColor()
		}
		logger.Debugw("Logger ready", "verbosity", logger.LevelName(flagVerbose))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
	RunE: runGenerate,
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&flagOutput, "output", "o", "", "Output file name (default items_gen.go)")
	pf.StringVar(&flagName, "name", "", "Name of the generated accessor (default iter)")
	pf.StringVar(&flagTables, "tables", "", "Table shape: split or combined")
	pf.BoolVar(&flagNoAccessor, "no-accessor", false, "Do not generate the accessor")
	pf.BoolVar(&flagStrict, "strict", false, "Fail when two types derive the same tag")
	pf.BoolVar(&flagExport, "export", false, "Export the generated union, entry type and tables")
	pf.StringVar(&flagScope, "scope", "", "Read the whole package or only one file: package or file")
	pf.StringVar(&flagFile, "file", "", "File to read in file scope (default $GOFILE)")
	pf.StringSliceVar(&flagExclude, "exclude", nil, "Declaration names to skip")
	pf.StringVar(&flagConfig, "config", "", "Path to itemgen.toml (default: search upwards)")
	pf.CountVarP(&flagVerbose, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	pf.BoolVar(&flagLogJSON, "log-json", false, "Log as JSON")

	RootCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print generated source instead of writing files")

	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(watchCmd)
	RootCmd.AddCommand(describeCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)
}

// loadConfig resolves file and environment configuration and records the
// flags the user set as overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}
	cfg, err := config.Load(wd, flagConfig)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debugw("Loaded configuration", logger.FieldPath, cfg.Source)
	}

	cfg.Overrides = overrides(cmd)
	cfg.File = flagFile
	if cfg.File == "" {
		cfg.File = os.Getenv("GOFILE")
	}
	return cfg, nil
}

func overrides(cmd *cobra.Command) map[string]string {
	flags := cmd.Flags()
	out := map[string]string{}
	set := func(flag, key, value string) {
		if flags.Changed(flag) {
			out[key] = value
		}
	}
	set("output", config.KeyOutput, flagOutput)
	set("name", config.KeyName, flagName)
	set("tables", config.KeyTables, flagTables)
	set("no-accessor", config.KeyAccessor, strconv.FormatBool(!flagNoAccessor))
	set("strict", config.KeyStrict, strconv.FormatBool(flagStrict))
	set("export", config.KeyExport, strconv.FormatBool(flagExport))
	set("scope", config.KeyScope, flagScope)
	set("exclude", config.KeyExclude, strings.Join(flagExclude, ","))
	return out
}

// generateAll runs itemgen over every package matching patterns, one
// result per target. The first failure cancels the rest and no result is
// returned.
func generateAll(ctx context.Context, cfg *config.Config, patterns []string) ([]*generate.Result, error) {
	pkgs, err := generate.Load("", patterns...)
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 1 && cfg.File != "" && flagFile == "" {
		// $GOFILE only names a file of the package go generate runs in.
		cfg = cfg.Clone()
		cfg.File = ""
	}

	perPkg := make([][]*generate.Result, len(pkgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				results []*generate.Result
				err     error
			)
			if cfg.File != "" {
				var res *generate.Result
				res, err = generate.FromLoaded(pkg, cfg)
				results = []*generate.Result{res}
			} else {
				results, err = generate.TargetsFromLoaded(pkg, cfg)
			}
			if err != nil {
				return err
			}
			for _, res := range results {
				logger.Infow("Generated",
					logger.FieldPackage, res.PkgPath,
					logger.FieldFile, filepath.Base(res.OutputPath),
					logger.FieldDecls, res.Registry.Len())
				traceDecls(res)
			}
			perPkg[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []*generate.Result
	for _, rs := range perPkg {
		results = append(results, rs...)
	}
	return results, nil
}

func traceDecls(res *generate.Result) {
	if !logger.ShouldLogTrace(flagVerbose) {
		return
	}
	for _, d := range generate.Describe(res).Decls {
		logger.Debugw("Declaration", "pos", d.Pos, "kind", d.Kind, logger.FieldName, d.Name, logger.FieldTag, d.Tag)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	results, err := generateAll(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}

	if flagStdout {
		for _, res := range results {
			fmt.Fprint(cmd.OutOrStdout(), string(res.Source))
		}
		return nil
	}
	for _, res := range results {
		if err := generate.Write(res); err != nil {
			return err
		}
	}
	return nil
}
