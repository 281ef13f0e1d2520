package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/itemgen/config"
	"github.com/teranos/itemgen/generate"
	"github.com/teranos/itemgen/logger"
	"github.com/teranos/itemgen/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [packages]",
	Short: "Regenerate when Go files change",
	Long: `Generate once, then watch the package directories and regenerate each
package whose Go files change. Test files and the generated files are
ignored. A change to itemgen.toml regenerates every package.

Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results, err := generateAll(ctx, cfg, args)
	if err != nil {
		return err
	}

	dirs := make([]string, len(results))
	for i, res := range results {
		dirs[i] = res.Dir
	}
	w, err := watch.New(dirs, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	if cfg.Source != "" {
		if err := w.WatchConfig(cfg.Source); err != nil {
			return err
		}
	}

	write := func(results []*generate.Result) error {
		for _, res := range results {
			w.Ignore(res.OutputPath)
			if err := generate.Write(res); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(results); err != nil {
		return err
	}

	logger.Infow("Watching for changes", "packages", len(dirs))
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		current := cfg
		if cfg.Source != "" {
			reloaded, err := config.Load(cfg.Source, cfg.Source)
			if err != nil {
				return err
			}
			reloaded.Overrides = cfg.Overrides
			reloaded.File = cfg.File
			current = reloaded
		}
		results, err := generateAll(ctx, current, changed)
		if err != nil {
			return err
		}
		return write(results)
	})
}
