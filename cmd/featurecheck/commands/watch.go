package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/espressomd/featuregen/internal/genrun"
	"github.com/espressomd/featuregen/pkg/featureconfig"
)

func (a *app) watchCommand() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch DEFFILE HPPFILE CPPFILE",
		Short: "Regenerate the configuration files on change",
		Long: `watch generates HPPFILE and CPPFILE like gen-featureconfig and then
regenerates them whenever DEFFILE changes, until interrupted. Generation
errors are reported and watching continues.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = a.cfg.WatchDebounce
			}
			w := &watcher{
				paths:    genrun.Paths{Defs: args[0], Header: args[1], Source: args[2]},
				opts:     a.options(),
				debounce: debounce,
				out:      cmd.OutOrStdout(),
				logger:   a.logger,
			}
			return w.run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "delay between a change and regeneration (default from FEATGEN_WATCH_DEBOUNCE)")
	return cmd
}

// watcher regenerates the output files when the definition file changes.
type watcher struct {
	paths    genrun.Paths
	opts     featureconfig.Options
	debounce time.Duration
	out      io.Writer
	logger   *slog.Logger
}

func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	target := filepath.Clean(w.paths.Defs)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", w.paths.Defs, err)
	}

	w.generate()
	fmt.Fprintf(w.out, "Watching %s (Ctrl-C to stop)\n", w.paths.Defs)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopping")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("definition file changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			w.generate()
		}
	}
}

func (w *watcher) generate() {
	if _, err := genrun.Generate(w.out, w.paths, w.opts); err != nil {
		fmt.Fprintf(w.out, "error: %v\n", err)
		w.logger.Warn("generation failed", "error", err)
	}
}
