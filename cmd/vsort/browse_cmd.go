package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/storage"
	"github.com/raphi011/vsort/internal/ui/browser"
	"github.com/raphi011/vsort/internal/ui/styles"
)

func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse [project.json]",
		Short:   "Sort images interactively",
		Aliases: []string{"b"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Open a project in the interactive browser.

Without an argument the most recently opened project is used.
Thumbnail borders show folder membership:
  green   in one folder
  orange  in two or more folders
  blue    selected

Changes are saved with s and when quitting with q.
With --verbose, fetch logs go to ~/.vsort/browse.log.`,
		Example: `  vsort browse trailer.json   # Open a project
  vsort browse                # Reopen the last project`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
				return errors.New("browse needs an interactive terminal (use 'vsort fetch' or 'vsort folders' in scripts)")
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			}

			ctx := cmd.Context()

			// The TUI owns the terminal: send diagnostics to a file or nowhere
			logOut, closeLog := browseLogWriter()
			defer closeLog()
			ctx = log.WithLogger(ctx, log.New(logOut, verbose, quiet))

			s, cfg, err := openSession(ctx, path)
			if err != nil {
				return err
			}
			styles.Init(cfg.Theme)

			if disk := newDiskCache(cfg); disk != nil {
				go func() {
					if n, err := disk.CleanupExpired(ctx); err == nil && n > 0 {
						log.FromContext(ctx).Debug("removed expired cache entries", "count", n)
					}
				}()
			}

			engine := newEngine(ctx, cfg)
			m := browser.New(s, engine, browser.OptionsFromConfig(*cfg))
			return browser.Run(ctx, m)
		},
	}

	return cmd
}

// browseLogWriter returns ~/.vsort/browse.log in verbose mode, io.Discard otherwise.
func browseLogWriter() (io.Writer, func()) {
	if !verbose {
		return io.Discard, func() {}
	}
	dir, err := storage.Dir()
	if err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "browse.log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
