package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/fetch"
	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/output"
	"github.com/raphi011/vsort/internal/ui/progress"
	"github.com/raphi011/vsort/internal/ui/prompt"
	"github.com/raphi011/vsort/internal/ui/static"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Inspect and clean the image cache",
		GroupID: GroupCache,
		Long: `Inspect and clean the on-disk cache of downloaded images.

The cache directory is cache.dir from the global config (or VSORT_CACHE_DIR).
Entries older than cache.max_age are treated as missing and removed by
'vsort cache clean'. These commands work even when the cache is disabled.`,
		Example: `  vsort cache stats
  vsort cache clean
  vsort cache clear -f
  vsort cache invalidate https://example.com/images/1042.png`,
	}

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheCleanCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheInvalidateCmd())

	return cmd
}

// globalDiskCache returns the disk tier of the global config, ignoring cache.disabled.
func globalDiskCache(cmd *cobra.Command) (*fetch.DiskCache, error) {
	cfg := config.ResolverFromContext(cmd.Context()).Global()
	dir, err := config.ExpandPath(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("expand cache.dir: %w", err)
	}
	return fetch.NewDiskCache(dir, cfg.Cache.MaxAge.Duration), nil
}

func newCacheStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			disk, err := globalDiskCache(cmd)
			if err != nil {
				return err
			}
			st, err := disk.Stats()
			if err != nil {
				return err
			}

			return out.Emit(jsonOutput, st, func() error {
				out.Fields([][2]string{
					{"Directory", st.Dir},
					{"Entries", fmt.Sprintf("%d", st.Files)},
					{"Size", static.FormatBytes(st.Bytes)},
					{"Expired", fmt.Sprintf("%d (older than %s)", st.Expired, disk.MaxAge())},
				})
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove expired entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			disk, err := globalDiskCache(cmd)
			if err != nil {
				return err
			}

			done := l.Timing("cache clean", "dir", disk.Dir())
			start := time.Now()
			n, freed, err := sweepCache(disk, "Removing expired files", func(d *fetch.DiskCache) (int, error) {
				return d.CleanupExpired(ctx)
			})
			done(time.Since(start))
			if err != nil {
				return err
			}

			out.Printf("Removed %s%s\n", static.Plural(n, "expired file"), freedSuffix(freed))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry",
		Args:  cobra.NoArgs,
		Long: `Remove every entry from the disk cache.

Asks for confirmation on a terminal unless --force is given. Waits for a
running cleanup in another vsort process to finish first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			disk, err := globalDiskCache(cmd)
			if err != nil {
				return err
			}

			if !force {
				if !isTerminal(os.Stdin) {
					return fmt.Errorf("refusing to clear %s without a terminal (use -f)", disk.Dir())
				}
				res, err := prompt.Confirm(fmt.Sprintf("Remove every cached image in %s?", disk.Dir()))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					out.Println("Aborted")
					return nil
				}
			}

			n, freed, err := sweepCache(disk, "Clearing cache", func(d *fetch.DiskCache) (int, error) {
				return d.Clear(ctx)
			})
			if err != nil {
				return err
			}
			out.Printf("Removed %s%s\n", static.Plural(n, "file"), freedSuffix(freed))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not ask for confirmation")

	return cmd
}

func newCacheInvalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <locator>...",
		Short: "Forget cached sources",
		Long: `Remove the cached source of each locator so the next fetch downloads it again.

Use this when an image changed upstream under the same URL.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			disk, err := globalDiskCache(cmd)
			if err != nil {
				return err
			}

			for _, loc := range args {
				if err := disk.Invalidate(loc); err != nil {
					return fmt.Errorf("invalidate %s: %w", loc, err)
				}
				l.Debug("invalidated", "locator", loc, "entry", fetch.EntryName(loc))
			}
			out.Printf("Invalidated %s\n", static.Plural(len(args), "locator"))
			return nil
		},
	}
}

// sweepCache runs a disk sweep, animating its counts on a terminal, and
// returns how many entries it removed and the bytes they freed.
func sweepCache(disk *fetch.DiskCache, label string, run func(*fetch.DiskCache) (int, error)) (int, int64, error) {
	var last fetch.SweepProgress
	report := func(p fetch.SweepProgress) { last = p }

	if !quiet && isTerminal(os.Stderr) {
		sp := progress.NewSweepSpinner(label, os.Stderr)
		sp.Start()
		defer sp.Stop()
		report = func(p fetch.SweepProgress) {
			last = p
			sp.Report(p)
		}
	}

	n, err := run(disk.WithProgress(report))
	return n, last.Freed, err
}

func freedSuffix(freed int64) string {
	if freed == 0 {
		return ""
	}
	return " (" + static.FormatBytes(freed) + " freed)"
}
