package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/output"
	"github.com/raphi011/vsort/internal/project"
	"github.com/raphi011/vsort/internal/ui/progress"
)

// FetchReport summarizes a prefetch run.
type FetchReport struct {
	Project  string        `json:"project"`
	Total    int           `json:"total"`
	Fetched  int           `json:"fetched"`
	Missing  int           `json:"missing"`
	Failed   int           `json:"failed"`
	Requests int           `json:"requests"` // loaders actually started
	Duration time.Duration `json:"duration_ns"`
}

func newFetchCmd() *cobra.Command {
	var (
		jsonOutput bool
		viewer     bool
	)

	cmd := &cobra.Command{
		Use:     "fetch [project.json]",
		Short:   "Prefetch every thumbnail of a project",
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Download and decode every thumbnail of a project.

Images go through the same scheduler as the browser: identical sources are
fetched once and at most 'workers' fetches run at a time. Downloaded sources
land in the disk cache, so the next browse starts warm.

A progress bar is shown when stderr is a terminal.`,
		Example: `  vsort fetch trailer.json           # Warm the cache
  vsort fetch --viewer trailer.json  # Also fetch viewer-size images
  vsort fetch --json                 # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			var path string
			if len(args) > 0 {
				path = args[0]
			}
			s, cfg, err := openSession(ctx, path)
			if err != nil {
				return err
			}

			var bar *progress.ProgressBar
			if !quiet && !jsonOutput && isTerminal(os.Stderr) {
				bar = progress.NewProgressBar(len(s.Records()), "Fetching thumbnails")
				bar.Start()
				defer bar.Stop()
			}

			engine := newEngine(ctx, cfg)
			report, err := prefetch(ctx, s, engine, prefetchSizes(cfg, viewer), bar)
			if bar != nil {
				bar.Stop()
			}
			if err != nil {
				return err
			}

			return out.Emit(jsonOutput, report, func() error {
				out.Printf("Fetched %d of %d images in %s", report.Fetched, report.Total, report.Duration.Round(time.Millisecond))
				if report.Missing > 0 {
					out.Printf(", %d without a source", report.Missing)
				}
				if report.Failed > 0 {
					out.Printf(", %d failed", report.Failed)
				}
				out.Println()
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&viewer, "viewer", false, "Also fetch images at viewer size")

	return cmd
}

type fetchSize struct {
	width, height int
	timeout       time.Duration
	viewer        bool
}

func prefetchSizes(cfg *config.Config, withViewer bool) []fetchSize {
	sizes := []fetchSize{{
		width:   cfg.Thumbnail.Width,
		height:  cfg.Thumbnail.Height,
		timeout: cfg.Thumbnail.Timeout.Duration,
	}}
	if withViewer {
		sizes = append(sizes, fetchSize{
			width:   cfg.Viewer.Width,
			height:  cfg.Viewer.Height,
			timeout: cfg.Viewer.Timeout.Duration,
			viewer:  true,
		})
	}
	return sizes
}

// prefetch requests every record at every size and drains the deliveries on the
// calling goroutine. Each record counts once, by its thumbnail outcome.
func prefetch(ctx context.Context, s *project.Session, engine *imagecache.Engine, sizes []fetchSize, bar *progress.ProgressBar) (FetchReport, error) {
	l := log.FromContext(ctx)
	start := time.Now()
	report := FetchReport{Project: s.Project.Name, Total: len(s.Records())}

	for _, rec := range s.Records() {
		for _, size := range sizes {
			locator := rec.ThumbnailLocator()
			if size.viewer {
				locator = rec.ViewerLocator()
			}

			var sink imagecache.Sink
			if !size.viewer {
				title := rec.Title()
				sink = imagecache.SinkFunc(func(r imagecache.Result) {
					switch {
					case r.OK():
						report.Fetched++
					case errors.Is(r.Err, imagecache.ErrSourceMissing):
						report.Missing++
					default:
						report.Failed++
						l.Warn("fetch failed", "version", title, "err", r.Err)
					}
					if bar != nil {
						bar.Advance(r.Err)
					}
				})
			}
			engine.RequestImageTimeout(locator, size.width, size.height, size.timeout, sink)
		}
	}

	if err := engine.Drain(ctx); err != nil {
		return report, fmt.Errorf("fetch interrupted: %w", err)
	}

	report.Requests = engine.Started()
	report.Duration = time.Since(start)
	return report, nil
}
