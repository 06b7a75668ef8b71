package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/doctor"
	"github.com/raphi011/vsort/internal/history"
	"github.com/raphi011/vsort/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var (
		fix         bool
		projectPath string
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose and repair vsort's local state.

Checks:
- Global config file parses and validates
- Remembered projects still exist
- Disk cache has no expired entries or leftover files
- Saved memberships of the project (--project, or the most recent one)
  only name breakdown folders and project versions`,
		Example: `  vsort doctor          # Check for issues
  vsort doctor --fix    # Auto-fix recoverable issues`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			_, configErr := config.Load()
			opts := doctor.Options{ConfigErr: configErr}

			if file, err := history.DefaultPath(); err == nil {
				opts.HistoryFile = file
			}

			disk, err := globalDiskCache(cmd)
			if err != nil {
				return err
			}
			opts.Cache = disk

			if projectPath != "" {
				if opts.ProjectPath, err = filepath.Abs(projectPath); err != nil {
					return err
				}
			} else if opts.HistoryFile != "" {
				// A deleted most recent project is reported by the history check
				if recent, _ := history.GetMostRecent(opts.HistoryFile); recent != "" {
					if _, err := os.Stat(recent); err == nil {
						opts.ProjectPath = recent
					}
				}
			}

			remaining, err := doctor.Run(ctx, out.Writer(), opts, fix)
			if err != nil {
				return err
			}
			if remaining > 0 {
				return fmt.Errorf("%d issues found", remaining)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Auto-fix recoverable issues")
	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Project file to check (default: most recently opened)")

	return cmd
}
