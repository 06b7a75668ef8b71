package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage vsort configuration.

Global config: ~/.config/vsort/config.toml
Local config:  .vsort.toml (next to the project file)`,
		Example: `  vsort config init                 # Create default global config
  vsort config show                 # Show global config
  vsort config show -p trailer.json # Show config merged for a project`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  vsort config init     # Create global config
  vsort config init -f  # Overwrite existing config
  vsort config init -s  # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				if !force {
					return fmt.Errorf("%w (use -f to overwrite)", err)
				}
				return err
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput  bool
		projectPath string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

With --project, shows the global config merged with the .vsort.toml next to
that project file. Otherwise shows the global config only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			resolver := config.ResolverFromContext(ctx)

			cfg := resolver.Global()
			var localPath string
			if projectPath != "" {
				abs, err := filepath.Abs(projectPath)
				if err != nil {
					return err
				}
				merged, err := resolver.ConfigForProject(abs)
				if err != nil {
					return err
				}
				cfg = merged
				localPath = filepath.Join(filepath.Dir(abs), config.LocalConfigFileName)
			}

			if jsonOutput {
				return out.PrintJSON(cfg)
			}

			if path, err := config.Path(); err == nil {
				out.Printf("# Global config: %s\n", path)
			}
			if localPath != "" {
				if _, err := os.Stat(localPath); err == nil {
					out.Printf("# Local config:  %s\n", localPath)
				} else {
					out.Println("# Local config:  (none)")
				}
			}
			out.Println()

			encoded, err := cfg.Encode()
			if err != nil {
				l.Debug("encode config", "err", err)
				return err
			}
			out.Print(encoded)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVarP(&projectPath, "project", "p", "", "Merge the .vsort.toml next to this project file")

	return cmd
}
