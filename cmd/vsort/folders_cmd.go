package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/vsort/internal/log"
	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/output"
	"github.com/raphi011/vsort/internal/render"
	"github.com/raphi011/vsort/internal/ui/static"
)

func newFoldersCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:     "folders",
		Short:   "Manage folder memberships",
		Aliases: []string{"f"},
		GroupID: GroupFolders,
		Long: `Manage asset and scene folders of a project without the browser.

Folders come from the project breakdown. Every command works on the project
given with --project, or on the most recently opened one.`,
		Example: `  vsort folders list
  vsort folders add asset "Hero Ship" 1042 1043
  vsort folders show 1042
  vsort folders export > mappings.json
  vsort folders import mappings.json`,
	}

	cmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "Project file (default: most recently opened)")

	cmd.AddCommand(newFoldersListCmd(&projectPath))
	cmd.AddCommand(newFoldersMemberCmd(&projectPath, true))
	cmd.AddCommand(newFoldersMemberCmd(&projectPath, false))
	cmd.AddCommand(newFoldersShowCmd(&projectPath))
	cmd.AddCommand(newFoldersExportCmd(&projectPath))
	cmd.AddCommand(newFoldersImportCmd(&projectPath))
	cmd.AddCommand(newFoldersSyncCmd(&projectPath))

	return cmd
}

// FolderInfo is one row of `folders list --json`.
type FolderInfo struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Images int    `json:"images"`
}

func newFoldersListCmd(projectPath *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List folders with image counts",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, _, err := openSession(ctx, *projectPath)
			if err != nil {
				return err
			}

			var infos []FolderInfo
			for _, t := range membership.FolderTypes {
				for _, name := range s.Index.Folders(t) {
					infos = append(infos, FolderInfo{Type: t.String(), Name: name, Images: s.Index.Count(t, name)})
				}
			}

			return out.Emit(jsonOutput, infos, func() error {
				if len(infos) == 0 {
					out.Println("No folders. Add breakdown rows to the project and run 'vsort folders sync'.")
					return nil
				}
				rows := make([][]string, len(infos))
				for i, f := range infos {
					rows[i] = []string{f.Type, f.Name, static.Plural(f.Images, "image")}
				}
				out.Table([]string{"TYPE", "FOLDER", "IMAGES"}, rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// newFoldersMemberCmd builds `add` (add=true) or `remove`.
func newFoldersMemberCmd(projectPath *string, add bool) *cobra.Command {
	use, short, verb := "remove", "Remove images from a folder", "Removed"
	aliases := []string{"rm"}
	if add {
		use, short, verb = "add", "Add images to a folder", "Added"
		aliases = nil
	}

	cmd := &cobra.Command{
		Use:     use + " <asset|scene> <folder> <id>...",
		Short:   short,
		Aliases: aliases,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			t, err := membership.ParseFolderType(args[0])
			if err != nil {
				return err
			}
			name := args[1]

			ids := make([]membership.ImageID, 0, len(args)-2)
			for _, a := range args[2:] {
				id, err := membership.ParseImageID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			s, _, err := openSession(ctx, *projectPath)
			if err != nil {
				return err
			}

			for _, id := range ids {
				if _, ok := s.Record(id); !ok {
					l.Warn("id is not a version of this project", "id", id)
				}
				if add {
					err = s.Add(t, name, id)
				} else {
					err = s.Remove(t, name, id)
				}
				if err != nil {
					return folderError(s, t, name, err)
				}
			}

			if err := s.Save(); err != nil {
				return err
			}
			ref := membership.FolderRef{Type: t, Name: name}
			out.Printf("%s %s: %s now has %s\n", verb, static.Plural(len(ids), "image"), ref.Label(), static.Plural(s.Index.Count(t, name), "image"))
			return nil
		},
	}

	return cmd
}

// MembershipInfo is the output of `folders show --json`.
type MembershipInfo struct {
	ID      membership.ImageID `json:"id"`
	Title   string             `json:"title"`
	Folders []string           `json:"folders"`
	Border  string             `json:"border"`
	Tooltip string             `json:"tooltip,omitempty"`
}

func newFoldersShowCmd(projectPath *string) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the folders of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			id, err := membership.ParseImageID(args[0])
			if err != nil {
				return err
			}

			s, _, err := openSession(ctx, *projectPath)
			if err != nil {
				return err
			}

			rec, ok := s.Record(id)
			if !ok {
				return fmt.Errorf("no version with id %s", id)
			}

			st := render.For(s.Index, id, false)
			info := MembershipInfo{
				ID:      id,
				Title:   rec.Title(),
				Folders: make([]string, len(st.Folders)),
				Border:  st.Border.String(),
				Tooltip: st.Tooltip,
			}
			for i, f := range st.Folders {
				info.Folders[i] = f.Label()
			}

			return out.Emit(jsonOutput, info, func() error {
				tooltip := info.Tooltip
				if tooltip == "" {
					tooltip = "Not in any folder"
				}
				out.Fields([][2]string{
					{"Version", fmt.Sprintf("%s (#%s)", info.Title, id)},
					{"Category", rec.Category().String()},
					{"Border", info.Border},
					{"Folders", tooltip},
				})
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newFoldersExportCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print folder memberships as JSON",
		Long: `Print folder memberships in the bulk format:

  {"assets": {"<folder>": [ids...]}, "scenes": {"<folder>": [ids...]}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, _, err := openSession(ctx, *projectPath)
			if err != nil {
				return err
			}
			return output.FromContext(ctx).PrintJSON(s.Index.Export())
		},
	}
}

func newFoldersImportCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace folder memberships from JSON",
		Long: `Read folder memberships in the bulk format written by 'vsort folders export'.

Folders named in the file replace their memberships. Folders the project
does not define are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			m, err := membership.ParseMapping(data)
			if err != nil {
				return err
			}

			s, _, err := openSession(ctx, *projectPath)
			if err != nil {
				return err
			}

			skipped := s.Import(m)
			for _, f := range skipped {
				l.Warn("skipped unknown folder", "folder", f)
			}
			if err := s.Save(); err != nil {
				return err
			}

			out.Printf("Imported memberships (%d skipped)\n", len(skipped))
			return nil
		},
	}
}

func newFoldersSyncCmd(projectPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Drop memberships of folders no longer in the breakdown",
		Long: `Rewrite the saved memberships so they only name folders the project
breakdown still defines.

Folders are always derived from the breakdown when a project is opened;
memberships of removed folders are ignored but stay in the file until a
save. sync removes them right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, _, skipped, err := loadSession(ctx, *projectPath)
			if err != nil {
				return err
			}

			if len(skipped) == 0 {
				out.Println("Folders are up to date")
				return nil
			}
			for _, f := range skipped {
				out.Println("- " + f.Label())
			}
			return s.Save()
		},
	}
}

// readInput reads the named file, or r when name is "-".
func readInput(r io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(r)
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return data, err
}
