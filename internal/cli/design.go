package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/project"
	"github.com/roach88/cardsmith/internal/render"
	"github.com/roach88/cardsmith/internal/store"
)

// DesignOptions holds flags shared by the design subcommands.
type DesignOptions struct {
	*RootOptions
	Name        string
	Description string
	Tags        []string
	Public      bool
	Output      string
	Limit       int
}

// DesignInfo is a design without its project data.
type DesignInfo struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsPublic     bool      `json:"isPublic"`
	Tags         []string  `json:"tags"`
	HasThumbnail bool      `json:"hasThumbnail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newDesignInfo(d store.Design) DesignInfo {
	return DesignInfo{
		ID:           d.ID,
		UserID:       d.UserID,
		Name:         d.Name,
		Description:  d.Description,
		IsPublic:     d.IsPublic,
		Tags:         d.Tags,
		HasThumbnail: d.Thumbnail != "",
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// NewDesignCommand creates the design command and its subcommands.
func NewDesignCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Manage saved designs",
		Long: `Save, load, list, update, duplicate and delete designs in --db.

Designs belong to the --user that saved them. Public designs can be loaded
and duplicated by anyone; only the owner can change or delete them.`,
	}

	cmd.AddCommand(newDesignSaveCommand(rootOpts))
	cmd.AddCommand(newDesignLoadCommand(rootOpts))
	cmd.AddCommand(newDesignListCommand(rootOpts))
	cmd.AddCommand(newDesignUpdateCommand(rootOpts))
	cmd.AddCommand(newDesignDuplicateCommand(rootOpts))
	cmd.AddCommand(newDesignDeleteCommand(rootOpts))

	return cmd
}

func newDesignSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <project.json>",
		Short: "Save a project as a new design",
		Long: `Save a project file as a new design with a rendered thumbnail.

Example:
  cardsmith design save badge.json --name "Visitor badge" --tags event,2026`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				data, thumb, err := loadDesignData(args[0], newLogger(opts.RootOptions, cmd.ErrOrStderr()))
				if err != nil {
					return f.Fail(ExitCommandError, "failed to load project", err)
				}
				name := opts.Name
				if name == "" {
					name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				}
				d, err := st.CreateDesign(ctx, opts.User, store.DesignInput{
					Name:        name,
					Description: opts.Description,
					Data:        data,
					Thumbnail:   thumb,
					IsPublic:    opts.Public,
					Tags:        opts.Tags,
				})
				if err != nil {
					return f.Fail(ExitCommandError, "failed to save design", err)
				}
				return outputDesign(f, "Saved", d)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "design name (default: project file name)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "design description")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "comma-separated tags")
	cmd.Flags().BoolVar(&opts.Public, "public", false, "make the design readable by everyone")

	return cmd
}

func newDesignLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "load <id>",
		Short:         "Write a saved design to a project file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				d, err := st.GetDesign(ctx, opts.User, args[0])
				if err != nil {
					return f.Fail(ExitCommandError, "failed to load design", err)
				}
				p, err := project.Decode([]byte(d.Data))
				if err != nil {
					return f.Fail(ExitFailure, "stored design is corrupt", err)
				}
				data, err := project.Encode(p)
				if err != nil {
					return f.Fail(ExitFailure, "failed to encode project", err)
				}
				if err := writeFileAtomic(opts.Output, data); err != nil {
					_ = f.Error(ErrCodeWriteFailed, err.Error(), nil)
					return WrapExitError(ExitCommandError, "failed to write project", err)
				}
				if f.Format == "json" {
					return f.Success(map[string]any{"design": newDesignInfo(d), "output": opts.Output})
				}
				fmt.Fprintf(f.Writer, "✓ Loaded %q to %s\n", d.Name, opts.Output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "project file to write (required)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func newDesignListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List your designs, or public designs with --public",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				var designs []store.Design
				var err error
				if opts.Public {
					designs, err = st.ListPublic(ctx, opts.Limit)
				} else {
					designs, err = st.ListDesigns(ctx, opts.User)
				}
				if err != nil {
					return f.Fail(ExitCommandError, "failed to list designs", err)
				}

				infos := make([]DesignInfo, 0, len(designs))
				for _, d := range designs {
					infos = append(infos, newDesignInfo(d))
				}
				if f.Format == "json" {
					return f.Success(infos)
				}
				if len(infos) == 0 {
					fmt.Fprintln(f.Writer, "No designs found.")
					return nil
				}
				tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tPUBLIC\tTAGS\tUPDATED")
				for _, i := range infos {
					fmt.Fprintf(tw, "%s\t%s\t%v\t%s\t%s\n",
						i.ID, i.Name, i.IsPublic, strings.Join(i.Tags, ","), i.UpdatedAt.Format(time.RFC3339))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Public, "public", false, "list public designs from every user")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of public designs (0 = no limit)")

	return cmd
}

func newDesignUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}
	var projectPath string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a design's metadata or replace its project",
		Long: `Update a design you own. Only the flags given are changed.

Example:
  cardsmith design update 0192... --public
  cardsmith design update 0192... --project badge.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				var patch store.DesignPatch
				flags := cmd.Flags()
				if flags.Changed("name") {
					patch.Name = &opts.Name
				}
				if flags.Changed("description") {
					patch.Description = &opts.Description
				}
				if flags.Changed("tags") {
					patch.Tags = &opts.Tags
				}
				if flags.Changed("public") {
					patch.IsPublic = &opts.Public
				}
				if projectPath != "" {
					data, thumb, err := loadDesignData(projectPath, newLogger(opts.RootOptions, cmd.ErrOrStderr()))
					if err != nil {
						return f.Fail(ExitCommandError, "failed to load project", err)
					}
					patch.Data = &data
					patch.Thumbnail = &thumb
				}

				d, err := st.UpdateDesign(ctx, opts.User, args[0], patch)
				if err != nil {
					return f.Fail(ExitCommandError, "failed to update design", err)
				}
				return outputDesign(f, "Updated", d)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.Description, "description", "", "new description")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "replacement tags")
	cmd.Flags().BoolVar(&opts.Public, "public", false, "make the design public (--public=false to hide it)")
	cmd.Flags().StringVar(&projectPath, "project", "", "replace the design's project with this file")

	return cmd
}

func newDesignDuplicateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "duplicate <id>",
		Short:         "Copy a design you can read into a new private design",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				d, err := st.DuplicateDesign(ctx, opts.User, args[0], opts.Name)
				if err != nil {
					return f.Fail(ExitCommandError, "failed to duplicate design", err)
				}
				return outputDesign(f, "Duplicated", d)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", `name of the copy (default: "<name> (copy)")`)

	return cmd
}

func newDesignDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a design you own",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts.RootOptions, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter) error {
				if err := st.DeleteDesign(ctx, opts.User, args[0]); err != nil {
					return f.Fail(ExitCommandError, "failed to delete design", err)
				}
				if f.Format == "json" {
					return f.Success(map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(f.Writer, "✓ Deleted %s\n", args[0])
				return nil
			})
		},
	}

	return cmd
}

// withStore opens --db, runs fn and closes the store.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(context.Context, *store.Store, *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	st, err := openStore(opts)
	if err != nil {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, st, f)
}

// loadDesignData validates the project at path and returns its canonical
// JSON with a thumbnail of the front side.
func loadDesignData(path string, logger *slog.Logger) (data, thumbnail string, err error) {
	p, err := readProjectFile(path)
	if err != nil {
		return "", "", err
	}
	encoded, err := project.Encode(p)
	if err != nil {
		return "", "", err
	}

	renderer := render.NewRenderer(
		render.WithImageSource(render.NewLocalImages(filepath.Dir(path))),
		render.WithLogger(logger),
	)
	thumbnail, err = renderer.Thumbnail(p.Front)
	if err != nil {
		// A design without a thumbnail is still a valid design.
		logger.Warn("thumbnail failed", "project", path, "error", err)
		thumbnail = ""
	}
	return string(encoded), thumbnail, nil
}

func outputDesign(f *OutputFormatter, verb string, d store.Design) error {
	info := newDesignInfo(d)
	if f.Format == "json" {
		return f.Success(info)
	}
	fmt.Fprintf(f.Writer, "✓ %s %q (%s)\n", verb, info.Name, info.ID)
	return nil
}
