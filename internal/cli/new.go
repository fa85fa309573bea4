package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/project"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Size     string
	Portrait bool
	Force    bool

	// Now overrides the project timestamp (for testing).
	Now func() time.Time
}

// NewResult describes a created project.
type NewResult struct {
	Path        string  `json:"path"`
	Size        string  `json:"size"`
	Orientation string  `json:"orientation"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts, Now: time.Now}

	cmd := &cobra.Command{
		Use:   "new <project.json>",
		Short: "Create an empty two-sided project",
		Long: `Create an empty project with a blank front and back.

Both sides start with the same card size and orientation.

Example:
  cardsmith new badge.json
  cardsmith new badge.json --size cr100 --portrait`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Size, "size", document.PresetCR80.Name, "card size (cr80|cr79|cr100)")
	cmd.Flags().BoolVar(&opts.Portrait, "portrait", false, "start in portrait orientation")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	return cmd
}

func runNew(opts *NewOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	preset, err := document.LookupPreset(opts.Size)
	if err != nil {
		return formatter.Fail(ExitCommandError, "invalid --size", err)
	}
	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return formatter.Fail(ExitCommandError, fmt.Sprintf("%s already exists (use --force to overwrite)", path), nil)
		}
	}

	doc := document.New()
	for _, id := range []document.SideID{document.Front, document.Back} {
		side := doc.Side(id)
		if opts.Portrait {
			side.Settings = side.Settings.ToggleOrientation()
		}
		side.Settings = preset.Apply(side.Settings)
	}

	data, err := project.Encode(project.New(doc, document.Front, opts.Now()))
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to encode project", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write project", err)
	}

	settings := doc.Front.Settings
	result := NewResult{
		Path:        path,
		Size:        preset.Name,
		Orientation: string(settings.Orientation),
		Width:       settings.Width,
		Height:      settings.Height,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Created %s (%s %s, %gx%g px)\n",
		result.Path, result.Size, result.Orientation, result.Width, result.Height)
	return nil
}
