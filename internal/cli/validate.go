package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/failure"
	"github.com/roach88/cardsmith/internal/project"
)

// ValidationResult summarises a valid project.
type ValidationResult struct {
	Valid       bool   `json:"valid"`
	Version     string `json:"version"`
	CurrentSide string `json:"currentSide"`
	FrontShapes int    `json:"frontShapes"`
	BackShapes  int    `json:"backShapes"`
	Hash        string `json:"hash"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project.json>",
		Short: "Check a project file without loading it into an editor",
		Long: `Validate a project file against the project schema.

Legacy single-sided files are accepted and reported as if their shapes were
on the front. Exit code 1 means the file is malformed; exit code 2 means it
could not be read.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	p, err := readProjectFile(path)
	if err != nil {
		if failure.IsMalformed(err) {
			return formatter.Fail(ExitFailure, "invalid project", err)
		}
		return formatter.Fail(ExitCommandError, "failed to read project", err)
	}
	formatter.VerboseLog("Decoded %s (version %s)", path, p.Version)

	hash, err := project.ContentHash(p)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to hash project", err)
	}

	result := ValidationResult{
		Valid:       true,
		Version:     p.Version,
		CurrentSide: string(p.CurrentSide),
		FrontShapes: len(p.Front.Shapes),
		BackShapes:  len(p.Back.Shapes),
		Hash:        hash,
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid (front: %d shapes, back: %d shapes)\n",
		path, result.FrontShapes, result.BackShapes)
	return nil
}
