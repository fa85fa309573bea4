package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/document"
	"github.com/roach88/cardsmith/internal/harness"
	"github.com/roach88/cardsmith/internal/project"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Save     string
	Autosave bool
	Session  string

	// Now overrides the saved project timestamp (for testing).
	Now func() time.Time
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	Scenario  string               `json:"scenario"`
	Pass      bool                 `json:"pass"`
	Trace     []harness.TraceEvent `json:"trace"`
	Errors    []string             `json:"errors,omitempty"`
	Saved     string               `json:"saved,omitempty"`
	Autosaved string               `json:"autosaved,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts, Now: time.Now}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Apply an editing script to a project",
		Long: `Run an editing script against a fresh editor and print its trace.

The script may name a starting project. The final document can be written
back with --save, or stored as an autosave record in --db with --autosave
so that 'cardsmith recover' can restore it.

Example:
  cardsmith run edits.yaml --save badge.json
  cardsmith run edits.yaml --db cards.db --autosave --session laptop`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Save, "save", "", "write the final project to this file")
	cmd.Flags().BoolVar(&opts.Autosave, "autosave", false, "store the final project as an autosave record (requires --db)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "autosave session key (default: new UUIDv7)")

	return cmd
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	scenario, result, err := harness.RunFile(path, harness.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, "failed to run script", err)
	}

	out := RunResult{
		Scenario: scenario.Name,
		Pass:     result.Pass,
		Trace:    result.Trace,
		Errors:   result.Errors,
	}

	if opts.Save != "" {
		data, err := project.Encode(project.New(result.Document, result.CurrentSide, opts.Now()))
		if err != nil {
			return formatter.Fail(ExitFailure, "failed to encode project", err)
		}
		if err := writeFileAtomic(opts.Save, data); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to save project", err)
		}
		out.Saved = opts.Save
	}

	if opts.Autosave {
		session, err := autosaveResult(cmd.Context(), opts, result)
		if err != nil {
			return formatter.Fail(ExitCommandError, "autosave failed", err)
		}
		out.Autosaved = session
	}

	if opts.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		printRun(formatter, out)
	}

	if !out.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("script %s failed", scenario.Name))
	}
	return nil
}

// autosaveResult writes the run's final document through an Autosaver
// backed by the --db store and returns the session key used.
func autosaveResult(ctx context.Context, opts *RunOptions, result *harness.Result) (string, error) {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return "", err
	}
	defer st.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	saverOpts := []project.AutosaverOption{project.WithNow(opts.Now)}
	if opts.Session != "" {
		saverOpts = append(saverOpts, project.WithSession(opts.Session))
	}
	saver := project.NewAutosaver(resultSource{result}, st, saverOpts...)
	if err := saver.Flush(ctx); err != nil {
		return "", err
	}
	return saver.Session(), nil
}

// resultSource exposes a finished run as an autosave source.
type resultSource struct {
	result *harness.Result
}

func (r resultSource) Document() document.Document  { return r.result.Document.Clone() }
func (r resultSource) CurrentSide() document.SideID { return r.result.CurrentSide }

func printRun(formatter *OutputFormatter, out RunResult) {
	w := formatter.Writer
	for _, ev := range out.Trace {
		fmt.Fprintf(w, "  [%d] %s", ev.Step, ev.Op)
		if ev.Shape != "" {
			fmt.Fprintf(w, " %s", ev.Shape)
		}
		fmt.Fprintf(w, " ok=%v side=%s rev=%d\n", ev.OK, ev.Side, ev.Revision)
	}
	if out.Saved != "" {
		fmt.Fprintf(w, "Saved %s\n", out.Saved)
	}
	if out.Autosaved != "" {
		fmt.Fprintf(w, "Autosaved session %s\n", out.Autosaved)
	}
	if out.Pass {
		fmt.Fprintf(w, "✓ %s\n", out.Scenario)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", out.Scenario)
	for _, e := range out.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
