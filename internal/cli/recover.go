package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cardsmith/internal/project"
)

// RecoverOptions holds flags for the recover command.
type RecoverOptions struct {
	*RootOptions
	Output  string
	Session string
	List    bool
	Discard bool
}

// AutosaveInfo describes one autosave record.
type AutosaveInfo struct {
	Session string    `json:"session"`
	Hash    string    `json:"hash"`
	SavedAt time.Time `json:"savedAt"`
}

// RecoverResult is the JSON payload of a restore.
type RecoverResult struct {
	Session     string    `json:"session"`
	SavedAt     time.Time `json:"savedAt"`
	Output      string    `json:"output"`
	FrontShapes int       `json:"frontShapes"`
	BackShapes  int       `json:"backShapes"`
	Discarded   bool      `json:"discarded,omitempty"`
}

// NewRecoverCommand creates the recover command.
func NewRecoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecoverOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Restore the last autosaved project",
		Long: `Restore a project from the autosave records in --db.

Without --session the most recent record across all sessions is restored.
Use --list to see the available sessions.

Example:
  cardsmith recover --db cards.db -o restored.json
  cardsmith recover --db cards.db --list
  cardsmith recover --db cards.db --session laptop -o restored.json --discard`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecover(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "file to write the restored project to")
	cmd.Flags().StringVar(&opts.Session, "session", "", "restore this session instead of the latest")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list autosave sessions")
	cmd.Flags().BoolVar(&opts.Discard, "discard", false, "delete the record after restoring it")

	return cmd
}

func runRecover(opts *RecoverOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if !opts.List && opts.Output == "" {
		return formatter.Fail(ExitCommandError, "--output is required unless --list is given", nil)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.List {
		records, err := st.ListAutosaves(ctx, project.AutosaveSlot)
		if err != nil {
			return formatter.Fail(ExitCommandError, "failed to list autosaves", err)
		}
		infos := make([]AutosaveInfo, 0, len(records))
		for _, r := range records {
			infos = append(infos, AutosaveInfo{Session: r.Session, Hash: r.Hash, SavedAt: r.SavedAt})
		}
		if opts.Format == "json" {
			return formatter.Success(infos)
		}
		if len(infos) == 0 {
			fmt.Fprintln(formatter.Writer, "No autosaves found.")
			return nil
		}
		for _, i := range infos {
			fmt.Fprintf(formatter.Writer, "%s  %s  %s\n", i.SavedAt.Format(time.RFC3339), i.Session, shortHash(i.Hash))
		}
		return nil
	}

	var rec project.Autosave
	if opts.Session != "" {
		rec, err = st.ReadAutosave(ctx, project.AutosaveSlot, opts.Session)
	} else {
		rec, err = st.ReadLatestAutosave(ctx, project.AutosaveSlot)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, "no autosave to recover", err)
	}

	p, err := project.Recover(rec)
	if err != nil {
		return formatter.Fail(ExitFailure, "autosave is corrupt", err)
	}
	// The restored file is a normal save, not an autosave.
	p.AutoSaved = false
	data, err := project.Encode(p)
	if err != nil {
		return formatter.Fail(ExitFailure, "failed to encode project", err)
	}
	if err := writeFileAtomic(opts.Output, data); err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to write project", err)
	}

	result := RecoverResult{
		Session:     rec.Session,
		SavedAt:     rec.SavedAt,
		Output:      opts.Output,
		FrontShapes: len(p.Front.Shapes),
		BackShapes:  len(p.Back.Shapes),
	}
	if opts.Discard {
		if err := st.DeleteAutosave(ctx, rec.Slot, rec.Session); err != nil {
			return formatter.Fail(ExitCommandError, "failed to discard autosave", err)
		}
		result.Discarded = true
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Recovered session %s (saved %s) to %s\n",
		result.Session, result.SavedAt.Format(time.RFC3339), result.Output)
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
