package harness

import (
	"github.com/roach88/cardsmith/internal/document"
)

// TraceEvent records one executed step.
type TraceEvent struct {
	Step     int      `json:"step"`
	Op       string   `json:"op"`
	Shape    string   `json:"shape,omitempty"`
	IDs      []string `json:"ids,omitempty"`
	OK       bool     `json:"ok"`
	Side     string   `json:"side"`
	Revision uint64   `json:"revision"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`

	// Document and CurrentSide are the editor's final state.
	Document    document.Document `json:"-"`
	CurrentSide document.SideID   `json:"-"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
