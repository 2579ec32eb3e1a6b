package cmd

import (
	"shellrun/pkg/expect"
	"shellrun/pkg/runner"
)

// resultForJSON is a struct used for marshaling a run result to JSON for machine-readable output.
type resultForJSON struct {
	RunID         string              `json:"run_id"`
	Command       string              `json:"command"`
	Dir           string              `json:"dir"`
	Succeeded     bool                `json:"succeeded"`
	Output        string              `json:"output"`
	Stderr        string              `json:"stderr,omitempty"`
	ExitCode      int                 `json:"exit_code"`
	DurationMs    int64               `json:"duration_ms"`
	FailureKind   string              `json:"failure_kind,omitempty"`
	FailureDetail string              `json:"failure_detail,omitempty"`
	Expectation   *expectationForJSON `json:"expectation,omitempty"`
}

type expectationForJSON struct {
	Matched bool   `json:"matched"`
	Summary string `json:"summary,omitempty"`
}

type jobForJSON struct {
	Name   string        `json:"name"`
	Passed bool          `json:"passed"`
	Error  string        `json:"error,omitempty"`
	Result resultForJSON `json:"result"`
}

func newResultForJSON(res runner.Result, outcome *expect.Outcome) resultForJSON {
	out := resultForJSON{
		RunID:         res.RunID(),
		Command:       res.Command(),
		Dir:           res.Dir(),
		Succeeded:     res.Succeeded(),
		Output:        res.Output(),
		Stderr:        res.Stderr(),
		ExitCode:      res.ExitCode(),
		DurationMs:    res.Duration().Milliseconds(),
		FailureDetail: res.FailureDetail(),
	}
	if !res.Succeeded() {
		out.FailureKind = res.Kind().String()
	}
	if outcome != nil {
		out.Expectation = &expectationForJSON{Matched: outcome.Matched, Summary: outcome.Summary}
	}
	return out
}
