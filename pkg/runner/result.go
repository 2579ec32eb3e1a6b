package runner

import "time"

// Invocation identifies a single call to a CommandRunner.
type Invocation struct {
	RunID   string
	Command string // command line as launched, for diagnostics
	Dir     string
}

// Result is the outcome of one command execution. It is built once by
// NewSuccess or NewFailure and cannot be modified afterwards.
type Result struct {
	inv      Invocation
	output   string
	stderr   string
	exitCode int
	duration time.Duration
	failure  *Failure
}

// NewSuccess builds the result of a command that ran to completion.
func NewSuccess(inv Invocation, output, stderr string, exitCode int, duration time.Duration) Result {
	return Result{
		inv:      inv,
		output:   output,
		stderr:   stderr,
		exitCode: exitCode,
		duration: duration,
	}
}

// NewFailure builds the result of a command that failed. Output captured
// before the failure is kept. A nil failure is replaced by a generic
// RuntimeFailure so that a failed Result always carries a detail.
func NewFailure(inv Invocation, output string, failure *Failure, duration time.Duration) Result {
	if failure == nil {
		failure = &Failure{Kind: RuntimeFailure, Command: inv.Command, Dir: inv.Dir, ExitCode: -1}
	}
	return Result{
		inv:      inv,
		output:   output,
		stderr:   failure.Stderr,
		exitCode: failure.ExitCode,
		duration: duration,
		failure:  failure,
	}
}

func (r Result) RunID() string           { return r.inv.RunID }
func (r Result) Command() string         { return r.inv.Command }
func (r Result) Dir() string             { return r.inv.Dir }
func (r Result) Output() string          { return r.output }
func (r Result) Stderr() string          { return r.stderr }
func (r Result) ExitCode() int           { return r.exitCode }
func (r Result) Duration() time.Duration { return r.duration }

// Succeeded reports whether the command ran and exited successfully.
func (r Result) Succeeded() bool {
	return r.failure == nil
}

// FailureDetail returns a human-readable description of the failure, or ""
// when the command succeeded.
func (r Result) FailureDetail() string {
	if r.failure == nil {
		return ""
	}
	return r.failure.Error()
}

// Kind returns the failure kind, or 0 when the command succeeded.
func (r Result) Kind() FailureKind {
	if r.failure == nil {
		return 0
	}
	return r.failure.Kind
}

// Err returns the *Failure as an error, or nil on success.
func (r Result) Err() error {
	if r.failure == nil {
		return nil
	}
	return r.failure
}
