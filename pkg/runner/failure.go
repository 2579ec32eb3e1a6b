package runner

import (
	"fmt"
	"strings"
)

// FailureKind classifies why a command did not succeed.
type FailureKind int

const (
	// SpawnFailure means the child process could not be created: missing
	// executable, permission denied, invalid working directory.
	SpawnFailure FailureKind = iota + 1
	// RuntimeFailure means the process started but something went wrong while
	// it ran or while its output was drained.
	RuntimeFailure
)

func (k FailureKind) String() string {
	switch k {
	case SpawnFailure:
		return "spawn failure"
	case RuntimeFailure:
		return "runtime failure"
	default:
		return fmt.Sprintf("unknown failure (%d)", int(k))
	}
}

// maxStderrLines bounds how much of the child's error stream ends up in Error().
const maxStderrLines = 5

// Failure describes a command that did not succeed.
type Failure struct {
	Kind     FailureKind
	Command  string
	Dir      string
	ExitCode int // -1 when the process never exited
	Stderr   string
	Err      error
}

func (f *Failure) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: run %q in %q", f.Kind, f.Command, f.Dir)
	if f.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Err.Error())
	}
	if stderr := summarizeStderr(f.Stderr); stderr != "" {
		sb.WriteString(": ")
		sb.WriteString(stderr)
	}
	return sb.String()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func summarizeStderr(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > maxStderrLines {
		lines = append(lines[:maxStderrLines], "...")
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return strings.Join(lines, " | ")
}
