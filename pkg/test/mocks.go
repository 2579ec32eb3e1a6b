package test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"shellrun/pkg/runner"
)

// MockCommandRunner is a shared mock implementation of runner.CommandRunner for testing.
// It tracks executed commands and returns configured outputs or failures.
// It is safe for concurrent use.
type MockCommandRunner struct {
	mu       sync.Mutex
	Commands []string            // Track executed commands, tokens joined by spaces
	Dirs     map[string][]string // Track working directories by command
	Outputs  map[string]string   // Output by command
	Failures map[string]*runner.Failure
	// OnRun, when set, is called before the response is looked up.
	OnRun    func(commandLine []string, dir string)
}

// NewMockCommandRunner creates a new MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Commands: []string{},
		Dirs:     make(map[string][]string),
		Outputs:  make(map[string]string),
		Failures: make(map[string]*runner.Failure),
	}
}

// Run records the command and returns the configured failure or output.
// Unconfigured commands succeed with empty output.
func (r *MockCommandRunner) Run(commandLine []string, dir string) runner.Result {
	if r.OnRun != nil {
		r.OnRun(commandLine, dir)
	}

	key := strings.Join(commandLine, " ")
	r.mu.Lock()
	r.Commands = append(r.Commands, key)
	runID := fmt.Sprintf("mock-%d", len(r.Commands))
	r.Dirs[key] = append(r.Dirs[key], dir)
	failure, failed := r.Failures[key]
	output := r.Outputs[key]
	r.mu.Unlock()

	inv := runner.Invocation{RunID: runID, Command: key, Dir: dir}
	if failed {
		f := *failure
		f.Command = key
		f.Dir = dir
		return runner.NewFailure(inv, "", &f, 0)
	}
	return runner.NewSuccess(inv, output, "", 0, 0)
}

// SetOutput configures the captured output for a command.
func (r *MockCommandRunner) SetOutput(command, output string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Outputs[command] = output
}

// SetFailure configures a failure of the given kind for a command.
func (r *MockCommandRunner) SetFailure(command string, kind runner.FailureKind, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures[command] = &runner.Failure{Kind: kind, ExitCode: -1, Err: err}
}

// Executed returns a copy of the recorded commands.
func (r *MockCommandRunner) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Commands...)
}

// Reset clears all tracked commands and configurations.
func (r *MockCommandRunner) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = []string{}
	r.Dirs = make(map[string][]string)
	r.Outputs = make(map[string]string)
	r.Failures = make(map[string]*runner.Failure)
}

// MockLogger is a shared mock implementation of Logger for testing.
// It captures logged messages for verification.
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
	Level    slog.Level
}

// NewMockLogger creates a new MockLogger with the specified level.
func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{
		Messages: []string{},
		Level:    level,
	}
}

// Debug captures debug messages.
func (l *MockLogger) Debug(msg string, args ...any) {
	if l.Level <= slog.LevelDebug {
		l.captureMessage("DEBUG", msg, args...)
	}
}

// Info captures info messages.
func (l *MockLogger) Info(msg string, args ...any) {
	if l.Level <= slog.LevelInfo {
		l.captureMessage("INFO", msg, args...)
	}
}

// Warn captures warn messages.
func (l *MockLogger) Warn(msg string, args ...any) {
	if l.Level <= slog.LevelWarn {
		l.captureMessage("WARN", msg, args...)
	}
}

// Error captures error messages.
func (l *MockLogger) Error(msg string, args ...any) {
	if l.Level <= slog.LevelError {
		l.captureMessage("ERROR", msg, args...)
	}
}

func (l *MockLogger) captureMessage(level, msg string, args ...any) {
	buf := &bytes.Buffer{}
	buf.WriteString(level)
	buf.WriteString(": ")
	buf.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(buf, " %v=%v", args[i], args[i+1])
	}
	l.mu.Lock()
	l.Messages = append(l.Messages, buf.String())
	l.mu.Unlock()
}

// Snapshot returns a copy of the captured messages.
func (l *MockLogger) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages...)
}

// Reset clears all captured messages.
func (l *MockLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = []string{}
}

// HasMessage checks if any captured message contains the given substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range l.Snapshot() {
		if strings.Contains(msg, substring) {
			return true
		}
	}
	return false
}
