package system

import (
	"fmt"
	"os/exec"
	"strings"

	"shellrun/pkg/runner"
)

// Strategy turns command tokens into a process ready to start.
type Strategy interface {
	// Prepare builds the process for tokens and returns the command line used
	// in diagnostics. tokens is never empty.
	Prepare(tokens []string) (*exec.Cmd, string)
	// LaunchFailed reports whether an exit code means the requested command
	// could not be found or executed, as opposed to failing on its own.
	LaunchFailed(exitCode int) bool
}

// ShellStrategy runs the joined command line through the host shell.
type ShellStrategy struct {
	Join runner.JoinPolicy
}

func (s ShellStrategy) Prepare(tokens []string) (*exec.Cmd, string) {
	line := s.Join.Join(tokens)
	return shellCommand(line), line
}

func (s ShellStrategy) LaunchFailed(exitCode int) bool {
	return shellNotFoundCodes[exitCode]
}

// DirectStrategy executes the first token directly with the rest as arguments.
type DirectStrategy struct{}

func (DirectStrategy) Prepare(tokens []string) (*exec.Cmd, string) {
	return exec.Command(tokens[0], tokens[1:]...), strings.Join(tokens, " ")
}

// LaunchFailed is false: without a shell, launch errors surface from Start.
func (DirectStrategy) LaunchFailed(int) bool {
	return false
}

// ParseStrategy maps a config or flag value to a Strategy.
func ParseStrategy(name string, join runner.JoinPolicy) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "shell":
		return ShellStrategy{Join: join}, nil
	case "direct":
		return DirectStrategy{}, nil
	default:
		return nil, fmt.Errorf("invalid strategy: %s", name)
	}
}
