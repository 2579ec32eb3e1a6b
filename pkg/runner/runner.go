// Package runner defines the command execution contract and its result types.
// This package exists to break import cycles between testing and system packages.
package runner

// CommandRunner runs one external command to completion and returns what happened.
// Implementations never return an error or panic: every outcome, including a
// process that could not be started, is described by the returned Result.
type CommandRunner interface {
	Run(commandLine []string, workingDir string) Result
}
