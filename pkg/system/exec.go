package system

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os/exec"
	"strings"
	"time"

	"shellrun/pkg/log"
	"shellrun/pkg/runner"

	"github.com/google/uuid"
)

// CommandRunner defines an interface for running commands.
// Re-exported from pkg/runner so callers only need this package.
type CommandRunner = runner.CommandRunner

var errEmptyCommand = errors.New("empty command line")

// Options configures a LiveCommandRunner. The zero value runs commands through
// the host shell with space-joined tokens in the default working directory,
// treats non-zero exit codes as failures and reports nothing.
type Options struct {
	Strategy         Strategy
	WorkDir          string
	AllowNonZeroExit bool
	// Logger receives one record per run. Nil disables reporting.
	Logger           log.Logger
}

// LiveCommandRunner is an implementation of CommandRunner that runs commands on the live system.
// It holds no per-run state and is safe for concurrent use.
type LiveCommandRunner struct {
	strategy         Strategy
	workDir          string
	allowNonZeroExit bool
	logger           log.Logger
}

func NewLiveCommandRunner(opts Options) *LiveCommandRunner {
	r := &LiveCommandRunner{
		strategy:         opts.Strategy,
		workDir:          opts.WorkDir,
		allowNonZeroExit: opts.AllowNonZeroExit,
		logger:           opts.Logger,
	}
	if r.strategy == nil {
		r.strategy = ShellStrategy{Join: runner.JoinSpace}
	}
	if r.workDir == "" {
		r.workDir = DefaultWorkDir()
	}
	return r
}

// WorkDir returns the directory used when Run is called without one.
func (r *LiveCommandRunner) WorkDir() string {
	return r.workDir
}

// Run executes the command and blocks until it exits. Standard output is
// captured line by line, each line terminated with "\n"; standard error is
// captured separately.
func (r *LiveCommandRunner) Run(commandLine []string, workingDir string) runner.Result {
	res := r.run(commandLine, workingDir)
	r.report(res)
	return res
}

func (r *LiveCommandRunner) run(commandLine []string, workingDir string) runner.Result {
	start := time.Now()
	inv := runner.Invocation{RunID: uuid.NewString(), Dir: workingDir}
	if inv.Dir == "" {
		inv.Dir = r.workDir
	}

	fail := func(kind runner.FailureKind, output, stderr string, exitCode int, err error) runner.Result {
		return runner.NewFailure(inv, output, &runner.Failure{
			Kind:     kind,
			Command:  inv.Command,
			Dir:      inv.Dir,
			ExitCode: exitCode,
			Stderr:   stderr,
			Err:      err,
		}, time.Since(start))
	}

	if len(commandLine) == 0 {
		return fail(runner.SpawnFailure, "", "", -1, errEmptyCommand)
	}

	cmd, line := r.strategy.Prepare(commandLine)
	inv.Command = line

	if err := checkWorkDir(inv.Dir); err != nil {
		return fail(runner.SpawnFailure, "", "", -1, err)
	}
	cmd.Dir = inv.Dir
	hideWindow(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fail(runner.SpawnFailure, "", "", -1, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fail(runner.SpawnFailure, "", "", -1, err)
	}

	output, drainErr := drainLines(stdout)
	if drainErr != nil {
		// Keep the pipe empty so the child can exit.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return fail(runner.RuntimeFailure, output, stderr.String(), exitCode, waitErr)
		}
		if exitCode > 0 && r.allowNonZeroExit && drainErr == nil {
			return runner.NewSuccess(inv, output, stderr.String(), exitCode, time.Since(start))
		}
		kind := runner.RuntimeFailure
		if r.strategy.LaunchFailed(exitCode) {
			kind = runner.SpawnFailure
		}
		return fail(kind, output, stderr.String(), exitCode, waitErr)
	}
	if drainErr != nil {
		return fail(runner.RuntimeFailure, output, stderr.String(), exitCode, drainErr)
	}

	return runner.NewSuccess(inv, output, stderr.String(), exitCode, time.Since(start))
}

// drainLines reads rd to EOF, normalizing every line to end in a single "\n".
func drainLines(rd io.Reader) (string, error) {
	var sb strings.Builder
	br := bufio.NewReader(rd)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		if err == io.EOF {
			return sb.String(), nil
		}
		if err != nil {
			return sb.String(), err
		}
	}
}

func (r *LiveCommandRunner) report(res runner.Result) {
	if r.logger == nil {
		return
	}
	if res.Succeeded() {
		r.logger.Info("command succeeded",
			"run_id", res.RunID(),
			"command", res.Command(),
			"dir", res.Dir(),
			"exit_code", res.ExitCode(),
			"duration", res.Duration(),
			"output", res.Output(),
		)
		return
	}
	r.logger.Error("command failed",
		"run_id", res.RunID(),
		"kind", res.Kind().String(),
		"error", res.FailureDetail(),
	)
}
