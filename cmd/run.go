package cmd

import (
	"encoding/json"
	"fmt"

	"shellrun/pkg/expect"
	"shellrun/pkg/runner"

	"github.com/spf13/cobra"
)

var (
	runDir              string
	runDirect           bool
	runJoin             string
	runAllowNonZeroExit bool
	runExpect           string
	runExpectFile       string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] [--] <command> [args...]",
	Short: "Runs a command and prints its captured output",
	Long: `The run command joins its arguments into a command line, runs it through the
host shell (or directly with --direct), waits for it to exit and prints the
captured standard output. Failures are logged with the command, working
directory and the child's error output, and make shellrun exit non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFrom(cmd)
		if cmd.Flags().Changed("expect") && runExpectFile != "" {
			return fmt.Errorf("--expect and --expect-file are mutually exclusive")
		}

		cfg, err := loadConfig(cmd, logger)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("join") {
			cfg.Runner.Join = runJoin
		}
		if runDirect {
			cfg.Runner.Strategy = "direct"
		}
		if runAllowNonZeroExit {
			allow := true
			cfg.Runner.AllowNonZeroExit = &allow
		}
		opts, err := cfg.RunnerOptions(logger)
		if err != nil {
			return err
		}

		res := newRunner(opts).Run(args, runDir)

		var outcome *expect.Outcome
		if res.Succeeded() {
			outcome, err = checkRunExpectation(cmd, res)
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			jsonBytes, err := json.MarshalIndent(newResultForJSON(res, outcome), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal result to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		} else {
			fmt.Fprint(cmd.OutOrStdout(), res.Output())
			if outcome != nil && !outcome.Matched {
				fmt.Fprintln(cmd.OutOrStdout(), "--- diff ---")
				fmt.Fprintln(cmd.OutOrStdout(), outcome.Diff)
				fmt.Fprintln(cmd.OutOrStdout(), "--- end diff ---")
			}
		}

		if !res.Succeeded() {
			return res.Err()
		}
		if outcome != nil && !outcome.Matched {
			return fmt.Errorf("output did not match expectation: %s", outcome.Summary)
		}
		return nil
	},
}

func checkRunExpectation(cmd *cobra.Command, res runner.Result) (*expect.Outcome, error) {
	var want string
	switch {
	case cmd.Flags().Changed("expect"):
		want = runExpect
	case runExpectFile != "":
		content, err := expect.Load(runExpectFile)
		if err != nil {
			return nil, err
		}
		want = content
	default:
		return nil, nil
	}
	outcome := expect.Compare(want, res.Output())
	return &outcome, nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	// Flags after the command belong to the command, so "--" is optional.
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringVar(&runDir, "dir", "", "Working directory (default is the configured or system directory)")
	runCmd.Flags().BoolVar(&runDirect, "direct", false, "Execute the command directly instead of through the shell")
	runCmd.Flags().StringVar(&runJoin, "join", "space", "How arguments are joined into the shell line (space, concat)")
	runCmd.Flags().BoolVar(&runAllowNonZeroExit, "allow-nonzero-exit", false, "Treat a non-zero exit code as success")
	runCmd.Flags().StringVar(&runExpect, "expect", "", "Fail unless the captured output equals this text")
	runCmd.Flags().StringVar(&runExpectFile, "expect-file", "", "Fail unless the captured output equals the content of this file")
	runCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")
}
