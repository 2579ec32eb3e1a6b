package cmd

import (
	"encoding/json"
	"fmt"

	"shellrun/pkg/batch"
	"shellrun/pkg/config"

	"github.com/spf13/cobra"
)

var batchParallel int

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [job...]",
	Short: "Runs the jobs declared in the config file",
	Long: `The batch command runs every job from the config file, or only the named jobs,
with up to --parallel jobs at once. A job passes when its command succeeds and
its output matches the job's expectation, if it declares one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFrom(cmd)

		cfg, err := loadConfig(cmd, logger)
		if err != nil {
			return err
		}
		jobs, err := selectJobs(cfg, args)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			return fmt.Errorf("no jobs configured in %s", cfgFile)
		}

		parallel := cfg.Batch.Parallel
		if cmd.Flags().Changed("parallel") {
			parallel = batchParallel
		}
		opts, err := cfg.RunnerOptions(logger)
		if err != nil {
			return err
		}

		reports := batch.Run(newRunner(opts), jobs, parallel, logger)
		passed, failed := batch.Summary(reports)

		if jsonOutput {
			jobsForJSON := []jobForJSON{}
			for _, r := range reports {
				j := jobForJSON{
					Name:   r.Job.Name,
					Passed: r.Passed(),
					Result: newResultForJSON(r.Result, r.Outcome),
				}
				if r.Err != nil {
					j.Error = r.Err.Error()
				}
				jobsForJSON = append(jobsForJSON, j)
			}
			jsonBytes, err := json.MarshalIndent(jobsForJSON, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal reports to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		} else {
			for _, r := range reports {
				printReport(cmd, r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", passed, failed)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d jobs failed", failed, len(reports))
		}
		return nil
	},
}

func selectJobs(cfg *config.Config, names []string) ([]config.Job, error) {
	if len(names) == 0 {
		return cfg.Jobs, nil
	}
	jobs := []config.Job{}
	for _, name := range names {
		job, ok := cfg.Job(name)
		if !ok {
			return nil, fmt.Errorf("unknown job: %s", name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func printReport(cmd *cobra.Command, r batch.Report) {
	out := cmd.OutOrStdout()
	switch {
	case r.Passed():
		fmt.Fprintf(out, "PASS %s\n", r.Job.Name)
	case !r.Result.Succeeded():
		fmt.Fprintf(out, "FAIL %s: %s\n", r.Job.Name, r.Result.FailureDetail())
	case r.Err != nil:
		fmt.Fprintf(out, "FAIL %s: %v\n", r.Job.Name, r.Err)
	default:
		fmt.Fprintf(out, "FAIL %s: %s\n", r.Job.Name, r.Outcome.Summary)
		fmt.Fprintf(out, "   - %s\n", r.Outcome.Diff)
	}
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 1, "Maximum number of jobs running at once")
	batchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the reports in JSON format")
}
