// Package batch runs configured jobs concurrently and checks their expectations.
package batch

import (
	"shellrun/pkg/config"
	"shellrun/pkg/expect"
	"shellrun/pkg/log"
	"shellrun/pkg/runner"

	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one job.
type Report struct {
	Job     config.Job
	Result  runner.Result
	Outcome *expect.Outcome // nil when the job has no expectation
	Err     error           // set when the expectation could not be loaded
}

// Passed reports whether the command succeeded and met its expectation.
func (r Report) Passed() bool {
	if r.Err != nil || !r.Result.Succeeded() {
		return false
	}
	return r.Outcome == nil || r.Outcome.Matched
}

// Run executes jobs with at most parallel running at once and returns one
// report per job, in job order. parallel <= 0 runs jobs one at a time.
// A nil logger discards job progress.
func Run(cmdRunner runner.CommandRunner, jobs []config.Job, parallel int, logger log.Logger) []Report {
	if logger == nil {
		logger = log.Discard()
	}
	if parallel <= 0 {
		parallel = 1
	}
	reports := make([]Report, len(jobs))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, job := range jobs {
		g.Go(func() error {
			reports[i] = runJob(cmdRunner, job, logger)
			return nil
		})
	}
	// Jobs never return errors; failures are carried in the reports.
	_ = g.Wait()

	return reports
}

func runJob(cmdRunner runner.CommandRunner, job config.Job, logger log.Logger) Report {
	logger.Debug("Starting job", "job", job.Name, "command", job.Command)
	report := Report{Job: job, Result: cmdRunner.Run(job.Command, job.Dir)}

	if !report.Result.Succeeded() {
		logger.Warn("Job failed", "job", job.Name, "error", report.Result.FailureDetail())
		return report
	}

	want, ok, err := expectation(job)
	if err != nil {
		report.Err = err
		logger.Warn("Job expectation could not be loaded", "job", job.Name, "error", err)
		return report
	}
	if ok {
		outcome := expect.Compare(want, report.Result.Output())
		report.Outcome = &outcome
		if !outcome.Matched {
			logger.Warn("Job output did not match expectation", "job", job.Name, "difference", outcome.Summary)
		}
	}
	return report
}

func expectation(job config.Job) (string, bool, error) {
	if job.Expect != nil {
		return *job.Expect, true, nil
	}
	if job.ExpectFile != "" {
		want, err := expect.Load(job.ExpectFile)
		if err != nil {
			return "", false, err
		}
		return want, true, nil
	}
	return "", false, nil
}

// Summary counts passed and failed reports.
func Summary(reports []Report) (passed, failed int) {
	for _, r := range reports {
		if r.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
