package batch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"shellrun/pkg/config"
	"shellrun/pkg/runner"
	"shellrun/pkg/system"
	"shellrun/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRun_ReportsInJobOrder(t *testing.T) {
	mock := test.NewMockCommandRunner()
	logger := test.NewMockLogger(slog.LevelDebug)

	var jobs []config.Job
	for i := 0; i < 10; i++ {
		cmd := fmt.Sprintf("echo %d", i)
		mock.SetOutput(cmd, fmt.Sprintf("%d\n", i))
		jobs = append(jobs, config.Job{
			Name:    fmt.Sprintf("job-%d", i),
			Command: []string{"echo", fmt.Sprint(i)},
			Expect:  strPtr(fmt.Sprintf("%d\n", i)),
		})
	}

	reports := Run(mock, jobs, 4, logger)

	require.Len(t, reports, 10)
	for i, r := range reports {
		assert.Equal(t, fmt.Sprintf("job-%d", i), r.Job.Name)
		assert.True(t, r.Passed())
		assert.Equal(t, fmt.Sprintf("%d\n", i), r.Result.Output())
	}
	assert.Len(t, mock.Executed(), 10)
}

func TestRun_RespectsParallelLimit(t *testing.T) {
	mock := test.NewMockCommandRunner()
	var inFlight, peak atomic.Int32
	mock.OnRun = func([]string, string) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
	}

	jobs := make([]config.Job, 8)
	for i := range jobs {
		jobs[i] = config.Job{Name: fmt.Sprint(i), Command: []string{"true"}}
	}

	Run(mock, jobs, 2, test.NewMockLogger(slog.LevelInfo))

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestRun_NonPositiveParallelRunsSerially(t *testing.T) {
	mock := test.NewMockCommandRunner()
	var inFlight, peak atomic.Int32
	mock.OnRun = func([]string, string) {
		if n := inFlight.Add(1); n > peak.Load() {
			peak.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
	}
	jobs := []config.Job{{Name: "a", Command: []string{"a"}}, {Name: "b", Command: []string{"b"}}, {Name: "c", Command: []string{"c"}}}

	reports := Run(mock, jobs, 0, test.NewMockLogger(slog.LevelInfo))

	assert.Len(t, reports, 3)
	assert.Equal(t, int32(1), peak.Load())
}

func TestRun_NilLogger(t *testing.T) {
	mock := test.NewMockCommandRunner()
	mock.SetOutput("echo hi", "hi\n")
	jobs := []config.Job{
		{Name: "hi", Command: []string{"echo", "hi"}, Expect: strPtr("bye\n")},
		{Name: "other", Command: []string{"true"}},
	}

	var reports []Report
	require.NotPanics(t, func() { reports = Run(mock, jobs, 2, nil) })

	require.Len(t, reports, 2)
	assert.False(t, reports[0].Passed())
	assert.True(t, reports[1].Passed())
}

func TestRun_RepeatedWithReset(t *testing.T) {
	mock := test.NewMockCommandRunner()
	logger := test.NewMockLogger(slog.LevelDebug)
	jobs := []config.Job{{Name: "hi", Command: []string{"echo", "hi"}, Expect: strPtr("hi\n")}}

	mock.SetOutput("echo hi", "bye\n")
	first := Run(mock, jobs, 1, logger)
	require.Len(t, first, 1)
	assert.False(t, first[0].Passed())
	assert.True(t, logger.HasMessage("hi"))

	mock.Reset()
	logger.Reset()
	assert.Empty(t, mock.Executed())
	assert.Empty(t, logger.Snapshot())

	mock.SetOutput("echo hi", "hi\n")
	second := Run(mock, jobs, 1, logger)
	require.Len(t, second, 1)
	assert.True(t, second[0].Passed())
	assert.Equal(t, []string{"echo hi"}, mock.Executed())
}

func TestRun_FailuresAndMismatches(t *testing.T) {
	orig := system.AppFs
	t.Cleanup(func() { system.AppFs = orig })
	system.AppFs = test.SetupMockFilesystem(t)
	test.CreateTestFile(t, system.AppFs, "/golden/ok.txt", "ok\n")

	mock := test.NewMockCommandRunner()
	mock.SetOutput("echo ok", "ok\n")
	mock.SetOutput("echo wrong", "wrong\n")
	mock.SetFailure("missing", runner.SpawnFailure, errors.New("not found"))
	logger := test.NewMockLogger(slog.LevelInfo)

	jobs := []config.Job{
		{Name: "file", Command: []string{"echo", "ok"}, ExpectFile: "/golden/ok.txt"},
		{Name: "mismatch", Command: []string{"echo", "wrong"}, Expect: strPtr("right\n")},
		{Name: "spawn", Command: []string{"missing"}},
		{Name: "nofile", Command: []string{"echo", "ok"}, ExpectFile: "/golden/missing.txt"},
		{Name: "plain", Command: []string{"echo", "wrong"}, Dir: "/srv"},
	}

	reports := Run(mock, jobs, 3, logger)

	assert.True(t, reports[0].Passed())
	require.NotNil(t, reports[0].Outcome)
	assert.True(t, reports[0].Outcome.Matched)

	assert.False(t, reports[1].Passed())
	require.NotNil(t, reports[1].Outcome)
	assert.Equal(t, `line 1: want "right", got "wrong"`, reports[1].Outcome.Summary)

	assert.False(t, reports[2].Passed())
	assert.Equal(t, runner.SpawnFailure, reports[2].Result.Kind())
	assert.Nil(t, reports[2].Outcome)

	assert.False(t, reports[3].Passed())
	assert.Error(t, reports[3].Err)

	assert.True(t, reports[4].Passed())
	assert.Nil(t, reports[4].Outcome)
	assert.Contains(t, mock.Dirs["echo wrong"], "/srv")

	passed, failed := Summary(reports)
	assert.Equal(t, 2, passed)
	assert.Equal(t, 3, failed)

	test.AssertLogContains(t, logger, "Job failed")
	test.AssertLogContains(t, logger, "Job output did not match expectation")
	test.AssertLogContains(t, logger, "Job expectation could not be loaded")
}
