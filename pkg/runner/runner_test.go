package runner

import (
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccess(t *testing.T) {
	inv := Invocation{RunID: "id-1", Command: "echo hello", Dir: "/tmp"}
	res := NewSuccess(inv, "hello\n", "", 0, time.Second)

	assert.True(t, res.Succeeded())
	assert.Equal(t, "hello\n", res.Output())
	assert.Empty(t, res.FailureDetail())
	assert.NoError(t, res.Err())
	assert.Equal(t, FailureKind(0), res.Kind())
	assert.Equal(t, "id-1", res.RunID())
	assert.Equal(t, "echo hello", res.Command())
	assert.Equal(t, "/tmp", res.Dir())
	assert.Equal(t, time.Second, res.Duration())
}

func TestNewFailure(t *testing.T) {
	inv := Invocation{RunID: "id-2", Command: "missing", Dir: "/tmp"}
	res := NewFailure(inv, "", &Failure{
		Kind:     SpawnFailure,
		Command:  "missing",
		Dir:      "/tmp",
		ExitCode: 127,
		Stderr:   "sh: missing: not found\n",
		Err:      errors.New("exit status 127"),
	}, 0)

	assert.False(t, res.Succeeded())
	assert.Equal(t, SpawnFailure, res.Kind())
	assert.Equal(t, 127, res.ExitCode())
	assert.Equal(t, "sh: missing: not found\n", res.Stderr())
	assert.Equal(t, `spawn failure: run "missing" in "/tmp": exit status 127: sh: missing: not found`, res.FailureDetail())

	var failure *Failure
	require.ErrorAs(t, res.Err(), &failure)
	assert.Equal(t, "missing", failure.Command)
}

func TestNewFailure_NilFailureStillHasDetail(t *testing.T) {
	res := NewFailure(Invocation{Command: "x", Dir: "/"}, "", nil, 0)

	assert.False(t, res.Succeeded())
	assert.Equal(t, RuntimeFailure, res.Kind())
	assert.NotEmpty(t, res.FailureDetail())
}

func TestFailure_Unwrap(t *testing.T) {
	execErr := &exec.Error{Name: "nonexistent-binary-xyz", Err: exec.ErrNotFound}
	f := &Failure{Kind: SpawnFailure, Command: "nonexistent-binary-xyz", Err: execErr}

	assert.ErrorIs(t, f, exec.ErrNotFound)
	assert.Contains(t, f.Error(), "nonexistent-binary-xyz")
}

func TestFailure_StderrIsSummarized(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4", "l5", "l6", "l7"}
	f := &Failure{Kind: RuntimeFailure, Command: "c", Dir: "d", Stderr: strings.Join(lines, "\r\n")}

	msg := f.Error()
	assert.Contains(t, msg, "l1 | l2 | l3 | l4 | l5 | ...")
	assert.NotContains(t, msg, "l6")
	assert.NotContains(t, msg, "\r")
}

func TestFailureKind_String(t *testing.T) {
	assert.Equal(t, "spawn failure", SpawnFailure.String())
	assert.Equal(t, "runtime failure", RuntimeFailure.String())
	assert.Equal(t, "unknown failure (9)", FailureKind(9).String())
}

func TestJoinPolicy(t *testing.T) {
	tokens := []string{"echo", "hello", "world"}

	assert.Equal(t, "echo hello world", JoinSpace.Join(tokens))
	assert.Equal(t, "echohelloworld", JoinConcat.Join(tokens))
	assert.Equal(t, "echo hello world", JoinPolicy("").Join(tokens))
}

func TestParseJoinPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    JoinPolicy
		wantErr bool
	}{
		{"", JoinSpace, false},
		{"space", JoinSpace, false},
		{"Concat", JoinConcat, false},
		{"none", JoinConcat, false},
		{"comma", JoinSpace, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJoinPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
