package system

import (
	"testing"

	"shellrun/pkg/runner"
	"shellrun/pkg/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellStrategy_Prepare(t *testing.T) {
	test.RequirePOSIXShell(t)

	cmd, line := ShellStrategy{Join: runner.JoinSpace}.Prepare([]string{"echo", "hello"})
	assert.Equal(t, "echo hello", line)
	assert.Equal(t, []string{"/bin/sh", "-c", "echo hello"}, cmd.Args)

	_, line = ShellStrategy{Join: runner.JoinConcat}.Prepare([]string{"echo", "hello"})
	assert.Equal(t, "echohello", line)
}

func TestShellStrategy_LaunchFailed(t *testing.T) {
	test.RequirePOSIXShell(t)

	s := ShellStrategy{}
	assert.True(t, s.LaunchFailed(127))
	assert.True(t, s.LaunchFailed(126))
	assert.False(t, s.LaunchFailed(1))
}

func TestDirectStrategy_Prepare(t *testing.T) {
	cmd, line := DirectStrategy{}.Prepare([]string{"echo", "a  b"})
	assert.Equal(t, "echo a  b", line)
	assert.Equal(t, []string{"echo", "a  b"}, cmd.Args)
	assert.False(t, DirectStrategy{}.LaunchFailed(127))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("", runner.JoinConcat)
	require.NoError(t, err)
	assert.Equal(t, ShellStrategy{Join: runner.JoinConcat}, s)

	s, err = ParseStrategy("Direct", runner.JoinSpace)
	require.NoError(t, err)
	assert.Equal(t, DirectStrategy{}, s)

	_, err = ParseStrategy("powershell", runner.JoinSpace)
	assert.EqualError(t, err, "invalid strategy: powershell")
}
