package test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SetupMockFilesystem creates an in-memory filesystem for testing.
// The caller is responsible for setting system.AppFs if needed.
func SetupMockFilesystem(t *testing.T) afero.Fs {
	return afero.NewMemMapFs()
}

// CreateTestFile creates a file with content in the test filesystem.
func CreateTestFile(t *testing.T, fs afero.Fs, path, content string) {
	err := fs.MkdirAll(filepath.Dir(path), 0755)
	require.NoError(t, err)
	err = afero.WriteFile(fs, path, []byte(content), 0644)
	require.NoError(t, err)
}

// CreateTestDir creates a directory in the test filesystem.
func CreateTestDir(t *testing.T, fs afero.Fs, path string) {
	err := fs.MkdirAll(path, 0755)
	require.NoError(t, err)
}

// AssertCommandExecuted checks that a command was executed by the mock runner.
func AssertCommandExecuted(t *testing.T, runner *MockCommandRunner, command string) {
	require.Contains(t, runner.Executed(), command, "Command should have been executed: %s", command)
}

// AssertCommandNotExecuted checks that a command was not executed.
func AssertCommandNotExecuted(t *testing.T, runner *MockCommandRunner, command string) {
	require.NotContains(t, runner.Executed(), command, "Command should not have been executed: %s", command)
}

// AssertLogContains checks that the logger captured a message containing the substring.
func AssertLogContains(t *testing.T, logger *MockLogger, substring string) {
	require.True(t, logger.HasMessage(substring), "Log should contain: %s", substring)
}

// RequirePOSIXShell skips tests that depend on /bin/sh builtins.
func RequirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
}
