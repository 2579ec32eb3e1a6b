package system

import (
	"fmt"
	"os"
)

// systemDirEnv names the variable holding the host system directory.
const systemDirEnv = "windir"

// ResolveWorkDir returns the default working directory: the host system
// directory if the environment names one, otherwise the current directory.
// It returns "" only when both lookups fail, in which case the child inherits
// the parent's directory.
func ResolveWorkDir(lookupEnv func(string) (string, bool), getwd func() (string, error)) string {
	if dir, ok := lookupEnv(systemDirEnv); ok && dir != "" {
		return dir
	}
	dir, err := getwd()
	if err != nil {
		return ""
	}
	return dir
}

// DefaultWorkDir resolves the default working directory from the process environment.
func DefaultWorkDir() string {
	return ResolveWorkDir(os.LookupEnv, os.Getwd)
}

func checkWorkDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := AppFs.Stat(dir)
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %s is not a directory", dir)
	}
	return nil
}
