//go:build !windows

package system

import "os/exec"

// sh exits 127 when the command is not found and 126 when it is not executable.
var shellNotFoundCodes = map[int]bool{126: true, 127: true}

func shellCommand(line string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", line)
}

// hideWindow is a no-op: there is no console window to suppress.
func hideWindow(*exec.Cmd) {}
