//go:build windows

package system

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// cmd.exe exits 9009 when the command is not recognized.
var shellNotFoundCodes = map[int]bool{9009: true}

func shellCommand(line string) *exec.Cmd {
	shell := os.Getenv("COMSPEC")
	if shell == "" {
		shell = "cmd.exe"
	}
	cmd := exec.Command(shell)
	// cmd.exe does its own parsing; Go's argument quoting would mangle the line.
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: shell + " /C " + line}
	return cmd
}

func hideWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
}
