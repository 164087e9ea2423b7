//go:build !windows

package execution

import (
	"os/exec"
	"syscall"
)

// setProcessGroup gives the child its own process group so a kill can reach
// every process the command spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup force-kills the child's process group. Falls back to the
// lone process if the child moved itself to another group.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}
