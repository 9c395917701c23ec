//go:build !windows

package supervisor

import (
	"errors"
	"os/exec"
	"syscall"
)

// pidAlive returns true if a process with given pid exists (or EPERM).
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

// terminate asks the process to shut down.
func terminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}

// configureDetachAttrs puts the child in its own session so it survives the
// launcher and has no controlling terminal.
func configureDetachAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}
}
