//go:build !windows

package platform

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr запускает процесс в новой сессии, отвязывая его от терминала.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
