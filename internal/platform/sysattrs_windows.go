//go:build windows

package platform

import (
	"os/exec"
	"syscall"
)

// Флаги создания процесса Windows
const (
	createNewProcessGroup = 0x00000200
	detachedProcess       = 0x00000008
)

// configureSysProcAttr запускает процесс без консоли родителя и в своей группе.
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: createNewProcessGroup | detachedProcess,
		HideWindow:    true,
	}
}
