//go:build !windows

package background

import (
	"os"
	"os/exec"
	"syscall"
)

// tryLock берет эксклюзивную блокировку без ожидания.
func tryLock(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

// unlockFile снимает блокировку.
func unlockFile(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}

// detach отсоединяет потомка от текущей сессии.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
