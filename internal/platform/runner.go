package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/qzeleza/energy/internal/logger"
)

// Handle ссылка на запущенный процесс. После создания не проверяется:
// код завершения команды shutdown приложение не интересует.
type Handle struct {
	PID  int
	Argv []string
}

// Runner запускает внешнюю команду и не ждет ее завершения.
type Runner interface {
	Start(argv []string) (*Handle, error)
}

// ExecRunner запускает команды через os/exec в отдельной сессии.
type ExecRunner struct {
	log *logger.Logger
}

// NewExecRunner создает Runner, работающий с реальными процессами.
func NewExecRunner(log *logger.Logger) *ExecRunner {
	return &ExecRunner{log: log}
}

// Start запускает argv отсоединенным процессом.
// Ошибка возвращается только если процесс не удалось создать.
func (r *ExecRunner) Start(argv []string) (*Handle, error) {
	if len(argv) == 0 {
		return nil, errors.New("пустая команда")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	configureSysProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("не удалось запустить '%s': %w", strings.Join(argv, " "), err)
	}

	h := &Handle{PID: cmd.Process.Pid, Argv: argv}
	r.log.Debug(fmt.Sprintf("Запущена команда '%s' (PID: %d)", strings.Join(argv, " "), h.PID))

	// забираем статус, чтобы не оставлять зомби; результат не анализируется
	go func() { _ = cmd.Wait() }()

	return h, nil
}
