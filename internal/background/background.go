/**
 * @file background.go
 * @brief Управление фоновыми экземплярами приложения и их жизненным циклом.
 *
 * Пакет запускает агент в трее отсоединенным процессом, не дает запустить
 * второй экземпляр того же типа (lock-файл) и умеет останавливать запущенный экземпляр.
 */

package background

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
)

// ErrAlreadyRunning экземпляр этого типа уже запущен.
var ErrAlreadyRunning = errors.New("процесс уже запущен")

//================================================================================
// СТРУКТУРЫ ДАННЫХ
//================================================================================

// Manager управляет фоновыми процессами приложения.
type Manager struct {
	log *logger.Logger
}

// New создает новый экземпляр Manager.
//
// @param log *logger.Logger - логгер для записи событий.
// @return *Manager - новый экземпляр Manager.
func New(log *logger.Logger) *Manager {
	return &Manager{log: log}
}

//================================================================================
// ОСНОВНЫЕ МЕТОДЫ
//================================================================================

// LaunchDetached запускает новый экземпляр приложения с аргументами args
// в отдельной сессии и не ждет его завершения.
//
// @param args - аргументы командной строки нового экземпляра (например, "tray").
// @return error - ошибка запуска.
func (m *Manager) LaunchDetached(args ...string) error {
	binPath := paths.BinaryPath()
	if binPath == paths.AppName {
		m.log.Error(fmt.Sprintf("Не удалось получить полный путь к исполняемому файлу, используется '%s'. Убедитесь, что он находится в PATH.", binPath))
	}

	cmd := exec.Command(binPath, args...)
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("не удалось запустить отсоединенный процесс '%s': %w", strings.Join(args, " "), err)
	}

	m.log.Info(fmt.Sprintf("Процесс '%s' запущен в фоновом режиме с PID %d.", strings.Join(args, " "), cmd.Process.Pid))
	// родитель не ждет потомка и может завершиться раньше него
	return cmd.Process.Release()
}

// Run выполняет задачу, удерживая блокировку для указанного типа процесса.
// Задача выполняется в вызывающей горутине (systray требует главный поток);
// SIGINT и SIGTERM отменяют ее контекст. Метод возвращается после завершения задачи.
//
// @param processType - идентификатор процесса (например, "tray").
// @param task - основная логика процесса.
// @return error - ErrAlreadyRunning или ошибка создания блокировки.
func (m *Manager) Run(processType string, task func(ctx context.Context)) error {
	lockFile, err := m.lock(processType)
	if err != nil {
		return err
	}
	defer m.unlock(lockFile)

	if err := m.writePID(processType); err != nil {
		m.log.Info(fmt.Sprintf("Не удалось записать PID-файл для '%s': %v", processType, err))
	}
	defer m.removePID(processType)

	m.log.Info(fmt.Sprintf("Процесс '%s' запущен и заблокирован.", processType))

	ctx, stop := m.handleSignals(processType)
	defer stop()

	if task != nil {
		task(ctx)
	}
	m.log.Info(fmt.Sprintf("Задача процесса '%s' завершена. Снятие блокировки.", processType))
	return nil
}

// IsRunning проверяет, запущен ли процесс указанного типа, по lock-файлу.
func (m *Manager) IsRunning(processType string) bool {
	file, err := os.OpenFile(paths.LockPath(processType), os.O_RDWR, 0644)
	if err != nil {
		return false
	}
	defer file.Close()

	// если блокировку удалось взять, значит, ее никто не держит
	if err := tryLock(file); err == nil {
		_ = unlockFile(file)
		return false
	}
	return true
}

// Kill просит завершиться процесс, PID которого записан в PID-файле.
//
// @param processType - идентификатор процесса.
// @return error - ошибка чтения PID или отправки сигнала.
func (m *Manager) Kill(processType string) error {
	pidPath := paths.PIDPath(processType)
	pidBytes, err := os.ReadFile(pidPath)
	if err != nil {
		return fmt.Errorf("не удалось прочитать PID-файл для '%s': %w", processType, err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(pidBytes)))
	if err != nil {
		return fmt.Errorf("некорректный PID в файле '%s': %w", pidPath, err)
	}

	exists, err := process.PidExists(int32(pid))
	if err == nil && !exists {
		m.log.Info(fmt.Sprintf("Процесс '%s' (PID: %d) уже был завершен.", processType, pid))
		m.removePID(processType)
		_ = os.Remove(paths.LockPath(processType))
		return nil
	}

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Errorf("не удалось найти процесс с PID %d: %w", pid, err)
	}
	if err := p.Terminate(); err != nil {
		return fmt.Errorf("не удалось отправить сигнал завершения процессу с PID %d: %w", pid, err)
	}

	m.log.Info(fmt.Sprintf("Сигнал завершения отправлен процессу '%s' (PID: %d).", processType, pid))
	return nil
}

// FindOtherInstances ищет процессы с таким же именем, исключая currentPid.
func FindOtherInstances(name string, currentPid int32) ([]int32, error) {
	processes, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список процессов: %w", err)
	}

	var found []int32
	for _, p := range processes {
		if p.Pid == currentPid {
			continue
		}
		pName, err := p.Name()
		if err != nil {
			// системные процессы могут не давать доступ к имени
			continue
		}
		if pName == name {
			found = append(found, p.Pid)
		}
	}
	return found, nil
}

//================================================================================
// ВНУТРЕННИЕ МЕТОДЫ
//================================================================================

// writePID записывает PID текущего процесса в файл.
func (m *Manager) writePID(processType string) error {
	pidPath := paths.PIDPath(processType)
	pid := os.Getpid()
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return err
	}
	m.log.Debug(fmt.Sprintf("PID %d записан в %s", pid, pidPath))
	return nil
}

// removePID удаляет PID-файл.
func (m *Manager) removePID(processType string) {
	pidPath := paths.PIDPath(processType)
	if err := os.Remove(pidPath); err != nil && !os.IsNotExist(err) {
		m.log.Info(fmt.Sprintf("Не удалось удалить PID-файл '%s': %v", pidPath, err))
		return
	}
	m.log.Debug(fmt.Sprintf("PID-файл '%s' удален.", pidPath))
}

// lock создает и блокирует lock-файл.
func (m *Manager) lock(processType string) (*os.File, error) {
	if err := paths.EnsureDir(paths.RunDir()); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог %s: %w", paths.RunDir(), err)
	}

	lockPath := paths.LockPath(processType)
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать lock-файл '%s': %w", lockPath, err)
	}

	if err := tryLock(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("%w: '%s' (%v)", ErrAlreadyRunning, processType, err)
	}
	return file, nil
}

// unlock снимает блокировку и удаляет lock-файл.
func (m *Manager) unlock(file *os.File) {
	if file == nil {
		return
	}
	lockPath := file.Name()
	if err := unlockFile(file); err != nil {
		m.log.Error(fmt.Sprintf("Не удалось разблокировать lock-файл '%s': %v", lockPath, err))
	}
	if err := file.Close(); err != nil {
		m.log.Error(fmt.Sprintf("Не удалось закрыть lock-файл '%s': %v", lockPath, err))
	}
	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		m.log.Error(fmt.Sprintf("Не удалось удалить lock-файл '%s': %v", lockPath, err))
	}
}

// handleSignals возвращает контекст, который отменяется по SIGINT или SIGTERM.
func (m *Manager) handleSignals(processType string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.log.Info(fmt.Sprintf("Получен сигнал '%v' для процесса '%s'. Завершение...", sig, processType))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
