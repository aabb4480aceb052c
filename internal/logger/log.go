// Package logger предоставляет журналирование приложения: отдельный файл на каждый
// календарный день, дублирование в консоль с более грубым уровнем и очистку старых логов.

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/qzeleza/energy/internal/paths"
	"golang.org/x/term"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

//================================================================================
// УРОВНИ
//================================================================================

// Level уровень важности сообщения.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String возвращает имя уровня для префикса строки лога.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ANSI цвета консольного вывода по уровням
var levelColors = map[Level]string{
	LevelDebug: "\033[36m",
	LevelInfo:  "\033[32m",
	LevelWarn:  "\033[33m",
	LevelError: "\033[31m",
}

const colorReset = "\033[0m"

// Размер одного дневного файла по умолчанию, МБ
const DefaultMaxSizeMB = 10

// DefaultRetentionDays сколько дней хранить логи по умолчанию
const DefaultRetentionDays = 30

//================================================================================
// ОСНОВНАЯ СТРУКТУРА ЛОГГЕРА
//================================================================================

// Logger - основной объект для управления логированием.
// Пишет в файл energy_ГГГГ-ММ-ДД.log в каталоге dir и переключается на новый файл
// при смене даты. Размер файла внутри дня ограничивает lumberjack.
type Logger struct {
	mu             sync.Mutex
	dir            string
	maxSizeMB      int
	day            string
	file           *lj.Logger
	console        io.Writer
	consoleLevel   Level
	color          bool
	isLogEnabled   bool
	isDebugEnabled bool
	now            func() time.Time
}

// New создает и инициализирует новый экземпляр Logger.
//
// @param dir - каталог для лог-файлов.
// @param maxSizeMB - максимальный размер дневного файла до ротации.
// @param logEnabled - включает или отключает логирование в файл.
// @param debugEnabled - включает или отключает логирование уровня DEBUG.
// @return *Logger - указатель на новый экземпляр логгера.
func New(dir string, maxSizeMB int, logEnabled bool, debugEnabled bool) *Logger {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if logEnabled {
		if err := paths.EnsureDir(dir); err != nil {
			log.Printf("Предупреждение: не удалось создать каталог логов %s: %v", dir, err)
		}
	}

	return &Logger{
		dir:            dir,
		maxSizeMB:      maxSizeMB,
		console:        os.Stderr,
		consoleLevel:   LevelInfo,
		color:          isTerminal(os.Stderr),
		isLogEnabled:   logEnabled,
		isDebugEnabled: debugEnabled,
		now:            time.Now,
	}
}

// Discard возвращает логгер, который ничего не пишет. Удобен в тестах.
func Discard() *Logger {
	l := New(os.TempDir(), 0, false, false)
	l.console = io.Discard
	return l
}

// isTerminal проверяет, подключен ли файл к терминалу.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetConsole задает поток для дублирования сообщений и минимальный уровень для него.
// nil отключает консольный вывод.
func (l *Logger) SetConsole(w io.Writer, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	l.console = w
	l.consoleLevel = level
	if f, ok := w.(*os.File); ok {
		l.color = isTerminal(f)
	} else {
		l.color = false
	}
}

// EnableLogging включает или отключает логирование в файл.
func (l *Logger) EnableLogging(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.isLogEnabled = enabled
}

// Dir возвращает каталог лог-файлов.
func (l *Logger) Dir() string {
	return l.dir
}

// CurrentPath возвращает путь к файлу текущего дня.
func (l *Logger) CurrentPath() string {
	return filepath.Join(l.dir, paths.LogFileName(l.now()))
}

//================================================================================
// МЕТОДЫ ЛОГИРОВАНИЯ
//================================================================================

// Debug записывает отладочное сообщение в лог.
func (l *Logger) Debug(message string) {
	if l.isDebugEnabled {
		l.logMessage(LevelDebug, message)
	}
}

// Info записывает информационное сообщение в лог.
func (l *Logger) Info(message string) {
	l.logMessage(LevelInfo, message)
}

// Warn записывает предупреждение.
func (l *Logger) Warn(message string) {
	l.logMessage(LevelWarn, message)
}

// Error записывает сообщение об ошибке в лог.
func (l *Logger) Error(message string) {
	l.logMessage(LevelError, message)
}

// Line добавляет разделительную линию в лог.
func (l *Logger) Line() {
	l.writeFile(strings.Repeat("-", 80) + "\n")
}

// Action регистрирует действие пользователя.
func (l *Logger) Action(action string) {
	l.Info("ACTION: " + action)
}

// SystemAction регистрирует результат планирования выключения или перезагрузки.
//
// @param kind - тип действия (shutdown/restart).
// @param at - момент, на который назначено действие.
// @param ok - удалось ли назначить действие.
func (l *Logger) SystemAction(kind string, at time.Time, ok bool) {
	status := "SUCCESS"
	if !ok {
		status = "FAILED"
	}
	l.Info(fmt.Sprintf("SYSTEM ACTION: %s scheduled for %s - %s", kind, at.Format("2006-01-02 15:04:05"), status))
}

// Failure регистрирует ошибку с указанием контекста, в котором она произошла.
func (l *Logger) Failure(context string, err error) {
	if context == "" {
		l.Error(fmt.Sprintf("ERROR: %v", err))
		return
	}
	l.Error(fmt.Sprintf("ERROR in %s: %v", context, err))
}

// logMessage форматирует сообщение и пишет его в файл и в консоль.
func (l *Logger) logMessage(level Level, message string) {
	message = strings.TrimSpace(message)

	timeFormat := "02-01-2006 15:04:05"
	l.writeFile(fmt.Sprintf("[%s] %s: %s\n", l.now().Format(timeFormat), level, message))

	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.consoleLevel {
		return
	}
	if l.color {
		fmt.Fprintf(l.console, "%s%s%s: %s\n", levelColors[level], level, colorReset, message)
		return
	}
	fmt.Fprintf(l.console, "%s: %s\n", level, message)
}

// writeFile пишет готовую строку в файл текущего дня.
func (l *Logger) writeFile(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.isLogEnabled {
		return
	}
	w := l.writerLocked()
	if _, err := io.WriteString(w, entry); err != nil {
		log.Printf("Критическая ошибка: не удалось записать в лог: %v", err)
	}
}

// writerLocked возвращает writer для текущего дня, переключая файл при смене даты.
// Вызывается под l.mu.
func (l *Logger) writerLocked() io.Writer {
	day := l.now().Format("2006-01-02")
	if l.file != nil && l.day == day {
		return l.file
	}
	if l.file != nil {
		_ = l.file.Close()
	}
	l.day = day
	l.file = &lj.Logger{
		Filename:  filepath.Join(l.dir, paths.LogFileName(l.now())),
		MaxSize:   l.maxSizeMB,
		LocalTime: true,
	}
	return l.file
}

// Close закрывает лог-файл.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

//================================================================================
// ОЧИСТКА СТАРЫХ ЛОГОВ
//================================================================================

// CleanOld удаляет лог-файлы старше days дней.
// @return int - количество удаленных файлов
func (l *Logger) CleanOld(days int) (int, error) {
	deleted, err := CleanOldLogs(l.dir, days, l.now())
	for _, e := range err {
		l.Error(e.Error())
	}
	if deleted > 0 {
		l.Info(fmt.Sprintf("Удалено старых лог-файлов: %d", deleted))
	}
	if len(err) > 0 {
		return deleted, fmt.Errorf("не удалось удалить %d файл(ов)", len(err))
	}
	return deleted, nil
}

// CleanOldLogs удаляет файлы *.log в каталоге dir, которые не изменялись больше days полных дней.
// Отсутствующий каталог не считается ошибкой. Отрицательное days отклоняется,
// иначе под удаление попал бы и текущий лог.
func CleanOldLogs(dir string, days int, now time.Time) (int, []error) {
	if days < 0 {
		return 0, []error{fmt.Errorf("срок хранения не может быть отрицательным: %d", days)}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, []error{fmt.Errorf("не удалось прочитать каталог логов %s: %w", dir, err)}
	}

	deleted := 0
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		age := int(now.Sub(info.ModTime()).Hours() / 24)
		if age <= days {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("ошибка при удалении старого лога %s: %w", entry.Name(), err))
			continue
		}
		deleted++
	}
	return deleted, errs
}
