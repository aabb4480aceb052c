// Package dialog показывает блокирующие диалоги (через dlgs) и системные уведомления.
package dialog

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/gen2brain/dlgs"

	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
)

// notifyTimeout предельное время работы команды уведомления
const notifyTimeout = 5 * time.Second

//================================================================================
// БЛОКИРУЮЩИЕ ДИАЛОГИ
//================================================================================

// Error показывает окно с ошибкой. Если окно показать нельзя, ошибка пишется в лог.
func Error(log *logger.Logger, title, message string) {
	if _, err := dlgs.Error(title, message); err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v (%s: %s)", err, title, message))
	}
}

// Info показывает информационное окно.
func Info(log *logger.Logger, title, message string) {
	if _, err := dlgs.Info(title, message); err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v (%s: %s)", err, title, message))
	}
}

// Warning показывает окно с предупреждением.
func Warning(log *logger.Logger, title, message string) {
	if _, err := dlgs.Warning(title, message); err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v (%s: %s)", err, title, message))
	}
}

// Question задает вопрос да/нет. При ошибке показа возвращается false.
func Question(log *logger.Logger, title, message string) bool {
	ok, err := dlgs.Question(title, message, true)
	if err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v", err))
		return false
	}
	return ok
}

// Entry запрашивает строку. ok == false, если пользователь нажал "Отмена".
func Entry(log *logger.Logger, title, prompt, value string) (string, bool) {
	input, ok, err := dlgs.Entry(title, prompt, value)
	if err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v", err))
		return "", false
	}
	return strings.TrimSpace(input), ok
}

// List предлагает выбрать одно значение из списка.
func List(log *logger.Logger, title, prompt string, items []string) (string, bool) {
	choice, ok, err := dlgs.List(title, prompt, items)
	if err != nil {
		log.Error(fmt.Sprintf("Не удалось отобразить диалоговое окно: %v", err))
		return "", false
	}
	return choice, ok
}

//================================================================================
// СИСТЕМНЫЕ УВЕДОМЛЕНИЯ
//================================================================================

// Notifier отправляет всплывающие уведомления средствами ОС.
type Notifier struct {
	log  *logger.Logger
	goos string
	run  func(ctx context.Context, name string, args ...string) error
	// fallback показывает уведомление, когда у ОС нет консольной утилиты
	fallback func(title, message string) error
}

// NewNotifier создает Notifier для текущей ОС.
func NewNotifier(log *logger.Logger) *Notifier {
	return &Notifier{
		log:  log,
		goos: runtime.GOOS,
		run: func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			stderr := &strings.Builder{}
			cmd.Stderr = stderr
			if err := cmd.Run(); err != nil {
				return fmt.Errorf("%w, stderr: %s", err, strings.TrimSpace(stderr.String()))
			}
			return nil
		},
		fallback: func(title, message string) error {
			// dlgs блокирует, поэтому окно показывается в отдельной горутине
			go func() { _, _ = dlgs.Info(title, message) }()
			return nil
		},
	}
}

// appleScriptEscape экранирует строку для литерала AppleScript в двойных кавычках
var appleScriptEscape = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// notifyCommand формирует команду уведомления для ОС.
// ok == false, если консольной утилиты для этой ОС нет.
func notifyCommand(goos, title, message string) (string, []string, bool) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			appleScriptEscape.Replace(message),
			appleScriptEscape.Replace(title))
		return "osascript", []string{"-e", script}, true
	case "linux", "freebsd", "openbsd", "netbsd":
		return "notify-send", []string{"--app-name=" + paths.AppTitle, title, message}, true
	}
	return "", nil, false
}

// Notify показывает уведомление. Ошибки пишутся в лог на уровне DEBUG
// и возвращаются, но не должны прерывать работу вызывающего.
func (n *Notifier) Notify(title, message string) error {
	if title == "" {
		title = paths.AppTitle
	}
	if message == "" {
		return fmt.Errorf("текст уведомления не может быть пустым")
	}

	name, args, ok := notifyCommand(n.goos, title, message)
	if !ok {
		if err := n.fallback(title, message); err != nil {
			n.log.Debug(fmt.Sprintf("Не удалось отправить уведомление: %v", err))
			return err
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := n.run(ctx, name, args...); err != nil {
		n.log.Debug(fmt.Sprintf("Не удалось отправить уведомление через %s: %v", name, err))
		return fmt.Errorf("не удалось отправить уведомление: %w", err)
	}
	n.log.Debug(fmt.Sprintf("Уведомление отправлено: %s", message))
	return nil
}
