package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/qzeleza/energy/internal/config"
	"github.com/qzeleza/energy/internal/paths"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/scheduler"
)

// fakeRunner запоминает команды вместо их запуска
type fakeRunner struct {
	calls [][]string
	err   error
}

func (r *fakeRunner) Start(argv []string) (*platform.Handle, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.calls = append(r.calls, argv)
	return &platform.Handle{PID: 42, Argv: argv}, nil
}

// newTestApp создает приложение с отдельным домашним каталогом и подменным запуском команд
func newTestApp(t *testing.T) (*App, *fakeRunner, *bytes.Buffer) {
	t.Helper()
	t.Setenv(paths.HomeEnv, t.TempDir())
	setLocale(t, "es_ES.UTF-8")

	app, err := NewApp()
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	t.Cleanup(app.Close)

	runner := &fakeRunner{}
	app.engine = scheduler.New(runner, app.log, scheduler.WithFamily(platform.Linux))

	// уведомления в тестах не отправляются
	if err := app.cfgManager.Update(func(c *config.Config) { c.ShowNotifications = false }); err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	app.cli.Writer = out
	app.cli.ErrWriter = out
	app.cli.ExitErrHandler = func(*cli.Context, error) {}
	return app, runner, out
}

// setLocale задает локаль системы для DetectSystemLanguage
func setLocale(t *testing.T, lang string) {
	t.Helper()
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", lang)
}

// TestNewAppLanguageFromLocale первый запуск берет язык из локали, последующие из файла
func TestNewAppLanguageFromLocale(t *testing.T) {
	t.Setenv(paths.HomeEnv, t.TempDir())
	setLocale(t, "en_US.UTF-8")

	app, err := NewApp()
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()
	if app.text.Language() != "en" || app.cfgManager.Current().Language != "en" {
		t.Errorf("язык %s, в настройках %s", app.text.Language(), app.cfgManager.Current().Language)
	}

	// настройки уже существуют, локаль больше не учитывается
	setLocale(t, "es_AR.UTF-8")
	again, err := NewApp()
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	if again.text.Language() != "en" {
		t.Errorf("сохраненный язык перезаписан локалью: %s", again.text.Language())
	}
}

// TestNewApp проверяет создание приложения
func TestNewApp(t *testing.T) {
	app, _, _ := newTestApp(t)
	if app.Logger() == nil {
		t.Fatal("Логгер не инициализирован")
	}
	if _, err := os.Stat(app.cfgManager.ConfigPath()); err != nil {
		t.Errorf("файл настроек не создан: %v", err)
	}
	if app.text.Language() != "es" {
		t.Errorf("язык по умолчанию %s", app.text.Language())
	}
}

// TestCommands проверяет наличие всех команд и их алиасов
func TestCommands(t *testing.T) {
	app, _, _ := newTestApp(t)

	tests := []struct {
		command string
		aliases []string
	}{
		{"in", []string{"i"}},
		{"at", nil},
		{"cancel", []string{"c"}},
		{"tray", []string{"t"}},
		{"status", []string{"s"}},
		{"config", []string{"cfg"}},
		{"log", []string{"l", "logs"}},
	}
	if len(app.cli.Commands) != len(tests) {
		t.Errorf("Ожидалось %d команд, получено %d", len(tests), len(app.cli.Commands))
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			var found *cli.Command
			for _, cmd := range app.cli.Commands {
				if cmd.Name == tt.command {
					found = cmd
				}
			}
			if found == nil {
				t.Fatalf("Команда %s не найдена", tt.command)
			}
			for _, alias := range tt.aliases {
				if !found.HasName(alias) {
					t.Errorf("Алиас %s не найден для команды %s", alias, tt.command)
				}
			}
		})
	}
}

func TestInSchedulesShutdown(t *testing.T) {
	app, runner, out := newTestApp(t)

	if err := app.Run([]string{"energy", "in", "--unit", "minutes", "--detach", "--yes", "5"}); err != nil {
		t.Fatalf("неожиданная ошибка: %v\n%s", err, out.String())
	}
	if len(runner.calls) != 1 || strings.Join(runner.calls[0], " ") != "shutdown -h +5" {
		t.Fatalf("команды: %v", runner.calls)
	}

	info, ok := app.engine.Pending()
	if !ok || info.Kind != scheduler.Shutdown || info.OriginalSeconds != 300 {
		t.Errorf("отложенное действие: %+v, %v", info, ok)
	}

	cfg := app.cfgManager.Current()
	if cfg.LastUsedTimeValue != 5 || cfg.LastUsedTimeUnit != "minutes" || cfg.LastUsedTab != 0 {
		t.Errorf("последние значения не сохранены: %+v", cfg)
	}
	if !strings.Contains(out.String(), "programado") {
		t.Errorf("нет сообщения о назначении:\n%s", out.String())
	}
}

func TestInRejectsInvalidValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
		code int
	}{
		{"превышение", []string{"in", "--unit", "minutes", "1500"}, "1440", 2},
		{"не число", []string{"in", "--unit", "seconds", "abc"}, "entero", 2},
		{"неизвестная единица", []string{"in", "--unit", "days", "5"}, "days", 2},
		{"неизвестное действие", []string{"in", "--action", "sleep", "5"}, "sleep", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, runner, out := newTestApp(t)
			args := append([]string{"energy", tt.args[0], "--yes", "--detach"}, tt.args[1:]...)
			err := app.Run(args)
			var exit cli.ExitCoder
			if !errors.As(err, &exit) || exit.ExitCode() != tt.code {
				t.Fatalf("ожидался код выхода %d, получено %v", tt.code, err)
			}
			if len(runner.calls) != 0 {
				t.Errorf("команда не должна запускаться: %v", runner.calls)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("вывод не содержит %q:\n%s", tt.want, out.String())
			}
		})
	}
}

func TestSecondScheduleRejected(t *testing.T) {
	app, runner, out := newTestApp(t)

	if err := app.Run([]string{"energy", "in", "-u", "minutes", "-d", "-y", "10"}); err != nil {
		t.Fatal(err)
	}
	err := app.Run([]string{"energy", "at", "--action", "restart", "-d", "-y", "23:59"})
	if err == nil {
		t.Fatal("ожидалась ошибка второго назначения")
	}
	if len(runner.calls) != 1 {
		t.Errorf("второе назначение не должно запускать команду: %v", runner.calls)
	}
	if !strings.Contains(out.String(), "Ya hay una acción programada") {
		t.Errorf("нет сообщения о занятом планировщике:\n%s", out.String())
	}
}

func TestAtAndCancel(t *testing.T) {
	app, runner, _ := newTestApp(t)

	if err := app.Run([]string{"energy", "at", "--action", "restart", "-d", "-y", "7:30"}); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 1 || runner.calls[0][1] != "-r" {
		t.Fatalf("команды: %v", runner.calls)
	}
	if app.cfgManager.Current().LastUsedTab != 1 {
		t.Error("вкладка точного времени не сохранена")
	}

	if err := app.Run([]string{"energy", "cancel"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(runner.calls[1], " "); got != "shutdown -c" {
		t.Errorf("команда отмены %q", got)
	}
	if _, ok := app.engine.Pending(); ok {
		t.Error("после отмены ничего не должно быть назначено")
	}
}

func TestAtRejectsBadFormat(t *testing.T) {
	app, runner, out := newTestApp(t)
	if err := app.Run([]string{"energy", "at", "-y", "-d", "24:00"}); err == nil {
		t.Fatal("ожидалась ошибка формата")
	}
	if len(runner.calls) != 0 {
		t.Errorf("команда не должна запускаться: %v", runner.calls)
	}
	if !strings.Contains(out.String(), "HH:MM") {
		t.Errorf("вывод:\n%s", out.String())
	}
}

func TestConfigSetAndGet(t *testing.T) {
	app, _, out := newTestApp(t)

	if err := app.Run([]string{"energy", "config", "set", "language", "en"}); err != nil {
		t.Fatal(err)
	}
	if app.text.Language() != "en" {
		t.Errorf("язык интерфейса не переключен: %s", app.text.Language())
	}

	out.Reset()
	if err := app.Run([]string{"energy", "config", "get", "language"}); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "en" {
		t.Errorf("config get language = %q", out.String())
	}

	out.Reset()
	if err := app.Run([]string{"energy", "config", "set", "colour", "red"}); err == nil {
		t.Fatal("ожидалась ошибка неизвестного ключа")
	}
	if !strings.Contains(out.String(), "keyboard_shortcuts.cancel") {
		t.Errorf("нет списка допустимых ключей:\n%s", out.String())
	}
}

func TestLogCommand(t *testing.T) {
	app, _, out := newTestApp(t)
	app.log.Info("первая запись")
	app.log.Error("сбой запуска")
	app.log.Action("Назначено действие shutdown через 5 minutes")

	if err := app.Run([]string{"energy", "log", "--level", "error"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "сбой запуска") || strings.Contains(out.String(), "первая запись") {
		t.Errorf("фильтр по уровню не работает:\n%s", out.String())
	}

	out.Reset()
	if err := app.Run([]string{"energy", "log", "--level", "verbose"}); err == nil {
		t.Error("ожидалась ошибка уровня")
	}
}

func TestLogCleanRejectsNegativeDays(t *testing.T) {
	app, _, out := newTestApp(t)
	app.log.Info("текущая запись")

	err := app.Run([]string{"energy", "log", "clean", "--days=-1"})
	var exit cli.ExitCoder
	if !errors.As(err, &exit) || exit.ExitCode() != 2 {
		t.Fatalf("ожидался код выхода 2, получено %v", err)
	}
	if _, err := os.Stat(app.log.CurrentPath()); err != nil {
		t.Errorf("текущий лог удален: %v", err)
	}
	if !strings.Contains(out.String(), "-1") {
		t.Errorf("вывод:\n%s", out.String())
	}
}

func TestTailLines(t *testing.T) {
	input := "a INFO: 1\nb ERROR: 2\nc INFO: 3\nd INFO: 4\n"
	got, err := tailLines(strings.NewReader(input), "INFO:", 2)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "|") != "c INFO: 3|d INFO: 4" {
		t.Errorf("tailLines = %v", got)
	}
	all, _ := tailLines(strings.NewReader(input), "", 0)
	if len(all) != 4 {
		t.Errorf("без ограничений ожидалось 4 строки, получено %d", len(all))
	}
}

func TestKeyFor(t *testing.T) {
	tests := map[byte]key{0x03: keyCancel, 0x14: keyTheme, 'q': keyDetach, 'Q': keyDetach, 'x': keyNone, '\r': keyNone}
	for b, want := range tests {
		if got := keyFor(b); got != want {
			t.Errorf("keyFor(%#x) = %v, ожидалось %v", b, got, want)
		}
	}
}

func TestIsYes(t *testing.T) {
	tests := []struct {
		answer, yes string
		want        bool
	}{
		{"s", "Sí", true},
		{"sí\n", "Sí", true},
		{"y", "Sí", true},
		{"yes", "Yes", true},
		{"n", "Sí", false},
		{"", "Yes", false},
		{"no", "Yes", false},
	}
	for _, tt := range tests {
		if got := isYes(tt.answer, tt.yes); got != tt.want {
			t.Errorf("isYes(%q, %q) = %v", tt.answer, tt.yes, got)
		}
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{w: &buf}.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if buf.String() != "a\r\nb\r\n" {
		t.Errorf("получено %q", buf.String())
	}
}

func TestStatusCommand(t *testing.T) {
	app, _, out := newTestApp(t)
	if err := app.Run([]string{"energy", "status"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), filepath.Base(app.cfgManager.ConfigPath())) {
		t.Errorf("нет пути к настройкам:\n%s", out.String())
	}
}
