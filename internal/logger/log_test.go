package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, debug bool) (*Logger, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	l := New(dir, 1, true, debug)
	buf := &bytes.Buffer{}
	l.SetConsole(buf, LevelInfo)
	t.Cleanup(func() { _ = l.Close() })
	return l, buf
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("не удалось прочитать %s: %v", path, err)
	}
	return string(data)
}

// TestDailyFile проверяет имя файла и формат строк
func TestDailyFile(t *testing.T) {
	l, _ := newTestLogger(t, false)
	fixed := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)
	l.now = func() time.Time { return fixed }

	l.Info("запуск")
	l.Error("сбой")

	path := filepath.Join(l.Dir(), "energy_2026-10-18.log")
	content := readFile(t, path)
	if !strings.Contains(content, "[18-10-2026 09:30:00] INFO: запуск") {
		t.Errorf("нет строки INFO, содержимое:\n%s", content)
	}
	if !strings.Contains(content, "ERROR: сбой") {
		t.Errorf("нет строки ERROR, содержимое:\n%s", content)
	}
	if l.CurrentPath() != path {
		t.Errorf("CurrentPath() = %s, ожидалось %s", l.CurrentPath(), path)
	}
}

// TestDaySwitch проверяет переход на новый файл при смене даты
func TestDaySwitch(t *testing.T) {
	l, _ := newTestLogger(t, false)
	day := time.Date(2026, 10, 18, 23, 59, 59, 0, time.Local)
	l.now = func() time.Time { return day }
	l.Info("вечер")

	day = day.Add(2 * time.Second)
	l.Info("утро")

	first := readFile(t, filepath.Join(l.Dir(), "energy_2026-10-18.log"))
	second := readFile(t, filepath.Join(l.Dir(), "energy_2026-10-19.log"))
	if !strings.Contains(first, "вечер") || strings.Contains(first, "утро") {
		t.Errorf("первый файл содержит лишнее:\n%s", first)
	}
	if !strings.Contains(second, "утро") {
		t.Errorf("второй файл не содержит запись:\n%s", second)
	}
}

// TestConsoleLevel проверяет, что в консоль не попадают DEBUG сообщения
func TestConsoleLevel(t *testing.T) {
	l, console := newTestLogger(t, true)

	l.Debug("детали")
	l.Info("событие")
	l.Warn("внимание")

	out := console.String()
	if strings.Contains(out, "детали") {
		t.Errorf("DEBUG не должен выводиться в консоль: %q", out)
	}
	if !strings.Contains(out, "INFO: событие") || !strings.Contains(out, "WARNING: внимание") {
		t.Errorf("неожиданный вывод консоли: %q", out)
	}

	file := readFile(t, l.CurrentPath())
	if !strings.Contains(file, "DEBUG: детали") {
		t.Errorf("DEBUG должен попадать в файл при включенной отладке:\n%s", file)
	}
}

func TestDebugDisabled(t *testing.T) {
	l, _ := newTestLogger(t, false)
	l.Debug("скрыто")
	l.Info("видно")

	file := readFile(t, l.CurrentPath())
	if strings.Contains(file, "скрыто") {
		t.Errorf("DEBUG записан при выключенной отладке:\n%s", file)
	}
}

func TestDomainHelpers(t *testing.T) {
	l, _ := newTestLogger(t, false)
	at := time.Date(2026, 10, 18, 22, 0, 0, 0, time.Local)

	l.Action("Назначено действие shutdown через 30 minutes")
	l.SystemAction("restart", at, false)
	l.Failure("cancel", errors.New("exec: shutdown not found"))

	file := readFile(t, l.CurrentPath())
	for _, want := range []string{
		"ACTION: Назначено действие shutdown через 30 minutes",
		"SYSTEM ACTION: restart scheduled for 2026-10-18 22:00:00 - FAILED",
		"ERROR in cancel: exec: shutdown not found",
	} {
		if !strings.Contains(file, want) {
			t.Errorf("нет строки %q в:\n%s", want, file)
		}
	}
}

func TestLoggingDisabled(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, 0, false, false)
	l.SetConsole(nil, LevelInfo)
	l.Info("никуда")

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("файлы не должны создаваться, найдено %d", len(entries))
	}
}

// TestCleanOldLogs проверяет удаление файлов старше заданного числа дней
func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local)

	files := map[string]time.Duration{
		"energy_2026-08-01.log": 78 * 24 * time.Hour,
		"energy_2026-09-17.log": 31*24*time.Hour + time.Hour,
		"energy_2026-09-18.log": 30 * 24 * time.Hour,
		"energy_2026-10-18.log": 0,
		"notes.txt":             90 * 24 * time.Hour,
	}
	for name, age := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mtime := now.Add(-age)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	deleted, errs := CleanOldLogs(dir, 30, now)
	if len(errs) != 0 {
		t.Fatalf("неожиданные ошибки: %v", errs)
	}
	if deleted != 2 {
		t.Errorf("удалено %d, ожидалось 2", deleted)
	}

	for name, keep := range map[string]bool{
		"energy_2026-08-01.log": false,
		"energy_2026-09-17.log": false,
		"energy_2026-09-18.log": true,
		"energy_2026-10-18.log": true,
		"notes.txt":             true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != keep {
			t.Errorf("%s: существует=%v, ожидалось %v", name, exists, keep)
		}
	}
}

func TestCleanOldLogsRejectsNegativeDays(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "energy_2026-10-18.log")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	deleted, errs := CleanOldLogs(dir, -1, time.Date(2026, 10, 18, 12, 0, 0, 0, time.Local))
	if deleted != 0 || len(errs) != 1 {
		t.Errorf("CleanOldLogs(-1) = %d, %v", deleted, errs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("текущий лог удален: %v", err)
	}
}

func TestCleanOldLogsMissingDir(t *testing.T) {
	deleted, errs := CleanOldLogs(filepath.Join(t.TempDir(), "nope"), 30, time.Now())
	if deleted != 0 || len(errs) != 0 {
		t.Errorf("ожидалось 0 и без ошибок, получено %d, %v", deleted, errs)
	}
}
