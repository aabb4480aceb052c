package tray

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/qzeleza/energy/internal/countdown"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/timeutil"
)

func newText(t *testing.T, lang string) *i18n.I18n {
	t.Helper()
	return i18n.New(t.TempDir(), lang, logger.Discard())
}

// fakeRunner запоминает команды вместо их запуска
type fakeRunner struct {
	calls [][]string
}

func (r *fakeRunner) Start(argv []string) (*platform.Handle, error) {
	r.calls = append(r.calls, argv)
	return &platform.Handle{PID: 7, Argv: argv}, nil
}

func TestStateFor(t *testing.T) {
	text := newText(t, "es")
	target := time.Date(2026, 10, 18, 22, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		frame    countdown.Frame
		status   string
		title    string
		schedule bool
		cancel   bool
		pending  bool
	}{
		{
			name:     "ничего не запланировано",
			frame:    countdown.Compute(scheduler.Info{}, false),
			status:   "Nada programado",
			schedule: true,
		},
		{
			name: "идет отсчет",
			frame: countdown.Compute(scheduler.Info{
				Kind: scheduler.Shutdown, Target: target, Remaining: 1350, OriginalSeconds: 1800,
			}, true),
			status:  "Apagar: 00:22:30 (25%)",
			title:   "00:22:30",
			cancel:  true,
			pending: true,
		},
		{
			name: "время истекло",
			frame: countdown.Compute(scheduler.Info{
				Kind: scheduler.Restart, Target: target, Remaining: 0, OriginalSeconds: 60,
			}, true),
			status:   "El tiempo programado ha terminado",
			schedule: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateFor(tt.frame, text)
			if s.status != tt.status {
				t.Errorf("status = %q, ожидалось %q", s.status, tt.status)
			}
			if s.title != tt.title {
				t.Errorf("title = %q, ожидалось %q", s.title, tt.title)
			}
			if s.scheduleEnabled != tt.schedule || s.cancelEnabled != tt.cancel || s.pending != tt.pending {
				t.Errorf("получено %+v", s)
			}
		})
	}
}

func TestPresetTitle(t *testing.T) {
	es := newText(t, "es")
	if got := presetTitle(es, 15, timeutil.Minutes); got != "Programar en 15 minutos" {
		t.Errorf("es: %q", got)
	}
	en := newText(t, "en")
	if got := presetTitle(en, 2, timeutil.Hours); got != "Schedule in 2 hours" {
		t.Errorf("en: %q", got)
	}
}

// TestDefaultPresetsWithinLimit все пресеты должны проходить проверку ввода
func TestDefaultPresetsWithinLimit(t *testing.T) {
	for _, p := range defaultPresets {
		secs, err := timeutil.ConvertToSeconds(p.value, p.unit)
		if err != nil || secs <= 0 || secs > timeutil.MaxDelaySeconds {
			t.Errorf("пресет %d %s: %d, %v", p.value, p.unit, secs, err)
		}
	}
}

func TestIconPNG(t *testing.T) {
	for _, theme := range []string{"light", "dark", "unknown"} {
		for _, pending := range []bool{false, true} {
			img, err := png.Decode(bytes.NewReader(iconPNG(theme, pending)))
			if err != nil {
				t.Fatalf("%s/%v: %v", theme, pending, err)
			}
			if b := img.Bounds(); b.Dx() != iconSize || b.Dy() != iconSize {
				t.Errorf("размер %v", b)
			}
		}
	}
	if bytes.Equal(iconPNG("light", false), iconPNG("light", true)) {
		t.Error("иконки ожидания и простоя должны отличаться")
	}
}

func TestIconBytesPerPlatform(t *testing.T) {
	raw := iconBytes("linux", "dark", false)
	if !bytes.HasPrefix(raw, []byte("\x89PNG")) {
		t.Error("на linux ожидался PNG")
	}

	ico := iconBytes("windows", "dark", false)
	if binary.LittleEndian.Uint16(ico[0:2]) != 0 || binary.LittleEndian.Uint16(ico[2:4]) != 1 {
		t.Fatalf("неверный заголовок ICO: % x", ico[:6])
	}
	if n := binary.LittleEndian.Uint16(ico[4:6]); n != 1 {
		t.Errorf("количество изображений %d", n)
	}
	offset := binary.LittleEndian.Uint32(ico[18:22])
	if !strings.HasPrefix(string(ico[offset:]), "\x89PNG") {
		t.Error("в ICO должен лежать PNG")
	}
}

// TestQuitOnDoneCancelsPending завершение по сигналу отменяет таймер ОС
func TestQuitOnDoneCancelsPending(t *testing.T) {
	tests := []struct {
		name       string
		schedule   bool
		wantCancel bool
	}{
		{"есть отложенное действие", true, true},
		{"ничего не запланировано", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			engine := scheduler.New(runner, logger.Discard(), scheduler.WithFamily(platform.Linux))
			if tt.schedule {
				if _, err := engine.Schedule(600, scheduler.Shutdown); err != nil {
					t.Fatal(err)
				}
			}
			tr := New(logger.Discard(), nil, engine, newText(t, "es"), nil)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			quit := false
			tr.quitOnDone(ctx, func() { quit = true })

			if !quit {
				t.Error("трей не закрыт")
			}
			cancelled := len(runner.calls) > 0 && strings.Join(runner.calls[len(runner.calls)-1], " ") == "shutdown -c"
			if cancelled != tt.wantCancel {
				t.Errorf("команды %v, ожидалась отмена: %v", runner.calls, tt.wantCancel)
			}
			if _, ok := engine.Pending(); ok {
				t.Error("после выхода ничего не должно оставаться запланированным")
			}
		})
	}
}
