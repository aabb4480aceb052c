package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/qzeleza/energy/internal/countdown"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/utils"
)

// key действие, назначенное клавише в режиме обратного отсчета
type key int

const (
	keyNone key = iota
	keyCancel
	keyTheme
	keyDetach
)

// keyFor сопоставляет байт, прочитанный в raw-режиме, с действием.
// Ctrl+C - отмена, Ctrl+T - смена темы, q - выход без отмены.
func keyFor(b byte) key {
	switch b {
	case 0x03:
		return keyCancel
	case 0x14:
		return keyTheme
	case 'q', 'Q':
		return keyDetach
	}
	return keyNone
}

// barView данные, которые декораторы индикатора читают из своей горутины
type barView struct {
	mu      sync.Mutex
	name    string
	label   string
	percent int
	palette utils.Palette
	color   bool
}

func (v *barView) update(f countdown.Frame) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.label = f.Label
	v.percent = f.Percent
}

func (v *barView) setPalette(p utils.Palette) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.palette = p
}

func (v *barView) title(decor.Statistics) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.name
}

func (v *barView) remaining(decor.Statistics) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.label
}

func (v *barView) progress(decor.Statistics) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fmt.Sprintf("%d%%", v.percent)
}

// accent окрашивает текст цветом выделения текущей палитры
func (v *barView) accent(s string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.color {
		return s
	}
	return v.palette.Accent + s + utils.ColorReset
}

// crlfWriter добавляет \r перед \n: в raw-режиме терминал не возвращает каретку сам
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// readKeys переводит терминал в raw-режим и читает нажатия.
// Если stdin не терминал, канал nil и клавиши не обрабатываются.
func readKeys(f *os.File) (<-chan byte, func()) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, func() {}
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, func() {}
	}

	ch := make(chan byte, 8)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := f.Read(buf)
			if err != nil {
				return
			}
			if n == 1 {
				select {
				case ch <- buf[0]:
				default:
				}
			}
		}
	}()
	return ch, func() { _ = term.Restore(fd, state) }
}

// watchCountdown показывает обратный отсчет до действия и обрабатывает клавиши.
// Возвращается, когда время истекло, действие отменено или пользователь вышел.
func (a *App) watchCountdown(ctx context.Context, w io.Writer, info scheduler.Info) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := a.cfgManager.Current()
	palette := utils.PaletteFor(cfg.Theme)

	header := a.newBox()
	header.SetTitle(a.text.Text("app_title", nil))
	header.AddLine(a.text.ActionName(string(info.Kind)), info.Target.Format("2006-01-02 15:04:05"), palette.Accent)
	header.AddLine(a.text.Text("countdown_keys", i18n.Args{
		"cancel":       cfg.KeyboardShortcuts.Cancel,
		"toggle_theme": cfg.KeyboardShortcuts.ToggleTheme,
	}), "", palette.Warn)
	header.Render(w)

	out := w
	keys, restore := readKeys(os.Stdin)
	defer restore()
	if keys != nil {
		w = crlfWriter{w: w}
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	view := &barView{
		name:    a.text.ActionName(string(info.Kind)),
		palette: palette,
		color:   term.IsTerminal(int(os.Stdout.Fd())),
	}
	view.update(countdown.Compute(info, true))

	total := int64(info.OriginalSeconds)
	if total < 1 {
		total = 1
	}
	p := mpb.NewWithContext(ctx, mpb.WithOutput(w), mpb.WithWidth(64))
	bar := p.New(total,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Meta(decor.Any(view.title, decor.WC{W: len(view.name) + 1, C: decor.DindentRight}), view.accent),
		),
		mpb.AppendDecorators(
			decor.Meta(decor.Any(view.remaining, decor.WC{W: 9}), view.accent),
			decor.Any(view.progress, decor.WC{W: 5}),
		),
	)

	frames := make(chan countdown.Frame)
	go func() {
		_ = countdown.NewTicker(a.engine).Run(ctx, func(f countdown.Frame) bool {
			select {
			case frames <- f:
			case <-ctx.Done():
				return false
			}
			return !f.Done
		})
	}()

	var (
		outcome string
		failure error
	)
loop:
	for {
		select {
		case f := <-frames:
			view.update(f)
			if f.Done {
				bar.SetCurrent(total)
				outcome = a.text.Text("action_done", nil)
				a.log.Info("Время запланированного действия истекло")
				break loop
			}
			bar.SetCurrent(int64(f.Info.OriginalSeconds - f.Info.Remaining))

		case b := <-keys:
			switch keyFor(b) {
			case keyCancel:
				outcome, failure = a.cancelPending()
				bar.Abort(false)
				break loop
			case keyTheme:
				theme, err := a.cfgManager.ToggleTheme()
				if err != nil {
					a.log.Failure("toggle theme", err)
					continue
				}
				view.setPalette(utils.PaletteFor(theme))
			case keyDetach:
				outcome = a.text.Text("detach_warning", nil)
				a.log.Info("Отсчет закрыт без отмены действия")
				bar.Abort(false)
				break loop
			}

		case sig := <-sigs:
			a.log.Info(fmt.Sprintf("Получен сигнал %v, отмена действия", sig))
			outcome, failure = a.cancelPending()
			bar.Abort(false)
			break loop

		case <-ctx.Done():
			bar.Abort(false)
			break loop
		}
	}

	p.Wait()
	restore()

	box := utils.NewWindowBuffer(BoxMinWidth, utils.PaletteFor(a.cfgManager.Current().Theme))
	if failure != nil {
		box.AddLine(failure.Error(), "", box.Palette().Error)
		box.Render(out)
		return cli.Exit("", 1)
	}
	if outcome != "" {
		box.AddLine(outcome, "", box.Palette().Accent)
		box.Render(out)
	}
	return nil
}

// cancelPending отменяет действие и возвращает сообщение для пользователя
func (a *App) cancelPending() (string, error) {
	if _, err := a.engine.Cancel(); err != nil {
		return "", a.engineError("error_cancelling", "", err)
	}
	a.log.Action("Отменено запланированное действие")

	msg := a.text.Text("action_cancelled", nil)
	if a.cfgManager.Current().ShowNotifications {
		_ = a.notifier.Notify(a.text.Text("app_title", nil), msg)
	}
	return msg, nil
}
