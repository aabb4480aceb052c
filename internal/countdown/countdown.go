// Package countdown вычисляет то, что показывается пользователю каждую секунду:
// оставшееся время в виде HH:MM:SS и процент выполнения.
package countdown

import (
	"context"
	"math"
	"time"

	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/timeutil"
)

// Period интервал обновления отображения.
const Period = time.Second

// Source то, откуда берется состояние отложенного действия.
type Source interface {
	Pending() (scheduler.Info, bool)
}

// Frame состояние для одного кадра отображения.
type Frame struct {
	Active  bool
	Info    scheduler.Info
	Label   string
	Percent int
	Done    bool
}

// Progress возвращает процент прошедшего времени, округленный до целого.
// При нулевой исходной длительности возвращается 0. Результат в пределах 0..100.
func Progress(original, remaining int) int {
	if original <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(original-remaining) / float64(original)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Compute строит кадр по снимку движка.
// Без отложенного действия метка равна timeutil.NoValue.
func Compute(info scheduler.Info, ok bool) Frame {
	f := Frame{Label: timeutil.FormatOptional(info.Remaining, ok)}
	if !ok {
		return f
	}
	f.Active = true
	f.Info = info
	f.Percent = Progress(info.OriginalSeconds, info.Remaining)
	f.Done = info.Remaining == 0
	return f
}

// Snapshot читает состояние источника и возвращает кадр.
func Snapshot(src Source) Frame {
	return Compute(src.Pending())
}

// Ticker раз в Period передает кадр обработчику.
type Ticker struct {
	src    Source
	period time.Duration
}

// NewTicker создает Ticker для источника src.
func NewTicker(src Source) *Ticker {
	return &Ticker{src: src, period: Period}
}

// Frame возвращает текущий кадр.
func (t *Ticker) Frame() Frame {
	return Snapshot(t.src)
}

// Run вызывает fn для каждого активного кадра, пока не отменен ctx
// или fn не вернет false. Кадры без отложенного действия пропускаются.
func (t *Ticker) Run(ctx context.Context, fn func(Frame) bool) error {
	tk := time.NewTicker(t.period)
	defer tk.Stop()

	for {
		if f := t.Frame(); f.Active {
			if !fn(f) {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}
	}
}
