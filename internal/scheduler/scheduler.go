// Package scheduler владеет единственным отложенным действием (выключение или
// перезагрузка), передает его системной утилите shutdown и отвечает на вопросы
// о том, сколько времени осталось.
package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/platform"
)

//================================================================================
// ТИПЫ
//================================================================================

// Kind вид отложенного действия.
type Kind string

const (
	Shutdown Kind = "shutdown"
	Restart  Kind = "restart"
)

// Kinds возвращает все виды действий в порядке отображения.
func Kinds() []Kind {
	return []Kind{Shutdown, Restart}
}

// ParseKind разбирает имя действия.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Shutdown, Restart:
		return k, nil
	}
	return "", fmt.Errorf("неизвестное действие: %q", s)
}

// operation возвращает операцию утилиты shutdown для вида действия.
func (k Kind) operation() platform.Operation {
	if k == Restart {
		return platform.Reboot
	}
	return platform.PowerOff
}

// Action запись об отложенном действии. Существует не больше одной.
type Action struct {
	Kind            Kind
	Target          time.Time
	OriginalSeconds int
	handle          *platform.Handle
}

// Info снимок состояния отложенного действия на текущий момент.
type Info struct {
	Kind            Kind
	Target          time.Time
	Remaining       int
	OriginalSeconds int
}

//================================================================================
// ОШИБКИ
//================================================================================

var (
	// ErrUnsupportedPlatform ОС не поддерживается, команда не запускалась.
	ErrUnsupportedPlatform = errors.New("платформа не поддерживается")

	// ErrAlreadyPending действие уже запланировано и еще не наступило.
	ErrAlreadyPending = errors.New("действие уже запланировано")
)

// LaunchError команду ОС не удалось запустить.
type LaunchError struct {
	Argv []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("ошибка запуска '%s': %v", strings.Join(e.Argv, " "), e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

//================================================================================
// ДВИЖОК
//================================================================================

// Engine хранит не более одного отложенного действия.
// Все методы безопасны для вызова из нескольких горутин.
type Engine struct {
	mu      sync.Mutex
	family  platform.Family
	runner  platform.Runner
	log     *logger.Logger
	now     func() time.Time
	pending *Action
}

// Option настраивает Engine.
type Option func(*Engine)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFamily задает семейство ОС вместо определенного автоматически.
func WithFamily(f platform.Family) Option {
	return func(e *Engine) { e.family = f }
}

// New создает движок планирования.
//
// @param runner - запуск команд ОС.
// @param log - логгер.
// @return *Engine - движок без отложенного действия.
func New(runner platform.Runner, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		family: platform.Detect(),
		runner: runner,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Family возвращает семейство ОС, для которого формируются команды.
func (e *Engine) Family() platform.Family {
	return e.family
}

// Schedule назначает действие через seconds секунд от текущего момента.
// Если предыдущее действие еще не наступило, возвращается ErrAlreadyPending.
// Истекшее действие удаляется до запуска команды, поэтому после неудачной
// попытки ничего не остается запланированным.
func (e *Engine) Schedule(seconds int, kind Kind) (Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scheduleLocked(e.now(), seconds, kind)
}

// ScheduleAt назначает действие на момент target. Если target не позже текущего
// момента, действие переносится на то же время следующего дня.
func (e *Engine) ScheduleAt(target time.Time, kind Kind) (Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
		e.log.Debug(fmt.Sprintf("Время %s уже прошло, перенос на %s", now.Format("15:04"), target.Format("2006-01-02 15:04")))
	}
	return e.scheduleLocked(now, int(target.Sub(now).Seconds()), kind)
}

// scheduleLocked запускает команду и сохраняет запись. Вызывается под e.mu.
func (e *Engine) scheduleLocked(now time.Time, seconds int, kind Kind) (Info, error) {
	if seconds < 0 {
		return Info{}, fmt.Errorf("задержка не может быть отрицательной: %d", seconds)
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Info{}, err
	}
	if e.pending != nil {
		if e.remainingLocked(now) > 0 {
			return Info{}, ErrAlreadyPending
		}
		// истекшая запись не переживает новую попытку, даже неудачную
		e.log.Debug(fmt.Sprintf("Истекшее действие %s удалено перед новым планированием", e.pending.Kind))
		e.pending = nil
	}

	target := now.Add(time.Duration(seconds) * time.Second)

	argv, err := platform.ShutdownArgs(e.family, kind.operation(), seconds)
	if err != nil {
		e.log.Failure("schedule", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, e.family))
		return Info{}, ErrUnsupportedPlatform
	}

	h, err := e.runner.Start(argv)
	if err != nil {
		e.log.SystemAction(string(kind), target, false)
		e.log.Failure("schedule", err)
		return Info{}, &LaunchError{Argv: argv, Err: err}
	}

	e.pending = &Action{
		Kind:            kind,
		Target:          target,
		OriginalSeconds: seconds,
		handle:          h,
	}
	e.log.SystemAction(string(kind), target, true)

	return e.infoLocked(now), nil
}

// Cancel выполняет системную команду отмены и очищает запись об отложенном действии.
// Команда отмены отправляется всегда, даже если ничего не было запланировано.
// Если команду запустить не удалось, запись остается без изменений.
//
// @return bool - было ли запланировано действие до отмены.
// @return error - ErrUnsupportedPlatform или *LaunchError.
func (e *Engine) Cancel() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	argv, err := platform.CancelArgs(e.family)
	if err != nil {
		e.log.Failure("cancel", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, e.family))
		return false, ErrUnsupportedPlatform
	}

	if _, err := e.runner.Start(argv); err != nil {
		e.log.Failure("cancel", err)
		return false, &LaunchError{Argv: argv, Err: err}
	}

	hadPending := e.pending != nil
	e.pending = nil
	if hadPending {
		e.log.Info("Запланированное действие отменено")
	} else {
		e.log.Info("Команда отмены отправлена, запланированных действий не было")
	}
	return hadPending, nil
}

// Remaining возвращает количество целых секунд до действия, не меньше нуля.
// ok == false, если ничего не запланировано.
func (e *Engine) Remaining() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return 0, false
	}
	return e.remainingLocked(e.now()), true
}

// Pending возвращает снимок отложенного действия.
// ok == false, если ничего не запланировано.
func (e *Engine) Pending() (Info, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return Info{}, false
	}
	return e.infoLocked(e.now()), true
}

func (e *Engine) remainingLocked(now time.Time) int {
	left := int(e.pending.Target.Sub(now) / time.Second)
	if left < 0 {
		return 0
	}
	return left
}

func (e *Engine) infoLocked(now time.Time) Info {
	return Info{
		Kind:            e.pending.Kind,
		Target:          e.pending.Target,
		Remaining:       e.remainingLocked(now),
		OriginalSeconds: e.pending.OriginalSeconds,
	}
}
