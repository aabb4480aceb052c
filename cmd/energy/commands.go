package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/qzeleza/energy/internal/config"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/timeutil"
)

//================================================================================
// ПЛАНИРОВАНИЕ
//================================================================================

// scheduleFlags общие флаги команд in и at
func scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "action",
			Aliases: []string{"a"},
			Usage:   "действие: shutdown или restart (по умолчанию последнее использованное)",
		},
		&cli.BoolFlag{
			Name:    "detach",
			Aliases: []string{"d"},
			Usage:   "не показывать обратный отсчет, действие остается назначенным в системе",
		},
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "не спрашивать подтверждение",
		},
	}
}

// inCommand назначает действие через заданное время
func (a *App) inCommand() *cli.Command {
	return &cli.Command{
		Name:      "in",
		Aliases:   []string{"i"},
		Usage:     "Назначить действие через заданное время",
		ArgsUsage: "[значение]",
		Description: "Значение - целое число не больше 24 часов в выбранных единицах.\n" +
			"   Без значения используется последнее введенное.",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "unit",
				Aliases: []string{"u"},
				Usage:   "единицы: seconds, minutes или hours (по умолчанию последние использованные)",
			},
		}, scheduleFlags()...),
		Action: a.inAction,
	}
}

// inAction обрабатывает команду in
func (a *App) inAction(c *cli.Context) error {
	cfg := a.cfgManager.Current()

	unit, err := timeutil.ParseUnit(firstNonEmpty(c.String("unit"), cfg.LastUsedTimeUnit))
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}
	kind, err := scheduler.ParseKind(firstNonEmpty(c.String("action"), cfg.LastUsedAction))
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}

	raw := c.Args().First()
	if raw == "" {
		raw = strconv.Itoa(cfg.LastUsedTimeValue)
	}
	value, err := timeutil.ValidateTimeInput(raw, unit)
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}
	seconds, err := timeutil.ConvertToSeconds(value, unit)
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}

	label := fmt.Sprintf("%d %s", value, strings.ToLower(a.text.UnitLabel(string(unit))))
	if !c.Bool("yes") && !a.confirm(c, kind, label) {
		return nil
	}

	a.warnAdmin(c)
	info, err := a.engine.Schedule(seconds, kind)
	if err != nil {
		return a.fail(c, a.text.Text("error", nil), a.engineError("error_scheduling", kind, err))
	}
	a.log.Action(fmt.Sprintf("Назначено действие %s через %d %s", kind, value, unit))

	if err := a.cfgManager.Update(func(cfg *config.Config) {
		cfg.LastUsedTab = config.TabRelative
		cfg.LastUsedTimeValue = value
		cfg.LastUsedTimeUnit = string(unit)
		cfg.LastUsedAction = string(kind)
	}); err != nil {
		a.log.Failure("save last used", err)
	}

	return a.afterSchedule(c, info)
}

// atCommand назначает действие на точное время
func (a *App) atCommand() *cli.Command {
	return &cli.Command{
		Name:      "at",
		Usage:     "Назначить действие на точное время HH:MM",
		ArgsUsage: "HH:MM",
		Description: "Время задается в 24-часовом формате. Если оно уже прошло сегодня,\n" +
			"   действие назначается на то же время завтра.",
		Flags:  scheduleFlags(),
		Action: a.atAction,
	}
}

// atAction обрабатывает команду at
func (a *App) atAction(c *cli.Context) error {
	clock := c.Args().First()
	if err := timeutil.ValidateTimeFormat(clock); err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}
	kind, err := scheduler.ParseKind(firstNonEmpty(c.String("action"), a.cfgManager.Current().LastUsedAction))
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}
	target, err := timeutil.ParseClock(clock, time.Now())
	if err != nil {
		return a.fail(c, a.text.Text("invalid_input", nil), err)
	}

	if !c.Bool("yes") && !a.confirm(c, kind, clock) {
		return nil
	}

	a.warnAdmin(c)
	info, err := a.engine.ScheduleAt(target, kind)
	if err != nil {
		return a.fail(c, a.text.Text("error", nil), a.engineError("error_scheduling", kind, err))
	}
	a.log.Action(fmt.Sprintf("Назначено действие %s на %s", kind, clock))

	if err := a.cfgManager.Update(func(cfg *config.Config) {
		cfg.LastUsedTab = config.TabExact
		cfg.LastUsedAction = string(kind)
	}); err != nil {
		a.log.Failure("save last used", err)
	}

	return a.afterSchedule(c, info)
}

// afterSchedule сообщает о назначенном действии и, если не задан --detach, показывает отсчет.
func (a *App) afterSchedule(c *cli.Context, info scheduler.Info) error {
	msg := a.text.Text("action_scheduled", i18n.Args{
		"action": a.text.ActionName(string(info.Kind)),
		"time":   info.Target.Format("2006-01-02 15:04:05"),
	})

	if a.cfgManager.Current().ShowNotifications {
		_ = a.notifier.Notify(a.text.Text("success", nil), msg)
	}

	if c.Bool("detach") {
		box := a.newBox()
		box.AddLine(msg, "", box.Palette().Accent)
		box.Render(c.App.Writer)
		return nil
	}
	return a.watchCountdown(contextOf(c), c.App.Writer, info)
}

// confirm спрашивает подтверждение в терминале. Без терминала подтверждение не требуется.
func (a *App) confirm(c *cli.Context, kind scheduler.Kind, when string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	question := a.text.Text("confirm_message", i18n.Args{"action": a.text.ActionVerb(string(kind)), "time": when})
	fmt.Fprintf(c.App.Writer, "%s [%s/%s] ", question, a.text.Text("yes", nil), a.text.Text("no", nil))

	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return isYes(answer, a.text.Text("yes", nil))
}

// isYes проверяет ответ пользователя: принимается слово "да" текущего языка,
// его первая буква и y/yes.
func isYes(answer, yes string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		return false
	}
	yes = strings.ToLower(yes)
	return answer == yes || answer == "y" || answer == "yes" || strings.HasPrefix(yes, answer)
}

//================================================================================
// ОТМЕНА
//================================================================================

// cancelCommand отменяет назначенное действие
func (a *App) cancelCommand() *cli.Command {
	return &cli.Command{
		Name:    "cancel",
		Aliases: []string{"c"},
		Usage:   "Отменить назначенное выключение или перезагрузку",
		Action: func(c *cli.Context) error {
			a.warnAdmin(c)
			had, err := a.engine.Cancel()
			if err != nil {
				return a.fail(c, a.text.Text("error", nil), a.engineError("error_cancelling", "", err))
			}
			a.log.Action("Отменено запланированное действие")

			// запись о действии есть только у процесса, который его назначил,
			// поэтому здесь сообщается об отправленной команде отмены
			box := a.newBox()
			box.AddLine(a.text.Text("action_cancelled", nil), "", box.Palette().Accent)
			if !had {
				a.log.Debug("В этом процессе действие не назначалось, отмена отправлена системе")
			}
			box.Render(c.App.Writer)
			return nil
		},
	}
}

//================================================================================
// ВСПОМОГАТЕЛЬНЫЕ ФУНКЦИИ
//================================================================================

// fail выводит окно с ошибкой и завершает команду.
// Ошибки проверки ввода переводятся на язык интерфейса и дают код 2, остальные код 1.
func (a *App) fail(c *cli.Context, title string, err error) error {
	box := a.newBox()
	box.SetTitle(title)
	box.AddLine(a.describe(err), "", box.Palette().Error)
	box.Render(c.App.Writer)

	var verr *timeutil.ValidationError
	if errors.As(err, &verr) {
		return cli.Exit("", 2)
	}
	return cli.Exit("", 1)
}

// warnAdmin предупреждает, что системная команда может потребовать прав администратора
func (a *App) warnAdmin(c *cli.Context) {
	if !platform.RequiresAdmin() {
		return
	}
	a.log.Warn("Приложение запущено без прав администратора")
	box := a.newBox()
	box.SetTitle(a.text.Text("admin_required", nil))
	box.AddLine(a.text.Text("admin_message", nil), "", box.Palette().Warn)
	box.Render(c.App.Writer)
}

// describe возвращает текст ошибки на языке интерфейса
func (a *App) describe(err error) string {
	var verr *timeutil.ValidationError
	if errors.As(err, &verr) {
		return a.text.Text(verr.Key(), i18n.Args{
			"max":  verr.Max,
			"unit": strings.ToLower(a.text.UnitLabel(string(verr.Unit))),
		})
	}
	return err.Error()
}

// engineError переводит ошибку движка в сообщение для пользователя
func (a *App) engineError(key string, kind scheduler.Kind, err error) error {
	switch {
	case errors.Is(err, scheduler.ErrAlreadyPending):
		return errors.New(a.text.Text("already_pending", nil))
	case errors.Is(err, scheduler.ErrUnsupportedPlatform):
		return errors.New(a.text.Text("unsupported_platform", nil))
	}
	return errors.New(a.text.Text(key, i18n.Args{"action": a.text.ActionVerb(string(kind)), "error": err.Error()}))
}

// firstNonEmpty возвращает первую непустую строку
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// contextOf возвращает контекст команды или фоновый контекст
func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}
