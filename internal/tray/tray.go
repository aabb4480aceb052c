// Package tray содержит агент в системном трее: быстрые пресеты планирования,
// отмену, отображение оставшегося времени и основные настройки.
package tray

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/getlantern/systray"

	"github.com/qzeleza/energy/internal/config"
	"github.com/qzeleza/energy/internal/countdown"
	"github.com/qzeleza/energy/internal/dialog"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/timeutil"
)

// preset быстрый вариант планирования из меню
type preset struct {
	value int
	unit  timeutil.Unit
	item  *systray.MenuItem
}

// defaultPresets значения быстрых пресетов
var defaultPresets = []struct {
	value int
	unit  timeutil.Unit
}{
	{15, timeutil.Minutes},
	{30, timeutil.Minutes},
	{1, timeutil.Hours},
	{2, timeutil.Hours},
}

// Tray управляет иконкой и меню в системном трее.
type Tray struct {
	log        *logger.Logger
	cfgManager *config.Manager
	engine     *scheduler.Engine
	text       *i18n.I18n
	notifier   *dialog.Notifier
	ticker     *countdown.Ticker

	cfgUpdates chan config.Config
	lastState  menuState
	doneLogged bool

	mStatus        *systray.MenuItem
	presets        []preset
	mLast          *systray.MenuItem
	mCustom        *systray.MenuItem
	mAt            *systray.MenuItem
	mCancel        *systray.MenuItem
	mAction        *systray.MenuItem
	mShutdown      *systray.MenuItem
	mRestart       *systray.MenuItem
	mSettings      *systray.MenuItem
	mTheme         *systray.MenuItem
	mNotifications *systray.MenuItem
	mLanguage      *systray.MenuItem
	mLangItems     map[string]*systray.MenuItem
	mConfig        *systray.MenuItem
	mLogs          *systray.MenuItem
	mQuit          *systray.MenuItem
}

// New создает новый экземпляр Tray.
func New(log *logger.Logger, cfgManager *config.Manager, engine *scheduler.Engine, text *i18n.I18n, notifier *dialog.Notifier) *Tray {
	return &Tray{
		log:        log,
		cfgManager: cfgManager,
		engine:     engine,
		text:       text,
		notifier:   notifier,
		ticker:     countdown.NewTicker(engine),
		cfgUpdates: make(chan config.Config, 1),
		mLangItems: map[string]*systray.MenuItem{},
	}
}

// Start запускает агент и блокируется до выхода из трея.
// Отмена ctx закрывает трей.
func (t *Tray) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go t.quitOnDone(ctx, systray.Quit)

	systray.Run(func() { t.onReady(ctx) }, t.onExit)
}

// quitOnDone ждет отмены ctx (сигнал или команда tray stop), отменяет
// отложенное действие и закрывает трей. После выхода агента таймер ОС
// некому показывать и отменять.
func (t *Tray) quitOnDone(ctx context.Context, quit func()) {
	<-ctx.Done()
	t.cancelOnExit()
	quit()
}

// cancelOnExit отменяет действие, которое еще не наступило.
func (t *Tray) cancelOnExit() {
	info, ok := t.engine.Pending()
	if !ok || info.Remaining == 0 {
		return
	}
	if _, err := t.engine.Cancel(); err != nil {
		t.log.Failure("cancel on exit", err)
		return
	}
	t.log.Info(fmt.Sprintf("Агент завершается, отложенное действие %s отменено", info.Kind))
}

// onExit вызывается при выходе из systray.
func (t *Tray) onExit() {
	t.log.Info("Агент в трее завершил работу")
}

// onReady строит меню и запускает главный цикл обработки событий.
func (t *Tray) onReady(ctx context.Context) {
	cfg := t.cfgManager.Current()
	systray.SetIcon(iconBytes(runtime.GOOS, cfg.Theme, false))
	systray.SetTooltip(t.text.Text("app_title", nil))

	t.mStatus = systray.AddMenuItem("", "")
	t.mStatus.Disable()
	systray.AddSeparator()

	for _, p := range defaultPresets {
		t.presets = append(t.presets, preset{value: p.value, unit: p.unit, item: systray.AddMenuItem("", "")})
	}
	t.mLast = systray.AddMenuItem("", "")
	t.mCustom = systray.AddMenuItem("", "")
	t.mAt = systray.AddMenuItem("", "")
	systray.AddSeparator()
	t.mCancel = systray.AddMenuItem("", "")
	t.mCancel.Disable()
	systray.AddSeparator()

	t.mAction = systray.AddMenuItem("", "")
	t.mShutdown = t.mAction.AddSubMenuItem("", "")
	t.mRestart = t.mAction.AddSubMenuItem("", "")

	t.mSettings = systray.AddMenuItem("", "")
	t.mTheme = t.mSettings.AddSubMenuItem("", "")
	t.mNotifications = t.mSettings.AddSubMenuItem("", "")
	t.mLanguage = t.mSettings.AddSubMenuItem("", "")
	for _, lang := range t.text.Languages() {
		t.mLangItems[lang] = t.mLanguage.AddSubMenuItem(i18n.LanguageName(lang), lang)
	}
	t.mConfig = t.mSettings.AddSubMenuItem("config.json", paths.ConfigPath())
	t.mLogs = t.mSettings.AddSubMenuItem("logs", paths.LogDir())

	systray.AddSeparator()
	t.mQuit = systray.AddMenuItem("", "")

	t.applyTexts()
	t.refresh()

	go t.watchConfig(ctx)

	if platform.RequiresAdmin() {
		t.log.Warn("Приложение запущено без прав администратора")
		go dialog.Warning(t.log, t.text.Text("admin_required", nil), t.text.Text("admin_message", nil))
	}

	go t.loop(ctx, !cfg.StartMinimized)
}

// watchConfig пересылает изменения файла настроек в главный цикл.
func (t *Tray) watchConfig(ctx context.Context) {
	err := config.Watch(ctx, t.cfgManager, t.log, func(c config.Config) {
		select {
		case t.cfgUpdates <- c:
		default:
			// цикл еще не забрал предыдущее обновление, новое придет следующим событием
		}
	})
	if err != nil {
		t.log.Error(fmt.Sprintf("Наблюдение за настройками недоступно: %v", err))
	}
}

//================================================================================
// ГЛАВНЫЙ ЦИКЛ
//================================================================================

// loop обрабатывает нажатия, тики обновления и изменения настроек в одной горутине,
// поэтому обработчики и обновление меню никогда не выполняются одновременно.
func (t *Tray) loop(ctx context.Context, openOnStart bool) {
	tick := time.NewTicker(countdown.Period)
	defer tick.Stop()

	if openOnStart {
		t.handleCustom()
	}

	presetClicks := make(chan int)
	for i, p := range t.presets {
		go forward(ctx, p.item.ClickedCh, presetClicks, i)
	}
	langClicks := make(chan string)
	for lang, item := range t.mLangItems {
		go forward(ctx, item.ClickedCh, langClicks, lang)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-tick.C:
			t.refresh()

		case c := <-t.cfgUpdates:
			t.applyConfig(c)

		case i := <-presetClicks:
			p := t.presets[i]
			t.scheduleIn(p.value, p.unit)

		case <-t.mLast.ClickedCh:
			cfg := t.cfgManager.Current()
			t.scheduleIn(cfg.LastUsedTimeValue, timeutil.Unit(cfg.LastUsedTimeUnit))

		case <-t.mCustom.ClickedCh:
			t.handleCustom()

		case <-t.mAt.ClickedCh:
			t.handleExactTime()

		case <-t.mCancel.ClickedCh:
			t.handleCancel()

		case <-t.mShutdown.ClickedCh:
			t.setAction(scheduler.Shutdown)

		case <-t.mRestart.ClickedCh:
			t.setAction(scheduler.Restart)

		case <-t.mTheme.ClickedCh:
			if _, err := t.cfgManager.ToggleTheme(); err != nil {
				t.log.Failure("toggle theme", err)
			}
			t.applyTexts()
			t.refresh()

		case <-t.mNotifications.ClickedCh:
			if err := t.cfgManager.Update(func(c *config.Config) { c.ShowNotifications = !c.ShowNotifications }); err != nil {
				t.log.Failure("notifications", err)
			}
			t.applyTexts()

		case lang := <-langClicks:
			if err := t.cfgManager.SetLanguage(lang); err != nil {
				t.log.Failure("language", err)
				continue
			}
			t.text.SetLanguage(lang)
			t.applyTexts()
			t.refresh()

		case <-t.mConfig.ClickedCh:
			if err := paths.OpenFileOrDir(t.cfgManager.ConfigPath()); err != nil {
				dialog.Error(t.log, t.text.Text("error", nil), err.Error())
			}

		case <-t.mLogs.ClickedCh:
			if err := paths.OpenFileOrDir(t.log.Dir()); err != nil {
				dialog.Error(t.log, t.text.Text("error", nil), err.Error())
			}

		case <-t.mQuit.ClickedCh:
			if t.handleQuit() {
				systray.Quit()
				return
			}
		}
	}
}

// forward пересылает нажатия пункта меню в общий канал с его ключом.
func forward[K any](ctx context.Context, in <-chan struct{}, out chan<- K, key K) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-in:
			select {
			case out <- key:
			case <-ctx.Done():
				return
			}
		}
	}
}

//================================================================================
// ОТОБРАЖЕНИЕ
//================================================================================

// menuState что должно быть видно в меню для текущего кадра
type menuState struct {
	status          string
	title           string
	scheduleEnabled bool
	cancelEnabled   bool
	pending         bool
}

// stateFor вычисляет состояние меню по кадру обратного отсчета.
// Когда время истекло, пункты планирования снова доступны, а отмена нет.
func stateFor(f countdown.Frame, text *i18n.I18n) menuState {
	if !f.Active {
		return menuState{status: text.Text("menu_idle", nil), scheduleEnabled: true}
	}
	if f.Done {
		return menuState{status: text.Text("action_done", nil), scheduleEnabled: true}
	}
	status := text.Text("menu_pending", i18n.Args{
		"action":  text.ActionName(string(f.Info.Kind)),
		"time":    f.Label,
		"percent": f.Percent,
	})
	return menuState{status: status, title: f.Label, cancelEnabled: true, pending: true}
}

// refresh обновляет меню по текущему состоянию движка.
func (t *Tray) refresh() {
	f := t.ticker.Frame()
	s := stateFor(f, t.text)

	if f.Done && !t.doneLogged {
		t.log.Info("Время запланированного действия истекло")
		t.doneLogged = true
	}
	if !f.Done {
		t.doneLogged = false
	}

	t.mStatus.SetTitle(s.status)
	systray.SetTitle(s.title)
	systray.SetTooltip(t.text.Text("app_title", nil) + "\n" + s.status)

	if s == t.lastState {
		return
	}
	if s.pending != t.lastState.pending {
		systray.SetIcon(iconBytes(runtime.GOOS, t.cfgManager.Current().Theme, s.pending))
	}
	setEnabled(t.mCancel, s.cancelEnabled)
	for _, p := range t.presets {
		setEnabled(p.item, s.scheduleEnabled)
	}
	setEnabled(t.mLast, s.scheduleEnabled)
	setEnabled(t.mCustom, s.scheduleEnabled)
	setEnabled(t.mAt, s.scheduleEnabled)
	t.lastState = s
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// presetTitle подпись пресета, например "Programar en 15 minutos".
func presetTitle(text *i18n.I18n, value int, unit timeutil.Unit) string {
	return text.Text("menu_schedule_in", i18n.Args{"time": fmt.Sprintf("%d %s", value, strings.ToLower(text.UnitLabel(string(unit))))})
}

// applyTexts заново выставляет все подписи меню на текущем языке.
func (t *Tray) applyTexts() {
	cfg := t.cfgManager.Current()

	for _, p := range t.presets {
		p.item.SetTitle(presetTitle(t.text, p.value, p.unit))
	}
	t.mLast.SetTitle(t.text.Text("menu_schedule_last", i18n.Args{
		"value": cfg.LastUsedTimeValue,
		"unit":  strings.ToLower(t.text.UnitLabel(cfg.LastUsedTimeUnit)),
	}))
	t.mCustom.SetTitle(t.text.Text("menu_schedule_custom", nil))
	t.mAt.SetTitle(t.text.Text("menu_schedule_at", nil))
	t.mCancel.SetTitle(t.text.Text("cancel_button", nil))

	t.mAction.SetTitle(t.text.Text("menu_action", nil) + ": " + t.text.ActionName(cfg.LastUsedAction))
	t.mShutdown.SetTitle(t.text.ActionName(string(scheduler.Shutdown)))
	t.mRestart.SetTitle(t.text.ActionName(string(scheduler.Restart)))
	setChecked(t.mShutdown, cfg.LastUsedAction == string(scheduler.Shutdown))
	setChecked(t.mRestart, cfg.LastUsedAction == string(scheduler.Restart))

	t.mSettings.SetTitle(t.text.Text("settings", nil))
	if cfg.Theme == config.ThemeDark {
		t.mTheme.SetTitle(t.text.Text("theme_light", nil))
	} else {
		t.mTheme.SetTitle(t.text.Text("theme_dark", nil))
	}
	t.mNotifications.SetTitle(t.text.Text("notifications", nil))
	setChecked(t.mNotifications, cfg.ShowNotifications)
	t.mLanguage.SetTitle(t.text.Text("language", nil))
	for lang, item := range t.mLangItems {
		setChecked(item, lang == t.text.Language())
	}
	t.mQuit.SetTitle(t.text.Text("menu_quit", nil))

	systray.SetIcon(iconBytes(runtime.GOOS, cfg.Theme, t.lastState.pending))
}

// applyConfig применяет настройки, измененные снаружи (например, командой config set).
func (t *Tray) applyConfig(c config.Config) {
	if c.Language != t.text.Language() {
		t.text.SetLanguage(c.Language)
	}
	t.applyTexts()
	t.refresh()
}

//================================================================================
// ОБРАБОТЧИКИ
//================================================================================

// setAction запоминает выбранное действие для пресетов.
func (t *Tray) setAction(kind scheduler.Kind) {
	if err := t.cfgManager.Update(func(c *config.Config) { c.LastUsedAction = string(kind) }); err != nil {
		t.log.Failure("action", err)
	}
	t.applyTexts()
}

// currentKind возвращает действие, выбранное в меню.
func (t *Tray) currentKind() scheduler.Kind {
	kind, err := scheduler.ParseKind(t.cfgManager.Current().LastUsedAction)
	if err != nil {
		return scheduler.Shutdown
	}
	return kind
}

// scheduleIn проверяет значение и планирует действие через value единиц.
func (t *Tray) scheduleIn(value int, unit timeutil.Unit) {
	if _, err := timeutil.ValidateTimeInput(strconv.Itoa(value), unit); err != nil {
		t.showValidation(err)
		return
	}
	seconds, err := timeutil.ConvertToSeconds(value, unit)
	if err != nil {
		t.showValidation(err)
		return
	}

	kind := t.currentKind()
	label := fmt.Sprintf("%d %s", value, strings.ToLower(t.text.UnitLabel(string(unit))))
	if !t.confirm(kind, label) {
		return
	}

	info, err := t.engine.Schedule(seconds, kind)
	if err != nil {
		t.showEngineError("error_scheduling", kind, err)
		return
	}

	t.log.Action(fmt.Sprintf("Назначено действие %s через %d %s", kind, value, unit))
	if err := t.cfgManager.Update(func(c *config.Config) {
		c.LastUsedTab = config.TabRelative
		c.LastUsedTimeValue = value
		c.LastUsedTimeUnit = string(unit)
		c.LastUsedAction = string(kind)
	}); err != nil {
		t.log.Failure("save last used", err)
	}
	t.afterSchedule(info)
}

// scheduleAt планирует действие на время HH:MM.
func (t *Tray) scheduleAt(clock string) {
	if err := timeutil.ValidateTimeFormat(clock); err != nil {
		t.showValidation(err)
		return
	}
	target, err := timeutil.ParseClock(clock, time.Now())
	if err != nil {
		t.showValidation(err)
		return
	}

	kind := t.currentKind()
	if !t.confirm(kind, clock) {
		return
	}

	info, err := t.engine.ScheduleAt(target, kind)
	if err != nil {
		t.showEngineError("error_scheduling", kind, err)
		return
	}

	t.log.Action(fmt.Sprintf("Назначено действие %s на %s", kind, clock))
	if err := t.cfgManager.Update(func(c *config.Config) {
		c.LastUsedTab = config.TabExact
		c.LastUsedAction = string(kind)
	}); err != nil {
		t.log.Failure("save last used", err)
	}
	t.afterSchedule(info)
}

// afterSchedule уведомляет пользователя и обновляет меню.
func (t *Tray) afterSchedule(info scheduler.Info) {
	t.applyTexts()
	t.refresh()
	if t.cfgManager.Current().ShowNotifications {
		_ = t.notifier.Notify(t.text.Text("success", nil), t.text.Text("action_scheduled", i18n.Args{
			"action": t.text.ActionName(string(info.Kind)),
			"time":   info.Target.Format("15:04:05"),
		}))
	}
}

// confirm спрашивает подтверждение перед планированием.
func (t *Tray) confirm(kind scheduler.Kind, when string) bool {
	return dialog.Question(t.log, t.text.Text("confirm_title", nil), t.text.Text("confirm_message", i18n.Args{
		"action": t.text.ActionVerb(string(kind)),
		"time":   when,
	}))
}

// handleCustom запрашивает единицу и значение задержки.
func (t *Tray) handleCustom() {
	cfg := t.cfgManager.Current()

	labels := make([]string, 0, len(timeutil.Units()))
	byLabel := map[string]timeutil.Unit{}
	for _, u := range timeutil.Units() {
		l := t.text.UnitLabel(string(u))
		labels = append(labels, l)
		byLabel[l] = u
	}

	choice, ok := dialog.List(t.log, t.text.Text("tab_time", nil), t.text.Text("time_unit", nil), labels)
	if !ok {
		t.log.Debug("Выбор единицы отменен пользователем.")
		return
	}
	unit := byLabel[choice]

	input, ok := dialog.Entry(t.log, t.text.Text("tab_time", nil),
		t.text.Text("prompt_value", i18n.Args{"unit": strings.ToLower(choice)}),
		strconv.Itoa(cfg.LastUsedTimeValue))
	if !ok {
		t.log.Debug("Ввод значения отменен пользователем.")
		return
	}

	value, err := timeutil.ValidateTimeInput(input, unit)
	if err != nil {
		t.showValidation(err)
		return
	}
	t.scheduleIn(value, unit)
}

// handleExactTime запрашивает время HH:MM.
func (t *Tray) handleExactTime() {
	input, ok := dialog.Entry(t.log, t.text.Text("tab_exact_time", nil), t.text.Text("prompt_exact_time", nil),
		time.Now().Add(time.Hour).Format("15:04"))
	if !ok {
		return
	}
	t.scheduleAt(input)
}

// handleCancel отменяет отложенное действие.
func (t *Tray) handleCancel() {
	had, err := t.engine.Cancel()
	if err != nil {
		t.showEngineError("error_cancelling", "", err)
		return
	}
	if had {
		t.log.Action("Отменено запланированное действие")
	}
	t.refresh()

	if t.cfgManager.Current().ShowNotifications {
		msg := t.text.Text("action_cancelled", nil)
		if !had {
			msg = t.text.Text("nothing_to_cancel", nil)
		}
		_ = t.notifier.Notify(paths.AppTitle, msg)
	}
}

// handleQuit спрашивает подтверждение и отменяет отложенное действие перед выходом.
// Возвращает true, если можно выходить.
func (t *Tray) handleQuit() bool {
	if _, pending := t.engine.Pending(); !pending {
		t.log.Info("Получен сигнал на выход. Завершение работы.")
		return true
	}
	if !dialog.Question(t.log, t.text.Text("menu_quit", nil), t.text.Text("quit_confirm", nil)) {
		return false
	}
	if _, err := t.engine.Cancel(); err != nil {
		t.showEngineError("error_cancelling", "", err)
		return false
	}
	t.log.Info("Получен сигнал на выход. Отложенное действие отменено, завершение работы.")
	return true
}

// showValidation показывает ошибку ввода. Такие ошибки не пишутся в лог как системные.
func (t *Tray) showValidation(err error) {
	msg := err.Error()
	var verr *timeutil.ValidationError
	if errors.As(err, &verr) {
		msg = t.text.Text(verr.Key(), i18n.Args{
			"max":  verr.Max,
			"unit": strings.ToLower(t.text.UnitLabel(string(verr.Unit))),
		})
	}
	dialog.Error(t.log, t.text.Text("invalid_input", nil), msg)
}

// showEngineError показывает блокирующее окно с ошибкой движка.
// Сам движок уже записал ошибку в лог с контекстом.
func (t *Tray) showEngineError(key string, kind scheduler.Kind, err error) {
	var msg string
	switch {
	case errors.Is(err, scheduler.ErrAlreadyPending):
		msg = t.text.Text("already_pending", nil)
	case errors.Is(err, scheduler.ErrUnsupportedPlatform):
		msg = t.text.Text("unsupported_platform", nil)
	default:
		msg = t.text.Text(key, i18n.Args{"action": t.text.ActionVerb(string(kind)), "error": err.Error()})
	}
	dialog.Error(t.log, t.text.Text("error", nil), msg)
}
