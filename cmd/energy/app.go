package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/qzeleza/energy/internal/background"
	"github.com/qzeleza/energy/internal/config"
	"github.com/qzeleza/energy/internal/dialog"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/utils"
)

// App представляет основное приложение CLI
type App struct {
	cli        *cli.App            // CLI приложение
	log        *logger.Logger      // Логгер
	cfgManager *config.Manager     // Менеджер конфигурации
	text       *i18n.I18n          // Тексты интерфейса
	engine     *scheduler.Engine   // Движок планирования
	bg         *background.Manager // Менеджер фоновых процессов
	notifier   *dialog.Notifier    // Системные уведомления
}

// NewApp создает и инициализирует новое приложение
func NewApp() (*App, error) {
	log := logger.New(paths.LogDir(), MaxLogSizeMB, true, DebugMode)
	log.Debug(fmt.Sprintf("Приложение запущено с аргументами: %s", strings.Join(os.Args, " ")))

	cfgManager, err := config.New(log)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации менеджера конфигурации: %w", err)
	}

	_, statErr := os.Stat(cfgManager.ConfigPath())
	firstRun := os.IsNotExist(statErr)

	// поврежденный файл не мешает запуску, используются значения по умолчанию
	cfg, err := cfgManager.Load()
	if err != nil {
		log.Failure("config", err)
	}

	// при первом запуске язык берется из локали системы
	if firstRun {
		if lang := i18n.DetectSystemLanguage(cfg.Language); lang != cfg.Language {
			if err := cfgManager.SetLanguage(lang); err != nil {
				log.Failure("language", err)
			} else {
				log.Info(fmt.Sprintf("Язык интерфейса выбран по локали системы: %s", lang))
				cfg.Language = lang
			}
		}
	}

	text := i18n.New(paths.TranslationsDir(), i18n.DefaultLanguage, log)
	if !text.SetLanguage(cfg.Language) {
		log.Warn(fmt.Sprintf("Язык '%s' недоступен, используется '%s'", cfg.Language, text.Language()))
	}

	app := &App{
		log:        log,
		cfgManager: cfgManager,
		text:       text,
		engine:     scheduler.New(platform.NewExecRunner(log), log),
		bg:         background.New(log),
		notifier:   dialog.NewNotifier(log),
	}
	app.cli = app.createCLI()

	return app, nil
}

// createCLI создает структуру CLI приложения
func (a *App) createCLI() *cli.App {
	cli.AppHelpTemplate = RussianHelpTemplate
	cli.CommandHelpTemplate = CommandHelpTemplate
	cli.SubcommandHelpTemplate = SubcommandHelpTemplate
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "показать версию",
	}
	cli.HelpFlag = &cli.BoolFlag{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   "показать справку",
	}

	return &cli.App{
		Name:        paths.AppName,
		Usage:       AppUsage,
		Description: AppDescription,
		Version:     version,
		Authors: []*cli.Author{
			{Name: "qzeleza", Email: "support@qzeleza.com"},
		},
		Commands: []*cli.Command{
			a.inCommand(),
			a.atCommand(),
			a.cancelCommand(),
			a.trayCommand(),
			a.statusCommand(),
			a.configCommand(),
			a.logCommand(),
		},
		Action: a.defaultAction,
		Before: a.beforeAction,
		After:  a.afterAction,
	}
}

// beforeAction выполняется перед любой командой
func (a *App) beforeAction(c *cli.Context) error {
	a.log.Debug(fmt.Sprintf("Начало выполнения команды, платформа: %s", platform.Describe(a.engine.Family())))
	return nil
}

// afterAction выполняется после любой команды
func (a *App) afterAction(c *cli.Context) error {
	a.log.Debug("Завершение выполнения команды")
	return nil
}

// Run запускает приложение
func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// Close закрывает лог-файл
func (a *App) Close() {
	_ = a.log.Close()
}

// Logger возвращает логгер приложения
func (a *App) Logger() *logger.Logger {
	return a.log
}

// newBox создает окно вывода в палитре текущей темы
func (a *App) newBox() *utils.WindowBuffer {
	return utils.NewWindowBuffer(BoxMinWidth, utils.PaletteFor(a.cfgManager.Current().Theme))
}
