package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/qzeleza/energy/internal/background"
	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
	"github.com/qzeleza/energy/internal/platform"
	"github.com/qzeleza/energy/internal/tray"
	"github.com/qzeleza/energy/internal/utils"
)

//================================================================================
// АГЕНТ В ТРЕЕ
//================================================================================

// trayCommand запускает или останавливает агента в трее
func (a *App) trayCommand() *cli.Command {
	return &cli.Command{
		Name:    "tray",
		Aliases: []string{"t"},
		Usage:   "Запустить агента в системном трее",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "detach",
				Aliases: []string{"d"},
				Usage:   "запустить агента отдельным процессом и сразу вернуть управление",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("detach") {
				return a.launchTray(c)
			}
			return a.runTray(c)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "stop",
				Usage: "Остановить запущенного агента",
				Action: func(c *cli.Context) error {
					box := a.newBox()
					if err := a.bg.Kill(TrayProcessName); err != nil {
						box.AddLine(fmt.Sprintf("Не удалось остановить агента: %v", err), "", box.Palette().Error)
						box.Render(c.App.Writer)
						return cli.Exit("", 1)
					}
					box.AddLine("Агент остановлен", "", box.Palette().Accent)
					box.Render(c.App.Writer)
					return nil
				},
			},
		},
	}
}

// runTray выполняет агента в текущем процессе, удерживая блокировку
func (a *App) runTray(c *cli.Context) error {
	if others, err := background.FindOtherInstances(paths.AppName, int32(os.Getpid())); err == nil && len(others) > 0 {
		a.log.Debug(fmt.Sprintf("Найдены другие процессы %s: %v", paths.AppName, others))
	}

	err := a.bg.Run(TrayProcessName, func(ctx context.Context) {
		a.log.Line()
		a.log.Info(fmt.Sprintf("Запуск агента в трее, платформа: %s", platform.Describe(a.engine.Family())))
		if _, err := a.log.CleanOld(logger.DefaultRetentionDays); err != nil {
			a.log.Failure("clean logs", err)
		}
		tray.New(a.log, a.cfgManager, a.engine, a.text, a.notifier).Start(ctx)
	})
	if errors.Is(err, background.ErrAlreadyRunning) {
		box := a.newBox()
		box.AddLine("Агент в трее уже запущен", "", box.Palette().Warn)
		box.Render(c.App.Writer)
		return nil
	}
	return err
}

// launchTray запускает агента отдельным процессом
func (a *App) launchTray(c *cli.Context) error {
	box := a.newBox()
	if a.bg.IsRunning(TrayProcessName) {
		box.AddLine("Агент в трее уже запущен", "", box.Palette().Warn)
		box.Render(c.App.Writer)
		return nil
	}
	if err := a.bg.LaunchDetached(TrayProcessName); err != nil {
		box.AddLine(err.Error(), "", box.Palette().Error)
		box.Render(c.App.Writer)
		return cli.Exit("", 1)
	}
	box.AddLine("Агент в трее запущен", "", box.Palette().Accent)
	box.Render(c.App.Writer)
	return nil
}

//================================================================================
// СОСТОЯНИЕ
//================================================================================

// statusCommand показывает сведения о системе и агенте
func (a *App) statusCommand() *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"s"},
		Usage:   "Показать платформу, состояние агента и пути к файлам",
		Action: func(c *cli.Context) error {
			box := a.newBox()
			p := box.Palette()
			box.SetTitle(a.text.Text("app_title", nil))

			family := a.engine.Family()
			supportColor := p.Accent
			if !family.Supported() {
				supportColor = p.Error
			}
			box.AddLine("Платформа", platform.Describe(family), supportColor)
			box.AddLine("Поддерживается", utils.BoolToYesNo(family.Supported(), "да", "нет"), supportColor)
			box.AddLine("Права администратора", utils.BoolToYesNo(!platform.RequiresAdmin(), "да", "нет"), p.Value)
			box.AddDivider()

			running := a.bg.IsRunning(TrayProcessName)
			trayColor := p.Warn
			if running {
				trayColor = p.Accent
			}
			box.AddLine("Агент в трее", utils.BoolToYesNo(running, "запущен", "не запущен"), trayColor)
			if others, err := background.FindOtherInstances(paths.AppName, int32(os.Getpid())); err == nil {
				box.AddLine("Других процессов", fmt.Sprintf("%d", len(others)), p.Value)
			}
			box.AddDivider()

			box.AddLine("Конфигурация", a.cfgManager.ConfigPath(), p.Value)
			box.AddLine("Логи", a.log.Dir(), p.Value)
			box.AddLine("Переводы", paths.TranslationsDir(), p.Value)
			if err := utils.CheckWriteAccess(a.log.Dir(), a.log); err != nil {
				box.AddLine("Запись логов", err.Error(), p.Error)
			}
			box.Render(c.App.Writer)
			return nil
		},
	}
}

//================================================================================
// ДЕЙСТВИЕ ПО УМОЛЧАНИЮ
//================================================================================

// defaultAction выполняется при запуске без команды.
// Если включено сворачивание в трей, запускается агент; иначе выводится краткая справка.
func (a *App) defaultAction(c *cli.Context) error {
	if c.Args().Present() {
		return cli.Exit(fmt.Sprintf("Неизвестная команда: %s", c.Args().First()), 1)
	}

	if a.cfgManager.Current().MinimizeToTray {
		return a.launchTray(c)
	}
	return cli.ShowAppHelp(c)
}
