package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/qzeleza/energy/internal/config"
	"github.com/qzeleza/energy/internal/i18n"
	"github.com/qzeleza/energy/internal/paths"
)

// configCommand показывает и изменяет настройки
func (a *App) configCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"cfg"},
		Usage:   "Показать или изменить настройки",
		Action:  a.showConfig,
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Показать значение ключа",
				ArgsUsage: "КЛЮЧ",
				Action: func(c *cli.Context) error {
					value, err := a.cfgManager.Get(c.Args().First())
					if err != nil {
						return a.configError(c, err)
					}
					fmt.Fprintln(c.App.Writer, value)
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "Изменить значение ключа",
				ArgsUsage: "КЛЮЧ ЗНАЧЕНИЕ",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("Ожидается два аргумента: КЛЮЧ ЗНАЧЕНИЕ", 1)
					}
					key, value := c.Args().Get(0), c.Args().Get(1)
					if err := a.cfgManager.Set(key, value); err != nil {
						return a.configError(c, err)
					}
					a.log.Action(fmt.Sprintf("Изменена настройка %s = %s", key, value))
					if key == "language" {
						a.text.SetLanguage(value)
					}
					return a.showConfig(c)
				},
			},
			{
				Name:  "reset",
				Usage: "Восстановить настройки по умолчанию",
				Action: func(c *cli.Context) error {
					if err := a.cfgManager.Reset(); err != nil {
						return a.configError(c, err)
					}
					a.text.SetLanguage(a.cfgManager.Current().Language)
					return a.showConfig(c)
				},
			},
			{
				Name:  "path",
				Usage: "Показать путь к файлу настроек",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, a.cfgManager.ConfigPath())
					return nil
				},
			},
			{
				Name:  "open",
				Usage: "Открыть файл настроек в системном приложении",
				Action: func(c *cli.Context) error {
					if err := paths.OpenFileOrDir(a.cfgManager.ConfigPath()); err != nil {
						return a.configError(c, err)
					}
					return nil
				},
			},
		},
	}
}

// showConfig выводит все настройки
func (a *App) showConfig(c *cli.Context) error {
	box := a.newBox()
	p := box.Palette()
	box.SetTitle(a.text.Text("settings", nil))

	for _, key := range config.Keys() {
		value, err := a.cfgManager.Get(key)
		if err != nil {
			continue
		}
		color := p.Value
		if key == "language" {
			value = fmt.Sprintf("%s (%s)", value, i18n.LanguageName(value))
			color = p.Accent
		}
		box.AddLine(key, value, color)
	}
	box.AddDivider()
	box.AddLine("Файл", a.cfgManager.ConfigPath(), p.Value)
	box.Render(c.App.Writer)
	return nil
}

// configError выводит ошибку настройки и список допустимых ключей, если ключ неизвестен
func (a *App) configError(c *cli.Context, err error) error {
	box := a.newBox()
	box.AddLine(err.Error(), "", box.Palette().Error)
	if errors.Is(err, config.ErrUnknownKey) {
		box.AddDivider()
		for _, key := range config.Keys() {
			box.AddLine("  "+key, "", "")
		}
	}
	box.Render(c.App.Writer)
	return cli.Exit("", 1)
}
