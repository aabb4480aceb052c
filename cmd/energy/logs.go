package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
)

// logLevels допустимые значения фильтра и искомые метки
var logLevels = map[string]string{
	"debug":   "DEBUG:",
	"info":    "INFO:",
	"warning": "WARNING:",
	"error":   "ERROR:",
	"action":  "ACTION:",
}

// logCommand показывает и очищает логи
func (a *App) logCommand() *cli.Command {
	return &cli.Command{
		Name:    "log",
		Aliases: []string{"l", "logs"},
		Usage:   "Показать лог за сегодня",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "lines",
				Aliases: []string{"n"},
				Value:   DefaultLogLines,
				Usage:   "количество последних строк",
			},
			&cli.StringFlag{
				Name:    "level",
				Aliases: []string{"L"},
				Usage:   "фильтр: debug, info, warning, error или action",
			},
		},
		Action: a.showLog,
		Subcommands: []*cli.Command{
			{
				Name:  "clean",
				Usage: "Удалить старые лог-файлы",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Value: logger.DefaultRetentionDays,
						Usage: "удалять файлы старше указанного числа дней",
					},
				},
				Action: func(c *cli.Context) error {
					days := c.Int("days")
					if days < 0 {
						box := a.newBox()
						box.AddLine(fmt.Sprintf("Срок хранения не может быть отрицательным: %d", days), "", box.Palette().Error)
						box.Render(c.App.Writer)
						return cli.Exit("", 2)
					}
					deleted, err := a.log.CleanOld(days)
					box := a.newBox()
					box.AddLine("Удалено файлов", fmt.Sprintf("%d", deleted), box.Palette().Accent)
					if err != nil {
						box.AddLine(err.Error(), "", box.Palette().Error)
					}
					box.Render(c.App.Writer)
					if err != nil {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
			{
				Name:  "open",
				Usage: "Открыть каталог логов",
				Action: func(c *cli.Context) error {
					return paths.OpenFileOrDir(a.log.Dir())
				},
			},
		},
	}
}

// showLog выводит последние строки лога за сегодня
func (a *App) showLog(c *cli.Context) error {
	level := strings.ToLower(c.String("level"))
	if level != "" {
		if _, ok := logLevels[level]; !ok {
			return cli.Exit("Некорректный уровень логирования.\nДопустимые значения: debug, info, warning, error, action", 1)
		}
	}

	file, err := os.Open(a.log.CurrentPath())
	if os.IsNotExist(err) {
		fmt.Fprintln(c.App.Writer, "Лог за сегодня отсутствует")
		return nil
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Ошибка чтения логов: %v", err), 1)
	}
	defer file.Close()

	lines, err := tailLines(file, logLevels[level], c.Int("lines"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Ошибка чтения логов: %v", err), 1)
	}
	if len(lines) == 0 {
		fmt.Fprintln(c.App.Writer, "Подходящих записей нет")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(c.App.Writer, l)
	}
	return nil
}

// tailLines возвращает не больше limit последних строк, содержащих marker.
// Пустой marker пропускает все строки, limit <= 0 снимает ограничение.
func tailLines(r io.Reader, marker string, limit int) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if marker != "" && !strings.Contains(line, marker) {
			continue
		}
		lines = append(lines, line)
		if limit > 0 && len(lines) > limit {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}
