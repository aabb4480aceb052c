package paths

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// OpenFileOrDir открывает файл или каталог приложением по умолчанию.
// @param path string - путь к файлу или каталогу
// @return error - ошибка, если путь не существует или команду не удалось запустить
func OpenFileOrDir(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("путь %s недоступен: %w", path, err)
	}

	name, args := openCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("не удалось открыть %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// openCommand возвращает команду открытия пути для ОС.
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "explorer", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}
