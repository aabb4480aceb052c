// paths/paths.go
// Модуль для получения путей к файлам приложения: конфигурации, логам,
// каталогам переводов и lock-файлам.

package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	// AppName имя приложения, используется в именах файлов
	AppName = "energy"

	// AppTitle имя каталога приложения в Windows
	AppTitle = "Energy"

	// HomeEnv переменная окружения, переносящая все файлы приложения в один каталог
	HomeEnv = "ENERGY_HOME"
)

// home возвращает домашний каталог пользователя.
func home() string {
	if h, err := os.UserHomeDir(); err == nil && h != "" {
		return h
	}
	return os.Getenv("HOME")
}

// override возвращает каталог из ENERGY_HOME, если переменная задана.
func override() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(HomeEnv))
	return dir, dir != ""
}

// ConfigDir возвращает каталог конфигурации приложения.
// Windows: ~/AppData/Local/Energy, остальные системы: ~/.config/energy
func ConfigDir() string {
	if dir, ok := override(); ok {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home(), "AppData", "Local", AppTitle)
	}
	return filepath.Join(home(), ".config", AppName)
}

// ConfigPath возвращает путь к файлу конфигурации.
// @return string - путь к config.json
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// TranslationsDir возвращает каталог с файлами переводов.
func TranslationsDir() string {
	return filepath.Join(ConfigDir(), "translations")
}

// LogDir возвращает путь к директории логов.
// Windows: ~/AppData/Local/Energy/logs, остальные: ~/.local/share/energy/logs
func LogDir() string {
	if dir, ok := override(); ok {
		return filepath.Join(dir, "logs")
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home(), "AppData", "Local", AppTitle, "logs")
	}
	return filepath.Join(home(), ".local", "share", AppName, "logs")
}

// LogFileName возвращает имя лог-файла для указанного дня.
// @param day time.Time - календарный день
// @return string - имя вида energy_2006-01-02.log
func LogFileName(day time.Time) string {
	return AppName + "_" + day.Format("2006-01-02") + ".log"
}

// LogPath возвращает путь к лог-файлу текущего дня.
func LogPath() string {
	return filepath.Join(LogDir(), LogFileName(time.Now()))
}

// RunDir возвращает каталог для lock- и PID-файлов.
func RunDir() string {
	return filepath.Join(ConfigDir(), "run")
}

// LockPath возвращает путь к lock-файлу процесса указанного типа.
func LockPath(processType string) string {
	return filepath.Join(RunDir(), AppName+"."+strings.TrimLeft(processType, "-")+".lock")
}

// PIDPath возвращает путь к PID-файлу процесса указанного типа.
func PIDPath(processType string) string {
	return filepath.Join(RunDir(), AppName+"."+strings.TrimLeft(processType, "-")+".pid")
}

// BinaryPath возвращает путь к исполняемому файлу текущего процесса.
// Если путь определить не удалось, возвращается AppName в расчете на PATH.
func BinaryPath() string {
	exe, err := os.Executable()
	if err != nil {
		return AppName
	}
	return exe
}

// EnsureDir создает каталог, если он не существует.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
