// Package config управляет пользовательскими настройками приложения.
// Он предоставляет структуру Config и Manager для загрузки, сохранения
// и изменения настроек в файле JSON. Каждое изменение сразу перезаписывает файл целиком.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/qzeleza/energy/internal/logger"
	"github.com/qzeleza/energy/internal/paths"
	"github.com/qzeleza/energy/internal/scheduler"
	"github.com/qzeleza/energy/internal/timeutil"
)

// Темы оформления
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Вкладки режима планирования
const (
	TabRelative = 0
	TabExact    = 1
)

// Поддерживаемые языки интерфейса
var Languages = []string{"es", "en"}

// ErrUnknownKey ключ настроек не существует.
var ErrUnknownKey = errors.New("неизвестный ключ настроек")

// Shortcuts подписи горячих клавиш. Только для отображения, переназначение не поддерживается.
type Shortcuts struct {
	Cancel      string `json:"cancel"`
	SwitchTab   string `json:"switch_tab"`
	ToggleTheme string `json:"toggle_theme"`
}

// Config содержит все настраиваемые параметры приложения.
type Config struct {
	Theme             string    `json:"theme"`
	Language          string    `json:"language"`
	LastUsedTab       int       `json:"last_used_tab"`
	LastUsedTimeUnit  string    `json:"last_used_time_unit"`
	LastUsedTimeValue int       `json:"last_used_time_value"`
	LastUsedAction    string    `json:"last_used_action"`
	ShowNotifications bool      `json:"show_notifications"`
	MinimizeToTray    bool      `json:"minimize_to_tray"`
	StartMinimized    bool      `json:"start_minimized"`
	KeyboardShortcuts Shortcuts `json:"keyboard_shortcuts"`
}

// Default возвращает указатель на структуру Config с настройками по умолчанию.
func Default() *Config {
	return &Config{
		Theme:             ThemeLight,
		Language:          "es",
		LastUsedTab:       TabRelative,
		LastUsedTimeUnit:  string(timeutil.Minutes),
		LastUsedTimeValue: 30,
		LastUsedAction:    string(scheduler.Shutdown),
		ShowNotifications: true,
		MinimizeToTray:    true,
		StartMinimized:    false,
		KeyboardShortcuts: Shortcuts{
			Cancel:      "Ctrl+C",
			SwitchTab:   "Ctrl+Tab",
			ToggleTheme: "Ctrl+T",
		},
	}
}

// Manager инкапсулирует всю логику управления настройками
// и хранит последнюю загруженную копию.
type Manager struct {
	mu         sync.Mutex
	configPath string
	log        *logger.Logger
	cfg        *Config
}

// New создает новый экземпляр менеджера конфигурации.
// @param log *logger.Logger - экземпляр логгера.
// @param customPath ...string - необязательный путь к файлу конфигурации.
// Если путь не указан, используется paths.ConfigPath().
// @return *Manager - указатель на новый экземпляр менеджера.
// @return error - ошибка, если не удалось создать директорию.
func New(log *logger.Logger, customPath ...string) (*Manager, error) {
	var configPath string

	if len(customPath) > 0 && customPath[0] != "" {
		configPath = customPath[0]
	} else {
		configPath = paths.ConfigPath()
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию для конфигурации %s: %w", configDir, err)
	}

	return &Manager{
		configPath: configPath,
		log:        log,
		cfg:        Default(),
	}, nil
}

// ConfigPath возвращает путь к файлу конфигурации, которым управляет менеджер.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// Current возвращает копию текущих настроек.
func (m *Manager) Current() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.cfg
}

// Load загружает конфигурацию из файла.
// Если файл не существует, он создается с настройками по умолчанию.
// Отсутствующие в файле ключи заполняются значениями по умолчанию, и файл перезаписывается.
// Если файл поврежден, менеджер продолжает работать с настройками по умолчанию,
// а ошибка возвращается вызывающему.
// @return *Config - указатель на загруженную конфигурацию.
// @return error - ошибка чтения или разбора файла.
func (m *Manager) Load() (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.log.Info("Файл конфигурации не найден. Создание нового с настройками по умолчанию.")
		m.cfg = Default()
		if err := m.saveLocked(m.cfg); err != nil {
			return m.copyLocked(), fmt.Errorf("не удалось сохранить конфигурацию по умолчанию: %w", err)
		}
		return m.copyLocked(), nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		m.cfg = Default()
		return m.copyLocked(), fmt.Errorf("не удалось прочитать файл конфигурации: %w", err)
	}

	// Карта присутствия ключей отличает отсутствующий ключ от нулевого значения
	presenceMap := make(map[string]interface{})
	if err := json.Unmarshal(data, &presenceMap); err != nil {
		m.log.Error(fmt.Sprintf("Ошибка при загрузке конфигурации: %v", err))
		m.cfg = Default()
		return m.copyLocked(), fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}

	loaded := Default()
	if err := json.Unmarshal(data, loaded); err != nil {
		m.log.Error(fmt.Sprintf("Ошибка при загрузке конфигурации: %v", err))
		m.cfg = Default()
		return m.copyLocked(), fmt.Errorf("ошибка разбора файла конфигурации: %w", err)
	}

	if m.mergeWithDefaults(loaded, presenceMap) {
		m.log.Info("Конфигурация была дополнена значениями по умолчанию. Сохраняем изменения...")
		if err := m.saveLocked(loaded); err != nil {
			m.log.Debug(fmt.Sprintf("Не удалось автоматически сохранить дополненную конфигурацию: %v", err))
		}
	}

	m.cfg = loaded
	return m.copyLocked(), nil
}

// Save сохраняет предоставленную конфигурацию и делает ее текущей.
// @param cfg *Config - указатель на конфигурацию для сохранения.
// @return error - ошибка, если не удалось записать или переименовать файл.
func (m *Manager) Save(cfg *Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.saveLocked(cfg); err != nil {
		return err
	}
	c := *cfg
	m.cfg = &c
	return nil
}

// Update изменяет текущие настройки функцией fn и сразу сохраняет файл.
func (m *Manager) Update(fn func(cfg *Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := *m.cfg
	fn(&next)
	if err := m.saveLocked(&next); err != nil {
		return err
	}
	m.cfg = &next
	return nil
}

// Reset восстанавливает настройки по умолчанию и перезаписывает файл.
func (m *Manager) Reset() error {
	m.log.Info("Сброс настроек к значениям по умолчанию")
	return m.Save(Default())
}

// SetTheme устанавливает тему оформления. Допустимы только light и dark.
func (m *Manager) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("недопустимая тема %q, ожидается light или dark", theme)
	}
	return m.Update(func(cfg *Config) { cfg.Theme = theme })
}

// ToggleTheme переключает тему и возвращает новое значение.
func (m *Manager) ToggleTheme() (string, error) {
	next := ThemeDark
	if m.Current().Theme == ThemeDark {
		next = ThemeLight
	}
	return next, m.SetTheme(next)
}

// SetLanguage устанавливает язык интерфейса. Допустимы только es и en.
func (m *Manager) SetLanguage(lang string) error {
	if !isLanguage(lang) {
		return fmt.Errorf("недопустимый язык %q, ожидается %s", lang, strings.Join(Languages, " или "))
	}
	return m.Update(func(cfg *Config) { cfg.Language = lang })
}

func isLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// saveLocked атомарно записывает конфигурацию через временный файл. Вызывается под m.mu.
func (m *Manager) saveLocked(cfg *Config) error {
	tempFile := m.configPath + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл конфигурации: %w", err)
	}
	defer os.Remove(tempFile)

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(cfg); err != nil {
		file.Close()
		return fmt.Errorf("ошибка при кодировании конфигурации: %w", err)
	}
	// файл закрывается до переименования, иначе Windows не даст его заменить
	file.Close()

	if err := os.Rename(tempFile, m.configPath); err != nil {
		return fmt.Errorf("не удалось сохранить конфигурацию: %w", err)
	}

	m.log.Debug("Конфигурация успешно сохранена.")
	return nil
}

func (m *Manager) copyLocked() *Config {
	c := *m.cfg
	return &c
}

// mergeWithDefaults заполняет значениями по умолчанию ключи, которых нет в файле.
// Возвращает true, если что-то было добавлено.
func (m *Manager) mergeWithDefaults(loaded *Config, presenceMap map[string]interface{}) bool {
	def := Default()
	changed := false

	keyExists := func(key string) bool {
		_, ok := presenceMap[key]
		return ok
	}
	fill := func(key string, apply func()) {
		if keyExists(key) {
			return
		}
		apply()
		m.log.Debug(fmt.Sprintf("Поле '%s' отсутствует. Установлено значение по умолчанию.", key))
		changed = true
	}

	fill("theme", func() { loaded.Theme = def.Theme })
	fill("language", func() { loaded.Language = def.Language })
	fill("last_used_tab", func() { loaded.LastUsedTab = def.LastUsedTab })
	fill("last_used_time_unit", func() { loaded.LastUsedTimeUnit = def.LastUsedTimeUnit })
	fill("last_used_time_value", func() { loaded.LastUsedTimeValue = def.LastUsedTimeValue })
	fill("last_used_action", func() { loaded.LastUsedAction = def.LastUsedAction })
	fill("show_notifications", func() { loaded.ShowNotifications = def.ShowNotifications })
	fill("minimize_to_tray", func() { loaded.MinimizeToTray = def.MinimizeToTray })
	fill("start_minimized", func() { loaded.StartMinimized = def.StartMinimized })
	fill("keyboard_shortcuts", func() { loaded.KeyboardShortcuts = def.KeyboardShortcuts })

	// вложенный объект мог быть записан не полностью
	if sc, ok := presenceMap["keyboard_shortcuts"].(map[string]interface{}); ok {
		for key, apply := range map[string]func(){
			"cancel":       func() { loaded.KeyboardShortcuts.Cancel = def.KeyboardShortcuts.Cancel },
			"switch_tab":   func() { loaded.KeyboardShortcuts.SwitchTab = def.KeyboardShortcuts.SwitchTab },
			"toggle_theme": func() { loaded.KeyboardShortcuts.ToggleTheme = def.KeyboardShortcuts.ToggleTheme },
		} {
			if _, ok := sc[key]; !ok {
				apply()
				changed = true
			}
		}
	}

	return changed
}

//================================================================================
// ДОСТУП ПО ИМЕНИ КЛЮЧА (для команды config set/get)
//================================================================================

// Keys возвращает все ключи настроек в алфавитном порядке.
// Подписи горячих клавиш адресуются как keyboard_shortcuts.<имя>.
func Keys() []string {
	keys := []string{
		"theme", "language", "last_used_tab", "last_used_time_unit",
		"last_used_time_value", "last_used_action", "show_notifications",
		"minimize_to_tray", "start_minimized",
		"keyboard_shortcuts.cancel", "keyboard_shortcuts.switch_tab", "keyboard_shortcuts.toggle_theme",
	}
	sort.Strings(keys)
	return keys
}

// Get возвращает значение ключа в текстовом виде.
func (m *Manager) Get(key string) (string, error) {
	cfg := m.Current()
	switch key {
	case "theme":
		return cfg.Theme, nil
	case "language":
		return cfg.Language, nil
	case "last_used_tab":
		return strconv.Itoa(cfg.LastUsedTab), nil
	case "last_used_time_unit":
		return cfg.LastUsedTimeUnit, nil
	case "last_used_time_value":
		return strconv.Itoa(cfg.LastUsedTimeValue), nil
	case "last_used_action":
		return cfg.LastUsedAction, nil
	case "show_notifications":
		return strconv.FormatBool(cfg.ShowNotifications), nil
	case "minimize_to_tray":
		return strconv.FormatBool(cfg.MinimizeToTray), nil
	case "start_minimized":
		return strconv.FormatBool(cfg.StartMinimized), nil
	case "keyboard_shortcuts.cancel":
		return cfg.KeyboardShortcuts.Cancel, nil
	case "keyboard_shortcuts.switch_tab":
		return cfg.KeyboardShortcuts.SwitchTab, nil
	case "keyboard_shortcuts.toggle_theme":
		return cfg.KeyboardShortcuts.ToggleTheme, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Set проверяет и устанавливает значение ключа, затем перезаписывает файл.
//
// @param key - имя ключа из Keys().
// @param value - значение в текстовом виде.
// @return error - ErrUnknownKey или ошибка проверки значения.
func (m *Manager) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case "theme":
		return m.SetTheme(value)
	case "language":
		return m.SetLanguage(value)
	case "last_used_tab":
		tab, err := strconv.Atoi(value)
		if err != nil || (tab != TabRelative && tab != TabExact) {
			return fmt.Errorf("недопустимая вкладка %q, ожидается 0 или 1", value)
		}
		return m.Update(func(cfg *Config) { cfg.LastUsedTab = tab })
	case "last_used_time_unit":
		unit, err := timeutil.ParseUnit(value)
		if err != nil {
			return err
		}
		return m.Update(func(cfg *Config) { cfg.LastUsedTimeUnit = string(unit) })
	case "last_used_time_value":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("недопустимое значение %q, ожидается целое число не меньше 0", value)
		}
		return m.Update(func(cfg *Config) { cfg.LastUsedTimeValue = n })
	case "last_used_action":
		kind, err := scheduler.ParseKind(value)
		if err != nil {
			return err
		}
		return m.Update(func(cfg *Config) { cfg.LastUsedAction = string(kind) })
	case "show_notifications", "minimize_to_tray", "start_minimized":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("недопустимое значение %q для %s, ожидается true или false", value, key)
		}
		return m.Update(func(cfg *Config) {
			switch key {
			case "show_notifications":
				cfg.ShowNotifications = b
			case "minimize_to_tray":
				cfg.MinimizeToTray = b
			default:
				cfg.StartMinimized = b
			}
		})
	case "keyboard_shortcuts.cancel", "keyboard_shortcuts.switch_tab", "keyboard_shortcuts.toggle_theme":
		if value == "" {
			return fmt.Errorf("подпись для %s не может быть пустой", key)
		}
		return m.Update(func(cfg *Config) {
			switch key {
			case "keyboard_shortcuts.cancel":
				cfg.KeyboardShortcuts.Cancel = value
			case "keyboard_shortcuts.switch_tab":
				cfg.KeyboardShortcuts.SwitchTab = value
			default:
				cfg.KeyboardShortcuts.ToggleTheme = value
			}
		})
	}
	return fmt.Errorf("%w: %s", ErrUnknownKey, key)
}
