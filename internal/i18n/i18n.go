// Package i18n загружает каталоги текстов интерфейса для поддерживаемых языков
// и подставляет именованные параметры вида {name} в шаблоны.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/qzeleza/energy/internal/logger"
)

// DefaultLanguage язык по умолчанию.
const DefaultLanguage = "es"

// Args именованные параметры для подстановки в шаблон.
type Args map[string]interface{}

// placeholder шаблон параметра {name}
var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// supported языки, которые умеет подбирать matcher, в порядке предпочтения
var supported = []language.Tag{language.Spanish, language.English}

// I18n каталог текстов с текущим языком.
type I18n struct {
	mu           sync.RWMutex
	log          *logger.Logger
	dir          string
	defaultLang  string
	current      string
	translations map[string]map[string]string
}

// New создает каталог и загружает переводы из каталога dir.
// Отсутствующие файлы создаются из текстов по умолчанию.
//
// @param dir - каталог с файлами <язык>.json.
// @param defaultLang - язык по умолчанию и начальный текущий язык.
// @param log - логгер.
// @return *I18n - готовый каталог, даже если файлы прочитать не удалось.
func New(dir, defaultLang string, log *logger.Logger) *I18n {
	if _, ok := defaultTranslations[defaultLang]; !ok {
		defaultLang = DefaultLanguage
	}
	i := &I18n{
		log:          log,
		dir:          dir,
		defaultLang:  defaultLang,
		current:      defaultLang,
		translations: map[string]map[string]string{},
	}
	i.load()
	return i
}

// load читает файлы переводов. При любой ошибке все каталоги строятся в памяти.
func (i *I18n) load() {
	loaded := map[string]map[string]string{}
	for _, lang := range sortedKeys(defaultTranslations) {
		file := filepath.Join(i.dir, lang+".json")

		if _, err := os.Stat(file); os.IsNotExist(err) {
			if err := writeDefault(file, lang); err != nil {
				i.log.Error(fmt.Sprintf("Ошибка при загрузке переводов: %v", err))
				i.useDefaults()
				return
			}
		}

		data, err := os.ReadFile(file)
		if err != nil {
			i.log.Error(fmt.Sprintf("Ошибка при загрузке переводов: %v", err))
			i.useDefaults()
			return
		}
		catalog := map[string]string{}
		if err := json.Unmarshal(data, &catalog); err != nil {
			i.log.Error(fmt.Sprintf("Ошибка при загрузке переводов %s: %v", file, err))
			i.useDefaults()
			return
		}
		loaded[lang] = catalog
	}

	i.mu.Lock()
	i.translations = loaded
	i.mu.Unlock()
	i.log.Debug("Переводы загружены")
}

// useDefaults строит каталоги из текстов по умолчанию.
func (i *I18n) useDefaults() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for lang, texts := range defaultTranslations {
		catalog := make(map[string]string, len(texts))
		for k, v := range texts {
			catalog[k] = v
		}
		i.translations[lang] = catalog
	}
}

// writeDefault создает файл перевода из текстов по умолчанию.
func writeDefault(file, lang string) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("не удалось создать каталог переводов: %w", err)
	}
	data, err := json.MarshalIndent(defaultTranslations[lang], "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать %s: %w", file, err)
	}
	return nil
}

// SetLanguage делает язык текущим. Возвращает false, если каталога для него нет.
func (i *I18n) SetLanguage(lang string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.translations[lang]; !ok {
		return false
	}
	i.current = lang
	return true
}

// Language возвращает текущий язык.
func (i *I18n) Language() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.current
}

// Languages возвращает коды доступных языков.
func (i *I18n) Languages() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return sortedKeys(i.translations)
}

// Text возвращает текст для ключа на текущем языке.
// Если каталога текущего языка нет, используется язык по умолчанию;
// если нет ключа, возвращается сам ключ. Параметры {name} подставляются из args;
// при нехватке параметра шаблон возвращается как есть.
func (i *I18n) Text(key string, args Args) string {
	i.mu.RLock()
	catalog, ok := i.translations[i.current]
	if !ok {
		catalog = i.translations[i.defaultLang]
	}
	text, ok := catalog[key]
	i.mu.RUnlock()

	if !ok {
		text = key
	}
	if len(args) == 0 {
		return text
	}

	out, missing := format(text, args)
	if missing != "" {
		i.log.Error(fmt.Sprintf("Ошибка форматирования текста '%s': нет параметра '%s'", key, missing))
		return text
	}
	return out
}

// format подставляет параметры. Возвращает имя первого недостающего параметра.
func format(text string, args Args) (string, string) {
	missing := ""
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := args[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return fmt.Sprint(v)
	})
	return out, missing
}

// ActionName возвращает название действия с заглавной буквы по правилам текущего языка.
func (i *I18n) ActionName(kind string) string {
	return cases.Title(language.Make(i.Language())).String(i.Text("action_"+kind, nil))
}

// ActionVerb возвращает название действия в строчном виде для подстановки в фразу.
func (i *I18n) ActionVerb(kind string) string {
	return cases.Lower(language.Make(i.Language())).String(i.Text("action_"+kind, nil))
}

// UnitLabel возвращает подпись единицы измерения времени.
func (i *I18n) UnitLabel(unit string) string {
	return i.Text(unit, nil)
}

// LanguageName возвращает название языка по его коду или сам код.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// DetectSystemLanguage подбирает поддерживаемый язык по переменным окружения
// LC_ALL, LC_MESSAGES и LANG. Если подходящего нет, возвращает fallback.
func DetectSystemLanguage(fallback string) string {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if lang, ok := MatchLocale(os.Getenv(env)); ok {
			return lang
		}
	}
	return fallback
}

// MatchLocale сопоставляет строку локали вида es_AR.UTF-8 с поддерживаемым языком.
func MatchLocale(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if idx := strings.IndexAny(locale, ".@"); idx >= 0 {
		locale = locale[:idx]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", false
	}
	matcher := language.NewMatcher(supported)
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	base, _ := supported[idx].Base()
	return base.String(), true
}

func sortedKeys(m map[string]map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
