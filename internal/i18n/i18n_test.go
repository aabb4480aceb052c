package i18n

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/qzeleza/energy/internal/logger"
)

func TestNewCreatesTranslationFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "translations")
	New(dir, "es", logger.Discard())

	for _, lang := range []string{"es", "en"} {
		data, err := os.ReadFile(filepath.Join(dir, lang+".json"))
		if err != nil {
			t.Fatalf("файл %s не создан: %v", lang, err)
		}
		catalog := map[string]string{}
		if err := json.Unmarshal(data, &catalog); err != nil {
			t.Fatalf("файл %s поврежден: %v", lang, err)
		}
		if catalog["app_title"] == "" {
			t.Errorf("в %s нет app_title", lang)
		}
	}
}

func TestTextLookupAndFallback(t *testing.T) {
	i := New(t.TempDir(), "es", logger.Discard())

	if got := i.Text("cancel_button", nil); got != "Cancelar" {
		t.Errorf("es: %s", got)
	}
	if !i.SetLanguage("en") {
		t.Fatal("SetLanguage(en) = false")
	}
	if got := i.Text("cancel_button", nil); got != "Cancel" {
		t.Errorf("en: %s", got)
	}
	if i.SetLanguage("fr") {
		t.Error("SetLanguage(fr) должен вернуть false")
	}
	if i.Language() != "en" {
		t.Errorf("язык изменился на %s", i.Language())
	}
	if got := i.Text("no_such_key", nil); got != "no_such_key" {
		t.Errorf("неизвестный ключ: %s", got)
	}
}

func TestTextFormatting(t *testing.T) {
	i := New(t.TempDir(), "en", logger.Discard())

	got := i.Text("action_scheduled", Args{"action": "Shutdown", "time": "22:30"})
	if got != "Shutdown scheduled for 22:30" {
		t.Errorf("подстановка: %s", got)
	}

	// недостающий параметр оставляет шаблон без изменений
	got = i.Text("action_scheduled", Args{"action": "Shutdown"})
	if got != "{action} scheduled for {time}" {
		t.Errorf("недостающий параметр: %s", got)
	}

	got = i.Text("validation_too_large", Args{"max": 1440, "unit": "minutes"})
	if got != "The maximum value is 1440 minutes (24 hours)" {
		t.Errorf("числовой параметр: %s", got)
	}
}

func TestCorruptFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}
	i := New(dir, "es", logger.Discard())
	i.SetLanguage("en")
	if got := i.Text("schedule_button", nil); got != "Schedule" {
		t.Errorf("ожидались тексты по умолчанию, получено %s", got)
	}
}

func TestCustomTranslationFile(t *testing.T) {
	dir := t.TempDir()
	custom := map[string]string{"cancel_button": "Abortar"}
	data, _ := json.Marshal(custom)
	if err := os.WriteFile(filepath.Join(dir, "es.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
	i := New(dir, "es", logger.Discard())
	if got := i.Text("cancel_button", nil); got != "Abortar" {
		t.Errorf("пользовательский перевод не применен: %s", got)
	}
	if got := i.Text("schedule_button", nil); got != "schedule_button" {
		t.Errorf("ключ, которого нет в файле, должен возвращаться как есть: %s", got)
	}
}

func TestActionNames(t *testing.T) {
	i := New(t.TempDir(), "es", logger.Discard())
	if got := i.ActionName("shutdown"); got != "Apagar" {
		t.Errorf("ActionName(es) = %s", got)
	}
	i.SetLanguage("en")
	if got := i.ActionName("restart"); got != "Restart" {
		t.Errorf("ActionName(en) = %s", got)
	}
	if got := i.ActionVerb("restart"); got != "restart" {
		t.Errorf("ActionVerb(en) = %s", got)
	}
	if got := i.UnitLabel("hours"); got != "Hours" {
		t.Errorf("UnitLabel = %s", got)
	}
}

func TestLanguages(t *testing.T) {
	i := New(t.TempDir(), "xx", logger.Discard())
	if i.Language() != DefaultLanguage {
		t.Errorf("неизвестный язык по умолчанию должен замениться на %s, получено %s", DefaultLanguage, i.Language())
	}
	langs := i.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "es" {
		t.Errorf("Languages() = %v", langs)
	}
	if LanguageName("es") != "Español" || LanguageName("de") != "de" {
		t.Error("LanguageName вернул неожиданное значение")
	}
}

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		locale string
		want   string
		ok     bool
	}{
		{"es_AR.UTF-8", "es", true},
		{"en_US.UTF-8", "en", true},
		{"en_GB", "en", true},
		{"es", "es", true},
		{"C", "", false},
		{"", "", false},
		{"ja_JP.UTF-8", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			got, ok := MatchLocale(tt.locale)
			if ok != tt.ok || got != tt.want {
				t.Errorf("MatchLocale(%q) = %q, %v", tt.locale, got, ok)
			}
		})
	}
}

func TestDetectSystemLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")
	if got := DetectSystemLanguage("es"); got != "en" {
		t.Errorf("DetectSystemLanguage = %s", got)
	}
	t.Setenv("LANG", "C")
	if got := DetectSystemLanguage("es"); got != "es" {
		t.Errorf("DetectSystemLanguage без локали = %s", got)
	}
}
