// Package timeutil содержит функции проверки и преобразования времени,
// введенного пользователем: значения с единицей измерения и время HH:MM.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit единица измерения задержки.
type Unit string

const (
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
)

// NoValue отображается вместо оставшегося времени, когда ничего не запланировано.
const NoValue = "--:--:--"

// MaxDelaySeconds сутки в секундах, верхняя граница любой задержки.
const MaxDelaySeconds = 86400

// clockPattern строгий формат HH:MM в 24-часовой записи
var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// Units возвращает доступные единицы измерения в порядке отображения.
func Units() []Unit {
	return []Unit{Seconds, Minutes, Hours}
}

// ParseUnit разбирает имя единицы измерения.
// Неизвестное имя дает *ValidationError с причиной ReasonUnknownUnit.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case Seconds, Minutes, Hours:
		return u, nil
	}
	return "", &ValidationError{Reason: ReasonUnknownUnit, Unit: u}
}

// MaxValue возвращает предельное значение для единицы измерения (всегда 24 часа).
func MaxValue(unit Unit) int {
	switch unit {
	case Seconds:
		return MaxDelaySeconds
	case Minutes:
		return MaxDelaySeconds / 60
	case Hours:
		return MaxDelaySeconds / 3600
	}
	return 0
}

//================================================================================
// ОШИБКИ ПРОВЕРКИ
//================================================================================

// Причины отказа при проверке ввода
const (
	ReasonEmpty         = "empty"
	ReasonNotInteger    = "not_integer"
	ReasonTooLarge      = "too_large"
	ReasonUnknownUnit   = "unknown_unit"
	ReasonEmptyTime     = "empty_time"
	ReasonInvalidFormat = "invalid_format"
)

// ValidationError ошибка пользовательского ввода. До движка планирования не доходит.
// Reason совпадает с ключом каталога переводов "validation_<reason>".
type ValidationError struct {
	Reason string
	Unit   Unit
	Max    int
}

// Error возвращает сообщение для лога и консоли администратора.
// Пользователю показывается перевод по ключу Key.
func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "значение не может быть пустым"
	case ReasonNotInteger:
		return "значение должно быть целым неотрицательным числом"
	case ReasonTooLarge:
		return fmt.Sprintf("значение больше допустимого: максимум %d %s (24 часа)", e.Max, e.Unit)
	case ReasonUnknownUnit:
		return fmt.Sprintf("неизвестная единица времени: %q", e.Unit)
	case ReasonEmptyTime:
		return "время не может быть пустым"
	case ReasonInvalidFormat:
		return "неверный формат времени, ожидается HH:MM (24 часа)"
	}
	return "некорректный ввод"
}

// Key возвращает ключ каталога переводов для сообщения.
func (e *ValidationError) Key() string {
	return "validation_" + e.Reason
}

//================================================================================
// ПРОВЕРКА И ПРЕОБРАЗОВАНИЕ
//================================================================================

// ValidateTimeInput проверяет текстовое значение задержки для заданной единицы.
// Допускаются только десятичные цифры; значение не должно превышать 24 часа.
//
// @param value - введенный текст.
// @param unit - единица измерения.
// @return int - разобранное значение, если оно корректно.
// @return error - *ValidationError с причиной отказа.
func ValidateTimeInput(value string, unit Unit) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, &ValidationError{Reason: ReasonEmpty, Unit: unit}
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, &ValidationError{Reason: ReasonNotInteger, Unit: unit}
		}
	}

	max := MaxValue(unit)
	if max == 0 {
		return 0, &ValidationError{Reason: ReasonUnknownUnit, Unit: unit}
	}

	n, err := strconv.Atoi(value)
	if err != nil || n > max {
		// переполнение int тоже означает превышение предела
		return 0, &ValidationError{Reason: ReasonTooLarge, Unit: unit, Max: max}
	}
	return n, nil
}

// ValidateTimeFormat проверяет строку времени в формате HH:MM (24h).
func ValidateTimeFormat(s string) error {
	if s == "" {
		return &ValidationError{Reason: ReasonEmptyTime}
	}
	if !clockPattern.MatchString(s) {
		return &ValidationError{Reason: ReasonInvalidFormat}
	}
	return nil
}

// ConvertToSeconds переводит значение в секунды.
// Неизвестная единица измерения - ошибка.
func ConvertToSeconds(value int, unit Unit) (int, error) {
	switch unit {
	case Seconds:
		return value, nil
	case Minutes:
		return value * 60, nil
	case Hours:
		return value * 3600, nil
	}
	return 0, &ValidationError{Reason: ReasonUnknownUnit, Unit: unit}
}

// FormatRemaining форматирует количество секунд как HH:MM:SS с ведущими нулями.
// Отрицательное значение означает "нет значения".
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		return NoValue
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatOptional то же, что FormatRemaining, но с явным признаком наличия значения.
func FormatOptional(seconds int, ok bool) string {
	if !ok {
		return NoValue
	}
	return FormatRemaining(seconds)
}

// ParseClock превращает строку HH:MM в момент времени сегодня.
// Если это время уже прошло относительно now, возвращается тот же момент завтра.
func ParseClock(s string, now time.Time) (time.Time, error) {
	if err := ValidateTimeFormat(s); err != nil {
		return time.Time{}, err
	}
	parts := strings.SplitN(s, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if target.Before(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target, nil
}
