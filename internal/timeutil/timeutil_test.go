package timeutil

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestValidateTimeInput(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		unit   Unit
		want   int
		reason string
	}{
		{"минуты в пределах", "30", Minutes, 30, ""},
		{"ноль допустим", "0", Seconds, 0, ""},
		{"ровно сутки в секундах", "86400", Seconds, 86400, ""},
		{"ровно сутки в часах", "24", Hours, 24, ""},
		{"превышение минут", "1500", Minutes, 0, ReasonTooLarge},
		{"превышение секунд", "86401", Seconds, 0, ReasonTooLarge},
		{"превышение часов", "25", Hours, 0, ReasonTooLarge},
		{"переполнение", "999999999999999999999999", Seconds, 0, ReasonTooLarge},
		{"пустая строка", "", Minutes, 0, ReasonEmpty},
		{"пробелы", "   ", Minutes, 0, ReasonEmpty},
		{"отрицательное", "-5", Minutes, 0, ReasonNotInteger},
		{"дробное", "1.5", Hours, 0, ReasonNotInteger},
		{"буквы", "abc", Seconds, 0, ReasonNotInteger},
		{"пробел внутри", " 30", Minutes, 0, ReasonNotInteger},
		{"неизвестная единица", "10", Unit("days"), 0, ReasonUnknownUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTimeInput(tt.value, tt.unit)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("неожиданная ошибка: %v", err)
				}
				if got != tt.want {
					t.Errorf("получено %d, ожидалось %d", got, tt.want)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ожидалась ValidationError, получено %v", err)
			}
			if verr.Reason != tt.reason {
				t.Errorf("причина %q, ожидалась %q", verr.Reason, tt.reason)
			}
		})
	}
}

// TestValidateTimeInputMessageNamesCeiling сообщение должно называть предел 1440
func TestValidateTimeInputMessageNamesCeiling(t *testing.T) {
	_, err := ValidateTimeInput("1500", Minutes)
	if err == nil {
		t.Fatal("ожидалась ошибка")
	}
	if !strings.Contains(err.Error(), "1440") {
		t.Errorf("сообщение не содержит 1440: %q", err.Error())
	}
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Max != 1440 {
		t.Errorf("Max = %d, ожидалось 1440", verr.Max)
	}
}

func TestValidateTimeFormat(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"23:59", true},
		{"00:00", true},
		{"9:05", true},
		{"09:05", true},
		{"19:30", true},
		{"9:5", false},
		{"24:00", false},
		{"23:60", false},
		{"12:3a", false},
		{"1230", false},
		{" 12:30", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidateTimeFormat(tt.in)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateTimeFormat(%q) = %v, ожидалась корректность %v", tt.in, err, tt.valid)
			}
		})
	}
}

func TestConvertToSeconds(t *testing.T) {
	tests := []struct {
		value int
		unit  Unit
		want  int
	}{
		{45, Seconds, 45},
		{30, Minutes, 1800},
		{2, Hours, 7200},
		{0, Hours, 0},
	}
	for _, tt := range tests {
		got, err := ConvertToSeconds(tt.value, tt.unit)
		if err != nil {
			t.Fatalf("ConvertToSeconds(%d, %s): %v", tt.value, tt.unit, err)
		}
		if got != tt.want {
			t.Errorf("ConvertToSeconds(%d, %s) = %d, ожидалось %d", tt.value, tt.unit, got, tt.want)
		}
	}

	if _, err := ConvertToSeconds(1, Unit("weeks")); err == nil {
		t.Error("неизвестная единица должна давать ошибку")
	}
}

// TestCeilingAfterConversion любое значение, прошедшее проверку, дает не больше суток
func TestCeilingAfterConversion(t *testing.T) {
	for _, unit := range Units() {
		max := MaxValue(unit)
		for _, v := range []int{0, 1, max / 2, max, max + 1, max * 2} {
			n, err := ValidateTimeInput(strconv.Itoa(v), unit)
			secs, _ := ConvertToSeconds(v, unit)
			if secs > MaxDelaySeconds && err == nil {
				t.Errorf("%d %s = %d секунд прошло проверку", v, unit, secs)
			}
			if err == nil && n != v {
				t.Errorf("разобрано %d, ожидалось %d", n, v)
			}
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{86399, "23:59:59"},
		{86400, "24:00:00"},
		{-1, NoValue},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.in); got != tt.want {
			t.Errorf("FormatRemaining(%d) = %s, ожидалось %s", tt.in, got, tt.want)
		}
	}
	if got := FormatOptional(10, false); got != NoValue {
		t.Errorf("FormatOptional без значения = %s", got)
	}
}

func TestParseClock(t *testing.T) {
	now := time.Date(2026, 10, 31, 22, 15, 30, 0, time.Local)

	later, err := ParseClock("23:00", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 10, 31, 23, 0, 0, 0, time.Local); !later.Equal(want) {
		t.Errorf("ParseClock(23:00) = %v, ожидалось %v", later, want)
	}

	// прошедшее время переносится на следующий день, в том числе через конец месяца
	earlier, err := ParseClock("07:30", now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2026, 11, 1, 7, 30, 0, 0, time.Local); !earlier.Equal(want) {
		t.Errorf("ParseClock(07:30) = %v, ожидалось %v", earlier, want)
	}

	if _, err := ParseClock("7:3", now); err == nil {
		t.Error("ожидалась ошибка формата")
	}
}

func TestParseUnit(t *testing.T) {
	if u, err := ParseUnit(" Minutes "); err != nil || u != Minutes {
		t.Errorf("ParseUnit = %v, %v", u, err)
	}
	_, err := ParseUnit("days")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Reason != ReasonUnknownUnit || verr.Unit != "days" {
		t.Errorf("ParseUnit(days) = %v, ожидалась ValidationError", err)
	}
}
