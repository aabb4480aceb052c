// Package platform сопоставляет семейство операционной системы с аргументами
// штатной утилиты shutdown и запускает эти команды отсоединенными процессами.
package platform

import (
	"errors"
	"runtime"
	"strconv"
)

// Family семейство операционной системы с точки зрения утилиты shutdown.
type Family string

const (
	Windows     Family = "windows"
	Linux       Family = "linux"
	Darwin      Family = "darwin"
	Unsupported Family = ""
)

// Operation действие, которое выполняет shutdown.
type Operation int

const (
	PowerOff Operation = iota
	Reboot
)

// ErrUnsupported семейство ОС не поддерживается, команда не формируется.
var ErrUnsupported = errors.New("операционная система не поддерживается")

// FamilyFromGOOS возвращает семейство по значению GOOS.
func FamilyFromGOOS(goos string) Family {
	switch goos {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	}
	return Unsupported
}

// Detect возвращает семейство текущей системы.
func Detect() Family {
	return FamilyFromGOOS(runtime.GOOS)
}

// Supported сообщает, умеет ли приложение работать с этим семейством.
func (f Family) Supported() bool {
	return f == Windows || f == Linux || f == Darwin
}

// String возвращает имя семейства для логов.
func (f Family) String() string {
	if f == Unsupported {
		return "unsupported"
	}
	return string(f)
}

// ShutdownArgs формирует команду выключения или перезагрузки через seconds секунд.
// В Windows задержка передается в секундах, в Unix-системах в целых минутах
// с отбрасыванием остатка: 90 секунд дают "+1".
//
// @param f - семейство ОС.
// @param op - выключение или перезагрузка.
// @param seconds - задержка в секундах, не меньше нуля.
// @return []string - argv, первым элементом идет имя программы.
// @return error - ErrUnsupported для неизвестного семейства.
func ShutdownArgs(f Family, op Operation, seconds int) ([]string, error) {
	if seconds < 0 {
		seconds = 0
	}
	switch f {
	case Windows:
		flag := "/s"
		if op == Reboot {
			flag = "/r"
		}
		return []string{"shutdown", flag, "/t", strconv.Itoa(seconds)}, nil
	case Linux, Darwin:
		flag := "-h"
		if op == Reboot {
			flag = "-r"
		}
		return []string{"shutdown", flag, "+" + strconv.Itoa(seconds/60)}, nil
	}
	return nil, ErrUnsupported
}

// CancelArgs формирует команду отмены запланированного выключения.
func CancelArgs(f Family) ([]string, error) {
	switch f {
	case Windows:
		return []string{"shutdown", "/a"}, nil
	case Linux, Darwin:
		return []string{"shutdown", "-c"}, nil
	}
	return nil, ErrUnsupported
}
