package platform

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func TestShutdownArgs(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		op      Operation
		seconds int
		want    []string
	}{
		{"windows выключение", Windows, PowerOff, 1800, []string{"shutdown", "/s", "/t", "1800"}},
		{"windows перезагрузка", Windows, Reboot, 45, []string{"shutdown", "/r", "/t", "45"}},
		{"linux выключение", Linux, PowerOff, 1800, []string{"shutdown", "-h", "+30"}},
		{"linux 90 секунд", Linux, PowerOff, 90, []string{"shutdown", "-h", "+1"}},
		{"linux меньше минуты", Linux, Reboot, 59, []string{"shutdown", "-r", "+0"}},
		{"darwin перезагрузка", Darwin, Reboot, 7260, []string{"shutdown", "-r", "+121"}},
		{"отрицательная задержка", Windows, PowerOff, -5, []string{"shutdown", "/s", "/t", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ShutdownArgs(tt.family, tt.op, tt.seconds)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ShutdownArgs = %v, ожидалось %v", got, tt.want)
			}
		})
	}
}

// TestUnixDelayTruncates задержка в минутах всегда равна целочисленному делению
func TestUnixDelayTruncates(t *testing.T) {
	for s := 0; s <= 3*3600; s += 7 {
		got, err := ShutdownArgs(Linux, PowerOff, s)
		if err != nil {
			t.Fatal(err)
		}
		want := "+" + strconv.Itoa(s/60)
		if got[2] != want {
			t.Fatalf("%d секунд: %s, ожидалось %s", s, got[2], want)
		}
	}
}

func TestCancelArgs(t *testing.T) {
	if got, _ := CancelArgs(Windows); !reflect.DeepEqual(got, []string{"shutdown", "/a"}) {
		t.Errorf("windows: %v", got)
	}
	for _, f := range []Family{Linux, Darwin} {
		if got, _ := CancelArgs(f); !reflect.DeepEqual(got, []string{"shutdown", "-c"}) {
			t.Errorf("%s: %v", f, got)
		}
	}
}

func TestUnsupportedFamily(t *testing.T) {
	f := FamilyFromGOOS("plan9")
	if f.Supported() {
		t.Fatal("plan9 не должна поддерживаться")
	}
	if _, err := ShutdownArgs(f, PowerOff, 60); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ShutdownArgs: %v", err)
	}
	if _, err := CancelArgs(f); !errors.Is(err, ErrUnsupported) {
		t.Errorf("CancelArgs: %v", err)
	}
}

func TestFamilyFromGOOS(t *testing.T) {
	for goos, want := range map[string]Family{
		"windows": Windows,
		"linux":   Linux,
		"darwin":  Darwin,
		"freebsd": Unsupported,
	} {
		if got := FamilyFromGOOS(goos); got != want {
			t.Errorf("FamilyFromGOOS(%s) = %q, ожидалось %q", goos, got, want)
		}
	}
}
