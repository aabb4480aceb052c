//go:build windows

package platform

import "golang.org/x/sys/windows"

// RequiresAdmin возвращает true, если токен процесса не повышен.
func RequiresAdmin() bool {
	token := windows.GetCurrentProcessToken()
	return !token.IsElevated()
}
