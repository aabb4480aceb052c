//go:build !windows

package platform

import "os"

// RequiresAdmin возвращает true, если процесс запущен без прав root
// и команда shutdown, скорее всего, будет отклонена.
func RequiresAdmin() bool {
	return os.Geteuid() != 0
}
