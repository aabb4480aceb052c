package platform

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/host"
)

// Describe возвращает краткое описание системы для стартовой записи в лог.
// При ошибке gopsutil возвращается только семейство.
func Describe(f Family) string {
	info, err := host.Info()
	if err != nil || info == nil {
		return fmt.Sprintf("os=%s", f)
	}
	return fmt.Sprintf("os=%s platform=%s %s kernel=%s arch=%s host=%s",
		f, info.Platform, info.PlatformVersion, info.KernelVersion, info.KernelArch, info.Hostname)
}
