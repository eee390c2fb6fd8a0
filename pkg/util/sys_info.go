package util

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// GetOSPrettyName gets a readable OS name and version
// GetOSPrettyName 获取可读的操作系统名称及版本
func GetOSPrettyName() string {
	info, err := host.Info()
	if err != nil {
		return runtime.GOOS
	}
	if info.PlatformVersion != "" {
		return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}
	return info.Platform
}

// GetRuntimeSummary 获取运行环境摘要，用于 version / status 输出
func GetRuntimeSummary() map[string]string {
	summary := map[string]string{
		"go":   runtime.Version(),
		"os":   GetOSPrettyName(),
		"arch": runtime.GOARCH,
	}

	if info, err := host.Info(); err == nil {
		summary["hostname"] = info.Hostname
		summary["uptime"] = (time.Duration(info.Uptime) * time.Second).String()
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		summary["memory"] = fmt.Sprintf("%.1f%% of %d MB", vm.UsedPercent, vm.Total/1024/1024)
	}
	return summary
}
