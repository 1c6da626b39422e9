//go:build windows

package main

import "golang.org/x/sys/windows"

// dpiMode 记录生效的 DPI 感知方式，启动后写入日志
var dpiMode = "unaware"

func init() {
	// DPI 感知必须在任何 Win32 调用之前设置，否则托盘图标在高分屏上会被拉伸
	dpiMode = enableDPIAwareness()
}

func enableDPIAwareness() string {
	user32 := windows.NewLazySystemDLL("user32.dll")

	// Windows 10 1703+
	ctx := user32.NewProc("SetProcessDpiAwarenessContext")
	if ctx.Find() == nil {
		// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = -4
		if r, _, _ := ctx.Call(^uintptr(3)); r != 0 {
			return "per-monitor-v2"
		}
		// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE = -3
		if r, _, _ := ctx.Call(^uintptr(2)); r != 0 {
			return "per-monitor"
		}
	}

	// Windows 8.1+
	shcore := windows.NewLazySystemDLL("shcore.dll")
	awareness := shcore.NewProc("SetProcessDpiAwareness")
	if awareness.Find() == nil {
		if r, _, _ := awareness.Call(2); r == 0 { // PROCESS_PER_MONITOR_DPI_AWARE
			return "per-monitor"
		}
		awareness.Call(1) // PROCESS_SYSTEM_DPI_AWARE
		return "system"
	}

	// Windows Vista+
	if r, _, _ := user32.NewProc("SetProcessDPIAware").Call(); r != 0 {
		return "system"
	}
	return "unaware"
}
