//go:build windows

package theme

import (
	"golang.org/x/sys/windows/registry"
)

const personalizeKey = `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

// Current 读取任务栏使用的系统主题，读取失败时按深色处理
func Current() Theme {
	k, err := registry.OpenKey(registry.CURRENT_USER, personalizeKey, registry.QUERY_VALUE)
	if err != nil { // 旧版本系统没有这个键
		return Dark
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue("SystemUsesLightTheme")
	if err != nil {
		return Dark
	}
	return FromLightFlag(v)
}
