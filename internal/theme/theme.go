// Package theme 读取系统的浅色/深色外观设置
package theme

import "image/color"

// RegistryPath 主题设置所在的注册表键，供变更监听使用
const RegistryPath = `HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`

// Theme 系统外观
type Theme int

const (
	Dark Theme = iota
	Light
)

func (t Theme) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// Foreground 任务栏上绘制图标用的前景色
func (t Theme) Foreground() color.RGBA {
	if t == Light {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
}

// FromLightFlag 把 SystemUsesLightTheme 的值转换为 Theme
func FromLightFlag(v uint64) Theme {
	if v == 1 {
		return Light
	}
	return Dark
}
