//go:build !windows

package theme

// Current 非 Windows 平台固定为深色
func Current() Theme {
	return Dark
}
