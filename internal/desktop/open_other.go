//go:build !windows

package desktop

// OSBuild 非 Windows 平台返回 0
func OSBuild() uint32 {
	return 0
}

// Open 非 Windows 平台没有虚拟桌面接口
func Open() (*Navigator, error) {
	return nil, ErrUnsupported
}
