//go:build windows

package desktop

import (
	"errors"
	"fmt"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

const (
	virtualDesktopsKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Explorer\VirtualDesktops`
	desktopIDsValue    = "VirtualDesktopIDs"
)

// storedName 读取 Desktops\{GUID} 下的 Name，不存在时返回空字符串
func storedName(id ole.GUID) (string, error) {
	path := virtualDesktopsKey + `\Desktops\` + id.String()
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer k.Close()

	name, _, err := k.GetStringValue("Name")
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read desktop name: %w", err)
	}
	return name, nil
}

// storedOrder 读取按用户持久化的桌面顺序列表
func storedOrder() ([]ole.GUID, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, virtualDesktopsKey, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", virtualDesktopsKey, err)
	}
	defer k.Close()

	data, _, err := k.GetBinaryValue(desktopIDsValue)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", desktopIDsValue, err)
	}
	return ParseDesktopIDs(data), nil
}
