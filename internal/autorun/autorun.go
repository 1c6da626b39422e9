// Package autorun 管理开机启动项
package autorun

import (
	"os"
	"strings"
)

// RunKey 当前用户开机启动项所在的注册表键
const RunKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// Manager 开机启动管理
type Manager struct {
	name    string
	command string
	store   store
}

// store 启动项存储，Windows 下是注册表 Run 键
type store interface {
	get(name string) (string, bool, error)
	set(name, value string) error
	remove(name string) error
}

// NewManager 为当前可执行文件创建启动项管理器
func NewManager(name string) (*Manager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	return &Manager{name: name, command: Command(exe), store: newStore()}, nil
}

// Command 返回写入启动项的命令行，路径加引号
func Command(exePath string) string {
	return `"` + strings.Trim(exePath, `"`) + `"`
}

// Enabled 启动项存在且指向当前可执行文件
func (m *Manager) Enabled() bool {
	v, ok, err := m.store.get(m.name)
	if err != nil || !ok {
		return false
	}
	return strings.EqualFold(v, m.command)
}

// Enable 添加启动项
func (m *Manager) Enable() error {
	return m.store.set(m.name, m.command)
}

// Disable 删除启动项，不存在时不报错
func (m *Manager) Disable() error {
	return m.store.remove(m.name)
}

// Set 按开关状态添加或删除
func (m *Manager) Set(enabled bool) error {
	if enabled {
		return m.Enable()
	}
	return m.Disable()
}
