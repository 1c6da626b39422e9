//go:build windows

package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.design/x/hotkey"

	"vdindicator/internal/config"
)

// Manager 热键管理器，可同时持有多个热键
type Manager struct {
	mu      sync.Mutex
	entries []*entry
}

type entry struct {
	spec     string
	hk       *hotkey.Hotkey
	callback func()
}

// NewManager 创建热键管理器
func NewManager() *Manager {
	return &Manager{}
}

// parseModifiers 解析修饰键
func parseModifiers(mods []string) []hotkey.Modifier {
	var result []hotkey.Modifier
	for _, mod := range mods {
		switch strings.ToLower(mod) {
		case "ctrl", "control":
			result = append(result, hotkey.ModCtrl)
		case "alt", "option":
			result = append(result, hotkey.ModAlt)
		case "shift":
			result = append(result, hotkey.ModShift)
		case "win", "cmd", "command", "super":
			result = append(result, hotkey.ModWin)
		}
	}
	return result
}

// parseKey 解析主键
func parseKey(key string) (hotkey.Key, error) {
	key = strings.ToUpper(key)

	// 字母键、数字键
	if len(key) == 1 && (key[0] >= 'A' && key[0] <= 'Z' || key[0] >= '0' && key[0] <= '9') {
		return hotkey.Key(key[0]), nil
	}

	// 功能键 F1-F12 (VK_F1 = 0x70)
	var n int
	if _, err := fmt.Sscanf(key, "F%d", &n); err == nil && n >= 1 && n <= 12 {
		return hotkey.Key(0x70 + n - 1), nil
	}

	switch key {
	case "SPACE":
		return hotkey.KeySpace, nil
	case "TAB":
		return hotkey.KeyTab, nil
	case "UP":
		return hotkey.KeyUp, nil
	case "DOWN":
		return hotkey.KeyDown, nil
	case "LEFT":
		return hotkey.KeyLeft, nil
	case "RIGHT":
		return hotkey.KeyRight, nil
	case "PAGEUP", "PGUP":
		return hotkey.Key(0x21), nil // VK_PRIOR
	case "PAGEDOWN", "PGDN":
		return hotkey.Key(0x22), nil // VK_NEXT
	case "HOME":
		return hotkey.Key(0x24), nil
	case "END":
		return hotkey.Key(0x23), nil
	}

	return 0, fmt.Errorf("不支持的主键: %s", key)
}

// Register 注册热键并开始监听，spec 形如 "ctrl+alt+right"。
// 回调在监听 goroutine 上执行。
func (m *Manager) Register(spec string, callback func()) error {
	mods, key, err := config.ParseHotkey(spec)
	if err != nil {
		return err
	}
	if err := ValidateHotkey(mods, key); err != nil {
		return err
	}
	k, err := parseKey(key)
	if err != nil {
		return err
	}

	hk := hotkey.New(parseModifiers(mods), k)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("无法注册热键 %s: %w", spec, err)
	}

	e := &entry{spec: spec, hk: hk, callback: callback}
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.mu.Unlock()

	go e.listen()
	log.Info().Str("hotkey", spec).Msg("热键注册成功")
	return nil
}

// listen 监听热键按下事件
func (e *entry) listen() {
	for range e.hk.Keydown() {
		if e.callback != nil {
			e.callback()
		}
	}
}

// Unregister 注销所有热键
func (m *Manager) Unregister() {
	m.mu.Lock()
	entries := m.entries
	m.entries = nil
	m.mu.Unlock()

	for _, e := range entries {
		if err := e.hk.Unregister(); err != nil {
			log.Debug().Err(err).Str("hotkey", e.spec).Msg("注销热键失败")
		}
	}
}

// ValidateHotkey 验证快捷键是否有效
func ValidateHotkey(mods []string, key string) error {
	if len(mods) == 0 {
		return fmt.Errorf("需要至少一个修饰键 (Ctrl/Alt/Shift/Win)")
	}
	if key == "" {
		return fmt.Errorf("需要一个主键")
	}
	return nil
}
