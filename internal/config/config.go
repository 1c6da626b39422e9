package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	AppName = "vdindicator"

	minPollInterval     = 100
	maxPollInterval     = 5000
	defaultPollInterval = 250
)

// Hotkeys 切换桌面的全局快捷键，留空表示不注册
type Hotkeys struct {
	Forward  string `json:"forward"`  // 如 ctrl+alt+right
	Backward string `json:"backward"` // 如 ctrl+alt+left
}

// Log 日志配置
type Log struct {
	Level string `json:"level"` // debug, info, warn, error
	File  bool   `json:"file"`  // 是否写入 exe 同级目录下的日志文件
}

// Config 主配置结构
type Config struct {
	NotificationsEnabled bool    `json:"notificationsEnabled"` // 切换桌面时弹出名称通知
	PollIntervalMs       int     `json:"pollIntervalMs"`       // 查询当前桌面的间隔
	Hotkeys              Hotkeys `json:"hotkeys"`
	Log                  Log     `json:"log"`

	// mu 保护托盘菜单和轮询之间共享的通知开关
	mu   sync.RWMutex
	path string
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		NotificationsEnabled: false,
		PollIntervalMs:       defaultPollInterval,
		Hotkeys: Hotkeys{
			Forward:  "ctrl+alt+right",
			Backward: "ctrl+alt+left",
		},
		Log: Log{
			Level: "info",
			File:  true,
		},
		path: GetConfigPath(),
	}
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	var configDir string

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, AppName, "config.json")
}

// Load 加载默认路径下的配置
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom 从指定路径加载配置，文件不存在时写入并返回默认配置
func LoadFrom(configPath string) (*Config, error) {
	defaults := DefaultConfig()
	defaults.path = configPath

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		_ = defaults.Save()
		return defaults, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return defaults, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return defaults, fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.path = configPath

	// 验证并修正配置
	cfg.Validate()

	return cfg, nil
}

// Path 配置文件路径
func (c *Config) Path() string {
	return c.path
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = defaults.PollIntervalMs
	}
	if c.PollIntervalMs < minPollInterval {
		c.PollIntervalMs = minPollInterval
	}
	if c.PollIntervalMs > maxPollInterval {
		c.PollIntervalMs = maxPollInterval
	}

	c.Hotkeys.Forward = normalizeHotkey(c.Hotkeys.Forward)
	c.Hotkeys.Backward = normalizeHotkey(c.Hotkeys.Backward)

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "trace", "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		c.Log.Level = defaults.Log.Level
	}
}

// PollInterval 查询间隔
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Save 保存配置
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		configPath = GetConfigPath()
	}

	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "    ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Notifications 通知开关，可与 SetNotifications 并发调用
func (c *Config) Notifications() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

// SetNotifications 修改通知开关并保存
func (c *Config) SetNotifications(enabled bool) error {
	c.mu.Lock()
	c.NotificationsEnabled = enabled
	c.mu.Unlock()
	return c.Save()
}

// ParseHotkey 解析 "ctrl+alt+right" 形式的快捷键，返回修饰键和主键
func ParseHotkey(s string) (modifiers []string, key string, err error) {
	parts := splitHotkey(strings.ToLower(s))
	if len(parts) == 0 {
		return nil, "", fmt.Errorf("无效的快捷键格式: %q", s)
	}
	return parts[:len(parts)-1], parts[len(parts)-1], nil
}

// normalizeHotkey 去掉空白并转小写，无法解析时置空（不注册）
func normalizeHotkey(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return ""
	}
	mods, key, err := ParseHotkey(s)
	if err != nil {
		return ""
	}
	validMods := map[string]bool{"ctrl": true, "alt": true, "shift": true, "win": true, "control": true, "super": true}
	for _, mod := range mods {
		if !validMods[mod] {
			return ""
		}
	}
	return strings.Join(append(mods, key), "+")
}

func splitHotkey(s string) []string {
	result := []string{}
	current := ""

	for _, c := range s {
		if c == '+' {
			if current != "" {
				result = append(result, current)
				current = ""
			}
		} else {
			current += string(c)
		}
	}

	if current != "" {
		result = append(result, current)
	}

	return result
}
