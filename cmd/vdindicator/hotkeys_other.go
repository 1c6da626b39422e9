//go:build !windows

package main

import (
	"vdindicator/internal/config"
	"vdindicator/internal/desktop"
)

// hotkeys 其他平台不注册全局快捷键
type hotkeys struct{}

func newHotkeys(*desktop.Navigator, *config.Config) *hotkeys {
	return &hotkeys{}
}

func (h *hotkeys) edit() {}

func (h *hotkeys) close() {}
