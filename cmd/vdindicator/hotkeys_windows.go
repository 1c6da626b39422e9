//go:build windows

package main

import (
	"sync"

	"github.com/rs/zerolog/log"

	"vdindicator/internal/config"
	"vdindicator/internal/desktop"
	"vdindicator/internal/hotkey"
)

// hotkeys 把全局快捷键绑定到桌面切换
type hotkeys struct {
	nav *desktop.Navigator
	cfg *config.Config

	mu  sync.Mutex
	mgr *hotkey.Manager
}

func newHotkeys(nav *desktop.Navigator, cfg *config.Config) *hotkeys {
	h := &hotkeys{nav: nav, cfg: cfg, mgr: hotkey.NewManager()}
	h.bind()
	return h
}

// bind 注册配置中的快捷键，失败只记录日志（可能被其他程序占用）
func (h *hotkeys) bind() {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 热键回调在任意 goroutine 上触发，导航器内部会转到 STA 线程执行
	register := func(spec string, fn func()) {
		if spec == "" {
			return
		}
		if err := h.mgr.Register(spec, fn); err != nil {
			log.Warn().Err(err).Str("hotkey", spec).Msg("注册热键失败，请检查快捷键是否被其他程序占用")
		}
	}
	register(h.cfg.Hotkeys.Forward, h.nav.SwitchForward)
	register(h.cfg.Hotkeys.Backward, h.nav.SwitchBackward)
}

// edit 依次询问新的快捷键，保存后重新注册
func (h *hotkeys) edit() {
	forward, ok := hotkey.Prompt("下一个桌面", h.cfg.Hotkeys.Forward)
	if !ok {
		return
	}
	backward, ok := hotkey.Prompt("上一个桌面", h.cfg.Hotkeys.Backward)
	if !ok {
		return
	}

	h.cfg.Hotkeys.Forward = forward
	h.cfg.Hotkeys.Backward = backward
	if err := h.cfg.Save(); err != nil {
		log.Warn().Err(err).Msg("保存配置失败")
	}

	h.mgr.Unregister()
	h.bind()
}

func (h *hotkeys) close() {
	h.mgr.Unregister()
}
