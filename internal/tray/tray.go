package tray

import (
	"fmt"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog/log"

	"vdindicator/internal/autorun"
	"vdindicator/internal/config"
	"vdindicator/internal/desktop"
	"vdindicator/internal/icon"
	"vdindicator/internal/notify"
	"vdindicator/internal/regwatch"
	"vdindicator/internal/theme"
)

// Navigator 托盘用到的桌面导航操作
type Navigator interface {
	Current() desktop.Ordinal
	CurrentDisplayName() string
	SwitchForward()
	SwitchBackward()
}

// Tray 系统托盘指示器
type Tray struct {
	nav      Navigator
	cfg      *config.Config
	notifier notify.Notifier
	autorun  *autorun.Manager
	watcher  *regwatch.Watcher

	onEditHotkeys func()
	onQuit        func()
	onFatal       func(error)

	mu    sync.Mutex
	theme theme.Theme
	last  desktop.Ordinal
	label string
	quit  chan struct{}
	once  sync.Once
}

// NewTray 创建系统托盘
func NewTray(nav Navigator, cfg *config.Config) *Tray {
	return &Tray{
		nav:   nav,
		cfg:   cfg,
		theme: theme.Current(),
		last:  -1,
		label: icon.Label(1),
		quit:  make(chan struct{}),
	}
}

// SetNotifier 设置桌面名称通知器
func (t *Tray) SetNotifier(n notify.Notifier) {
	t.notifier = n
}

// SetAutorun 设置开机启动管理器，为 nil 时不显示菜单项
func (t *Tray) SetAutorun(m *autorun.Manager) {
	t.autorun = m
}

// SetThemeWatcher 设置主题键监听器
func (t *Tray) SetThemeWatcher(w *regwatch.Watcher) {
	t.watcher = w
}

// SetOnEditHotkeys 设置"修改快捷键"回调，为 nil 时不显示菜单项
func (t *Tray) SetOnEditHotkeys(fn func()) {
	t.onEditHotkeys = fn
}

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) {
	t.onQuit = fn
}

// SetOnFatal 设置致命错误回调，托盘随后退出
func (t *Tray) SetOnFatal(fn func(error)) {
	t.onFatal = fn
}

// Run 运行系统托盘（阻塞）
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(t.render())
	systray.SetTitle(config.AppName)
	systray.SetTooltip(config.AppName)

	mNext := systray.AddMenuItem("下一个桌面", "切换到右侧桌面")
	mPrev := systray.AddMenuItem("上一个桌面", "切换到左侧桌面")
	systray.AddSeparator()

	mNotify := systray.AddMenuItemCheckbox("切换时显示桌面名称", "切换桌面时弹出通知", t.cfg.Notifications())

	var mAutorun, mHotkeys *systray.MenuItem
	if t.autorun != nil {
		mAutorun = systray.AddMenuItemCheckbox("开机启动", "登录 Windows 时自动运行", t.autorun.Enabled())
	}
	if t.onEditHotkeys != nil {
		mHotkeys = systray.AddMenuItem("设置快捷键...", "修改切换桌面的快捷键")
	}
	systray.AddSeparator()

	mQuit := systray.AddMenuItem("退出", "退出程序")

	t.startThemeWatcher()
	go t.poll()

	go func() {
		for {
			select {
			case <-mNext.ClickedCh:
				t.nav.SwitchForward()
				t.refresh()
			case <-mPrev.ClickedCh:
				t.nav.SwitchBackward()
				t.refresh()
			case <-mNotify.ClickedCh:
				t.toggleNotifications(mNotify)
			case <-clicked(mAutorun):
				t.toggleAutorun(mAutorun)
			case <-clicked(mHotkeys):
				t.onEditHotkeys()
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.once.Do(func() { close(t.quit) })
	if t.watcher != nil {
		t.watcher.Stop()
	}
}

// clicked 未创建的菜单项返回 nil 通道，select 永远不会选中
func clicked(item *systray.MenuItem) <-chan struct{} {
	if item == nil {
		return nil
	}
	return item.ClickedCh
}

// poll 按固定间隔查询当前桌面，桌面切换无法通过系统通知获得
func (t *Tray) poll() {
	defer func() {
		if r := recover(); r != nil {
			t.fatal(fmt.Errorf("indicator crashed: %v", r))
		}
	}()

	ticker := time.NewTicker(t.cfg.PollInterval())
	defer ticker.Stop()

	t.refresh()
	for {
		select {
		case <-t.quit:
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

// refresh 桌面序号变化时重绘图标、更新提示并发送通知
func (t *Tray) refresh() {
	ord := t.nav.Current()

	t.mu.Lock()
	if ord == t.last {
		t.mu.Unlock()
		return
	}
	first := t.last < 0
	t.last = ord
	t.label = icon.Label(int(ord) + 1)
	t.mu.Unlock()

	name := t.nav.CurrentDisplayName()
	systray.SetIcon(t.render())
	systray.SetTooltip(name)
	log.Debug().Int("ordinal", int(ord)).Str("name", name).Msg("当前桌面已变化")

	if !first && t.cfg.Notifications() && t.notifier != nil {
		t.notifier.Show(config.AppName, name)
	}
}

func (t *Tray) render() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return icon.Render(t.label, t.theme.Foreground())
}

func (t *Tray) startThemeWatcher() {
	if t.watcher == nil {
		return
	}
	t.watcher.OnChange(t.onThemeChanged)
	t.watcher.OnError(func(err error) {
		log.Warn().Err(err).Msg("主题监听已停止")
		t.watcher.Stop()
	})
	if err := t.watcher.Start(); err != nil {
		log.Warn().Err(err).Msg("无法监听系统主题")
	}
}

// onThemeChanged 重新读取主题，只有真正变化时才重绘
func (t *Tray) onThemeChanged() {
	current := theme.Current()

	t.mu.Lock()
	if current == t.theme {
		t.mu.Unlock()
		return
	}
	t.theme = current
	t.mu.Unlock()

	log.Info().Stringer("theme", current).Msg("系统主题已变化")
	systray.SetIcon(t.render())
}

func (t *Tray) toggleNotifications(item *systray.MenuItem) {
	enabled := !item.Checked()
	if err := t.cfg.SetNotifications(enabled); err != nil {
		log.Warn().Err(err).Msg("保存配置失败")
	}
	if enabled {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func (t *Tray) toggleAutorun(item *systray.MenuItem) {
	enabled := !item.Checked()
	if err := t.autorun.Set(enabled); err != nil {
		log.Warn().Err(err).Bool("enabled", enabled).Msg("修改开机启动失败")
		return
	}
	if enabled {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func (t *Tray) fatal(err error) {
	log.Error().Err(err).Msg("托盘指示器出现未处理的错误")
	if t.onFatal != nil {
		t.onFatal(err)
	}
	systray.Quit()
}
