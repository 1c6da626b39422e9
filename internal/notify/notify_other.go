//go:build !windows

package notify

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
	"github.com/rs/zerolog/log"
)

// DesktopNotifier 其他平台的桌面通知
type DesktopNotifier struct {
	appID string
}

// NewNotifier 创建通知器
func NewNotifier(appID string) Notifier {
	return &DesktopNotifier{appID: appID}
}

// Show 显示通知（异步），无图形环境时直接忽略
func (n *DesktopNotifier) Show(title, message string) error {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return nil
	}
	go func() {
		if err := beeep.Notify(title, message, ""); err != nil {
			log.Debug().Err(err).Str("app", n.appID).Msg("发送通知失败")
		}
	}()
	return nil
}
