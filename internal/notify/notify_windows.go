//go:build windows

package notify

import (
	"github.com/go-toast/toast"
	"github.com/rs/zerolog/log"
)

// WindowsNotifier Windows 通知实现
type WindowsNotifier struct {
	appID string
}

// NewNotifier 创建通知器
func NewNotifier(appID string) Notifier {
	return &WindowsNotifier{
		appID: appID,
	}
}

// Show 显示通知（异步，不阻塞轮询）
func (n *WindowsNotifier) Show(title, message string) error {
	go func() {
		notification := toast.Notification{
			AppID:    n.appID,
			Title:    title,
			Message:  message,
			Duration: toast.Short,
		}
		if err := notification.Push(); err != nil {
			log.Debug().Err(err).Str("title", title).Msg("发送通知失败")
		}
	}()
	return nil
}
