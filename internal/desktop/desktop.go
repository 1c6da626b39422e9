// Package desktop 提供虚拟桌面导航：查询当前桌面序号、名称，以及左右切换。
//
// Windows 下通过未公开的 IVirtualDesktopManagerInternal COM 接口实现，
// 接口布局随系统版本变化，因此按 build 号在启动时选定一个绑定。
package desktop

import (
	"errors"

	"github.com/go-ole/go-ole"
)

var (
	// ErrBindingInit 启动时绑定桌面服务失败，进程无法继续
	ErrBindingInit = errors.New("virtual desktop binding unavailable")
	// ErrUnsupported 当前平台不支持虚拟桌面接口
	ErrUnsupported = errors.New("virtual desktops are not supported on this platform")
	// ErrDesktopNotFound 桌面不在当前桌面列表中
	ErrDesktopNotFound = errors.New("desktop not found in desktop list")
)

// Ordinal 桌面在系统有序列表中的位置（从 0 开始），不是身份标识
type Ordinal int

// Direction 相邻桌面方向，取值即 shell 接口要求的原始值
type Direction int

const (
	Left  Direction = 3
	Right Direction = 4
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Desktop 某次会话中拿到的桌面句柄，由会话负责释放
type Desktop interface {
	// ID 返回桌面 GUID，重命名和重排后保持不变
	ID() (ole.GUID, error)
}

// Session 一次到桌面服务的连接，只能在创建它的线程上使用
type Session interface {
	Count() (int, error)
	Current() (Desktop, error)
	Ordinal(d Desktop) (Ordinal, error)
	// Adjacent 返回指定方向的相邻桌面，到边界时返回 nil, nil
	Adjacent(d Desktop, dir Direction) (Desktop, error)
	Switch(d Desktop) error
	// Name 返回用户设置的名称，未设置时返回空字符串
	Name(d Desktop) (string, error)
	Close() error
}

// Binding 某一系统版本下的桌面服务绑定
type Binding interface {
	Tier() Tier
	Connect() (Session, error)
}
