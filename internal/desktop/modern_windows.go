//go:build windows

package desktop

import (
	"fmt"
	"unsafe"

	"github.com/go-ole/go-ole"
)

// Windows 11 布局
var (
	iidModernManagerInternal = ole.NewGUID("{B2F925B9-5A0F-4D2E-9F4D-2B1507593C10}")
	iidModernDesktop         = ole.NewGUID("{536D3495-B208-4CC9-AE26-DE8111275BF8}")
)

// IVirtualDesktopManagerInternal (Windows 11) 槽位。
// GetCount、GetCurrentDesktop、GetDesktops、SwitchDesktop 第一个参数是 HWND，传 0。
const (
	modernGetCount           = 3
	modernGetCurrentDesktop  = 6
	modernGetDesktops        = 7
	modernGetAdjacentDesktop = 8
	modernSwitchDesktop      = 9
)

const noHWND uintptr = 0

type modernBinding struct{}

func (modernBinding) Tier() Tier { return Modern }

func (modernBinding) Connect() (Session, error) {
	s, err := connect(iidModernManagerInternal)
	if err != nil {
		return nil, err
	}
	return &modernSession{comSession: s}, nil
}

type modernSession struct {
	*comSession
}

func (s *modernSession) Count() (int, error) {
	var count int32
	if err := invoke(s.manager, modernGetCount, noHWND, uintptr(unsafe.Pointer(&count))); err != nil {
		return 0, fmt.Errorf("GetCount: %w", err)
	}
	return int(count), nil
}

func (s *modernSession) Current() (Desktop, error) {
	var unk *ole.IUnknown
	if err := invoke(s.manager, modernGetCurrentDesktop, noHWND, uintptr(unsafe.Pointer(&unk))); err != nil {
		return nil, fmt.Errorf("GetCurrentDesktop: %w", err)
	}
	return s.own(unk), nil
}

// Ordinal 接口没有按索引查询的方法，先用注册表里按用户持久化的顺序列表定位，
// 列表缺失或不含该桌面时再遍历 GetDesktops。
func (s *modernSession) Ordinal(d Desktop) (Ordinal, error) {
	order, err := storedOrder()
	return resolveOrdinal(order, err, d, s.list)
}

func (s *modernSession) list() ([]Desktop, error) {
	var array *ole.IUnknown
	if err := invoke(s.manager, modernGetDesktops, noHWND, uintptr(unsafe.Pointer(&array))); err != nil {
		return nil, fmt.Errorf("GetDesktops: %w", err)
	}
	return s.desktops(array, iidModernDesktop)
}

// Adjacent 边界处接口返回失败 HRESULT，视为没有相邻桌面
func (s *modernSession) Adjacent(d Desktop, dir Direction) (Desktop, error) {
	from, err := asCOM(d)
	if err != nil {
		return nil, err
	}
	var unk *ole.IUnknown
	err = invoke(s.manager, modernGetAdjacentDesktop,
		uintptr(unsafe.Pointer(from.unk)),
		uintptr(dir),
		uintptr(unsafe.Pointer(&unk)),
	)
	if err != nil || unk == nil {
		return nil, nil
	}
	return s.own(unk), nil
}

func (s *modernSession) Switch(d Desktop) error {
	to, err := asCOM(d)
	if err != nil {
		return err
	}
	if err := invoke(s.manager, modernSwitchDesktop, noHWND, uintptr(unsafe.Pointer(to.unk))); err != nil {
		return fmt.Errorf("SwitchDesktop: %w", err)
	}
	return nil
}

func (s *modernSession) Name(d Desktop) (string, error) {
	id, err := d.ID()
	if err != nil {
		return "", err
	}
	return storedName(id)
}
