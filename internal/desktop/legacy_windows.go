//go:build windows

package desktop

import (
	"fmt"
	"unsafe"

	"github.com/go-ole/go-ole"
)

// Windows 10 布局
var (
	iidLegacyManagerInternal = ole.NewGUID("{F31574D6-B682-4CDC-BD56-1827860ABEC6}")
	iidLegacyDesktop         = ole.NewGUID("{FF72FFDD-BE7E-43FC-9C03-AD81681E88E4}")
)

// IVirtualDesktopManagerInternal (Windows 10) 槽位，没有 HWND 参数
const (
	legacyGetCount           = 3
	legacyGetCurrentDesktop  = 6
	legacyGetDesktops        = 7
	legacyGetAdjacentDesktop = 8
	legacySwitchDesktop      = 9
)

type legacyBinding struct{}

func (legacyBinding) Tier() Tier { return Legacy }

func (legacyBinding) Connect() (Session, error) {
	s, err := connect(iidLegacyManagerInternal)
	if err != nil {
		return nil, err
	}
	return &legacySession{comSession: s}, nil
}

type legacySession struct {
	*comSession
}

func (s *legacySession) Count() (int, error) {
	var count int32
	if err := invoke(s.manager, legacyGetCount, uintptr(unsafe.Pointer(&count))); err != nil {
		return 0, fmt.Errorf("GetCount: %w", err)
	}
	return int(count), nil
}

func (s *legacySession) Current() (Desktop, error) {
	var unk *ole.IUnknown
	if err := invoke(s.manager, legacyGetCurrentDesktop, uintptr(unsafe.Pointer(&unk))); err != nil {
		return nil, fmt.Errorf("GetCurrentDesktop: %w", err)
	}
	return s.own(unk), nil
}

// Ordinal 遍历桌面列表按句柄匹配
func (s *legacySession) Ordinal(d Desktop) (Ordinal, error) {
	list, err := s.list()
	if err != nil {
		return 0, err
	}
	return locate(list, d)
}

func (s *legacySession) list() ([]Desktop, error) {
	var array *ole.IUnknown
	if err := invoke(s.manager, legacyGetDesktops, uintptr(unsafe.Pointer(&array))); err != nil {
		return nil, fmt.Errorf("GetDesktops: %w", err)
	}
	return s.desktops(array, iidLegacyDesktop)
}

// Adjacent 边界处接口返回失败 HRESULT，视为没有相邻桌面
func (s *legacySession) Adjacent(d Desktop, dir Direction) (Desktop, error) {
	from, err := asCOM(d)
	if err != nil {
		return nil, err
	}
	var unk *ole.IUnknown
	err = invoke(s.manager, legacyGetAdjacentDesktop,
		uintptr(unsafe.Pointer(from.unk)),
		uintptr(dir),
		uintptr(unsafe.Pointer(&unk)),
	)
	if err != nil || unk == nil {
		return nil, nil
	}
	return s.own(unk), nil
}

func (s *legacySession) Switch(d Desktop) error {
	to, err := asCOM(d)
	if err != nil {
		return err
	}
	if err := invoke(s.manager, legacySwitchDesktop, uintptr(unsafe.Pointer(to.unk))); err != nil {
		return fmt.Errorf("SwitchDesktop: %w", err)
	}
	return nil
}

func (s *legacySession) Name(d Desktop) (string, error) {
	id, err := d.ID()
	if err != nil {
		return "", err
	}
	return storedName(id)
}
