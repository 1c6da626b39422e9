//go:build windows

package desktop

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

var (
	clsidImmersiveShell                = ole.NewGUID("{C2F03A33-21F5-47FA-B4BB-156362A2F239}")
	clsidVirtualDesktopManagerInternal = ole.NewGUID("{C5E0CDCA-7B6E-41B2-9FC4-D93975CC467B}")
	iidServiceProvider                 = ole.NewGUID("{6D5140C1-7436-11CE-8034-00AA006009FA}")
	iidObjectArray                     = ole.NewGUID("{92CA9DCD-5622-4BBA-A805-5E9F541BD8C9}")
)

// 通用 vtable 槽位，前三个是 IUnknown
const (
	slotServiceProviderQueryService = 3

	slotObjectArrayGetCount = 3
	slotObjectArrayGetAt    = 4

	slotDesktopGetID = 4
)

const maxSlots = 64

// invoke 按 vtable 槽位调用 COM 方法，第一个参数是 this
func invoke(obj *ole.IUnknown, slot int, args ...uintptr) error {
	if obj == nil {
		return fmt.Errorf("invoke slot %d on nil interface", slot)
	}
	table := (*[maxSlots]uintptr)(unsafe.Pointer(obj.RawVTable))
	callArgs := make([]uintptr, 0, len(args)+1)
	callArgs = append(callArgs, uintptr(unsafe.Pointer(obj)))
	callArgs = append(callArgs, args...)
	hr, _, _ := syscall.SyscallN(table[slot], callArgs...)
	if int32(hr) < 0 {
		return ole.NewError(hr)
	}
	return nil
}

// comDesktop 一个 IVirtualDesktop 指针
type comDesktop struct {
	unk *ole.IUnknown
}

// ID 调用 IVirtualDesktop::GetId，两个版本都在槽位 4
func (d *comDesktop) ID() (ole.GUID, error) {
	var id ole.GUID
	if err := invoke(d.unk, slotDesktopGetID, uintptr(unsafe.Pointer(&id))); err != nil {
		return ole.GUID{}, fmt.Errorf("IVirtualDesktop::GetId: %w", err)
	}
	return id, nil
}

func (d *comDesktop) sameHandle(other Desktop) bool {
	o, ok := other.(*comDesktop)
	return ok && o.unk == d.unk
}

// comSession 两个版本共用的会话状态：服务指针和需要释放的对象
type comSession struct {
	manager *ole.IUnknown
	owned   []*ole.IUnknown
}

// connect 创建 ImmersiveShell 并查询 IVirtualDesktopManagerInternal
func connect(iidManager *ole.GUID) (*comSession, error) {
	shell, err := ole.CreateInstance(clsidImmersiveShell, iidServiceProvider)
	if err != nil {
		return nil, fmt.Errorf("create ImmersiveShell: %w", err)
	}
	defer shell.Release()

	var manager *ole.IUnknown
	err = invoke(shell, slotServiceProviderQueryService,
		uintptr(unsafe.Pointer(clsidVirtualDesktopManagerInternal)),
		uintptr(unsafe.Pointer(iidManager)),
		uintptr(unsafe.Pointer(&manager)),
	)
	if err != nil {
		return nil, fmt.Errorf("query IVirtualDesktopManagerInternal %s: %w", iidManager, err)
	}
	if manager == nil {
		return nil, fmt.Errorf("query IVirtualDesktopManagerInternal %s: nil interface", iidManager)
	}
	return &comSession{manager: manager}, nil
}

// own 记录需要在会话结束时释放的对象
func (s *comSession) own(unk *ole.IUnknown) *comDesktop {
	s.owned = append(s.owned, unk)
	return &comDesktop{unk: unk}
}

// desktops 展开 IObjectArray 为桌面列表
func (s *comSession) desktops(array *ole.IUnknown, iidDesktop *ole.GUID) ([]Desktop, error) {
	defer array.Release()

	var count uint32
	if err := invoke(array, slotObjectArrayGetCount, uintptr(unsafe.Pointer(&count))); err != nil {
		return nil, fmt.Errorf("IObjectArray::GetCount: %w", err)
	}
	list := make([]Desktop, 0, count)
	for i := uint32(0); i < count; i++ {
		var unk *ole.IUnknown
		err := invoke(array, slotObjectArrayGetAt,
			uintptr(i),
			uintptr(unsafe.Pointer(iidDesktop)),
			uintptr(unsafe.Pointer(&unk)),
		)
		if err != nil {
			return nil, fmt.Errorf("IObjectArray::GetAt(%d): %w", i, err)
		}
		list = append(list, s.own(unk))
	}
	return list, nil
}

func asCOM(d Desktop) (*comDesktop, error) {
	c, ok := d.(*comDesktop)
	if !ok || c == nil || c.unk == nil {
		return nil, fmt.Errorf("invalid desktop handle %T", d)
	}
	return c, nil
}

// Close 释放会话持有的全部 COM 对象
func (s *comSession) Close() error {
	for i := len(s.owned) - 1; i >= 0; i-- {
		if s.owned[i] != nil {
			s.owned[i].Release()
		}
	}
	s.owned = nil
	if s.manager != nil {
		s.manager.Release()
		s.manager = nil
	}
	return nil
}
