//go:build windows

package regwatch

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// notifyFilter 名称和值的变化；THREAD_AGNOSTIC 使通知不随登记线程退出而失效 (Windows 8+)
const notifyFilter = windows.REG_NOTIFY_CHANGE_NAME |
	windows.REG_NOTIFY_CHANGE_LAST_SET |
	windows.REG_NOTIFY_THREAD_AGNOSTIC

var hiveKeys = map[Hive]registry.Key{
	CurrentUser:   registry.CURRENT_USER,
	LocalMachine:  registry.LOCAL_MACHINE,
	ClassesRoot:   registry.CLASSES_ROOT,
	Users:         registry.USERS,
	CurrentConfig: registry.CURRENT_CONFIG,
}

// keySource 基于 RegNotifyChangeKeyValue 的事件等待
type keySource struct {
	key     registry.Key
	changed windows.Handle
	stop    windows.Handle
}

func openKey(path string) (Source, error) {
	hive, sub, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	key, err := registry.OpenKey(hiveKeys[hive], sub, registry.NOTIFY|registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("open key: %w", err)
	}

	changed, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		key.Close()
		return nil, fmt.Errorf("create change event: %w", err)
	}
	// 手动复位，打断后一直保持有信号
	stop, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		windows.CloseHandle(changed)
		key.Close()
		return nil, fmt.Errorf("create stop event: %w", err)
	}

	return &keySource{key: key, changed: changed, stop: stop}, nil
}

func (s *keySource) Arm() error {
	err := windows.RegNotifyChangeKeyValue(
		windows.Handle(s.key),
		false,
		notifyFilter,
		s.changed,
		true,
	)
	if err != nil {
		return fmt.Errorf("RegNotifyChangeKeyValue: %w", err)
	}
	return nil
}

func (s *keySource) Wait() (bool, error) {
	event, err := windows.WaitForMultipleObjects([]windows.Handle{s.changed, s.stop}, false, windows.INFINITE)
	if err != nil {
		return false, fmt.Errorf("WaitForMultipleObjects: %w", err)
	}
	switch event {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case windows.WAIT_OBJECT_0 + 1:
		return false, nil
	}
	return false, fmt.Errorf("unexpected wait result 0x%X", event)
}

func (s *keySource) Interrupt() {
	windows.SetEvent(s.stop)
}

func (s *keySource) Close() error {
	return errors.Join(
		s.key.Close(),
		windows.CloseHandle(s.changed),
		windows.CloseHandle(s.stop),
	)
}
