//go:build windows

package desktop

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
)

// sFalse COM 已在本线程初始化
const sFalse = 0x00000001

// ApartmentExecutor 每次调用都新建一个单线程套间 (STA) 线程，
// 在其上同步执行，结束后线程随之销毁。
type ApartmentExecutor struct{}

// NewApartmentExecutor 创建执行器
func NewApartmentExecutor() *ApartmentExecutor {
	return &ApartmentExecutor{}
}

// Do 在新的 STA 线程上执行 fn 并等待其完成
func (e *ApartmentExecutor) Do(fn func() error) error {
	done := make(chan error, 1)
	go func() {
		// 不调用 UnlockOSThread：goroutine 退出时运行时会销毁该线程
		runtime.LockOSThread()

		if err := initApartment(); err != nil {
			done <- err
			return
		}
		defer ole.CoUninitialize()

		done <- call(fn)
	}()
	return <-done
}

// initApartment 以 STA 方式初始化当前线程的 COM
func initApartment() error {
	err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED)
	if err == nil {
		return nil
	}
	var oleErr *ole.OleError
	if errors.As(err, &oleErr) && oleErr.Code() == sFalse {
		return nil
	}
	return fmt.Errorf("initialize STA apartment: %w", err)
}
