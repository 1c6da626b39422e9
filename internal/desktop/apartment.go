package desktop

import "fmt"

// Executor 决定桌面服务调用在哪个线程上执行。
// Do 对调用方是同步的：fn 返回后 Do 才返回。
type Executor interface {
	Do(fn func() error) error
}

// InlineExecutor 直接在调用方 goroutine 上执行
type InlineExecutor struct{}

// Do 执行 fn
func (InlineExecutor) Do(fn func() error) error {
	return call(fn)
}

// call 执行 fn 并把 panic 转成错误
func call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("desktop call panicked: %v", r)
		}
	}()
	return fn()
}
