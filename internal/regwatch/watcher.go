// Package regwatch 监听注册表键的变化。
//
// 每个 Watcher 占用一个专用线程阻塞在系统的变更通知上，不轮询。
// 通知只说明"发生了变化"，不携带新值，订阅者需要自己重新读取。
package regwatch

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNotIdle 只有新建的 Watcher 才能 Start
var ErrNotIdle = errors.New("watcher already started")

// State 监听器状态
type State int

const (
	Idle State = iota
	Watching
	Stopped
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Source 一个已打开的键及其变更通知
type Source interface {
	// Arm 登记下一次变更通知
	Arm() error
	// Wait 阻塞直到键变化 (true) 或被 Interrupt (false)
	Wait() (bool, error)
	// Interrupt 让正在进行或之后的 Wait 立即返回 false，可在任意 goroutine 调用
	Interrupt()
	// Close 释放键和等待句柄
	Close() error
}

// Opener 打开 path 对应的 Source
type Opener func(path string) (Source, error)

// Option 配置 Watcher
type Option func(*Watcher)

// WithOpener 替换默认的注册表实现
func WithOpener(open Opener) Option {
	return func(w *Watcher) {
		w.open = open
	}
}

// Watcher 注册表键监听器
type Watcher struct {
	path string
	open Opener

	mu          sync.Mutex
	state       State
	src         Source
	done        chan struct{}
	loopThread  int64
	dispatching bool
	onChange    []func()
	onError     []func(error)
}

// New 创建监听器，path 形如 HKEY_CURRENT_USER\Software\...
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path: path,
		open: openKey,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path 返回被监听的键路径
func (w *Watcher) Path() string {
	return w.path
}

// OnChange 订阅变更通知。回调在监听线程上执行，可以在其中调用 Stop。
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// OnError 订阅失败通知，每个 Watcher 至多触发一次。
// 回调执行时状态已是 Failed，在其中调用 Stop 是安全的空操作。
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// State 返回当前状态
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start 打开键、登记通知并启动监听线程
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != Idle {
		return fmt.Errorf("start %s in state %s: %w", w.path, w.state, ErrNotIdle)
	}

	src, err := w.open(w.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}
	if err := src.Arm(); err != nil {
		src.Close()
		return fmt.Errorf("arm %s: %w", w.path, err)
	}

	w.src = src
	w.done = make(chan struct{})
	w.state = Watching
	go w.loop(src, w.done)

	log.Debug().Str("key", w.path).Msg("开始监听注册表")
	return nil
}

// Stop 结束监听并释放资源，可重复调用，可在任意 goroutine 上调用。
// 返回后不会再开始新的通知。在变更回调里调用时不等待监听线程退出，
// 资源由监听线程在返回时释放。
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.state != Watching {
		if w.state == Idle {
			w.state = Stopped
		}
		w.mu.Unlock()
		return
	}
	w.state = Stopped
	src, done := w.src, w.done
	fromLoop := w.onLoopThread()
	w.mu.Unlock()

	src.Interrupt()
	if fromLoop {
		return
	}
	<-done
}

// onLoopThread 调用方是否就是监听线程，需持有 mu
func (w *Watcher) onLoopThread() bool {
	if id := threadID(); id != 0 {
		return id == w.loopThread
	}
	// 无法取得线程号的平台只能按是否正在分发回调判断
	return w.dispatching
}

func (w *Watcher) loop(src Source, done chan struct{}) {
	defer close(done)

	// 通知登记和等待固定在同一个线程上
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	w.mu.Lock()
	w.loopThread = threadID()
	w.mu.Unlock()

	for {
		changed, err := src.Wait()
		if err == nil && changed {
			err = src.Arm()
		}
		if err != nil {
			w.fail(src, err)
			return
		}
		if !changed || !w.emitChange() {
			w.release(src)
			return
		}
	}
}

// emitChange 仍在监听时逐个通知订阅者，返回 false 表示已停止
func (w *Watcher) emitChange() bool {
	w.mu.Lock()
	handlers := append([]func(){}, w.onChange...)
	w.dispatching = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.dispatching = false
		w.mu.Unlock()
	}()

	for _, fn := range handlers {
		if w.State() != Watching {
			return false
		}
		fn()
	}
	return w.State() == Watching
}

// release 关闭 Source，只在监听线程上调用
func (w *Watcher) release(src Source) {
	if err := src.Close(); err != nil {
		log.Debug().Err(err).Str("key", w.path).Msg("释放注册表监听资源失败")
	}
	log.Debug().Str("key", w.path).Msg("停止监听注册表")
}

// fail 转入 Failed，释放资源并通知一次错误
func (w *Watcher) fail(src Source, err error) {
	w.mu.Lock()
	if w.state != Watching {
		// Stop 已经接手，错误只是等待被打断的结果
		w.mu.Unlock()
		w.release(src)
		return
	}
	w.state = Failed
	handlers := append([]func(error){}, w.onError...)
	w.mu.Unlock()

	w.release(src)

	err = fmt.Errorf("watch %s: %w", w.path, err)
	log.Warn().Err(err).Msg("注册表监听失败")
	for _, fn := range handlers {
		fn(err)
	}
}
