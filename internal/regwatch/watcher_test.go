package regwatch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource 每次写入值都发出一次信号，不比较新旧值
type fakeSource struct {
	signals   chan struct{}
	interrupt chan struct{}
	once      sync.Once

	mu      sync.Mutex
	value   string
	deleted bool
	armed   int
	closed  int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		signals:   make(chan struct{}, 16),
		interrupt: make(chan struct{}),
	}
}

func (s *fakeSource) write(v string) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	s.signals <- struct{}{}
}

func (s *fakeSource) delete() {
	s.mu.Lock()
	s.deleted = true
	s.mu.Unlock()
	s.signals <- struct{}{}
}

func (s *fakeSource) Arm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleted {
		return errors.New("key deleted")
	}
	s.armed++
	return nil
}

func (s *fakeSource) Wait() (bool, error) {
	select {
	case <-s.signals:
		return true, nil
	case <-s.interrupt:
		return false, nil
	}
}

func (s *fakeSource) Interrupt() {
	s.once.Do(func() { close(s.interrupt) })
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSource) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func newTestWatcher(src *fakeSource) *Watcher {
	return New(`HKEY_CURRENT_USER\Software\Test`, WithOpener(func(string) (Source, error) {
		return src, nil
	}))
}

func TestChangeOncePerSignal(t *testing.T) {
	src := newFakeSource()
	w := newTestWatcher(src)

	changes := make(chan struct{}, 8)
	w.OnChange(func() { changes <- struct{}{} })
	require.NoError(t, w.Start())
	assert.Equal(t, Watching, w.State())

	src.write("0")
	waitFor(t, changes)
	assertQuiet(t, changes)

	// 同一个值再写一次仍然是一次信号
	src.write("0")
	waitFor(t, changes)
	assertQuiet(t, changes)

	w.Stop()
	assert.Equal(t, Stopped, w.State())
	assert.Equal(t, 1, src.closeCount())
}

func TestStopIsIdempotent(t *testing.T) {
	src := newFakeSource()
	w := newTestWatcher(src)

	var changes atomic.Int32
	w.OnChange(func() { changes.Add(1) })
	require.NoError(t, w.Start())

	w.Stop()
	assert.NotPanics(t, w.Stop)
	assert.Equal(t, Stopped, w.State())
	assert.Equal(t, 1, src.closeCount())

	src.signals <- struct{}{}
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, changes.Load())
}

func TestStopWithoutStart(t *testing.T) {
	w := newTestWatcher(newFakeSource())
	w.Stop()
	assert.Equal(t, Stopped, w.State())
	assert.ErrorIs(t, w.Start(), ErrNotIdle)
}

func TestFailureReportedOnce(t *testing.T) {
	src := newFakeSource()
	w := newTestWatcher(src)

	errs := make(chan error, 4)
	w.OnError(func(err error) {
		errs <- err
		// 失败回调里停止监听是允许的
		w.Stop()
	})
	var changes atomic.Int32
	w.OnChange(func() { changes.Add(1) })
	require.NoError(t, w.Start())

	src.delete()
	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "key deleted")
	case <-time.After(time.Second):
		t.Fatal("no error notification")
	}

	assert.Equal(t, Failed, w.State())
	assert.Zero(t, changes.Load())
	assert.Equal(t, 1, src.closeCount())

	w.Stop()
	assert.Equal(t, Failed, w.State())
	assert.Len(t, errs, 0)
	assert.ErrorIs(t, w.Start(), ErrNotIdle)
}

func TestStartFailsWhenOpenFails(t *testing.T) {
	w := New(`HKCU\Missing`, WithOpener(func(string) (Source, error) {
		return nil, errors.New("not found")
	}))
	require.Error(t, w.Start())
	assert.Equal(t, Idle, w.State())
}

func TestNoNotificationAfterStopReturns(t *testing.T) {
	src := newFakeSource()
	w := newTestWatcher(src)

	var stopped atomic.Bool
	var late atomic.Int32
	w.OnChange(func() {
		if stopped.Load() {
			late.Add(1)
		}
		time.Sleep(5 * time.Millisecond)
	})
	require.NoError(t, w.Start())

	for i := 0; i < 5; i++ {
		src.signals <- struct{}{}
	}
	w.Stop()
	stopped.Store(true)

	time.Sleep(30 * time.Millisecond)
	assert.Zero(t, late.Load())
}

func TestStopFromChangeHandler(t *testing.T) {
	src := newFakeSource()
	w := newTestWatcher(src)

	returned := make(chan struct{})
	var changes atomic.Int32
	w.OnChange(func() {
		changes.Add(1)
		w.Stop()
		close(returned)
	})
	// 同一次通知里排在后面的回调不再执行
	w.OnChange(func() { changes.Add(1) })
	require.NoError(t, w.Start())

	src.write("1")
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Stop inside change handler did not return")
	}

	assert.Equal(t, Stopped, w.State())
	assert.Eventually(t, func() bool { return src.closeCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), changes.Load())

	// 之后的 Stop 仍是空操作
	w.Stop()
	assert.Equal(t, 1, src.closeCount())
}

func TestStopFromOtherGoroutineDuringHandler(t *testing.T) {
	if threadID() == 0 {
		t.Skip("thread id unavailable on this platform")
	}
	src := newFakeSource()
	w := newTestWatcher(src)

	entered := make(chan struct{})
	release := make(chan struct{})
	w.OnChange(func() {
		close(entered)
		<-release
	})
	require.NoError(t, w.Start())

	src.write("1")
	waitFor(t, entered)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	// 回调未结束前 Stop 不应返回
	select {
	case <-stopped:
		t.Fatal("Stop returned while handler still running")
	case <-time.After(30 * time.Millisecond):
	}
	close(release)
	waitFor(t, stopped)
	assert.Equal(t, 1, src.closeCount())
}

func TestSplitPath(t *testing.T) {
	hive, sub, err := SplitPath(`HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`)
	require.NoError(t, err)
	assert.Equal(t, CurrentUser, hive)
	assert.Equal(t, `Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`, sub)

	hive, sub, err = SplitPath(`hklm\SOFTWARE\`)
	require.NoError(t, err)
	assert.Equal(t, LocalMachine, hive)
	assert.Equal(t, "SOFTWARE", sub)

	_, _, err = SplitPath(`HKEY_NOWHERE\x`)
	assert.ErrorIs(t, err, ErrUnknownHive)
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func assertQuiet(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("unexpected extra change notification")
	case <-time.After(30 * time.Millisecond):
	}
}
