package desktop

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/go-ole/go-ole"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("rpc hiccup")

type fakeDesktop struct {
	id ole.GUID
}

func (d *fakeDesktop) ID() (ole.GUID, error) { return d.id, nil }

// fakeShell 模拟系统维护的桌面列表
type fakeShell struct {
	mu       sync.Mutex
	desktops []*fakeDesktop
	names    map[ole.GUID]string
	current  int
	failNext error
	switches int
	sessions int
	closed   int
}

func newFakeShell(n, current int) *fakeShell {
	s := &fakeShell{names: map[ole.GUID]string{}, current: current}
	for i := 0; i < n; i++ {
		s.desktops = append(s.desktops, &fakeDesktop{id: guid(i)})
	}
	return s
}

func guid(i int) ole.GUID {
	return *ole.NewGUID(fmt.Sprintf("{%08X-0000-0000-0000-000000000000}", i+1))
}

func (f *fakeShell) Tier() Tier { return Modern }

func (f *fakeShell) Connect() (Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.takeFailure(); err != nil {
		return nil, err
	}
	f.sessions++
	return &fakeSession{shell: f}, nil
}

func (f *fakeShell) takeFailure() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeShell) fail(err error) {
	f.mu.Lock()
	f.failNext = err
	f.mu.Unlock()
}

type fakeSession struct {
	shell *fakeShell
}

func (s *fakeSession) Count() (int, error) {
	return len(s.shell.desktops), nil
}

func (s *fakeSession) Current() (Desktop, error) {
	return s.shell.desktops[s.shell.current], nil
}

func (s *fakeSession) Ordinal(d Desktop) (Ordinal, error) {
	for i, candidate := range s.shell.desktops {
		if candidate == d {
			return Ordinal(i), nil
		}
	}
	return 0, ErrDesktopNotFound
}

func (s *fakeSession) Adjacent(d Desktop, dir Direction) (Desktop, error) {
	ord, err := s.Ordinal(d)
	if err != nil {
		return nil, err
	}
	next := int(ord) + 1
	if dir == Left {
		next = int(ord) - 1
	}
	if next < 0 || next >= len(s.shell.desktops) {
		return nil, nil
	}
	return s.shell.desktops[next], nil
}

func (s *fakeSession) Switch(d Desktop) error {
	ord, err := s.Ordinal(d)
	if err != nil {
		return err
	}
	s.shell.current = int(ord)
	s.shell.switches++
	return nil
}

func (s *fakeSession) Name(d Desktop) (string, error) {
	id, _ := d.ID()
	return s.shell.names[id], nil
}

func (s *fakeSession) Close() error {
	s.shell.closed++
	return nil
}

type countingExecutor struct {
	calls int
}

func (e *countingExecutor) Do(fn func() error) error {
	e.calls++
	return fn()
}

func TestCurrentWithinRange(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for cur := 0; cur < n; cur++ {
			nav := NewNavigator(newFakeShell(n, cur), nil)
			got := nav.Current()
			assert.GreaterOrEqual(t, int(got), 0)
			assert.Less(t, int(got), n)
			assert.Equal(t, Ordinal(cur), got)
		}
	}
}

func TestCurrentIsStableWithoutChanges(t *testing.T) {
	nav := NewNavigator(newFakeShell(4, 2), nil)
	first := nav.Current()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, nav.Current())
	}
}

func TestCurrentReturnsLastKnownOnFailure(t *testing.T) {
	shell := newFakeShell(3, 2)
	nav := NewNavigator(shell, nil)
	require.Equal(t, Ordinal(2), nav.Current())

	shell.fail(errTransient)
	assert.Equal(t, Ordinal(2), nav.Current())
	assert.Equal(t, Ordinal(2), nav.Current())
}

func TestSwitchScenario(t *testing.T) {
	// A, B, C，当前 B
	shell := newFakeShell(3, 1)
	nav := NewNavigator(shell, nil)
	require.Equal(t, Ordinal(1), nav.Current())

	nav.SwitchForward()
	assert.Equal(t, Ordinal(2), nav.Current())

	nav.SwitchForward()
	assert.Equal(t, Ordinal(2), nav.Current())
	assert.Equal(t, 1, shell.switches)
}

func TestSwitchBackwardAtFirstIsNoop(t *testing.T) {
	shell := newFakeShell(3, 0)
	nav := NewNavigator(shell, nil)

	nav.SwitchBackward()
	assert.Equal(t, Ordinal(0), nav.Current())
	assert.Zero(t, shell.switches)

	nav.SwitchForward()
	nav.SwitchBackward()
	assert.Equal(t, Ordinal(0), nav.Current())
	assert.Equal(t, 2, shell.switches)
}

func TestSwitchFailureIsSwallowed(t *testing.T) {
	shell := newFakeShell(2, 0)
	nav := NewNavigator(shell, nil)

	shell.fail(errTransient)
	assert.NotPanics(t, nav.SwitchForward)
	assert.Equal(t, Ordinal(0), nav.Current())
}

func TestCurrentDisplayName(t *testing.T) {
	shell := newFakeShell(3, 0)
	shell.names[guid(1)] = "Work"
	nav := NewNavigator(shell, nil)

	assert.Equal(t, "Desktop 1", nav.CurrentDisplayName())

	nav.SwitchForward()
	assert.Equal(t, "Work", nav.CurrentDisplayName())

	nav.SwitchForward()
	assert.Equal(t, "Desktop 3", nav.CurrentDisplayName())

	shell.fail(errTransient)
	assert.Equal(t, "Desktop 3", nav.CurrentDisplayName())
}

func TestSessionsAreClosed(t *testing.T) {
	shell := newFakeShell(3, 1)
	exec := &countingExecutor{}
	nav := NewNavigator(shell, exec)

	nav.Current()
	nav.CurrentDisplayName()
	nav.SwitchForward()
	nav.SwitchBackward()

	assert.Equal(t, 4, exec.calls)
	assert.Equal(t, shell.sessions, shell.closed)
	assert.Equal(t, Modern, nav.Tier())
}

func TestOrdinalFollowsListMutation(t *testing.T) {
	shell := newFakeShell(3, 2)
	nav := NewNavigator(shell, nil)
	require.Equal(t, Ordinal(2), nav.Current())

	// 另一个进程删掉了第一个桌面
	shell.desktops = shell.desktops[1:]
	shell.current = 1
	assert.Equal(t, Ordinal(1), nav.Current())
	assert.Equal(t, "Desktop 2", nav.CurrentDisplayName())
}

func TestInlineExecutorRecoversPanic(t *testing.T) {
	err := InlineExecutor{}.Do(func() error { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
