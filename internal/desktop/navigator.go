package desktop

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"
)

// Navigator 虚拟桌面导航器。
//
// 所有调用都经由 Executor 转到具备单线程套间的线程上同步执行，
// 调用方可以在任意 goroutine 上使用。查询失败时返回上一次的已知值。
type Navigator struct {
	binding Binding
	exec    Executor

	mu       sync.Mutex
	last     Ordinal
	lastName string
}

// NewNavigator 创建导航器
func NewNavigator(binding Binding, exec Executor) *Navigator {
	if exec == nil {
		exec = InlineExecutor{}
	}
	return &Navigator{
		binding:  binding,
		exec:     exec,
		lastName: displayName("", 0),
	}
}

// Tier 返回启动时选定的绑定档位
func (n *Navigator) Tier() Tier {
	return n.binding.Tier()
}

// Current 返回当前桌面序号
func (n *Navigator) Current() Ordinal {
	var ord Ordinal
	err := n.withSession(func(s Session) error {
		var err error
		ord, _, err = currentOrdinal(s)
		return err
	})

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		log.Debug().Err(err).Int("last", int(n.last)).Msg("查询当前桌面失败，使用上次结果")
		return n.last
	}
	n.last = ord
	return ord
}

// CurrentDisplayName 返回当前桌面名称，未命名时为 "Desktop N"
func (n *Navigator) CurrentDisplayName() string {
	var name string
	err := n.withSession(func(s Session) error {
		ord, cur, err := currentOrdinal(s)
		if err != nil {
			return err
		}
		stored, err := s.Name(cur)
		if err != nil {
			return fmt.Errorf("read desktop name: %w", err)
		}
		name = displayName(stored, ord)
		return nil
	})

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		log.Debug().Err(err).Str("last", n.lastName).Msg("查询桌面名称失败，使用上次结果")
		return n.lastName
	}
	n.lastName = name
	return name
}

// SwitchForward 切换到右侧桌面，已在最后一个时什么也不做
func (n *Navigator) SwitchForward() {
	n.switchTo(Right)
}

// SwitchBackward 切换到左侧桌面，已在第一个时什么也不做
func (n *Navigator) SwitchBackward() {
	n.switchTo(Left)
}

func (n *Navigator) switchTo(dir Direction) {
	err := n.withSession(func(s Session) error {
		cur, err := s.Current()
		if err != nil {
			return fmt.Errorf("get current desktop: %w", err)
		}
		adj, err := s.Adjacent(cur, dir)
		if err != nil {
			return fmt.Errorf("get adjacent desktop: %w", err)
		}
		if adj == nil {
			return nil
		}
		if err := s.Switch(adj); err != nil {
			return fmt.Errorf("switch desktop: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Stringer("direction", dir).Msg("切换桌面失败")
	}
}

func (n *Navigator) withSession(fn func(Session) error) error {
	return n.exec.Do(func() error {
		s, err := n.binding.Connect()
		if err != nil {
			return fmt.Errorf("connect %s binding: %w", n.binding.Tier(), err)
		}
		defer func() {
			if err := s.Close(); err != nil {
				log.Debug().Err(err).Msg("关闭桌面会话失败")
			}
		}()
		return fn(s)
	})
}

// currentOrdinal 解析当前桌面并确认序号落在 [0, Count) 内
func currentOrdinal(s Session) (Ordinal, Desktop, error) {
	cur, err := s.Current()
	if err != nil {
		return 0, nil, fmt.Errorf("get current desktop: %w", err)
	}
	ord, err := s.Ordinal(cur)
	if err != nil {
		return 0, nil, fmt.Errorf("resolve ordinal: %w", err)
	}
	count, err := s.Count()
	if err != nil {
		return 0, nil, fmt.Errorf("get desktop count: %w", err)
	}
	if ord < 0 || int(ord) >= count {
		return 0, nil, fmt.Errorf("ordinal %d outside [0, %d): %w", ord, count, ErrDesktopNotFound)
	}
	return ord, cur, nil
}

func displayName(stored string, ord Ordinal) string {
	if stored != "" {
		return stored
	}
	return "Desktop " + strconv.Itoa(int(ord)+1)
}
