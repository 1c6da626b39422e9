//go:build windows

package desktop

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"
)

// OSBuild 返回系统 build 号
func OSBuild() uint32 {
	return windows.RtlGetVersion().BuildNumber
}

// Open 按系统版本选定绑定并在 STA 线程上探测一次接口形状。
// 任何失败都包装为 ErrBindingInit，不重试。
func Open() (*Navigator, error) {
	build := OSBuild()
	tier := TierForBuild(build)

	var binding Binding = legacyBinding{}
	if tier == Modern {
		binding = modernBinding{}
	}

	exec := NewApartmentExecutor()
	if err := exec.Do(func() error { return probe(binding) }); err != nil {
		return nil, fmt.Errorf("%w (build %d, %s): %v", ErrBindingInit, build, tier, err)
	}

	log.Info().Uint32("build", build).Stringer("tier", tier).Msg("虚拟桌面接口已绑定")
	return NewNavigator(binding, exec), nil
}

// probe 连接并调用一遍查询方法，接口布局不符时会在这里失败
func probe(b Binding) error {
	s, err := b.Connect()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.Count(); err != nil {
		return err
	}
	cur, err := s.Current()
	if err != nil {
		return err
	}
	if _, err := cur.ID(); err != nil {
		return err
	}
	return nil
}
