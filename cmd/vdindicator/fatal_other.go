//go:build !windows

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"vdindicator/internal/config"
)

// fatal 输出一次错误后退出进程
func fatal(err error) {
	log.Error().Err(err).Msg("致命错误")
	fmt.Fprintf(os.Stderr, "%s 遇到无法处理的错误: %v\n", config.AppName, err)
	os.Exit(1)
}
