//go:build windows

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows"

	"vdindicator/internal/config"
)

// fatal 弹出一次错误提示后退出进程
func fatal(err error) {
	log.Error().Err(err).Msg("致命错误")

	text, _ := windows.UTF16PtrFromString(fmt.Sprintf("%s 遇到无法处理的错误:\n%v", config.AppName, err))
	caption, _ := windows.UTF16PtrFromString(config.AppName)
	windows.MessageBox(0, text, caption, windows.MB_OK|windows.MB_ICONERROR)

	os.Exit(1)
}
