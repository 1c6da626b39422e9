package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.design/x/hotkey/mainthread"

	"vdindicator/internal/autorun"
	"vdindicator/internal/config"
	"vdindicator/internal/desktop"
	"vdindicator/internal/notify"
	"vdindicator/internal/regwatch"
	"vdindicator/internal/theme"
	"vdindicator/internal/tray"
)

const version = "1.2.0"

func main() {
	// 命令行参数
	showConfig := flag.Bool("config", false, "显示配置文件路径")
	showVersion := flag.Bool("version", false, "显示版本信息")
	autorunFlag := flag.String("autorun", "", "设置开机启动：on 或 off")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", config.AppName, version)
		fmt.Println("任务栏虚拟桌面指示器")
		return
	}

	if *showConfig {
		fmt.Println("配置文件路径:", config.GetConfigPath())
		return
	}

	if *autorunFlag != "" {
		if err := setAutorun(*autorunFlag); err != nil {
			fmt.Println("设置开机启动失败:", err)
			os.Exit(1)
		}
		fmt.Println("开机启动已设置为:", *autorunFlag)
		return
	}

	// 使用 mainthread 确保 COM 初始化和托盘在主线程运行
	mainthread.Init(run)
}

func run() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("加载配置失败:", err)
	}

	closeLog := setupLogging(cfg.Log)
	defer closeLog()

	log.Info().Str("version", version).Uint32("build", desktop.OSBuild()).Str("dpi", dpiMode).Msg("启动")

	// 绑定失败时程序无法工作，提示一次后退出
	nav, err := desktop.Open()
	if err != nil {
		fatal(err)
	}
	log.Info().Stringer("tier", nav.Tier()).Msg("虚拟桌面导航器就绪")

	hk := newHotkeys(nav, cfg)
	defer hk.close()

	t := tray.NewTray(nav, cfg)
	t.SetNotifier(notify.NewNotifier(config.AppName))
	t.SetThemeWatcher(regwatch.New(theme.RegistryPath))
	if m, err := autorun.NewManager(config.AppName); err == nil {
		t.SetAutorun(m)
	} else {
		log.Warn().Err(err).Msg("无法管理开机启动")
	}
	t.SetOnEditHotkeys(hk.edit)
	t.SetOnQuit(hk.close)
	t.SetOnFatal(func(err error) {
		hk.close()
		fatal(err)
	})

	// 运行托盘（阻塞）
	t.Run()
	log.Info().Msg("退出")
}

func setAutorun(value string) error {
	m, err := autorun.NewManager(config.AppName)
	if err != nil {
		return err
	}
	switch value {
	case "on":
		return m.Enable()
	case "off":
		return m.Disable()
	}
	return fmt.Errorf("无效的取值 %q，应为 on 或 off", value)
}
