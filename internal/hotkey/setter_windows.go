//go:build windows

package hotkey

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"vdindicator/internal/config"
)

// Prompt 弹出输入框让用户输入新的快捷键。
// 使用 PowerShell InputBox，避免 Windows GUI 线程问题。
// 返回规范化后的快捷键字符串；用户取消或输入无效时 ok 为 false。
func Prompt(title, current string) (spec string, ok bool) {
	script := fmt.Sprintf(`
Add-Type -AssemblyName Microsoft.VisualBasic
$msg = "请输入新的快捷键组合" + [char]10 + [char]10 + "格式: 修饰键+主键" + [char]10 + "示例: ctrl+alt+right, win+alt+pagedown" + [char]10 + [char]10 + "支持的修饰键: ctrl, alt, shift, win" + [char]10 + "支持的主键: a-z, 0-9, f1-f12, left, right, pageup, pagedown" + [char]10 + "留空表示不使用"
$result = [Microsoft.VisualBasic.Interaction]::InputBox($msg, "%s", "%s")
Write-Output $result
`, escape(title), escape(current))

	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.Output()
	if err != nil {
		log.Warn().Err(err).Msg("PowerShell 执行失败")
		return "", false
	}

	result := strings.ToLower(strings.TrimSpace(string(output)))
	if result == "" {
		return "", true
	}

	mods, key, err := config.ParseHotkey(result)
	if err == nil {
		err = ValidateHotkey(mods, key)
	}
	if err == nil {
		_, err = parseKey(key)
	}
	if err != nil {
		log.Warn().Err(err).Str("input", result).Msg("快捷键格式无效")
		return "", false
	}
	return strings.Join(append(mods, key), "+"), true
}

// escape 转义 PowerShell 双引号字符串里的特殊字符
func escape(s string) string {
	return strings.NewReplacer("`", "``", `"`, "`\"", "$", "`$").Replace(s)
}
