package regwatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownHive 路径的根不是已知的注册表根键
var ErrUnknownHive = errors.New("unknown registry hive")

// Hive 注册表根键
type Hive int

const (
	CurrentUser Hive = iota
	LocalMachine
	ClassesRoot
	Users
	CurrentConfig
)

var hiveNames = map[string]Hive{
	"HKEY_CURRENT_USER":   CurrentUser,
	"HKCU":                CurrentUser,
	"HKEY_LOCAL_MACHINE":  LocalMachine,
	"HKLM":                LocalMachine,
	"HKEY_CLASSES_ROOT":   ClassesRoot,
	"HKCR":                ClassesRoot,
	"HKEY_USERS":          Users,
	"HKU":                 Users,
	"HKEY_CURRENT_CONFIG": CurrentConfig,
	"HKCC":                CurrentConfig,
}

// SplitPath 把 HKEY_CURRENT_USER\Software\... 拆成根键和子键路径
func SplitPath(path string) (Hive, string, error) {
	path = strings.Trim(strings.TrimSpace(path), `\`)
	root, sub, _ := strings.Cut(path, `\`)
	hive, ok := hiveNames[strings.ToUpper(root)]
	if !ok {
		return 0, "", fmt.Errorf("%q: %w", root, ErrUnknownHive)
	}
	return hive, strings.Trim(sub, `\`), nil
}
