package desktop

// Tier 系统版本档位，决定使用哪套接口布局
type Tier int

const (
	Legacy Tier = iota
	Modern
)

// modernBuild 第一个使用新接口布局的 build (Windows 11)
const modernBuild = 22000

// TierForBuild 根据系统 build 号选择档位
func TierForBuild(build uint32) Tier {
	if build >= modernBuild {
		return Modern
	}
	return Legacy
}

func (t Tier) String() string {
	switch t {
	case Legacy:
		return "legacy"
	case Modern:
		return "modern"
	}
	return "unknown"
}
