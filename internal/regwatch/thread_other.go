//go:build !windows && !linux

package regwatch

// threadID 返回 0 表示当前平台取不到线程号
func threadID() int64 {
	return 0
}
