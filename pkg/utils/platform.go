//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动端交互运行（触摸滚动、隐藏键盘提示）
// 桌面端默认 false，设置 STARLIGHT_MOBILE_EMULATE=1 可在桌面模拟
func IsMobile() bool {
	return os.Getenv("STARLIGHT_MOBILE_EMULATE") == "1"
}
