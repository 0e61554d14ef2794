package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受一个进度值 t ∈ [0, 1]。超出范围的输入会先被钳制。
//
// 参考：https://easings.net/

// Clamp01 将 t 限制在 [0, 1]
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// EaseSineArch 正弦拱形包络
// 特点：两端为 0，中点为 1（流星拖尾长度先增长后收缩）
// 公式：f(t) = sin(πt)
func EaseSineArch(t float64) float64 {
	t = Clamp01(t)
	// sin(π) 在浮点下不是精确的 0
	if t == 0 || t == 1 {
		return 0
	}
	return math.Sin(math.Pi * t)
}

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
