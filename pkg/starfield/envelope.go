package starfield

import (
	"math"

	"github.com/gonewx/starlight/pkg/utils"
)

// TrailLength 拖尾包络：生命起点和终点为 0，中点达到 maxLength
//
//	length(f) = maxLength * sin(π f)
func TrailLength(lifeFraction, maxLength float64) float64 {
	return maxLength * utils.EaseSineArch(lifeFraction)
}

// DecayAlpha returns the overlay alpha that halves the previous frame's
// pixels every halfLife seconds: 1 - 0.5^(dt/halfLife).
func DecayAlpha(dt, halfLife float64) float64 {
	if dt <= 0 {
		return 0
	}
	if halfLife <= 0 {
		return 1
	}
	return 1 - math.Pow(0.5, dt/halfLife)
}
