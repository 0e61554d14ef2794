package game

import (
	"fmt"
	"log"

	"github.com/gonewx/starlight/pkg/starfield"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 密度调节范围与步长
const (
	MinDensity  = 0.25
	MaxDensity  = 4.0
	DensityStep = 0.25
)

// ViewerSettings 查看器的用户设置
// 优先级高于配置文件：配置文件描述效果本身，这里记录用户的偏好
type ViewerSettings struct {
	ReducedMotion bool    `yaml:"reducedMotion"` // 模拟系统的"减少动态效果"偏好
	Density       float64 `yaml:"density"`       // 生成密度倍数
	Side          string  `yaml:"side"`          // 闪烁星星侧边 left | right | both
	ShowTwinkle   bool    `yaml:"showTwinkle"`   // 是否叠加闪烁星星
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ViewerSettings {
	return &ViewerSettings{
		ReducedMotion: false,
		Density:       1,
		Side:          starfield.SideBoth.String(),
		ShowTwinkle:   true,
	}
}

// SettingsManager 设置管理器
// 负责查看器设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager  // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ViewerSettings // 当前设置
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方，加载失败不影响创建
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// 从默认值开始反序列化，旧版本缺失的字段保留默认值
	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if _, err := starfield.ParseSide(loaded.Side); err != nil {
		loaded.Side = starfield.SideBoth.String()
	}
	loaded.Density = clampDensity(loaded.Density)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ViewerSettings {
	return sm.settings
}

// SetReducedMotion 设置减少动态效果偏好
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetReducedMotion(enabled bool) {
	sm.settings.ReducedMotion = enabled
}

// AdjustDensity 按步长调整密度，返回调整后的值
//
// 密度会被限制在 MinDensity ~ MaxDensity 范围内
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - steps: 正数增加，负数减少
func (sm *SettingsManager) AdjustDensity(steps int) float64 {
	sm.settings.Density = clampDensity(sm.settings.Density + float64(steps)*DensityStep)
	return sm.settings.Density
}

// SetSide 设置闪烁星星侧边
func (sm *SettingsManager) SetSide(side starfield.Side) {
	sm.settings.Side = side.String()
}

// Side 返回解析后的侧边，非法值按 both 处理
func (sm *SettingsManager) Side() starfield.Side {
	side, err := starfield.ParseSide(sm.settings.Side)
	if err != nil {
		return starfield.SideBoth
	}
	return side
}

// SetShowTwinkle 设置是否叠加闪烁星星
func (sm *SettingsManager) SetShowTwinkle(show bool) {
	sm.settings.ShowTwinkle = show
}

// clampDensity 将密度限制在 MinDensity ~ MaxDensity 范围内
func clampDensity(density float64) float64 {
	if density < MinDensity {
		return MinDensity
	}
	if density > MaxDensity {
		return MaxDensity
	}
	return density
}
