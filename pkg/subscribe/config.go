// Package subscribe 实现新闻订阅表单的转发服务
//
// 浏览器把邮箱等字段 POST 到 /api/subscribe，服务按客户端 IP 限流后
// 转发到表单服务商的提交接口。
package subscribe

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultFormsEndpoint 表单服务商的提交接口
const DefaultFormsEndpoint = "https://api.hsforms.com/submissions/v3/integration/submit"

// Config 订阅服务配置，从环境变量读取
type Config struct {
	Addr          string        `env:"SUBSCRIBE_ADDR" envDefault:":8080"`
	PortalID      string        `env:"SUBSCRIBE_PORTAL_ID"`
	FormID        string        `env:"SUBSCRIBE_FORM_ID"`
	FormsEndpoint string        `env:"SUBSCRIBE_FORMS_ENDPOINT" envDefault:"https://api.hsforms.com/submissions/v3/integration/submit"`
	RateLimit     int           `env:"SUBSCRIBE_RATE_LIMIT" envDefault:"5"`
	RateWindow    time.Duration `env:"SUBSCRIBE_RATE_WINDOW" envDefault:"1m"`
	Timeout       time.Duration `env:"SUBSCRIBE_TIMEOUT" envDefault:"10s"`
	AllowedOrigin string        `env:"SUBSCRIBE_ALLOWED_ORIGIN"`
	// TrustForwarded 限流时按 X-Forwarded-For 识别客户端，默认服务部署在 CDN 之后。
	// 直接暴露在公网时必须关闭：客户端可以伪造该头绕过限流。
	TrustForwarded bool `env:"SUBSCRIBE_TRUST_FORWARDED" envDefault:"true"`
}

// LoadConfig 从环境变量读取并校验配置
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查必填项和取值范围
func (c Config) Validate() error {
	var errs []error
	if c.PortalID == "" {
		errs = append(errs, errors.New("SUBSCRIBE_PORTAL_ID is required"))
	}
	if c.FormID == "" {
		errs = append(errs, errors.New("SUBSCRIBE_FORM_ID is required"))
	}
	if c.FormsEndpoint == "" {
		errs = append(errs, errors.New("SUBSCRIBE_FORMS_ENDPOINT must not be empty"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("SUBSCRIBE_RATE_LIMIT must be positive, got %d", c.RateLimit))
	}
	if c.RateWindow <= 0 {
		errs = append(errs, fmt.Errorf("SUBSCRIBE_RATE_WINDOW must be positive, got %s", c.RateWindow))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("SUBSCRIBE_TIMEOUT must be positive, got %s", c.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid subscribe config: %w", errors.Join(errs...))
	}
	return nil
}
