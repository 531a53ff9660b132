package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	averr "alphavantage/pkg/error"
	"alphavantage/pkg/logger"
)

// APIKeyEnv 唯一识别的凭证环境变量
const APIKeyEnv = "ALPHAVANTAGE_API_KEY"

const (
	// DefaultBaseURL Alpha Vantage 官方接口地址
	DefaultBaseURL = "https://www.alphavantage.co/query"
	// DefaultRapidAPIURL RapidAPI 平台接口地址
	DefaultRapidAPIURL = "https://alpha-vantage.p.rapidapi.com/query"
	// RapidAPIHost RapidAPI 认证时使用的 host 头
	RapidAPIHost = "alpha-vantage.p.rapidapi.com"
)

// OutputFormat 输出格式
type OutputFormat string

const (
	FormatJSON   OutputFormat = "json"   // 结构化数据
	FormatPandas OutputFormat = "pandas" // 表格
	FormatCSV    OutputFormat = "csv"    // 分隔文本
)

// IndexingType 表格索引策略
type IndexingType string

const (
	IndexDate    IndexingType = "date"
	IndexInteger IndexingType = "integer"
)

var lower = cases.Lower(language.Und)

// ParseOutputFormat 解析输出格式，大小写不敏感，接受 structured/tabular/delimited 别名
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch lower.String(strings.TrimSpace(s)) {
	case "", "json", "structured":
		return FormatJSON, nil
	case "pandas", "tabular", "dataframe":
		return FormatPandas, nil
	case "csv", "delimited":
		return FormatCSV, nil
	}
	return "", averr.Errorf(averr.ErrUnsupportedFormat,
		"output format: %s not recognized, only 'json', 'pandas' and 'csv' are supported", s)
}

// ParseIndexingType 解析索引策略
func ParseIndexingType(s string) (IndexingType, error) {
	switch lower.String(strings.TrimSpace(s)) {
	case "", "date", "timestamp":
		return IndexDate, nil
	case "integer", "int":
		return IndexInteger, nil
	}
	return "", averr.Errorf(averr.ErrConfigInvalid, "indexing type: %s not recognized, use 'date' or 'integer'", s)
}

// Config 主配置结构
type Config struct {
	// 客户端配置
	Client ClientConfig `json:"client" mapstructure:"client"`

	// 传输层配置
	Transport TransportConfig `json:"transport" mapstructure:"transport"`

	// 日志配置
	Logger logger.Config `json:"logger" mapstructure:"logger"`
}

// ClientConfig 客户端配置，构造后不可变（代理除外）
type ClientConfig struct {
	APIKey            string            `json:"api_key" mapstructure:"api_key"`                       // 访问凭证
	OutputFormat      OutputFormat      `json:"output_format" mapstructure:"output_format"`           // json, pandas, csv
	IgnoreInformation bool              `json:"ignore_information" mapstructure:"ignore_information"` // Information/Note 作为数据返回，默认视为错误
	IndexingType      IndexingType      `json:"indexing_type" mapstructure:"indexing_type"`           // date, integer
	Proxy             map[string]string `json:"proxy" mapstructure:"proxy"`                           // 协议 -> 代理地址
	RapidAPI          bool              `json:"rapidapi" mapstructure:"rapidapi"`                     // 通过 RapidAPI 头认证
	MaxRetries        int               `json:"max_retries" mapstructure:"max_retries"`               // 上游数据错误的重试次数
}

// TransportConfig HTTP 传输配置
type TransportConfig struct {
	BaseURL           string               `json:"base_url" mapstructure:"base_url"`                       // 覆盖默认接口地址
	Timeout           time.Duration        `json:"timeout" mapstructure:"timeout"`                         // 请求超时时间
	RequestsPerMinute int                  `json:"requests_per_minute" mapstructure:"requests_per_minute"` // 0 表示不限流
	UserAgent         string               `json:"user_agent" mapstructure:"user_agent"`                   // 用户代理
	CircuitBreaker    CircuitBreakerConfig `json:"circuit_breaker" mapstructure:"circuit_breaker"`         // 熔断配置
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled     bool          `json:"enabled" mapstructure:"enabled"`             // 是否启用熔断器
	MaxRequests uint32        `json:"max_requests" mapstructure:"max_requests"`   // 半开状态下的最大请求数
	Interval    time.Duration `json:"interval" mapstructure:"interval"`           // 统计窗口时间
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`             // 熔断器打开后的超时时间
	ReadyToTrip uint32        `json:"ready_to_trip" mapstructure:"ready_to_trip"` // 触发熔断的连续失败次数
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			OutputFormat: FormatJSON,
			IndexingType: IndexDate,
		},
		Transport: TransportConfig{
			Timeout:   30 * time.Second,
			UserAgent: "alphavantage-go/1.0",
			CircuitBreaker: CircuitBreakerConfig{
				MaxRequests: 1,
				Interval:    60 * time.Second,
				Timeout:     30 * time.Second,
				ReadyToTrip: 5,
			},
		},
		Logger: logger.Config{
			Level:  "info",
			Format: "text",
			Output: "console",
		},
	}
}

// ResolveAPIKey 返回显式凭证，缺失时回退到环境变量
func (c *ClientConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

// Validate 验证客户端配置
func (c *ClientConfig) Validate() error {
	if c.ResolveAPIKey() == "" {
		return averr.NewError(averr.ErrConfigInvalid,
			"the AlphaVantage API key must be provided either through the key parameter "+
				"or through the environment variable "+APIKeyEnv+". Get a free key "+
				"from the AlphaVantage website: https://www.alphavantage.co/support/#api-key")
	}
	if _, err := ParseOutputFormat(string(c.OutputFormat)); err != nil {
		return err
	}
	if _, err := ParseIndexingType(string(c.IndexingType)); err != nil {
		return err
	}
	if c.MaxRetries < 0 {
		return averr.NewError(averr.ErrConfigInvalid, "max_retries cannot be negative")
	}
	return nil
}

// Validate 验证传输配置
func (t *TransportConfig) Validate() error {
	if t.Timeout <= 0 {
		return errors.New("transport timeout must be positive")
	}
	if t.RequestsPerMinute < 0 {
		return errors.New("transport requests_per_minute cannot be negative")
	}
	return nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Client.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return averr.WrapError(averr.ErrConfigInvalid, "invalid transport configuration", err)
	}
	return nil
}

// SetOutputFormat 设置输出格式
func (c *Config) SetOutputFormat(format OutputFormat) *Config {
	c.Client.OutputFormat = format
	return c
}

// SetIndexingType 设置索引策略
func (c *Config) SetIndexingType(indexing IndexingType) *Config {
	c.Client.IndexingType = indexing
	return c
}

// SetAPIKey 设置访问凭证
func (c *Config) SetAPIKey(key string) *Config {
	c.Client.APIKey = key
	return c
}

// SetRateLimit 设置每分钟请求上限
func (c *Config) SetRateLimit(perMinute int) *Config {
	c.Transport.RequestsPerMinute = perMinute
	return c
}

// SetLogLevel 设置日志级别
func (c *Config) SetLogLevel(level string) *Config {
	c.Logger.Level = level
	return c
}

// Load 从配置文件加载配置，path 为空时只读取环境变量与 .env
func Load(path string) (*Config, error) {
	// .env 不存在时静默忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	if err := v.BindEnv("client.api_key", APIKeyEnv); err != nil {
		return nil, fmt.Errorf("bind env failed: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, averr.WrapError(averr.ErrConfigInvalid, "read config file failed", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, averr.WrapError(averr.ErrConfigInvalid, "unmarshal config failed", err)
	}

	format, err := ParseOutputFormat(string(cfg.Client.OutputFormat))
	if err != nil {
		return nil, err
	}
	cfg.Client.OutputFormat = format

	indexing, err := ParseIndexingType(string(cfg.Client.IndexingType))
	if err != nil {
		return nil, err
	}
	cfg.Client.IndexingType = indexing

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("client.output_format", string(d.Client.OutputFormat))
	v.SetDefault("client.ignore_information", d.Client.IgnoreInformation)
	v.SetDefault("client.indexing_type", string(d.Client.IndexingType))
	v.SetDefault("client.rapidapi", false)
	v.SetDefault("client.max_retries", 0)
	v.SetDefault("transport.timeout", d.Transport.Timeout)
	v.SetDefault("transport.user_agent", d.Transport.UserAgent)
	v.SetDefault("transport.requests_per_minute", 0)
	v.SetDefault("transport.circuit_breaker.enabled", false)
	v.SetDefault("transport.circuit_breaker.max_requests", d.Transport.CircuitBreaker.MaxRequests)
	v.SetDefault("transport.circuit_breaker.interval", d.Transport.CircuitBreaker.Interval)
	v.SetDefault("transport.circuit_breaker.timeout", d.Transport.CircuitBreaker.Timeout)
	v.SetDefault("transport.circuit_breaker.ready_to_trip", d.Transport.CircuitBreaker.ReadyToTrip)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.output", d.Logger.Output)
}
