package client

import (
	"alphavantage/pkg/config"
	"alphavantage/pkg/operation"
	"alphavantage/pkg/transport"
)

type options struct {
	transportCfg config.TransportConfig
	transport    transport.Transport
	registry     *operation.Registry
}

// Option 客户端构造选项
type Option func(*options)

// WithTransportConfig 使用指定的传输配置
func WithTransportConfig(t config.TransportConfig) Option {
	return func(o *options) { o.transportCfg = t }
}

// WithBaseURL 覆盖接口地址，测试时指向模拟服务端
func WithBaseURL(url string) Option {
	return func(o *options) { o.transportCfg.BaseURL = url }
}

// WithTransport 注入自定义传输，此时代理与限流配置不再生效
func WithTransport(t transport.Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithRegistry 使用自定义的操作注册表
func WithRegistry(r *operation.Registry) Option {
	return func(o *options) { o.registry = r }
}
