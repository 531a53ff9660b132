// Package client 组合参数构建、HTTP 调用与响应整形，对外提供 Alpha Vantage 客户端。
package client

import (
	"context"
	"sync"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/frame"
	"alphavantage/pkg/logger"
	"alphavantage/pkg/normalize"
	"alphavantage/pkg/operation"
	"alphavantage/pkg/request"
	"alphavantage/pkg/transport"
)

// Result 一次调用的整形结果
type Result = normalize.Result

// proxySetter 支持运行时替换代理的传输
type proxySetter interface {
	SetProxy(map[string]string) error
}

// Client 通用客户端，可并发使用
type Client struct {
	cfg        config.ClientConfig
	family     operation.Family // 为空时可调用任意操作
	registry   *operation.Registry
	transport  transport.Transport
	async      *transport.AsyncTransport
	proxy      proxySetter
	normalizer *normalize.Normalizer
	inflight   sync.WaitGroup // InvokeAsync 发起的调用
	closeOnce  sync.Once
	log        *logrus.Entry
}

// New 创建通用客户端，凭证缺失时在创建任何传输之前失败
func New(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	return newClient("", cfg, opts...)
}

// NewFromConfig 按完整配置初始化日志并创建客户端
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(cfg.Logger)
	return New(cfg.Client, append([]Option{WithTransportConfig(cfg.Transport)}, opts...)...)
}

func newClient(family operation.Family, cfg config.ClientConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := config.ParseOutputFormat(string(cfg.OutputFormat))
	if err != nil {
		return nil, err
	}
	indexing, err := config.ParseIndexingType(string(cfg.IndexingType))
	if err != nil {
		return nil, err
	}
	cfg.OutputFormat, cfg.IndexingType = format, indexing
	cfg.APIKey = cfg.ResolveAPIKey()

	if format == config.FormatPandas && !frame.Available() {
		return nil, averr.NewError(averr.ErrConfigInvalid,
			"the tabular output format is not available in this build")
	}
	if family != "" && format == config.FormatCSV && !family.AllowsCSV() {
		return nil, averr.Errorf(averr.ErrUnsupportedFormat,
			"output format 'csv' is not supported for %s", family)
	}

	o := &options{
		transportCfg: config.Default().Transport,
		registry:     operation.Default,
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		cfg:      cfg,
		family:   family,
		registry: o.registry,
		normalizer: normalize.New(normalize.Options{
			TreatInfoAsError: !cfg.IgnoreInformation,
			Indexing:         indexing,
		}),
		log: logger.WithComponent("Client"),
	}

	base := o.transport
	if base == nil {
		httpTransport, err := transport.NewHTTPTransport(transport.OptionsFromConfig(cfg.APIKey, cfg, o.transportCfg))
		if err != nil {
			return nil, err
		}
		c.proxy = httpTransport
		base = httpTransport
		if o.transportCfg.CircuitBreaker.Enabled {
			base = transport.NewCircuitBreakerTransport(base, o.transportCfg.CircuitBreaker)
		}
	} else if ps, ok := base.(proxySetter); ok {
		c.proxy = ps
	}
	c.transport = base
	c.async = transport.NewAsyncTransport(base)

	return c, nil
}

// Config 返回生效的客户端配置
func (c *Client) Config() config.ClientConfig {
	return c.cfg
}

// Invoke 执行一个操作：构建参数、发送请求、整形响应
func (c *Client) Invoke(ctx context.Context, id string, args operation.Args) (*Result, error) {
	call, err := c.build(id, args)
	if err != nil {
		return nil, err
	}
	return c.execute(ctx, call, c.transport)
}

// InvokeAsync 与 Invoke 契约相同，请求在后台执行
func (c *Client) InvokeAsync(ctx context.Context, id string, args operation.Args) *Future {
	f := newFuture()
	call, err := c.build(id, args)
	if err != nil {
		f.resolve(nil, err)
		return f
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		f.resolve(c.execute(ctx, call, c.async))
	}()
	return f
}

func (c *Client) build(id string, args operation.Args) (*request.Call, error) {
	desc, err := c.registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	if c.family != "" && desc.Family != c.family {
		return nil, averr.Errorf(averr.ErrOperationNotFound, "operation %s is not part of %s", id, c.family)
	}

	call, err := request.Build(desc, args, c.cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	if call.Format == config.FormatCSV && !desc.Family.AllowsCSV() {
		return nil, averr.Errorf(averr.ErrUnsupportedFormat,
			"output format 'csv' is not supported for %s", desc.Family)
	}
	return call, nil
}

// execute 上游数据错误按 MaxRetries 立即重试，其他错误直接返回。
// 重试之间 ctx 结束时返回最后一次上游错误。
func (c *Client) execute(ctx context.Context, call *request.Call, tr transport.Transport) (*Result, error) {
	log := c.log.WithField("function", call.Params["function"])

	var res *Result
	var lastErr error
	attempt := 0
	op := func() error {
		attempt++
		env, err := tr.Do(ctx, call.Params)
		if err != nil {
			return backoff.Permanent(err)
		}
		res, err = c.normalizer.Normalize(env, call)
		if err != nil {
			if averr.IsUpstream(err) {
				lastErr = err
				log.Debugf("attempt %d failed: %v", attempt, err)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(c.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if lastErr != nil && ctx.Err() != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return res, nil
}

// SetProxy 替换代理配置，是唯一可在构造后修改的配置
func (c *Client) SetProxy(proxy map[string]string) error {
	if c.proxy == nil {
		return averr.NewError(averr.ErrConfigInvalid, "the configured transport does not support proxies")
	}
	return c.proxy.SetProxy(proxy)
}

// Close 等待在途请求结束并释放连接
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.inflight.Wait()
		err = c.async.Close()
	})
	return err
}
