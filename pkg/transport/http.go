package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/logger"
	"alphavantage/pkg/request"
)

// HTTPOptions HTTPTransport 的构造参数
type HTTPOptions struct {
	APIKey            string
	BaseURL           string            // 为空时按 RapidAPI 选择默认地址
	RapidAPI          bool              // 通过 x-rapidapi-* 头认证
	Proxy             map[string]string // 协议 -> 代理地址
	Timeout           time.Duration
	RequestsPerMinute int // 0 表示不限流
	UserAgent         string
}

// OptionsFromConfig 由客户端与传输配置生成构造参数
func OptionsFromConfig(apiKey string, c config.ClientConfig, t config.TransportConfig) HTTPOptions {
	return HTTPOptions{
		APIKey:            apiKey,
		BaseURL:           t.BaseURL,
		RapidAPI:          c.RapidAPI,
		Proxy:             c.Proxy,
		Timeout:           t.Timeout,
		RequestsPerMinute: t.RequestsPerMinute,
		UserAgent:         t.UserAgent,
	}
}

// HTTPTransport 阻塞式实现，每次调用发出一个 GET 请求
type HTTPTransport struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	rapidAPI   bool
	userAgent  string
	limiter    *rate.Limiter

	proxyMu sync.RWMutex
	proxy   map[string]*url.URL

	log *logrus.Entry
}

// NewHTTPTransport 创建 HTTP 传输
func NewHTTPTransport(opts HTTPOptions) (*HTTPTransport, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
		if opts.RapidAPI {
			baseURL = config.DefaultRapidAPIURL
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	t := &HTTPTransport{
		baseURL:   baseURL,
		apiKey:    opts.APIKey,
		rapidAPI:  opts.RapidAPI,
		userAgent: opts.UserAgent,
		log:       logger.WithComponent("HTTPTransport"),
	}
	if err := t.SetProxy(opts.Proxy); err != nil {
		return nil, err
	}
	if opts.RequestsPerMinute > 0 {
		t.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	t.httpClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               t.proxyFor,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
		Timeout: timeout,
	}
	return t, nil
}

// SetProxy 替换代理配置，nil 或空表示直连
func (t *HTTPTransport) SetProxy(proxy map[string]string) error {
	parsed := make(map[string]*url.URL, len(proxy))
	for scheme, raw := range proxy {
		u, err := url.Parse(raw)
		if err != nil {
			return averr.WrapError(averr.ErrConfigInvalid, "invalid proxy for "+scheme, err)
		}
		parsed[scheme] = u
	}

	t.proxyMu.Lock()
	t.proxy = parsed
	t.proxyMu.Unlock()
	return nil
}

func (t *HTTPTransport) proxyFor(req *http.Request) (*url.URL, error) {
	t.proxyMu.RLock()
	defer t.proxyMu.RUnlock()
	return t.proxy[req.URL.Scheme], nil
}

// Do 发送请求并读取完整响应体
func (t *HTTPTransport) Do(ctx context.Context, params request.Params) (*Envelope, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, averr.WrapError(averr.ErrTransportFailed, "rate limiter wait failed", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL, nil)
	if err != nil {
		return nil, averr.WrapError(averr.ErrTransportFailed, "create request failed", err)
	}

	query := req.URL.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	if t.rapidAPI {
		req.Header.Set("x-rapidapi-host", config.RapidAPIHost)
		req.Header.Set("x-rapidapi-key", t.apiKey)
	} else {
		query.Set("apikey", t.apiKey)
	}
	req.URL.RawQuery = query.Encode()
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	log := t.log.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"function":   params["function"],
	})
	start := time.Now()

	resp, err := t.httpClient.Do(req)
	if err != nil {
		log.Errorf("HTTP request failed after %v: %v", time.Since(start), err)
		return nil, averr.WrapError(averr.ErrTransportFailed, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, averr.WrapError(averr.ErrTransportFailed, "read response failed", err)
	}

	log.Debugf("HTTP %d in %v, %d bytes", resp.StatusCode, time.Since(start), len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, averr.Errorf(averr.ErrTransportFailed, "HTTP status %d", resp.StatusCode).
			WithContext("status", resp.StatusCode).
			WithContext("body", truncate(body, 200))
	}

	return &Envelope{Body: body, Kind: kindFor(params), Status: resp.StatusCode}, nil
}

// Close 释放空闲连接
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s...", b[:n])
}
