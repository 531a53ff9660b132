package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/logger"
	"alphavantage/pkg/request"
)

// CircuitBreakerTransport 熔断器装饰器
// 使用 sony/gobreaker，只统计传输失败，上游数据错误不计入
type CircuitBreakerTransport struct {
	inner Transport
	cb    *gobreaker.CircuitBreaker
	log   *logrus.Entry
}

// NewCircuitBreakerTransport 创建熔断器装饰器
func NewCircuitBreakerTransport(inner Transport, cfg config.CircuitBreakerConfig) *CircuitBreakerTransport {
	log := logger.WithComponent("CircuitBreaker")

	settings := gobreaker.Settings{
		Name:        "alphavantage",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当连续失败次数达到阈值时触发熔断
			return counts.ConsecutiveFailures >= cfg.ReadyToTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %s changed from %v to %v", name, from, to)
		},
	}

	return &CircuitBreakerTransport{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker(settings),
		log:   log,
	}
}

// Do 通过熔断器执行请求
func (c *CircuitBreakerTransport) Do(ctx context.Context, params request.Params) (*Envelope, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.inner.Do(ctx, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, averr.WrapError(averr.ErrCircuitOpen, "upstream temporarily unavailable", err)
		}
		return nil, err
	}

	env, ok := result.(*Envelope)
	if !ok {
		return nil, fmt.Errorf("circuit breaker returned unexpected type %T", result)
	}
	return env, nil
}

// State 熔断器当前状态
func (c *CircuitBreakerTransport) State() gobreaker.State {
	return c.cb.State()
}

// Counts 熔断器计数
func (c *CircuitBreakerTransport) Counts() gobreaker.Counts {
	return c.cb.Counts()
}

// Close 关闭底层传输
func (c *CircuitBreakerTransport) Close() error {
	return c.inner.Close()
}
