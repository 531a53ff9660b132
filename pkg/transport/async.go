package transport

import (
	"context"
	"sync"

	"alphavantage/pkg/request"
)

// Pending 一个已提交、尚未取回结果的请求
type Pending struct {
	done chan struct{}
	env  *Envelope
	err  error
}

// Await 等待请求完成；ctx 取消时立即返回，后台请求随提交时的 ctx 结束
func (p *Pending) Await(ctx context.Context) (*Envelope, error) {
	select {
	case <-p.done:
		return p.env, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done 请求完成时关闭
func (p *Pending) Done() <-chan struct{} { return p.done }

// AsyncTransport 非阻塞实现，在 goroutine 中执行底层传输
type AsyncTransport struct {
	inner Transport
	wg    sync.WaitGroup
}

// NewAsyncTransport 包装一个阻塞传输
func NewAsyncTransport(inner Transport) *AsyncTransport {
	return &AsyncTransport{inner: inner}
}

// Submit 立即返回，请求在后台执行
func (a *AsyncTransport) Submit(ctx context.Context, params request.Params) *Pending {
	p := &Pending{done: make(chan struct{})}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer close(p.done)
		p.env, p.err = a.inner.Do(ctx, params)
	}()
	return p
}

// Do 提交并等待，与阻塞实现的契约相同
func (a *AsyncTransport) Do(ctx context.Context, params request.Params) (*Envelope, error) {
	return a.Submit(ctx, params).Await(ctx)
}

// Close 等待在途请求结束后关闭底层传输
func (a *AsyncTransport) Close() error {
	a.wg.Wait()
	return a.inner.Close()
}
