package client

import "context"

// Future 异步调用的结果
type Future struct {
	done chan struct{}
	res  *Result
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(res *Result, err error) {
	f.res, f.err = res, err
	close(f.done)
}

// Await 等待调用完成或 ctx 结束
func (f *Future) Await(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done 调用完成时关闭
func (f *Future) Done() <-chan struct{} { return f.done }
