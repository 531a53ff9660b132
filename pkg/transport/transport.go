// Package transport 负责把查询参数发送给 Alpha Vantage 并取回原始响应体。
package transport

import (
	"context"

	"alphavantage/pkg/request"
)

// Kind 响应体类型
type Kind string

const (
	KindJSON Kind = "json"
	KindCSV  Kind = "csv"
)

// Envelope 一次 HTTP 响应的原始内容，只被整形层消费一次
type Envelope struct {
	Body   []byte
	Kind   Kind
	Status int
}

// Transport 执行一次请求的能力，同步与异步实现共享该接口
type Transport interface {
	Do(ctx context.Context, params request.Params) (*Envelope, error)
	Close() error
}

// kindFor 请求了 datatype=csv 时响应为分隔文本
func kindFor(params request.Params) Kind {
	if params["datatype"] == string(KindCSV) {
		return KindCSV
	}
	return KindJSON
}
