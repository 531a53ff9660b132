// Package normalize 校验一次响应并整形为结构化数据、表格或分隔文本。
package normalize

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/frame"
	"alphavantage/pkg/logger"
	"alphavantage/pkg/operation"
	"alphavantage/pkg/request"
	"alphavantage/pkg/transport"
)

// Options 整形时使用的客户端配置
type Options struct {
	TreatInfoAsError bool
	Indexing         config.IndexingType
}

// Result 整形结果，Data、Frame、Rows 按输出格式三选一
type Result struct {
	Format config.OutputFormat
	Data   any
	Frame  *frame.Frame
	Rows   [][]string
	Meta   map[string]any
}

// Normalizer 响应整形器，无状态，可并发使用
type Normalizer struct {
	opts Options
	log  *logrus.Entry
}

// New 创建整形器
func New(opts Options) *Normalizer {
	if opts.Indexing == "" {
		opts.Indexing = config.IndexDate
	}
	return &Normalizer{opts: opts, log: logger.WithComponent("Normalizer")}
}

// Normalize 校验响应并按 call.Format 整形
func (n *Normalizer) Normalize(env *transport.Envelope, call *request.Call) (*Result, error) {
	switch call.Format {
	case config.FormatJSON, config.FormatPandas, config.FormatCSV:
	default:
		return nil, averr.Errorf(averr.ErrUnsupportedFormat,
			"output format: %s not recognized, only 'json', 'pandas' and 'csv' are supported", call.Format)
	}
	if env == nil {
		return nil, averr.NewError(averr.ErrEmptyResponse, "empty response from the API")
	}

	if env.Kind == transport.KindCSV && !looksLikeJSON(env.Body) {
		return n.fromCSV(env.Body, call)
	}
	return n.fromJSON(env.Body, call)
}

// looksLikeJSON 请求 csv 时上游仍以 JSON 返回错误
func looksLikeJSON(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && gjson.ValidBytes(trimmed)
}

func (n *Normalizer) fromJSON(body []byte, call *request.Call) (*Result, error) {
	root, err := Classify(body, n.opts.TreatInfoAsError)
	if err != nil {
		return nil, err
	}

	data, err := extract(root, call)
	if err != nil {
		return nil, err
	}
	res := &Result{Format: call.Format, Meta: extractMeta(root, call.MetaKey)}

	if call.Formatting == operation.FormattingSector {
		sectors, err := parseSectors(data)
		if err != nil {
			return nil, err
		}
		if call.Format == config.FormatJSON {
			res.Data = sectors.structured()
			return res, nil
		}
		f, err := sectors.frame()
		if err != nil {
			return nil, averr.WrapError(averr.ErrShapingFailed, "build sector frame failed", err)
		}
		return n.finish(res, f), nil
	}

	if call.Format == config.FormatJSON {
		res.Data = data.Value()
		return res, nil
	}

	f, err := n.toFrame(data, call)
	if err != nil {
		return nil, err
	}
	return n.finish(res, f), nil
}

// finish 表格模式直接返回表格，分隔文本模式再序列化一次
func (n *Normalizer) finish(res *Result, f *frame.Frame) *Result {
	if res.Format == config.FormatCSV {
		res.Rows = f.ToCSV()
		return res
	}
	res.Frame = f
	return res
}

func (n *Normalizer) fromCSV(body []byte, call *request.Call) (*Result, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, averr.NewError(averr.ErrEmptyResponse, "empty response from the API")
	}

	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, averr.WrapError(averr.ErrInvalidResponse, "parse csv response failed", err)
	}

	res := &Result{Format: call.Format}
	if call.Format == config.FormatCSV {
		res.Rows = rows
		return res, nil
	}

	f, err := frame.FromRows(rows)
	if err != nil {
		return nil, averr.WrapError(averr.ErrInvalidResponse, "parse csv response failed", err)
	}
	if call.Format == config.FormatJSON {
		res.Data = f.Records()
		return res, nil
	}

	if err := n.applyIndex(f, "time", "timestamp"); err != nil {
		return nil, err
	}
	res.Frame = f
	return res, nil
}

// extract 按数据键取出主数据；无键时为整个响应，多个键时合并为一个对象
func extract(root gjson.Result, call *request.Call) (gjson.Result, error) {
	switch len(call.DataKeys) {
	case 0:
		return root, nil
	case 1:
		v, ok := field(root, call.DataKeys[0])
		if !ok {
			return gjson.Result{}, averr.Errorf(averr.ErrInvalidResponse,
				"response has no %q section", call.DataKeys[0])
		}
		return v, nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range call.DataKeys {
		v, ok := field(root, key)
		if !ok {
			return gjson.Result{}, averr.Errorf(averr.ErrInvalidResponse, "response has no %q section", key)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(v.Raw)
	}
	buf.WriteByte('}')
	return gjson.ParseBytes(buf.Bytes()), nil
}

// extractMeta 元数据总是对象或 nil；非对象的值以元数据键包装
func extractMeta(root gjson.Result, key string) map[string]any {
	if key == "" {
		return nil
	}
	v, ok := field(root, key)
	if !ok {
		return nil
	}
	if v.IsObject() {
		m, _ := v.Value().(map[string]any)
		return m
	}
	return map[string]any{key: v.Value()}
}
