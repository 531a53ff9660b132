package normalize

import (
	"errors"

	"github.com/tidwall/gjson"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/frame"
	"alphavantage/pkg/request"
)

var errNotNested = errors.New("data is not a mapping of mappings")

// toFrame 把主数据转为表格并应用索引策略。
// 记录列表每条记录一行；对象的对象每个外层键一行、数值转为浮点；
// 其他形状或转换失败时退化为以数据键为标签的单行，且不再转换索引。
func (n *Normalizer) toFrame(data gjson.Result, call *request.Call) (*frame.Frame, error) {
	if data.IsArray() {
		f, err := recordsFrame(data)
		if err != nil {
			return nil, averr.WrapError(averr.ErrShapingFailed, "build frame from records failed", err)
		}
		if err := n.applyIndex(f, "time"); err != nil {
			return nil, err
		}
		return f, nil
	}

	f, err := nestedFrame(data)
	if err != nil {
		label := fallbackLabel(call)
		n.log.Debugf("%s: falling back to a single row: %v", label, err)
		f, err = singleRowFrame(data, label)
		if err != nil {
			return nil, averr.WrapError(averr.ErrShapingFailed, "build single row frame failed", err)
		}
		return f, nil
	}

	if err := n.applyIndex(f, "time"); err != nil {
		return nil, err
	}
	return f, nil
}

// applyIndex 整数策略把标签移入 date 列；日期策略优先使用时间列，再把标签解析为时间。
// 已是整数索引且没有时间列的表格保持不变。
func (n *Normalizer) applyIndex(f *frame.Frame, timeColumns ...string) error {
	if n.opts.Indexing == config.IndexInteger {
		f.ResetIndex("date")
		return nil
	}

	for _, col := range timeColumns {
		if f.ColumnIndex(col) >= 0 {
			if err := f.SetIndexColumn(col); err != nil {
				return averr.WrapError(averr.ErrShapingFailed, "set time index failed", err)
			}
			break
		}
	}
	if f.Index.Kind == frame.IndexInteger {
		return nil
	}
	if err := f.ParseTimeIndex(); err != nil {
		return averr.WrapError(averr.ErrShapingFailed, "convert index to timestamps failed", err)
	}
	return nil
}

// recordsFrame 列为各记录字段按首次出现顺序的并集，值不做转换
func recordsFrame(data gjson.Result) (*frame.Frame, error) {
	var columns []string
	seen := map[string]bool{}
	data.ForEach(func(_, rec gjson.Result) bool {
		if !rec.IsObject() {
			if !seen["value"] {
				seen["value"] = true
				columns = append(columns, "value")
			}
			return true
		}
		rec.ForEach(func(k, _ gjson.Result) bool {
			if name := k.String(); !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			return true
		})
		return true
	})

	f := frame.NewIntegerIndexed(columns...)
	var err error
	data.ForEach(func(_, rec gjson.Result) bool {
		values := make([]any, len(columns))
		if rec.IsObject() {
			for i, col := range columns {
				if v, ok := field(rec, col); ok {
					values[i] = v.Value()
				}
			}
		} else {
			values[f.ColumnIndex("value")] = rec.Value()
		}
		err = f.AddRow("", values)
		return err == nil
	})
	return f, err
}

// nestedFrame 外层键为行标签，内层键为列，值必须都能转为浮点
func nestedFrame(data gjson.Result) (*frame.Frame, error) {
	if !data.IsObject() {
		return nil, errNotNested
	}

	var columns []string
	seen := map[string]bool{}
	nested := true
	data.ForEach(func(_, row gjson.Result) bool {
		if !row.IsObject() {
			nested = false
			return false
		}
		row.ForEach(func(k, _ gjson.Result) bool {
			if name := k.String(); !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
			return true
		})
		return true
	})
	if !nested {
		return nil, errNotNested
	}

	f := frame.New(columns...)
	var err error
	data.ForEach(func(label, row gjson.Result) bool {
		values := make([]any, len(columns))
		for i, col := range columns {
			var v any
			if cell, ok := field(row, col); ok {
				v = cell.Value()
			}
			if values[i], err = frame.ToFloat(v); err != nil {
				return false
			}
		}
		err = f.AddRow(label.String(), values)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// singleRowFrame 整个主数据作为一行，列为顶层键，值保持原样
func singleRowFrame(data gjson.Result, label string) (*frame.Frame, error) {
	if !data.IsObject() {
		f := frame.New("value")
		return f, f.AddRow(label, []any{data.Value()})
	}

	var columns []string
	var values []any
	data.ForEach(func(k, v gjson.Result) bool {
		columns = append(columns, k.String())
		values = append(values, v.Value())
		return true
	})
	f := frame.New(columns...)
	return f, f.AddRow(label, values)
}

func fallbackLabel(call *request.Call) string {
	if len(call.DataKeys) > 0 {
		return call.DataKeys[0]
	}
	if call.Descriptor != nil {
		return call.Descriptor.Function
	}
	return ""
}
