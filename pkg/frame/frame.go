// Package frame 提供带行索引的二维表格，作为表格输出模式的载体。
package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/cast"
)

// Available 表格能力是否可用，始终编译在内
func Available() bool { return true }

// IndexKind 行索引类型
type IndexKind int

const (
	IndexLabel   IndexKind = iota // 原始字符串标签
	IndexTime                     // 解析后的时间戳
	IndexInteger                  // 从 0 开始的整数序列
)

func (k IndexKind) String() string {
	switch k {
	case IndexLabel:
		return "label"
	case IndexTime:
		return "time"
	case IndexInteger:
		return "integer"
	}
	return "unknown"
}

// Index 行索引，Labels 与 Times 按 Kind 二选一
type Index struct {
	Kind   IndexKind
	Name   string
	Labels []string
	Times  []time.Time
}

// Frame 带列名与行索引的表格
type Frame struct {
	Columns []string
	Index   Index
	rows    [][]any
}

// New 创建以字符串标签为索引的空表格
func New(columns ...string) *Frame {
	return &Frame{
		Columns: append([]string(nil), columns...),
		Index:   Index{Kind: IndexLabel},
	}
}

// NewIntegerIndexed 创建整数索引的空表格
func NewIntegerIndexed(columns ...string) *Frame {
	f := New(columns...)
	f.Index.Kind = IndexInteger
	return f
}

// AddRow 追加一行，整数索引的表格忽略 label
func (f *Frame) AddRow(label string, values []any) error {
	if len(values) != len(f.Columns) {
		return fmt.Errorf("row %q has %d values, frame has %d columns", label, len(values), len(f.Columns))
	}
	if f.Index.Kind == IndexLabel {
		f.Index.Labels = append(f.Index.Labels, label)
	}
	f.rows = append(f.rows, append([]any(nil), values...))
	return nil
}

// Len 行数
func (f *Frame) Len() int { return len(f.rows) }

// Width 列数
func (f *Frame) Width() int { return len(f.Columns) }

// ColumnIndex 返回列下标，不存在时为 -1
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column 按列名取整列
func (f *Frame) Column(name string) ([]any, bool) {
	j := f.ColumnIndex(name)
	if j < 0 {
		return nil, false
	}
	out := make([]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = row[j]
	}
	return out, true
}

// Row 返回第 i 行的拷贝
func (f *Frame) Row(i int) []any {
	return append([]any(nil), f.rows[i]...)
}

// At 返回第 i 行指定列的值
func (f *Frame) At(i int, column string) (any, bool) {
	j := f.ColumnIndex(column)
	if j < 0 || i < 0 || i >= len(f.rows) {
		return nil, false
	}
	return f.rows[i][j], true
}

// Float 以 float64 读取单元格
func (f *Frame) Float(i int, column string) (float64, bool) {
	v, ok := f.At(i, column)
	if !ok {
		return 0, false
	}
	x, err := ToFloat(v)
	return x, err == nil
}

// Label 返回第 i 行的索引值：标签、时间或整数
func (f *Frame) Label(i int) any {
	switch f.Index.Kind {
	case IndexTime:
		return f.Index.Times[i]
	case IndexInteger:
		return i
	}
	return f.Index.Labels[i]
}

// Records 将表格转为记录列表，键为列名
func (f *Frame) Records() []map[string]any {
	out := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		rec := make(map[string]any, len(f.Columns))
		for j, c := range f.Columns {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}

// RenameColumns 用 rename 重写每个列名
func (f *Frame) RenameColumns(rename func(string) string) {
	for i, c := range f.Columns {
		f.Columns[i] = rename(c)
	}
}

// ToFloat 将单元格值转换为 float64，nil 视为 NaN
func ToFloat(v any) (float64, error) {
	if v == nil {
		return math.NaN(), nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return 0, fmt.Errorf("unable to cast %T to float64", v)
	}
	return cast.ToFloat64E(v)
}
