package frame

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// TimeLayouts 解析时间索引时依次尝试的格式
var TimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"20060102T150405",
	"20060102T1504",
}

// ParseTime 按 TimeLayouts 解析时间字符串
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range TimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", s)
}

// ResetIndex 把行索引移到首列 column，并改为名为 index 的整数索引。
// 已经是整数索引时不做任何事。
func (f *Frame) ResetIndex(column string) {
	if f.Index.Kind == IndexInteger {
		return
	}
	for i, row := range f.rows {
		f.rows[i] = append([]any{f.Label(i)}, row...)
	}
	f.Columns = append([]string{column}, f.Columns...)
	f.Index = Index{Kind: IndexInteger, Name: "index"}
}

// SetIndexColumn 用指定列的值作为字符串标签索引，并从表体中删除该列
func (f *Frame) SetIndexColumn(column string) error {
	j := f.ColumnIndex(column)
	if j < 0 {
		return fmt.Errorf("column %s not found", column)
	}
	labels := make([]string, len(f.rows))
	for i, row := range f.rows {
		s, err := cast.ToStringE(row[j])
		if err != nil {
			return fmt.Errorf("column %s row %d: %w", column, i, err)
		}
		labels[i] = s
		f.rows[i] = append(row[:j:j], row[j+1:]...)
	}
	f.Columns = append(f.Columns[:j:j], f.Columns[j+1:]...)
	f.Index = Index{Kind: IndexLabel, Name: column, Labels: labels}
	return nil
}

// ParseTimeIndex 把字符串标签索引解析为时间索引，任一标签无法解析即失败
func (f *Frame) ParseTimeIndex() error {
	switch f.Index.Kind {
	case IndexTime:
		return nil
	case IndexInteger:
		return fmt.Errorf("integer index cannot be parsed as timestamps")
	}
	times := make([]time.Time, len(f.Index.Labels))
	for i, label := range f.Index.Labels {
		t, err := ParseTime(label)
		if err != nil {
			return err
		}
		times[i] = t
	}
	f.Index = Index{Kind: IndexTime, Times: times}
	return nil
}
