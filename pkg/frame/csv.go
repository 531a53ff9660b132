package frame

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ToCSV 序列化为分隔文本行，首列为行索引
func (f *Frame) ToCSV() [][]string {
	out := make([][]string, 0, len(f.rows)+1)

	header := make([]string, 0, len(f.Columns)+1)
	switch f.Index.Kind {
	case IndexInteger:
		header = append(header, "index")
	default:
		header = append(header, f.Index.Name)
	}
	out = append(out, append(header, f.Columns...))

	layout := f.timeLayout()
	for i, row := range f.rows {
		rec := make([]string, 0, len(row)+1)
		switch f.Index.Kind {
		case IndexTime:
			rec = append(rec, f.Index.Times[i].Format(layout))
		case IndexInteger:
			rec = append(rec, strconv.Itoa(i))
		default:
			rec = append(rec, f.Index.Labels[i])
		}
		for _, v := range row {
			rec = append(rec, formatCell(v, layout))
		}
		out = append(out, rec)
	}
	return out
}

// WriteCSV 将表格写入 w
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(f.ToCSV()); err != nil {
		return fmt.Errorf("write csv failed: %w", err)
	}
	return nil
}

// timeLayout 全部时间点为零点时只输出日期
func (f *Frame) timeLayout() string {
	for _, t := range f.Index.Times {
		if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}

func formatCell(v any, layout string) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(layout)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// FromRows 由表头加数据行构建整数索引表格，值保持字符串。
// 表头首列为空或为 index 时视为索引列，与 ToCSV 的输出对应。
func FromRows(rows [][]string) (*Frame, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}
	header := rows[0]
	indexed := len(header) > 0 && (header[0] == "" || header[0] == "index")

	columns := header
	if indexed {
		columns = header[1:]
	}

	var f *Frame
	if indexed && header[0] == "" {
		f = New(columns...)
	} else {
		f = NewIntegerIndexed(columns...)
	}

	for n, rec := range rows[1:] {
		label := ""
		if indexed {
			if len(rec) == 0 {
				return nil, fmt.Errorf("csv row %d is empty", n+1)
			}
			label, rec = rec[0], rec[1:]
		}
		values := make([]any, len(rec))
		for i, s := range rec {
			values[i] = s
		}
		if err := f.AddRow(label, values); err != nil {
			return nil, fmt.Errorf("csv row %d: %w", n+1, err)
		}
	}

	if f.Index.Kind == IndexLabel && f.Len() > 0 {
		// 解析失败时保留字符串标签
		_ = f.ParseTimeIndex()
	}
	return f, nil
}

// ParseCSV 读取分隔文本并构建表格
func ParseCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv failed: %w", err)
	}
	return FromRows(rows)
}
