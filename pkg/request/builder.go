// Package request 根据操作描述与调用参数构建查询参数，不做任何 I/O。
package request

import (
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/operation"
)

// Params 一次调用的查询参数，不包含访问凭证
type Params map[string]string

// Clone 返回参数拷贝
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Call 构建完成的一次调用
type Call struct {
	Params     Params
	DataKeys   []string
	MetaKey    string
	Format     config.OutputFormat
	Formatting operation.Formatting
	Descriptor *operation.Descriptor
}

// Build 按描述声明的参数顺序解析实际值并生成查询参数。
// format 为客户端当前的输出格式，描述中的 Override 优先。
func Build(desc *operation.Descriptor, args operation.Args, format config.OutputFormat) (*Call, error) {
	for name := range args {
		if _, ok := desc.Arg(name); !ok {
			return nil, averr.Errorf(averr.ErrInvalidArgument,
				"%s does not accept argument %s", desc.ID, name)
		}
	}

	if desc.Override != "" {
		format = desc.Override
	}

	params := make(Params, len(desc.Args)+2)
	effective := make(map[string]string, len(desc.Args))

	for _, spec := range desc.Args {
		value, supplied := args[spec.Name]
		if !supplied {
			if spec.Required {
				return nil, averr.Errorf(averr.ErrInvalidArgument,
					"%s requires argument %s", desc.ID, spec.Name)
			}
			value = spec.Default
		}

		if strings.Contains(spec.Name, "matype") && !isEmpty(value) {
			code, err := operation.MapToMAType(value)
			if err != nil {
				return nil, err
			}
			value = code
		}

		if isEmpty(value) {
			continue
		}

		s, err := encode(value)
		if err != nil {
			return nil, averr.WrapError(averr.ErrInvalidArgument, "argument "+spec.Name, err)
		}
		params[spec.Name] = s
		effective[spec.Name] = s
	}

	params["function"] = desc.Function
	if desc.AppendDatatype {
		params["datatype"] = datatype(format)
	}

	return &Call{
		Params:     params,
		DataKeys:   desc.ResolveDataKeys(effective),
		MetaKey:    desc.MetaKey,
		Format:     format,
		Formatting: desc.Formatting,
		Descriptor: desc,
	}, nil
}

// datatype 上游接口没有表格类型，表格模式按 json 请求
func datatype(format config.OutputFormat) string {
	if format == config.FormatPandas {
		return string(config.FormatJSON)
	}
	return string(format)
}

// isEmpty 判断参数是否应省略，交由服务端使用默认值
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return rv.IsZero()
}

// encode 列表按逗号连接，标量转为字符串
func encode(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, rv.Len())
		for i := range items {
			s, err := cast.ToStringE(rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			items[i] = s
		}
		return strings.Join(items, ","), nil
	}
	return cast.ToStringE(v)
}
