package operation

import (
	"strings"

	"alphavantage/pkg/config"
)

// Family 操作族，同族操作共享 datatype 与 CSV 规则
type Family string

const (
	FamilyTimeSeries         Family = "TimeSeries"
	FamilyTechIndicators     Family = "TechIndicators"
	FamilyForeignExchange    Family = "ForeignExchange"
	FamilyCryptoCurrencies   Family = "CryptoCurrencies"
	FamilyFundamentalData    Family = "FundamentalData"
	FamilySectorPerformances Family = "SectorPerformances"
	FamilyAlphaIntelligence  Family = "AlphaIntelligence"
	FamilyGlobalQuotes       Family = "GlobalQuotes"
)

// AllowsCSV 该族是否允许分隔文本输出
func (f Family) AllowsCSV() bool {
	switch f {
	case FamilyTechIndicators, FamilyForeignExchange, FamilyCryptoCurrencies,
		FamilyFundamentalData, FamilySectorPerformances:
		return false
	}
	return true
}

// AppendsDatatype 该族是否需要追加 datatype 参数
func (f Family) AppendsDatatype() bool {
	switch f {
	case FamilyTimeSeries, FamilyAlphaIntelligence, FamilyGlobalQuotes:
		return true
	}
	return false
}

// Formatting 响应整形方式
type Formatting string

const (
	FormattingDefault Formatting = "default"
	FormattingSector  Formatting = "sector"
)

// ArgSpec 参数声明：名称、默认值、是否必填
type ArgSpec struct {
	Name     string
	Default  any
	Required bool
}

// Required 声明一个必填参数
func Required(name string) ArgSpec {
	return ArgSpec{Name: name, Required: true}
}

// Optional 声明一个带默认值的参数，nil 表示交由服务端决定
func Optional(name string, def any) ArgSpec {
	return ArgSpec{Name: name, Default: def}
}

// Descriptor 描述一个 API 能力，注册后不可变
type Descriptor struct {
	ID             string              // 注册表唯一键
	Function       string              // 发送给服务端的 function 参数
	Family         Family              // 所属操作族
	Args           []ArgSpec           // 有序参数声明
	AppendDatatype bool                // 是否追加 datatype 参数
	DataKeys       []string            // 主数据键，可含 {arg} 占位符；为空表示整个响应
	MetaKey        string              // 元数据键，为空表示无元数据
	Formatting     Formatting          // 整形方式
	Override       config.OutputFormat // 非空时强制该操作的输出格式
}

// Arg 按名称查找参数声明
func (d *Descriptor) Arg(name string) (ArgSpec, bool) {
	for _, a := range d.Args {
		if a.Name == name {
			return a, true
		}
	}
	return ArgSpec{}, false
}

// ResolveDataKeys 用实际参数值替换数据键中的占位符
func (d *Descriptor) ResolveDataKeys(values map[string]string) []string {
	if len(d.DataKeys) == 0 {
		return nil
	}
	keys := make([]string, len(d.DataKeys))
	for i, k := range d.DataKeys {
		for name, v := range values {
			k = strings.ReplaceAll(k, "{"+name+"}", v)
		}
		keys[i] = k
	}
	return keys
}

// Args 调用方提供的参数，键为参数名
type Args map[string]any
