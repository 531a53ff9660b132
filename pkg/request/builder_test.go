package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/operation"
)

func lookup(t *testing.T, id string) *operation.Descriptor {
	t.Helper()
	desc, err := operation.Default.Lookup(id)
	require.NoError(t, err)
	return desc
}

func TestBuild_Intraday(t *testing.T) {
	desc := lookup(t, "intraday")

	call, err := Build(desc, operation.Args{"symbol": "MSFT", "interval": "1min"}, config.FormatPandas)
	require.NoError(t, err)

	assert.Equal(t, Params{
		"function":   "TIME_SERIES_INTRADAY",
		"symbol":     "MSFT",
		"interval":   "1min",
		"outputsize": "compact",
		"datatype":   "json",
	}, call.Params)
	assert.Equal(t, []string{"Time Series (1min)"}, call.DataKeys)
	assert.Equal(t, "Meta Data", call.MetaKey)
	assert.Equal(t, config.FormatPandas, call.Format)
}

func TestBuild_DefaultsResolveDataKey(t *testing.T) {
	call, err := Build(lookup(t, "intraday"), operation.Args{"symbol": "IBM"}, config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "15min", call.Params["interval"])
	assert.Equal(t, []string{"Time Series (15min)"}, call.DataKeys)
}

func TestBuild_OmitsEmptyValues(t *testing.T) {
	desc := lookup(t, "intraday")

	tests := []struct {
		name  string
		value any
	}{
		{"空字符串", ""},
		{"nil", nil},
		{"零值", 0},
		{"false", false},
		{"空列表", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := Build(desc, operation.Args{"symbol": "MSFT", "month": tt.value}, config.FormatJSON)
			require.NoError(t, err)
			assert.NotContains(t, call.Params, "month")
			assert.NotContains(t, call.Params, "adjusted")
			assert.NotContains(t, call.Params, "extended_hours")
		})
	}
}

func TestBuild_Encoding(t *testing.T) {
	t.Run("列表逗号连接", func(t *testing.T) {
		call, err := Build(lookup(t, "batch_stock_quotes"),
			operation.Args{"symbols": []string{"MSFT", "AAPL", "IBM"}}, config.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "MSFT,AAPL,IBM", call.Params["symbols"])
	})

	t.Run("数值与布尔", func(t *testing.T) {
		call, err := Build(lookup(t, "bbands"), operation.Args{
			"symbol":      "MSFT",
			"time_period": 60,
			"nbdevup":     2.5,
		}, config.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "60", call.Params["time_period"])
		assert.Equal(t, "2.5", call.Params["nbdevup"])

		call, err = Build(lookup(t, "intraday"), operation.Args{"symbol": "MSFT", "adjusted": true}, config.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, "true", call.Params["adjusted"])
	})
}

func TestBuild_MAType(t *testing.T) {
	desc := lookup(t, "macdext")

	call, err := Build(desc, operation.Args{
		"symbol":       "MSFT",
		"fastmatype":   "EMA",
		"slowmatype":   3,
		"signalmatype": "T3",
	}, config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "1", call.Params["fastmatype"])
	assert.Equal(t, "3", call.Params["slowmatype"])
	assert.Equal(t, "6", call.Params["signalmatype"])

	// SMA 映射为 0，与服务端默认值相同，省略
	call, err = Build(desc, operation.Args{"symbol": "MSFT", "fastmatype": "SMA"}, config.FormatJSON)
	require.NoError(t, err)
	assert.NotContains(t, call.Params, "fastmatype")

	_, err = Build(desc, operation.Args{"symbol": "MSFT", "fastmatype": "XMA"}, config.FormatJSON)
	assert.Equal(t, averr.ErrUnsupportedValue, averr.CodeOf(err))
}

func TestBuild_Datatype(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		format config.OutputFormat
		want   string
		has    bool
	}{
		{"表格按json请求", "daily", config.FormatPandas, "json", true},
		{"分隔文本", "daily", config.FormatCSV, "csv", true},
		{"结构化", "news_sentiment", config.FormatJSON, "json", true},
		{"覆盖输出格式", "global_quote", config.FormatCSV, "json", true},
		{"指标不追加", "sma", config.FormatPandas, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := lookup(t, tt.id)
			args := operation.Args{}
			for _, a := range desc.Args {
				if a.Required {
					args[a.Name] = "X"
				}
			}
			call, err := Build(desc, args, tt.format)
			require.NoError(t, err)
			got, ok := call.Params["datatype"]
			assert.Equal(t, tt.has, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_ArgumentErrors(t *testing.T) {
	desc := lookup(t, "daily")

	_, err := Build(desc, operation.Args{}, config.FormatJSON)
	assert.Equal(t, averr.ErrInvalidArgument, averr.CodeOf(err))

	_, err = Build(desc, operation.Args{"symbol": "MSFT", "colour": "red"}, config.FormatJSON)
	assert.Equal(t, averr.ErrInvalidArgument, averr.CodeOf(err))
}

func TestBuild_NoCredential(t *testing.T) {
	for _, id := range operation.Default.IDs() {
		desc := lookup(t, id)
		args := operation.Args{}
		for _, a := range desc.Args {
			if a.Required {
				args[a.Name] = "X"
			}
		}
		call, err := Build(desc, args, config.FormatJSON)
		require.NoError(t, err, id)
		assert.NotContains(t, call.Params, "apikey", id)
		assert.Equal(t, desc.Function, call.Params["function"], id)
	}
}
