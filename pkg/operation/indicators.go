package operation

import "strings"

// 技术指标的常见参数组合
var (
	seriesIndicators = []string{
		"SMA", "EMA", "WMA", "DEMA", "TEMA", "TRIMA", "KAMA", "T3",
		"RSI", "MOM", "CMO", "ROC", "ROCR", "AROON", "AROONOSC", "MFI", "TRIX", "DX", "MIDPOINT",
	}
	periodIndicators = []string{
		"WILLR", "ADX", "ADXR", "BOP", "CCI", "MINUS_DI", "PLUS_DI", "MINUS_DM", "PLUS_DM",
		"MIDPRICE", "ATR", "NATR",
	}
	hilbertIndicators = []string{
		"HT_TRENDLINE", "HT_SINE", "HT_TRENDMODE", "HT_DCPERIOD", "HT_DCPHASE", "HT_PHASOR",
	}
)

func indicator(function, dataKey string, args ...ArgSpec) Descriptor {
	if dataKey == "" {
		dataKey = "Technical Analysis: " + function
	}
	return Descriptor{
		ID:       strings.ToLower(function),
		Function: function,
		Family:   FamilyTechIndicators,
		Args:     append([]ArgSpec{Required("symbol")}, args...),
		DataKeys: []string{dataKey},
		MetaKey:  metaData,
	}
}

func indicatorOperations() []Descriptor {
	daily := Optional("interval", "daily")
	period := Optional("time_period", 20)
	series := Optional("series_type", "close")
	month := Optional("month", "")
	unset := func(names ...string) []ArgSpec {
		specs := make([]ArgSpec, len(names))
		for i, n := range names {
			specs[i] = Optional(n, nil)
		}
		return specs
	}
	with := func(base []ArgSpec, extra ...ArgSpec) []ArgSpec {
		return append(append([]ArgSpec(nil), base...), extra...)
	}

	var ops []Descriptor
	for _, fn := range seriesIndicators {
		ops = append(ops, indicator(fn, "", daily, period, series, month))
	}
	for _, fn := range periodIndicators {
		ops = append(ops, indicator(fn, "", daily, period, month))
	}
	for _, fn := range hilbertIndicators {
		ops = append(ops, indicator(fn, "", daily, series, month))
	}

	ops = append(ops,
		indicator("MAMA", "", with([]ArgSpec{daily, series, month}, unset("fastlimit", "slowlimit")...)...),
		indicator("VWAP", "", Optional("interval", "1min"), month),
		indicator("MACD", "", with([]ArgSpec{daily, series},
			append(unset("fastperiod", "slowperiod", "signalperiod"), month)...)...),
		indicator("MACDEXT", "", with([]ArgSpec{daily, series},
			append(unset("fastperiod", "slowperiod", "signalperiod",
				"fastmatype", "slowmatype", "signalmatype"), month)...)...),
		indicator("STOCH", "", with([]ArgSpec{daily},
			append(unset("fastkperiod", "slowkperiod", "slowdperiod", "slowkmatype", "slowdmatype"), month)...)...),
		indicator("STOCHF", "", with([]ArgSpec{daily},
			append(unset("fastkperiod", "fastdperiod", "fastdmatype"), month)...)...),
		indicator("STOCHRSI", "", with([]ArgSpec{daily, period, series},
			append(unset("fastkperiod", "fastdperiod", "fastdmatype"), month)...)...),
		indicator("APO", "", with([]ArgSpec{daily, series},
			append(unset("fastperiod", "slowperiod", "matype"), month)...)...),
		indicator("PPO", "", with([]ArgSpec{daily, series},
			append(unset("fastperiod", "slowperiod", "matype"), month)...)...),
		indicator("ULTOSC", "", with([]ArgSpec{daily},
			append(unset("timeperiod1", "timeperiod2", "timeperiod3"), month)...)...),
		indicator("BBANDS", "", with([]ArgSpec{daily, period, series},
			append(unset("nbdevup", "nbdevdn", "matype"), month)...)...),
		indicator("SAR", "", with([]ArgSpec{daily}, append(unset("acceleration", "maximum"), month)...)...),
		indicator("TRANGE", "", daily, month),
		indicator("OBV", "", daily, month),
		indicator("AD", "Technical Analysis: Chaikin A/D", daily, month),
		indicator("ADOSC", "", with([]ArgSpec{daily}, append(unset("fastperiod", "slowperiod"), month)...)...),
	)
	return ops
}
