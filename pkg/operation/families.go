package operation

import "alphavantage/pkg/config"

const metaData = "Meta Data"

func timeSeries(id, function, dataKey string, args ...ArgSpec) Descriptor {
	return Descriptor{
		ID:             id,
		Function:       function,
		Family:         FamilyTimeSeries,
		Args:           args,
		AppendDatatype: true,
		DataKeys:       []string{dataKey},
		MetaKey:        metaData,
	}
}

func timeSeriesOperations() []Descriptor {
	symbol := Required("symbol")
	outputSize := Optional("outputsize", "compact")

	ops := []Descriptor{
		timeSeries("intraday", "TIME_SERIES_INTRADAY", "Time Series ({interval})",
			symbol, Optional("interval", "15min"), outputSize,
			Optional("adjusted", nil), Optional("extended_hours", nil), Optional("month", "")),
		timeSeries("daily", "TIME_SERIES_DAILY", "Time Series (Daily)", symbol, outputSize),
		timeSeries("daily_adjusted", "TIME_SERIES_DAILY_ADJUSTED", "Time Series (Daily)", symbol, outputSize),
		timeSeries("weekly", "TIME_SERIES_WEEKLY", "Weekly Time Series", symbol),
		timeSeries("weekly_adjusted", "TIME_SERIES_WEEKLY_ADJUSTED", "Weekly Adjusted Time Series", symbol),
		timeSeries("monthly", "TIME_SERIES_MONTHLY", "Monthly Time Series", symbol),
		timeSeries("monthly_adjusted", "TIME_SERIES_MONTHLY_ADJUSTED", "Monthly Adjusted Time Series", symbol),
		timeSeries("batch_stock_quotes", "BATCH_STOCK_QUOTES", "Stock Quotes", Required("symbols")),
	}

	quote := timeSeries("quote_endpoint", "GLOBAL_QUOTE", "Global Quote", symbol)
	quote.MetaKey = ""
	search := timeSeries("symbol_search", "SYMBOL_SEARCH", "bestMatches", Required("keywords"))
	search.MetaKey = ""

	return append(ops, quote, search)
}

func foreignExchangeOperations() []Descriptor {
	fx := func(id, function, dataKey, metaKey string, args ...ArgSpec) Descriptor {
		return Descriptor{
			ID:       id,
			Function: function,
			Family:   FamilyForeignExchange,
			Args:     args,
			DataKeys: []string{dataKey},
			MetaKey:  metaKey,
		}
	}
	from, to := Required("from_symbol"), Required("to_symbol")
	outputSize := Optional("outputsize", "compact")

	return []Descriptor{
		fx("currency_exchange_rate", "CURRENCY_EXCHANGE_RATE", "Realtime Currency Exchange Rate", "",
			Required("from_currency"), Required("to_currency")),
		fx("fx_intraday", "FX_INTRADAY", "Time Series FX ({interval})", metaData,
			from, to, Optional("interval", "15min"), outputSize),
		fx("fx_daily", "FX_DAILY", "Time Series FX (Daily)", metaData, from, to, outputSize),
		fx("fx_weekly", "FX_WEEKLY", "Time Series FX (Weekly)", metaData, from, to),
		fx("fx_monthly", "FX_MONTHLY", "Time Series FX (Monthly)", metaData, from, to),
	}
}

func cryptoOperations() []Descriptor {
	crypto := func(id, function, dataKey, metaKey string, args ...ArgSpec) Descriptor {
		return Descriptor{
			ID:       id,
			Function: function,
			Family:   FamilyCryptoCurrencies,
			Args:     args,
			DataKeys: []string{dataKey},
			MetaKey:  metaKey,
		}
	}
	symbol, market := Required("symbol"), Required("market")

	return []Descriptor{
		crypto("crypto_exchange_rate", "CURRENCY_EXCHANGE_RATE", "Realtime Currency Exchange Rate", "",
			Required("from_currency"), Required("to_currency")),
		crypto("crypto_intraday", "CRYPTO_INTRADAY", "Time Series Crypto ({interval})", metaData,
			symbol, market, Optional("interval", "5min"), Optional("outputsize", "compact")),
		crypto("digital_currency_daily", "DIGITAL_CURRENCY_DAILY", "Time Series (Digital Currency Daily)", metaData,
			symbol, market),
		crypto("digital_currency_weekly", "DIGITAL_CURRENCY_WEEKLY", "Time Series (Digital Currency Weekly)", metaData,
			symbol, market),
		crypto("digital_currency_monthly", "DIGITAL_CURRENCY_MONTHLY", "Time Series (Digital Currency Monthly)", metaData,
			symbol, market),
	}
}

func fundamentalOperations() []Descriptor {
	fundamental := func(id, function, dataKey, metaKey string) Descriptor {
		d := Descriptor{
			ID:       id,
			Function: function,
			Family:   FamilyFundamentalData,
			Args:     []ArgSpec{Required("symbol")},
			MetaKey:  metaKey,
		}
		if dataKey != "" {
			d.DataKeys = []string{dataKey}
		}
		return d
	}

	return []Descriptor{
		fundamental("company_overview", "OVERVIEW", "", ""),
		fundamental("earnings", "EARNINGS", "", ""),
		fundamental("earnings_annual", "EARNINGS", "annualEarnings", "symbol"),
		fundamental("earnings_quarterly", "EARNINGS", "quarterlyEarnings", "symbol"),
		fundamental("income_statement_annual", "INCOME_STATEMENT", "annualReports", "symbol"),
		fundamental("income_statement_quarterly", "INCOME_STATEMENT", "quarterlyReports", "symbol"),
		fundamental("balance_sheet_annual", "BALANCE_SHEET", "annualReports", "symbol"),
		fundamental("balance_sheet_quarterly", "BALANCE_SHEET", "quarterlyReports", "symbol"),
		fundamental("cash_flow_annual", "CASH_FLOW", "annualReports", "symbol"),
		fundamental("cash_flow_quarterly", "CASH_FLOW", "quarterlyReports", "symbol"),
	}
}

// SectorRankKeys 板块表现响应中的十个排名区块
var SectorRankKeys = []string{
	"Rank A: Real-Time Performance",
	"Rank B: 1 Day Performance",
	"Rank C: 5 Day Performance",
	"Rank D: 1 Month Performance",
	"Rank E: 3 Month Performance",
	"Rank F: Year-to-Date (YTD) Performance",
	"Rank G: 1 Year Performance",
	"Rank H: 3 Year Performance",
	"Rank I: 5 Year Performance",
	"Rank J: 10 Year Performance",
}

func sectorOperations() []Descriptor {
	return []Descriptor{{
		ID:         "sector",
		Function:   "SECTOR",
		Family:     FamilySectorPerformances,
		DataKeys:   SectorRankKeys,
		MetaKey:    metaData,
		Formatting: FormattingSector,
	}}
}

func intelligenceOperations() []Descriptor {
	movers := func(id, key string) Descriptor {
		return Descriptor{
			ID:             id,
			Function:       "TOP_GAINERS_LOSERS",
			Family:         FamilyAlphaIntelligence,
			AppendDatatype: true,
			DataKeys:       []string{key},
		}
	}

	return []Descriptor{
		{
			ID:       "news_sentiment",
			Function: "NEWS_SENTIMENT",
			Family:   FamilyAlphaIntelligence,
			Args: []ArgSpec{
				Required("tickers"),
				Optional("topics", nil),
				Optional("time_from", nil),
				Optional("time_to", nil),
				Optional("sort", nil),
				Optional("limit", nil),
			},
			AppendDatatype: true,
			DataKeys:       []string{"feed"},
		},
		movers("top_gainers", "top_gainers"),
		movers("top_losers", "top_losers"),
		movers("most_actively_traded", "most_actively_traded"),
	}
}

func globalQuoteOperations() []Descriptor {
	return []Descriptor{{
		ID:             "global_quote",
		Function:       "GLOBAL_QUOTE",
		Family:         FamilyGlobalQuotes,
		Args:           []ArgSpec{Required("symbol")},
		AppendDatatype: true,
		DataKeys:       []string{"Global Quote"},
		Override:       config.FormatJSON,
	}}
}
