package client

import (
	"context"
	"strings"

	"alphavantage/pkg/config"
	"alphavantage/pkg/operation"
)

// with 合并必填参数与调用方的可选参数，必填参数优先
func with(extra operation.Args, kv ...any) operation.Args {
	args := make(operation.Args, len(extra)+len(kv)/2)
	for k, v := range extra {
		args[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		args[kv[i].(string)] = kv[i+1]
	}
	return args
}

// TimeSeries 股票时间序列
type TimeSeries struct{ *Client }

// NewTimeSeries 创建时间序列客户端
func NewTimeSeries(cfg config.ClientConfig, opts ...Option) (*TimeSeries, error) {
	c, err := newClient(operation.FamilyTimeSeries, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &TimeSeries{c}, nil
}

// Intraday 日内行情，extra 可包含 outputsize、adjusted、extended_hours、month
func (t *TimeSeries) Intraday(ctx context.Context, symbol, interval string, extra operation.Args) (*Result, error) {
	return t.Invoke(ctx, "intraday", with(extra, "symbol", symbol, "interval", interval))
}

// Daily 日线
func (t *TimeSeries) Daily(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Invoke(ctx, "daily", with(extra, "symbol", symbol))
}

// DailyAdjusted 复权日线
func (t *TimeSeries) DailyAdjusted(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Invoke(ctx, "daily_adjusted", with(extra, "symbol", symbol))
}

// Weekly 周线
func (t *TimeSeries) Weekly(ctx context.Context, symbol string) (*Result, error) {
	return t.Invoke(ctx, "weekly", with(nil, "symbol", symbol))
}

// WeeklyAdjusted 复权周线
func (t *TimeSeries) WeeklyAdjusted(ctx context.Context, symbol string) (*Result, error) {
	return t.Invoke(ctx, "weekly_adjusted", with(nil, "symbol", symbol))
}

// Monthly 月线
func (t *TimeSeries) Monthly(ctx context.Context, symbol string) (*Result, error) {
	return t.Invoke(ctx, "monthly", with(nil, "symbol", symbol))
}

// MonthlyAdjusted 复权月线
func (t *TimeSeries) MonthlyAdjusted(ctx context.Context, symbol string) (*Result, error) {
	return t.Invoke(ctx, "monthly_adjusted", with(nil, "symbol", symbol))
}

// QuoteEndpoint 最新报价
func (t *TimeSeries) QuoteEndpoint(ctx context.Context, symbol string) (*Result, error) {
	return t.Invoke(ctx, "quote_endpoint", with(nil, "symbol", symbol))
}

// SymbolSearch 代码搜索
func (t *TimeSeries) SymbolSearch(ctx context.Context, keywords string) (*Result, error) {
	return t.Invoke(ctx, "symbol_search", with(nil, "keywords", keywords))
}

// BatchStockQuotes 批量报价
func (t *TimeSeries) BatchStockQuotes(ctx context.Context, symbols []string) (*Result, error) {
	return t.Invoke(ctx, "batch_stock_quotes", with(nil, "symbols", symbols))
}

// TechIndicators 技术指标
type TechIndicators struct{ *Client }

// NewTechIndicators 创建技术指标客户端，不支持 csv 输出
func NewTechIndicators(cfg config.ClientConfig, opts ...Option) (*TechIndicators, error) {
	c, err := newClient(operation.FamilyTechIndicators, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &TechIndicators{c}, nil
}

// Indicator 按指标名调用，如 "SMA"、"MACDEXT"
func (t *TechIndicators) Indicator(ctx context.Context, name, symbol string, extra operation.Args) (*Result, error) {
	return t.Invoke(ctx, strings.ToLower(name), with(extra, "symbol", symbol))
}

// SMA 简单移动平均
func (t *TechIndicators) SMA(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Indicator(ctx, "SMA", symbol, extra)
}

// EMA 指数移动平均
func (t *TechIndicators) EMA(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Indicator(ctx, "EMA", symbol, extra)
}

// RSI 相对强弱指数
func (t *TechIndicators) RSI(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Indicator(ctx, "RSI", symbol, extra)
}

// MACD 指数平滑异同移动平均
func (t *TechIndicators) MACD(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Indicator(ctx, "MACD", symbol, extra)
}

// BBANDS 布林带
func (t *TechIndicators) BBANDS(ctx context.Context, symbol string, extra operation.Args) (*Result, error) {
	return t.Indicator(ctx, "BBANDS", symbol, extra)
}

// ForeignExchange 外汇
type ForeignExchange struct{ *Client }

// NewForeignExchange 创建外汇客户端，不支持 csv 输出
func NewForeignExchange(cfg config.ClientConfig, opts ...Option) (*ForeignExchange, error) {
	c, err := newClient(operation.FamilyForeignExchange, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &ForeignExchange{c}, nil
}

// CurrencyExchangeRate 实时汇率
func (f *ForeignExchange) CurrencyExchangeRate(ctx context.Context, from, to string) (*Result, error) {
	return f.Invoke(ctx, "currency_exchange_rate", with(nil, "from_currency", from, "to_currency", to))
}

// Intraday 日内汇率
func (f *ForeignExchange) Intraday(ctx context.Context, from, to, interval string, extra operation.Args) (*Result, error) {
	return f.Invoke(ctx, "fx_intraday", with(extra, "from_symbol", from, "to_symbol", to, "interval", interval))
}

// Daily 日线汇率
func (f *ForeignExchange) Daily(ctx context.Context, from, to string, extra operation.Args) (*Result, error) {
	return f.Invoke(ctx, "fx_daily", with(extra, "from_symbol", from, "to_symbol", to))
}

// Weekly 周线汇率
func (f *ForeignExchange) Weekly(ctx context.Context, from, to string) (*Result, error) {
	return f.Invoke(ctx, "fx_weekly", with(nil, "from_symbol", from, "to_symbol", to))
}

// Monthly 月线汇率
func (f *ForeignExchange) Monthly(ctx context.Context, from, to string) (*Result, error) {
	return f.Invoke(ctx, "fx_monthly", with(nil, "from_symbol", from, "to_symbol", to))
}

// CryptoCurrencies 数字货币
type CryptoCurrencies struct{ *Client }

// NewCryptoCurrencies 创建数字货币客户端，不支持 csv 输出
func NewCryptoCurrencies(cfg config.ClientConfig, opts ...Option) (*CryptoCurrencies, error) {
	c, err := newClient(operation.FamilyCryptoCurrencies, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &CryptoCurrencies{c}, nil
}

// ExchangeRate 数字货币实时汇率
func (c *CryptoCurrencies) ExchangeRate(ctx context.Context, from, to string) (*Result, error) {
	return c.Invoke(ctx, "crypto_exchange_rate", with(nil, "from_currency", from, "to_currency", to))
}

// Intraday 日内行情
func (c *CryptoCurrencies) Intraday(ctx context.Context, symbol, market, interval string) (*Result, error) {
	return c.Invoke(ctx, "crypto_intraday", with(nil, "symbol", symbol, "market", market, "interval", interval))
}

// Daily 日线
func (c *CryptoCurrencies) Daily(ctx context.Context, symbol, market string) (*Result, error) {
	return c.Invoke(ctx, "digital_currency_daily", with(nil, "symbol", symbol, "market", market))
}

// Weekly 周线
func (c *CryptoCurrencies) Weekly(ctx context.Context, symbol, market string) (*Result, error) {
	return c.Invoke(ctx, "digital_currency_weekly", with(nil, "symbol", symbol, "market", market))
}

// Monthly 月线
func (c *CryptoCurrencies) Monthly(ctx context.Context, symbol, market string) (*Result, error) {
	return c.Invoke(ctx, "digital_currency_monthly", with(nil, "symbol", symbol, "market", market))
}

// FundamentalData 基本面数据
type FundamentalData struct{ *Client }

// NewFundamentalData 创建基本面客户端，不支持 csv 输出
func NewFundamentalData(cfg config.ClientConfig, opts ...Option) (*FundamentalData, error) {
	c, err := newClient(operation.FamilyFundamentalData, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &FundamentalData{c}, nil
}

func (f *FundamentalData) bySymbol(ctx context.Context, id, symbol string) (*Result, error) {
	return f.Invoke(ctx, id, with(nil, "symbol", symbol))
}

// CompanyOverview 公司概况
func (f *FundamentalData) CompanyOverview(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "company_overview", symbol)
}

// Earnings 年度与季度盈利
func (f *FundamentalData) Earnings(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "earnings", symbol)
}

// EarningsAnnual 年度盈利
func (f *FundamentalData) EarningsAnnual(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "earnings_annual", symbol)
}

// EarningsQuarterly 季度盈利
func (f *FundamentalData) EarningsQuarterly(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "earnings_quarterly", symbol)
}

// IncomeStatementAnnual 年度利润表
func (f *FundamentalData) IncomeStatementAnnual(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "income_statement_annual", symbol)
}

// IncomeStatementQuarterly 季度利润表
func (f *FundamentalData) IncomeStatementQuarterly(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "income_statement_quarterly", symbol)
}

// BalanceSheetAnnual 年度资产负债表
func (f *FundamentalData) BalanceSheetAnnual(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "balance_sheet_annual", symbol)
}

// BalanceSheetQuarterly 季度资产负债表
func (f *FundamentalData) BalanceSheetQuarterly(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "balance_sheet_quarterly", symbol)
}

// CashFlowAnnual 年度现金流量表
func (f *FundamentalData) CashFlowAnnual(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "cash_flow_annual", symbol)
}

// CashFlowQuarterly 季度现金流量表
func (f *FundamentalData) CashFlowQuarterly(ctx context.Context, symbol string) (*Result, error) {
	return f.bySymbol(ctx, "cash_flow_quarterly", symbol)
}

// SectorPerformances 板块表现
type SectorPerformances struct{ *Client }

// NewSectorPerformances 创建板块表现客户端，不支持 csv 输出
func NewSectorPerformances(cfg config.ClientConfig, opts ...Option) (*SectorPerformances, error) {
	c, err := newClient(operation.FamilySectorPerformances, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &SectorPerformances{c}, nil
}

// Sector 各板块在十个时间窗口的涨跌比率
func (s *SectorPerformances) Sector(ctx context.Context) (*Result, error) {
	return s.Invoke(ctx, "sector", nil)
}

// AlphaIntelligence 新闻情绪与涨跌榜
type AlphaIntelligence struct{ *Client }

// NewAlphaIntelligence 创建 Alpha Intelligence 客户端
func NewAlphaIntelligence(cfg config.ClientConfig, opts ...Option) (*AlphaIntelligence, error) {
	c, err := newClient(operation.FamilyAlphaIntelligence, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &AlphaIntelligence{c}, nil
}

// NewsSentiment 新闻情绪，extra 可包含 topics、time_from、time_to、sort、limit
func (a *AlphaIntelligence) NewsSentiment(ctx context.Context, tickers []string, extra operation.Args) (*Result, error) {
	return a.Invoke(ctx, "news_sentiment", with(extra, "tickers", tickers))
}

// TopGainers 涨幅榜
func (a *AlphaIntelligence) TopGainers(ctx context.Context) (*Result, error) {
	return a.Invoke(ctx, "top_gainers", nil)
}

// TopLosers 跌幅榜
func (a *AlphaIntelligence) TopLosers(ctx context.Context) (*Result, error) {
	return a.Invoke(ctx, "top_losers", nil)
}

// MostActivelyTraded 成交活跃榜
func (a *AlphaIntelligence) MostActivelyTraded(ctx context.Context) (*Result, error) {
	return a.Invoke(ctx, "most_actively_traded", nil)
}

// GlobalQuotes 全球报价，输出格式固定为结构化
type GlobalQuotes struct{ *Client }

// NewGlobalQuotes 创建全球报价客户端
func NewGlobalQuotes(cfg config.ClientConfig, opts ...Option) (*GlobalQuotes, error) {
	c, err := newClient(operation.FamilyGlobalQuotes, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &GlobalQuotes{c}, nil
}

// GlobalQuote 单只股票的最新报价
func (g *GlobalQuotes) GlobalQuote(ctx context.Context, symbol string) (*Result, error) {
	return g.Invoke(ctx, "global_quote", with(nil, "symbol", symbol))
}
