package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
	"alphavantage/pkg/frame"
	"alphavantage/pkg/operation"
	"alphavantage/pkg/request"
	"alphavantage/pkg/testkit"
	"alphavantage/pkg/transport"
)

func testConfig(format config.OutputFormat) config.ClientConfig {
	return config.ClientConfig{
		APIKey:       "test",
		OutputFormat: format,
		IndexingType: config.IndexDate,
	}
}

func TestTimeSeries_IntradayTabular(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("TIME_SERIES_INTRADAY", testkit.IntradayMSFT1min)

	ts, err := NewTimeSeries(testConfig(config.FormatPandas), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	res, err := ts.Intraday(context.Background(), "MSFT", "1min", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Frame)

	assert.Equal(t, config.FormatPandas, res.Format)
	assert.GreaterOrEqual(t, res.Frame.Width(), 4)
	assert.Equal(t, 3, res.Frame.Len())
	assert.Equal(t, frame.IndexTime, res.Frame.Index.Kind)
	assert.Equal(t, "MSFT", res.Meta["2. Symbol"])
	assert.Equal(t, "1min", res.Meta["4. Interval"])

	q := mock.LastRequest().Query
	assert.Equal(t, "TIME_SERIES_INTRADAY", q.Get("function"))
	assert.Equal(t, "json", q.Get("datatype"))
	assert.Equal(t, "test", q.Get("apikey"))
}

func TestClient_StructuredNote(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("TIME_SERIES_DAILY", testkit.NoteBody)

	c, err := New(testConfig(config.FormatJSON), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Invoke(context.Background(), "daily", operation.Args{"symbol": "MSFT"})
	require.Error(t, err)
	assert.Equal(t, averr.ErrAPINote, averr.CodeOf(err))
	assert.Contains(t, err.Error(), "standard API call frequency")
}

func TestClient_InfoAsData(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("GLOBAL_QUOTE", testkit.InformationBody)

	cfg := testConfig(config.FormatJSON)
	cfg.IgnoreInformation = true
	gq, err := NewGlobalQuotes(cfg, WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer gq.Close()

	// 不视为错误时 Information 作为数据返回，但数据键缺失
	_, err = gq.GlobalQuote(context.Background(), "MSFT")
	require.Error(t, err)
	assert.Equal(t, averr.ErrInvalidResponse, averr.CodeOf(err))
}

func TestNew_MissingAPIKey(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "")
	mock := testkit.NewMockServer()
	defer mock.Close()

	_, err := New(config.ClientConfig{}, WithBaseURL(mock.URL()))
	require.Error(t, err)
	assert.Equal(t, averr.ErrConfigInvalid, averr.CodeOf(err))
	assert.Contains(t, err.Error(), config.APIKeyEnv)
	assert.Equal(t, 0, mock.RequestCount())
}

func TestNew_APIKeyFromEnv(t *testing.T) {
	t.Setenv(config.APIKeyEnv, "from-env")
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("GLOBAL_QUOTE", testkit.GlobalQuoteMSFT)

	gq, err := NewGlobalQuotes(config.ClientConfig{}, WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer gq.Close()

	assert.Equal(t, "from-env", gq.Config().APIKey)
	_, err = gq.GlobalQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "from-env", mock.LastRequest().Query.Get("apikey"))
}

func TestNew_FamilyRejectsCSV(t *testing.T) {
	tests := []struct {
		name    string
		factory func(config.ClientConfig) error
	}{
		{"技术指标", func(c config.ClientConfig) error { _, err := NewTechIndicators(c); return err }},
		{"外汇", func(c config.ClientConfig) error { _, err := NewForeignExchange(c); return err }},
		{"数字货币", func(c config.ClientConfig) error { _, err := NewCryptoCurrencies(c); return err }},
		{"基本面", func(c config.ClientConfig) error { _, err := NewFundamentalData(c); return err }},
		{"板块表现", func(c config.ClientConfig) error { _, err := NewSectorPerformances(c); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.factory(testConfig(config.FormatCSV))
			require.Error(t, err)
			assert.Equal(t, averr.ErrUnsupportedFormat, averr.CodeOf(err))
		})
	}

	t.Run("时间序列允许csv", func(t *testing.T) {
		ts, err := NewTimeSeries(testConfig(config.FormatCSV))
		require.NoError(t, err)
		assert.NoError(t, ts.Close())
	})
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := New(testConfig("xml"))
	require.Error(t, err)
	assert.Equal(t, averr.ErrUnsupportedFormat, averr.CodeOf(err))
}

func TestClient_GenericRejectsCSVPerCall(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()

	c, err := New(testConfig(config.FormatCSV), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Invoke(context.Background(), "sma", operation.Args{"symbol": "MSFT"})
	require.Error(t, err)
	assert.Equal(t, averr.ErrUnsupportedFormat, averr.CodeOf(err))
	assert.Equal(t, 0, mock.RequestCount())
}

func TestClient_DelimitedTimeSeries(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetCSV("TIME_SERIES_DAILY", testkit.DailyMSFTCSV)

	ts, err := NewTimeSeries(testConfig(config.FormatCSV), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	res, err := ts.Daily(context.Background(), "MSFT", nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, []string{"timestamp", "open", "high", "low", "close", "volume"}, res.Rows[0])
	assert.Equal(t, "csv", mock.LastRequest().Query.Get("datatype"))
}

func TestClient_FamilyMismatch(t *testing.T) {
	ts, err := NewTimeSeries(testConfig(config.FormatJSON))
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.Invoke(context.Background(), "sma", operation.Args{"symbol": "MSFT"})
	require.Error(t, err)
	assert.Equal(t, averr.ErrOperationNotFound, averr.CodeOf(err))

	_, err = ts.Invoke(context.Background(), "no_such_operation", nil)
	require.Error(t, err)
	assert.Equal(t, averr.ErrOperationNotFound, averr.CodeOf(err))
}

func TestClient_ArgumentErrorsSkipTransport(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()

	ts, err := NewTimeSeries(testConfig(config.FormatJSON), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.Invoke(context.Background(), "daily", nil)
	require.Error(t, err)
	assert.Equal(t, averr.ErrInvalidArgument, averr.CodeOf(err))

	_, err = ts.Invoke(context.Background(), "daily", operation.Args{"symbol": "MSFT", "colour": "red"})
	require.Error(t, err)
	assert.Equal(t, averr.ErrInvalidArgument, averr.CodeOf(err))
	assert.Equal(t, 0, mock.RequestCount())
}

func TestClient_Retry(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		body       string
		wantCode   averr.ErrorCode
		wantCalls  int
	}{
		{"不重试", 0, testkit.NoteBody, averr.ErrAPINote, 1},
		{"重试两次", 2, testkit.NoteBody, averr.ErrAPINote, 3},
		{"错误消息同样重试", 1, testkit.ErrorMessageBody, averr.ErrAPIError, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testkit.NewMockServer()
			defer mock.Close()
			mock.SetJSON("TIME_SERIES_DAILY", tt.body)

			cfg := testConfig(config.FormatJSON)
			cfg.MaxRetries = tt.maxRetries
			ts, err := NewTimeSeries(cfg, WithBaseURL(mock.URL()))
			require.NoError(t, err)
			defer ts.Close()

			_, err = ts.Daily(context.Background(), "MSFT", nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, averr.CodeOf(err))
			assert.Equal(t, tt.wantCalls, mock.RequestCount())
		})
	}
}

func TestClient_TransportErrorNotRetried(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.Set("TIME_SERIES_DAILY", testkit.Response{Status: 503, Body: "unavailable"})

	cfg := testConfig(config.FormatJSON)
	cfg.MaxRetries = 3
	ts, err := NewTimeSeries(cfg, WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.Daily(context.Background(), "MSFT", nil)
	require.Error(t, err)
	assert.Equal(t, averr.ErrTransportFailed, averr.CodeOf(err))
	assert.Equal(t, 1, mock.RequestCount())
}

func TestClient_AsyncMatchesSync(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("TIME_SERIES_INTRADAY", testkit.IntradayMSFT1min)

	ts, err := NewTimeSeries(testConfig(config.FormatPandas), WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	args := operation.Args{"symbol": "MSFT", "interval": "1min"}
	syncRes, err := ts.Invoke(context.Background(), "intraday", args)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	asyncRes, err := ts.InvokeAsync(ctx, "intraday", args).Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, syncRes, asyncRes)
	assert.Equal(t, 2, mock.RequestCount())
}

func TestClient_AsyncBuildError(t *testing.T) {
	c, err := New(testConfig(config.FormatJSON))
	require.NoError(t, err)
	defer c.Close()

	f := c.InvokeAsync(context.Background(), "daily", nil)
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("future not resolved")
	}
	_, err = f.Await(context.Background())
	assert.Equal(t, averr.ErrInvalidArgument, averr.CodeOf(err))
}

func TestClient_SetProxy(t *testing.T) {
	c, err := New(testConfig(config.FormatJSON))
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.SetProxy(map[string]string{"https": "http://127.0.0.1:3128"}))

	err = c.SetProxy(map[string]string{"http": "://bad"})
	require.Error(t, err)
	assert.Equal(t, averr.ErrConfigInvalid, averr.CodeOf(err))
}

type stubTransport struct {
	env    *transport.Envelope
	params []request.Params
}

func (s *stubTransport) Do(_ context.Context, params request.Params) (*transport.Envelope, error) {
	s.params = append(s.params, params.Clone())
	return s.env, nil
}

func (s *stubTransport) Close() error { return nil }

func TestClient_WithTransport(t *testing.T) {
	stub := &stubTransport{env: &transport.Envelope{Body: []byte(testkit.SectorBody), Kind: transport.KindJSON, Status: 200}}

	sp, err := NewSectorPerformances(testConfig(config.FormatPandas), WithTransport(stub))
	require.NoError(t, err)
	defer sp.Close()

	res, err := sp.Sector(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.Frame)

	v, ok := res.Frame.Float(0, "Real-Time Performance")
	require.True(t, ok)
	assert.InDelta(t, 0.0345, v, 1e-9)

	require.Len(t, stub.params, 1)
	assert.Equal(t, "SECTOR", stub.params[0]["function"])
	assert.NotContains(t, stub.params[0], "apikey")

	// 自定义传输不支持代理
	err = sp.SetProxy(map[string]string{"http": "http://127.0.0.1:3128"})
	assert.Equal(t, averr.ErrConfigInvalid, averr.CodeOf(err))
}

func TestClient_RapidAPI(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("GLOBAL_QUOTE", testkit.GlobalQuoteMSFT)

	cfg := testConfig(config.FormatJSON)
	cfg.RapidAPI = true
	gq, err := NewGlobalQuotes(cfg, WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer gq.Close()

	res, err := gq.GlobalQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	data, ok := res.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "MSFT", data["01. symbol"])

	req := mock.LastRequest()
	assert.Equal(t, "test", req.Header.Get("x-rapidapi-key"))
	assert.Equal(t, config.RapidAPIHost, req.Header.Get("x-rapidapi-host"))
	assert.Empty(t, req.Query.Get("apikey"))
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default().SetAPIKey("test").SetOutputFormat(config.FormatPandas)
	c, err := NewFromConfig(cfg)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, config.FormatPandas, c.Config().OutputFormat)

	bad := config.Default().SetAPIKey("test")
	bad.Transport.Timeout = 0
	_, err = NewFromConfig(bad)
	assert.Equal(t, averr.ErrConfigInvalid, averr.CodeOf(err))
}

// funcTransport 以函数实现传输，便于控制耗时与 ctx
type funcTransport func(ctx context.Context, params request.Params) (*transport.Envelope, error)

func (f funcTransport) Do(ctx context.Context, params request.Params) (*transport.Envelope, error) {
	return f(ctx, params)
}

func (f funcTransport) Close() error { return nil }

func jsonEnvelope(body string) *transport.Envelope {
	return &transport.Envelope{Body: []byte(body), Kind: transport.KindJSON, Status: 200}
}

func TestClient_CloseWaitsForAsync(t *testing.T) {
	slow := funcTransport(func(ctx context.Context, _ request.Params) (*transport.Envelope, error) {
		time.Sleep(100 * time.Millisecond)
		return jsonEnvelope(testkit.GlobalQuoteMSFT), nil
	})

	gq, err := NewGlobalQuotes(testConfig(config.FormatJSON), WithTransport(slow))
	require.NoError(t, err)

	f := gq.InvokeAsync(context.Background(), "global_quote", operation.Args{"symbol": "MSFT"})
	require.NoError(t, gq.Close())

	select {
	case <-f.Done():
	default:
		t.Fatal("Close returned before the async call finished")
	}
	res, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
}

func TestClient_ZeroValueConfigRaisesNote(t *testing.T) {
	mock := testkit.NewMockServer()
	defer mock.Close()
	mock.SetJSON("TIME_SERIES_DAILY", testkit.NoteBody)

	ts, err := NewTimeSeries(config.ClientConfig{APIKey: "k"}, WithBaseURL(mock.URL()))
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.Daily(context.Background(), "MSFT", nil)
	require.Error(t, err)
	assert.Equal(t, averr.ErrAPINote, averr.CodeOf(err))
	assert.Contains(t, err.Error(), "standard API call frequency")
}

func TestClient_RetryKeepsUpstreamErrorOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	tr := funcTransport(func(context.Context, request.Params) (*transport.Envelope, error) {
		calls++
		// 首次请求后调用方取消，不再重试
		cancel()
		return jsonEnvelope(testkit.NoteBody), nil
	})

	cfg := testConfig(config.FormatJSON)
	cfg.MaxRetries = 3
	ts, err := NewTimeSeries(cfg, WithTransport(tr))
	require.NoError(t, err)
	defer ts.Close()

	_, err = ts.Daily(ctx, "MSFT", nil)
	require.Error(t, err)
	assert.Equal(t, averr.ErrAPINote, averr.CodeOf(err))
	assert.Equal(t, 1, calls)
}
