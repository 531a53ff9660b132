package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alphavantage/pkg/config"
	averr "alphavantage/pkg/error"
)

func TestMapToMAType(t *testing.T) {
	t.Run("整数代码保持不变", func(t *testing.T) {
		for i := 0; i < len(MATypes); i++ {
			got, err := MapToMAType(i)
			require.NoError(t, err)
			assert.Equal(t, i, got)

			again, err := MapToMAType(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		}
	})

	t.Run("名称映射", func(t *testing.T) {
		for i, name := range MATypes {
			got, err := MapToMAType(name)
			require.NoError(t, err)
			assert.Equal(t, i, got)
		}
	})

	t.Run("数字字符串", func(t *testing.T) {
		got, err := MapToMAType("4")
		require.NoError(t, err)
		assert.Equal(t, 4, got)
	})

	t.Run("非法值", func(t *testing.T) {
		for _, v := range []any{-1, -8, 9, int64(100), "sma", "XMA", 1.5} {
			_, err := MapToMAType(v)
			assert.Error(t, err, "%v", v)
			assert.Equal(t, averr.ErrUnsupportedValue, averr.CodeOf(err))
		}
	})
}

func TestDefaultRegistry(t *testing.T) {
	ids := Default.IDs()
	assert.Equal(t, Default.Len(), len(ids))
	assert.Greater(t, len(ids), 80)

	for _, id := range ids {
		d, err := Default.Lookup(id)
		require.NoError(t, err)
		assert.NotEmpty(t, d.Function, id)
		assert.NotEmpty(t, d.Family, id)
		assert.Equal(t, d.Family.AppendsDatatype(), d.AppendDatatype, id)

		seen := map[string]bool{}
		for _, a := range d.Args {
			assert.False(t, seen[a.Name], "%s declares %s twice", id, a.Name)
			seen[a.Name] = true
		}
	}

	_, err := Default.Lookup("no_such_operation")
	assert.Equal(t, averr.ErrOperationNotFound, averr.CodeOf(err))
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	d := Descriptor{ID: "daily", Function: "TIME_SERIES_DAILY", Family: FamilyTimeSeries, DataKeys: []string{"Time Series (Daily)"}}
	require.NoError(t, r.Register(d))

	assert.Error(t, r.Register(d), "重复注册")
	assert.Error(t, r.Register(Descriptor{ID: "x"}), "缺少 function")

	got, err := r.Lookup("daily")
	require.NoError(t, err)
	assert.Equal(t, FormattingDefault, got.Formatting)

	// 注册后修改原切片不影响注册表
	d.DataKeys[0] = "changed"
	assert.Equal(t, "Time Series (Daily)", got.DataKeys[0])
}

func TestRegistry_ByFamily(t *testing.T) {
	sector := Default.ByFamily(FamilySectorPerformances)
	require.Len(t, sector, 1)
	assert.Equal(t, FormattingSector, sector[0].Formatting)
	assert.Len(t, sector[0].DataKeys, 10)

	quotes := Default.ByFamily(FamilyGlobalQuotes)
	require.Len(t, quotes, 1)
	assert.Equal(t, config.FormatJSON, quotes[0].Override)

	for _, d := range Default.ByFamily(FamilyTechIndicators) {
		assert.Equal(t, "symbol", d.Args[0].Name)
		assert.True(t, d.Args[0].Required)
	}
}

func TestFamilyRules(t *testing.T) {
	csvForbidden := []Family{
		FamilyTechIndicators, FamilyForeignExchange, FamilyCryptoCurrencies,
		FamilyFundamentalData, FamilySectorPerformances,
	}
	for _, f := range csvForbidden {
		assert.False(t, f.AllowsCSV(), f)
		assert.False(t, f.AppendsDatatype(), f)
	}
	for _, f := range []Family{FamilyTimeSeries, FamilyAlphaIntelligence, FamilyGlobalQuotes} {
		assert.True(t, f.AllowsCSV(), f)
		assert.True(t, f.AppendsDatatype(), f)
	}
}

func TestResolveDataKeys(t *testing.T) {
	d, err := Default.Lookup("fx_intraday")
	require.NoError(t, err)
	assert.Equal(t, []string{"Time Series FX (5min)"}, d.ResolveDataKeys(map[string]string{"interval": "5min"}))

	d, err = Default.Lookup("company_overview")
	require.NoError(t, err)
	assert.Nil(t, d.ResolveDataKeys(nil))
}
