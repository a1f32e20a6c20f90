package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const currencyFixtureUTF8 = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="02.03.2018" name="Foreign Currency Market">
  <Valute ID="R01235">
    <NumCode>840</NumCode>
    <CharCode>USD</CharCode>
    <Nominal>1</Nominal>
    <Name>Доллар США</Name>
    <Value>56,3742</Value>
  </Valute>
  <Valute ID="R01239">
    <NumCode>978</NumCode>
    <CharCode>EUR</CharCode>
    <Nominal>1</Nominal>
    <Name>Евро</Name>
    <Value>68,6801</Value>
  </Valute>
  <Valute ID="R01035">
    <NumCode>826</NumCode>
    <CharCode>GBP</CharCode>
    <Nominal>1</Nominal>
    <Name>Фунт стерлингов</Name>
    <Value>77,6702</Value>
  </Valute>
</ValCurs>`

func newCurrencyFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	// The real feed is served in windows-1251, reproduce that here.
	encoded, err := charmap.Windows1251.NewEncoder().String(currencyFixtureUTF8)
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
		_, _ = w.Write([]byte(encoded))
	}))
}

func TestCurrencyService_FetchDecodesAndFilters(t *testing.T) {
	srv := newCurrencyFixtureServer(t)
	defer srv.Close()

	svc := NewCurrencyService(srv.URL, []string{"R01235", "R01239"}, zap.NewNop())

	rates, err := svc.Rates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "Доллар США", rates[0].Name)
	assert.Equal(t, "56,3742", rates[0].Value)
	assert.Equal(t, "Евро", rates[1].Name)
}

func TestCurrencyService_ServesFromCache(t *testing.T) {
	srv := newCurrencyFixtureServer(t)

	svc := NewCurrencyService(srv.URL, []string{"R01235"}, zap.NewNop())

	first, err := svc.Rates(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The feed going away must not break the command.
	srv.Close()

	second, err := svc.Rates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCurrencyService_RefreshErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewCurrencyService(srv.URL, []string{"R01235"}, zap.NewNop())

	_, err := svc.Refresh(context.Background())
	assert.Error(t, err)
}
