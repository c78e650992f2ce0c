package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artcove/artcove/internal/config"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/httpclient"
	"github.com/artcove/artcove/internal/logger"
	"github.com/artcove/artcove/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	log, err := logger.NewLogger(&config.Configuration{
		Logging: config.LoggingConfig{Level: types.LogLevelError},
	})
	require.NoError(t, err)
	return log
}

// newTestClient builds a client against a test server with millisecond
// backoff so retry tests don't sleep for real
func newTestClient(t *testing.T, baseURL string) *client {
	return &client{
		cfg: config.PayPalConfig{
			ClientID:       "test-client-id",
			ClientSecret:   "test-client-secret",
			BaseURL:        baseURL,
			Mode:           "sandbox",
			RequestTimeout: 2 * time.Second,
		},
		http:        httpclient.NewDefaultClient(),
		log:         testLogger(t),
		tokens:      gocache.New(gocache.NoExpiration, time.Minute),
		maxAttempts: 3,
		retryDelay:  time.Millisecond,
	}
}

type providerStub struct {
	tokenCalls   int64
	captureCalls int64
	orderCalls   int64

	tokenStatus   int
	tokenExpires  int64
	captureStatus int
	captureBody   string
	orderStatus   int
	orderBody     string
}

func (p *providerStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&p.tokenCalls, 1)
		if p.tokenStatus != 0 && p.tokenStatus != http.StatusOK {
			w.WriteHeader(p.tokenStatus)
			return
		}
		expires := p.tokenExpires
		if expires == 0 {
			expires = 3600
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-123","token_type":"Bearer","expires_in":%d}`, expires)
	})
	mux.HandleFunc("/v2/payments/captures/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&p.captureCalls, 1)
		if p.captureStatus != 0 && p.captureStatus != http.StatusOK {
			w.WriteHeader(p.captureStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, p.captureBody)
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&p.orderCalls, 1)
		if p.orderStatus != 0 && p.orderStatus != http.StatusOK {
			w.WriteHeader(p.orderStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, p.orderBody)
	})
	return mux
}

func TestGetCaptureParsesSnapshot(t *testing.T) {
	stub := &providerStub{
		captureBody: `{"id":"C1","status":"COMPLETED","amount":{"currency_code":"GBP","value":"5.00"}}`,
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	capture, err := c.GetCapture(context.Background(), "C1")
	require.NoError(t, err)
	assert.Equal(t, "C1", capture.ID)
	assert.True(t, capture.IsCompleted())
	assert.Equal(t, "GBP", capture.Amount.CurrencyCode)

	amount, err := capture.Amount.Decimal()
	require.NoError(t, err)
	assert.Equal(t, "5", amount.String())
}

func TestGetOrderParsesCaptures(t *testing.T) {
	order := Order{
		ID:     "O1",
		Status: OrderStatusCompleted,
		PurchaseUnits: []PurchaseUnit{
			{Payments: &PurchaseUnitPayments{Captures: []Capture{{
				ID:     "C1",
				Status: CaptureStatusCompleted,
				Amount: Money{CurrencyCode: "GBP", Value: "5.00"},
			}}}},
		},
	}
	body, err := json.Marshal(order)
	require.NoError(t, err)

	stub := &providerStub{orderBody: string(body)}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	fetched, err := c.GetOrder(context.Background(), "O1")
	require.NoError(t, err)
	require.NotNil(t, fetched.FirstCapture())
	assert.Equal(t, "C1", fetched.FirstCapture().ID)
}

func TestAccessTokenCachedAcrossCalls(t *testing.T) {
	stub := &providerStub{
		captureBody: `{"id":"C1","status":"COMPLETED","amount":{"currency_code":"GBP","value":"5.00"}}`,
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetCapture(context.Background(), "C1")
	require.NoError(t, err)
	_, err = c.GetCapture(context.Background(), "C1")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&stub.tokenCalls))
	assert.EqualValues(t, 2, atomic.LoadInt64(&stub.captureCalls))
}

func TestShortLivedTokenNotCached(t *testing.T) {
	// lifetime inside the safety margin: every call re-exchanges
	stub := &providerStub{
		tokenExpires: 30,
		captureBody:  `{"id":"C1","status":"COMPLETED","amount":{"currency_code":"GBP","value":"5.00"}}`,
	}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetCapture(context.Background(), "C1")
	require.NoError(t, err)
	_, err = c.GetCapture(context.Background(), "C1")
	require.NoError(t, err)

	assert.EqualValues(t, 2, atomic.LoadInt64(&stub.tokenCalls))
}

func TestRetriesExhaustedOn503(t *testing.T) {
	stub := &providerStub{captureStatus: http.StatusServiceUnavailable}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetCapture(context.Background(), "C1")
	require.Error(t, err)
	assert.True(t, ierr.IsServiceUnavailable(err))
	// bounded at three attempts, not retried indefinitely
	assert.EqualValues(t, 3, atomic.LoadInt64(&stub.captureCalls))
}

func TestCaptureNotFound(t *testing.T) {
	stub := &providerStub{captureStatus: http.StatusNotFound}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetCapture(context.Background(), "C-missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	// terminal, no retries
	assert.EqualValues(t, 1, atomic.LoadInt64(&stub.captureCalls))
}

func TestTokenExchangeRejected(t *testing.T) {
	stub := &providerStub{tokenStatus: http.StatusUnauthorized}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsProviderAuth(err))
}

func TestMissingCredentials(t *testing.T) {
	stub := &providerStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	c.cfg.ClientID = ""

	_, err := c.GetAccessToken(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsProviderAuth(err))
	// rejected before any network traffic
	assert.EqualValues(t, 0, atomic.LoadInt64(&stub.tokenCalls))
}

func TestUnauthorizedResourceDropsCachedToken(t *testing.T) {
	stub := &providerStub{captureStatus: http.StatusUnauthorized}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.GetCapture(context.Background(), "C1")
	require.Error(t, err)
	assert.True(t, ierr.IsProviderAuth(err))

	// the poisoned token was evicted; the next call re-exchanges
	_, found := c.tokens.Get(tokenCacheKey)
	assert.False(t, found)
}
