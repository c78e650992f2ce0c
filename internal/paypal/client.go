package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/artcove/artcove/internal/config"
	ierr "github.com/artcove/artcove/internal/errors"
	"github.com/artcove/artcove/internal/httpclient"
	"github.com/artcove/artcove/internal/logger"
)

const (
	tokenCacheKey = "paypal_access_token"

	// tokenSafetyMargin is subtracted from the token lifetime so a token is
	// never presented within a minute of its provider-side expiry
	tokenSafetyMargin = 60 * time.Second

	defaultMaxAttempts = 3
	defaultRetryDelay  = time.Second
	defaultTimeout     = 10 * time.Second
)

// Client defines the PayPal API operations the verifier depends on
type Client interface {
	GetAccessToken(ctx context.Context) (string, error)
	GetCapture(ctx context.Context, captureID string) (*Capture, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
}

type client struct {
	cfg  config.PayPalConfig
	http httpclient.Client
	log  *logger.Logger

	// tokens holds the process-wide access token. go-cache serializes
	// access internally; concurrent refreshes simply overwrite each other
	// with a fresher token, which is always safe.
	tokens *gocache.Cache

	maxAttempts int
	retryDelay  time.Duration
}

// NewClient creates a new PayPal client
func NewClient(cfg config.PayPalConfig, httpClient httpclient.Client, log *logger.Logger) Client {
	return &client{
		cfg:         cfg,
		http:        httpClient,
		log:         log,
		tokens:      gocache.New(gocache.NoExpiration, 10*time.Minute),
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

// GetAccessToken returns a cached access token while it is still inside its
// safety margin, otherwise performs a client-credentials exchange.
func (c *client) GetAccessToken(ctx context.Context) (string, error) {
	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", ierr.NewError("paypal credentials are not configured").
			WithHint("Set the PayPal client ID and secret in the service configuration").
			Mark(ierr.ErrProviderAuth)
	}

	if token, found := c.tokens.Get(tokenCacheKey); found {
		return token.(string), nil
	}

	credentials := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.ClientID + ":" + c.cfg.ClientSecret))

	resp, err := c.sendWithRetry(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    c.cfg.BaseURL + "/v1/oauth2/token",
		Headers: map[string]string{
			"Authorization": "Basic " + credentials,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: []byte("grant_type=client_credentials"),
	})
	if err != nil {
		if ierr.IsServiceUnavailable(err) {
			return "", err
		}
		var httpErr *httpclient.HTTPError
		if ierr.As(err, &httpErr) {
			c.log.Errorw("paypal token exchange rejected",
				"status", httpErr.StatusCode,
				"mode", c.cfg.Mode)
			return "", ierr.WithError(err).
				WithHint("PayPal rejected the configured credentials").
				WithReportableDetails(map[string]any{
					"status": httpErr.StatusCode,
				}).
				Mark(ierr.ErrProviderAuth)
		}
		return "", err
	}

	var token tokenResponse
	if err := json.Unmarshal(resp.Body, &token); err != nil {
		return "", ierr.WithError(err).
			WithHint("PayPal returned a malformed token response").
			Mark(ierr.ErrInternal)
	}
	if token.AccessToken == "" {
		return "", ierr.NewError("paypal token response missing access_token").
			WithHint("PayPal returned an empty access token").
			Mark(ierr.ErrProviderAuth)
	}

	ttl := time.Duration(token.ExpiresIn)*time.Second - tokenSafetyMargin
	if ttl > 0 {
		c.tokens.Set(tokenCacheKey, token.AccessToken, ttl)
	}

	c.log.Debugw("fetched new paypal access token",
		"expires_in", token.ExpiresIn,
		"mode", c.cfg.Mode)

	return token.AccessToken, nil
}

// GetCapture fetches a capture resource by ID
func (c *client) GetCapture(ctx context.Context, captureID string) (*Capture, error) {
	body, err := c.getResource(ctx, "/v2/payments/captures/"+captureID, "capture", captureID)
	if err != nil {
		return nil, err
	}

	var capture Capture
	if err := json.Unmarshal(body, &capture); err != nil {
		return nil, ierr.WithError(err).
			WithHint("PayPal returned a malformed capture").
			Mark(ierr.ErrInternal)
	}
	return &capture, nil
}

// GetOrder fetches an order resource by ID
func (c *client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	body, err := c.getResource(ctx, "/v2/checkout/orders/"+orderID, "order", orderID)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, ierr.WithError(err).
			WithHint("PayPal returned a malformed order").
			Mark(ierr.ErrInternal)
	}
	return &order, nil
}

func (c *client) getResource(ctx context.Context, path, resource, id string) ([]byte, error) {
	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.sendWithRetry(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + path,
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil {
		return nil, c.classifyError(err, resource, id)
	}
	return resp.Body, nil
}

// sendWithRetry performs one request with a bounded retry loop. Only
// service-unavailable responses and transport-level failures are retried;
// every other outcome is returned to the caller for classification. The
// backoff grows linearly with the attempt index.
func (c *client) sendWithRetry(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	timeout := c.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, err := c.http.Send(attemptCtx, req)
		cancel()
		if err == nil {
			return resp, nil
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err

		if attempt == c.maxAttempts {
			break
		}

		delay := time.Duration(attempt) * c.retryDelay
		c.log.Warnw("transient paypal failure, backing off",
			"attempt", attempt,
			"delay", delay,
			"url", req.URL,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ierr.WithError(ctx.Err()).
				WithHint("PayPal request was cancelled").
				Mark(ierr.ErrServiceUnavailable)
		case <-time.After(delay):
		}
	}

	return nil, ierr.WithError(lastErr).
		WithHint("PayPal is temporarily unavailable, please retry later").
		Mark(ierr.ErrServiceUnavailable)
}

// isRetryable reports whether an attempt failure is worth retrying: an HTTP
// 503, PayPal's own SERVICE_UNAVAILABLE signal, or any transport-level error
// that never produced a status code.
func isRetryable(err error) bool {
	var httpErr *httpclient.HTTPError
	if ierr.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusServiceUnavailable {
			return true
		}
		return bytes.Contains(httpErr.Body, []byte("SERVICE_UNAVAILABLE"))
	}
	return ierr.IsHTTPClient(err)
}

func (c *client) classifyError(err error, resource, id string) error {
	// Retry-exhausted errors are already classified by sendWithRetry.
	if ierr.IsServiceUnavailable(err) {
		return err
	}

	var httpErr *httpclient.HTTPError
	if !ierr.As(err, &httpErr) {
		return err
	}

	switch httpErr.StatusCode {
	case http.StatusNotFound:
		return ierr.NewError(fmt.Sprintf("paypal %s not found", resource)).
			WithHintf("PayPal %s %s was not found", resource, id).
			WithReportableDetails(map[string]any{
				"resource": resource,
				"id":       id,
			}).
			Mark(ierr.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		// The cached token may have been revoked; drop it so the next call
		// performs a fresh exchange.
		c.tokens.Delete(tokenCacheKey)
		return ierr.WithError(err).
			WithHint("PayPal rejected the access token").
			Mark(ierr.ErrProviderAuth)
	default:
		return ierr.WithError(err).
			WithHintf("PayPal returned an unexpected error for %s %s", resource, id).
			WithReportableDetails(map[string]any{
				"status":   httpErr.StatusCode,
				"resource": resource,
			}).
			Mark(ierr.ErrHTTPClient)
	}
}
