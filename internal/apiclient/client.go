// Package apiclient implements the storefront's REST client. Every response
// uses the {status, message, data} envelope; failures are normalized to a
// single human-readable message so transport errors never reach the UI raw.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
)

// FallbackMessage is surfaced when the backend returns no usable error message.
const FallbackMessage = "Something went wrong. Please try again."

// TokenProvider supplies the current bearer token for authenticated requests.
type TokenProvider interface {
	AccessToken() string
}

// Refresher exchanges the refresh token for a new pair; used for the one-shot
// retry after a 401 on an authenticated request.
type Refresher interface {
	Refresh(ctx context.Context) (*types.Tokens, error)
}

// Client talks to the storefront backend under /api/v1/.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	tokens    TokenProvider
	refresher Refresher
}

// New builds a client from configuration. Token provider and refresher are
// attached later via SetAuth because the session store depends on the client.
func New(cfg config.APIConfig, logg *logger.Logger, m *metrics.StoreMetrics) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// SetAuth wires the session-owned token source into the client.
func (c *Client) SetAuth(tokens TokenProvider, refresher Refresher) {
	c.tokens = tokens
	c.refresher = refresher
}

// request carries the payload as bytes so a 401 retry can replay the body.
type request struct {
	method   string
	path     string
	payload  []byte
	contentT string
	authed   bool
	// noRetry suppresses the 401 refresh-retry. Logout sets it: its refresh
	// token is being discarded anyway, and refreshing there would recurse
	// back into logout.
	noRetry  bool
	fallback string
}

func jsonRequest(method, path string, payload any, authed bool, fallback string) (request, error) {
	req := request{
		method:   method,
		path:     path,
		contentT: "application/json",
		authed:   authed,
		fallback: fallback,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return request{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, fallback)
		}
		req.payload = data
	}
	return req, nil
}

// do executes the request and decodes the envelope data into out (if non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	started := time.Now()
	defer func() {
		c.metrics.ObserveRequestDuration(req.method+" "+req.path, time.Since(started))
	}()

	env, err := c.execute(ctx, req, true)
	if err != nil {
		return err
	}

	if out != nil {
		if env.Data == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, req.fallback)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			ctx = c.logg.WithEndpoint(ctx, req.method, req.path)
			c.logg.Error(ctx, "api.decode_failed", err)
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, req.fallback)
		}
	}
	return nil
}

func (c *Client) execute(ctx context.Context, req request, allowRetry bool) (*types.Envelope, error) {
	var body io.Reader
	if len(req.payload) > 0 {
		body = bytes.NewReader(req.payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, req.fallback)
	}
	if req.contentT != "" && body != nil {
		httpReq.Header.Set("Content-Type", req.contentT)
	}
	if req.authed {
		token := ""
		if c.tokens != nil {
			token = c.tokens.AccessToken()
		}
		if token == "" {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		ctx = c.logg.WithEndpoint(ctx, req.method, req.path)
		c.logg.Error(ctx, "api.request_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, req.fallback)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, req.fallback)
	}

	var env types.Envelope
	if len(raw) > 0 {
		// Tolerate non-envelope bodies; the fallback message covers them.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && req.authed && allowRetry && !req.noRetry && c.refresher != nil {
			if _, err := c.refresher.Refresh(ctx); err == nil {
				return c.execute(ctx, req, false)
			}
		}
		return nil, normalizeFailure(resp.StatusCode, &env, req.fallback)
	}

	return &env, nil
}

func normalizeFailure(status int, env *types.Envelope, fallback string) error {
	msg := strings.TrimSpace(env.Message)
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = FallbackMessage
	}

	code := pkgerrors.CodeNetwork
	switch status {
	case http.StatusBadRequest:
		code = pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		code = pkgerrors.CodeForbidden
	case http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case http.StatusConflict:
		code = pkgerrors.CodeConflict
	}
	return pkgerrors.New(code, msg)
}
