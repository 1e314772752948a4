// Package remote wraps calls to the marketplace API. A failed call never
// returns an error to its caller: the failure is shown through the notifier
// and the caller only sees that no value arrived.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"marketplace/internal/client/notify"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

const maxErrorBody = 64 * 1024

// TokenSource supplies the bearer token of the signed-in user.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL  string
	tokens   TokenSource
	http     *http.Client
	notifier notify.Notifier
}

func NewClient(baseURL string, tokens TokenSource, notifier notify.Notifier, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		notifier: notifier,
	}
}

// Run performs method on path and decodes a successful JSON body into T.
// On any failure it reports the error and returns (nil, false).
func Run[T any](ctx context.Context, c *Client, method, path string) (*T, bool) {
	value, err := do[T](ctx, c, method, path)
	if err != nil {
		c.report(err)
		return nil, false
	}
	return value, true
}

func do[T any](ctx context.Context, c *Client, method, path string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.Remote(0, "Invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Remote(0, "Could not reach the server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Remote(resp.StatusCode, errorMessage(resp), nil)
	}

	var value T
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return nil, apperrors.Remote(resp.StatusCode, "Unexpected response from the server", err)
	}
	return &value, nil
}

// errorMessage pulls a human readable message out of an error body. Both the
// API envelope ({error:{message}}) and a bare {message} are understood.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope struct {
		Message string `json:"message"`
		Error   *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != nil && envelope.Error.Message != "" {
			return envelope.Error.Message
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fmt.Sprintf("Request failed (%d %s)", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func (c *Client) report(err error) {
	logger.Warn("remote request failed: %v", err)
	if c.notifier == nil {
		return
	}

	message := "Something went wrong"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	c.notifier.Show(notify.Notification{Message: message, Type: notify.Danger})
}
