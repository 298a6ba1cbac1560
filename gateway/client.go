package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const sessionHeader = "Session-ID"

// NewHTTPClient returns the http.Client shared by all gateway clients: traced
// via otelhttp and propagating the correlation ID to the external services.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: otelhttp.NewTransport(correlationRoundTripper{
			next: http.DefaultTransport,
		}),
	}
}

type correlationRoundTripper struct {
	next http.RoundTripper
}

func (rt correlationRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if correlationID := log.CorrelationIDFromContext(req.Context()); correlationID != "" {
		req.Header.Set("Correlation-ID", correlationID)
	}
	return rt.next.RoundTrip(req)
}

func doJSON(
	ctx context.Context,
	client *http.Client,
	method string,
	url string,
	sessionID string,
	requestBody any,
	responseBody any,
) (int, error) {
	var body io.Reader
	if requestBody != nil {
		payload, err := json.Marshal(requestBody)
		if err != nil {
			return 0, fmt.Errorf("could not marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("could not create request: %w", err)
	}
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if responseBody != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(responseBody); err != nil {
			return resp.StatusCode, fmt.Errorf("could not decode response body: %w", err)
		}
	}

	return resp.StatusCode, nil
}
