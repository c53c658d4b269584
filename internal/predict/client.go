// Package predict talks to the remote loan approval prediction service.
package predict

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/loanwise/internal/model"
	"github.com/google/uuid"
)

const (
	// DefaultBaseURL is where the development server listens.
	DefaultBaseURL = "http://127.0.0.1:5000"
	// DefaultEndpoint is the prediction path relative to the base URL.
	DefaultEndpoint = "/predict"
	// DefaultTimeout bounds a single request at the transport level.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 4 << 10
)

// ErrInvalidResponse is wrapped in a DomainError when a success body is not a JSON object.
var ErrInvalidResponse = errors.New("invalid response from server")

// Predictor returns the service's decision for a form snapshot.
type Predictor interface {
	Predict(ctx context.Context, input model.FormInput) (model.PredictionResponse, error)
}

// Config holds client settings.
type Config struct {
	HTTPClient *http.Client
	// RootCAs replaces the system roots when set. Ignored with a custom HTTPClient.
	RootCAs    *x509.CertPool
	BaseURL    string
	Endpoint   string
	UserAgent  string
	Timeout    time.Duration
}

// Client is an HTTP Predictor.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
}

// NewClient creates a client for the configured endpoint.
// An absolute Endpoint wins over BaseURL.
func NewClient(cfg Config) (*Client, error) {
	target, err := ResolveEndpoint(cfg.BaseURL, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig: &tls.Config{
					RootCAs:    cfg.RootCAs,
					MinVersion: tls.VersionTLS12,
				},
			},
		}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "loanwise"
	}

	return &Client{
		httpClient: httpClient,
		url:        target,
		userAgent:  userAgent,
	}, nil
}

// URL returns the resolved prediction endpoint.
func (c *Client) URL() string {
	return c.url
}

// ResolveEndpoint joins a base URL with a relative endpoint path.
func ResolveEndpoint(baseURL, endpoint string) (string, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	return base.ResolveReference(ref).String(), nil
}

// Predict posts one request. It never retries.
func (c *Client) Predict(ctx context.Context, input model.FormInput) (model.PredictionResponse, error) {
	jsonBody, err := json.Marshal(input.Request())
	if err != nil {
		return model.PredictionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return model.PredictionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	slog.Debug("Sending prediction request", "url", c.url, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.PredictionResponse{}, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.PredictionResponse{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       readErrorBody(resp.Body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.PredictionResponse{}, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var result model.PredictionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("Prediction response is not valid JSON", "request_id", requestID, "error", err)
		return model.PredictionResponse{}, &DomainError{Message: ErrInvalidResponse.Error()}
	}

	if result.Error != "" {
		return model.PredictionResponse{}, &DomainError{Message: result.Error}
	}

	slog.Debug("Received prediction",
		"request_id", requestID,
		"result", result.Result,
		"has_probability", result.HasProbability())

	return result, nil
}

// readErrorBody is best-effort; read failures yield an empty string.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
