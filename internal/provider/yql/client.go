package yql

import (
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"stockquote/internal/metrics"
)

const (
	baseURL     = "https://query.yahooapis.com/v1/public/yql"
	defaultEnv  = "store://datatables.org/alltableswithkeys"
	downloadURL = "http://real-chart.finance.yahoo.com/table.csv"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yql_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the structured-query finance service.
type Client struct {
	// baseURL is the query endpoint.
	baseURL string
	// env is sent with every query so community tables resolve.
	env string
	// downloadURL is the CSV history endpoint.
	downloadURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each query request.
	query url.Values

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// ClientOption is a configuration option for the client.
type ClientOption func(*Client)

// WithBaseURL sets the query endpoint.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithEnv sets the env parameter sent with each query.
func WithEnv(env string) ClientOption {
	return func(c *Client) {
		c.env = env
	}
}

// WithDownloadURL sets the CSV history endpoint.
func WithDownloadURL(downloadURL string) ClientOption {
	return func(c *Client) {
		c.downloadURL = downloadURL
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new client.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		baseURL:     baseURL,
		env:         defaultEnv,
		downloadURL: downloadURL,
		httpClient:  http.DefaultClient,
		header:      http.Header{},
		query:       url.Values{},
		logger:      zap.NewNop(),
	}
	client.query.Set("format", "json")
	for _, option := range options {
		option(client)
	}
	return client
}
