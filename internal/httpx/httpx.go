package httpx

import (
    "net"
    "net/http"
    "time"

    "github.com/google/uuid"
)

// RequestIDHeader is set on every outgoing request that lacks one.
const RequestIDHeader = "X-Request-Id"

// Client is a small wrapper around http.Client with sane defaults.
type Client struct {
    HTTP      *http.Client
    UserAgent string
    Headers   map[string]string
}

func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy:                 http.ProxyFromEnvironment,
        DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
        TLSHandshakeTimeout:   5 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 10 * time.Second,
    }
    return &Client{HTTP: &http.Client{Timeout: timeout, Transport: transport}, UserAgent: "stockquote/1.0"}
}

// Do sends req after filling in User-Agent, default headers and a request id.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
    if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
        req.Header.Set("User-Agent", c.UserAgent)
    }
    for k, v := range c.Headers {
        if req.Header.Get(k) == "" {
            req.Header.Set(k, v)
        }
    }
    if req.Header.Get(RequestIDHeader) == "" {
        req.Header.Set(RequestIDHeader, uuid.NewString())
    }
    return c.HTTP.Do(req)
}
