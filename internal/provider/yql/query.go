package yql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Record is one row returned by the service. Missing or null fields are "".
type Record map[string]string

type envelope struct {
	Query *struct {
		Count   int             `json:"count"`
		Created string          `json:"created"`
		Results json.RawMessage `json:"results"`
	} `json:"query"`
	Error *struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Query runs a raw statement against the service and returns query.results
// untouched. A nil result means the service matched nothing.
func (c *Client) Query(ctx context.Context, q string) (json.RawMessage, error) {
	start := time.Now()
	results, err := c.doQuery(ctx, q)
	c.metrics.Observe("query", time.Since(start), err)
	return results, err
}

func (c *Client) doQuery(ctx context.Context, q string) (json.RawMessage, error) {
	query := maps.Clone(c.query)
	query.Set("q", q)
	if c.env != "" {
		query.Set("env", c.env)
	}

	url := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	c.logger.Debug("yql query",
		zap.String("query", q),
		zap.Int("status", res.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		if decodeErr == nil && env.Error != nil && env.Error.Description != "" {
			return nil, fmt.Errorf("bad request: %s", env.Error.Description)
		}
		return nil, fmt.Errorf("bad request with q=%q", q)

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decoding response: %w", decodeErr)
	}
	if env.Query == nil {
		return nil, fmt.Errorf("decoding response: missing query envelope")
	}
	if isNull(env.Query.Results) {
		return nil, nil
	}
	return env.Query.Results, nil
}

// quoteRecords extracts results.quote, wrapping a lone object into a list.
func quoteRecords(results json.RawMessage) ([]Record, error) {
	if isNull(results) {
		return nil, ErrNoResults
	}
	var wrapper struct {
		Quote json.RawMessage `json:"quote"`
	}
	if err := json.Unmarshal(results, &wrapper); err != nil {
		return nil, fmt.Errorf("decoding results: %w", err)
	}
	if isNull(wrapper.Quote) {
		return nil, ErrNoResults
	}

	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(wrapper.Quote))
	dec.UseNumber()
	if bytes.HasPrefix(bytes.TrimSpace(wrapper.Quote), []byte("[")) {
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("decoding quote list: %w", err)
		}
	} else {
		var row map[string]any
		if err := dec.Decode(&row); err != nil {
			return nil, fmt.Errorf("decoding quote: %w", err)
		}
		rows = []map[string]any{row}
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = stringify(v)
		}
		out = append(out, rec)
	}
	return out, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// symbolList renders tickers as `"A", "B"` for an `in (...)` clause.
func symbolList(tickers []string) (string, error) {
	if len(tickers) == 0 {
		return "", fmt.Errorf("%w: ticker list is empty", ErrInvalidArgument)
	}
	quoted := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if err := validateTicker(t); err != nil {
			return "", err
		}
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, ", "), nil
}

func validateTicker(t string) error {
	if strings.TrimSpace(t) == "" {
		return fmt.Errorf("%w: empty ticker", ErrInvalidArgument)
	}
	if strings.ContainsAny(t, "\"\\") {
		return fmt.Errorf("%w: ticker %q contains quotes", ErrInvalidArgument, t)
	}
	return nil
}

func columnList(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return "", fmt.Errorf("%w: empty column name", ErrInvalidArgument)
		}
	}
	return strings.Join(columns, ", "), nil
}
