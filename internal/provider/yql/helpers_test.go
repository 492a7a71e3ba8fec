package yql_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// envelope wraps quote rows the way the service does.
func envelope(quote any) map[string]any {
	if quote == nil {
		return map[string]any{"query": map[string]any{"count": 0, "results": nil}}
	}
	return map[string]any{"query": map[string]any{
		"count":   1,
		"created": "2016-03-04T12:00:00Z",
		"results": map[string]any{"quote": quote},
	}}
}

func jsonResponse(t *testing.T, status int, body any) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(body))
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(buffer),
	}
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}
