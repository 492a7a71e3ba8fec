package yql_test

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockquote/internal/provider/yql"
)

const appleCSV = "Date,Open,High,Low,Close,Volume,Adj Close\n" +
	"2016-03-03,100.580002,101.709999,100.449997,101.580002,36955700,100.962132\n" +
	"2016-03-02,100.510002,100.889999,99.639999,100.75,33169600,100.140301\n"

// failingBody yields its prefix and then a transport error.
type failingBody struct {
	r io.Reader
}

func (f *failingBody) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if errors.Is(err, io.EOF) {
		return n, errors.New("connection reset by peer")
	}
	return n, err
}

func (f *failingBody) Close() error { return nil }

func TestDownloadHistorical(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock HTTP client serving one CSV per ticker
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/table.csv", req.URL.Path)
			require.Contains(t, []string{"AAPL", "YHOO"}, req.URL.Query().Get("s"))
			return textResponse(http.StatusOK, appleCSV), nil
		}).
		Times(2)

	dir := t.TempDir()
	client := yql.NewClient(yql.WithHTTPClient(httpClient), yql.WithDownloadURL("http://localhost/table.csv"))

	// Act: download both tickers
	err := client.DownloadHistorical(t.Context(), []string{"AAPL", "YHOO"}, dir)
	require.NoError(t, err)

	// Assert: one file per ticker starting with the fixed header
	for _, ticker := range []string{"AAPL", "YHOO"} {
		b, err := os.ReadFile(filepath.Join(dir, ticker+".csv"))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(string(b), yql.CSVHeader+"\n"))
		require.Equal(t, appleCSV, string(b))
	}
}

func TestDownloadHistorical_InvalidTickerRemovesFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusNotFound, "<html>not found</html>"), nil).
		Times(1)

	dir := t.TempDir()
	client := yql.NewClient(yql.WithHTTPClient(httpClient))

	// Act: download a ticker the service does not know
	err := client.DownloadHistorical(t.Context(), []string{"fake_company"}, dir)

	// Assert: a RequestError and no file left behind
	re, ok := yql.AsRequestError(err)
	require.True(t, ok)
	require.Equal(t, "fake_company", re.Ticker)
	require.NoFileExists(t, filepath.Join(dir, "fake_company.csv"))
}

func TestDownloadHistorical_UnexpectedHeaderRemovesFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(textResponse(http.StatusOK, "<!doctype html>\n<html></html>\n"), nil).
		Times(1)

	dir := t.TempDir()
	client := yql.NewClient(yql.WithHTTPClient(httpClient))

	err := client.DownloadHistorical(t.Context(), []string{"AAPL"}, dir)
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(dir, "AAPL.csv"))
}

func TestDownloadHistorical_BrokenStreamRemovesPartialFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &failingBody{r: strings.NewReader(appleCSV)},
		}, nil).
		Times(1)

	dir := t.TempDir()
	client := yql.NewClient(yql.WithHTTPClient(httpClient))

	err := client.DownloadHistorical(t.Context(), []string{"AAPL"}, dir)
	require.ErrorContains(t, err, "connection reset by peer")
	require.NoFileExists(t, filepath.Join(dir, "AAPL.csv"))
}

func TestDownloadHistorical_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	gomock.InOrder(
		httpClient.EXPECT().Do(gomock.Any()).Return(textResponse(http.StatusOK, appleCSV), nil),
		httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: refused")),
	)

	dir := t.TempDir()
	client := yql.NewClient(yql.WithHTTPClient(httpClient))

	err := client.DownloadHistorical(t.Context(), []string{"AAPL", "YHOO", "GOOG"}, dir)
	require.ErrorContains(t, err, "dial tcp: refused")
	require.FileExists(t, filepath.Join(dir, "AAPL.csv"))
	require.NoFileExists(t, filepath.Join(dir, "YHOO.csv"))
	require.NoFileExists(t, filepath.Join(dir, "GOOG.csv"))
}

func TestDownloadHistorical_MissingFolder(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Times(0)

	client := yql.NewClient(yql.WithHTTPClient(httpClient))

	err := client.DownloadHistorical(t.Context(), []string{"AAPL"}, filepath.Join(t.TempDir(), "missing"))
	_, ok := yql.AsRequestError(err)
	require.True(t, ok)
}

func TestDownloadHistorical_InvalidArguments(t *testing.T) {
	t.Parallel()

	client := yql.NewClient()
	require.ErrorIs(t, client.DownloadHistorical(t.Context(), nil, t.TempDir()), yql.ErrInvalidArgument)
	require.ErrorIs(t, client.DownloadHistorical(t.Context(), []string{"../etc"}, t.TempDir()), yql.ErrInvalidArgument)
}
