package yql

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CSVHeader is the first line of every downloaded history file.
const CSVHeader = "Date,Open,High,Low,Close,Volume,Adj Close"

// DownloadHistorical saves the full daily history of each ticker to
// outputFolder/<ticker>.csv. Tickers are fetched in order and the first
// failure stops the run; its partial file is removed.
func (c *Client) DownloadHistorical(ctx context.Context, tickers []string, outputFolder string) error {
	if len(tickers) == 0 {
		return fmt.Errorf("%w: ticker list is empty", ErrInvalidArgument)
	}
	for _, t := range tickers {
		if err := validateTicker(t); err != nil {
			return err
		}
		if strings.ContainsAny(t, `/\`) {
			return fmt.Errorf("%w: ticker %q is not a valid file name", ErrInvalidArgument, t)
		}
	}

	for _, ticker := range tickers {
		start := time.Now()
		err := c.download(ctx, ticker, filepath.Join(outputFolder, ticker+".csv"))
		c.metrics.Observe("download", time.Since(start), err)
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) download(ctx context.Context, ticker, fileName string) (err error) {
	f, err := os.Create(fileName)
	if err != nil {
		return &RequestError{Message: "cannot create " + fileName, Ticker: ticker, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &RequestError{Message: "cannot write " + fileName, Ticker: ticker, Err: cerr}
		}
		if err != nil {
			if rerr := os.Remove(fileName); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				c.logger.Warn("removing partial download", zap.String("file", fileName), zap.Error(rerr))
			}
		}
	}()

	if err := c.fetchCSV(ctx, ticker, f); err != nil {
		return &RequestError{
			Message: fmt.Sprintf("check if %s is a valid stock ticker", ticker),
			Ticker:  ticker,
			Err:     err,
		}
	}
	return nil
}

func (c *Client) fetchCSV(ctx context.Context, ticker string, w io.Writer) error {
	query := url.Values{}
	query.Set("s", ticker)
	u := fmt.Sprintf("%s?%s", c.downloadURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	c.logger.Debug("history download", zap.String("ticker", ticker), zap.Int("status", res.StatusCode))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	br := bufio.NewReader(res.Body)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading header: %w", err)
	}
	if strings.TrimRight(first, "\r\n") != CSVHeader {
		return fmt.Errorf("unexpected header %q", strings.TrimSpace(first))
	}
	if _, err := io.WriteString(w, first); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	if _, err := io.Copy(w, br); err != nil {
		return fmt.Errorf("writing: %w", err)
	}
	return nil
}
