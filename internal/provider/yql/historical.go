package yql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical yyyy-mm-dd form dates are rendered in.
const DateLayout = "2006-01-02"

// inputLayout also accepts single-digit months and days such as 2016-3-1.
const inputLayout = "2006-1-2"

// MaxHistoricalDays bounds the span of a single historical query. Use
// DownloadHistorical for the full series.
const MaxHistoricalDays = 366

// HistoricalColumns are the fields requested for every historical row.
var HistoricalColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Adj_Close"}

// ValidateDates checks that start and end are yyyy-mm-dd dates, end is not
// before start and the range spans at most MaxHistoricalDays.
func ValidateDates(start, end string) error {
	s, err := time.Parse(inputLayout, start)
	if err != nil {
		return fmt.Errorf("%w: incorrect date format %q, should be yyyy-mm-dd", ErrInvalidArgument, start)
	}
	e, err := time.Parse(inputLayout, end)
	if err != nil {
		return fmt.Errorf("%w: incorrect date format %q, should be yyyy-mm-dd", ErrInvalidArgument, end)
	}
	days := int(e.Sub(s).Hours() / 24)
	if days > MaxHistoricalDays {
		return fmt.Errorf("%w: the difference between start and end date should be less than or equal to %d days", ErrInvalidArgument, MaxHistoricalDays)
	}
	if e.Before(s) {
		return fmt.Errorf("%w: end date cannot be before start date", ErrInvalidArgument)
	}
	return nil
}

// RequestHistorical returns one Record per trading day between start and end
// inclusive, newest first.
func (c *Client) RequestHistorical(ctx context.Context, ticker, start, end string) ([]Record, error) {
	if err := ValidateDates(start, end); err != nil {
		return nil, err
	}
	if err := validateTicker(ticker); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(
		`select %s from yahoo.finance.historicaldata where symbol in ("%s") and startDate = "%s" and endDate = "%s"`,
		strings.Join(HistoricalColumns, ", "), ticker, start, end,
	)
	results, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	records, err := quoteRecords(results)
	if errors.Is(err, ErrNoResults) {
		return nil, &RequestError{Message: "check if the stock ticker used is a valid one", Ticker: ticker, Err: err}
	}
	if err != nil {
		return nil, err
	}

	// yyyy-mm-dd sorts lexically
	sort.SliceStable(records, func(i, j int) bool {
		return records[i]["Date"] > records[j]["Date"]
	})
	return records, nil
}
