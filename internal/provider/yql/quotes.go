package yql

import (
	"context"
	"errors"
	"fmt"
)

// RequestQuotes returns the selected columns of the latest quote for each
// ticker, one Record per ticker. No columns selects all of them.
//
// Unknown tickers are not an error: the service answers with a row whose
// fields are empty. A RequestError is returned only when nothing comes back,
// which in practice means none of the columns exist.
func (c *Client) RequestQuotes(ctx context.Context, tickers []string, columns []string) ([]Record, error) {
	symbols, err := symbolList(tickers)
	if err != nil {
		return nil, err
	}
	cols, err := columnList(columns)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf("select %s from yahoo.finance.quotes where symbol in (%s)", cols, symbols)
	results, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	records, err := quoteRecords(results)
	if errors.Is(err, ErrNoResults) {
		return nil, &RequestError{Message: "check if the columns selected are valid", Err: err}
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}
