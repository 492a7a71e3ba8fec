// Package stock provides a ticker-bound view over the quote service.
package stock

import (
	"context"

	"stockquote/internal/provider/yql"
)

// Fetcher is the subset of *yql.Client a Stock needs.
//
//go:generate mockgen -package=stock_test -destination=mock_fetcher_test.go -source=stock.go Fetcher
type Fetcher interface {
	RequestQuotes(ctx context.Context, tickers []string, columns []string) ([]yql.Record, error)
	RequestHistorical(ctx context.Context, ticker, start, end string) ([]yql.Record, error)
	DownloadHistorical(ctx context.Context, tickers []string, outputFolder string) error
}

// LatestPriceColumns are the fields returned by LatestPrice.
var LatestPriceColumns = []string{"LastTradePriceOnly", "LastTradeTime"}

// InfoColumns are every quote field the service publishes. Not all of them
// are populated for every ticker.
var InfoColumns = []string{
	"Ask", "AverageDailyVolume", "Bid", "BookValue", "Change",
	"Change_PercentChange", "ChangeFromFiftydayMovingAverage",
	"ChangeFromTwoHundreddayMovingAverage",
	"ChangeFromYearHigh", "ChangeFromYearLow",
	"ChangeinPercent", "Currency", "DaysHigh", "DaysLow",
	"DaysRange", "DividendPayDate", "DividendShare",
	"DividendYield", "EarningsShare", "EBITDA",
	"EPSEstimateCurrentYear", "EPSEstimateNextQuarter",
	"EPSEstimateNextYear", "ExDividendDate",
	"FiftydayMovingAverage", "LastTradeDate",
	"LastTradePriceOnly", "LastTradeTime", "LastTradeWithTime",
	"MarketCapitalization", "Name", "OneyrTargetPrice", "Open",
	"PEGRatio", "PERatio", "PercebtChangeFromYearHigh",
	"PercentChange", "PercentChangeFromFiftydayMovingAverage",
	"PercentChangeFromTwoHundreddayMovingAverage",
	"PercentChangeFromYearLow", "PreviousClose", "PriceBook",
	"PriceEPSEstimateCurrentYear", "PriceEPSEstimateNextYear",
	"PriceSales", "ShortRatio", "StockExchange", "Symbol",
	"TwoHundreddayMovingAverage", "Volume", "YearHigh",
	"YearLow", "YearRange",
}

// Stock is a ticker plus the client used to look it up. Two stocks are equal
// when their tickers are.
type Stock struct {
	ticker string
	client Fetcher
}

// New returns a Stock for ticker backed by client.
func New(ticker string, client Fetcher) *Stock {
	return &Stock{ticker: ticker, client: client}
}

func (s *Stock) Ticker() string { return s.ticker }

func (s *Stock) SetTicker(ticker string) { s.ticker = ticker }

// String renders the stock as <Stock TICKER>.
func (s *Stock) String() string { return "<Stock " + s.ticker + ">" }

// Equal reports whether both stocks refer to the same ticker.
func (s *Stock) Equal(other *Stock) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.ticker == other.ticker
}

// Key identifies the stock in maps and sets.
func (s *Stock) Key() string { return s.String() }

// LatestPrice returns the last trade price and time.
func (s *Stock) LatestPrice(ctx context.Context) ([]yql.Record, error) {
	return s.client.RequestQuotes(ctx, []string{s.ticker}, LatestPriceColumns)
}

// Info returns every InfoColumns field for the stock.
func (s *Stock) Info(ctx context.Context) ([]yql.Record, error) {
	return s.client.RequestQuotes(ctx, []string{s.ticker}, InfoColumns)
}

// Historical returns daily bars between start and end (yyyy-mm-dd, at most
// 366 days apart), newest first.
func (s *Stock) Historical(ctx context.Context, start, end string) ([]yql.Record, error) {
	return s.client.RequestHistorical(ctx, s.ticker, start, end)
}

// SaveHistorical downloads the full history to outputFolder/<ticker>.csv.
func (s *Stock) SaveHistorical(ctx context.Context, outputFolder string) error {
	return s.client.DownloadHistorical(ctx, []string{s.ticker}, outputFolder)
}
