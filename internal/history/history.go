package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockquote/internal/provider/yql"
)

// Bar is one trading day for a ticker.
type Bar struct {
	Symbol   string          `json:"symbol"`
	Date     time.Time       `json:"date"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adj_close"`
	Volume   int64           `json:"volume"`
}

// Key identifies a bar bucket.
type Key struct {
	Symbol string
	Date   time.Time
}

func (b Bar) Key() Key { return Key{Symbol: b.Symbol, Date: b.Date} }

// csvColumns is yql.CSVHeader split into fields.
var csvColumns = strings.Split(yql.CSVHeader, ",")

// FromRecords converts historical query rows. Rows use Adj_Close for the
// adjusted close.
func FromRecords(symbol string, records []yql.Record) ([]Bar, error) {
	out := make([]Bar, 0, len(records))
	for i, r := range records {
		b, err := parseBar(symbol, []string{r["Date"], r["Open"], r["High"], r["Low"], r["Close"], r["Volume"], r["Adj_Close"]})
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// ReadCSV parses a downloaded history file.
func ReadCSV(symbol string, r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvColumns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range csvColumns {
		if strings.TrimSpace(header[i]) != col {
			return nil, fmt.Errorf("unexpected header %q, want %q", strings.Join(header, ","), yql.CSVHeader)
		}
	}

	var out []Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b, err := parseBar(symbol, rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// parseBar reads fields in CSV column order.
func parseBar(symbol string, f []string) (Bar, error) {
	date, err := time.Parse(yql.DateLayout, strings.TrimSpace(f[0]))
	if err != nil {
		return Bar{}, fmt.Errorf("date: %w", err)
	}
	b := Bar{Symbol: symbol, Date: date}
	for _, p := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"open", f[1], &b.Open},
		{"high", f[2], &b.High},
		{"low", f[3], &b.Low},
		{"close", f[4], &b.Close},
		{"adj close", f[6], &b.AdjClose},
	} {
		d, err := decimal.NewFromString(strings.TrimSpace(p.raw))
		if err != nil {
			return Bar{}, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = d
	}
	v, err := strconv.ParseInt(strings.TrimSpace(f[5]), 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("volume: %w", err)
	}
	b.Volume = v
	return b, nil
}

// Collapse keeps one bar per (Symbol, Date); for duplicates later input wins.
// Output is sorted by symbol, then newest date first.
func Collapse(bars []Bar) []Bar {
	latest := make(map[Key]Bar, len(bars))
	for _, b := range bars {
		latest[b.Key()] = b
	}

	out := make([]Bar, 0, len(latest))
	for _, v := range latest { out = append(out, v) }
	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol { return out[i].Symbol < out[j].Symbol }
		return out[i].Date.After(out[j].Date)
	})
	return out
}
