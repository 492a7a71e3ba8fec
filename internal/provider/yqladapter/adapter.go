package yqladapter

import (
    "context"
    "fmt"
    "strings"
    "time"

    "stockquote/internal/provider"
    "stockquote/internal/provider/yql"
)

// Columns are the quote fields the adapter needs.
var Columns = []string{"Symbol", "LastTradePriceOnly", "Currency", "StockExchange", "LastTradeDate", "LastTradeTime"}

// Quoter is the subset of *yql.Client used by the adapter.
type Quoter interface {
    RequestQuotes(ctx context.Context, tickers []string, columns []string) ([]yql.Record, error)
}

type Config struct {
    Name string // display name, default: YQL
    // Location is used to read LastTradeDate/LastTradeTime. Defaults to America/New_York,
    // falling back to UTC when tzdata is unavailable.
    Location *time.Location
}

type Adapter struct {
    cfg    Config
    client Quoter
    now    func() time.Time
}

func New(cfg Config, client Quoter) *Adapter {
    if cfg.Name == "" { cfg.Name = "YQL" }
    if cfg.Location == nil {
        loc, err := time.LoadLocation("America/New_York")
        if err != nil { loc = time.UTC }
        cfg.Location = loc
    }
    return &Adapter{cfg: cfg, client: client, now: time.Now}
}

var _ provider.Provider = (*Adapter)(nil)

func (a *Adapter) Name() string { return a.cfg.Name }

// Fetch returns one Quote per symbol that has a last trade price. Unknown
// symbols come back from the service with empty fields and are skipped.
func (a *Adapter) Fetch(ctx context.Context, symbols []string) ([]provider.Quote, error) {
    records, err := a.client.RequestQuotes(ctx, symbols, Columns)
    if err != nil {
        return nil, err
    }
    now := a.now().UTC()
    out := make([]provider.Quote, 0, len(records))
    for i, r := range records {
        price := strings.TrimSpace(r["LastTradePriceOnly"])
        if price == "" || price == "N/A" { continue }
        sym := r["Symbol"]
        if sym == "" && i < len(symbols) { sym = symbols[i] }
        src := a.cfg.Name
        if ex := strings.TrimSpace(r["StockExchange"]); ex != "" && ex != "N/A" {
            src = fmt.Sprintf("%s:%s", a.cfg.Name, ex)
        }
        out = append(out, provider.Quote{
            Symbol:     sym,
            Price:      price,
            Currency:   r["Currency"],
            Source:     src,
            ReceivedAt: a.tradeTime(r, now),
        })
    }
    return out, nil
}

// tradeTime combines LastTradeDate ("3/4/2016") and LastTradeTime ("4:00pm").
func (a *Adapter) tradeTime(r yql.Record, fallback time.Time) time.Time {
    d, tm := strings.TrimSpace(r["LastTradeDate"]), strings.TrimSpace(r["LastTradeTime"])
    if d == "" || tm == "" { return fallback }
    t, err := time.ParseInLocation("1/2/2006 3:04pm", d+" "+tm, a.cfg.Location)
    if err != nil { return fallback }
    return t.UTC()
}
