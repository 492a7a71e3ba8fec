package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "os"
    "os/signal"
    "path/filepath"
    "syscall"
    "time"

    "go.uber.org/zap"

    "stockquote/internal/config"
    "stockquote/internal/history"
    "stockquote/internal/httpx"
    "stockquote/internal/logging"
    "stockquote/internal/provider/yql"
    "stockquote/internal/stock"
)

func main() {
    var op string
    var tickersCSV string
    var columnsCSV string
    var start, end string
    var outDir string
    var configPath string
    var logLevel string

    flag.StringVar(&op, "op", "latest", "latest | info | quotes | historical | download | bars")
    flag.StringVar(&tickersCSV, "tickers", getenv("TICKERS", "AAPL"), "comma-separated tickers")
    flag.StringVar(&columnsCSV, "columns", "", "comma-separated quote columns for -op quotes (default all)")
    flag.StringVar(&start, "start", "", "start date yyyy-mm-dd for -op historical")
    flag.StringVar(&end, "end", "", "end date yyyy-mm-dd for -op historical")
    flag.StringVar(&outDir, "out", "", "folder for downloaded CSV files (default config output_dir)")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json or config.yaml (optional)")
    flag.StringVar(&logLevel, "log-level", "", "override log level")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { fatal("config: %v", err) }
    if logLevel != "" { cfg.Log.Level = logLevel }
    if outDir == "" { outDir = cfg.OutputDir }

    logger, err := logging.New(cfg.Log)
    if err != nil { fatal("logger: %v", err) }
    defer logger.Sync()

    tickers := config.SplitCSV(tickersCSV)
    if len(tickers) == 0 { fatal("no tickers provided") }

    httpClient := httpx.New(time.Duration(cfg.Service.TimeoutSec) * time.Second)
    httpClient.UserAgent = cfg.Service.UserAgent
    client := yql.NewClient(
        yql.WithBaseURL(cfg.Service.BaseURL),
        yql.WithEnv(cfg.Service.Env),
        yql.WithDownloadURL(cfg.Service.DownloadURL),
        yql.WithHTTPClient(httpClient),
        yql.WithLogger(logger.Named("yql")),
    )

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    out, err := run(ctx, client, op, tickers, config.SplitCSV(columnsCSV), start, end, outDir)
    if err != nil {
        logger.Error("request failed", zap.String("op", op), zap.Strings("tickers", tickers), zap.Error(err))
        logger.Sync()
        os.Exit(1)
    }
    if out != nil {
        if err := printJSON(os.Stdout, out); err != nil {
            logger.Error("encoding output", zap.String("op", op), zap.Error(err))
            logger.Sync()
            os.Exit(1)
        }
    }
}

func run(ctx context.Context, client *yql.Client, op string, tickers, columns []string, start, end, outDir string) (any, error) {
    switch op {
    case "latest":
        return perStock(tickers, client, func(s *stock.Stock) ([]yql.Record, error) { return s.LatestPrice(ctx) })
    case "info":
        return perStock(tickers, client, func(s *stock.Stock) ([]yql.Record, error) { return s.Info(ctx) })
    case "quotes":
        return client.RequestQuotes(ctx, tickers, columns)
    case "historical":
        return perStock(tickers, client, func(s *stock.Stock) ([]yql.Record, error) { return s.Historical(ctx, start, end) })
    case "download":
        if err := client.DownloadHistorical(ctx, tickers, outDir); err != nil { return nil, err }
        files := make([]string, 0, len(tickers))
        for _, t := range tickers { files = append(files, filepath.Join(outDir, t+".csv")) }
        return map[string][]string{"files": files}, nil
    case "bars":
        return readBars(tickers, outDir)
    default:
        return nil, fmt.Errorf("%w: unknown op %q", yql.ErrInvalidArgument, op)
    }
}

// perStock keys results by ticker.
func perStock(tickers []string, client *yql.Client, fn func(*stock.Stock) ([]yql.Record, error)) (map[string][]yql.Record, error) {
    out := make(map[string][]yql.Record, len(tickers))
    for _, t := range tickers {
        recs, err := fn(stock.New(t, client))
        if err != nil { return nil, fmt.Errorf("%s: %w", t, err) }
        out[t] = recs
    }
    return out, nil
}

// readBars loads previously downloaded <ticker>.csv files from dir.
func readBars(tickers []string, dir string) ([]history.Bar, error) {
    var all []history.Bar
    for _, t := range tickers {
        f, err := os.Open(filepath.Join(dir, t+".csv"))
        if err != nil { return nil, err }
        bars, err := history.ReadCSV(t, f)
        f.Close()
        if err != nil { return nil, fmt.Errorf("%s: %w", t, err) }
        all = append(all, bars...)
    }
    return history.Collapse(all), nil
}

func printJSON(w io.Writer, v any) error {
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return fmt.Errorf("encoding output: %w", err) }
    _, err = fmt.Fprintln(w, string(b))
    return err
}

func fatal(format string, args ...any) {
    fmt.Fprintf(os.Stderr, format+"\n", args...)
    os.Exit(1)
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
