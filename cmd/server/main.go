package main

import (
    "compress/gzip"
    "context"
    "encoding/json"
    "errors"
    "io"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "sync"
    "syscall"
    "time"

    "go.uber.org/zap"

    "stockquote/internal/config"
    "stockquote/internal/history"
    "stockquote/internal/httpx"
    "stockquote/internal/logging"
    "stockquote/internal/metrics"
    "stockquote/internal/provider"
    "stockquote/internal/provider/yql"
    "stockquote/internal/provider/yqladapter"
    "stockquote/internal/stock"
)

const maxSymbols = 200

type recordsResponse struct {
    Records []yql.Record `json:"records"`
}

type latestResponse struct {
    Quotes []provider.Quote `json:"quotes"`
}

type historicalResponse struct {
    Symbol string        `json:"symbol"`
    Bars   []history.Bar `json:"bars"`
}

type errorResponse struct {
    Error string `json:"error"`
}

func main() {
    cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
    if err != nil {
        os.Stderr.WriteString("config: " + err.Error() + "\n")
        os.Exit(1)
    }
    logger, err := logging.New(cfg.Log)
    if err != nil {
        os.Stderr.WriteString("logger: " + err.Error() + "\n")
        os.Exit(1)
    }
    defer logger.Sync()

    m := metrics.New(metrics.DefaultConfig())
    httpClient := httpx.New(time.Duration(cfg.Service.TimeoutSec) * time.Second)
    httpClient.UserAgent = cfg.Service.UserAgent

    client := yql.NewClient(
        yql.WithBaseURL(cfg.Service.BaseURL),
        yql.WithEnv(cfg.Service.Env),
        yql.WithDownloadURL(cfg.Service.DownloadURL),
        yql.WithHTTPClient(httpClient),
        yql.WithLogger(logger.Named("yql")),
        yql.WithMetrics(m),
    )
    latest := yqladapter.New(yqladapter.Config{}, client)
    timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           newHandler(client, latest, m, timeout, logger),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      timeout + 5*time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        logger.Info("server listening", zap.String("addr", srv.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("server", zap.Error(err))
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Error("shutdown", zap.Error(err))
    }
}

func newHandler(client stock.Fetcher, latest provider.Provider, m *metrics.Metrics, timeout time.Duration, logger *zap.Logger) http.Handler {
    api := http.NewServeMux()
    api.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte(`{"status":"ok"}`))
    })
    api.HandleFunc("/api/quotes", func(w http.ResponseWriter, r *http.Request) {
        symbols, ok := symbolsParam(w, r)
        if !ok { return }
        ctx, cancel := context.WithTimeout(r.Context(), timeout)
        defer cancel()
        writeQuotes(w, ctx, client, symbols, config.SplitCSV(r.URL.Query().Get("columns")))
    })
    api.HandleFunc("/api/latest", func(w http.ResponseWriter, r *http.Request) {
        symbols, ok := symbolsParam(w, r)
        if !ok { return }
        ctx, cancel := context.WithTimeout(r.Context(), timeout)
        defer cancel()
        writeLatest(w, ctx, latest, symbols)
    })
    api.HandleFunc("/api/historical", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodGet {
            writeError(w, http.StatusMethodNotAllowed, "method not allowed")
            return
        }
        q := r.URL.Query()
        ctx, cancel := context.WithTimeout(r.Context(), timeout)
        defer cancel()
        writeHistorical(w, ctx, client, strings.TrimSpace(q.Get("symbol")), q.Get("start"), q.Get("end"))
    })

    root := http.NewServeMux()
    if m != nil {
        root.Handle("/metrics", m.Handler())
    }
    root.Handle("/", withJSONHeaders(withGzip(recoverPanic(logger, api))))
    return root
}

func symbolsParam(w http.ResponseWriter, r *http.Request) ([]string, bool) {
    if r.Method != http.MethodGet {
        writeError(w, http.StatusMethodNotAllowed, "method not allowed")
        return nil, false
    }
    symbols := config.SplitCSV(r.URL.Query().Get("symbols"))
    if len(symbols) == 0 {
        writeError(w, http.StatusBadRequest, "missing symbols query param")
        return nil, false
    }
    if len(symbols) > maxSymbols {
        writeError(w, http.StatusBadRequest, "too many symbols")
        return nil, false
    }
    return symbols, true
}

func writeQuotes(w http.ResponseWriter, ctx context.Context, client stock.Fetcher, symbols, columns []string) {
    records, err := client.RequestQuotes(ctx, symbols, columns)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, recordsResponse{Records: records})
}

func writeLatest(w http.ResponseWriter, ctx context.Context, p provider.Provider, symbols []string) {
    quotes, err := p.Fetch(ctx, symbols)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    writeJSON(w, http.StatusOK, latestResponse{Quotes: quotes})
}

func writeHistorical(w http.ResponseWriter, ctx context.Context, client stock.Fetcher, symbol, start, end string) {
    if symbol == "" {
        writeError(w, http.StatusBadRequest, "missing symbol query param")
        return
    }
    records, err := stock.New(symbol, client).Historical(ctx, start, end)
    if err != nil {
        writeServiceError(w, err)
        return
    }
    bars, err := history.FromRecords(symbol, records)
    if err != nil {
        writeError(w, http.StatusBadGateway, err.Error())
        return
    }
    writeJSON(w, http.StatusOK, historicalResponse{Symbol: symbol, Bars: bars})
}

func writeServiceError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, yql.ErrInvalidArgument):
        writeError(w, http.StatusBadRequest, err.Error())
    case errors.Is(err, yql.ErrNoResults):
        writeError(w, http.StatusNotFound, err.Error())
    case errors.Is(err, context.DeadlineExceeded):
        writeError(w, http.StatusGatewayTimeout, err.Error())
    default:
        writeError(w, http.StatusBadGateway, err.Error())
    }
}

func writeError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(logger *zap.Logger, next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                logger.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
                writeError(w, http.StatusInternalServerError, "internal server error")
            }
        }()
        next.ServeHTTP(w, r)
    })
}
