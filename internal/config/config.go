package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "gopkg.in/yaml.v3"

    "stockquote/internal/logging"
)

type Server struct {
    Port              string `json:"port" yaml:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
}

type Service struct {
    BaseURL     string `json:"base_url" yaml:"base_url"`
    Env         string `json:"env" yaml:"env"`
    DownloadURL string `json:"download_url" yaml:"download_url"`
    UserAgent   string `json:"user_agent" yaml:"user_agent"`
    TimeoutSec  int    `json:"timeout_sec" yaml:"timeout_sec"`
}

type Config struct {
    Server    Server         `json:"server" yaml:"server"`
    Service   Service        `json:"service" yaml:"service"`
    Log       logging.Config `json:"log" yaml:"log"`
    OutputDir string         `json:"output_dir" yaml:"output_dir"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 15},
        Service: Service{
            BaseURL:     "https://query.yahooapis.com/v1/public/yql",
            Env:         "store://datatables.org/alltableswithkeys",
            DownloadURL: "http://real-chart.finance.yahoo.com/table.csv",
            UserAgent:   "stockquote/1.0",
            TimeoutSec:  10,
        },
        Log:       logging.DefaultConfig(),
        OutputDir: ".",
    }
}

// Load reads config from path. JSON is the default format; a .yaml or .yml
// extension selects YAML. If path is empty or the file does not exist,
// defaults are used. Environment variables override select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        for _, p := range []string{"config.json", "config.yaml", "config.yml"} {
            if _, err := os.Stat(p); err == nil { path = p; break }
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := decode(path, b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        return yaml.Unmarshal(b, cfg)
    default:
        return json.Unmarshal(b, cfg)
    }
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("YQL_BASE_URL"); v != "" { cfg.Service.BaseURL = v }
    if v := os.Getenv("YQL_ENV"); v != "" { cfg.Service.Env = v }
    if v := os.Getenv("YQL_DOWNLOAD_URL"); v != "" { cfg.Service.DownloadURL = v }
    if v := os.Getenv("USER_AGENT"); v != "" { cfg.Service.UserAgent = v }
    if v := os.Getenv("YQL_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Service.TimeoutSec = x }
    }
    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Log.Level = strings.ToLower(v) }
    if v := os.Getenv("LOG_FORMAT"); v != "" { cfg.Log.Format = strings.ToLower(v) }
    if v := os.Getenv("OUTPUT_DIR"); v != "" { cfg.OutputDir = v }
}

// SplitCSV splits a comma-separated flag or env value, dropping blanks.
func SplitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}
