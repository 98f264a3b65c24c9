package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port                 int           `yaml:"port" default:"8000"`
		ReadTimeout          time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout         time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout      time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequestThreshold time.Duration `yaml:"slow_request_threshold" default:"5s"`
		TrustedProxies       []string      `yaml:"trusted_proxies"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Logging struct {
		Level     string `yaml:"level" default:"info"`
		Format    string `yaml:"format" default:"json"`
		Output    string `yaml:"output" default:"stdout"`
		Collector struct {
			Enabled   bool          `yaml:"enabled"`
			Topic     string        `yaml:"topic" default:"tradesentry.logs"`
			Interval  time.Duration `yaml:"interval" default:"10s"`
			Threshold int           `yaml:"threshold" default:"100"`
		} `yaml:"collector"`
	} `yaml:"logging"`
	Provider struct {
		BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; TradeSentry/1.0)"`
		Timeout   time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"provider"`
	Pivots struct {
		Period   string `yaml:"period" default:"10d"`
		Interval string `yaml:"interval" default:"1d"`
	} `yaml:"pivots"`
	Charts    []ChartConfig `yaml:"charts"`
	Inference struct {
		URL       string        `yaml:"url"`
		Timeout   time.Duration `yaml:"timeout" default:"12s"`
		Lookback  int           `yaml:"lookback" default:"60"`
		RSIPeriod int           `yaml:"rsi_period" default:"14"`
		Window    int           `yaml:"window" default:"100"`
		Headlines int           `yaml:"headlines" default:"5"`
	} `yaml:"inference"`
	LLM struct {
		BaseURL     string        `yaml:"base_url" default:"https://api.groq.com/openai/v1"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"openai/gpt-oss-20b"`
		Temperature float64       `yaml:"temperature" default:"0.2"`
		MaxTokens   int           `yaml:"max_tokens" default:"500"`
		Timeout     time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"llm"`
	Live struct {
		Interval     time.Duration `yaml:"interval" default:"2s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	} `yaml:"live"`
	Cache struct {
		AnalysisTTL time.Duration `yaml:"analysis_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Capacity     int `yaml:"capacity" default:"10"`
		RefillPerSec int `yaml:"refill_per_sec" default:"2"`
	} `yaml:"ratelimit"`
	Sink struct {
		Backend      string        `yaml:"backend" default:"none"`
		BufferSize   int           `yaml:"buffer_size" default:"256"`
		BatchSize    int           `yaml:"batch_size" default:"20"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"2s"`
	} `yaml:"sink"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"tradesentry.reports"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"tradesentry"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
}

// ChartConfig is one dashboard chart window.
type ChartConfig struct {
	Label         string `yaml:"label"`
	Period        string `yaml:"period"`
	Interval      string `yaml:"interval"`
	SessionFilter bool   `yaml:"session_filter"`
}

var defaultCharts = []ChartConfig{
	{Label: "1D", Period: "5d", Interval: "1m", SessionFilter: true},
	{Label: "5D", Period: "5d", Interval: "15m"},
	{Label: "1Y", Period: "1y", Interval: "1d"},
}

var (
	validPeriods   = []string{"1d", "5d", "10d", "1mo", "3mo", "6mo", "1y", "2y"}
	validIntervals = []string{"1m", "5m", "15m", "30m", "1h", "1d", "1wk"}
	validBackends  = []string{"none", "kafka", "clickhouse"}
)

// Default returns a Config populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	c.Charts = append([]ChartConfig(nil), defaultCharts...)
	return &c, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	c.Charts = nil
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if len(c.Charts) == 0 {
		c.Charts = append([]ChartConfig(nil), defaultCharts...)
	}
	return c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Parse(b)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file falls back to defaults so the service can boot from env alone.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	c.ApplyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from environment variables resolved by getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("INFERENCE_URL"); v != "" {
		c.Inference.URL = v
	}
	if v := getenv("GROQ_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := getenv("SINK_BACKEND"); v != "" {
		c.Sink.Backend = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if !contains(validBackends, c.Sink.Backend) {
		return fmt.Errorf("sink.backend must be one of %v, got '%s'", validBackends, c.Sink.Backend)
	}
	if c.Sink.Backend == "kafka" {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when sink.backend is kafka")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("kafka.topic is required when sink.backend is kafka")
		}
	}
	if c.Sink.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when sink.backend is clickhouse")
	}
	if !contains(validPeriods, c.Pivots.Period) || !contains(validIntervals, c.Pivots.Interval) {
		return fmt.Errorf("pivots window %s/%s is not supported", c.Pivots.Period, c.Pivots.Interval)
	}
	for _, ch := range c.Charts {
		if ch.Label == "" {
			return fmt.Errorf("charts: label is required")
		}
		if !contains(validPeriods, ch.Period) {
			return fmt.Errorf("charts[%s]: unsupported period '%s'", ch.Label, ch.Period)
		}
		if !contains(validIntervals, ch.Interval) {
			return fmt.Errorf("charts[%s]: unsupported interval '%s'", ch.Label, ch.Interval)
		}
	}
	for _, cidr := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("server.trusted_proxies: %w", err)
		}
	}
	if c.Live.Interval <= 0 {
		return fmt.Errorf("live.interval must be positive")
	}
	if c.Inference.Lookback <= 0 || c.Inference.RSIPeriod <= 0 {
		return fmt.Errorf("inference.lookback and inference.rsi_period must be positive")
	}
	// the first rsi_period-1 closes carry no RSI and are dropped
	if minCloses := c.Inference.Lookback + c.Inference.RSIPeriod - 1; c.Inference.Window < minCloses {
		return fmt.Errorf("inference.window (%d) must be >= lookback + rsi_period - 1 (%d)", c.Inference.Window, minCloses)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
