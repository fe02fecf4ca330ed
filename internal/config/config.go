package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Cooldown state persistence
	StateStoreType string // "file" or "redis"
	StatePath      string

	// Redis (only used when StateStoreType is "redis")
	Redis RedisConfig

	// Telegram delivery
	Telegram TelegramConfig

	// Optional Pushgateway endpoint for run metrics, empty disables push
	PushgatewayURL string

	// Threshold document sections
	Rules     Thresholds
	Cooldowns Cooldowns
	Regime    RegimeThresholds
}

// RedisConfig holds Redis connection settings for the cooldown store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TelegramConfig holds Telegram bot credentials and delivery timeout
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
}

// Thresholds holds every numeric threshold consumed by the rule
// registry. Each key has a documented default and can be overridden
// via the rules section of the threshold document.
type Thresholds struct {
	CreditStressIntraday    float64   `yaml:"credit_stress_intraday"`
	CreditStress5D          float64   `yaml:"credit_stress_5d"`
	LiquidityStressIntraday float64   `yaml:"liquidity_stress_intraday"`
	LiquidityStress5D       float64   `yaml:"liquidity_stress_5d"`
	VolatilityLevel         float64   `yaml:"volatility_level"`
	VolatilitySpike         float64   `yaml:"volatility_spike"`
	SPYDrawdownLevels       []float64 `yaml:"spy_drawdown_levels"`
	GrowthWeakness          float64   `yaml:"growth_weakness_threshold"`
	SmallcapWeakness        float64   `yaml:"smallcap_weakness_threshold"`
	DefensiveHedgeBid       float64   `yaml:"defensive_hedge_bid"`
	CombinedStressEquity    float64   `yaml:"combined_stress_equity"`
	RiskAppetiteEquity      float64   `yaml:"risk_appetite_equity"`
	BTCMajorMove            float64   `yaml:"btc_major_move"`
	RateShockBps            float64   `yaml:"rate_shock_bps"`
}

// Cooldowns holds re-fire suppression windows in minutes, tiered by
// severity.
type Cooldowns struct {
	Critical int `yaml:"critical"`
	High     int `yaml:"high"`
	Medium   int `yaml:"medium"`
	Low      int `yaml:"low"`
}

// Window returns the suppression window for a severity name.
// Unknown severities get a one hour window.
func (c Cooldowns) Window(severity string) time.Duration {
	minutes := 60
	switch severity {
	case "critical":
		minutes = c.Critical
	case "high":
		minutes = c.High
	case "medium":
		minutes = c.Medium
	case "low":
		minutes = c.Low
	}
	return time.Duration(minutes) * time.Minute
}

// RegimeThresholds holds the regime classifier trigger levels.
type RegimeThresholds struct {
	HYG5D          float64 `yaml:"hyg_5d_threshold"`
	DXY5D          float64 `yaml:"dxy_5d_threshold"`
	VIXLevel       float64 `yaml:"vix_level_threshold"`
	CombinedEquity float64 `yaml:"spy_tlt_combined_threshold"`
}

// thresholdDocument mirrors the on-disk YAML layout.
type thresholdDocument struct {
	Rules     Thresholds       `yaml:"rules"`
	Cooldowns Cooldowns        `yaml:"cooldowns"`
	Regime    RegimeThresholds `yaml:"regime"`
}

// DefaultThresholds returns the documented rule threshold defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CreditStressIntraday:    -1.5,
		CreditStress5D:          -3.0,
		LiquidityStressIntraday: 1.0,
		LiquidityStress5D:       2.0,
		VolatilityLevel:         30,
		VolatilitySpike:         8,
		SPYDrawdownLevels:       []float64{-2, -4, -6, -10, -15, -20},
		GrowthWeakness:          -1.5,
		SmallcapWeakness:        -2.0,
		DefensiveHedgeBid:       1.5,
		CombinedStressEquity:    -2.5,
		RiskAppetiteEquity:      1.5,
		BTCMajorMove:            8.0,
		RateShockBps:            15,
	}
}

// DefaultCooldowns returns the documented per-severity cooldown
// defaults, in minutes.
func DefaultCooldowns() Cooldowns {
	return Cooldowns{
		Critical: 45,
		High:     90,
		Medium:   240,
		Low:      1440,
	}
}

// DefaultRegime returns the documented regime trigger defaults.
func DefaultRegime() RegimeThresholds {
	return RegimeThresholds{
		HYG5D:          -3.0,
		DXY5D:          2.0,
		VIXLevel:       30,
		CombinedEquity: -2.5,
	}
}

// Load loads configuration from environment variables and the optional
// threshold document. It automatically loads a .env file if present.
// A missing or unreadable threshold document falls back to defaults;
// the engine functions with zero configuration present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		StateStoreType: getEnv("STATE_STORE_TYPE", "file"),
		StatePath:      getEnv("STATE_PATH", "state.json"),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
			Timeout:  getEnvAsDuration("TELEGRAM_TIMEOUT", 30*time.Second),
		},
		PushgatewayURL: getEnv("PUSHGATEWAY_URL", ""),
		Rules:          DefaultThresholds(),
		Cooldowns:      DefaultCooldowns(),
		Regime:         DefaultRegime(),
	}

	path := getEnv("CONFIG_PATH", "config.yml")
	if err := cfg.loadThresholdDocument(path); err != nil {
		// Defaults already applied; a broken document is a warning,
		// never a fatal error.
		return cfg, fmt.Errorf("could not load threshold document %s: %w", path, err)
	}

	return cfg, nil
}

// loadThresholdDocument overlays the YAML document at path onto the
// already-defaulted sections. Keys absent from the document keep their
// default values.
func (c *Config) loadThresholdDocument(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	doc := thresholdDocument{
		Rules:     c.Rules,
		Cooldowns: c.Cooldowns,
		Regime:    c.Regime,
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	if len(doc.Rules.SPYDrawdownLevels) == 0 {
		doc.Rules.SPYDrawdownLevels = DefaultThresholds().SPYDrawdownLevels
	}

	c.Rules = doc.Rules
	c.Cooldowns = doc.Cooldowns
	c.Regime = doc.Regime
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
