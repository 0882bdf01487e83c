package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/bellapacxx/bingo-hall/game"
	"github.com/bellapacxx/bingo-hall/utils/logger"
)

const (
	defaultPort      = "4000"
	defaultRateLimit = 5
	defaultRateBurst = 10
)

// Config is the server configuration. Precedence, lowest first:
// built-in defaults, rules file, environment, command-line flags.
type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	RedisChannel   string
	AllowedOrigins []string
	RulesFile      string

	// RateLimit is requests per second per client on mutating routes.
	RateLimit float64
	RateBurst int

	Rules game.Rules
}

// Load reads .env, the environment, an optional rules file and args
// (without the program name).
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, reading environment variables")
	}

	cfg := &Config{
		Port:           envOr("PORT", defaultPort),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisChannel:   os.Getenv("REDIS_CHANNEL"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		RulesFile:      os.Getenv("RULES_FILE"),
		RateLimit:      defaultRateLimit,
		RateBurst:      defaultRateBurst,
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_BURST: %w", err)
		}
		cfg.RateBurst = n
	}

	fs := pflag.NewFlagSet("bingo-hall", pflag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "postgres DSN; empty keeps state in memory")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "redis URL for mirroring events; empty disables")
	fs.StringVar(&cfg.RulesFile, "rules", cfg.RulesFile, "YAML file overriding the game rules")
	fs.StringSliceVar(&cfg.AllowedOrigins, "allowed-origins", cfg.AllowedOrigins, "CORS and websocket origins; empty allows any")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "requests per second per client on mutating routes")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "burst size for the rate limit")
	drawInterval := fs.Duration("draw-interval", 0, "time between automatic draws")
	countdown := fs.Duration("countdown", 0, "delay between a play request and the first draw")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	rules := game.DefaultRules()
	if cfg.RulesFile != "" {
		var err error
		if rules, err = LoadRules(cfg.RulesFile, rules); err != nil {
			return nil, err
		}
	}

	if err := durationFromEnv("DRAW_INTERVAL", &rules.DrawInterval); err != nil {
		return nil, err
	}
	if err := durationFromEnv("COUNTDOWN", &rules.Countdown); err != nil {
		return nil, err
	}
	if fs.Changed("draw-interval") {
		rules.DrawInterval = *drawInterval
	}
	if fs.Changed("countdown") {
		rules.Countdown = *countdown
	}

	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	cfg.Rules = rules
	return cfg, nil
}

// ValidateRules rejects rule sets the engine cannot run.
func ValidateRules(r game.Rules) error {
	var errs []error
	if r.TotalBalls < r.MaxSetSize {
		errs = append(errs, fmt.Errorf("total_balls %d is smaller than max_set_size %d", r.TotalBalls, r.MaxSetSize))
	}
	if r.MinSetSize > r.MaxSetSize {
		errs = append(errs, fmt.Errorf("min_set_size %d exceeds max_set_size %d", r.MinSetSize, r.MaxSetSize))
	}
	if r.MaxDraws >= r.TotalBalls {
		errs = append(errs, fmt.Errorf("max_draws %d must leave balls in a pool of %d", r.MaxDraws, r.TotalBalls))
	}
	if r.BonusThreshold > r.MaxDraws {
		errs = append(errs, fmt.Errorf("bonus_threshold %d exceeds max_draws %d", r.BonusThreshold, r.MaxDraws))
	}
	if r.DrawInterval <= 0 || r.Countdown <= 0 || r.DrawWindow <= 0 {
		errs = append(errs, errors.New("countdown, draw_window and draw_interval must be positive"))
	}
	for size, price := range r.Prices {
		if !price.IsPositive() {
			errs = append(errs, fmt.Errorf("price for %d numbers must be positive", size))
		}
	}
	lowest, ok := r.Prizes.LowestTier()
	switch {
	case !ok:
		errs = append(errs, errors.New("prize table is empty"))
	case r.WinThreshold < lowest:
		errs = append(errs, fmt.Errorf("win_threshold %d is below the lowest prize tier %d", r.WinThreshold, lowest))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// durationFromEnv accepts Go durations ("5s") or whole seconds ("5").
func durationFromEnv(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
