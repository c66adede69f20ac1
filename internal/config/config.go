// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment は実行環境を表す。
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvProduction  Environment = "production"
)

// ParseEnvironment は文字列から実行環境を解析する。
// 空文字列は development、未知の値はモック認証を有効にしないよう production として扱う。
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "development", "dev", "local":
		return EnvDevelopment
	case "test":
		return EnvTest
	default:
		return EnvProduction
	}
}

// IsDevelopmentOrTest は開発環境またはテスト環境かを返す。
// この場合、OAuthはモックで動作する。
func (e Environment) IsDevelopmentOrTest() bool {
	return e == EnvDevelopment || e == EnvTest
}

const (
	defaultBaseURL       = "http://localhost:8080"
	defaultSessionSecret = "development-session-secret-change-me"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	Environment Environment

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Session
	SessionSecret string
	SessionMaxAge int

	// GitHub
	GitHubUsername      string
	GitHubAPIURL        string
	GitHubTimeout       time.Duration
	GitHubRatePerMinute int

	// Blog
	BlogFeedURL  string
	FetchTimeout time.Duration
	FetchMaxSize int64

	// Forum（未設定の場合はコンテンツファイルのトピックを使う）
	DatabaseURL string

	// Content
	ContentFile string

	// Rate Limit（req/min/client）
	RateLimitGeneral int
	RateLimitAuth    int

	// Logging
	LogLevel slog.Level

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string
}

// LoadDotenv はカレントディレクトリの .env を環境変数に読み込む。
// ファイルが存在しない場合は何もしない。既存の環境変数は上書きしない。
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load dotenv: %w", err)
	}
	return nil
}

// Load は環境変数からConfigを読み込む。
// production環境で必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Environment = ParseEnvironment(os.Getenv("APP_ENV"))

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	cfg.BaseURL = strings.TrimRight(os.Getenv("BASE_URL"), "/")

	if cfg.Environment == EnvProduction {
		var missing []string
		if cfg.SessionSecret == "" {
			missing = append(missing, "SESSION_SECRET")
		}
		if cfg.BaseURL == "" {
			missing = append(missing, "BASE_URL")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("required environment variables are not set: %v", missing)
		}
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = defaultSessionSecret
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.GoogleRedirectURL == "" {
		cfg.GoogleRedirectURL = cfg.BaseURL + "/auth/callback"
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400*30)
	cfg.GitHubUsername = getEnvString("GITHUB_USERNAME", "taianf")
	cfg.GitHubAPIURL = strings.TrimRight(getEnvString("GITHUB_API_URL", "https://api.github.com"), "/")
	cfg.GitHubTimeout = getEnvDuration("GITHUB_TIMEOUT", 5*time.Second)
	cfg.GitHubRatePerMinute = getEnvInt("GITHUB_RATE_PER_MINUTE", 30)
	cfg.BlogFeedURL = getEnvString("BLOG_FEED_URL", "")
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.DatabaseURL = getEnvString("DATABASE_URL", "")
	cfg.ContentFile = getEnvString("CONTENT_FILE", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitAuth = getEnvInt("RATE_LIMIT_AUTH", 20)
	cfg.LogLevel = getEnvLogLevel("LOG_LEVEL", slog.LevelInfo)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", cfg.BaseURL)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvLogLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
