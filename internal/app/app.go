// Package app はアプリケーションの初期化、依存関係のワイヤリング、サブコマンドの実行を行う。
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/portfolio/internal/auth"
	"github.com/hitoshi/portfolio/internal/blog"
	"github.com/hitoshi/portfolio/internal/config"
	"github.com/hitoshi/portfolio/internal/content"
	"github.com/hitoshi/portfolio/internal/database"
	"github.com/hitoshi/portfolio/internal/forum"
	"github.com/hitoshi/portfolio/internal/github"
	"github.com/hitoshi/portfolio/internal/handler"
	"github.com/hitoshi/portfolio/internal/logger"
	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/middleware"
	"github.com/hitoshi/portfolio/internal/persistence"
	"github.com/hitoshi/portfolio/internal/repository"
	"github.com/hitoshi/portfolio/internal/security"
	"github.com/hitoshi/portfolio/internal/view"
)

const (
	shutdownTimeout = 30 * time.Second
	dbPingTimeout   = 5 * time.Second
	forumTopicLimit = 20
)

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. .envと環境変数から設定を読み込む
	if err := config.LoadDotenv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたレベルでログを再構成する
	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Server はワイヤリング済みのHTTPハンドラーと、その後始末を保持する。
type Server struct {
	Handler     http.Handler
	RateLimiter *middleware.RateLimiter
	Forum       *forum.Service
	Site        *content.Site
}

// Close はバックグラウンドのgoroutineを停止する。
func (s *Server) Close() {
	if s.RateLimiter != nil {
		s.RateLimiter.Stop()
	}
}

// NewServer は設定から全依存関係をワイヤリングする。
// dbがnilの場合、フォーラムはコンテンツファイルのトピックのみを表示する。
func NewServer(cfg *config.Config, db *sql.DB, reg *prometheus.Registry, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	// 1. コンテンツ
	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	// 2. メトリクス
	var collector metrics.MetricsCollector = metrics.Nop{}
	var metricsHandler http.Handler
	if reg != nil {
		collector = metrics.NewCollector(reg)
		metricsHandler = metrics.Handler(reg)
	}

	// 3. セキュリティサービス
	guard := security.NewURLGuard()
	sanitizer := security.NewContentSanitizer()

	// 4. ドメインサービス
	authService := auth.NewService(auth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		BaseURL:      cfg.BaseURL,
		Environment:  cfg.Environment,
	}, nil)

	// ホームのカードと公開APIはそれぞれ独立した送信レート枠を持つ
	githubConfig := github.ClientConfig{
		Endpoint:      cfg.GitHubAPIURL,
		Timeout:       cfg.GitHubTimeout,
		RatePerMinute: cfg.GitHubRatePerMinute,
	}
	githubClient := github.NewClient(&http.Client{}, githubConfig, sanitizer, collector, log)
	githubAPIClient := github.NewClient(&http.Client{}, githubConfig, sanitizer, collector, log)

	blogService, err := blog.NewService(
		guard.Client(cfg.FetchTimeout, cfg.FetchMaxSize),
		guard, sanitizer, site.BlogPosts(),
		blog.Config{FeedURL: cfg.BlogFeedURL},
		log,
	)
	if err != nil {
		return nil, err
	}

	fallbackTopics := repository.NewMemoryTopicRepo(site.ForumTopics(time.Now()))
	var topicRepo repository.TopicRepository = fallbackTopics
	var pinger handler.Pinger
	if db != nil {
		topicRepo = repository.NewPostgresTopicRepo(db)
		pinger = db
	}
	forumService := forum.NewService(topicRepo, fallbackTopics, forumTopicLimit, log)

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// 5. セッションCookie
	cookieStore := persistence.NewCookieStore(cfg.SessionSecret, persistence.CookieOptions{
		Domain: cfg.CookieDomain,
		MaxAge: cfg.SessionMaxAge,
		Secure: cfg.CookieSecure,
	})

	// 6. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitAuth),
		log,
	)

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            log,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		HSTS:              cfg.CookieSecure,
		AuthService:       authService,
		CookieStore:       cookieStore,
		Renderer:          renderer,
		Site:              site,
		GitHub:            githubClient,
		GitHubAPI:         githubAPIClient,
		Posts:             blogService,
		Topics:            forumService,
		Metrics:           collector,
		MetricsHandler:    metricsHandler,
		Database:          pinger,
	})

	return &Server{
		Handler:     router,
		RateLimiter: rateLimiter,
		Forum:       forumService,
		Site:        site,
	}, nil
}

// newRegistry はアプリケーション用のPrometheusレジストリを生成する。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// openDatabase はDATABASE_URLが設定されている場合にDB接続を開く。
// 未設定の場合は(nil, nil)を返す。
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Ping(ctx, db, dbPingTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)
	return db, nil
}

// runServe はHTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	srv, err := NewServer(cfg, db, newRegistry(), slog.Default())
	if err != nil {
		return err
	}
	defer srv.Close()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", server.Addr),
			slog.String("environment", string(cfg.Environment)),
			slog.Bool("mock_auth", auth.IsPlaceholderClientID(cfg.GoogleClientID) || cfg.Environment.IsDevelopmentOrTest()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("HTTP server stopped gracefully")
	return nil
}

// MigrateDirection はマイグレーションの実行方向。
type MigrateDirection string

const (
	MigrateUp     MigrateDirection = "up"
	MigrateDown   MigrateDirection = "down"
	MigrateStatus MigrateDirection = "status"
)

// runMigrate はデータベースマイグレーションを実行する。
// upの場合、適用後にトピックテーブルが空であればコンテンツのトピックを投入する。
func runMigrate(ctx context.Context, cfg *config.Config, direction MigrateDirection, seed bool) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("direction", string(direction)),
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	switch direction {
	case MigrateUp:
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case MigrateDown:
		if err := database.RollbackMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		slog.Info("database migrations rolled back")
		return nil
	case MigrateStatus:
		version, dirty, err := database.Version(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		slog.Info("database schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		return nil
	default:
		return fmt.Errorf("unknown migrate direction %q", direction)
	}

	slog.Info("database migrations completed successfully")
	if !seed {
		return nil
	}
	return seedTopics(ctx, cfg)
}

func seedTopics(ctx context.Context, cfg *config.Config) error {
	site, err := content.Load(cfg.ContentFile)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := forum.NewService(repository.NewPostgresTopicRepo(db), nil, forumTopicLimit, slog.Default())
	if _, err := svc.SeedIfEmpty(ctx, site.ForumTopics(time.Now())); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(ctx context.Context, port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	u.RawQuery = ""
	return u.String()
}

func healthcheckPort() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		return port
	}
	return "8080"
}
