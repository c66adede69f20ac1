package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"github.com/hitoshi/portfolio/internal/auth"
	"github.com/hitoshi/portfolio/internal/content"
	"github.com/hitoshi/portfolio/internal/github"
	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/middleware"
	"github.com/hitoshi/portfolio/internal/router"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HSTS              bool

	// セッション
	AuthService *auth.Service
	CookieStore *sessions.CookieStore

	// ビュー
	Renderer PageRenderer
	Site     *content.Site
	GitHub   github.ProfileFetcher
	Posts    PostLister
	Topics   TopicLister

	// GitHubAPI は /api/github/{login} 用のフェッチャー。
	// ホームのGitHubカードとは別の送信レート枠を持たせる。nilの場合はエンドポイントを登録しない。
	GitHubAPI github.ProfileFetcher

	// 運用
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler
	Database       Pinger
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RealIP → StripSlashes → RequestID → Logging → Metrics → Recovery → SecurityHeaders → CORS
//
// ページと /auth 配下はさらにRateLimit → Shell（セッション復元）を通る。
// どのルートにも一致しないパスは303で "/" へリダイレクトする。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.StripSlashes)
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware(deps.HSTS))
	if deps.CORSAllowedOrigin != "" {
		r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	}

	shell := NewShellMiddleware(ShellConfig{
		AuthService: deps.AuthService,
		CookieStore: deps.CookieStore,
		Table:       router.Default,
		Metrics:     collector,
		Logger:      logger,
	})

	pages := NewPageHandler(PageHandlerConfig{
		Renderer: deps.Renderer,
		Site:     deps.Site,
		GitHub:   deps.GitHub,
		Posts:    deps.Posts,
		Topics:   deps.Topics,
		Metrics:  collector,
		Logger:   logger,
	})
	authHandler := NewAuthHandler(logger)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.Database, logger))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// --- ページ ---
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}
		r.Use(shell)

		for _, entry := range router.Default.Entries() {
			if entry.Route == router.AuthCallback {
				continue
			}
			r.Get(entry.Path, pages.Page(entry.Route))
		}
	})

	// --- 認証 ---
	r.Route("/auth", func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.AuthMiddleware())
		}
		r.Use(shell)

		r.Get("/login", authHandler.Login)
		r.Get("/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- API ---
	if deps.GitHubAPI != nil {
		githubHandler := NewGitHubHandler(deps.GitHubAPI, logger)
		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.GeneralMiddleware())
			}
			r.Get("/api/github/{login}", githubHandler.GetProfile)
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, router.Home.Path(), http.StatusSeeOther)
	})

	return r
}
