// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/hitoshi/portfolio/internal/auth"
	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/middleware"
	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/persistence"
	"github.com/hitoshi/portfolio/internal/router"
	"github.com/hitoshi/portfolio/internal/session"
)

type shellContextKey struct{}

// Shell はブラウザの1回のページ読み込みに相当する状態。
// リクエストごとに生成され、Storeの変更はLifecycle経由でのみ行う。
type Shell struct {
	Store     *session.Store
	Lifecycle *auth.Lifecycle
	Navigator *HTTPNavigator
}

// User は現在のセッションを返す。
func (s *Shell) User() *model.AuthUser {
	return s.Store.Get()
}

// ShellFromContext はリクエストコンテキストからShellを取得する。
// レイアウトミドルウェアを通過していない場合はnilを返す。
func ShellFromContext(ctx context.Context) *Shell {
	shell, _ := ctx.Value(shellContextKey{}).(*Shell)
	return shell
}

// ShellConfig はレイアウトミドルウェアの依存関係。
type ShellConfig struct {
	AuthService *auth.Service
	CookieStore *sessions.CookieStore
	Table       *router.Table
	Metrics     metrics.MetricsCollector
	Logger      *slog.Logger
}

// NewShellMiddleware はレイアウトのマウントに相当するミドルウェアを返す。
// リクエストごとにStore・Cookie Adapter・Navigator・Lifecycleを組み立て、
// 永続化されたセッションを復元してからハンドラーを呼び出す。
func NewShellMiddleware(cfg ShellConfig) func(next http.Handler) http.Handler {
	if cfg.Table == nil {
		cfg.Table = router.Default
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := cfg.Logger.With(slog.String("request_id", middleware.RequestIDFromContext(ctx)))

			store := session.NewStore()
			cancel := store.Subscribe(func(user *model.AuthUser) {
				if user == nil {
					middleware.SetUserEmail(ctx, "")
					logger.Debug("session cleared")
					return
				}
				middleware.SetUserEmail(ctx, user.Email)
				logger.Debug("session set", slog.String("email", user.Email))
			})
			defer cancel()

			var adapter persistence.Adapter = persistence.Unavailable{}
			if cfg.CookieStore != nil {
				adapter = persistence.NewCookie(cfg.CookieStore, w, r, logger)
			}

			nav := NewHTTPNavigator(w, r, cfg.Table)
			lc := auth.NewLifecycle(auth.LifecycleDeps{
				Service:   cfg.AuthService,
				Store:     store,
				Adapter:   adapter,
				Navigator: nav,
				Metrics:   cfg.Metrics,
				Logger:    logger,
			})
			lc.Rehydrate()

			shell := &Shell{Store: store, Lifecycle: lc, Navigator: nav}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, shellContextKey{}, shell)))
		})
	}
}
