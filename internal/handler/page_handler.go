package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/portfolio/internal/content"
	"github.com/hitoshi/portfolio/internal/github"
	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/router"
	"github.com/hitoshi/portfolio/internal/view"
)

// PostLister はブログ投稿一覧を返すインターフェース。
type PostLister interface {
	Posts(ctx context.Context) []model.BlogPost
}

// TopicLister はフォーラムのトピック一覧を返すインターフェース。
type TopicLister interface {
	Topics(ctx context.Context) []model.ForumTopic
}

// PageRenderer はページをHTMLとして書き込むインターフェース。
type PageRenderer interface {
	Render(w io.Writer, page view.Page) error
}

// PageHandlerConfig はPageHandlerの依存関係。
type PageHandlerConfig struct {
	Renderer PageRenderer
	Site     *content.Site
	GitHub   github.ProfileFetcher
	Posts    PostLister
	Topics   TopicLister
	Metrics  metrics.MetricsCollector
	Logger   *slog.Logger
	Now      func() time.Time
}

// PageHandler はルートごとのビューを描画する。
type PageHandler struct {
	cfg PageHandlerConfig
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(cfg PageHandlerConfig) *PageHandler {
	if cfg.Site == nil {
		cfg.Site = &content.Site{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &PageHandler{cfg: cfg}
}

// Page はrouteのビューを描画するハンドラーを返す。
// レイアウトミドルウェアの内側に配置する。
func (h *PageHandler) Page(route router.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		in := view.Input{
			Site:   h.cfg.Site,
			GitHub: github.LoadingState(),
			Now:    h.cfg.Now(),
		}
		if shell := ShellFromContext(ctx); shell != nil {
			in.User = shell.User()
		}

		switch route {
		case router.Home:
			in.GitHub = github.LoadState(ctx, h.cfg.GitHub, h.cfg.Site.Owner.GitHubLogin)
		case router.Blog:
			if h.cfg.Posts != nil {
				in.Posts = h.cfg.Posts.Posts(ctx)
			}
		case router.Forum:
			if h.cfg.Topics != nil {
				in.Topics = h.cfg.Topics.Topics(ctx)
			}
		}

		page := view.Build(route, in)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := h.cfg.Renderer.Render(w, page); err != nil {
			h.cfg.Logger.Error("failed to render page",
				slog.String("route", route.String()),
				slog.String("error", err.Error()),
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		h.cfg.Metrics.RecordPageView(route.String())
	}
}
