package auth

import (
	"context"
	"log/slog"

	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/persistence"
	"github.com/hitoshi/portfolio/internal/router"
	"github.com/hitoshi/portfolio/internal/session"
)

// Lifecycle はログイン・ログアウト・再水和の手順を1つのStore/Adapter/Navigatorに対して実行する。
// Storeを変更するのはLifecycleのみ。
type Lifecycle struct {
	service   *Service
	store     *session.Store
	adapter   persistence.Adapter
	navigator router.Navigator
	metrics   metrics.MetricsCollector
	logger    *slog.Logger
}

// LifecycleDeps はLifecycleの依存関係。
type LifecycleDeps struct {
	Service   *Service
	Store     *session.Store
	Adapter   persistence.Adapter
	Navigator router.Navigator
	Metrics   metrics.MetricsCollector
	Logger    *slog.Logger
}

// NewLifecycle はLifecycleを生成する。
func NewLifecycle(deps LifecycleDeps) *Lifecycle {
	if deps.Adapter == nil {
		deps.Adapter = persistence.Unavailable{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Lifecycle{
		service:   deps.Service,
		store:     deps.Store,
		adapter:   deps.Adapter,
		navigator: deps.Navigator,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
	}
}

// BeginLogin は認可URLへ外部遷移する。
func (l *Lifecycle) BeginLogin() {
	l.navigator.External(l.service.AuthorizationURL())
}

// AbandonLogin は認可コードを伴わないコールバックをHomeへ戻す。
func (l *Lifecycle) AbandonLogin() router.Route {
	l.logger.Warn("callback without authorization code")
	l.metrics.RecordLogin(metrics.LoginFailure)
	l.navigator.Push(router.Home)
	return router.Home
}

// CompleteLogin はコールバックで受け取った認可コードを交換する。
// 成功時はStore→Adapter→Profileの順に反映し、失敗時はどちらにも触れずHomeへ戻す。
// 遷移先のRouteを返す。
func (l *Lifecycle) CompleteLogin(ctx context.Context, code string) router.Route {
	user, err := l.service.ExchangeCode(ctx, code)
	if err != nil {
		l.logger.Error("authorization code exchange failed", slog.String("error", err.Error()))
		l.metrics.RecordLogin(metrics.LoginFailure)
		l.navigator.Push(router.Home)
		return router.Home
	}

	l.store.Set(user)
	l.adapter.Save(user.Email)
	l.metrics.RecordLogin(metrics.LoginSuccess)
	l.logger.Info("login completed", slog.String("email", user.Email))
	l.navigator.Push(router.Profile)
	return router.Profile
}

// Logout はセッションを破棄する。何度呼んでも同じ結果になる。
func (l *Lifecycle) Logout() {
	l.store.Set(nil)
	l.adapter.Clear()
	l.metrics.RecordLogout()
}

// Rehydrate は永続化されたメールアドレスからセッションを復元する。
// ネットワークアクセスは行わない。
func (l *Lifecycle) Rehydrate() bool {
	email, ok := l.adapter.Load()
	if !ok {
		return false
	}
	l.store.Set(&model.AuthUser{Email: email})
	l.metrics.RecordRehydrate()
	return true
}
