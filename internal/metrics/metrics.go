// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ログイン結果のラベル値。
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 認証シーケンス、GitHubクライアント、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordLogin(result string)
	RecordLogout()
	RecordRehydrate()
	RecordProfileFetch(success bool)
	RecordProfileFetchLatency(duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordPageView(route string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins         *prometheus.CounterVec
	logouts        prometheus.Counter
	rehydrations   prometheus.Counter
	profileFetches *prometheus.CounterVec
	profileLatency prometheus.Histogram
	httpStatus     *prometheus.CounterVec
	pageViews      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_logins_total",
			Help: "ログイン試行の合計数（結果別）",
		}, []string{"result"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_logouts_total",
			Help: "ログアウトの合計数",
		}),
		rehydrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_session_rehydrations_total",
			Help: "保存済みセッションから復元した回数",
		}),
		profileFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_github_profile_fetch_total",
			Help: "GitHubプロフィール取得の合計数（結果別）",
		}, []string{"result"}),
		profileLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_github_profile_fetch_latency_seconds",
			Help:    "GitHubプロフィール取得のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_page_views_total",
			Help: "ルート別のページ表示数",
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.logins,
		c.logouts,
		c.rehydrations,
		c.profileFetches,
		c.profileLatency,
		c.httpStatus,
		c.pageViews,
	)

	return c
}

// RecordLogin はログイン試行の結果を記録する。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordLogout はログアウトを記録する。
func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

// RecordRehydrate はセッション復元を記録する。
func (c *Collector) RecordRehydrate() {
	c.rehydrations.Inc()
}

// RecordProfileFetch はGitHubプロフィール取得の成否を記録する。
func (c *Collector) RecordProfileFetch(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	c.profileFetches.WithLabelValues(result).Inc()
}

// RecordProfileFetchLatency はGitHubプロフィール取得のレイテンシを記録する。
func (c *Collector) RecordProfileFetchLatency(duration time.Duration) {
	c.profileLatency.Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordPageView はページ表示を記録する。
func (c *Collector) RecordPageView(route string) {
	c.pageViews.WithLabelValues(route).Inc()
}

// Nop は何も記録しないMetricsCollector。
type Nop struct{}

func (Nop) RecordLogin(string)                      {}
func (Nop) RecordLogout()                           {}
func (Nop) RecordRehydrate()                        {}
func (Nop) RecordProfileFetch(bool)                 {}
func (Nop) RecordProfileFetchLatency(time.Duration) {}
func (Nop) RecordHTTPStatus(int)                    {}
func (Nop) RecordPageView(string)                   {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)
