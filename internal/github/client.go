// Package github はGitHub公開APIからプロフィールを取得する機能を提供する。
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/portfolio/internal/metrics"
	"github.com/hitoshi/portfolio/internal/model"
)

const (
	defaultEndpoint = "https://api.github.com"
	userAgent       = "portfolio/1.0 (+https://github.com/hitoshi/portfolio)"
	acceptHeader    = "application/vnd.github+json"

	// maxResponseSize はプロフィールレスポンスの読み取り上限。
	maxResponseSize = 1 << 20
)

// errRateLimited はクライアント側のレート制限で送信を見送ったことを示す。
var errRateLimited = errors.New("outbound rate limit exceeded")

// loginPattern はGitHubのユーザー名規則（英数字とハイフン、先頭と末尾はハイフン不可、最大39文字）。
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-(?:[A-Za-z0-9])){0,38}$`)

// ValidLogin はGitHubユーザー名として妥当かを返す。
func ValidLogin(login string) bool {
	return len(login) <= 39 && loginPattern.MatchString(login)
}

// ProfileFetcher はGitHubプロフィール取得のインターフェース。
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, login string) (*model.GitHubProfile, error)
}

// TextSanitizer はbioからタグを除去するインターフェース。
type TextSanitizer interface {
	PlainText(raw string) string
}

// ClientConfig はClientの設定。
type ClientConfig struct {
	// Endpoint はAPIのベースURL。空の場合はhttps://api.github.com。
	Endpoint string
	// Timeout は1リクエストあたりのタイムアウト。
	Timeout time.Duration
	// RatePerMinute は1分あたりの送信上限。0以下の場合は無制限。
	RatePerMinute int
}

// Client はGitHub公開APIのクライアント。
// リトライやキャッシュは行わない。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    metrics.MetricsCollector
	sanitizer  TextSanitizer
	limiter    *rate.Limiter
	endpoint   string
	timeout    time.Duration
}

// NewClient はClientを生成する。sanitizerとcollectorはnilでもよい。
func NewClient(httpClient *http.Client, cfg ClientConfig, sanitizer TextSanitizer, collector metrics.MetricsCollector, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute)
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		metrics:    collector,
		sanitizer:  sanitizer,
		limiter:    limiter,
		endpoint:   endpoint,
		timeout:    cfg.Timeout,
	}
}

// FetchProfile は GET {endpoint}/users/{login} を呼び出してプロフィールを返す。
// 失敗は全て model.ErrProfileFetchFailed でラップされる。
func (c *Client) FetchProfile(ctx context.Context, login string) (*model.GitHubProfile, error) {
	start := time.Now()
	profile, err := c.fetch(ctx, login)
	c.metrics.RecordProfileFetchLatency(time.Since(start))
	c.metrics.RecordProfileFetch(err == nil)
	if err != nil {
		c.logger.Warn("GitHubプロフィールの取得に失敗しました",
			slog.String("login", login),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", model.ErrProfileFetchFailed, err)
	}
	return profile, nil
}

func (c *Client) fetch(ctx context.Context, login string) (*model.GitHubProfile, error) {
	if !ValidLogin(login) {
		return nil, fmt.Errorf("invalid login %q", login)
	}
	if !c.limiter.Allow() {
		return nil, errRateLimited
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.endpoint + "/users/" + url.PathEscape(login)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var profile model.GitHubProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("response has no login")
	}

	if profile.Bio != nil && c.sanitizer != nil {
		bio := c.sanitizer.PlainText(*profile.Bio)
		profile.Bio = &bio
	}
	return &profile, nil
}

// compile-time interface check
var _ ProfileFetcher = (*Client)(nil)
