// Package blog はブログ一覧に表示する投稿をRSS/Atomフィードから取得する。
// フィードが未設定または取得に失敗した場合はコンテンツ定義の投稿を返す。
package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hitoshi/portfolio/internal/model"
)

const (
	defaultMaxPosts = 10
	userAgent       = "portfolio/1.0 feed reader"
)

// URLValidator はフィードURLの事前検証インターフェース。
type URLValidator interface {
	Validate(rawURL string) error
}

// SummarySanitizer はフィード概要のサニタイズインターフェース。
type SummarySanitizer interface {
	SanitizeSummary(rawHTML string) string
}

// PostLister はブログ投稿一覧を返すインターフェース。
type PostLister interface {
	Posts(ctx context.Context) []model.BlogPost
}

// Config はServiceの設定。
type Config struct {
	// FeedURL が空の場合はフォールバックの投稿のみを返す。
	FeedURL  string
	MaxPosts int
}

// Service はフィードから投稿一覧を取得する。キャッシュは持たない。
type Service struct {
	httpClient *http.Client
	sanitizer  SummarySanitizer
	fallback   []model.BlogPost
	feedURL    string
	maxPosts   int
	logger     *slog.Logger
}

// NewService はServiceを生成する。
// validatorがフィードURLを拒否した場合はエラーを返す。
func NewService(httpClient *http.Client, validator URLValidator, sanitizer SummarySanitizer, fallback []model.BlogPost, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.FeedURL != "" && validator != nil {
		if err := validator.Validate(cfg.FeedURL); err != nil {
			return nil, fmt.Errorf("invalid blog feed URL: %w", err)
		}
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = defaultMaxPosts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		httpClient: httpClient,
		sanitizer:  sanitizer,
		fallback:   fallback,
		feedURL:    cfg.FeedURL,
		maxPosts:   cfg.MaxPosts,
		logger:     logger,
	}, nil
}

// Posts は公開日時の新しい順に投稿を返す。
func (s *Service) Posts(ctx context.Context) []model.BlogPost {
	if s.feedURL == "" {
		return s.fallbackPosts()
	}

	posts, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("ブログフィードの取得に失敗しました",
			slog.String("feed_url", s.feedURL),
			slog.String("error", err.Error()),
		)
		return s.fallbackPosts()
	}
	if len(posts) == 0 {
		return s.fallbackPosts()
	}
	return posts
}

func (s *Service) fetch(ctx context.Context) ([]model.BlogPost, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return s.convertItems(parsed.Items), nil
}

// convertItems はgofeedの記事を投稿に変換する。リンクもタイトルもない記事は除外する。
func (s *Service) convertItems(items []*gofeed.Item) []model.BlogPost {
	posts := make([]model.BlogPost, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}

		link := item.Link
		if link == "" && (strings.HasPrefix(item.GUID, "http://") || strings.HasPrefix(item.GUID, "https://")) {
			link = item.GUID
		}
		title := strings.TrimSpace(item.Title)
		if title == "" && link == "" {
			continue
		}
		if title == "" {
			title = link
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		posts = append(posts, model.BlogPost{
			Title:       title,
			Description: s.sanitize(summary),
			URL:         link,
			PublishedAt: published,
		})
	}

	sortNewestFirst(posts)
	if len(posts) > s.maxPosts {
		posts = posts[:s.maxPosts]
	}
	return posts
}

func (s *Service) fallbackPosts() []model.BlogPost {
	posts := make([]model.BlogPost, len(s.fallback))
	copy(posts, s.fallback)
	for i := range posts {
		posts[i].Description = s.sanitize(posts[i].Description)
	}
	sortNewestFirst(posts)
	if len(posts) > s.maxPosts {
		posts = posts[:s.maxPosts]
	}
	return posts
}

func (s *Service) sanitize(raw string) string {
	if s.sanitizer == nil {
		return raw
	}
	return s.sanitizer.SanitizeSummary(raw)
}

// sortNewestFirst は公開日時の降順に並べる。同時刻は元の順序を保つ。
func sortNewestFirst(posts []model.BlogPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}

// compile-time interface check
var _ PostLister = (*Service)(nil)
