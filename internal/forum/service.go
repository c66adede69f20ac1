// Package forum はフォーラム一覧に表示するトピックを提供する。
package forum

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/repository"
)

const defaultLimit = 20

// TopicLister はトピック一覧を返すインターフェース。
type TopicLister interface {
	Topics(ctx context.Context) []model.ForumTopic
}

// Service はリポジトリからトピックを取得する。
// 取得に失敗した場合はfallbackのトピックを返し、エラーは表示しない。
type Service struct {
	repo     repository.TopicRepository
	fallback repository.TopicRepository
	limit    int
	logger   *slog.Logger
}

// NewService はServiceを生成する。fallbackはnilでもよい。
func NewService(repo repository.TopicRepository, fallback repository.TopicRepository, limit int, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = defaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, fallback: fallback, limit: limit, logger: logger}
}

// Topics は更新日時の新しい順にトピックを返す。
func (s *Service) Topics(ctx context.Context) []model.ForumTopic {
	topics, err := s.repo.ListRecent(ctx, s.limit)
	if err == nil {
		return topics
	}

	s.logger.Warn("トピック一覧の取得に失敗しました", slog.String("error", err.Error()))
	if s.fallback == nil {
		return nil
	}
	topics, err = s.fallback.ListRecent(ctx, s.limit)
	if err != nil {
		return nil
	}
	return topics
}

// SeedIfEmpty はリポジトリが空の場合にトピックを投入し、投入件数を返す。
func (s *Service) SeedIfEmpty(ctx context.Context, topics []model.ForumTopic) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i := range topics {
		topic := topics[i]
		topic.ID = 0
		if err := s.repo.Create(ctx, &topic); err != nil {
			return i, fmt.Errorf("failed to seed topic %q: %w", topic.Title, err)
		}
	}
	s.logger.Info("トピックを投入しました", slog.Int("count", len(topics)))
	return len(topics), nil
}

// compile-time interface check
var _ TopicLister = (*Service)(nil)
