// Package repository はフォーラムトピックの永続化インターフェースと実装を提供する。
package repository

import (
	"context"

	"github.com/hitoshi/portfolio/internal/model"
)

// TopicRepository はフォーラムトピックの永続化インターフェース。
type TopicRepository interface {
	// ListRecent は更新日時の新しい順に最大limit件のトピックを返す。
	ListRecent(ctx context.Context, limit int) ([]model.ForumTopic, error)

	// Count はトピックの総数を返す。
	Count(ctx context.Context) (int, error)

	// Create はトピックを作成し、採番されたIDをtopic.IDに設定する。
	Create(ctx context.Context, topic *model.ForumTopic) error
}
