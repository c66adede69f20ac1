package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hitoshi/portfolio/internal/model"
)

// MemoryTopicRepo はプロセス内にトピックを保持するリポジトリ。
// DATABASE_URL未設定時にコンテンツ定義のトピックを提供する。
type MemoryTopicRepo struct {
	mu     sync.RWMutex
	topics []model.ForumTopic
	nextID int64
}

// NewMemoryTopicRepo は初期トピックを持つMemoryTopicRepoを生成する。
func NewMemoryTopicRepo(initial []model.ForumTopic) *MemoryTopicRepo {
	r := &MemoryTopicRepo{topics: make([]model.ForumTopic, 0, len(initial))}
	for _, t := range initial {
		r.topics = append(r.topics, t)
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

// ListRecent は更新日時の新しい順に最大limit件のトピックを返す。
func (r *MemoryTopicRepo) ListRecent(_ context.Context, limit int) ([]model.ForumTopic, error) {
	if limit <= 0 {
		return []model.ForumTopic{}, nil
	}
	r.mu.RLock()
	out := make([]model.ForumTopic, len(r.topics))
	copy(out, r.topics)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Count はトピックの総数を返す。
func (r *MemoryTopicRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics), nil
}

// Create はトピックを追加し、IDを採番する。UpdatedAtがゼロ値の場合は現在時刻を使う。
func (r *MemoryTopicRepo) Create(_ context.Context, topic *model.ForumTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	topic.ID = r.nextID
	if topic.UpdatedAt.IsZero() {
		topic.UpdatedAt = time.Now()
	}
	r.topics = append(r.topics, *topic)
	return nil
}

// compile-time interface check
var _ TopicRepository = (*MemoryTopicRepo)(nil)
