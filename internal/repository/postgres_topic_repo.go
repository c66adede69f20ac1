package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/portfolio/internal/model"
)

// PostgresTopicRepo はPostgreSQLを使用したトピックリポジトリ。
type PostgresTopicRepo struct {
	db *sql.DB
}

// NewPostgresTopicRepo はPostgresTopicRepoを生成する。
func NewPostgresTopicRepo(db *sql.DB) *PostgresTopicRepo {
	return &PostgresTopicRepo{db: db}
}

// ListRecent は更新日時の新しい順に最大limit件のトピックを返す。
func (r *PostgresTopicRepo) ListRecent(ctx context.Context, limit int) ([]model.ForumTopic, error) {
	if limit <= 0 {
		return []model.ForumTopic{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author, replies, updated_at
		 FROM forum_topics
		 ORDER BY updated_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("トピック一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	topics := make([]model.ForumTopic, 0, limit)
	for rows.Next() {
		var t model.ForumTopic
		if err := rows.Scan(&t.ID, &t.Title, &t.Author, &t.Replies, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("トピックのスキャンに失敗しました: %w", err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("トピック一覧の読み取りに失敗しました: %w", err)
	}
	return topics, nil
}

// Count はトピックの総数を返す。
func (r *PostgresTopicRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM forum_topics`).Scan(&n); err != nil {
		return 0, fmt.Errorf("トピック数の取得に失敗しました: %w", err)
	}
	return n, nil
}

// Create はトピックを作成する。UpdatedAtがゼロ値の場合はDB側の現在時刻を使う。
func (r *PostgresTopicRepo) Create(ctx context.Context, topic *model.ForumTopic) error {
	var updatedAt any
	if !topic.UpdatedAt.IsZero() {
		updatedAt = topic.UpdatedAt
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO forum_topics (title, author, replies, updated_at)
		 VALUES ($1, $2, $3, COALESCE($4, now()))
		 RETURNING id, updated_at`,
		topic.Title, topic.Author, topic.Replies, updatedAt,
	).Scan(&topic.ID, &topic.UpdatedAt)
	if err != nil {
		return fmt.Errorf("トピックの作成に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TopicRepository = (*PostgresTopicRepo)(nil)
