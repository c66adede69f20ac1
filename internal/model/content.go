package model

import "time"

// BlogPost はブログ一覧に表示する記事を表す。
type BlogPost struct {
	Title       string
	Description string // サニタイズ済みHTML
	URL         string
	PublishedAt time.Time
}

// ForumTopic はフォーラム一覧に表示するトピックを表す。
type ForumTopic struct {
	ID        int64
	Title     string
	Author    string
	Replies   int
	UpdatedAt time.Time
}
