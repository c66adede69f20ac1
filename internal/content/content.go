// Package content はサイトの表示コンテンツ（プロフィール、自己紹介、投稿、トピック、特典）を読み込む。
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hitoshi/portfolio/internal/model"
)

//go:embed content.yaml
var defaultContent []byte

// Owner はサイト所有者のプロフィール。
type Owner struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Headline    string `yaml:"headline"`
	Tagline     string `yaml:"tagline"`
	ImageURL    string `yaml:"image_url"`
	GitHubLogin string `yaml:"github_login"`
}

// FullName は姓名を連結して返す。
func (o Owner) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// Link はソーシャルリンク。
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// LinkedIn はLinkedInカードの内容。
type LinkedIn struct {
	Role   string `yaml:"role"`
	Status string `yaml:"status"`
	URL    string `yaml:"url"`
}

// Post はフィード未設定時に表示するブログ投稿。
type Post struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	URL         string    `yaml:"url"`
	PublishedAt time.Time `yaml:"published_at"`
}

// Topic はデータベース未設定時に表示するフォーラムトピック。
type Topic struct {
	Title   string `yaml:"title"`
	Author  string `yaml:"author"`
	Replies int    `yaml:"replies"`
	// Age は最終更新からの経過時間（"2h" 等）。
	Age string `yaml:"age"`
}

// Perk はメンバー特典。
type Perk struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Site はサイト全体の表示コンテンツ。起動時に一度だけ読み込まれ、以降は変更されない。
type Site struct {
	Owner    Owner    `yaml:"owner"`
	About    []string `yaml:"about"`
	Social   []Link   `yaml:"social"`
	LinkedIn LinkedIn `yaml:"linkedin"`
	Posts    []Post   `yaml:"posts"`
	Topics   []Topic  `yaml:"topics"`
	Perks    []Perk   `yaml:"perks"`
}

// Default は埋め込みのcontent.yamlを読み込む。
func Default() (*Site, error) {
	return Parse(defaultContent)
}

// Load はpathのYAMLを読み込む。pathが空の場合は埋め込みのコンテンツを返す。
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	site, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return site, nil
}

// Parse はYAMLをパースして検証する。未知のフィールドはエラーにする。
func Parse(data []byte) (*Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site Site
	if err := dec.Decode(&site); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) validate() error {
	var errs []error
	if s.Owner.FullName() == "" {
		errs = append(errs, errors.New("owner name is required"))
	}
	for i, p := range s.Posts {
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("posts[%d]: title is required", i))
		}
	}
	for i, t := range s.Topics {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("topics[%d]: title is required", i))
		}
		if t.Replies < 0 {
			errs = append(errs, fmt.Errorf("topics[%d]: replies must not be negative", i))
		}
		if t.Age != "" {
			if _, err := time.ParseDuration(t.Age); err != nil {
				errs = append(errs, fmt.Errorf("topics[%d]: invalid age %q: %w", i, t.Age, err))
			}
		}
	}
	return errors.Join(errs...)
}

// BlogPosts はフォールバック用の投稿をモデルに変換する。
func (s *Site) BlogPosts() []model.BlogPost {
	posts := make([]model.BlogPost, 0, len(s.Posts))
	for _, p := range s.Posts {
		posts = append(posts, model.BlogPost{
			Title:       p.Title,
			Description: p.Description,
			URL:         p.URL,
			PublishedAt: p.PublishedAt,
		})
	}
	return posts
}

// ForumTopics はトピックをモデルに変換する。更新日時はnowからAgeを引いた値になる。
func (s *Site) ForumTopics(now time.Time) []model.ForumTopic {
	topics := make([]model.ForumTopic, 0, len(s.Topics))
	for i, t := range s.Topics {
		age, _ := time.ParseDuration(t.Age)
		topics = append(topics, model.ForumTopic{
			ID:        int64(i + 1),
			Title:     t.Title,
			Author:    t.Author,
			Replies:   t.Replies,
			UpdatedAt: now.Add(-age),
		})
	}
	return topics
}
