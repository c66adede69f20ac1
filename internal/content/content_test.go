package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_LoadsEmbeddedContent(t *testing.T) {
	site, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if site.Owner.FullName() != "Taian Feitosa" {
		t.Errorf("FullName() = %q, want %q", site.Owner.FullName(), "Taian Feitosa")
	}
	if site.Owner.GitHubLogin != "taianf" {
		t.Errorf("GitHubLogin = %q, want taianf", site.Owner.GitHubLogin)
	}
	if len(site.About) != 3 {
		t.Errorf("len(About) = %d, want 3", len(site.About))
	}
	if len(site.Posts) != 3 {
		t.Errorf("len(Posts) = %d, want 3", len(site.Posts))
	}
	if len(site.Topics) != 4 {
		t.Errorf("len(Topics) = %d, want 4", len(site.Topics))
	}

	wantPerks := []string{"Exclusive Content", "Priority Support", "Community Badges", "Early Access"}
	if len(site.Perks) != len(wantPerks) {
		t.Fatalf("len(Perks) = %d, want %d", len(site.Perks), len(wantPerks))
	}
	for i, want := range wantPerks {
		if site.Perks[i].Title != want {
			t.Errorf("Perks[%d] = %q, want %q", i, site.Perks[i].Title, want)
		}
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	site, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if site.Owner.FirstName != "Taian" {
		t.Errorf("FirstName = %q, want Taian", site.Owner.FirstName)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	data := `
owner:
  first_name: Ada
  last_name: Lovelace
  github_login: ada
posts:
  - title: Notes
    url: https://example.com/notes
    published_at: 2024-01-02T03:04:05Z
topics:
  - title: Engines
    author: Charles
    replies: 3
    age: 30m
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	site, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if site.Owner.FullName() != "Ada Lovelace" {
		t.Errorf("FullName() = %q", site.Owner.FullName())
	}

	posts := site.BlogPosts()
	if len(posts) != 1 || posts[0].Title != "Notes" {
		t.Fatalf("BlogPosts() = %+v", posts)
	}
	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if !posts[0].PublishedAt.Equal(want) {
		t.Errorf("PublishedAt = %v, want %v", posts[0].PublishedAt, want)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	topics := site.ForumTopics(now)
	if len(topics) != 1 {
		t.Fatalf("len(ForumTopics()) = %d, want 1", len(topics))
	}
	if topics[0].ID != 1 || topics[0].Author != "Charles" || topics[0].Replies != 3 {
		t.Errorf("topic = %+v", topics[0])
	}
	if !topics[0].UpdatedAt.Equal(now.Add(-30 * time.Minute)) {
		t.Errorf("UpdatedAt = %v, want %v", topics[0].UpdatedAt, now.Add(-30*time.Minute))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{
			name:    "所有者名なし",
			data:    "about: [hello]\n",
			wantMsg: "owner name is required",
		},
		{
			name:    "未知のフィールド",
			data:    "owner: {first_name: A}\nunknown: 1\n",
			wantMsg: "unknown",
		},
		{
			name:    "不正なage",
			data:    "owner: {first_name: A}\ntopics:\n  - {title: T, age: soon}\n",
			wantMsg: "invalid age",
		},
		{
			name:    "負の返信数",
			data:    "owner: {first_name: A}\ntopics:\n  - {title: T, replies: -1}\n",
			wantMsg: "replies must not be negative",
		},
		{
			name:    "タイトルなしの投稿",
			data:    "owner: {first_name: A}\nposts:\n  - {url: https://example.com}\n",
			wantMsg: "title is required",
		},
		{
			name:    "不正なYAML",
			data:    "owner: [",
			wantMsg: "failed to parse content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, should contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}
