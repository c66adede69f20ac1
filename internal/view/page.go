// Package view はルートごとの表示内容を組み立て、HTMLとして描画する。
// Buildはセッション・コンテンツ・取得済みデータのみに依存する純粋な関数で、
// 副作用や外部呼び出しを持たない。
package view

import (
	"fmt"
	"html/template"
	"time"

	"github.com/hitoshi/portfolio/internal/content"
	"github.com/hitoshi/portfolio/internal/github"
	"github.com/hitoshi/portfolio/internal/model"
	"github.com/hitoshi/portfolio/internal/router"
)

// Access は保護されたビューの表示区分。
type Access int

const (
	// Granted はビューの内容を表示する。
	Granted Access = iota
	// LoginRequired はログイン案内を表示する。
	LoginRequired
)

// String は区分名を返す。
func (a Access) String() string {
	if a == LoginRequired {
		return "LoginRequired"
	}
	return "Granted"
}

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
	aboutHref  = "/#about"
	githubBase = "https://github.com/"
)

// Input はビューの組み立てに必要な値。
type Input struct {
	User   *model.AuthUser
	Site   *content.Site
	GitHub github.ProfileState
	Posts  []model.BlogPost
	Topics []model.ForumTopic
	Now    time.Time
}

// NavItem はナビゲーションの項目。
type NavItem struct {
	Label  string
	Href   string
	Icon   string
	Active bool
}

// Navbar は共通レイアウトのナビゲーション。
// Userがnilの場合はログインボタンを表示する。
type Navbar struct {
	Brand      []string
	Items      []NavItem
	User       *model.AuthUser
	Initial    string
	ProfileURL string
	LoginURL   string
	LogoutURL  string
}

// GitHubCard はGitHubプロフィールカード。
type GitHubCard struct {
	Placeholder bool
	Repos       uint32
	Followers   uint32
	Bio         string
	ProfileURL  string
}

// PostItem はブログ一覧の1件。
type PostItem struct {
	Title       string
	URL         string
	Description template.HTML
	Published   string
}

// TopicItem はフォーラム一覧の1件。
type TopicItem struct {
	ID      int64
	Title   string
	Author  string
	Replies int
	Age     string
}

// Page は1ページ分の表示内容。ルートに関係しないフィールドはゼロ値のまま。
type Page struct {
	Route  router.Route
	Title  string
	Nav    Navbar
	Access Access
	User   *model.AuthUser

	Owner    content.Owner
	About    []string
	Social   []content.Link
	LinkedIn content.LinkedIn
	GitHub   GitHubCard

	Posts  []PostItem
	Topics []TopicItem
	Perks  []content.Perk
}

// Allowed は保護されたビューの内容を表示できるかを返す。
func (p Page) Allowed() bool {
	return p.Access == Granted
}

// Build はルートと入力から表示内容を組み立てる。
func Build(route router.Route, in Input) Page {
	site := in.Site
	if site == nil {
		site = &content.Site{}
	}

	page := Page{
		Route: route,
		Nav:   buildNavbar(route, in.User, site.Owner),
		User:  in.User,
	}

	switch route {
	case router.Home:
		page.Title = site.Owner.FullName()
		page.Owner = site.Owner
		page.About = site.About
		page.Social = site.Social
		page.LinkedIn = site.LinkedIn
		page.GitHub = buildGitHubCard(in.GitHub, site.Owner.GitHubLogin)
	case router.Blog:
		page.Title = "Blog"
		page.Posts = buildPosts(in.Posts)
	case router.Members:
		page.Title = "Members Area"
		page.Access = accessFor(in.User)
		if page.Access == Granted {
			page.Perks = site.Perks
		}
	case router.Forum:
		page.Title = "Community Forum"
		page.Topics = buildTopics(in.Topics, in.Now)
	case router.Profile:
		page.Access = accessFor(in.User)
		if page.Access == Granted {
			page.Title = "Account Settings"
		} else {
			page.Title = "Not Authenticated"
		}
	default:
		page.Route = router.Home
		page.Title = site.Owner.FullName()
	}

	return page
}

func accessFor(user *model.AuthUser) Access {
	if user == nil {
		return LoginRequired
	}
	return Granted
}

func buildNavbar(active router.Route, user *model.AuthUser, owner content.Owner) Navbar {
	items := []NavItem{
		{Label: "Home", Href: router.Home.Path(), Icon: "fa-home", Active: active == router.Home},
		{Label: "Blog", Href: router.Blog.Path(), Icon: "fa-book", Active: active == router.Blog},
		{Label: "About", Href: aboutHref, Icon: "fa-user"},
	}

	nav := Navbar{
		Brand:     []string{owner.FirstName, owner.LastName},
		Items:     items,
		LoginURL:  loginPath,
		LogoutURL: logoutPath,
	}
	if user != nil {
		nav.User = user
		nav.Initial = user.Initial()
		nav.ProfileURL = router.Profile.Path()
	}
	return nav
}

// buildGitHubCard はLoading/Unavailableのどちらもプレースホルダーとして扱う。
func buildGitHubCard(state github.ProfileState, fallbackLogin string) GitHubCard {
	card := GitHubCard{
		Placeholder: state.Placeholder(),
		ProfileURL:  githubBase + fallbackLogin,
	}
	if card.Placeholder || state.Profile == nil {
		card.Placeholder = true
		return card
	}

	p := state.Profile
	card.Repos = p.PublicRepos
	card.Followers = p.Followers
	if p.HasBio() {
		card.Bio = *p.Bio
	}
	if p.Login != "" {
		card.ProfileURL = githubBase + p.Login
	}
	return card
}

func buildPosts(posts []model.BlogPost) []PostItem {
	items := make([]PostItem, 0, len(posts))
	for _, p := range posts {
		item := PostItem{
			Title: p.Title,
			URL:   p.URL,
			// Descriptionはblogパッケージでサニタイズ済み
			Description: template.HTML(p.Description), //nolint:gosec
		}
		if !p.PublishedAt.IsZero() {
			item.Published = p.PublishedAt.Format("Jan 2, 2006")
		}
		items = append(items, item)
	}
	return items
}

func buildTopics(topics []model.ForumTopic, now time.Time) []TopicItem {
	if now.IsZero() {
		now = time.Now()
	}
	items := make([]TopicItem, 0, len(topics))
	for _, t := range topics {
		items = append(items, TopicItem{
			ID:      t.ID,
			Title:   t.Title,
			Author:  t.Author,
			Replies: t.Replies,
			Age:     relativeAge(now.Sub(t.UpdatedAt)),
		})
	}
	return items
}

// relativeAge は経過時間を "2h ago" 形式にする。
func relativeAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
}
