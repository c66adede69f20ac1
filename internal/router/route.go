// Package router はURLパスとビューの対応表、およびナビゲーション機能を提供する。
package router

// Route はアプリケーションのビューを識別する値。
// 永続化されず、等値比較で判定する。
type Route int

// ルート一覧。Unknownはゼロ値で、どのパスにも対応しない。
const (
	Unknown Route = iota
	Home
	Blog
	Members
	Forum
	Profile
	AuthCallback
)

var routeNames = map[Route]string{
	Home:         "Home",
	Blog:         "Blog",
	Members:      "Members",
	Forum:        "Forum",
	Profile:      "Profile",
	AuthCallback: "AuthCallback",
}

// String はルート名を返す。
func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Path はルートに対応するパスを返す。未知のルートはHomeのパスを返す。
func (r Route) Path() string {
	return Default.Path(r)
}

// Protected はログインしていない場合にログイン案内を表示するルートかを返す。
func (r Route) Protected() bool {
	return r == Members || r == Profile
}
