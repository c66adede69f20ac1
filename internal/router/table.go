package router

import "strings"

// Entry はパスとルートの対応を表す。
type Entry struct {
	Path  string
	Route Route
}

// Table はパスからルートへの静的な対応表。
// 全ルートは共通レイアウト（ナビゲーション＋子ビューのアウトレット）の内側に描画される。
type Table struct {
	entries []Entry
	byPath  map[string]Route
	byRoute map[Route]string
}

// NewTable はエントリから対応表を生成する。
// 同じパスまたは同じルートが重複した場合は先に宣言されたものを優先する。
func NewTable(entries ...Entry) *Table {
	t := &Table{
		byPath:  make(map[string]Route, len(entries)),
		byRoute: make(map[Route]string, len(entries)),
	}
	for _, e := range entries {
		if _, dup := t.byPath[e.Path]; dup {
			continue
		}
		if _, dup := t.byRoute[e.Route]; dup {
			continue
		}
		t.entries = append(t.entries, e)
		t.byPath[e.Path] = e.Route
		t.byRoute[e.Route] = e.Path
	}
	return t
}

// Default はアプリケーションのルート定義。
var Default = NewTable(
	Entry{Path: "/", Route: Home},
	Entry{Path: "/blog", Route: Blog},
	Entry{Path: "/members", Route: Members},
	Entry{Path: "/forum", Route: Forum},
	Entry{Path: "/profile", Route: Profile},
	Entry{Path: "/auth/callback", Route: AuthCallback},
)

// Match はパスに対応するルートを返す。
// 末尾のスラッシュは無視する。対応するルートがない場合はfalseを返す。
func (t *Table) Match(path string) (Route, bool) {
	route, ok := t.byPath[normalize(path)]
	return route, ok
}

// Resolve はパスに対応するルートを返す。
// 対応するルートがない場合はHomeを返す。
func (t *Table) Resolve(path string) Route {
	if route, ok := t.Match(path); ok {
		return route
	}
	return Home
}

// Path はルートに対応するパスを返す。未知のルートは "/" を返す。
func (t *Table) Path(route Route) string {
	if p, ok := t.byRoute[route]; ok {
		return p
	}
	return "/"
}

// Entries は宣言順のエントリを返す。
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Routes は宣言順のルートを返す。
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.Route)
	}
	return out
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
