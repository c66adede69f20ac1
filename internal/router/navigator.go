package router

import "sync"

// Navigator は画面遷移の機能を抽象化したインターフェース。
// ブラウザのlocationに直接触れずにログイン・ログアウトのシーケンスを記述するために使う。
type Navigator interface {
	// Push はページの再読み込みなしに指定ルートへ遷移する。
	Push(route Route)
	// External はアプリケーション外のURLへ遷移する。
	External(url string)
	// Current は現在のルートを返す。
	Current() Route
}

// History はメモリ上で遷移履歴を保持するNavigator。
type History struct {
	mu       sync.Mutex
	stack    []Route
	external []string
}

// NewHistory は指定ルートから開始するHistoryを生成する。
func NewHistory(start Route) *History {
	return &History{stack: []Route{start}}
}

// Push は履歴にルートを積む。
func (h *History) Push(route Route) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, route)
}

// External は外部URLへの遷移を記録する。
func (h *History) External(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.external = append(h.external, url)
}

// Current は最後に積まれたルートを返す。
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return Unknown
	}
	return h.stack[len(h.stack)-1]
}

// Stack は遷移履歴のコピーを返す。
func (h *History) Stack() []Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Route, len(h.stack))
	copy(out, h.stack)
	return out
}

// LastExternal は最後に記録された外部URLを返す。記録がない場合は空文字列を返す。
func (h *History) LastExternal() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.external) == 0 {
		return ""
	}
	return h.external[len(h.external)-1]
}

// compile-time interface check
var _ Navigator = (*History)(nil)
