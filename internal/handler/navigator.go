package handler

import (
	"net/http"
	"sync"

	"github.com/hitoshi/portfolio/internal/router"
)

// HTTPNavigator はrouter.NavigatorのHTTP実装。
// PushとExternalは303 See Otherのリダイレクトとして書き込まれる。
// 1つのレスポンスに書き込めるリダイレクトは1回のみで、2回目以降は無視する。
type HTTPNavigator struct {
	w     http.ResponseWriter
	r     *http.Request
	table *router.Table

	mu         sync.Mutex
	current    router.Route
	redirected bool
}

// NewHTTPNavigator はリクエストのパスを現在のルートとするHTTPNavigatorを生成する。
func NewHTTPNavigator(w http.ResponseWriter, r *http.Request, table *router.Table) *HTTPNavigator {
	return &HTTPNavigator{
		w:       w,
		r:       r,
		table:   table,
		current: table.Resolve(r.URL.Path),
	}
}

// Push はルートのパスへリダイレクトする。
func (n *HTTPNavigator) Push(route router.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.redirect(n.table.Path(route))
}

// External は外部URLへリダイレクトする。
func (n *HTTPNavigator) External(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirect(url)
}

// Current は現在のルートを返す。
func (n *HTTPNavigator) Current() router.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Redirected はリダイレクトを書き込み済みかを返す。
func (n *HTTPNavigator) Redirected() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.redirected
}

func (n *HTTPNavigator) redirect(url string) {
	if n.redirected {
		return
	}
	n.redirected = true
	http.Redirect(n.w, n.r, url, http.StatusSeeOther)
}

// compile-time interface check
var _ router.Navigator = (*HTTPNavigator)(nil)
