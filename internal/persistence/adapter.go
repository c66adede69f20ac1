// Package persistence はセッションのメールアドレスをページ再読み込みをまたいで保持する
// 単一キーの永続化アダプタを提供する。
//
// 保存はベストエフォートで、書き込みや削除の失敗は呼び出し元に返さない。
// 保存先にアクセスできない場合は「未保存」として扱う。
package persistence

import "sync"

// Key はセッションマーカーを保存するキー。
const Key = "auth_email"

// Adapter はセッションマーカーの読み書きを行うインターフェース。
type Adapter interface {
	// Load は保存済みのメールアドレスを返す。未保存の場合はfalseを返す。
	Load() (string, bool)
	// Save はメールアドレスを保存する。失敗は無視される。
	Save(email string)
	// Clear は保存済みのメールアドレスを削除する。失敗は無視される。
	Clear()
}

// Memory はプロセス内に値を保持するAdapter。
type Memory struct {
	mu     sync.Mutex
	value  string
	ok     bool
	writes int
}

// NewMemory は空のMemoryを生成する。
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith はメールアドレスが保存済みのMemoryを生成する。
func NewMemoryWith(email string) *Memory {
	return &Memory{value: email, ok: true}
}

// Load は保存済みのメールアドレスを返す。
func (m *Memory) Load() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.ok
}

// Save はメールアドレスを保存する。
func (m *Memory) Save(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = email
	m.ok = true
	m.writes++
}

// Clear は保存済みのメールアドレスを削除する。
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	m.ok = false
	m.writes++
}

// Writes はSaveとClearが呼ばれた回数を返す。
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Unavailable は保存先が存在しない環境のAdapter。
// Loadは常に未保存を返し、SaveとClearは何もしない。
type Unavailable struct{}

// Load は常に未保存を返す。
func (Unavailable) Load() (string, bool) { return "", false }

// Save は何もしない。
func (Unavailable) Save(string) {}

// Clear は何もしない。
func (Unavailable) Clear() {}

// compile-time interface check
var (
	_ Adapter = (*Memory)(nil)
	_ Adapter = Unavailable{}
)
