// Package session はログイン状態を保持するセッションストアを提供する。
package session

import (
	"sync"

	"github.com/hitoshi/portfolio/internal/model"
)

// Observer はセッションの変更通知を受け取る関数。
// 未ログイン状態への変更ではnilが渡される。
type Observer func(user *model.AuthUser)

// Store は現在のログインユーザーを保持するミュータブルなセルである。
// 値の検証は行わない。変更はSetを呼んだgoroutine上で購読順に通知される。
// 更新はauth.Lifecycleのログイン・ログアウト・復元の各シーケンスからのみ行うこと。
type Store struct {
	mu        sync.RWMutex
	user      *model.AuthUser
	nextID    int
	observers map[int]Observer
	order     []int
}

// NewStore は未ログイン状態のStoreを生成する。
func NewStore() *Store {
	return &Store{observers: make(map[int]Observer)}
}

// Get は現在のユーザーのコピーを返す。未ログインの場合はnilを返す。
func (s *Store) Get() *model.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.user)
}

// LoggedIn はログイン中かどうかを返す。
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Set は保持する値を置き換え、購読者に通知する。
func (s *Store) Set(user *model.AuthUser) {
	s.mu.Lock()
	s.user = clone(user)
	observers := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		observers = append(observers, s.observers[id])
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(clone(user))
	}
}

// Subscribe は変更通知の購読を登録し、購読解除用の関数を返す。
// 解除関数は複数回呼んでも安全。
func (s *Store) Subscribe(fn Observer) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func clone(user *model.AuthUser) *model.AuthUser {
	if user == nil {
		return nil
	}
	c := *user
	return &c
}
