package session

import (
	"sync"
	"testing"

	"github.com/hitoshi/portfolio/internal/model"
)

func TestStore_NewStore_IsLoggedOut(t *testing.T) {
	s := NewStore()

	if got := s.Get(); got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
	if s.LoggedIn() {
		t.Error("LoggedIn() = true, want false")
	}
}

func TestStore_Set_ReplacesValue(t *testing.T) {
	s := NewStore()

	s.Set(&model.AuthUser{Email: "a@b.com"})
	if got := s.Get(); got == nil || got.Email != "a@b.com" {
		t.Fatalf("Get() = %+v, want a@b.com", got)
	}

	s.Set(&model.AuthUser{Email: "c@d.com"})
	if got := s.Get(); got == nil || got.Email != "c@d.com" {
		t.Fatalf("Get() = %+v, want c@d.com", got)
	}

	s.Set(nil)
	if got := s.Get(); got != nil {
		t.Errorf("Get() after Set(nil) = %+v, want nil", got)
	}
}

// TestStore_Get_ReturnsCopy は取得した値を書き換えてもストアに影響しないことを検証する。
func TestStore_Get_ReturnsCopy(t *testing.T) {
	s := NewStore()
	in := &model.AuthUser{Email: "a@b.com"}
	s.Set(in)

	in.Email = "mutated@b.com"
	got := s.Get()
	got.Email = "mutated-again@b.com"

	if s.Get().Email != "a@b.com" {
		t.Errorf("stored email = %q, want %q", s.Get().Email, "a@b.com")
	}
}

func TestStore_Set_NotifiesObserversInOrder(t *testing.T) {
	s := NewStore()

	var calls []string
	s.Subscribe(func(u *model.AuthUser) {
		if u == nil {
			calls = append(calls, "first:nil")
			return
		}
		calls = append(calls, "first:"+u.Email)
	})
	s.Subscribe(func(u *model.AuthUser) {
		if u == nil {
			calls = append(calls, "second:nil")
			return
		}
		calls = append(calls, "second:"+u.Email)
	})

	s.Set(&model.AuthUser{Email: "a@b.com"})
	s.Set(nil)

	want := []string{"first:a@b.com", "second:a@b.com", "first:nil", "second:nil"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestStore_Subscribe_CancelStopsNotifications(t *testing.T) {
	s := NewStore()

	count := 0
	cancel := s.Subscribe(func(*model.AuthUser) { count++ })

	s.Set(&model.AuthUser{Email: "a@b.com"})
	cancel()
	cancel()
	s.Set(nil)

	if count != 1 {
		t.Errorf("observer called %d times, want 1", count)
	}
}

// TestStore_ObserverMaySubscribe は通知中に購読操作をしてもデッドロックしないことを検証する。
func TestStore_ObserverMaySubscribe(t *testing.T) {
	s := NewStore()

	s.Subscribe(func(*model.AuthUser) {
		_ = s.Get()
		cancel := s.Subscribe(func(*model.AuthUser) {})
		cancel()
	})

	s.Set(&model.AuthUser{Email: "a@b.com"})
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(&model.AuthUser{Email: "a@b.com"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Get()
		}()
	}
	wg.Wait()

	if got := s.Get(); got == nil || got.Email != "a@b.com" {
		t.Errorf("Get() = %+v, want a@b.com", got)
	}
}
