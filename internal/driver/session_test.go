package driver

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestTokenCacheConcurrentLogins(t *testing.T) {
	h := NewAuthHandler(zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			h.tokens.Set(tokenKey(uid), SessionToken(uid))
		}(int64(i))
	}
	wg.Wait()

	for i := int64(0); i < 32; i++ {
		token, ok := h.tokens.Get(tokenKey(i))
		if !ok {
			t.Fatalf("no token cached for uid %d", i)
		}
		if want := fmt.Sprintf("token%d", i); token != want {
			t.Errorf("token for uid %d = %q, want %q", i, token, want)
		}
	}
}

func TestTokenCacheMissForUnseenIdentity(t *testing.T) {
	h := NewAuthHandler(zap.NewNop())
	if _, ok := h.tokens.Get(tokenKey(7)); ok {
		t.Error("expected no cached token before first login")
	}
}
