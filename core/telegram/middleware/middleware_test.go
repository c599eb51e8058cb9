package middleware

import (
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type fakeContext struct {
	tele.Context
	user  *tele.User
	upd   tele.Update
	store map[string]any
	sent  []any
}

func newFakeContext(userID int64) *fakeContext {
	var u *tele.User
	if userID != 0 {
		u = &tele.User{ID: userID}
	}
	return &fakeContext{user: u, upd: tele.Update{ID: 7}, store: map[string]any{}}
}

func (f *fakeContext) Sender() *tele.User    { return f.user }
func (f *fakeContext) Chat() *tele.Chat      { return nil }
func (f *fakeContext) Update() tele.Update   { return f.upd }
func (f *fakeContext) Text() string          { return "" }
func (f *fakeContext) Get(key string) any    { return f.store[key] }
func (f *fakeContext) Set(key string, v any) { f.store[key] = v }
func (f *fakeContext) Send(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}
func (f *fakeContext) Edit(what any, _ ...any) error {
	f.sent = append(f.sent, what)
	return nil
}

type stubLimiter struct{ allow bool }

func (s stubLimiter) Allow(int64) bool { return s.allow }

func TestRateLimitDropsDenied(t *testing.T) {
	called, limited := false, false
	h := RateLimit(RateLimitOptions{
		Limiter:   stubLimiter{allow: false},
		OnLimited: func(tele.Context) error { limited = true; return nil },
	})(func(tele.Context) error { called = true; return nil })

	if err := h(newFakeContext(42)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if called || !limited {
		t.Fatalf("called=%v limited=%v", called, limited)
	}
}

func TestRateLimitPassesWithoutSender(t *testing.T) {
	called := false
	h := RateLimit(RateLimitOptions{Limiter: stubLimiter{allow: false}})(func(tele.Context) error {
		called = true
		return nil
	})
	_ = h(newFakeContext(0))
	if !called {
		t.Fatal("update without sender must pass")
	}
}

func TestOwnerOnly(t *testing.T) {
	calls := 0
	h := OwnerOnly(OwnerOptions{OwnerID: 1})(func(tele.Context) error { calls++; return nil })
	_ = h(newFakeContext(1))
	_ = h(newFakeContext(2))
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if IsOwner(newFakeContext(1), 0) {
		t.Fatal("zero owner id must never match")
	}
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	if err := h(newFakeContext(1)); err == nil {
		t.Fatal("expected error from recovered panic")
	}
	sentinel := errors.New("plain")
	if err := RecoverMiddleware(func(tele.Context) error { return sentinel })(newFakeContext(1)); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v", err)
	}
}

func TestMessageMetricsCountsSends(t *testing.T) {
	c := newFakeContext(1)
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		_ = c.Send("hi")
		return c.Edit("menu", &tele.ReplyMarkup{})
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	msgs, kb := GetCounters(c)
	if msgs != 2 || !kb {
		t.Fatalf("counters = (%d, %v), want (2, true)", msgs, kb)
	}
}

func TestLoggerMiddlewareSetsRID(t *testing.T) {
	c := newFakeContext(5)
	var rid string
	h := LoggerMiddleware(func(c tele.Context) error {
		rid, _ = c.Get("rid").(string)
		return nil
	})
	_ = h(c)
	if rid == "" {
		t.Fatal("rid not set")
	}
}
