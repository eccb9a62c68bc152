package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"

	"github.com/Rishabh1623/shopmetrics/internal/domain/auth/model"
	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
)

func newStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	return NewRedisSessionStore(client), mr
}

func TestRefreshToken_SaveGetDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.SaveRefreshToken(ctx, "u1", "tok-1", 10*time.Minute); err != nil {
		t.Fatalf("SaveRefreshToken: %v", err)
	}

	got, err := store.GetRefreshToken(ctx, "u1")
	if err != nil {
		t.Fatalf("GetRefreshToken: %v", err)
	}
	if got != "tok-1" {
		t.Fatalf("want tok-1, got %s", got)
	}

	if err := store.DeleteRefreshToken(ctx, "u1"); err != nil {
		t.Fatalf("DeleteRefreshToken: %v", err)
	}
	if _, err := store.GetRefreshToken(ctx, "u1"); !errors.Is(err, customErrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}

func TestRefreshToken_OverwriteInvalidatesOld(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	if err := store.SaveRefreshToken(ctx, "u1", "old", time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveRefreshToken(ctx, "u1", "new", time.Hour); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetRefreshToken(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "new" {
		t.Fatalf("want new, got %s", got)
	}
}

func TestRefreshToken_Expiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	if err := store.SaveRefreshToken(ctx, "u1", "tok", time.Minute); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.GetRefreshToken(ctx, "u1"); !errors.Is(err, customErrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound after TTL, got %v", err)
	}
}

func TestSession_RoundTrip(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	sess := model.Session{UserID: "u1", Email: "a@x.com"}
	if err := store.SaveSession(ctx, "u1", sess, time.Hour); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	raw, err := mr.Get("session:u1")
	if err != nil {
		t.Fatalf("session key missing: %v", err)
	}
	if raw != `{"user_id":"u1","email":"a@x.com"}` {
		t.Fatalf("unexpected session payload: %s", raw)
	}

	if err := store.DeleteSession(ctx, "u1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if mr.Exists("session:u1") {
		t.Fatal("session key should be gone")
	}
}

func TestResetToken_SaveAndGet(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	if err := store.SaveResetToken(ctx, "u1", "reset-tok", time.Hour); err != nil {
		t.Fatalf("SaveResetToken: %v", err)
	}

	got, err := store.GetResetToken(ctx, "u1")
	if err != nil {
		t.Fatalf("GetResetToken: %v", err)
	}
	if got != "reset-tok" {
		t.Fatalf("want reset-tok, got %s", got)
	}

	ttl := mr.TTL("reset_token:u1")
	if ttl != time.Hour {
		t.Fatalf("want 1h TTL, got %v", ttl)
	}
}

func TestPing(t *testing.T) {
	store, mr := newStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error after close")
	}
}
