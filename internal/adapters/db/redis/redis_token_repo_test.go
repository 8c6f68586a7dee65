package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
)

func newRepo(t *testing.T) (*RedisTokenRepo, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redisv9.NewClient(&redisv9.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenRepo(client), mr
}

func TestRedisTokenRepo_RevokeAccessAndIsAccessRevoked(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	exp := time.Now().Add(30 * time.Second)
	if err := repo.RevokeAccess(ctx, "access-jti", exp); err != nil {
		t.Fatalf("RevokeAccess: %v", err)
	}

	revoked, err := repo.IsAccessRevoked(ctx, "access-jti")
	if err != nil {
		t.Fatalf("IsAccessRevoked err: %v", err)
	}
	if !revoked {
		t.Fatal("access-token should be marked revoked")
	}
}

func TestRedisTokenRepo_IsAccessRevoked_KeyAbsent(t *testing.T) {
	repo, _ := newRepo(t)

	revoked, err := repo.IsAccessRevoked(context.Background(), "absent-jti")
	if err != nil {
		t.Fatalf("IsAccessRevoked err: %v", err)
	}
	if revoked {
		t.Fatal("absent key must be considered NOT revoked")
	}
}

func TestRedisTokenRepo_EntryExpiresWithToken(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	if err := repo.RevokeAccess(ctx, "short", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("RevokeAccess: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	revoked, err := repo.IsAccessRevoked(ctx, "short")
	if err != nil {
		t.Fatalf("IsAccessRevoked err: %v", err)
	}
	if revoked {
		t.Fatal("denylist entry must disappear once the token has expired")
	}
}

func TestRedisTokenRepo_AlreadyExpiredIsNoop(t *testing.T) {
	repo, mr := newRepo(t)

	if err := repo.RevokeAccess(context.Background(), "old", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("RevokeAccess: %v", err)
	}
	if mr.Exists(accessPrefix + "old") {
		t.Fatal("expired token must not be stored")
	}
}

func TestRedisTokenRepo_FailsClosed(t *testing.T) {
	repo, mr := newRepo(t)
	mr.Close()

	revoked, err := repo.IsAccessRevoked(context.Background(), "any")
	if err == nil {
		t.Fatal("expected error with redis down")
	}
	if !revoked {
		t.Fatal("lookup failure must report revoked")
	}
}
