package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// testBackend runs the shared contract against a backend.
func testBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "snap", []byte(`{"v":1}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "snap")
	if err != nil || !hit || string(data) != `{"v":1}` {
		t.Fatalf("Get(snap) = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "snap", []byte(`{"v":2}`), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "snap"); string(data) != `{"v":2}` {
		t.Errorf("after overwrite Get = %q", data)
	}

	if err := c.Delete(ctx, "snap"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "snap"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "snap"); hit {
		t.Error("entry survived Delete")
	}

	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	if err := c.(Clearer).Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, k := range []string{"a", "b"} {
		if _, hit, _ := c.Get(ctx, k); hit {
			t.Errorf("%s survived Clear", k)
		}
	}
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testBackend(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired entry not removed from disk")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("not json"), 0o644)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v", hit, err)
	}
}

func setupRedis(t *testing.T, prefix string) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, prefix)
	t.Cleanup(func() { c.Close() })
	return mr, c
}

func TestRedisCache(t *testing.T) {
	_, c := setupRedis(t, "")
	testBackend(t, c)
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t, "")

	c.Set(ctx, "k", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived its TTL")
	}
}

func TestRedisCacheClearKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	mr, c := setupRedis(t, "schedgrid:")

	c.Set(ctx, "a", []byte("1"), 0)
	mr.Set("other:b", "2")

	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if mr.Exists("schedgrid:a") {
		t.Error("prefixed key survived Clear")
	}
	if !mr.Exists("other:b") {
		t.Error("Clear removed a key outside its prefix")
	}
}

func TestNewRedisCacheUnavailable(t *testing.T) {
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = time.Second })

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.DatasetKey("file", "testdata/week.toml"); got != "dataset:file:testdata/week.toml" {
		t.Errorf("DatasetKey = %s", got)
	}

	base := SnapshotKeyOpts{View: "day", Anchor: "2026-02-16", DayStartHour: 7, DayEndHour: 19, HourWidth: 60}
	wider := base
	wider.HourWidth = 80
	collapsed := base
	collapsed.Collapsed = []string{"instructors"}

	s1 := k.SnapshotKey("h1", base)
	if s1 == k.SnapshotKey("h1", wider) || s1 == k.SnapshotKey("h1", collapsed) {
		t.Error("different snapshot options should produce different keys")
	}
	if s1 == k.SnapshotKey("h2", base) {
		t.Error("different datasets should produce different keys")
	}
	if s1 != k.SnapshotKey("h1", base) {
		t.Error("SnapshotKey should be deterministic")
	}

	if k.LanesKey("h1", "ac-1") == k.LanesKey("h1", "ac-2") {
		t.Error("different resources should produce different lane keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "server:")

	if got := scoped.DatasetKey("mongo", "bookings"); got != "server:dataset:mongo:bookings" {
		t.Errorf("DatasetKey = %s", got)
	}
	if got := scoped.SnapshotKey("h", SnapshotKeyOpts{}); got[:16] != "server:snapshot:" {
		t.Errorf("SnapshotKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.DatasetKey("file", "a.json"); got != "prefix:dataset:file:a.json" {
		t.Errorf("unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = time.Second })
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return ErrCacheMiss
	})
	if err != ErrCacheMiss || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
