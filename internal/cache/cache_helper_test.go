package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedQuiz struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return NewCacheHelper(client, "quiz:"), server
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	stored := cachedQuiz{ID: "q1", Title: "Physics", Score: 20}
	if err := helper.Set(ctx, "id:q1", stored, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var loaded cachedQuiz
	if err := helper.Get(ctx, "id:q1", &loaded); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded != stored {
		t.Errorf("got %+v, want %+v", loaded, stored)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestCache(t)

	var dest cachedQuiz
	err := helper.Get(context.Background(), "id:missing", &dest)
	if err != ErrCacheNotFound {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	helper.Set(ctx, "id:a", cachedQuiz{ID: "a"}, time.Minute)
	helper.Set(ctx, "id:b", cachedQuiz{ID: "b"}, time.Minute)

	if err := helper.Delete(ctx, "id:a", "id:b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var dest cachedQuiz
	if err := helper.Get(ctx, "id:a", &dest); err != ErrCacheNotFound {
		t.Errorf("expected id:a deleted, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	helper.Set(ctx, "id:q1", cachedQuiz{ID: "q1"}, time.Minute)
	helper.Set(ctx, "id:q1:stats", cachedQuiz{ID: "q1"}, time.Minute)
	helper.Set(ctx, "id:q2", cachedQuiz{ID: "q2"}, time.Minute)

	if err := helper.InvalidatePattern(ctx, "id:q1*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var dest cachedQuiz
	if err := helper.Get(ctx, "id:q1", &dest); err != ErrCacheNotFound {
		t.Errorf("expected id:q1 invalidated, got %v", err)
	}
	if err := helper.Get(ctx, "id:q2", &dest); err != nil {
		t.Errorf("id:q2 should survive, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, server := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedQuiz{ID: "q1", Title: "Physics"}, nil
	}

	var first cachedQuiz
	if err := helper.CacheOrExecute(ctx, "id:q1", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 fetch call, got %d", calls)
	}

	// The async cache write has no completion signal; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for !server.Exists("quiz:id:q1") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !server.Exists("quiz:id:q1") {
		t.Fatal("expected async cache write to land")
	}

	var second cachedQuiz
	if err := helper.CacheOrExecute(ctx, "id:q1", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cache hit on second call, fetch ran %d times", calls)
	}
	if second != first {
		t.Errorf("cached value diverged: %+v vs %+v", second, first)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "quiz:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:q1", cachedQuiz{}, time.Minute); err != nil {
		t.Errorf("Set with nil client should be a no-op, got %v", err)
	}
	var dest cachedQuiz
	if err := helper.Get(ctx, "id:q1", &dest); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	// Fetch path still works without a cache.
	calls := 0
	err := helper.CacheOrExecute(ctx, "id:q1", &dest, time.Minute, func() (interface{}, error) {
		calls++
		return cachedQuiz{ID: "q1"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || dest.ID != "q1" {
		t.Errorf("fetch fallback broken: calls=%d dest=%+v", calls, dest)
	}
}
