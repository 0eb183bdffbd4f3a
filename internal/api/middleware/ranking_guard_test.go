package middleware

import (
	"Inkstone/internal/pkg/mongo"
	"context"
	"sync"
	"testing"
	"time"
)

type guardRankingStore struct {
	mongo.StoryRankingRepo

	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (f *guardRankingStore) CountByDate(context.Context, time.Time) (int64, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	return 1, nil
}

func TestRankingGuard_CachesExistenceCheck(t *testing.T) {
	store := &guardRankingStore{}
	guard := NewRankingGuard(nil, store)

	for i := 0; i < 3; i++ {
		if !guard.todayHasRows(context.Background()) {
			t.Fatal("todayHasRows = false, want true")
		}
	}
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1 (cached within TTL)", store.calls)
	}

	guard.Invalidate()
	guard.todayHasRows(context.Background())
	if store.calls != 2 {
		t.Fatalf("store calls = %d, want 2 after invalidate", store.calls)
	}
}

func TestRankingGuard_ExistenceCheckNotSerialized(t *testing.T) {
	store := &guardRankingStore{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	guard := NewRankingGuard(nil, store)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard.todayHasRows(context.Background())
		}()
	}

	// 缓存为空时两个并发请求应同时进入存储查询，
	// 而不是一个压着锁另一个在外面排队
	for i := 0; i < 2; i++ {
		select {
		case <-store.entered:
		case <-time.After(2 * time.Second):
			t.Fatal("concurrent existence checks serialized behind the guard mutex")
		}
	}
	close(store.release)
	wg.Wait()
}
