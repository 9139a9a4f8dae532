package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestSnapshotStorePublishAndLatest(t *testing.T) {
	rdb := newFakeRedis()
	store := NewSnapshotStore(rdb, testTracer)

	snap := &domain.Snapshot{
		Analysis:    &domain.Analysis{Variant: domain.VariantHybrid, Recommendation: "BUY", Confidence: 6},
		Message:     "msg",
		PublishedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := store.Publish(context.Background(), snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdb.ttls["signal:latest:hybrid"] != snapshotTTL {
		t.Fatalf("expected snapshot ttl, got %s", rdb.ttls["signal:latest:hybrid"])
	}

	got, err := store.Latest(context.Background(), domain.VariantHybrid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Analysis.Recommendation != "BUY" || got.Message != "msg" || !got.PublishedAt.Equal(snap.PublishedAt) {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSnapshotStoreLatestMissing(t *testing.T) {
	store := NewSnapshotStore(newFakeRedis(), testTracer)
	if _, err := store.Latest(context.Background(), domain.VariantSimple); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestSnapshotStorePublishRejectsEmpty(t *testing.T) {
	store := NewSnapshotStore(newFakeRedis(), testTracer)
	if err := store.Publish(context.Background(), &domain.Snapshot{}); err == nil {
		t.Fatal("expected error for snapshot without analysis")
	}
}

type fakeRedis struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
