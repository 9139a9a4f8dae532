package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const snapshotTTL = 24 * time.Hour

// ErrNoSnapshot is returned when nothing has been published for a variant yet.
var ErrNoSnapshot = errors.New("no snapshot published")

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SnapshotStore shares the latest analysis of each variant between the bot,
// the HTTP API, the SSH dashboard and the MCP server.
type SnapshotStore struct {
	redis  RedisClient
	tracer trace.Tracer
}

func NewSnapshotStore(redis RedisClient, tracer trace.Tracer) *SnapshotStore {
	return &SnapshotStore{redis: redis, tracer: tracer}
}

func snapshotKey(v domain.Variant) string {
	return "signal:latest:" + string(v)
}

func (s *SnapshotStore) Publish(ctx context.Context, snap *domain.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, "snapshot-store.publish")
	defer span.End()

	if snap == nil || snap.Analysis == nil {
		return errors.New("snapshot has no analysis")
	}
	span.SetAttributes(attribute.String("variant", string(snap.Analysis.Variant)))

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, snapshotKey(snap.Analysis.Variant), data, snapshotTTL).Err()
}

func (s *SnapshotStore) Latest(ctx context.Context, v domain.Variant) (*domain.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "snapshot-store.latest")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(v)))

	data, err := s.redis.Get(ctx, snapshotKey(v)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
