package repository

import (
	"context"
	"time"

	"btc-signal-bot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultAlertLimit = 10
	maxAlertLimit     = 100
)

// AlertRepository stores the history of monitoring alerts.
type AlertRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAlertRepository(pool PgxPool, tracer trace.Tracer) *AlertRepository {
	return &AlertRepository{pool: pool, tracer: tracer}
}

func (r *AlertRepository) InsertAlert(ctx context.Context, alert *domain.Alert) error {
	ctx, span := r.tracer.Start(ctx, "alert-repo.insert-alert")
	defer span.End()
	span.SetAttributes(attribute.String("variant", string(alert.Variant)))

	createdAt := alert.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO signal_alerts (variant, chat_id, recommendation, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		string(alert.Variant), alert.ChatID, alert.Recommendation, alert.Message, createdAt,
	).Scan(&alert.ID)
}

// RecentAlerts returns the newest alerts first. An empty variant matches all.
func (r *AlertRepository) RecentAlerts(ctx context.Context, variant domain.Variant, limit int) ([]domain.Alert, error) {
	ctx, span := r.tracer.Start(ctx, "alert-repo.recent-alerts")
	defer span.End()

	if limit <= 0 {
		limit = defaultAlertLimit
	}
	if limit > maxAlertLimit {
		limit = maxAlertLimit
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, variant, chat_id, recommendation, message, created_at
		 FROM signal_alerts
		 WHERE ($1 = '' OR variant = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		string(variant), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		var v string
		var ts time.Time
		if err := rows.Scan(&a.ID, &v, &a.ChatID, &a.Recommendation, &a.Message, &ts); err != nil {
			return nil, err
		}
		a.Variant = domain.Variant(v)
		a.CreatedAt = ts.UTC()
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return alerts, nil
}
