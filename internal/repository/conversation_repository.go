package repository

import (
	"context"
	"time"

	"btc-signal-bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ConversationRepository keeps the per-chat history forwarded to the agent.
type ConversationRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewConversationRepository(pool PgxPool, tracer trace.Tracer) *ConversationRepository {
	return &ConversationRepository{pool: pool, tracer: tracer}
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, chatID int64, role, content string) error {
	ctx, span := r.tracer.Start(ctx, "conversation-repo.append-message")
	defer span.End()
	span.SetAttributes(attribute.Int64("chat_id", chatID), attribute.String("role", role))

	_, err := r.pool.Exec(ctx,
		`INSERT INTO conversation_messages (chat_id, role, content) VALUES ($1, $2, $3)`,
		chatID, role, content,
	)
	return err
}

// RecentMessages returns the newest limit messages of a chat, oldest first.
func (r *ConversationRepository) RecentMessages(ctx context.Context, chatID int64, limit int) ([]domain.ConversationMessage, error) {
	ctx, span := r.tracer.Start(ctx, "conversation-repo.recent-messages")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT role, content, created_at FROM (
		     SELECT id, role, content, created_at
		     FROM conversation_messages
		     WHERE chat_id = $1
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 ) recent
		 ORDER BY created_at ASC, id ASC`,
		chatID, limit,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ConversationMessage, error) {
		var m domain.ConversationMessage
		var ts time.Time
		if err := row.Scan(&m.Role, &m.Content, &ts); err != nil {
			return m, err
		}
		m.CreatedAt = ts.UTC()
		return m, nil
	})
}

// ClearConversation deletes the stored history of a chat.
func (r *ConversationRepository) ClearConversation(ctx context.Context, chatID int64) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "conversation-repo.clear")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM conversation_messages WHERE chat_id = $1`, chatID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
