package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, msg domain.ConversationMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversation_messages (id, session_id, role, content, created_at)
VALUES ($1,$2,$3,$4,$5)
`, msg.ID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListRecent returns up to limit newest messages for the session, oldest
// first, ready for prompt assembly.
func (r *ConversationRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.ConversationMessage, error) {
	if limit <= 0 {
		limit = 6
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, role, content, created_at
FROM (
	SELECT id, session_id, role, content, created_at
	FROM conversation_messages
	WHERE session_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2
) recent
ORDER BY created_at ASC, id ASC
`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent messages: %w", err)
	}
	defer rows.Close()

	var out []domain.ConversationMessage
	for rows.Next() {
		var msg domain.ConversationMessage
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

// TrimHistory deletes everything but the newest keep messages of a session.
func (r *ConversationRepository) TrimHistory(ctx context.Context, sessionID string, keep int) error {
	if keep <= 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
DELETE FROM conversation_messages
WHERE session_id = $1
AND id NOT IN (
	SELECT id FROM conversation_messages
	WHERE session_id = $1
	ORDER BY created_at DESC, id DESC
	LIMIT $2
)
`, sessionID, keep)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversation_messages WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
