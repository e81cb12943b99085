package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

// LatestByWorkspace returns the newest top-level message of every channel
// in the workspace, keyed by channel id. Deleted messages and thread
// replies are skipped.
func (r *MessageRepo) LatestByWorkspace(ctx context.Context, workspaceID uuid.UUID) (map[string]*domain.Message, error) {
	query := `
		SELECT DISTINCT ON (m.channel_id) m.channel_id::text, m.sender_id::text, m.content, m.created_at
		FROM messages m
		JOIN channels c ON c.id = m.channel_id
		WHERE c.workspace_id = $1 AND m.deleted_at IS NULL AND m.parent_id IS NULL
		ORDER BY m.channel_id, m.created_at DESC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]*domain.Message)
	for rows.Next() {
		var (
			channelID string
			m         = &domain.Message{Type: "message"}
			createdAt time.Time
		)
		if err := rows.Scan(&channelID, &m.User, &m.Text, &createdAt); err != nil {
			return nil, err
		}
		m.TS = tsOf(createdAt)
		latest[channelID] = m
	}
	return latest, rows.Err()
}
