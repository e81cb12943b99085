package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

type DMRepo struct {
	pool *pgxpool.Pool
}

func NewDMRepo(pool *pgxpool.Pool) *DMRepo {
	return &DMRepo{pool: pool}
}

// ListConversations returns userID's direct-message sessions with the
// counterpart as DM.User and the newest message as latest.
func (r *DMRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]*domain.DM, error) {
	query := `
		SELECT c.id::text, c.created_at,
			CASE WHEN c.user1_id = $1 THEN c.user2_id ELSE c.user1_id END::text AS other_user_id,
			lm.sender_id::text, lm.content, lm.created_at
		FROM dm_conversations c
		LEFT JOIN LATERAL (
			SELECT m.sender_id, m.content, m.created_at
			FROM dm_messages m
			WHERE m.conversation_id = c.id AND m.deleted_at IS NULL
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON true
		WHERE c.user1_id = $1 OR c.user2_id = $1
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	self := userID.String()
	var dms []*domain.DM
	for rows.Next() {
		var (
			d         = &domain.DM{IsOpen: true}
			createdAt time.Time
			sender    *string
			content   *string
			sentAt    *time.Time
		)
		if err := rows.Scan(&d.ID, &createdAt, &d.User, &sender, &content, &sentAt); err != nil {
			return nil, err
		}
		d.Created = createdAt.Unix()
		d.Members = []string{self, d.User}
		if sentAt != nil {
			m := &domain.Message{Type: "message", TS: tsOf(*sentAt)}
			if sender != nil {
				m.User = *sender
			}
			if content != nil {
				m.Text = *content
			}
			d.AddMessage(m)
		}
		dms = append(dms, d)
	}
	return dms, rows.Err()
}
