package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

const generalChannel = "general"

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

// ListVisible returns the workspace's public channels and the private
// channels userID belongs to, the latter as groups. Members are filled in
// separately.
func (r *ChannelRepo) ListVisible(ctx context.Context, workspaceID, userID uuid.UUID) ([]*domain.Channel, []*domain.Group, error) {
	query := `
		SELECT c.id::text, c.name, c.description, c.type, c.created_by::text, c.created_at,
			c.archived_at IS NOT NULL, me.user_id IS NOT NULL, lr.created_at
		FROM channels c
		LEFT JOIN channel_members me ON me.channel_id = c.id AND me.user_id = $2
		LEFT JOIN messages lr ON lr.id = me.last_read_msg_id
		WHERE c.workspace_id = $1
			AND (c.type = 'public' OR (c.type = 'private' AND me.user_id IS NOT NULL))
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, workspaceID, userID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		channels []*domain.Channel
		groups   []*domain.Group
	)
	for rows.Next() {
		var (
			base      domain.BaseConversation
			desc      *string
			chType    string
			createdAt time.Time
			isMember  bool
			lastRead  *time.Time
		)
		if err := rows.Scan(&base.ID, &base.Name, &desc, &chType, &base.Creator, &createdAt,
			&base.IsArchived, &isMember, &lastRead); err != nil {
			return nil, nil, err
		}
		base.Created = createdAt.Unix()
		if lastRead != nil {
			base.LastRead = tsOf(*lastRead)
		}

		var purpose domain.Topic
		if desc != nil {
			purpose = domain.Topic{Value: *desc, Creator: base.Creator, LastSet: base.Created}
		}

		if chType == "private" {
			groups = append(groups, &domain.Group{BaseConversation: base, IsOpen: true, Purpose: purpose})
			continue
		}
		channels = append(channels, &domain.Channel{
			BaseConversation: base,
			IsMember:         isMember,
			IsGeneral:        base.Name == generalChannel,
			Purpose:          purpose,
		})
	}
	return channels, groups, rows.Err()
}

// MembersByWorkspace maps channel id to member ids in join order.
func (r *ChannelRepo) MembersByWorkspace(ctx context.Context, workspaceID uuid.UUID) (map[string][]string, error) {
	query := `
		SELECT cm.channel_id::text, cm.user_id::text
		FROM channel_members cm
		JOIN channels c ON c.id = cm.channel_id
		WHERE c.workspace_id = $1
		ORDER BY cm.joined_at`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(map[string][]string)
	for rows.Next() {
		var channelID, userID string
		if err := rows.Scan(&channelID, &userID); err != nil {
			return nil, err
		}
		members[channelID] = append(members[channelID], userID)
	}
	return members, rows.Err()
}
