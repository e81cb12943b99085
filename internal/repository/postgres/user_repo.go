package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) GetSelf(ctx context.Context, id uuid.UUID) (*domain.Self, error) {
	var self domain.Self
	err := r.pool.QueryRow(ctx, "SELECT id::text, username FROM users WHERE id = $1", id).Scan(&self.ID, &self.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &self, err
}

// ListByWorkspace returns the workspace members in join order.
func (r *UserRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.User, error) {
	query := `
		SELECT u.id::text, u.email, u.username, u.display_name, u.avatar_url, u.status, wm.role
		FROM workspace_members wm
		JOIN users u ON wm.user_id = u.id
		WHERE wm.workspace_id = $1
		ORDER BY wm.joined_at`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamID := workspaceID.String()
	var users []*domain.User
	for rows.Next() {
		var (
			u      domain.User
			avatar *string
			status string
			role   string
		)
		if err := rows.Scan(&u.ID, &u.Profile.Email, &u.Name, &u.RealName, &avatar, &status, &role); err != nil {
			return nil, err
		}
		u.TeamID = teamID
		u.Presence = presenceOf(status)
		u.IsAdmin = isAdminRole(role)
		u.Profile.RealName = u.RealName
		if avatar != nil {
			u.Profile.Extra = map[string]json.RawMessage{"image_72": rawString(*avatar)}
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
