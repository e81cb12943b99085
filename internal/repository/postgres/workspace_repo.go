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

type WorkspaceRepo struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepo(pool *pgxpool.Pool) *WorkspaceRepo {
	return &WorkspaceRepo{pool: pool}
}

// GetTeam maps a workspace row onto a team record. The slug becomes the
// team domain.
func (r *WorkspaceRepo) GetTeam(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := `SELECT id::text, name, slug, description FROM workspaces WHERE id = $1`

	var (
		t    domain.Team
		desc *string
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Domain, &desc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if desc != nil {
		t.Extra = map[string]json.RawMessage{"description": rawString(*desc)}
	}
	return &t, nil
}
