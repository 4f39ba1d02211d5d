package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/newswire/apiserver/types"
)

// ConnectionRepository defines persistence operations for editors'
// social platform connections.
type ConnectionRepository interface {
	Get(ctx context.Context, userID int) (types.SocialConnection, error)
	Upsert(ctx context.Context, conn types.SocialConnection) (types.SocialConnection, error)
	Delete(ctx context.Context, userID int) error
}

// ConnectionService encapsulates social connection use-cases.
type ConnectionService struct {
	repo ConnectionRepository
}

func NewConnectionService(repo ConnectionRepository) *ConnectionService {
	return &ConnectionService{repo: repo}
}

// Connect stores or replaces the actor's platform tokens. Only editors
// post on approval, so only they hold connections.
func (s *ConnectionService) Connect(ctx context.Context, actor types.User, conn types.SocialConnection) (types.SocialConnection, error) {
	if actor.Role != types.RoleEditor {
		return types.SocialConnection{}, fmt.Errorf("%w: only editors connect social accounts", ErrPermission)
	}
	if strings.TrimSpace(conn.AccessToken) == "" {
		return types.SocialConnection{}, fmt.Errorf("%w: access token is required", ErrValidation)
	}
	conn.UserID = actor.ID
	return s.repo.Upsert(ctx, conn)
}

// Disconnect removes the actor's platform connection.
func (s *ConnectionService) Disconnect(ctx context.Context, actor types.User) error {
	if actor.Role != types.RoleEditor {
		return fmt.Errorf("%w: only editors connect social accounts", ErrPermission)
	}
	return s.repo.Delete(ctx, actor.ID)
}
