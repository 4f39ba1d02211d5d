package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/newswire/apiserver/types"
)

// PublisherRepository defines persistence operations for publishers.
type PublisherRepository interface {
	Get(ctx context.Context, id int) (types.Publisher, error)
	List(ctx context.Context, offset, limit int) ([]types.Publisher, int, error)
	Create(ctx context.Context, publisher types.Publisher) (types.Publisher, error)
}

// PublisherService encapsulates publisher use-cases.
type PublisherService struct {
	repo PublisherRepository
}

func NewPublisherService(repo PublisherRepository) *PublisherService {
	return &PublisherService{repo: repo}
}

// Get returns the publisher with the given id.
func (s *PublisherService) Get(ctx context.Context, id int) (types.Publisher, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of publishers plus the unpaged total.
func (s *PublisherService) List(ctx context.Context, offset, limit int) ([]types.Publisher, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// Create registers a new publisher. Only editors run newsrooms, so
// creation is restricted to them.
func (s *PublisherService) Create(ctx context.Context, actor types.User, publisher types.Publisher) (types.Publisher, error) {
	if actor.Role != types.RoleEditor {
		return types.Publisher{}, fmt.Errorf("%w: only editors may create publishers", ErrPermission)
	}
	publisher.Name = strings.TrimSpace(publisher.Name)
	if publisher.Name == "" {
		return types.Publisher{}, fmt.Errorf("%w: publisher name is required", ErrValidation)
	}
	return s.repo.Create(ctx, publisher)
}
