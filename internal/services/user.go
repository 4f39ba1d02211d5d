package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newswire/apiserver/internal/store"
	"github.com/newswire/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	ListJournalists(ctx context.Context, offset, limit int) ([]types.User, int, error)
}

// PublisherGetter resolves publishers referenced by other entities.
type PublisherGetter interface {
	Get(ctx context.Context, id int) (types.Publisher, error)
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo       UserRepository
	publishers PublisherGetter
}

func NewUserService(repo UserRepository, publishers PublisherGetter) *UserService {
	return &UserService{repo: repo, publishers: publishers}
}

// RegisterParams carries the fields of a registration request.
type RegisterParams struct {
	Username              string
	Email                 string
	Name                  string
	Password              string
	Role                  string
	AffiliatedPublisherID *int
}

// Register validates the params and creates the account. Only editors
// may carry a publisher affiliation, and the publisher must exist.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (types.User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)
	params.Name = strings.TrimSpace(params.Name)

	if params.Username == "" || params.Email == "" || params.Password == "" {
		return types.User{}, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if !strings.Contains(params.Email, "@") {
		return types.User{}, fmt.Errorf("%w: malformed email address", ErrValidation)
	}

	role, err := types.ParseRole(params.Role)
	if err != nil {
		return types.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if params.AffiliatedPublisherID != nil {
		if role != types.RoleEditor {
			return types.User{}, fmt.Errorf("%w: only editors may be affiliated with a publisher", ErrValidation)
		}
		if _, err := s.publishers.Get(ctx, *params.AffiliatedPublisherID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return types.User{}, fmt.Errorf("%w: affiliated publisher does not exist", ErrValidation)
			}
			return types.User{}, err
		}
	}

	if _, err := s.repo.GetByUsername(ctx, params.Username); err == nil {
		return types.User{}, fmt.Errorf("%w: username already taken", ErrValidation)
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, types.User{
		Username:              params.Username,
		Email:                 params.Email,
		Name:                  params.Name,
		Role:                  role,
		AffiliatedPublisherID: params.AffiliatedPublisherID,
		PasswordHash:          string(hashed),
	})
}

// Authenticate verifies the credentials and returns the account. An
// unknown username and a wrong password are indistinguishable to the
// caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrCredentials
		}
		return types.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrCredentials
	}
	return user, nil
}

// GetByID returns the account with the given id.
func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListJournalists returns a page of journalist accounts plus the
// unpaged total.
func (s *UserService) ListJournalists(ctx context.Context, offset, limit int) ([]types.User, int, error) {
	return s.repo.ListJournalists(ctx, offset, limit)
}
