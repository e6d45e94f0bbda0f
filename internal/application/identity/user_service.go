package identity

import (
	"context"

	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles administrative user management
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user management service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	users, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, ToUserResponse(&users[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one user by ID.
func (s *UserService) Get(ctx context.Context, id uint) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Update edits a user's username and/or email.
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		if err := user.SetUsername(*input.Username); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user. Administrators cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor identity.Principal, id uint) error {
	if actor.UserID == id {
		return shared.ErrInvalidState.WithMessage("Cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", zap.Uint("user_id", id), zap.Uint("actor_user_id", actor.UserID))
	return nil
}

// GrantAdmin promotes a user to the admin role.
func (s *UserService) GrantAdmin(ctx context.Context, actor identity.Principal, id uint) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.GrantAdmin(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin role granted", zap.Uint("user_id", id), zap.Uint("actor_user_id", actor.UserID))
	response := ToUserResponse(user)
	return &response, nil
}

// RevokeAdmin demotes a user to the default role. Actors cannot revoke
// their own role, which also guarantees at least one admin remains.
func (s *UserService) RevokeAdmin(ctx context.Context, actor identity.Principal, id uint) (*UserResponse, error) {
	if actor.UserID == id {
		return nil, shared.ErrInvalidState.WithMessage("Cannot revoke your own admin role")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.RevokeAdmin(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin role revoked", zap.Uint("user_id", id), zap.Uint("actor_user_id", actor.UserID))
	response := ToUserResponse(user)
	return &response, nil
}
