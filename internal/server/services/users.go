package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/logging"
	"github.com/dmitrijs2005/signkeeper/internal/server/auth"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users"
)

// RoleAdmin may manage accounts other than its own.
const RoleAdmin = "ROLE_ADMIN"

// UserService serves account queries and updates for authenticated callers.
// The caller identity is always passed in explicitly.
type UserService struct {
	repo   users.Repository
	logger logging.Logger
}

func NewUserService(repo users.Repository, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{repo: repo, logger: logger.With("module", "users")}
}

func (s *UserService) FindAll(ctx context.Context) ([]*models.User, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "list users failed", "err", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// FindCurrent loads the account identified by a token subject: a decimal
// subject is a social account id, anything else a local username. Local
// usernames are never purely decimal, so the two cannot collide.
func (s *UserService) FindCurrent(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	var (
		user *models.User
		err  error
	)
	if id, convErr := strconv.ParseInt(identity.Subject, 10, 64); convErr == nil {
		user, err = s.repo.FindByID(ctx, id)
	} else {
		user, err = s.repo.FindByUID(ctx, identity.Subject)
	}
	if err != nil {
		s.logger.Error(ctx, "find current user failed", "err", err)
		return nil, common.ErrorInternal
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

// UpdateName renames account id. Only the account itself or an admin may do so;
// no other field is touched.
func (s *UserService) UpdateName(ctx context.Context, caller *auth.Identity, id int64, name string) (*models.User, error) {
	if name == "" || id <= 0 {
		return nil, common.ErrorValidation
	}
	if err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "find user failed", "err", err)
		return nil, common.ErrorInternal
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	user.Name = name
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "save user failed", "err", err)
		return nil, common.ErrorInternal
	}
	return saved, nil
}

// Delete removes account id under the same rule as UpdateName. Deletion is
// unconditional: removing an id that no longer exists succeeds.
func (s *UserService) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	if id <= 0 {
		return common.ErrorValidation
	}
	if err := s.authorize(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.logger.Error(ctx, "delete user failed", "err", err)
		return common.ErrorInternal
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) authorize(ctx context.Context, caller *auth.Identity, id int64) error {
	if caller == nil {
		return common.ErrInvalidToken
	}
	if caller.HasRole(RoleAdmin) {
		return nil
	}
	current, err := s.FindCurrent(ctx, caller)
	if err != nil {
		return err
	}
	if current.ID != id {
		return common.ErrForbidden
	}
	return nil
}
