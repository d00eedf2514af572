// Package services contains server-side business logic. AuthService runs the
// local and social sign-in / sign-up flows; UserService handles account
// maintenance for authenticated callers.
package services

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/logging"
	"github.com/dmitrijs2005/signkeeper/internal/server/auth"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/signkeeper/internal/server/social"
)

// TokenIssuer signs bearer tokens for authenticated accounts.
type TokenIssuer interface {
	CreateToken(subject string, roles []string) (string, error)
}

// TokenVerifier recovers the identity carried by a bearer token.
type TokenVerifier interface {
	ParseToken(token string) (*auth.Identity, error)
}

// AuthService authenticates and registers accounts. It holds no mutable
// state of its own; every call is independent.
type AuthService struct {
	repo   users.Repository
	hasher auth.PasswordHasher
	tokens TokenIssuer
	social social.Resolver
	logger logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo users.Repository, hasher auth.PasswordHasher, tokens TokenIssuer, resolver social.Resolver, logger logging.Logger) *AuthService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		social: resolver,
		logger: logger.With("module", "auth"),
	}
}

// Signin checks a local username and password and returns a bearer token
// whose subject is the username. Unknown users and wrong passwords both
// yield common.ErrInvalidCredentials.
func (s *AuthService) Signin(ctx context.Context, uid, password string) (string, error) {
	if uid == "" || password == "" {
		return "", common.ErrorValidation
	}

	user, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		s.logger.Error(ctx, "find user failed", "err", err)
		return "", common.ErrorInternal
	}
	if user == nil {
		// Same hashing cost as a real check.
		s.hasher.Verify(password, s.timingHash())
		return "", common.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", common.ErrInvalidCredentials
	}

	return s.issue(ctx, user)
}

// Signup registers a local account holding ROLE_USER. A taken uid yields
// common.ErrUserExists, whether caught by the lookup or by the store.
// Purely decimal uids are rejected: decimal token subjects name social
// accounts.
func (s *AuthService) Signup(ctx context.Context, uid, password, name string) (*models.User, error) {
	if uid == "" || password == "" || name == "" || isDecimal(uid) {
		return nil, common.ErrorValidation
	}

	existing, err := s.repo.FindByUID(ctx, uid)
	if err != nil {
		s.logger.Error(ctx, "find user failed", "err", err)
		return nil, common.ErrorInternal
	}
	if existing != nil {
		return nil, common.ErrUserExists
	}

	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, common.ErrorValidation
	}
	if err != nil {
		s.logger.Error(ctx, "hash password failed", "err", err)
		return nil, common.ErrorInternal
	}

	user, err := models.NewLocalUser(uid, hash, name)
	if err != nil {
		return nil, common.ErrorValidation
	}

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "local user registered", "user_id", saved.ID)
	return saved, nil
}

// SigninByProvider resolves the provider profile behind accessToken and
// returns a bearer token whose subject is the account's internal id. It
// never registers: an unlinked profile yields common.ErrUserNotFound.
func (s *AuthService) SigninByProvider(ctx context.Context, provider, accessToken string) (string, error) {
	if provider == "" || accessToken == "" {
		return "", common.ErrorValidation
	}

	profile, err := s.resolve(ctx, provider, accessToken)
	if err != nil {
		return "", err
	}

	user, err := s.repo.FindByUIDAndProvider(ctx, profile.ID, provider)
	if err != nil {
		s.logger.Error(ctx, "find user failed", "err", err)
		return "", common.ErrorInternal
	}
	if user == nil {
		return "", common.ErrUserNotFound
	}

	return s.issue(ctx, user)
}

// SignupProvider links the provider profile behind accessToken to a new
// account named name.
func (s *AuthService) SignupProvider(ctx context.Context, provider, accessToken, name string) (*models.User, error) {
	if provider == "" || accessToken == "" || name == "" {
		return nil, common.ErrorValidation
	}

	profile, err := s.resolve(ctx, provider, accessToken)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByUIDAndProvider(ctx, profile.ID, provider)
	if err != nil {
		s.logger.Error(ctx, "find user failed", "err", err)
		return nil, common.ErrorInternal
	}
	if existing != nil {
		return nil, common.ErrUserExists
	}

	user, err := models.NewSocialUser(profile.ID, provider, name)
	if err != nil {
		return nil, common.ErrorValidation
	}

	saved, err := s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "social user registered", "user_id", saved.ID, "provider", provider)
	return saved, nil
}

func (s *AuthService) resolve(ctx context.Context, provider, accessToken string) (*social.Profile, error) {
	profile, err := s.social.Resolve(ctx, provider, accessToken)
	if err != nil {
		s.logger.Warn(ctx, "social profile lookup failed", "provider", provider, "err", err)
		if errors.Is(err, common.ErrSocialAuth) {
			return nil, err
		}
		return nil, errors.Join(common.ErrSocialAuth, err)
	}
	return profile, nil
}

func (s *AuthService) save(ctx context.Context, user *models.User) (*models.User, error) {
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, common.ErrUserExists
		}
		s.logger.Error(ctx, "save user failed", "err", err)
		return nil, common.ErrorInternal
	}
	return saved, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.CreateToken(user.Subject(), user.Roles)
	if err != nil {
		s.logger.Error(ctx, "create token failed", "err", err)
		return "", common.ErrorInternal
	}
	return token, nil
}

func isDecimal(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("signkeeper-timing-equalizer")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
