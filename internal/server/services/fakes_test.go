package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users/userstest"
	"github.com/dmitrijs2005/signkeeper/internal/server/social"
)

// memUsers wraps the in-memory store with error injection.
type memUsers struct {
	*userstest.Memory

	findErr error
	saveErr error

	mu    sync.Mutex
	saves int
}

func newMemUsers() *memUsers {
	return &memUsers{Memory: userstest.NewMemory()}
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.Memory.FindByID(ctx, id)
}

func (m *memUsers) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.Memory.FindByUID(ctx, uid)
}

func (m *memUsers) FindByUIDAndProvider(ctx context.Context, uid, provider string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.Memory.FindByUIDAndProvider(ctx, uid, provider)
}

func (m *memUsers) FindAll(ctx context.Context) ([]*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.Memory.FindAll(ctx)
}

func (m *memUsers) Save(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.Memory.Save(ctx, user)
}

func (m *memUsers) count() int {
	return m.Len()
}

// plainHasher is a reversible stand-in that keeps tests fast.
type plainHasher struct {
	err error
}

func (h plainHasher) Hash(password string) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	return "hashed:" + password, nil
}

func (h plainHasher) Verify(password, hash string) bool {
	return hash != "" && hash == "hashed:"+password
}

// fakeResolver serves a fixed token → profile table.
type fakeResolver struct {
	profiles map[string]*social.Profile
	err      error
	calls    int
}

func (f *fakeResolver) Resolve(_ context.Context, provider, accessToken string) (*social.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[accessToken]
	if !ok {
		return nil, errors.Join(common.ErrSocialAuth, errors.New("unknown token"))
	}
	out := *p
	out.Provider = provider
	return &out, nil
}

type failingIssuer struct{}

func (failingIssuer) CreateToken(string, []string) (string, error) {
	return "", errors.New("no key")
}
