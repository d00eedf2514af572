// Package userstest provides an in-memory users.Repository for tests of the
// layers above the store.
package userstest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	"github.com/dmitrijs2005/signkeeper/internal/server/models"
	"github.com/dmitrijs2005/signkeeper/internal/server/repositories/users"
)

// Memory keeps users in a map and enforces (UID, Provider) uniqueness like
// the database constraint.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

var _ users.Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{byID: make(map[int64]*models.User)}
}

func clone(u *models.User) *models.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func (m *Memory) FindByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (m *Memory) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	return m.FindByUIDAndProvider(ctx, uid, models.LocalProvider)
}

func (m *Memory) FindByUIDAndProvider(_ context.Context, uid, provider string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.UID == uid && u.Provider == provider {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (m *Memory) FindAll(_ context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Save(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.byID {
		if id != user.ID && u.UID == user.UID && u.Provider == user.Provider {
			return nil, common.ErrUserExists
		}
	}
	if user.ID == 0 {
		m.nextID++
		user.ID = m.nextID
		user.CreatedAt = time.Now()
	} else if _, ok := m.byID[user.ID]; !ok {
		return nil, common.ErrUserNotFound
	}
	m.byID[user.ID] = clone(user)
	return user, nil
}

func (m *Memory) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

// Len reports the number of stored users.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
