package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

type fakeAuthRepo struct {
	mu     sync.Mutex
	tokens map[string]*ports.RefreshToken
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{tokens: make(map[string]*ports.RefreshToken)}
}

func (r *fakeAuthRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[tokenHash] = &ports.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	return nil
}

func (r *fakeAuthRepo) GetRefreshToken(_ context.Context, tokenHash string) (*ports.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, entities.ErrRefreshTokenInvalid
	}
	copied := *t
	return &copied, nil
}

func (r *fakeAuthRepo) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[tokenHash]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (r *fakeAuthRepo) RevokeAllUserTokens(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{revoked: make(map[string]time.Duration)}
}

func (s *fakeSessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *fakeSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entities.TimeRecord
	failOn  error
}

func newFakeRecordRepo(records ...*entities.TimeRecord) *fakeRecordRepo {
	repo := &fakeRecordRepo{records: make(map[uuid.UUID]*entities.TimeRecord)}
	for _, r := range records {
		repo.records[r.ID] = r
	}
	return repo
}

func (r *fakeRecordRepo) Create(_ context.Context, record *entities.TimeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		return r.failOn
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.TimeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, entities.ErrRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeRecordRepo) Update(_ context.Context, record *entities.TimeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[record.ID]
	if !ok || existing.UserID != record.UserID || existing.Deleted {
		return entities.ErrRecordNotFound
	}
	copied := *record
	copied.CreatedAt = existing.CreatedAt
	copied.Deleted = existing.Deleted
	copied.DeletedAt = existing.DeletedAt
	copied.UpdatedAt = time.Now()
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeRecordRepo) SoftDelete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.records[id]
	if !ok || existing.UserID != ownerID {
		return entities.ErrRecordNotFound
	}
	existing.MarkDeleted(time.Now())
	return nil
}

func (r *fakeRecordRepo) List(_ context.Context, filter ports.TimeRecordFilter) ([]*entities.TimeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != nil {
		return nil, r.failOn
	}
	var out []*entities.TimeRecord
	for _, rec := range r.records {
		if filter.UserID != nil && rec.UserID != *filter.UserID {
			continue
		}
		if filter.Deleted != nil && rec.Deleted != *filter.Deleted {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects []entities.Project
	err      error
}

func (r *fakeProjectRepo) List(context.Context) ([]entities.Project, error) {
	return r.projects, r.err
}

type fakeTaskRepo struct {
	tasks []entities.Task
	err   error
}

func (r *fakeTaskRepo) List(context.Context) ([]entities.Task, error) {
	return r.tasks, r.err
}
