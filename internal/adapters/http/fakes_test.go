package http

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/ports"
)

type memoryRecordService struct {
	mu        sync.Mutex
	records   map[uuid.UUID]*entities.TimeRecord
	createErr error
	deleteErr error
}

func newMemoryRecordService() *memoryRecordService {
	return &memoryRecordService{records: make(map[uuid.UUID]*entities.TimeRecord)}
}

func (s *memoryRecordService) CreateRecord(ctx context.Context, user *entities.User, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	if user == nil {
		return nil, entities.ErrNotAuthenticated
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *record
	stored.ID = uuid.New()
	stored.UserID = user.ID
	stored.Status = entities.RecordStatusPending
	s.records[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *memoryRecordService) UpdateRecord(ctx context.Context, user *entities.User, id uuid.UUID, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[id]
	if !ok || existing.Deleted || !existing.IsOwnedBy(user.ID) {
		return nil, entities.ErrRecordNotFound
	}
	stored := *record
	stored.ID = id
	stored.UserID = user.ID
	stored.Status = entities.RecordStatusPending
	s.records[id] = &stored
	out := stored
	return &out, nil
}

func (s *memoryRecordService) ListRecords(ctx context.Context, user *entities.User) ([]*entities.TimeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entities.TimeRecord
	for _, r := range s.records {
		if r.IsOwnedBy(user.ID) && !r.Deleted {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *memoryRecordService) GetRecord(ctx context.Context, user *entities.User, id uuid.UUID) (*entities.TimeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || r.Deleted || !r.IsOwnedBy(user.ID) {
		return nil, entities.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memoryRecordService) DeleteRecord(ctx context.Context, user *entities.User, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok || !r.IsOwnedBy(user.ID) {
		return entities.ErrRecordNotFound
	}
	r.MarkDeleted(time.Now())
	return nil
}

func (s *memoryRecordService) Summary(ctx context.Context, user *entities.User, dateRange *entities.DateRange) (*ports.RecordSummary, error) {
	records, _ := s.ListRecords(ctx, user)
	summary := &ports.RecordSummary{Range: dateRange}
	for _, r := range records {
		if dateRange != nil && !dateRange.Contains(r.Date) {
			continue
		}
		summary.TotalRecords++
		summary.TotalMinutes += r.TotalMinutes
	}
	return summary, nil
}

func (s *memoryRecordService) seed(user *entities.User, date string, minutes int) *entities.TimeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &entities.TimeRecord{
		ID:          uuid.New(),
		UserID:      user.ID,
		ProjectID:   "p1",
		TaskID:      "t1",
		Date:        date,
		Description: "seeded",
		Status:      entities.RecordStatusPending,
	}
	r.SetDuration(entities.DurationFromMinutes(minutes))
	s.records[r.ID] = r
	return r
}

type staticReferences struct {
	err error
}

func (s staticReferences) LoadReferenceData(ctx context.Context) (*entities.ReferenceData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entities.ReferenceData{
		Projects: []entities.Project{{ID: "p1", Name: "Alpha"}, {ID: "p2", Name: "Beta"}},
		Tasks:    []entities.Task{{ID: "t1", Name: "Development"}, {ID: "t2", Name: "Review"}},
	}, nil
}

func (s staticReferences) ListProjects(ctx context.Context) ([]entities.Project, error) {
	refs, err := s.LoadReferenceData(ctx)
	if err != nil {
		return nil, err
	}
	return refs.Projects, nil
}

func (s staticReferences) ListTasks(ctx context.Context) ([]entities.Task, error) {
	refs, err := s.LoadReferenceData(ctx)
	if err != nil {
		return nil, err
	}
	return refs.Tasks, nil
}

type stubAuthService struct {
	user      *entities.User
	token     string
	loginErr  error
	loggedOut bool
}

func (s *stubAuthService) Login(ctx context.Context, req ports.LoginRequest) (*ports.AuthResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &ports.AuthResponse{AccessToken: s.token, RefreshToken: "refresh", TokenType: "Bearer", User: s.user}, nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (*ports.AuthResponse, error) {
	if refreshToken != "refresh" {
		return nil, entities.ErrRefreshTokenInvalid
	}
	return &ports.AuthResponse{AccessToken: s.token, RefreshToken: "refresh-2", TokenType: "Bearer", User: s.user}, nil
}

func (s *stubAuthService) Logout(ctx context.Context, claims *ports.Claims) error {
	if claims == nil {
		return entities.ErrNotAuthenticated
	}
	s.loggedOut = true
	return nil
}

func (s *stubAuthService) ValidateToken(tokenString string) (*ports.Claims, error) {
	if tokenString == "" || tokenString != s.token {
		return nil, errors.New("invalid token")
	}
	return &ports.Claims{TokenID: "jti", UserID: s.user.ID, Email: s.user.Email, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *stubAuthService) SessionSource(tokenString string) ports.SessionSource {
	return stubSource{user: s.user, ok: tokenString != "" && tokenString == s.token}
}

type stubSource struct {
	user *entities.User
	ok   bool
}

func (s stubSource) Watch(ctx context.Context, fn func(user *entities.User)) func() {
	if s.ok {
		fn(s.user)
	} else {
		fn(nil)
	}
	return func() {}
}
