package service

import (
	"context"
	"sync"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub backend clients
// ---------------------------------------------------------------------------

type stubResourceClient[T any, In any] struct {
	listFn   func(ctx context.Context) ([]T, error)
	getFn    func(ctx context.Context, id string) (T, error)
	createFn func(ctx context.Context, token string, in In) (T, error)
	updateFn func(ctx context.Context, token, id string, in In) (T, error)
	deleteFn func(ctx context.Context, token, id string) error
}

func (s *stubResourceClient[T, In]) List(ctx context.Context) ([]T, error) {
	return s.listFn(ctx)
}

func (s *stubResourceClient[T, In]) Get(ctx context.Context, id string) (T, error) {
	return s.getFn(ctx, id)
}

func (s *stubResourceClient[T, In]) Create(ctx context.Context, token string, in In) (T, error) {
	return s.createFn(ctx, token, in)
}

func (s *stubResourceClient[T, In]) Update(ctx context.Context, token, id string, in In) (T, error) {
	return s.updateFn(ctx, token, id, in)
}

func (s *stubResourceClient[T, In]) Delete(ctx context.Context, token, id string) error {
	return s.deleteFn(ctx, token, id)
}

type stubAuthClient struct {
	loginFn    func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	registerFn func(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error)
	logins     int
}

func (s *stubAuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	s.logins++
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthClient) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	return s.registerFn(ctx, in)
}

type stubStrategyClient struct {
	generateFn func(ctx context.Context, token, industry, objective string) (*domain.Strategy, error)
	tokens     []string
}

func (s *stubStrategyClient) Generate(ctx context.Context, token, industry, objective string) (*domain.Strategy, error) {
	s.tokens = append(s.tokens, token)
	return s.generateFn(ctx, token, industry, objective)
}

func (s *stubStrategyClient) CacheStats(_ context.Context, token string) (domain.StrategyCacheStats, error) {
	s.tokens = append(s.tokens, token)
	return domain.StrategyCacheStats{TotalEntries: 2, CacheHits: 3, CacheMisses: 1, HitRatio: 0.75}, nil
}

func (s *stubStrategyClient) ClearCache(_ context.Context, token string) (domain.StrategyCacheCleared, error) {
	s.tokens = append(s.tokens, token)
	return domain.StrategyCacheCleared{ClearedEntries: 2}, nil
}

func (s *stubStrategyClient) CacheHealth(context.Context) (domain.StrategyCacheHealth, error) {
	return domain.StrategyCacheHealth{Status: domain.StrategyCacheHealthy, CacheEnabled: true}, nil
}

type stubContactClient struct {
	submitted []domain.ContactInput
	submitErr error
	tokens    []string
}

func (s *stubContactClient) Submit(_ context.Context, in domain.ContactInput) (domain.Contact, error) {
	if s.submitErr != nil {
		return domain.Contact{}, s.submitErr
	}
	s.submitted = append(s.submitted, in)
	return domain.Contact{ID: "c1", Name: in.Name, Email: in.Email, Message: in.Message,
		ServiceInterest: in.ServiceInterest, Status: domain.ContactStatusNew}, nil
}

func (s *stubContactClient) List(_ context.Context, token string) ([]domain.Contact, error) {
	s.tokens = append(s.tokens, token)
	return []domain.Contact{{ID: "c1"}}, nil
}

// ---------------------------------------------------------------------------
// In-memory session storage and audit sink
// ---------------------------------------------------------------------------

type memStorage struct {
	mu        sync.Mutex
	values    map[string]string
	getErr    error
	setErr    map[string]error
	deleteErr error
}

func newMemStorage() *memStorage {
	return &memStorage{values: map[string]string{}, setErr: map[string]error{}}
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.setErr[key]; err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

type recordingAudit struct {
	mu      sync.Mutex
	records []domain.AuditRecord
}

func (r *recordingAudit) Record(rec domain.AuditRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

type stubUserClient struct {
	listFn    func(ctx context.Context, token string) ([]domain.User, error)
	updateFn  func(ctx context.Context, token, id string, in domain.UserUpdate) (domain.User, error)
	profileFn func(ctx context.Context, token string, in domain.ProfileUpdate) (domain.User, error)
}

func (s *stubUserClient) List(ctx context.Context, token string) ([]domain.User, error) {
	return s.listFn(ctx, token)
}

func (s *stubUserClient) Update(ctx context.Context, token, id string, in domain.UserUpdate) (domain.User, error) {
	return s.updateFn(ctx, token, id, in)
}

func (s *stubUserClient) UpdateProfile(ctx context.Context, token string, in domain.ProfileUpdate) (domain.User, error) {
	return s.profileFn(ctx, token, in)
}
