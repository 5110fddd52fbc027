package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/infrastructure/logger"
)

func testLogger() logger.Logger {
	return logger.NewLoggerWithWriter(io.Discard, "error")
}

// mockUserDirectory is a mock implementation of UserDirectory
type mockUserDirectory struct {
	existsFunc func(ctx context.Context, userID string) (bool, error)
}

func (m *mockUserDirectory) Exists(ctx context.Context, userID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, userID)
	}
	return true, nil
}

func knownUsers(ids ...string) *mockUserDirectory {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return &mockUserDirectory{
		existsFunc: func(_ context.Context, userID string) (bool, error) {
			return set[userID], nil
		},
	}
}

// mockStatementRepository is a mock implementation of StatementRepository
type mockStatementRepository struct {
	appendFunc     func(ctx context.Context, s entity.Statement) (entity.Statement, error)
	listByUserFunc func(ctx context.Context, userID string) ([]entity.Statement, error)
	getFunc        func(ctx context.Context, id, userID string) (*entity.Statement, error)
}

func (m *mockStatementRepository) Append(ctx context.Context, s entity.Statement) (entity.Statement, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, s)
	}
	return s, nil
}

func (m *mockStatementRepository) ListByUser(ctx context.Context, userID string) ([]entity.Statement, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return []entity.Statement{}, nil
}

func (m *mockStatementRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Statement, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, userID)
	}
	return nil, entity.ErrStatementNotFound
}

// plainStore appends without any balance check of its own, so tests can
// observe what the use case alone enforces.
type plainStore struct {
	mu         sync.Mutex
	statements []entity.Statement
	listDelay  time.Duration
}

func (s *plainStore) Append(_ context.Context, st entity.Statement) (entity.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	s.statements = append(s.statements, st)
	return st, nil
}

func (s *plainStore) ListByUser(_ context.Context, userID string) ([]entity.Statement, error) {
	s.mu.Lock()
	out := []entity.Statement{}
	for _, st := range s.statements {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	s.mu.Unlock()

	if s.listDelay > 0 {
		time.Sleep(s.listDelay)
	}
	return out, nil
}

func (s *plainStore) GetByIDAndUser(_ context.Context, id, userID string) (*entity.Statement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.statements {
		if st.ID == id && st.UserID == userID {
			found := st
			return &found, nil
		}
	}
	return nil, entity.ErrStatementNotFound
}

func (s *plainStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.statements)
}

// mockPublisher is a mock implementation of EventPublisher
type mockPublisher struct {
	mu        sync.Mutex
	published []entity.StatementCreated
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, event entity.StatementCreated) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event)
	return nil
}

// blockingPublisher holds every Publish call until release is closed
type blockingPublisher struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (b *blockingPublisher) Publish(ctx context.Context, _ entity.StatementCreated) error {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	mockUserDirectory
	createFunc      func(ctx context.Context, user entity.User) (entity.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	findByIDFunc    func(ctx context.Context, id string) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user entity.User) (entity.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "generated-id"
	return user, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

// mockHasher prefixes passwords instead of hashing them
type mockHasher struct {
	hashErr error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return entity.ErrIncorrectCredentials
	}
	return nil
}

// mockTokens issues "token:<userID>"
type mockTokens struct {
	issueErr error
}

func (m *mockTokens) Issue(userID string) (string, error) {
	if m.issueErr != nil {
		return "", m.issueErr
	}
	return "token:" + userID, nil
}

func (m *mockTokens) Validate(token string) (string, error) {
	return token[len("token:"):], nil
}
