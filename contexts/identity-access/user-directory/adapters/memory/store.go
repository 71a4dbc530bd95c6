package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"adbroker/contexts/identity-access/user-directory/domain/entities"
	domainerrors "adbroker/contexts/identity-access/user-directory/domain/errors"
)

// Store is the in-memory user repository. It also serves as Clock and
// IDGenerator for the in-memory module wiring.
type Store struct {
	mu sync.RWMutex

	users      map[string]entities.User
	byTelegram map[int64]string

	now *time.Time
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]entities.User),
		byTelegram: make(map[int64]string),
	}
}

// SetNow pins the store clock for deterministic tests.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pinned := now.UTC()
	s.now = &pinned
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.UserID] = user
	s.byTelegram[user.TelegramID] = user.UserID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[strings.TrimSpace(userID)]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByTelegramID(_ context.Context, telegramID int64) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, exists := s.byTelegram[telegramID]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return s.users[userID], nil
}

func (s *Store) UpdateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.UserID]; !exists {
		return domainerrors.ErrUserNotFound
	}
	s.users[user.UserID] = user
	s.byTelegram[user.TelegramID] = user.UserID
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return *s.now
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
