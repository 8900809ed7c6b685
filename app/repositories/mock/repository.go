package mock

import (
	"context"
	"sync"

	"postboard/app/models"
	"postboard/app/repositories"
)

// UserRepository is an in-memory repositories.UserRepository.
type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

// SessionRepository is an in-memory repositories.SessionRepository.
type SessionRepository struct {
	sessions map[int]*models.Session
	mutex    sync.RWMutex
}

var (
	_ repositories.UserRepository    = (*UserRepository)(nil)
	_ repositories.SessionRepository = (*SessionRepository)(nil)
)

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[int]*models.Session)}
}

// UserRepository implementation
func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *user
	return &c, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	email = models.NormalizeEmail(email)
	for _, u := range m.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	users := make([]*models.User, 0, len(m.users))
	for id := 1; id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			c := *u
			users = append(users, &c)
		}
	}
	return users, nil
}

func (m *UserRepository) Update(ctx context.Context, user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.users[user.ID]; !exists {
		return repositories.ErrNotFound
	}
	for id, u := range m.users {
		if id != user.ID && u.Email == user.Email {
			return repositories.ErrEmailTaken
		}
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) Delete(ctx context.Context, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.users[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// SessionRepository implementation
func (m *SessionRepository) Put(ctx context.Context, session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	stored := *session
	m.sessions[session.UserID] = &stored
	return nil
}

func (m *SessionRepository) Get(ctx context.Context, userID int) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	c := *session
	return &c, nil
}

func (m *SessionRepository) Delete(ctx context.Context, userID int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, userID)
	return nil
}
