// Package inmemstore keeps sessions in process memory: the default backend,
// and the one tests use.
package inmemstore

import (
	"sync"

	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
)

type (
	DB struct {
		sessions *sessionTable
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*session.Session
	}
)

func Open() (*DB, error) {
	db := &DB{
		sessions: &sessionTable{table: make(map[string]*session.Session)},
	}
	return db, nil
}

type sessionRepository struct {
	db *sessionTable
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.sessions}
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cp := s
	repo.db.table[s.ID] = &cp
	return s, nil
}

func (repo *sessionRepository) GetSession(id string) (session.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	s, ok := repo.db.table[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return *s, nil
}

func (repo *sessionRepository) SaveSession(s session.Session) (session.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[s.ID]; !ok {
		return session.Session{}, session.ErrNotFound
	}
	cp := s
	repo.db.table[s.ID] = &cp
	return s, nil
}

func (repo *sessionRepository) DeleteSession(id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, id)
	return nil
}
