package inmemstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdelhadi-Wael/gradebook-project/core/gradebook"
	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
)

func newSession(id string) session.Session {
	now := time.Now().UTC()
	return session.Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

func TestSessionRepository(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewSessionRepository(db)

	s, err := repo.CreateSession(newSession("abc"))
	require.NoError(t, err)

	got, err := repo.GetSession("abc")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	s.Weights = gradebook.WeightConfig{"exam": 1}
	_, err = repo.SaveSession(s)
	require.NoError(t, err)

	got, err = repo.GetSession("abc")
	require.NoError(t, err)
	assert.Equal(t, gradebook.WeightConfig{"exam": 1}, got.Weights)

	require.NoError(t, repo.DeleteSession("abc"))
	_, err = repo.GetSession("abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRepository_saveUnknown(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewSessionRepository(db)

	_, err = repo.SaveSession(newSession("ghost"))
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRepository_copiesOnWrite(t *testing.T) {
	db, err := Open()
	require.NoError(t, err)
	repo := NewSessionRepository(db)

	s, err := repo.CreateSession(newSession("abc"))
	require.NoError(t, err)

	// mutating the caller's copy must not leak into the store
	s.Weights = gradebook.WeightConfig{"exam": 1}

	got, err := repo.GetSession("abc")
	require.NoError(t, err)
	assert.Nil(t, got.Weights)
}
