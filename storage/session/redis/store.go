// Package redisstore keeps sessions in redis with a TTL, so uploaded inputs
// survive a restart. Only raw inputs and weights are stored; results are
// always recomputed.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/Abdelhadi-Wael/gradebook-project/core"
	"github.com/Abdelhadi-Wael/gradebook-project/core/session"
)

const keyPrefix = "gradebook:session:"

type sessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func Open(conf *core.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Session.Redis.Address,
		Password: conf.Session.Redis.Password,
		DB:       conf.Session.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) session.Repository {
	return &sessionRepository{client: client, ttl: ttl}
}

func (repo *sessionRepository) set(ctx context.Context, s session.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshalling session")
	}
	if err = repo.client.Set(ctx, keyPrefix+s.ID, data, repo.ttl).Err(); err != nil {
		return errors.Wrap(err, "storing session")
	}
	return nil
}

func (repo *sessionRepository) CreateSession(s session.Session) (session.Session, error) {
	if err := repo.set(context.Background(), s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (repo *sessionRepository) GetSession(id string) (session.Session, error) {
	data, err := repo.client.Get(context.Background(), keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, errors.Wrap(err, "fetching session")
	}

	var s session.Session
	if err = json.Unmarshal(data, &s); err != nil {
		return session.Session{}, errors.Wrap(err, "unmarshalling session")
	}
	return s, nil
}

func (repo *sessionRepository) SaveSession(s session.Session) (session.Session, error) {
	ctx := context.Background()
	if err := repo.client.Get(ctx, keyPrefix+s.ID).Err(); errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrNotFound
	} else if err != nil {
		return session.Session{}, errors.Wrap(err, "fetching session")
	}

	if err := repo.set(ctx, s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

func (repo *sessionRepository) DeleteSession(id string) error {
	err := repo.client.Del(context.Background(), keyPrefix+id).Err()
	return errors.Wrap(err, "deleting session")
}
