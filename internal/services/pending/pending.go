// Package pending хранит токен ожидающей разблокировки через рекламу.
//
// У пользователя один слот: каждый новый запрос рекламы перезаписывает его.
// Take читает и удаляет токен одной командой GETDEL, поэтому из нескольких
// доставок одного подтверждения токен получит только первая.
package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

const keyPrefix = "content_gate:pending_unlock:"

// Store хранилище токенов в Redis.
type Store struct {
	db  *redis.Client
	ttl time.Duration
}

// New создаёт Store. ttl ограничивает жизнь забытого токена.
func New(db *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Set сохраняет токен, перезаписывая предыдущий.
func (s *Store) Set(ctx context.Context, userID string, token models.PendingUnlock) error {
	const op = "pending.Set"
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Set(ctx, key(userID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get возвращает токен без удаления; nil, если слота нет.
func (s *Store) Get(ctx context.Context, userID string) (*models.PendingUnlock, error) {
	const op = "pending.Get"
	val, err := s.db.Get(ctx, key(userID)).Bytes()
	return decode(op, val, err)
}

// Take атомарно забирает токен. nil означает, что токена нет или его уже забрали.
func (s *Store) Take(ctx context.Context, userID string) (*models.PendingUnlock, error) {
	const op = "pending.Take"
	val, err := s.db.GetDel(ctx, key(userID)).Bytes()
	return decode(op, val, err)
}

// Clear удаляет токен.
func (s *Store) Clear(ctx context.Context, userID string) error {
	const op = "pending.Clear"
	if err := s.db.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func decode(op string, val []byte, err error) (*models.PendingUnlock, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var token models.PendingUnlock
	if err := json.Unmarshal(val, &token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &token, nil
}
