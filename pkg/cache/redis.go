package cache

import (
	"context"
	"encoding/json"
	"time"

	"tarot-service/pkg/storage"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the per-tab reading session record. State names and their
// transitions are owned by the service layer; the cache just persists the
// record between requests.
type Session struct {
	ID            string                 `json:"id"`
	State         string                 `json:"state"`
	Token         string                 `json:"token"`
	LinkID        uuid.UUID              `json:"link_id"`
	IsMaster      bool                   `json:"is_master"`
	ReadingType   string                 `json:"reading_type"`
	UserType      string                 `json:"user_type"`
	ReferenceCode string                 `json:"reference_code"`
	Locale        string                 `json:"locale"`
	UserID        *uuid.UUID             `json:"user_id,omitempty"`
	Question      string                 `json:"question"`
	Cards         []storage.SelectedCard `json:"cards,omitempty"`
	Reading       string                 `json:"reading,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type SessionStoreInterface interface {
	Get(ctx context.Context, id string) (*Session, error)
	Set(ctx context.Context, session *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	key := "session:" + id
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *SessionStore) Set(ctx context.Context, session *Session, ttl time.Duration) error {
	key := "session:" + session.ID
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	key := "session:" + id
	return s.client.Del(ctx, key).Err()
}

// LinkCacheInterface caches validated master links. Single-use links are
// never cached: their validation must always observe fresh is_used state.
type LinkCacheInterface interface {
	Get(ctx context.Context, token string) (*storage.Link, error)
	Set(ctx context.Context, link *storage.Link, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func (c *LinkCache) Get(ctx context.Context, token string) (*storage.Link, error) {
	key := "link:" + token
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var link storage.Link
	if err := json.Unmarshal([]byte(val), &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (c *LinkCache) Set(ctx context.Context, link *storage.Link, ttl time.Duration) error {
	key := "link:" + link.Token
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *LinkCache) Delete(ctx context.Context, token string) error {
	key := "link:" + token
	return c.client.Del(ctx, key).Err()
}
