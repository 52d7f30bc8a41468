package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zalando/go-keyring"

	"github.com/noah-isme/council-console/pkg/storage"
)

// FileStore keeps the session as JSON in a user-only file.
type FileStore struct {
	storage  *storage.LocalStorage
	filename string
}

// NewFileStore stores the session at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	fs, err := storage.NewLocalStorage(filepath.Dir(path), 0o600)
	if err != nil {
		return nil, err
	}
	return &FileStore{storage: fs, filename: filepath.Base(path)}, nil
}

func (s *FileStore) Load(_ context.Context) (*Session, error) {
	data, err := s.storage.Read(s.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return decode(data)
}

func (s *FileStore) Save(_ context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	_, err = s.storage.Save(s.filename, data)
	return err
}

func (s *FileStore) Clear(_ context.Context) error {
	return s.storage.Delete(s.filename)
}

// RedisStore keeps the session under one key with a TTL.
type RedisStore struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

// NewRedisStore stores the session at key. A zero ttl keeps it until logout.
func NewRedisStore(client redis.Cmdable, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) (*Session, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decode(raw)
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", s.key, err)
	}
	return nil
}

// KeyringStore keeps the session in the OS credential store.
type KeyringStore struct {
	service string
	user    string
}

func NewKeyringStore(service, user string) *KeyringStore {
	return &KeyringStore{service: service, user: user}
}

func (s *KeyringStore) Load(_ context.Context) (*Session, error) {
	secret, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("keyring get: %w", err)
	}
	return decode([]byte(secret))
}

func (s *KeyringStore) Save(_ context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, s.user, string(data)); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

func (s *KeyringStore) Clear(_ context.Context) error {
	if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}

// MemoryStore keeps the session for the life of the process.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrNoSession
	}
	return decode(s.data)
}

func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	data, err := encode(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

func encode(sess *Session) ([]byte, error) {
	if err := sess.Valid(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if err := sess.Valid(); err != nil {
		return nil, err
	}
	return &sess, nil
}
