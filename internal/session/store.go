// Package session keeps the visitor's auth token, email and role in
// key/value storage. Absence of a key means logged out / no role.
package session

import (
	"sync"

	"library-web/internal/model"
)

const (
	KeyToken = "token"
	KeyEmail = "email"
	KeyRole  = "role"
)

// Storage is the persistent key/value backend of a Store.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// Store wraps Storage with typed accessors. Setting an empty value clears
// the entry. Tokens carry no expiry; they stay until cleared.
type Store struct {
	storage Storage
}

func New(storage Storage) *Store {
	return &Store{storage: storage}
}

func (s *Store) put(key, value string) {
	if value == "" {
		s.storage.Delete(key)
		return
	}
	s.storage.Set(key, value)
}

func (s *Store) get(key string) string {
	v, ok := s.storage.Get(key)
	if !ok {
		return ""
	}
	return v
}

func (s *Store) SetToken(token string) { s.put(KeyToken, token) }
func (s *Store) Token() string         { return s.get(KeyToken) }
func (s *Store) SetEmail(email string) { s.put(KeyEmail, email) }
func (s *Store) Email() string         { return s.get(KeyEmail) }

func (s *Store) SetRole(role model.Role) { s.put(KeyRole, string(role)) }
func (s *Store) Role() model.Role        { return model.ParseRole(s.get(KeyRole)) }

// Authenticated reports whether a token is stored.
func (s *Store) Authenticated() bool { return s.Token() != "" }

// Clear removes token, email and role.
func (s *Store) Clear() {
	s.storage.Delete(KeyToken)
	s.storage.Delete(KeyEmail)
	s.storage.Delete(KeyRole)
}

// Session returns a snapshot of the stored values.
func (s *Store) Session() model.Session {
	return model.Session{Token: s.Token(), Email: s.Email(), Role: s.Role()}
}

// MemoryStorage is a map-backed Storage for the CLI and tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}
