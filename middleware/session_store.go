package middleware

import (
	"context"
	"encoding/base32"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	gsessions "github.com/gorilla/sessions"
	"github.com/gorilla/securecookie"
	"github.com/redis/go-redis/v9"
)

// SessionBackend persists encoded session values by session id
type SessionBackend interface {
	Load(ctx context.Context, id string) (payload string, found bool, err error)
	Store(ctx context.Context, id, payload string, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ServerStore keeps session values on the server. The cookie only carries
// the signed session id.
type ServerStore struct {
	Codecs  []securecookie.Codec
	options *gsessions.Options
	backend SessionBackend
}

// NewServerStore creates a store over backend, signing ids with keyPairs
func NewServerStore(backend SessionBackend, keyPairs ...[]byte) *ServerStore {
	s := &ServerStore{
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: &gsessions.Options{Path: "/", MaxAge: 86400},
		backend: backend,
	}
	s.maxAge(s.options.MaxAge)
	return s
}

// Options sets the cookie options of new sessions
func (s *ServerStore) Options(options sessions.Options) {
	s.options = options.ToGorillaOptions()
	s.maxAge(s.options.MaxAge)
}

func (s *ServerStore) maxAge(age int) {
	for _, codec := range s.Codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(age)
		}
	}
}

// Get returns the session cached for the request
func (s *ServerStore) Get(r *http.Request, name string) (*gsessions.Session, error) {
	return gsessions.GetRegistry(r).Get(s, name)
}

// New loads the session named by the request cookie. Unknown or expired
// ids yield a fresh session.
func (s *ServerStore) New(r *http.Request, name string) (*gsessions.Session, error) {
	session := gsessions.NewSession(s, name)
	opts := *s.options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	payload, found, err := s.backend.Load(r.Context(), session.ID)
	if err != nil {
		return session, err
	}
	if !found {
		session.ID = ""
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, payload, &session.Values, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save persists the session values and writes the id cookie. A negative
// MaxAge deletes the session.
func (s *ServerStore) Save(r *http.Request, w http.ResponseWriter, session *gsessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.backend.Delete(ctx, session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, gsessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = strings.TrimRight(
			base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	}

	payload, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return err
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if ttl == 0 {
		ttl = time.Duration(s.options.MaxAge) * time.Second
	}
	if err := s.backend.Store(ctx, session.ID, payload, ttl); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, gsessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

type memoryEntry struct {
	payload   string
	expiresAt time.Time
}

// MemoryBackend keeps sessions in process memory
type MemoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	writes  int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry)}
}

func (m *MemoryBackend) Load(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return "", false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, id)
		return "", false, nil
	}
	return entry.payload, true, nil
}

func (m *MemoryBackend) Store(_ context.Context, id, payload string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.entries[id] = memoryEntry{payload: payload, expiresAt: now.Add(ttl)}

	// Sweep expired sessions every so often
	m.writes++
	if m.writes%1000 == 0 {
		for key, entry := range m.entries {
			if now.After(entry.expiresAt) {
				delete(m.entries, key)
			}
		}
	}
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// RedisBackend keeps sessions in Redis so several instances can share them
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend stores sessions under keys starting with prefix
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) key(id string) string {
	return r.prefix + ":" + id
}

func (r *RedisBackend) Load(ctx context.Context, id string) (string, bool, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return payload, true, nil
}

func (r *RedisBackend) Store(ctx context.Context, id, payload string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(id), payload, ttl).Err()
}

func (r *RedisBackend) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
