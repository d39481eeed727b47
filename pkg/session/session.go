package session

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Alijeyrad/founders_backend/pkg/util/codes"
)

var ErrNotFound = errors.New("session: not found")

// Storage is the key/value backend sessions are kept in. The fiber redis
// storage satisfies it.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Data is the state bound to one browser session.
type Data struct {
	CSRFToken   string `json:"csrf_token"`
	UserID      int    `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	AccountType string `json:"account_type,omitempty"`
	Verified    bool   `json:"verified,omitempty"`
}

func (d *Data) LoggedIn() bool {
	return d != nil && d.UserID > 0
}

// CSRFMatches compares token with the session token in constant time.
func (d *Data) CSRFMatches(token string) bool {
	if d == nil || d.CSRFToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(d.CSRFToken), []byte(token)) == 1
}

type Manager struct {
	store Storage
	cfg   Config
}

func NewManager(store Storage, cfg Config) *Manager {
	return &Manager{store: store, cfg: cfg}
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Create starts a new anonymous session with a fresh CSRF token.
func (m *Manager) Create() (string, *Data, error) {
	id, err := NewToken()
	if err != nil {
		return "", nil, err
	}
	csrf, err := NewToken()
	if err != nil {
		return "", nil, err
	}

	d := &Data{CSRFToken: csrf}
	if err := m.Save(id, d); err != nil {
		return "", nil, err
	}
	return id, d, nil
}

func (m *Manager) Load(id string) (*Data, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	raw, err := m.store.Get(m.key(id))
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &d, nil
}

// Save writes d and refreshes the session TTL.
func (m *Manager) Save(id string, d *Data) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := m.store.Set(m.key(id), raw, m.cfg.TTL); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Rotate moves d to a new id and removes the old one. Used on login so an
// id issued before authentication is never reused after it.
func (m *Manager) Rotate(oldID string, d *Data) (string, error) {
	id, err := NewToken()
	if err != nil {
		return "", err
	}
	if err := m.Save(id, d); err != nil {
		return "", err
	}
	if oldID != "" {
		_ = m.store.Delete(m.key(oldID))
	}
	return id, nil
}

func (m *Manager) Destroy(id string) error {
	if id == "" {
		return nil
	}
	if err := m.store.Delete(m.key(id)); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (m *Manager) key(id string) string {
	return m.cfg.KeyPrefix + id
}

// NewToken returns 32 random bytes, hex encoded.
func NewToken() (string, error) {
	tok, err := codes.GenerateSecureToken(codes.TokenByteLength)
	if err != nil {
		return "", fmt.Errorf("session: random token: %w", err)
	}
	return tok, nil
}
