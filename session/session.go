package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/calventeramirez/baseDatos/logger"
	"github.com/pkg/errors"
)

const (
	CookieName      = "session_id"
	SessionIDLength = 32
	CSRFTokenLength = 16

	// AnonymousTTL bounds sessions that never logged in; LoginTTL runs from login.
	AnonymousTTL = 24 * time.Hour
	LoginTTL     = 30 * 24 * time.Hour

	keyToken   = "token"
	keyUser    = "user"
	keyCSRF    = "csrf"
	keyExpires = "expires"
)

var entryNames = []string{keyToken, keyUser, keyCSRF, keyExpires}

// ErrNotFound is returned by backends for unknown keys.
var ErrNotFound = errors.New("session key not found")

// User is the account returned by the backend on login or first setup.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UnmarshalJSON accepts numeric ids as well as strings.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       json.RawMessage `json:"id"`
		Username string          `json:"username"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Username = raw.Username
	u.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		u.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return errors.Wrap(err, "user id")
	}
	u.ID = n.String()
	return nil
}

// Session is the state restored for one browser.
type Session struct {
	ID        string
	Token     string
	User      *User
	CSRFToken string
}

// IsAuthenticated reports whether both a token and a user are present.
// Token expiry is never inferred here; the backend rejects stale tokens.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Backend persists raw session entries.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys() ([]string, error)
}

// Store keeps the token and user of every browser session.
type Store struct {
	backend Backend
	now     func() time.Time
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

// NewID creates a cryptographically secure session id.
func NewID() string {
	return generateSecureToken(SessionIDLength)
}

func generateSecureToken(length int) string {
	bytes := make([]byte, length)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func entryKey(sid, name string) string {
	return sid + ":" + name
}

// Restore reads the persisted session. A user entry that cannot be decoded
// clears the session instead of failing the request. Expired sessions are
// removed and restored empty.
func (st *Store) Restore(sid string) Session {
	sess := Session{ID: sid}
	if sid == "" {
		return sess
	}
	expires, ok := st.expiry(sid)
	if !ok {
		return sess
	}
	if !st.now().Before(expires) {
		if err := st.Destroy(sid); err != nil {
			logger.Log.Errorln("drop expired session", err)
		}
		return sess
	}
	if token, err := st.backend.Get(entryKey(sid, keyToken)); err == nil {
		sess.Token = string(token)
	}
	if csrf, err := st.backend.Get(entryKey(sid, keyCSRF)); err == nil {
		sess.CSRFToken = string(csrf)
	}
	raw, err := st.backend.Get(entryKey(sid, keyUser))
	if err != nil {
		return sess
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Log.Warnln("Error parsing session user, clearing session:", err)
		if err := st.clearAuth(sid); err != nil {
			logger.Log.Errorln("clear session", sid, err)
		}
		sess.Token = ""
		return sess
	}
	sess.User = &user
	return sess
}

// Login stores token and user for the session, replacing earlier values,
// and extends its lifetime to LoginTTL.
func (st *Store) Login(sid, token string, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "encode user")
	}
	if err := st.backend.Set(entryKey(sid, keyToken), []byte(token)); err != nil {
		return errors.Wrap(err, "store token")
	}
	if err := st.backend.Set(entryKey(sid, keyUser), raw); err != nil {
		return errors.Wrap(err, "store user")
	}
	return st.setExpiry(sid, LoginTTL)
}

// Logout removes token and user. Logging out twice is harmless.
func (st *Store) Logout(sid string) error {
	return st.clearAuth(sid)
}

// CSRFToken returns the session's CSRF token, creating one on first use.
// A session created this way lives for AnonymousTTL.
func (st *Store) CSRFToken(sid string) (string, error) {
	if raw, err := st.backend.Get(entryKey(sid, keyCSRF)); err == nil && len(raw) > 0 {
		return string(raw), nil
	}
	token := generateSecureToken(CSRFTokenLength)
	if err := st.backend.Set(entryKey(sid, keyCSRF), []byte(token)); err != nil {
		return "", errors.Wrap(err, "store csrf token")
	}
	if _, ok := st.expiry(sid); !ok {
		if err := st.setExpiry(sid, AnonymousTTL); err != nil {
			return "", err
		}
	}
	return token, nil
}

// Destroy removes every entry of the session.
func (st *Store) Destroy(sid string) error {
	for _, name := range entryNames {
		if err := st.backend.Delete(entryKey(sid, name)); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "delete "+name)
		}
	}
	return nil
}

// Sweep destroys every expired session and reports how many were removed.
func (st *Store) Sweep() (int, error) {
	keys, err := st.backend.Keys()
	if err != nil {
		return 0, errors.Wrap(err, "list sessions")
	}
	now := st.now()
	removed := 0
	for _, key := range keys {
		sid, ok := strings.CutSuffix(key, ":"+keyExpires)
		if !ok {
			continue
		}
		if expires, ok := st.expiry(sid); ok && now.Before(expires) {
			continue
		}
		if err := st.Destroy(sid); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (st *Store) expiry(sid string) (time.Time, bool) {
	raw, err := st.backend.Get(entryKey(sid, keyExpires))
	if err != nil {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return time.Time{}, true
	}
	return time.Unix(unix, 0), true
}

func (st *Store) setExpiry(sid string, ttl time.Duration) error {
	expires := strconv.FormatInt(st.now().Add(ttl).Unix(), 10)
	if err := st.backend.Set(entryKey(sid, keyExpires), []byte(expires)); err != nil {
		return errors.Wrap(err, "store expiry")
	}
	return nil
}

func (st *Store) clearAuth(sid string) error {
	for _, name := range []string{keyToken, keyUser} {
		if err := st.backend.Delete(entryKey(sid, name)); err != nil && !errors.Is(err, ErrNotFound) {
			return errors.Wrap(err, "delete "+name)
		}
	}
	return nil
}

// Describe is used in log lines.
func (s Session) Describe() string {
	if s.User == nil {
		return "anonymous"
	}
	return s.User.Username + " (" + strconv.Quote(s.User.ID) + ")"
}
