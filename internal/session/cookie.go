package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const cookieName = "library-session"

// keyVisitor holds the ID of the visitor's server-side UI state.
const keyVisitor = "visitor"

// Flash is a notification queued for the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// CookieStore hands out cookie-backed Storage per request.
type CookieStore struct {
	store *sessions.CookieStore
}

// NewCookieStore creates a store signing cookies with key. An empty key is
// replaced by a random one, which invalidates sessions on restart.
func NewCookieStore(key []byte, secure bool) *CookieStore {
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store}
}

// Open returns the request's session storage. A cookie that fails to decode
// yields a fresh, empty session rather than an error.
func (c *CookieStore) Open(r *http.Request) *CookieStorage {
	sess, err := c.store.Get(r, cookieName)
	if err != nil {
		sess, _ = c.store.New(r, cookieName)
	}
	return &CookieStorage{sess: sess}
}

// CookieStorage implements Storage over a gorilla session.
type CookieStorage struct {
	sess *sessions.Session
}

func (c *CookieStorage) Get(key string) (string, bool) {
	v, ok := c.sess.Values[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (c *CookieStorage) Set(key, value string) { c.sess.Values[key] = value }
func (c *CookieStorage) Delete(key string)     { delete(c.sess.Values, key) }

// VisitorID returns the visitor's UI state ID, or "" when none was issued.
func (c *CookieStorage) VisitorID() string {
	v, _ := c.Get(keyVisitor)
	return v
}

func (c *CookieStorage) SetVisitorID(id string) { c.Set(keyVisitor, id) }

func (c *CookieStorage) AddFlash(f Flash) { c.sess.AddFlash(f) }

// Flashes drains queued flashes. The session must be saved afterwards.
func (c *CookieStorage) Flashes() []Flash {
	var out []Flash
	for _, v := range c.sess.Flashes() {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}

func (c *CookieStorage) Save(r *http.Request, w http.ResponseWriter) error {
	return c.sess.Save(r, w)
}
