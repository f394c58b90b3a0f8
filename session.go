package viewx

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "VIEWXSESSION"

// DefaultSessionTimeout is the idle timeout of the built-in store.
const DefaultSessionTimeout = 30 * time.Minute

var defaultStore = NewMemoryStore(DefaultSessionTimeout)

// Session is the per-client session attached to a render context. The seal
// method prevents implementations outside this module; hosts plug in their
// own backend through SessionStore instead.
type Session interface {
	ID() string
	Attribute(name string) mo.Option[any]
	SetAttribute(name string, value any)
	// RemoveAttribute removes the attribute and returns the value
	// previously held.
	RemoveAttribute(name string) mo.Option[any]
	// Invalidate drops the session from its store.
	Invalidate()
	seal()
}

// SessionStore creates and resolves sessions. The render context only ever
// talks to the store through this interface, so the in-memory default can be
// swapped for a shared backend via WithSessionStore.
type SessionStore interface {
	Lookup(id string) (Session, bool)
	Create() Session
	Drop(id string)
}

// MemoryStore is a mutex-guarded in-process session store with an idle
// timeout. Expired sessions are dropped lazily on lookup.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memorySession
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore builds a store with the given idle timeout.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	lo.Assert(ttl > 0, "viewx: session timeout must be positive")
	return &MemoryStore{ttl: ttl, sessions: map[string]*memorySession{}}
}

// Lookup resolves a live session by ID, extending its idle deadline.
func (s *MemoryStore) Lookup(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(sess.deadline) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.deadline = time.Now().Add(s.ttl)
	return sess, true
}

// Create builds a fresh session with a random ID.
func (s *MemoryStore) Create() Session {
	sess := &memorySession{
		id:       newSessionID(),
		store:    s,
		attrs:    map[string]any{},
		deadline: time.Now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// Drop removes the session with the given ID.
func (s *MemoryStore) Drop(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

type memorySession struct {
	id       string
	store    *MemoryStore
	attrs    map[string]any
	deadline time.Time
}

var _ Session = (*memorySession)(nil)

func (m *memorySession) ID() string {
	return m.id
}

func (m *memorySession) Attribute(name string) mo.Option[any] {
	return optionAt(m.attrs, name)
}

func (m *memorySession) SetAttribute(name string, value any) {
	m.attrs[name] = value
}

func (m *memorySession) RemoveAttribute(name string) mo.Option[any] {
	prior := optionAt(m.attrs, name)
	delete(m.attrs, name)
	return prior
}

func (m *memorySession) Invalidate() {
	m.store.Drop(m.id)
}

func (m *memorySession) seal() {}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Session returns the session bound to this request, resolving it from the
// session cookie. With create set, a missing or expired session is replaced
// by a fresh one and the cookie is (re)issued; otherwise nil is returned.
func (rc *RenderContext) Session(create bool) Session {
	if rc.session != nil {
		return rc.session
	}
	if c, err := rc.r.Cookie(SessionCookieName); err == nil {
		if sess, ok := rc.store.Lookup(c.Value); ok {
			rc.session = sess
			return sess
		}
	}
	if !create {
		return nil
	}
	sess := rc.store.Create()
	rc.session = sess
	rc.AddResponseCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID(),
		Path:     lo.CoalesceOrEmpty(rc.app.ContextPath(), "/"),
		HttpOnly: true,
		Secure:   rc.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// SessionAttribute returns the session value associated with the name. No
// session is created when none exists.
func (rc *RenderContext) SessionAttribute(name string) mo.Option[any] {
	if sess := rc.Session(false); sess != nil {
		return sess.Attribute(name)
	}
	return mo.None[any]()
}

// SetSessionAttribute sets the session value associated with the name,
// creating the session on demand.
func (rc *RenderContext) SetSessionAttribute(name string, value any) {
	rc.Session(true).SetAttribute(name, value)
}

// RemoveSessionAttribute removes the session value associated with the name
// and returns the value previously held.
func (rc *RenderContext) RemoveSessionAttribute(name string) mo.Option[any] {
	if sess := rc.Session(false); sess != nil {
		return sess.RemoveAttribute(name)
	}
	return mo.None[any]()
}

// InvalidateSession drops the current session and expires its cookie.
func (rc *RenderContext) InvalidateSession() {
	sess := rc.Session(false)
	if sess == nil {
		return
	}
	sess.Invalidate()
	rc.session = nil
	rc.AddResponseCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     lo.CoalesceOrEmpty(rc.app.ContextPath(), "/"),
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// HasSessionTimedOut reports whether the client presented a session cookie
// for which no live session exists anymore. Useful in a pre-render check to
// tell an expired login apart from a fresh visitor.
func (rc *RenderContext) HasSessionTimedOut() bool {
	c, err := rc.r.Cookie(SessionCookieName)
	return err == nil && c.Value != "" && rc.Session(false) == nil
}

// CurrentSession returns the session of the current render context. See
// RenderContext.Session for the create semantics.
func CurrentSession(ctx context.Context, create bool) Session {
	return Current(ctx).Session(create)
}

// SessionAttribute returns the session value associated with the name.
func SessionAttribute[T any](ctx context.Context, name string) mo.Option[T] {
	return As[T](Current(ctx).SessionAttribute(name))
}

// SetSessionAttribute sets the session value associated with the name.
func SetSessionAttribute(ctx context.Context, name string, value any) {
	Current(ctx).SetSessionAttribute(name, value)
}

// RemoveSessionAttribute removes the session value associated with the name
// and returns the value previously held.
func RemoveSessionAttribute[T any](ctx context.Context, name string) mo.Option[T] {
	return As[T](Current(ctx).RemoveSessionAttribute(name))
}

// InvalidateSession drops the current session and expires its cookie.
func InvalidateSession(ctx context.Context) {
	Current(ctx).InvalidateSession()
}

// HasSessionTimedOut reports whether the client presented a session cookie
// for which no live session exists anymore.
func HasSessionTimedOut(ctx context.Context) bool {
	return Current(ctx).HasSessionTimedOut()
}
