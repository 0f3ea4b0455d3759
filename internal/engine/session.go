package engine

import (
	"sync"

	"github.com/subwatch-ai/subwatch/internal/model"
)

// Session holds the per-session application state: the signed-in user and
// the working set. It is created at sign-in and cleared at sign-out; inner
// components receive it explicitly rather than through globals.
type Session struct {
	user *model.User
	set  *WorkingSet
	mu   sync.RWMutex
}

// NewSession creates an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{set: NewWorkingSet()}
}

// SignIn binds a user to the session and loads the demo seed records,
// matching the bootstrap behavior at login. Scans append on top of these.
func (s *Session) SignIn(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &user
	s.set.Merge(model.SeedSubscriptions())
}

// SignOut clears the user and the working set.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.set.Clear()
}

// User returns the signed-in user, if any.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Subscriptions returns the session's working set.
func (s *Session) Subscriptions() *WorkingSet {
	return s.set
}
