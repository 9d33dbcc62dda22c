// Package session tracks the authentication state of one connection.
//
// A Session belongs to the goroutine serving its connection and is never
// shared, so it carries no locking.
package session

// State is the authentication state of a connection.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is either Anonymous or Authenticated as exactly one account.
// The zero value is an anonymous session.
type Session struct {
	accountID string
	closed    bool
}

func (s *Session) State() State {
	if s.accountID == "" {
		return Anonymous
	}
	return Authenticated
}

// AccountID returns the authenticated account and true, or "" and false.
func (s *Session) AccountID() (string, bool) {
	return s.accountID, s.accountID != ""
}

// Login switches the session to accountID, replacing any previous account.
// It has no effect once the session is closed.
func (s *Session) Login(accountID string) {
	if s.closed {
		return
	}
	s.accountID = accountID
}

// Logout returns the session to Anonymous from any state.
func (s *Session) Logout() {
	s.accountID = ""
}

// Close ends the session for good; later Login calls are ignored.
func (s *Session) Close() {
	s.accountID = ""
	s.closed = true
}
