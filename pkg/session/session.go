// Package session holds the authenticated identity for one interactive
// run and gates every operation through an explicit capability table.
package session

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/schoolbench/srms/pkg/codec"
	"github.com/schoolbench/srms/pkg/store"
)

// Errors
var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAttemptsExhausted = errors.New("maximum login attempts reached")
	ErrLoginAborted      = errors.New("login aborted")
)

// Session is the authenticated identity. It is created by a Manager on
// successful login, passed explicitly into every gated operation, and
// simply dropped on logout.
type Session struct {
	ID       string
	Username string
	Role     Role
	LoginAt  time.Time
}

// Require returns ErrPermissionDenied unless the session's role carries
// the capability. Callers report the error and never touch the store.
func (s *Session) Require(c Capability) error {
	if !s.Role.Can(c) {
		return ErrPermissionDenied
	}
	return nil
}

// OwnRecord reports whether a record belongs to this session's user: a
// fully numeric username is a roll number, anything else must match the
// record name exactly, ignoring case.
func (s *Session) OwnRecord(rec codec.Student) bool {
	if roll, err := strconv.Atoi(s.Username); err == nil {
		return rec.Roll == roll
	}
	return strings.EqualFold(rec.Name, s.Username)
}

// Authenticator checks a username/password pair and returns the stored
// role token. *store.CredentialStore satisfies it.
type Authenticator interface {
	Authenticate(username, password string) (string, error)
}

// Prompter supplies credentials for login attempts and is told about
// failures. The interactive console implements it; tests use fakes.
type Prompter interface {
	// Credentials asks for one username/password pair.
	Credentials() (username, password string, err error)
	// Failed reports a rejected attempt and how many attempts remain.
	Failed(remaining int)
}

// Manager runs the login state machine: logged out, authenticating until
// success or the attempt limit, then logged in.
type Manager struct {
	auth        Authenticator
	maxAttempts int
}

// NewManager creates a login manager. maxAttempts values below 1 are
// treated as 1.
func NewManager(auth Authenticator, maxAttempts int) *Manager {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Manager{auth: auth, maxAttempts: maxAttempts}
}

// Attempt performs a single authentication and builds a session on
// success. Unknown role tokens in the credential file fail the attempt.
func (m *Manager) Attempt(username, password string) (*Session, error) {
	roleToken, err := m.auth.Authenticate(username, password)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(roleToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:       ksuid.New().String(),
		Username: username,
		Role:     role,
		LoginAt:  time.Now(),
	}, nil
}

// Login drives the prompter until a session is established or the
// attempt limit is reached. Exhaustion is ErrAttemptsExhausted, a
// graceful end of the interactive flow rather than a crash.
func (m *Manager) Login(p Prompter) (*Session, error) {
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		username, password, err := p.Credentials()
		if err != nil {
			return nil, ErrLoginAborted
		}
		sess, err := m.Attempt(username, password)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrBadCredentials) {
			// Unreadable credential file or a corrupt role token;
			// retrying will not help.
			return nil, err
		}
		p.Failed(m.maxAttempts - attempt)
	}
	return nil, ErrAttemptsExhausted
}
