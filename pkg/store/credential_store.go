package store

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Credential is one row of the credential file. The role is kept as the
// raw upper-case token; interpreting it is the session layer's job.
type Credential struct {
	Username string
	Password string
	Role     string
}

// CredentialStore owns the credential file. It follows the same
// read/modify/rewrite pattern as the student store: every mutation reads
// all rows, edits the in-memory copy and atomically rewrites the file.
type CredentialStore struct {
	path string
	log  *slog.Logger
}

// NewCredentialStore creates a credential store over the configured file.
func NewCredentialStore(config CredentialStoreConfig) *CredentialStore {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialStore{path: config.FilePath, log: logger}
}

// defaultAccounts are seeded on first run, one per role.
var defaultAccounts = []Credential{
	{"admin", "admin", "ADMIN"},
	{"staff", "staff", "STAFF"},
	{"guest", "guest", "GUEST"},
	{"principal", "principal", "PRINCIPAL"},
	{"student", "student", "STUDENT"},
}

// Seed writes the default accounts if and only if the credential file does
// not exist yet.
func (cs *CredentialStore) Seed() error {
	if _, err := os.Stat(cs.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", cs.path, err)
	}
	cs.log.Info("seeding default credentials", "file", cs.path)
	return cs.overwrite(defaultAccounts)
}

// Authenticate returns the stored role for a matching username/password
// pair, or ErrBadCredentials. Usernames are case-sensitive.
func (cs *CredentialStore) Authenticate(username, password string) (string, error) {
	creds, err := cs.readAll()
	if err != nil {
		return "", err
	}
	for _, c := range creds {
		if c.Username == username && c.Password == password {
			return c.Role, nil
		}
	}
	return "", ErrBadCredentials
}

// Add appends a credential row. The role is normalized to upper case.
// Duplicate usernames are rejected to keep one row per user.
func (cs *CredentialStore) Add(username, password, role string) error {
	if err := validToken(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validToken(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	creds, err := cs.readAll()
	if err != nil {
		return err
	}
	for _, c := range creds {
		if c.Username == username {
			return ErrUserExists
		}
	}

	f, err := os.OpenFile(cs.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s for append: %w", cs.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s %s %s\n", username, password, strings.ToUpper(role)); err != nil {
		return fmt.Errorf("failed to append credential: %w", err)
	}
	return nil
}

// ResetPassword rewrites the matching row with the new password, leaving
// every other row unchanged and in order. Returns ErrUserNotFound if no
// row matches.
func (cs *CredentialStore) ResetPassword(username, newPassword string) error {
	if err := validToken(newPassword); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	creds, err := cs.readAll()
	if err != nil {
		return err
	}
	found := false
	for i := range creds {
		if creds[i].Username == username {
			creds[i].Password = newPassword
			found = true
		}
	}
	if !found {
		return ErrUserNotFound
	}
	return cs.overwrite(creds)
}

// Remove deletes the matching row. Returns ErrUserNotFound if no row
// matches.
func (cs *CredentialStore) Remove(username string) error {
	creds, err := cs.readAll()
	if err != nil {
		return err
	}
	kept := creds[:0]
	found := false
	for _, c := range creds {
		if c.Username == username {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return ErrUserNotFound
	}
	return cs.overwrite(kept)
}

// readAll loads every well-formed row in file order. A missing file is an
// empty store; short rows are skipped.
func (cs *CredentialStore) readAll() ([]Credential, error) {
	f, err := os.Open(cs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", cs.path, err)
	}
	defer f.Close()

	var creds []Credential
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 3 {
			cs.log.Warn("skipping malformed credential row", "file", cs.path, "line", lineNo)
			continue
		}
		creds = append(creds, Credential{Username: fields[0], Password: fields[1], Role: fields[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", cs.path, err)
	}
	return creds, nil
}

func (cs *CredentialStore) overwrite(creds []Credential) error {
	return writeFileAtomic(cs.path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		for _, c := range creds {
			if _, err := fmt.Fprintf(w, "%s %s %s\n", c.Username, c.Password, c.Role); err != nil {
				return fmt.Errorf("failed to write credential: %w", err)
			}
		}
		return w.Flush()
	})
}

// validToken rejects values that would break the whitespace-delimited row
// format.
func validToken(tok string) error {
	if tok == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.ContainsAny(tok, " \t\r\n") {
		return fmt.Errorf("must not contain whitespace")
	}
	return nil
}
