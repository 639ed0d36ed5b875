package store

import "log/slog"

// StudentStoreConfig holds configuration for the student store.
type StudentStoreConfig struct {
	FilePath string       // Path to the student record file
	Logger   *slog.Logger // Optional; defaults to slog.Default()
}

// CredentialStoreConfig holds configuration for the credential store.
type CredentialStoreConfig struct {
	FilePath string       // Path to the credential file
	Logger   *slog.Logger // Optional; defaults to slog.Default()
}

// Errors
var (
	ErrRollNotFound   = &StoreError{"roll not found"}
	ErrUserNotFound   = &StoreError{"user not found"}
	ErrUserExists     = &StoreError{"user already exists"}
	ErrBadCredentials = &StoreError{"invalid username or password"}
)

// StoreError represents a record store error.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
