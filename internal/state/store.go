// Package state persists per-installation data, currently the anonymization
// salt that keeps hash tokens stable across independent runs.
package state

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dataveil/dataveil/internal/logger"
)

const (
	saltKey  = "anonymizer_salt"
	saltSize = 16 // bytes of entropy behind a generated salt
)

// Store is a local SQLite database holding installation state
type Store struct {
	db     *sqlx.DB
	logger *logger.Logger
}

// DefaultPath returns the state database location used when none is
// configured.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".dataveil", "dataveil.db"), nil
}

// Open opens the state database at path, creating the file and its parent
// directory when missing.
func Open(path string, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	store := &Store{db: db, logger: log}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("State store opened", zap.String("path", path))
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating settings table: %w", err)
	}
	return nil
}

// Salt returns the persisted anonymization salt, generating and storing one
// on first use. Every later call, including from future processes, returns
// the same value, which is what keeps hash tokens joinable across runs.
func (s *Store) Salt() (string, error) {
	var salt string
	err := s.db.Get(&salt, "SELECT value FROM settings WHERE key = ?", saltKey)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("loading salt: %w", err)
	}

	salt, err = GenerateSalt(saltSize)
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec("INSERT INTO settings (key, value) VALUES (?, ?)", saltKey, salt); err != nil {
		return "", fmt.Errorf("storing salt: %w", err)
	}

	s.logger.Info("Generated new anonymization salt")
	return salt, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GenerateSalt returns size bytes of entropy rendered as hex
func GenerateSalt(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}
