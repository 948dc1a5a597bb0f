package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenKey is the fixed storage key for the admin bearer token.
const TokenKey = "admin_token"

// TokenTTL is how long a stored token is honored before the console treats
// it as expired without asking the backend.
const TokenTTL = 7 * 24 * time.Hour

// CredentialRepository persists the admin session token.
type CredentialRepository struct {
	db *sql.DB
}

// NewCredentialRepository creates a new [CredentialRepository] with the given database connection
func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Save stores token under [TokenKey] with a fresh [TokenTTL] expiry window,
// replacing any previous token.
func (r *CredentialRepository) Save(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("refusing to store empty token")
	}

	if token.Expiry.IsZero() {
		token.Expiry = time.Now().Add(TokenTTL)
	}

	blob, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	query := `
		INSERT INTO credentials (key, token, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET token = excluded.token, expires_at = excluded.expires_at
	`
	if _, err := r.db.Exec(query, TokenKey, string(blob), token.Expiry); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// Load returns the stored token, or nil when none is stored or the stored
// one has passed its expiry window. Expired rows are removed on the way out.
func (r *CredentialRepository) Load() (*oauth2.Token, error) {
	var (
		blob      string
		expiresAt time.Time
	)

	err := r.db.QueryRow("SELECT token, expires_at FROM credentials WHERE key = ?", TokenKey).Scan(&blob, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query token: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := r.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(blob), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token: %w", err)
	}

	return &token, nil
}

// Clear removes the stored token. Clearing an empty store is a no-op.
func (r *CredentialRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM credentials WHERE key = ?", TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
