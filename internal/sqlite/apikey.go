package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/spectator/internal/repository"
)

// APIKeyRepository stores hashed API keys for authenticated writes
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create generates a new key for name and returns the plain token. Only
// its hash is stored.
func (r *APIKeyRepository) Create(ctx context.Context, name string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	token := "spk_" + hex.EncodeToString(buf)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, name, created_at) VALUES (?, ?, ?)`,
		HashToken(token), name, time.Now(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store api key: %w", mapWriteError(err))
	}
	return token, nil
}

// Resolve returns the key name for token and records its use.
func (r *APIKeyRepository) Resolve(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM api_keys WHERE key_hash = ?`, hash).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return name, nil
}

// HashToken returns the stored form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
