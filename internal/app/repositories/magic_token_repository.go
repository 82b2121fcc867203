package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/certportal/internal/pkg/apperrors"
	"github.com/mkaya/certportal/internal/pkg/dberrors"
)

// MagicTokenRepository manages single-use portal access tokens
type MagicTokenRepository struct {
	db *pgxpool.Pool
}

// NewMagicTokenRepository creates a new MagicTokenRepository
func NewMagicTokenRepository(db *pgxpool.Pool) *MagicTokenRepository {
	return &MagicTokenRepository{db: db}
}

// InvalidateActiveByEmail marks every unused token for an email as used, so
// only the most recently requested link can ever verify. Called before each
// new token is inserted; the two statements are not atomic with respect to
// concurrent issuances, which is tolerated because verification itself is
// strictly single-use.
func (r *MagicTokenRepository) InvalidateActiveByEmail(ctx context.Context, email string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE magic_tokens SET used = true WHERE lower(email) = lower($1) AND used = false`,
		email)
	if err != nil {
		return fmt.Errorf("error invalidating active tokens: %w", err)
	}
	return nil
}

// Create stores a new access token for an email. The token column is unique;
// a collision means the 64-byte random value repeated, which indicates a
// broken entropy source rather than a retryable condition.
func (r *MagicTokenRepository) Create(ctx context.Context, email, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO magic_tokens (email, token, expires_at, used, created_at) VALUES ($1, $2, $3, false, now())`,
		email, token, expiresAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("generated token collided with an existing one: %w", err)
		}
		return fmt.Errorf("error creating magic token: %w", err)
	}
	return nil
}

// Consume validates a token and marks it used in one conditional write, so
// under concurrent verification attempts at most one can succeed. Unknown,
// already used and expired tokens all collapse into the same undifferentiated
// failure.
func (r *MagicTokenRepository) Consume(ctx context.Context, token string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `
		UPDATE magic_tokens
		SET used = true
		WHERE token = $1 AND used = false AND expires_at > now()
		RETURNING email`,
		token,
	).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrInvalidToken
		}
		return "", fmt.Errorf("error consuming magic token: %w", err)
	}
	return email, nil
}
