package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/m3rciful/supportbot/core/config"
	"github.com/m3rciful/supportbot/core/database"
)

// Postgres implements Store on a single support_kv table. Expiry is enforced
// at read time and by the conditional upsert; SetIfAbsent only takes over a
// row whose deadline has passed.
type Postgres struct {
	db *sqlx.DB
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// ConnectPostgres connects, migrates the schema, and returns the store.
func ConnectPostgres(cfg coreconfig.PostgresConfig) (*Postgres, error) {
	if err := database.RunMigrations(cfg); err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgres(db), nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetJSON decodes the live value at key into dst.
func (p *Postgres) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	var data []byte
	err := p.db.GetContext(ctx, &data,
		`SELECT value FROM support_kv
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("kv get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON writes value at key, replacing any previous record.
func (p *Postgres) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = p.db.ExecContext(ctx,
		`INSERT INTO support_kv (key, value, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, data, expiresAt(ttl),
	)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Delete removes the record at key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM support_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("kv del %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent inserts the record, or replaces a row whose expiry has passed.
// The WHERE clause on the conflict arm makes a live row win the race.
func (p *Postgres) SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO support_kv (key, value, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
		 WHERE support_kv.expires_at IS NOT NULL AND support_kv.expires_at <= now()`,
		key, data, expiresAt(ttl),
	)
	if err != nil {
		return false, fmt.Errorf("kv setnx %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("kv setnx %s: %w", key, err)
	}
	return n > 0, nil
}

func expiresAt(ttl time.Duration) sql.NullTime {
	if ttl <= 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Now().Add(ttl), Valid: true}
}
