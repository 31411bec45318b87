// Package cache is a TTL store for raw CRM responses, backed by the embedded
// database. It holds fetched inputs only, never computed scores.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/artefactventures/artefact-mcp/infrastructure/database/sqlite"
)

const responsesTable = "crm_responses"

type ResponseCache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, payload []byte, ttl time.Duration) error
	PurgeExpired() (int64, error)
}

type responseCache struct {
	conn *sqlite.Connection
	now  func() time.Time
}

func NewResponseCache(conn *sqlite.Connection) (ResponseCache, error) {
	return newResponseCache(conn, time.Now)
}

func newResponseCache(conn *sqlite.Connection, now func() time.Time) (*responseCache, error) {
	_, err := conn.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			cache_key  TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		)`, responsesTable))
	if err != nil {
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &responseCache{conn: conn, now: now}, nil
}

func (c *responseCache) Get(key string) ([]byte, bool, error) {
	query, args, err := squirrel.
		Select("payload", "expires_at").
		From(responsesTable).
		Where(squirrel.Eq{"cache_key": key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("building cache query: %w", err)
	}

	var payload []byte
	var expiresAt int64
	if err := c.conn.QueryRow(query, args...).Scan(&payload, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	if c.now().Unix() >= expiresAt {
		c.delete(key)
		return nil, false, nil
	}
	return payload, true, nil
}

func (c *responseCache) Set(key string, payload []byte, ttl time.Duration) error {
	expiresAt := c.now().Add(ttl).Unix()

	query, args, err := squirrel.
		Insert(responsesTable).
		Columns("cache_key", "payload", "expires_at").
		Values(key, payload, expiresAt).
		Suffix("ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building cache upsert: %w", err)
	}

	if _, err := c.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

func (c *responseCache) PurgeExpired() (int64, error) {
	query, args, err := squirrel.
		Delete(responsesTable).
		Where(squirrel.LtOrEq{"expires_at": c.now().Unix()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building cache purge: %w", err)
	}

	result, err := c.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return result.RowsAffected()
}

func (c *responseCache) delete(key string) {
	query, args, err := squirrel.
		Delete(responsesTable).
		Where(squirrel.Eq{"cache_key": key}).
		ToSql()
	if err != nil {
		return
	}
	_, _ = c.conn.Exec(query, args...)
}
