package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteBackend implements Backend on top of pure-Go SQLite in WAL mode,
// extended with set and sorted-set tables the KV interface requires
// beyond a plain document store.
type SQLiteBackend struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) a SQLite-backed Backend. Use
// ":memory:" for an in-memory database.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv_string (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS kv_set (
		key    TEXT NOT NULL,
		member TEXT NOT NULL,
		PRIMARY KEY (key, member)
	);
	CREATE TABLE IF NOT EXISTS kv_zset (
		key    TEXT NOT NULL,
		member TEXT NOT NULL,
		score  REAL NOT NULL,
		PRIMARY KEY (key, member)
	);
	CREATE INDEX IF NOT EXISTS kv_zset_score ON kv_zset(key, score);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_string WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteBackend) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_string (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_string WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM kv_string WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteBackend) KeysByPattern(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	likePattern := strings.ReplaceAll(pattern, "*", "%")
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM kv_string WHERE key LIKE ? ORDER BY key", likePattern)
	if err != nil {
		return nil, fmt.Errorf("keys by pattern %q: %w", pattern, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// CAS implements compare-and-set as read current value, compare, write —
// serialized by the backend mutex so no other
// writer can interleave (SQLite itself has no native CAS primitive).
func (s *SQLiteBackend) CAS(ctx context.Context, key, oldValue, newValue string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_string WHERE key = ?", key).Scan(&current)
	exists := err == nil
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("cas read %q: %w", key, err)
	}

	if exists && current != oldValue {
		return false, nil
	}
	if !exists && oldValue != "" {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv_string (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, newValue)
	if err != nil {
		return false, fmt.Errorf("cas write %q: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteBackend) SAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sadd %q: %w", key, err)
	}
	defer tx.Rollback()

	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO kv_set (key, member) VALUES (?, ?)", key, m); err != nil {
			return fmt.Errorf("sadd %q member %q: %w", key, m, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteBackend) SRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("srem %q: %w", key, err)
	}
	defer tx.Rollback()

	for _, m := range members {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM kv_set WHERE key = ? AND member = ?", key, m); err != nil {
			return fmt.Errorf("srem %q member %q: %w", key, m, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteBackend) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT member FROM kv_set WHERE key = ? ORDER BY member", key)
	if err != nil {
		return nil, fmt.Errorf("smembers %q: %w", key, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteBackend) SCard(ctx context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_set WHERE key = ?", key).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("scard %q: %w", key, err)
	}
	return count, nil
}

func (s *SQLiteBackend) ZAdd(ctx context.Context, key string, score float64, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_zset (key, member, score) VALUES (?, ?, ?)
		ON CONFLICT(key, member) DO UPDATE SET score = excluded.score`, key, member, score)
	if err != nil {
		return fmt.Errorf("zadd %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) ZRem(ctx context.Context, key, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM kv_zset WHERE key = ? AND member = ?", key, member); err != nil {
		return fmt.Errorf("zrem %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteBackend) ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT member FROM kv_zset WHERE key = ? AND score >= ? AND score <= ? ORDER BY score ASC",
		key, min, max)
	if err != nil {
		return nil, fmt.Errorf("zrangebyscore %q: %w", key, err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
