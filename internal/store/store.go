// Vantage - Passive Client Location Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vantage

// Package store persists estimation results per session in BadgerDB so the
// movement analyzer can compare a new request against the previous one.
package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vantage/internal/logging"
	"github.com/tomtom215/vantage/internal/metrics"
	"github.com/tomtom215/vantage/internal/models"
)

// Key prefixes for BadgerDB storage
const (
	latestKeyPrefix  = "session:"
	historyKeyPrefix = "history:"
)

// Config controls how the store is opened.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path     string
	InMemory bool

	// TTL expires session entries. Zero keeps them forever.
	TTL time.Duration

	// HistoryLimit caps the number of results returned by History.
	HistoryLimit int

	// GCInterval is how often the value log is compacted. Zero disables GC.
	GCInterval time.Duration
}

// DefaultConfig returns an in-memory store with a one day TTL.
func DefaultConfig() Config {
	return Config{
		InMemory:     true,
		TTL:          24 * time.Hour,
		HistoryLimit: 50,
		GCInterval:   10 * time.Minute,
	}
}

// Badger stores estimation results keyed by session ID.
type Badger struct {
	db  *badger.DB
	cfg Config
}

// Open opens (or creates) the BadgerDB described by cfg.
func Open(cfg Config) (*Badger, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("store path is required unless running in memory")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	logging.Info().
		Bool("in_memory", cfg.InMemory).
		Str("path", cfg.Path).
		Dur("ttl", cfg.TTL).
		Msg("Session store opened")

	return &Badger{db: db, cfg: cfg}, nil
}

// Close releases the database.
func (s *Badger) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is open and readable.
func (s *Badger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("session store is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Save stores result as the latest entry for its session and appends it to
// the session history. Results without a session ID are rejected.
func (s *Badger) Save(ctx context.Context, result *models.EstimationResult) (err error) {
	defer func() { metrics.RecordStoreOperation("save", err) }()

	if result == nil || result.SessionID == "" {
		return models.ErrSessionNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.SetEntry(s.entry(latestKey(result.SessionID), data)); err != nil {
			return fmt.Errorf("set latest: %w", err)
		}
		if err := txn.SetEntry(s.entry(historyKey(result.SessionID, result.TimestampMs), data)); err != nil {
			return fmt.Errorf("set history: %w", err)
		}
		return nil
	})
}

// Latest returns the most recently saved result for a session.
func (s *Badger) Latest(ctx context.Context, sessionID string) (result *models.EstimationResult, err error) {
	defer func() {
		if !errors.Is(err, models.ErrSessionNotFound) {
			metrics.RecordStoreOperation("latest", err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out models.EstimationResult
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(latestKey(sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return models.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &out)
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns up to limit results for a session, newest first.
// A limit of zero or less uses the configured HistoryLimit.
func (s *Badger) History(ctx context.Context, sessionID string, limit int) (results []models.EstimationResult, err error) {
	defer func() { metrics.RecordStoreOperation("history", err) }()

	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	prefix := []byte(historyKeyPrefix + sessionID + ":")
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration must start past the last key of the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r models.EstimationResult
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode history entry: %w", err)
			}
			results = append(results, r)
			if len(results) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, models.ErrSessionNotFound
	}
	return results, nil
}

// Delete removes every entry for a session.
func (s *Badger) Delete(ctx context.Context, sessionID string) (err error) {
	defer func() { metrics.RecordStoreOperation("delete", err) }()

	prefix := []byte(historyKeyPrefix + sessionID + ":")
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(latestKey(sessionID)); err != nil {
			return fmt.Errorf("delete latest: %w", err)
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("delete history: %w", err)
			}
		}
		return nil
	})
}

// RunGC compacts the value log once. badger.ErrNoRewrite means there was
// nothing to reclaim and is not reported as an error.
func (s *Badger) RunGC() error {
	if s.cfg.InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

func (s *Badger) entry(key, value []byte) *badger.Entry {
	e := badger.NewEntry(key, value)
	if s.cfg.TTL > 0 {
		e = e.WithTTL(s.cfg.TTL)
	}
	return e
}

func latestKey(sessionID string) []byte {
	return []byte(latestKeyPrefix + sessionID)
}

// historyKey sorts chronologically: the timestamp is big-endian so byte order
// matches numeric order.
func historyKey(sessionID string, timestampMs int64) []byte {
	key := make([]byte, 0, len(historyKeyPrefix)+len(sessionID)+9)
	key = append(key, historyKeyPrefix...)
	key = append(key, sessionID...)
	key = append(key, ':')
	return binary.BigEndian.AppendUint64(key, uint64(timestampMs))
}
