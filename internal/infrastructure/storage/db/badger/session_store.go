package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	sessionDbDir = "session"
	gcInterval   = 30 * time.Minute
	gcDiscard    = 0.5
)

type sessionEntry struct {
	Key   string
	Value string
}

type sessionStore struct {
	store *badgerhold.Store
	quit  chan struct{}
}

// NewSessionStore opens (or creates if not exists) the session store under
// the given base directory. The store is kept in memory if baseDbDir is empty.
func NewSessionStore(
	baseDbDir string, logger badger.Logger,
) (ports.SessionStore, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, sessionDbDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	s := &sessionStore{store, make(chan struct{})}
	if len(dbDir) > 0 {
		go s.runValueLogGC()
	}
	return s, nil
}

func (s *sessionStore) Get(
	_ context.Context, key string,
) (string, bool, error) {
	var entry sessionEntry
	if err := s.store.Get(key, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *sessionStore) Set(_ context.Context, key, value string) error {
	return s.store.Upsert(key, &sessionEntry{key, value})
}

// SetAll upserts all the given entries within the same transaction.
func (s *sessionStore) SetAll(
	_ context.Context, entries map[string]string,
) error {
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		for key, value := range entries {
			if err := s.store.TxUpsert(
				tx, key, &sessionEntry{key, value},
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes all the given keys within the same transaction.
func (s *sessionStore) Remove(_ context.Context, keys ...string) error {
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		for _, key := range keys {
			if err := s.store.TxDelete(
				tx, key, sessionEntry{},
			); err != nil && err != badgerhold.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

func (s *sessionStore) Close() {
	close(s.quit)
	s.store.Close()
}

func (s *sessionStore) runValueLogGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			if err := s.store.Badger().RunValueLogGC(gcDiscard); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
