package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"

	"github.com/hashlock-network/swapd/internal/core/domain"
	"github.com/hashlock-network/swapd/internal/core/ports"
)

const swapLedgerDir = "swapledger"

// DbManager holds the badger store backing the persistent key space of the
// swap ledger: Swap(id) records with per-key TTL and Nonce(identity)
// counters.
type DbManager struct {
	db        *badger.DB
	swapRepo  domain.SwapRepository
	nonceRepo domain.NonceRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dir string
	if len(baseDbDir) > 0 {
		dir = filepath.Join(baseDbDir, swapLedgerDir)
	}

	db, err := createDb(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening swap ledger db: %w", err)
	}

	return &DbManager{
		db:        db,
		swapRepo:  newSwapRepositoryImpl(db),
		nonceRepo: newNonceRepositoryImpl(db),
	}, nil
}

func (d *DbManager) SwapRepository() domain.SwapRepository {
	return d.swapRepo
}

func (d *DbManager) NonceRepository() domain.NonceRepository {
	return d.nonceRepo
}

func (d *DbManager) Close() {
	// nolint:errcheck
	d.db.Close()
}

// JSONEncode is a custom JSON based encoder for badger values.
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)
	if err := en.Encode(value); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger values.
func JSONDecode(data []byte, value interface{}) error {
	de := json.NewDecoder(bytes.NewReader(data))
	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badger.DB, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badger.Open(opts)
}
