// Package iocache provides a persistent Badger v4 key-value store for
// caching parsed genus lookups between runs. The cache lives at
// ~/.cache/gndesc/parsed/ and lets a restart skip reparsing the
// scientific names of the whole corpus.
package iocache

import (
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/gnames/gndesc/internal/iocorpus"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnsys"
)

// genusData is the cached result of parsing one scientific name.
// An empty Genus means the name did not parse; caching that outcome
// too avoids reparsing hopeless names on every start.
type genusData struct {
	Genus string
}

// CacheManager manages the Badger store behind the iocorpus.GenusCache
// contract.
type CacheManager struct {
	dir string
	db  *badger.DB
}

var _ iocorpus.GenusCache = (*CacheManager)(nil)

// NewCacheManager creates a cache manager at the specified directory,
// creating the directory if needed, and opens the store.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	cm := &CacheManager{dir: cacheDir}

	err := gnsys.MakeDir(cacheDir)
	if err != nil {
		slog.Error("Cannot create cache directory",
			"error", err, "dir", cacheDir)
		return nil, err
	}

	options := badger.DefaultOptions(cacheDir)
	options.Logger = nil // Disable badger's internal logging

	db, err := badger.Open(options)
	if err != nil {
		slog.Error("Cannot open cache database",
			"error", err, "dir", cacheDir)
		return nil, cacheOpenError(cacheDir, err)
	}
	cm.db = db

	slog.Info("Genus cache opened", "dir", cacheDir)
	return cm, nil
}

// Genus retrieves a cached genus for a scientific name. The second
// value is false when the name is not in the cache.
func (c *CacheManager) Genus(name string) (string, bool, error) {
	var valBytes []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(name))
		if err == badger.ErrKeyNotFound {
			return nil // Not an error, just not found.
		}
		if err != nil {
			return err
		}
		valBytes, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", false, cacheReadError(name, err)
	}
	if valBytes == nil {
		return "", false, nil
	}

	enc := gnfmt.GNgob{}
	var data genusData
	if err = enc.Decode(valBytes, &data); err != nil {
		return "", false, cacheReadError(name, err)
	}
	return data.Genus, true, nil
}

// SetGenus stores the genus parsed from a scientific name, encoded
// with GOB.
func (c *CacheManager) SetGenus(name, genus string) error {
	enc := gnfmt.GNgob{}
	valBytes, err := enc.Encode(genusData{Genus: genus})
	if err != nil {
		return cacheWriteError(name, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(name), valBytes)
	})
	if err != nil {
		return cacheWriteError(name, err)
	}
	return nil
}

// Close closes the Badger database.
func (c *CacheManager) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		slog.Error("Cannot close cache database", "error", err)
		return err
	}
	return nil
}
