// Package localdb provides a leveldb-backed implementation of the leaderbot
// store.UserStatsStorer interface. It keeps the aggregate documents as
// json-encoded values keyed by user id and exists so the bot can run without
// a mongodb instance (local development, small installs)
package localdb

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/nooblab/leaderbot/store"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
)

// LevelDB holds a named datastore and its leveldb instance
type LevelDB struct {
	Name     string
	database *leveldb.DB
}

// New instantiates and opens a new LevelDB instance backed by a leveldb
// database at storagePath. If the leveldb database doesn't exist, one is created
func New(name string, storagePath string) (ldb *LevelDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(path, name)
	db, err := leveldb.OpenFile(fullPath, nil)

	if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
		return nil, errors.Wrap(err, fmt.Sprintf("leveldb corrupted. Consider deleting [%s] and restarting if you don't mind losing data", fullPath))
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to open file with path [%s]", fullPath))
	}

	return &LevelDB{name, db}, nil
}

// Close closes the LevelDB
func (ldb *LevelDB) Close() (err error) {
	return ldb.database.Close()
}

// ListUserIDs returns all user ids present in the database
func (ldb *LevelDB) ListUserIDs() (userIDs []string, err error) {
	userIDs = make([]string, 0)

	iter := ldb.database.NewIterator(nil, nil)
	for iter.Next() {
		userIDs = append(userIDs, string(iter.Key()))
	}

	iter.Release()
	return userIDs, iter.Error()
}

// GetUserStats returns the aggregate for userID, or store.ErrUserStatsNotFound
// if there's no entry for that user
func (ldb *LevelDB) GetUserStats(userID string) (stats *store.UserStats, err error) {
	data, err := ldb.database.Get([]byte(userID), nil)
	if err == leveldb.ErrNotFound {
		return nil, store.ErrUserStatsNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to get stats for user [%s]", userID))
	}

	stats = new(store.UserStats)
	if err = json.Unmarshal(data, stats); err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to decode stats for user [%s]", userID))
	}

	return stats, nil
}

// InsertUserStats inserts a new aggregate document
func (ldb *LevelDB) InsertUserStats(stats *store.UserStats) (err error) {
	return ldb.put(stats)
}

// UpdateUserStats overwrites the existing aggregate document for stats.UserID
func (ldb *LevelDB) UpdateUserStats(stats *store.UserStats) (err error) {
	if _, err = ldb.database.Get([]byte(stats.UserID), nil); err == leveldb.ErrNotFound {
		return store.ErrUserStatsNotFound
	} else if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to update stats for user [%s]", stats.UserID))
	}

	return ldb.put(stats)
}

func (ldb *LevelDB) put(stats *store.UserStats) (err error) {
	data, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("failed to encode stats for user [%s]", stats.UserID))
	}

	return ldb.database.Put([]byte(stats.UserID), data, nil)
}
