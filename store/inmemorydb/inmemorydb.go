// Package inmemorydb provides an in-process implementation of the leaderbot
// store.UserStatsStorer interface. Nothing is persisted; it serves tests and
// throwaway runs where losing the counters on restart is acceptable
package inmemorydb

import (
	"github.com/nooblab/leaderbot/store"
)

// InMemoryDB implements the store.UserStatsStorer interface with a plain map.
// Like all storers, it relies on the pipeline's single-worker discipline and
// adds no locking of its own
type InMemoryDB struct {
	data map[string]store.UserStats
}

// New returns a new empty InMemoryDB
func New() (imdb *InMemoryDB) {
	imdb = new(InMemoryDB)
	imdb.data = make(map[string]store.UserStats)

	return imdb
}

// Close is a no-op for the in-memory database
func (imdb *InMemoryDB) Close() (err error) {
	return nil
}

// ListUserIDs returns the ids of all users held in memory
func (imdb *InMemoryDB) ListUserIDs() (userIDs []string, err error) {
	userIDs = make([]string, 0, len(imdb.data))
	for userID := range imdb.data {
		userIDs = append(userIDs, userID)
	}

	return userIDs, nil
}

// GetUserStats returns a copy of the aggregate for userID, or
// store.ErrUserStatsNotFound if the user is absent
func (imdb *InMemoryDB) GetUserStats(userID string) (stats *store.UserStats, err error) {
	s, ok := imdb.data[userID]
	if !ok {
		return nil, store.ErrUserStatsNotFound
	}

	return &s, nil
}

// InsertUserStats stores a new aggregate document
func (imdb *InMemoryDB) InsertUserStats(stats *store.UserStats) (err error) {
	imdb.data[stats.UserID] = *stats
	return nil
}

// UpdateUserStats overwrites the existing aggregate for stats.UserID and
// returns store.ErrUserStatsNotFound if there's none
func (imdb *InMemoryDB) UpdateUserStats(stats *store.UserStats) (err error) {
	if _, ok := imdb.data[stats.UserID]; !ok {
		return store.ErrUserStatsNotFound
	}

	imdb.data[stats.UserID] = *stats
	return nil
}
