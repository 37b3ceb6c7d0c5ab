// Package mocks contains a mock of the store package interfaces
package mocks

import (
	"github.com/nooblab/leaderbot/store"
	"github.com/stretchr/testify/mock"
)

// UserStatsStorer holds a mock implementing the UserStatsStorer interface
type UserStatsStorer struct {
	mock.Mock
}

// ListUserIDs mocks an implementation of ListUserIDs
func (ms *UserStatsStorer) ListUserIDs() (userIDs []string, err error) {
	args := ms.Called()

	return args.Get(0).([]string), args.Error(1)
}

// GetUserStats mocks an implementation of GetUserStats
func (ms *UserStatsStorer) GetUserStats(userID string) (stats *store.UserStats, err error) {
	args := ms.Called(userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*store.UserStats), args.Error(1)
}

// InsertUserStats mocks an implementation of InsertUserStats
func (ms *UserStatsStorer) InsertUserStats(stats *store.UserStats) (err error) {
	args := ms.Called(stats)

	return args.Error(0)
}

// UpdateUserStats mocks an implementation of UpdateUserStats
func (ms *UserStatsStorer) UpdateUserStats(stats *store.UserStats) (err error) {
	args := ms.Called(stats)

	return args.Error(0)
}

// Close mocks an implementation of Close
func (ms *UserStatsStorer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}
