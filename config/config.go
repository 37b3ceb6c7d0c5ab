// Package config provides the leaderbot configuration keys along with their default values
package config

import (
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	// TokenKey holds the slack bot token, string value
	TokenKey = "token"

	// DebugKey enables debug logging, bool value. Defaults to false
	DebugKey = "debug"

	// MongoURIKey holds the mongodb connection string, string value. When empty,
	// the bot falls back to a local leveldb-backed store
	MongoURIKey = "mongoUri"

	// DatabaseKey holds the name of the mongodb database for the aggregate collection, string value
	DatabaseKey = "database"

	// CollectionKey holds the name of the aggregate collection, string value
	CollectionKey = "collection"

	// StoragePathKey holds the directory for the local store used when no mongodb is configured, string value
	StoragePathKey = "storagePath"

	// UserInfoCacheSizeKey holds the number of entries to keep in the user info cache, int value. Defaults to no caching
	UserInfoCacheSizeKey = "userInfoCacheSize"

	// QueuePollIntervalKey holds the idle polling interval of the event worker, duration value
	QueuePollIntervalKey = "queuePollInterval"

	// StoreTimeoutKey holds the per-call timeout applied to document store operations, duration value
	StoreTimeoutKey = "storeTimeout"
)

const (
	userInfoCacheSizeDefaultValue = 0
	debugDefaultValue             = false
	databaseDefaultValue          = "leaderbot"
	collectionDefaultValue        = "leaderboard"
	storagePathDefaultValue       = "~/.leaderbot"
	queuePollIntervalDefaultValue = "1s"
	storeTimeoutDefaultValue      = "10s"
)

// NewViperWithDefaults creates a new viper instance with all leaderbot defaults set
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	v.SetDefault(DebugKey, debugDefaultValue)
	v.SetDefault(DatabaseKey, databaseDefaultValue)
	v.SetDefault(CollectionKey, collectionDefaultValue)
	v.SetDefault(StoragePathKey, storagePathDefaultValue)
	v.SetDefault(UserInfoCacheSizeKey, userInfoCacheSizeDefaultValue)
	v.SetDefault(QueuePollIntervalKey, queuePollIntervalDefaultValue)
	v.SetDefault(StoreTimeoutKey, storeTimeoutDefaultValue)

	return v
}

// GetQueuePollInterval returns the configured worker idle polling interval, falling
// back to the default value if the configured one can't be parsed as a duration
func GetQueuePollInterval(v *viper.Viper) (interval time.Duration) {
	interval, err := cast.ToDurationE(v.GetString(QueuePollIntervalKey))
	if err != nil {
		return cast.ToDuration(queuePollIntervalDefaultValue)
	}

	return interval
}

// GetStoreTimeout returns the configured per-call document store timeout, falling
// back to the default value if the configured one can't be parsed as a duration
func GetStoreTimeout(v *viper.Viper) (timeout time.Duration) {
	timeout, err := cast.ToDurationE(v.GetString(StoreTimeoutKey))
	if err != nil {
		return cast.ToDuration(storeTimeoutDefaultValue)
	}

	return timeout
}
