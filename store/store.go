// Package store defines the per-user aggregate document and the narrow
// document-store interface the event pipeline persists through
package store

import (
	"time"

	"github.com/pkg/errors"
)

// ErrUserStatsNotFound is returned when no aggregate document exists for a user
var ErrUserStatsNotFound = errors.New("user stats not found")

// UserStats is the per-user aggregate document. Counters only ever grow and
// are mutated exclusively by the pipeline's single worker through a
// read-modify-write cycle. AvgWords is derived and kept equal to
// Words / Posts on every message update
type UserStats struct {
	UserID      string    `bson:"user_id" json:"user_id"`
	RealName    string    `bson:"real_name" json:"real_name"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Updated     time.Time `bson:"updated" json:"updated"`

	Posts      int     `bson:"posts" json:"posts"`
	Words      int     `bson:"words" json:"words"`
	AvgWords   float64 `bson:"avg_words" json:"avg_words"`
	Images     int     `bson:"images" json:"images"`
	Snippets   int     `bson:"snippets" json:"snippets"`
	Files      int     `bson:"files" json:"files"`
	TotalData  float64 `bson:"total_data" json:"total_data"`
	BotCalls   int     `bson:"bot_calls" json:"bot_calls"`
	Mentions   int     `bson:"mentions" json:"mentions"`
	Mentioned  int     `bson:"mentioned" json:"mentioned"`
	EmojisUsed int     `bson:"emojis_used" json:"emojis_used"`

	// ReactionsTo counts reactions the user gave, ReactionsFrom the ones received
	ReactionsTo   int `bson:"reactions_to" json:"reactions_to"`
	ReactionsFrom int `bson:"reactions_from" json:"reactions_from"`
}

// NewUserStats returns the zero-valued aggregate shell inserted when a user
// is seen for the first time
func NewUserStats(userID string, realName string, displayName string) (stats *UserStats) {
	stats = new(UserStats)
	stats.UserID = userID
	stats.RealName = realName
	stats.DisplayName = displayName
	stats.Updated = time.Now().UTC()

	return stats
}

// UserStatsStorer is implemented by document stores holding the per-user
// aggregate collection. The pipeline only ever needs these operations: a
// projection of all known user ids, a lookup by user id, the insert of a
// bootstrap shell and a full counter update keyed on the user id.
//
// Implementations don't need to be safe for concurrent writers: exactly one
// pipeline worker performs the read-modify-write cycles
type UserStatsStorer interface {
	// ListUserIDs returns the ids of all users with an aggregate document
	ListUserIDs() (userIDs []string, err error)

	// GetUserStats returns the aggregate for userID, or ErrUserStatsNotFound
	// if the user has no document yet
	GetUserStats(userID string) (stats *UserStats, err error)

	// InsertUserStats inserts a new aggregate document
	InsertUserStats(stats *UserStats) (err error)

	// UpdateUserStats writes the full set of counters for stats.UserID over
	// the existing document
	UpdateUserStats(stats *UserStats) (err error)

	// Close releases the underlying store resources
	Close() (err error)
}
