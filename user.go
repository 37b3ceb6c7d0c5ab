package leaderbot

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nooblab/leaderbot/config"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// UserInfoFinder defines the interface for finding a slack user's info
type UserInfoFinder interface {
	GetUserInfo(userID string) (user *slack.User, err error)
}

// cachingUserInfoFinder holds a cache and a loading UserInfoFinder to implement the UserInfoFinder loading entries from cache
type cachingUserInfoFinder struct {
	loader           UserInfoFinder
	logger           SLogger
	userProfileCache *lru.ARCCache
}

// NewCachingUserInfoFinder creates a new user info service with caching if enabled via config.UserInfoCacheSizeKey. It requires an implementation
// of the interface that will do the actual loading when not in cache
func NewCachingUserInfoFinder(v *viper.Viper, loader UserInfoFinder, logger SLogger) (uf UserInfoFinder, err error) {
	cuf := new(cachingUserInfoFinder)

	// 0 disables caching; negative sizes are rejected by the cache itself
	cs := v.GetInt(config.UserInfoCacheSizeKey)

	if cs != 0 {
		cuf.userProfileCache, err = lru.NewARC(cs)
		if err != nil {
			return nil, err
		}
	}

	cuf.loader = loader
	cuf.logger = logger

	return cuf, nil
}

// GetUserInfo gets the user info or returns an error and a nil user if not found or
// an error occurred during retrieval
func (c cachingUserInfoFinder) GetUserInfo(userID string) (u *slack.User, err error) {
	if c.userProfileCache == nil {
		c.logger.Debugf("Cache disabled, loading user info for [%s] from slack instead\n", userID)

		u, err := c.loader.GetUserInfo(userID)
		if err != nil {
			return nil, err
		}

		return u, nil
	}

	if userProfile, exists := c.userProfileCache.Get(userID); exists {
		c.logger.Debugf("User info in cache [%s] so using that\n", userID)

		userProfile, ok := userProfile.(slack.User)
		if !ok {
			return nil, fmt.Errorf("Error converting cached value for user id [%s]", userID)
		}

		return &userProfile, nil
	}

	c.logger.Debugf("User info for [%s] not found in cache, retrieving from slack and saving\n", userID)

	u, err = c.loader.GetUserInfo(userID)
	if err != nil {
		return nil, err
	}

	c.userProfileCache.Add(userID, *u)

	return u, nil
}

// userNames resolves the real and display names for userID. A lookup failure
// (bot accounts, deleted users) surfaces as an error that the caller converts
// to dropping the user reference
func userNames(finder UserInfoFinder, userID string) (realName string, displayName string, err error) {
	u, err := finder.GetUserInfo(userID)
	if err != nil {
		return "", "", err
	}

	return u.RealName, u.Profile.DisplayName, nil
}
