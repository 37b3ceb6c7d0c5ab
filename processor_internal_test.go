package leaderbot

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nooblab/leaderbot/config"
	"github.com/nooblab/leaderbot/store"
	"github.com/nooblab/leaderbot/store/inmemorydb"
	"github.com/nooblab/leaderbot/store/mocks"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel/metric"
)

// fakeUserInfoFinder resolves any user except the ones listed in failFor
type fakeUserInfoFinder struct {
	failFor map[string]bool
}

func (f *fakeUserInfoFinder) GetUserInfo(userID string) (user *slack.User, err error) {
	if f.failFor[userID] {
		return nil, fmt.Errorf("user_not_found")
	}

	return &slack.User{ID: userID, RealName: "Real " + userID, Profile: slack.UserProfile{DisplayName: "display " + userID}}, nil
}

func newTestProcessor(storer store.UserStatsStorer, failFor ...string) (ep *EventProcessor) {
	v := config.NewViperWithDefaults()
	v.Set(config.QueuePollIntervalKey, "10ms")

	failing := make(map[string]bool)
	for _, userID := range failFor {
		failing[userID] = true
	}

	var logBuilder strings.Builder
	logger := NewSLogger(log.New(&logBuilder, "", 0), false)

	ep = NewEventProcessor(v, storer, &fakeUserInfoFinder{failFor: failing}, logger, metric.Meter{})
	ep.SetBotUserID("UbotID")

	return ep
}

func mustGetStats(t *testing.T, storer store.UserStatsStorer, userID string) (stats *store.UserStats) {
	stats, err := storer.GetUserStats(userID)
	if !assert.Nil(t, err, "expected stats for user [%s]", userID) {
		t.FailNow()
	}

	return stats
}

func TestFirstMessageBootstrapsUserAndCounts(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	ep.processOccurrence(messageOccurrence("Ualphonse", "hello there :wave:"))

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, "Real Ualphonse", stats.RealName)
	assert.Equal(t, "display Ualphonse", stats.DisplayName)
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 2, stats.Words)
	assert.Equal(t, 2.0, stats.AvgWords)
	assert.Equal(t, 1, stats.EmojisUsed)
}

func TestAverageWordsOverSeveralMessages(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	ep.processOccurrence(messageOccurrence("Ualphonse", "one"))
	ep.processOccurrence(messageOccurrence("Ualphonse", "two words"))
	ep.processOccurrence(messageOccurrence("Ualphonse", "now three words"))

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 3, stats.Posts)
	assert.Equal(t, 6, stats.Words)
	assert.Equal(t, 2.0, stats.AvgWords)
}

func TestFileMessageCounts(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	occ := messageOccurrence("Ualphonse", "")
	occ.Message.File = &FileInfo{Mimetype: "image/png", Size: 3000000}
	ep.processOccurrence(occ)

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 0, stats.Words)
	assert.Equal(t, 1, stats.Images)
	assert.Equal(t, 0, stats.Snippets)
	assert.Equal(t, 0, stats.Files)
	assert.InDelta(t, 3.0, stats.TotalData, 0.0000001)
}

func TestBotInvocationCounts(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	ep.processOccurrence(messageOccurrence("Ualphonse", "<@UbotID> do the thing"))

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 1, stats.BotCalls)
	// The bot mention itself isn't a user mention
	assert.Equal(t, 0, stats.Mentions)
}

func TestReactionCreditsBothSides(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	occ := Occurrence{Kind: reactionKind, UserID: "Ualphonse", Channel: "Cgeneral", Timestamp: "1569479851.000200", Reaction: &ReactionDetails{ItemUserID: "Ubernard", EmojiName: "tada"}}
	ep.processOccurrence(occ)

	reactor := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 1, reactor.ReactionsTo)
	assert.Equal(t, 0, reactor.ReactionsFrom)
	assert.Equal(t, 0, reactor.Posts)

	author := mustGetStats(t, db, "Ubernard")
	assert.Equal(t, 0, author.ReactionsTo)
	assert.Equal(t, 1, author.ReactionsFrom)
}

func TestMentionCountsOncePerMessage(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	ep.processOccurrence(messageOccurrence("Ualphonse", "<@Ubernard> and <@Uclement>, ship it"))

	author := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 1, author.Mentions)
	assert.Equal(t, 0, author.Mentioned)

	assert.Equal(t, 1, mustGetStats(t, db, "Ubernard").Mentioned)
	assert.Equal(t, 1, mustGetStats(t, db, "Uclement").Mentioned)
}

func TestUnresolvedMentionIsDroppedOthersStillCount(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db, "Ughost12")

	ep.processOccurrence(messageOccurrence("Ualphonse", "<@Ughost12> and <@Ubernard>, hello"))

	// The unresolved user never gets a document
	_, err := db.GetUserStats("Ughost12")
	assert.Equal(t, store.ErrUserStatsNotFound, err)

	author := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 1, author.Mentions)
	assert.Equal(t, 1, author.Posts)

	assert.Equal(t, 1, mustGetStats(t, db, "Ubernard").Mentioned)
}

func TestUnresolvedAuthorStillCreditsMentionedUsers(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db, "Ughost12")

	ep.processOccurrence(messageOccurrence("Ughost12", "hi <@Ubernard>"))

	_, err := db.GetUserStats("Ughost12")
	assert.Equal(t, store.ErrUserStatsNotFound, err)

	assert.Equal(t, 1, mustGetStats(t, db, "Ubernard").Mentioned)
}

func TestReplayedOccurrenceDoublesCounters(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	occ := messageOccurrence("Ualphonse", "same message twice")
	ep.processOccurrence(occ)
	ep.processOccurrence(occ)

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 2, stats.Posts)
	assert.Equal(t, 6, stats.Words)
}

func TestListUsersFailureSkipsOccurrence(t *testing.T) {
	storer := &mocks.UserStatsStorer{}
	storer.On("ListUserIDs").Return([]string{}, fmt.Errorf("store is down"))

	ep := newTestProcessor(storer)

	ep.processOccurrence(messageOccurrence("Ualphonse", "hello"))

	storer.AssertNotCalled(t, "InsertUserStats", mock.Anything)
	storer.AssertNotCalled(t, "UpdateUserStats", mock.Anything)
}

func TestWriteFailureIsAbandonedNotRetried(t *testing.T) {
	storer := &mocks.UserStatsStorer{}
	storer.On("ListUserIDs").Return([]string{"Ualphonse"}, nil)
	storer.On("GetUserStats", "Ualphonse").Return(store.NewUserStats("Ualphonse", "Real Ualphonse", "display Ualphonse"), nil)
	storer.On("UpdateUserStats", mock.Anything).Return(fmt.Errorf("write failed"))

	ep := newTestProcessor(storer)

	ep.processOccurrence(messageOccurrence("Ualphonse", "hello"))

	storer.AssertNumberOfCalls(t, "UpdateUserStats", 1)
}

func TestShellInsertFailureDropsOnlyThatUser(t *testing.T) {
	storer := &mocks.UserStatsStorer{}
	storer.On("ListUserIDs").Return([]string{"Ualphonse"}, nil)
	storer.On("InsertUserStats", mock.MatchedBy(func(stats *store.UserStats) bool { return stats.UserID == "Ubernard" })).Return(fmt.Errorf("insert failed"))
	storer.On("InsertUserStats", mock.MatchedBy(func(stats *store.UserStats) bool { return stats.UserID == "Uclement" })).Return(nil)
	storer.On("GetUserStats", mock.Anything).Return(store.NewUserStats("Ualphonse", "", ""), nil)
	storer.On("UpdateUserStats", mock.Anything).Return(nil)

	ep := newTestProcessor(storer)

	ep.processOccurrence(messageOccurrence("Ualphonse", "<@Ubernard> meet <@Uclement>"))

	storer.AssertNumberOfCalls(t, "InsertUserStats", 2)
	// Author message counts, author mention count and Uclement's mentioned
	// count still get written
	storer.AssertNumberOfCalls(t, "UpdateUserStats", 3)
}

func TestEnqueueDropsUnhandledOccurrences(t *testing.T) {
	ep := newTestProcessor(inmemorydb.New())

	ep.Enqueue(Occurrence{Kind: "channel_joined", UserID: "Ualphonse"})
	ep.Enqueue(Occurrence{Kind: messageKind, SubType: "channel_topic", UserID: "Ualphonse", Message: &MessageDetails{Text: "new topic"}})
	ep.Enqueue(Occurrence{Kind: messageKind, Message: &MessageDetails{Text: "no author"}})

	assert.Empty(t, ep.queue)

	ep.Enqueue(messageOccurrence("Ualphonse", "hello"))
	assert.Len(t, ep.queue, 1)
}

func TestEnqueuePreservesArrivalOrder(t *testing.T) {
	ep := newTestProcessor(inmemorydb.New())

	ep.Enqueue(messageOccurrence("Ualphonse", "first"))
	ep.Enqueue(messageOccurrence("Ubernard", "second"))

	occ, ok := ep.dequeue()
	assert.True(t, ok)
	assert.Equal(t, "Ualphonse", occ.UserID)

	occ, ok = ep.dequeue()
	assert.True(t, ok)
	assert.Equal(t, "Ubernard", occ.UserID)

	_, ok = ep.dequeue()
	assert.False(t, ok)
}

// lockedStorer makes an inmemorydb safe to inspect while the worker goroutine
// writes to it
type lockedStorer struct {
	mu sync.Mutex
	db *inmemorydb.InMemoryDB
}

func (ls *lockedStorer) ListUserIDs() (userIDs []string, err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.db.ListUserIDs()
}

func (ls *lockedStorer) GetUserStats(userID string) (stats *store.UserStats, err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.db.GetUserStats(userID)
}

func (ls *lockedStorer) InsertUserStats(stats *store.UserStats) (err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.db.InsertUserStats(stats)
}

func (ls *lockedStorer) UpdateUserStats(stats *store.UserStats) (err error) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.db.UpdateUserStats(stats)
}

func (ls *lockedStorer) Close() (err error) {
	return ls.db.Close()
}

func TestWorkerDrainsQueueInBackground(t *testing.T) {
	db := &lockedStorer{db: inmemorydb.New()}
	ep := newTestProcessor(db)

	ep.Start()
	defer ep.Close()

	ep.Enqueue(messageOccurrence("Ualphonse", "hello there"))
	ep.Enqueue(messageOccurrence("Ualphonse", "hello again"))

	assert.Eventually(t, func() bool {
		stats, err := db.GetUserStats("Ualphonse")
		return err == nil && stats.Posts == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestInertReactionBootstrapsActorWithoutCounters(t *testing.T) {
	db := inmemorydb.New()
	ep := newTestProcessor(db)

	occ := Occurrence{Kind: reactionKind, UserID: "Ualphonse", Channel: "Cgeneral", Timestamp: "1569479851.000200", Reaction: &ReactionDetails{EmojiName: "tada"}}
	ep.processOccurrence(occ)

	stats := mustGetStats(t, db, "Ualphonse")
	assert.Equal(t, 0, stats.Posts)
	assert.Equal(t, 0, stats.ReactionsTo)
	assert.Equal(t, 0, stats.ReactionsFrom)
	assert.Equal(t, 0, stats.Mentioned)
}

func TestBotIdentityUpdateWhileWorkerDrains(t *testing.T) {
	db := &lockedStorer{db: inmemorydb.New()}
	ep := newTestProcessor(db)

	ep.Start()
	defer ep.Close()

	// Reconnections reset the bot identity while the worker is mid-drain
	updated := make(chan struct{})
	go func() {
		defer close(updated)
		for i := 0; i < 100; i++ {
			ep.SetBotUserID("UbotID")
		}
	}()

	for i := 0; i < 20; i++ {
		ep.Enqueue(messageOccurrence("Ualphonse", "hello there"))
	}

	<-updated
	assert.Eventually(t, func() bool {
		stats, err := db.GetUserStats("Ualphonse")
		return err == nil && stats.Posts == 20
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseTerminatesWorker(t *testing.T) {
	ep := newTestProcessor(inmemorydb.New())

	ep.Start()
	assert.Nil(t, ep.Close())

	select {
	case <-ep.terminated:
	default:
		t.Fatal("worker still running after Close")
	}
}
