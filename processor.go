package leaderbot

import (
	"context"
	"sync"
	"time"

	"github.com/nooblab/leaderbot/config"
	"github.com/nooblab/leaderbot/store"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
)

// allowedOccurrenceKinds holds the kinds of occurrences the pipeline
// aggregates. Everything else is dropped at enqueue time
var allowedOccurrenceKinds = map[string]bool{
	messageKind:  true,
	reactionKind: true,
}

// EventProcessor drains a FIFO queue of chat occurrences and accumulates
// per-user counters in the aggregate store.
//
// Exactly one worker goroutine ever applies counter updates: the
// read-modify-write cycles against the store are unsynchronized and are only
// safe because occurrences are processed strictly one at a time, in arrival
// order. Scaling to multiple workers would require per-user locking or atomic
// store-side increments along with a reworked idempotency contract.
//
// A failed update is logged, counted and abandoned; the worker moves on to
// the next occurrence rather than retrying and blocking the stream
type EventProcessor struct {
	storer         store.UserStatsStorer
	userInfoFinder UserInfoFinder
	logger         SLogger
	ins            *instrumenter
	pollInterval   time.Duration

	// mu guards the queue and the bot identity, the two fields shared with
	// the producer side
	mu        sync.Mutex
	queue     []Occurrence
	botUserID string

	done       chan struct{}
	terminated chan struct{}
}

// NewEventProcessor creates a new event processor persisting through storer
// and resolving user identities through userInfoFinder. Call Start to launch
// the worker and Close to terminate it
func NewEventProcessor(v *viper.Viper, storer store.UserStatsStorer, userInfoFinder UserInfoFinder, logger SLogger, meter metric.Meter) (ep *EventProcessor) {
	ep = new(EventProcessor)
	ep.storer = storer
	ep.userInfoFinder = userInfoFinder
	ep.logger = logger
	ep.ins = newInstrumenter("leaderbot", meter)
	ep.pollInterval = config.GetQueuePollInterval(v)
	ep.queue = make([]Occurrence, 0)
	ep.done = make(chan struct{})
	ep.terminated = make(chan struct{})

	return ep
}

// SetBotUserID sets the bot's own user id, used to detect bot invocations and
// to exclude the bot from mention counts. It is set once the chat connection
// is established and again on every reconnection, so it's safe to call while
// the worker is draining the queue
func (ep *EventProcessor) SetBotUserID(botUserID string) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.botUserID = botUserID
}

// Enqueue appends an occurrence to the processing queue. It never blocks and
// never fails: occurrences of unhandled kinds, platform-internal subtypes
// (i.e. channel_topic) and occurrences missing an acting user are silently
// dropped
func (ep *EventProcessor) Enqueue(occ Occurrence) {
	ep.ins.metrics.occurrencesSeen.Add(context.Background(), 1)

	if !allowedOccurrenceKinds[occ.Kind] || occ.SubType != "" || occ.UserID == "" {
		ep.ins.metrics.occurrencesDropped.Add(context.Background(), 1)
		ep.logger.Debugf("Dropping occurrence [kind=%s, subType=%s, user=%s]\n", occ.Kind, occ.SubType, occ.UserID)
		return
	}

	ep.mu.Lock()
	defer ep.mu.Unlock()
	ep.queue = append(ep.queue, occ)
}

// Start launches the single worker goroutine. It should be called once
func (ep *EventProcessor) Start() {
	go ep.processOccurrences()
}

// Close terminates the worker goroutine and waits for it to finish the
// occurrence in flight, if any. Queued occurrences are discarded
func (ep *EventProcessor) Close() (err error) {
	close(ep.done)
	<-ep.terminated

	return nil
}

// processOccurrences is the worker loop: it fully drains the queue, one
// occurrence at a time, then idles for the poll interval before checking again
func (ep *EventProcessor) processOccurrences() {
	defer close(ep.terminated)

	ticker := time.NewTicker(ep.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ep.done:
			return
		case <-ticker.C:
			for {
				select {
				case <-ep.done:
					return
				default:
				}

				occ, ok := ep.dequeue()
				if !ok {
					break
				}

				ep.processOccurrence(occ)
			}
		}
	}
}

// dequeue pops the oldest queued occurrence
func (ep *EventProcessor) dequeue() (occ Occurrence, ok bool) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	if len(ep.queue) == 0 {
		return occ, false
	}

	occ = ep.queue[0]
	ep.queue = ep.queue[1:]

	return occ, true
}

// processOccurrence applies the aggregate effects of one occurrence: new user
// bootstrap, then the reaction or message counters, then the mention
// counters. Each write is an independent read-modify-write so partial
// application on failure is possible and accepted
func (ep *EventProcessor) processOccurrence(occ Occurrence) {
	start := time.Now()

	knownUsers, err := ep.knownUsers()
	if err != nil {
		ep.ins.countFailure(storeReadFailure)
		ep.logger.Printf("Error listing known users, skipping occurrence from [%s]: %v\n", occ.UserID, err)
		return
	}

	ep.mu.Lock()
	botUserID := ep.botUserID
	ep.mu.Unlock()

	ev := newEvent(occ, knownUsers, botUserID)

	unresolved := ep.bootstrapNewUsers(ev)

	if ev.IsReaction {
		ep.writeReactionCounts(ev, unresolved)
	} else if occ.Message != nil {
		ep.writeMessageCounts(ev, unresolved)
	}

	if ev.IsMention {
		ep.writeMentionCounts(ev, unresolved)
	}

	ep.ins.countProcessed(occ.Kind, time.Since(start))
}

// knownUsers returns the set of user ids already present in the aggregate
// store. The snapshot is taken once per occurrence so a brand-new user only
// becomes visible to the next occurrence after its shell insert commits
func (ep *EventProcessor) knownUsers() (users map[string]bool, err error) {
	userIDs, err := ep.storer.ListUserIDs()
	if err != nil {
		return nil, err
	}

	users = make(map[string]bool, len(userIDs))
	for _, userID := range userIDs {
		users[userID] = true
	}

	return users, nil
}

// bootstrapNewUsers inserts a zero-valued aggregate shell for every newly
// seen user of the event. A user whose identity can't be resolved (bot
// accounts, deleted users) or whose shell insert fails is removed from the
// event and returned in the unresolved set: it receives no aggregate writes
// for this occurrence
func (ep *EventProcessor) bootstrapNewUsers(ev *Event) (unresolved map[string]bool) {
	unresolved = make(map[string]bool)

	for _, userID := range append([]string(nil), ev.UsersToAdd...) {
		realName, displayName, err := userNames(ep.userInfoFinder, userID)
		if err != nil {
			ep.ins.countFailure(userResolveFailure)
			ep.logger.Debugf("Can't resolve user [%s], dropping it from this occurrence: %v\n", userID, err)

			ev.dropUser(userID)
			unresolved[userID] = true
			continue
		}

		if err = ep.storer.InsertUserStats(store.NewUserStats(userID, realName, displayName)); err != nil {
			ep.ins.countFailure(storeWriteFailure)
			ep.logger.Printf("Error inserting stats shell for user [%s], dropping it from this occurrence: %v\n", userID, err)

			ev.dropUser(userID)
			unresolved[userID] = true
		}
	}

	return unresolved
}

// writeReactionCounts credits the reactor with a reaction given and the
// author of the reacted-to message with a reaction received
func (ep *EventProcessor) writeReactionCounts(ev *Event, unresolved map[string]bool) {
	if !unresolved[ev.UserID] {
		ep.updateUserStats(ev.UserID, func(stats *store.UserStats) {
			stats.ReactionsTo++
		})
	}

	if !unresolved[ev.ReactedToUser] {
		ep.updateUserStats(ev.ReactedToUser, func(stats *store.UserStats) {
			stats.ReactionsFrom++
		})
	}
}

// writeMessageCounts applies the message-derived metrics to the author's
// aggregate and recomputes the average word count
func (ep *EventProcessor) writeMessageCounts(ev *Event, unresolved map[string]bool) {
	if unresolved[ev.UserID] {
		return
	}

	ep.updateUserStats(ev.UserID, func(stats *store.UserStats) {
		stats.Posts++
		stats.Words += ev.WordCount
		stats.AvgWords = float64(stats.Words) / float64(stats.Posts)
		stats.EmojisUsed += ev.EmojiCount
		stats.TotalData += ev.DataMegabytes

		if ev.HasImage {
			stats.Images++
		}
		if ev.HasSnippet {
			stats.Snippets++
		}
		if ev.HasOtherFile {
			stats.Files++
		}
		if ev.BotInvocation {
			stats.BotCalls++
		}
	})
}

// writeMentionCounts credits the author with one mention made (regardless of
// how many users the message mentions) and each mentioned user with a
// mention received
func (ep *EventProcessor) writeMentionCounts(ev *Event, unresolved map[string]bool) {
	if !unresolved[ev.UserID] {
		ep.updateUserStats(ev.UserID, func(stats *store.UserStats) {
			stats.Mentions++
		})
	}

	for _, userID := range ev.MentionedUsers {
		ep.updateUserStats(userID, func(stats *store.UserStats) {
			stats.Mentioned++
		})
	}
}

// updateUserStats performs one read-modify-write cycle on a user's
// aggregate: read the current counters, apply the delta, write the full set
// back. On failure the update is abandoned (logged and counted, not retried)
func (ep *EventProcessor) updateUserStats(userID string, apply func(stats *store.UserStats)) {
	stats, err := ep.storer.GetUserStats(userID)
	if err != nil {
		if errors.Cause(err) == store.ErrUserStatsNotFound {
			ep.logger.Debugf("No stats for user [%s], skipping update\n", userID)
		} else {
			ep.ins.countFailure(storeReadFailure)
			ep.logger.Printf("Error reading stats for user [%s], abandoning update: %v\n", userID, err)
		}

		return
	}

	apply(stats)
	stats.Updated = time.Now().UTC()

	if err = ep.storer.UpdateUserStats(stats); err != nil {
		ep.ins.countFailure(storeWriteFailure)
		ep.logger.Printf("Error writing stats for user [%s], abandoning update: %v\n", userID, err)
	}
}
