package leaderbot

import (
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

const (
	// messageKind is the occurrence kind for a posted message
	messageKind = "message"
	// reactionKind is the occurrence kind for an emoji reaction added to a message
	reactionKind = "reaction_added"
)

// slackbotUserID is slack's system pseudo-user. It never accumulates stats and
// is excluded from mentions
const slackbotUserID = "USLACKBOT"

var userMentionRegexp = regexp.MustCompile(`<@(\w{6,12})>`)
var emojiRegexp = regexp.MustCompile(`:[\w-]+:`)
var emojiOnlyRegexp = regexp.MustCompile(`^(\s*:[\w-]+:\s*)*$`)

// FileInfo holds the declared media type and size of a message's first attached file
type FileInfo struct {
	Mimetype string
	Size     int
}

// MessageDetails holds the fields only valid for a message occurrence
type MessageDetails struct {
	Text string
	File *FileInfo
}

// ReactionDetails holds the fields only valid for a reaction occurrence
type ReactionDetails struct {
	// ItemUserID is the author of the message that was reacted to
	ItemUserID string
	EmojiName  string
}

// Occurrence is one raw inbound chat event, normalized at the ingress boundary.
// It is a tagged variant: exactly one of Message or Reaction is set according
// to Kind. Occurrences are immutable once enqueued
type Occurrence struct {
	Kind      string
	SubType   string
	UserID    string
	Channel   string
	Timestamp string

	Message  *MessageDetails
	Reaction *ReactionDetails
}

// NewMessageOccurrence normalizes a slack message event into an Occurrence
func NewMessageOccurrence(e *slack.MessageEvent) (o Occurrence) {
	o = Occurrence{Kind: messageKind, SubType: e.SubType, UserID: e.User, Channel: e.Channel, Timestamp: e.Timestamp}

	md := MessageDetails{Text: e.Text}
	if len(e.Files) > 0 {
		md.File = &FileInfo{Mimetype: e.Files[0].Mimetype, Size: e.Files[0].Size}
	}

	o.Message = &md
	return o
}

// NewReactionOccurrence normalizes a slack reaction_added event into an Occurrence
func NewReactionOccurrence(e *slack.ReactionAddedEvent) (o Occurrence) {
	o = Occurrence{Kind: reactionKind, UserID: e.User, Channel: e.Item.Channel, Timestamp: e.EventTimestamp}
	o.Reaction = &ReactionDetails{ItemUserID: e.ItemUser, EmojiName: e.Reaction}

	return o
}

// Event is the classified and enriched form of one Occurrence. It holds only
// the derived facts the aggregation step needs and is discarded once the
// counter updates for its occurrence have been applied
type Event struct {
	// UserID is the acting user
	UserID string

	// IsReaction is set when the occurrence is an emoji reaction naming a reacted-to user
	IsReaction    bool
	ReactedToUser string

	// IsMention is set when the message text mentions at least one other user
	IsMention      bool
	MentionedUsers []string

	// UsersToAdd holds the users referenced by this occurrence that aren't
	// known to the aggregate store yet
	UsersToAdd []string

	// Message-derived metrics, only meaningful when IsReaction is false
	EmojiCount    int
	WordCount     int
	HasImage      bool
	HasSnippet    bool
	HasOtherFile  bool
	DataMegabytes float64
	BotInvocation bool
}

// newEvent classifies an occurrence against the snapshot of known users and
// the bot's own identity. It computes which referenced users are new but
// performs no writes.
//
// A reaction that doesn't name a reacted-to author yields an inert event: the
// actor is still reported in UsersToAdd (and gets a bootstrap shell) but no
// counter applies
func newEvent(occ Occurrence, knownUsers map[string]bool, botUserID string) (e *Event) {
	e = new(Event)
	e.UserID = occ.UserID
	e.addUserIfNew(occ.UserID, knownUsers)

	if occ.Kind == reactionKind {
		if occ.Reaction != nil && occ.Reaction.ItemUserID != "" {
			e.IsReaction = true
			e.ReactedToUser = occ.Reaction.ItemUserID
			e.addUserIfNew(e.ReactedToUser, knownUsers)
		}

		return e
	}

	if occ.Message != nil {
		e.MentionedUsers = extractMentions(occ.Message.Text, occ.UserID, botUserID)
		if len(e.MentionedUsers) > 0 {
			e.IsMention = true
			for _, u := range e.MentionedUsers {
				e.addUserIfNew(u, knownUsers)
			}
		}

		e.enrichMessage(occ.Message, botUserID)
	}

	return e
}

// addUserIfNew adds userID to UsersToAdd when it's not in the known user set
// and not already slated for addition
func (e *Event) addUserIfNew(userID string, knownUsers map[string]bool) {
	if knownUsers[userID] {
		return
	}

	for _, u := range e.UsersToAdd {
		if u == userID {
			return
		}
	}

	e.UsersToAdd = append(e.UsersToAdd, userID)
}

// enrichMessage derives the message metrics: emoji and word counts, the
// classification of the first attached file and whether the message invokes
// the bot. The word count is the whitespace token count minus the emoji
// shortcode count so that emoji-only messages count zero words
func (e *Event) enrichMessage(md *MessageDetails, botUserID string) {
	e.EmojiCount = len(emojiRegexp.FindAllString(md.Text, -1))

	if md.Text != "" && !emojiOnlyRegexp.MatchString(md.Text) {
		e.WordCount = len(strings.Fields(md.Text)) - e.EmojiCount
		if e.WordCount < 0 {
			e.WordCount = 0
		}
	}

	if md.File != nil {
		switch {
		case strings.HasPrefix(md.File.Mimetype, "image"):
			e.HasImage = true
		case strings.HasPrefix(md.File.Mimetype, "text"):
			e.HasSnippet = true
		default:
			e.HasOtherFile = true
		}

		e.DataMegabytes = float64(md.File.Size) * 1e-6
	}

	e.BotInvocation = botUserID != "" && strings.HasPrefix(md.Text, "<@"+botUserID+">")
}

// dropUser removes every reference to userID from the event. It is invoked
// when the user's identity can't be resolved so that no aggregate write is
// attempted for it
func (e *Event) dropUser(userID string) {
	kept := e.MentionedUsers[:0]
	for _, u := range e.MentionedUsers {
		if u != userID {
			kept = append(kept, u)
		}
	}
	e.MentionedUsers = kept

	keptNew := e.UsersToAdd[:0]
	for _, u := range e.UsersToAdd {
		if u != userID {
			keptNew = append(keptNew, u)
		}
	}
	e.UsersToAdd = keptNew
}

// extractMentions returns the deduplicated user ids mentioned in text, in
// order of first appearance, excluding the acting user, the bot itself and
// the slackbot pseudo-user
func extractMentions(text string, actingUserID string, botUserID string) (mentions []string) {
	matches := userMentionRegexp.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		userID := m[1]
		if userID == actingUserID || userID == botUserID || userID == slackbotUserID || seen[userID] {
			continue
		}

		seen[userID] = true
		mentions = append(mentions, userID)
	}

	return mentions
}
