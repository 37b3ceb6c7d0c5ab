package leaderbot

import (
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

func messageOccurrence(userID string, text string) (o Occurrence) {
	return Occurrence{Kind: messageKind, UserID: userID, Channel: "Cgeneral", Timestamp: "1569479851.000100", Message: &MessageDetails{Text: text}}
}

func TestWordAndEmojiCounts(t *testing.T) {
	tests := map[string]struct {
		text       string
		wordCount  int
		emojiCount int
	}{
		"empty":              {"", 0, 0},
		"plainWords":         {"hello world", 2, 0},
		"wordsAndEmoji":      {"hello world :smile:", 2, 1},
		"emojiOnly":          {":smile:", 0, 1},
		"manyEmojisOnly":     {" :smile:  :party-parrot: :thumbsup: ", 0, 3},
		"emojiInsideWord":    {"that was :fire:hot", 2, 1},
		"hyphenatedEmoji":    {"ship it :party-parrot:", 2, 1},
		"whitespaceOnly":     {"   ", 0, 0},
		"colonButNotAnEmoji": {"note: this matters", 3, 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ev := newEvent(messageOccurrence("Ualphonse", tc.text), map[string]bool{"Ualphonse": true}, "UbotID")

			assert.Equal(t, tc.wordCount, ev.WordCount)
			assert.Equal(t, tc.emojiCount, ev.EmojiCount)
		})
	}
}

func TestMentionExtraction(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "<@Ubernard> and <@Uclement>, meet <@Ubernard>"), map[string]bool{"Ualphonse": true, "Ubernard": true, "Uclement": true}, "UbotID")

	assert.True(t, ev.IsMention)
	assert.Equal(t, []string{"Ubernard", "Uclement"}, ev.MentionedUsers)
}

func TestMentionExcludesSelfBotAndSlackbot(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "<@Ualphonse> <@UbotID> <@USLACKBOT> <@Ubernard>"), map[string]bool{"Ualphonse": true, "Ubernard": true}, "UbotID")

	assert.True(t, ev.IsMention)
	assert.Equal(t, []string{"Ubernard"}, ev.MentionedUsers)
}

func TestNoMentionWhenOnlySelfIsMentioned(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "note to self <@Ualphonse>"), map[string]bool{"Ualphonse": true}, "UbotID")

	assert.False(t, ev.IsMention)
	assert.Empty(t, ev.MentionedUsers)
}

func TestBotInvocation(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "<@UbotID> help"), map[string]bool{"Ualphonse": true}, "UbotID")
	assert.True(t, ev.BotInvocation)

	ev = newEvent(messageOccurrence("Ualphonse", "ask <@UbotID> for help"), map[string]bool{"Ualphonse": true}, "UbotID")
	assert.False(t, ev.BotInvocation)

	// Before the bot identity is known, nothing counts as an invocation
	ev = newEvent(messageOccurrence("Ualphonse", "<@UbotID> help"), map[string]bool{"Ualphonse": true}, "")
	assert.False(t, ev.BotInvocation)
}

func TestFileClassification(t *testing.T) {
	tests := map[string]struct {
		mimetype     string
		size         int
		hasImage     bool
		hasSnippet   bool
		hasOtherFile bool
		megabytes    float64
	}{
		"image":   {"image/png", 2000000, true, false, false, 2.0},
		"snippet": {"text/plain", 512, false, true, false, 0.000512},
		"other":   {"application/pdf", 1000000, false, false, true, 1.0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			occ := messageOccurrence("Ualphonse", "here you go")
			occ.Message.File = &FileInfo{Mimetype: tc.mimetype, Size: tc.size}

			ev := newEvent(occ, map[string]bool{"Ualphonse": true}, "UbotID")

			assert.Equal(t, tc.hasImage, ev.HasImage)
			assert.Equal(t, tc.hasSnippet, ev.HasSnippet)
			assert.Equal(t, tc.hasOtherFile, ev.HasOtherFile)
			assert.InDelta(t, tc.megabytes, ev.DataMegabytes, 0.0000001)
		})
	}
}

func TestUsersToAddIncludesEveryNewReference(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "<@Ubernard> meet <@Uclement>"), map[string]bool{"Ubernard": true}, "UbotID")

	assert.Equal(t, []string{"Ualphonse", "Uclement"}, ev.UsersToAdd)
}

func TestUsersToAddEmptyWhenEveryoneIsKnown(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "hi <@Ubernard>"), map[string]bool{"Ualphonse": true, "Ubernard": true}, "UbotID")

	assert.Empty(t, ev.UsersToAdd)
}

func TestReactionClassification(t *testing.T) {
	occ := Occurrence{Kind: reactionKind, UserID: "Ualphonse", Channel: "Cgeneral", Timestamp: "1569479851.000200", Reaction: &ReactionDetails{ItemUserID: "Ubernard", EmojiName: "tada"}}

	ev := newEvent(occ, map[string]bool{"Ualphonse": true}, "UbotID")

	assert.True(t, ev.IsReaction)
	assert.Equal(t, "Ubernard", ev.ReactedToUser)
	assert.Equal(t, []string{"Ubernard"}, ev.UsersToAdd)
}

func TestReactionWithoutItemUserIsInert(t *testing.T) {
	occ := Occurrence{Kind: reactionKind, UserID: "Ualphonse", Channel: "Cgeneral", Timestamp: "1569479851.000200", Reaction: &ReactionDetails{EmojiName: "tada"}}

	ev := newEvent(occ, map[string]bool{"Ualphonse": true}, "UbotID")

	assert.False(t, ev.IsReaction)
	assert.Equal(t, "", ev.ReactedToUser)
}

func TestDropUserRemovesEveryReference(t *testing.T) {
	ev := newEvent(messageOccurrence("Ualphonse", "<@Ubernard> meet <@Uclement>"), map[string]bool{}, "UbotID")
	assert.Equal(t, []string{"Ubernard", "Uclement"}, ev.MentionedUsers)
	assert.Equal(t, []string{"Ualphonse", "Ubernard", "Uclement"}, ev.UsersToAdd)

	ev.dropUser("Ubernard")

	assert.Equal(t, []string{"Uclement"}, ev.MentionedUsers)
	assert.Equal(t, []string{"Ualphonse", "Uclement"}, ev.UsersToAdd)
}

func TestNewMessageOccurrence(t *testing.T) {
	me := &slack.MessageEvent{Msg: slack.Msg{Type: "message", User: "Ualphonse", Channel: "Cgeneral", Timestamp: "1569479851.000100", Text: "behold"}}
	me.Files = []slack.File{{Mimetype: "image/jpeg", Size: 42}}

	o := NewMessageOccurrence(me)

	assert.Equal(t, "message", o.Kind)
	assert.Equal(t, "Ualphonse", o.UserID)
	if assert.NotNil(t, o.Message) {
		assert.Equal(t, "behold", o.Message.Text)
		if assert.NotNil(t, o.Message.File) {
			assert.Equal(t, "image/jpeg", o.Message.File.Mimetype)
			assert.Equal(t, 42, o.Message.File.Size)
		}
	}
	assert.Nil(t, o.Reaction)
}

func TestNewReactionOccurrence(t *testing.T) {
	re := &slack.ReactionAddedEvent{Type: "reaction_added", User: "Ualphonse", ItemUser: "Ubernard", Reaction: "tada", EventTimestamp: "1569479851.000300"}
	re.Item.Channel = "Cgeneral"

	o := NewReactionOccurrence(re)

	assert.Equal(t, "reaction_added", o.Kind)
	assert.Equal(t, "Ualphonse", o.UserID)
	assert.Equal(t, "Cgeneral", o.Channel)
	if assert.NotNil(t, o.Reaction) {
		assert.Equal(t, "Ubernard", o.Reaction.ItemUserID)
		assert.Equal(t, "tada", o.Reaction.EmojiName)
	}
	assert.Nil(t, o.Message)
}
