package leaderbot

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"github.com/slack-go/slack"
)

// thanksHistoryDepth is how many recent channel messages are inspected to
// decide how to answer a thank you
const thanksHistoryDepth = 20

// redactedThanksText replaces a user's thank you once they've been told to
// stop often enough
const redactedThanksText = "_This thank you has been redacted._"

// reply pools, escalating with the number of prior thanks found in the
// recent channel history
var puzzledReplies = []string{
	"Did I help you with something? I don't recall, ",
	"For what?  I don't remember, ",
	"I don't see that I helped you.  Try a fun command, ",
}

var welcomeReplies = []string{
	"You're welcome, ",
	"Of course, ",
	"No, thank YOU, ",
	"No problem, ",
	"Anytime, ",
	"My pleasure, ",
	"I live to serve, ",
	"Don't mention it, ",
	"Happy to help, ",
	"De nada, ",
	"No worries, ",
}

var doubleThanksReplies = []string{
	"Thanking me twice?  I feel special, ",
	"No need to keep thanking me, ",
	"You're welcome x2, ",
}

var stopThankingReplies = []string{
	"You're welcome.  You can stop now, ",
	"Again huh?  Sure thing, ",
	"That is probably adequate thanking, ",
}

var lastWarningReplies = []string{
	"Seriously, stop thanking me, ",
	"I think that is good enough, ",
	"You're welcome.  Again.  You can stop now, ",
}

// ChatterBox answers users thanking the bot. It looks back at the recent
// channel history to pick an escalating canned reply: puzzlement when the
// user never actually asked the bot anything, a polite you're welcome for a
// first thanks, and increasingly insistent answers after that, ending with
// the thanking message being overwritten.
//
// It is self-contained and independent of the aggregation pipeline: its only
// dependencies are the narrow messaging capabilities it answers through
type ChatterBox struct {
	botUserID    string
	botMention   string
	thanksRegexp *regexp.Regexp

	sender    messageSender
	updater   messageUpdater
	reactor   EmojiReactor
	historian channelHistorian
	logger    SLogger
}

// NewChatterBox creates a new ChatterBox answering through the given
// capabilities. SetBotUserID must be called before it can match anything
func NewChatterBox(sender messageSender, updater messageUpdater, reactor EmojiReactor, historian channelHistorian, logger SLogger) (cb *ChatterBox) {
	cb = new(ChatterBox)
	cb.sender = sender
	cb.updater = updater
	cb.reactor = reactor
	cb.historian = historian
	cb.logger = logger

	return cb
}

// SetBotUserID sets the bot's own user id and compiles the thanks matcher
// for it. The matcher accepts a thank you before or after the bot mention,
// anywhere in the message
func (cb *ChatterBox) SetBotUserID(botUserID string) {
	cb.botUserID = botUserID
	cb.botMention = fmt.Sprintf("<@%s>", botUserID)
	cb.thanksRegexp = regexp.MustCompile(fmt.Sprintf(
		`(?i)^.*?(?:<@%s>[\W\w]*?\sthanks?(?:\syou)?|thanks?(?:\syou)?[\W\w]*?\s<@%s>).*?$`, botUserID, botUserID))
}

// IsChatter returns true when the message is chatter the ChatterBox handles
// (currently, a thank you directed at the bot)
func (cb *ChatterBox) IsChatter(m *slack.Msg) bool {
	return cb.thanksRegexp != nil && cb.thanksRegexp.MatchString(m.Text)
}

// ProcessChatter handles a message previously identified as chatter
func (cb *ChatterBox) ProcessChatter(m *slack.Msg) {
	if cb.IsChatter(m) {
		cb.wasThanked(m)
	}
}

// wasThanked inspects the channel history preceding the thank you and
// answers accordingly
func (cb *ChatterBox) wasThanked(m *slack.Msg) {
	history, err := cb.historian.GetConversationHistory(&slack.GetConversationHistoryParameters{
		ChannelID: m.Channel,
		Latest:    m.Timestamp,
		Limit:     thanksHistoryDepth,
	})
	if err != nil {
		cb.logger.Printf("Error fetching history for channel [%s], not answering thanks: %v\n", m.Channel, err)
		return
	}

	botRequests := 0
	priorThanks := 0
	for _, hm := range history.Messages {
		if hm.SubType != "" {
			continue
		}

		if strings.HasPrefix(hm.Text, cb.botMention+" ") {
			botRequests++
		}

		if cb.thanksRegexp.MatchString(hm.Text) {
			priorThanks++
		}
	}

	cb.sayYoureWelcome(m, botRequests, priorThanks)
}

// sayYoureWelcome picks the reply matching the escalation level. A user that
// never issued a bot request gets a puzzled answer; repeated thanks walk
// through the reply pools until the thank you itself gets redacted
func (cb *ChatterBox) sayYoureWelcome(m *slack.Msg, botRequests int, priorThanks int) {
	if botRequests == 0 {
		cb.reply(m, puzzledReplies)
		cb.react(m, "question")
		return
	}

	switch {
	case priorThanks == 0:
		cb.reply(m, welcomeReplies)
		cb.react(m, "thumbsup")
	case priorThanks == 1:
		cb.reply(m, doubleThanksReplies)
		cb.react(m, "astonished")
	case priorThanks == 2:
		cb.reply(m, stopThankingReplies)
	case priorThanks == 3:
		cb.reply(m, lastWarningReplies)
	default:
		if _, _, _, err := cb.updater.UpdateMessage(m.Channel, m.Timestamp, slack.MsgOptionText(redactedThanksText, false)); err != nil {
			cb.logger.Printf("Error redacting thanks at [%s/%s]: %v\n", m.Channel, m.Timestamp, err)
		}
	}
}

// reply posts a random message from the pool, addressed to the thanking user
func (cb *ChatterBox) reply(m *slack.Msg, pool []string) {
	text := fmt.Sprintf("%s<@%s>.", pool[rand.Intn(len(pool))], m.User)

	if _, _, _, err := cb.sender.SendMessage(m.Channel, slack.MsgOptionText(text, false)); err != nil {
		cb.logger.Printf("Error answering thanks on channel [%s]: %v\n", m.Channel, err)
	}
}

// react adds an emoji reaction to the thanking message
func (cb *ChatterBox) react(m *slack.Msg, emojiName string) {
	if err := cb.reactor.AddReaction(emojiName, slack.NewRefToMessage(m.Channel, m.Timestamp)); err != nil {
		cb.logger.Printf("Error reacting to thanks at [%s/%s]: %v\n", m.Channel, m.Timestamp, err)
	}
}
