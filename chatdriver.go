package leaderbot

import (
	"github.com/slack-go/slack"
)

// messageSender is implemented by any value that has the SendMessage method.
//
// slack.Client implements this interface
type messageSender interface {
	SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}

// messageUpdater is implemented by any value that has the UpdateMessage method.
//
// slack.Client implements this interface
type messageUpdater interface {
	UpdateMessage(channelID, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error)
}

// channelHistorian is implemented by any value that has the GetConversationHistory
// method, used to look back at the most recent messages of a channel.
//
// slack.Client implements this interface
type channelHistorian interface {
	GetConversationHistory(params *slack.GetConversationHistoryParameters) (response *slack.GetConversationHistoryResponse, err error)
}
