package capture

import (
	"fmt"

	"github.com/slack-go/slack"
)

// UpdatedMessage holds the details of one captured UpdateMessage invocation
type UpdatedMessage struct {
	ChannelID  string
	Timestamp  string
	MsgOptions []slack.MsgOption
}

// UpdaterCaptor captures message updates recorded by invocations of UpdateMessage
type UpdaterCaptor struct {
	UpdatedMessages []UpdatedMessage
}

// NewUpdater returns a new initialized UpdaterCaptor instance
func NewUpdater() (u *UpdaterCaptor) {
	u = new(UpdaterCaptor)
	u.UpdatedMessages = make([]UpdatedMessage, 0)

	return u
}

// UpdateMessage captures the details of a message update
func (u *UpdaterCaptor) UpdateMessage(channelID string, timestamp string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	u.UpdatedMessages = append(u.UpdatedMessages, UpdatedMessage{ChannelID: channelID, Timestamp: timestamp, MsgOptions: options})

	return channelID, timestamp, fmt.Sprintf("Message updated on %s", channelID), nil
}
