// Package capture provides test captors recording interactions with the
// messaging capabilities
package capture

import (
	"fmt"

	"github.com/slack-go/slack"
)

// SentMessage holds the details of one captured SendMessage invocation
type SentMessage struct {
	ChannelID  string
	MsgOptions []slack.MsgOption
}

// SenderCaptor captures messages sent to it via SendMessage
type SenderCaptor struct {
	SentMessages []SentMessage
	timeCursor   uint64
}

// NewSender returns a new initialized SenderCaptor instance
func NewSender() (s *SenderCaptor) {
	s = new(SenderCaptor)
	s.SentMessages = make([]SentMessage, 0)

	return s
}

// SendMessage captures the details of a sent message and fabricates a
// plausible response
func (s *SenderCaptor) SendMessage(channelID string, options ...slack.MsgOption) (rChannelID string, rTimestamp string, rText string, err error) {
	s.SentMessages = append(s.SentMessages, SentMessage{ChannelID: channelID, MsgOptions: options})

	return channelID, s.nextTimestamp(), fmt.Sprintf("Message on %s", channelID), nil
}

func (s *SenderCaptor) nextTimestamp() (fmtTime string) {
	s.timeCursor = s.timeCursor + 10
	return fmt.Sprintf("%d.000", s.timeCursor)
}
