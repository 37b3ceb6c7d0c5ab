package leaderbot

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nooblab/leaderbot/config"
	"github.com/nooblab/leaderbot/store"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
)

// Leaderbot ties the slack transport to the analytics pipeline: it feeds
// incoming messages and reactions to the EventProcessor's queue and routes
// chatter (thanks directed at the bot) to the ChatterBox
type Leaderbot struct {
	name   string
	config *viper.Viper
	api    *slack.Client
	log    *log.Logger
	logger SLogger
	meter  metric.Meter

	processor *EventProcessor
	chatter   *ChatterBox

	selfID   string
	selfName string
}

// Option defines an option for a Leaderbot
type Option func(b *Leaderbot)

// OptionLog sets the logger the bot writes to
func OptionLog(logger *log.Logger) Option {
	return func(b *Leaderbot) {
		b.log = logger
	}
}

// OptionWithMeter sets the opentelemetry meter used for the pipeline and
// store metrics. Without it, metrics are no-ops
func OptionWithMeter(meter metric.Meter) Option {
	return func(b *Leaderbot) {
		b.meter = meter
	}
}

// New creates a new Leaderbot with the given name, configuration and
// aggregate storer
func New(name string, v *viper.Viper, storer store.UserStatsStorer, options ...Option) (bot *Leaderbot, err error) {
	bot = new(Leaderbot)
	bot.name = name
	bot.config = v
	bot.log = log.New(os.Stdout, name+": ", log.Lshortfile|log.LstdFlags)

	for _, opt := range options {
		opt(bot)
	}

	bot.logger = NewSLogger(bot.log, v.GetBool(config.DebugKey))
	bot.api = slack.New(
		v.GetString(config.TokenKey),
		slack.OptionDebug(v.GetBool(config.DebugKey)),
		slack.OptionLog(log.New(os.Stdout, "slack: ", log.Lshortfile|log.LstdFlags)),
	)

	cachingUserInfoFinder, err := NewCachingUserInfoFinder(v, bot.api, bot.logger)
	if err != nil {
		return nil, err
	}
	userInfoFinder := NewUserInfoFinderWithTelemetry(cachingUserInfoFinder, name, bot.meter)

	instrumentedStorer := store.NewUserStatsStorerWithTelemetry(storer, name, bot.meter)
	bot.processor = NewEventProcessor(v, instrumentedStorer, userInfoFinder, bot.logger, bot.meter)
	bot.chatter = NewChatterBox(bot.api, bot.api, bot.api, bot.api, bot.logger)

	return bot, nil
}

// Run connects to slack and loops over incoming events until the process is
// interrupted or the connection terminates. Messages and reactions are
// enqueued for the pipeline; everything else is ignored
func (b *Leaderbot) Run() (err error) {
	rtm := b.api.NewRTM()
	go rtm.ManageConnection()

	b.processor.Start()
	defer b.processor.Close()

	go b.watchForTerminationSignalToAbort(rtm)

	for msg := range rtm.IncomingEvents {
		switch e := msg.Data.(type) {
		case *slack.ConnectedEvent:
			b.logger.Printf("Connected (connection count: %d)\n", e.ConnectionCount)
			b.cacheSelfIdentity(rtm)

		case *slack.MessageEvent:
			b.processMessageEvent(e)

		case *slack.ReactionAddedEvent:
			b.processor.Enqueue(NewReactionOccurrence(e))

		case *slack.LatencyReport:
			b.logger.Debugf("Current latency: %v\n", e.Value)

		case *slack.RTMError:
			b.logger.Printf("Error: %s\n", e.Error())

		case *slack.InvalidAuthEvent:
			b.logger.Printf("Invalid credentials")
			return nil

		default:
			// Ignoring other event types
		}
	}

	return nil
}

// processMessageEvent enqueues a message for aggregation and routes it to the
// ChatterBox when it thanks the bot
func (b *Leaderbot) processMessageEvent(e *slack.MessageEvent) {
	// reply_to is set by slack when one of our own sent messages is
	// acknowledged so there's nothing to process
	if e.ReplyTo > 0 {
		return
	}

	b.processor.Enqueue(NewMessageOccurrence(e))

	if e.User != b.selfID && b.chatter.IsChatter(&e.Msg) {
		b.chatter.ProcessChatter(&e.Msg)
	}
}

// cacheSelfIdentity gets "our" identity and keeps the selfID and selfName to
// avoid having to look it up every time. The pipeline and the chatter both
// need to know who the bot is
func (b *Leaderbot) cacheSelfIdentity(rtm *slack.RTM) {
	b.selfID = rtm.GetInfo().User.ID
	b.selfName = rtm.GetInfo().User.Name

	b.logger.Debugf("Caching self id [%s] and self name [%s]\n", b.selfID, b.selfName)

	b.processor.SetBotUserID(b.selfID)
	b.chatter.SetBotUserID(b.selfID)
}

// watchForTerminationSignalToAbort waits for a SIGTERM or SIGINT and closes the rtm's IncomingEvents channel to finish
// the main Run() loop and terminate cleanly. Note that this is meant to run in a go routine given that this is blocking
func (b *Leaderbot) watchForTerminationSignalToAbort(rtm *slack.RTM) {
	tSignals := make(chan os.Signal, 1)
	// Register to be notified of termination signals so we can abort
	signal.Notify(tSignals, syscall.SIGINT, syscall.SIGTERM)
	sig := <-tSignals

	b.logger.Debugf("Received termination signal [%s], closing RTM's incoming events channel to terminate processing\n", sig)
	close(rtm.IncomingEvents)
}
