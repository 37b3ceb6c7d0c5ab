package store

// DO NOT EDIT!
// This code is generated with http://github.com/hexdigest/gowrap tool
// using opentelemetry.template template

//go:generate gowrap gen -p github.com/nooblab/leaderbot/store -i UserStatsStorer -t opentelemetry.template -o storermetrics.go

import (
	"context"
	"time"
	"unicode"

	"go.opentelemetry.io/otel/label"
	"go.opentelemetry.io/otel/metric"
)

// UserStatsStorerWithTelemetry implements UserStatsStorer interface with all methods wrapped
// with open telemetry metrics
type UserStatsStorerWithTelemetry struct {
	base                     UserStatsStorer
	methodCounters           map[string]metric.BoundInt64Counter
	errCounters              map[string]metric.BoundInt64Counter
	methodTimeValueRecorders map[string]metric.BoundInt64ValueRecorder
}

// NewUserStatsStorerWithTelemetry returns an instance of the UserStatsStorer decorated with open telemetry timing and count metrics
func NewUserStatsStorerWithTelemetry(base UserStatsStorer, name string, meter metric.Meter) UserStatsStorerWithTelemetry {
	return UserStatsStorerWithTelemetry{
		base:                     base,
		methodCounters:           newUserStatsStorerMethodCounters("Calls", name, meter),
		errCounters:              newUserStatsStorerMethodCounters("Errors", name, meter),
		methodTimeValueRecorders: newUserStatsStorerMethodTimeValueRecorders(name, meter),
	}
}

func newUserStatsStorerMethodTimeValueRecorders(appName string, meter metric.Meter) (boundTimeValueRecorders map[string]metric.BoundInt64ValueRecorder) {
	boundTimeValueRecorders = make(map[string]metric.BoundInt64ValueRecorder)
	mt := metric.Must(meter)

	nCloseValRecorder := []rune("UserStatsStorer_Close_ProcessingTimeMillis")
	nCloseValRecorder[0] = unicode.ToLower(nCloseValRecorder[0])
	mClose := mt.NewInt64ValueRecorder(string(nCloseValRecorder))
	boundTimeValueRecorders["Close"] = mClose.Bind(label.String("name", appName))

	nGetUserStatsValRecorder := []rune("UserStatsStorer_GetUserStats_ProcessingTimeMillis")
	nGetUserStatsValRecorder[0] = unicode.ToLower(nGetUserStatsValRecorder[0])
	mGetUserStats := mt.NewInt64ValueRecorder(string(nGetUserStatsValRecorder))
	boundTimeValueRecorders["GetUserStats"] = mGetUserStats.Bind(label.String("name", appName))

	nInsertUserStatsValRecorder := []rune("UserStatsStorer_InsertUserStats_ProcessingTimeMillis")
	nInsertUserStatsValRecorder[0] = unicode.ToLower(nInsertUserStatsValRecorder[0])
	mInsertUserStats := mt.NewInt64ValueRecorder(string(nInsertUserStatsValRecorder))
	boundTimeValueRecorders["InsertUserStats"] = mInsertUserStats.Bind(label.String("name", appName))

	nListUserIDsValRecorder := []rune("UserStatsStorer_ListUserIDs_ProcessingTimeMillis")
	nListUserIDsValRecorder[0] = unicode.ToLower(nListUserIDsValRecorder[0])
	mListUserIDs := mt.NewInt64ValueRecorder(string(nListUserIDsValRecorder))
	boundTimeValueRecorders["ListUserIDs"] = mListUserIDs.Bind(label.String("name", appName))

	nUpdateUserStatsValRecorder := []rune("UserStatsStorer_UpdateUserStats_ProcessingTimeMillis")
	nUpdateUserStatsValRecorder[0] = unicode.ToLower(nUpdateUserStatsValRecorder[0])
	mUpdateUserStats := mt.NewInt64ValueRecorder(string(nUpdateUserStatsValRecorder))
	boundTimeValueRecorders["UpdateUserStats"] = mUpdateUserStats.Bind(label.String("name", appName))

	return boundTimeValueRecorders
}

func newUserStatsStorerMethodCounters(suffix string, appName string, meter metric.Meter) (boundCounters map[string]metric.BoundInt64Counter) {
	boundCounters = make(map[string]metric.BoundInt64Counter)
	mt := metric.Must(meter)

	nCloseCounter := []rune("UserStatsStorer_Close_" + suffix)
	nCloseCounter[0] = unicode.ToLower(nCloseCounter[0])
	cClose := mt.NewInt64Counter(string(nCloseCounter))
	boundCounters["Close"] = cClose.Bind(label.String("name", appName))

	nGetUserStatsCounter := []rune("UserStatsStorer_GetUserStats_" + suffix)
	nGetUserStatsCounter[0] = unicode.ToLower(nGetUserStatsCounter[0])
	cGetUserStats := mt.NewInt64Counter(string(nGetUserStatsCounter))
	boundCounters["GetUserStats"] = cGetUserStats.Bind(label.String("name", appName))

	nInsertUserStatsCounter := []rune("UserStatsStorer_InsertUserStats_" + suffix)
	nInsertUserStatsCounter[0] = unicode.ToLower(nInsertUserStatsCounter[0])
	cInsertUserStats := mt.NewInt64Counter(string(nInsertUserStatsCounter))
	boundCounters["InsertUserStats"] = cInsertUserStats.Bind(label.String("name", appName))

	nListUserIDsCounter := []rune("UserStatsStorer_ListUserIDs_" + suffix)
	nListUserIDsCounter[0] = unicode.ToLower(nListUserIDsCounter[0])
	cListUserIDs := mt.NewInt64Counter(string(nListUserIDsCounter))
	boundCounters["ListUserIDs"] = cListUserIDs.Bind(label.String("name", appName))

	nUpdateUserStatsCounter := []rune("UserStatsStorer_UpdateUserStats_" + suffix)
	nUpdateUserStatsCounter[0] = unicode.ToLower(nUpdateUserStatsCounter[0])
	cUpdateUserStats := mt.NewInt64Counter(string(nUpdateUserStatsCounter))
	boundCounters["UpdateUserStats"] = cUpdateUserStats.Bind(label.String("name", appName))

	return boundCounters
}

// Close implements UserStatsStorer
func (_d UserStatsStorerWithTelemetry) Close() (err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["Close"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["Close"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["Close"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.Close()
}

// GetUserStats implements UserStatsStorer
func (_d UserStatsStorerWithTelemetry) GetUserStats(userID string) (stats *UserStats, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["GetUserStats"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["GetUserStats"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["GetUserStats"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.GetUserStats(userID)
}

// InsertUserStats implements UserStatsStorer
func (_d UserStatsStorerWithTelemetry) InsertUserStats(stats *UserStats) (err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["InsertUserStats"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["InsertUserStats"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["InsertUserStats"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.InsertUserStats(stats)
}

// ListUserIDs implements UserStatsStorer
func (_d UserStatsStorerWithTelemetry) ListUserIDs() (userIDs []string, err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["ListUserIDs"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["ListUserIDs"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["ListUserIDs"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.ListUserIDs()
}

// UpdateUserStats implements UserStatsStorer
func (_d UserStatsStorerWithTelemetry) UpdateUserStats(stats *UserStats) (err error) {
	_since := time.Now()
	defer func() {
		if err != nil {
			errCounter := _d.errCounters["UpdateUserStats"]
			errCounter.Add(context.Background(), 1)
		}

		methodCounter := _d.methodCounters["UpdateUserStats"]
		methodCounter.Add(context.Background(), 1)

		methodTimeMeasure := _d.methodTimeValueRecorders["UpdateUserStats"]
		methodTimeMeasure.Record(context.Background(), time.Since(_since).Milliseconds())
	}()
	return _d.base.UpdateUserStats(stats)
}
