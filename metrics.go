package leaderbot

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/label"
	"go.opentelemetry.io/otel/metric"
)

// failure kinds tracked by the pipeline instrumenter. The pipeline swallows
// errors, so these counters are the only way to notice creeping data loss
const (
	userResolveFailure = "userResolve"
	storeReadFailure   = "storeRead"
	storeWriteFailure  = "storeWrite"
)

type instrumenter struct {
	metrics pipelineMetrics
}

type pipelineMetrics struct {
	occurrencesSeen      metric.BoundInt64Counter
	occurrencesDropped   metric.BoundInt64Counter
	occurrencesProcessed map[string]metric.BoundInt64Counter
	processingFailures   map[string]metric.BoundInt64Counter
	processingTimeMillis metric.BoundInt64ValueRecorder
}

func newInstrumenter(appName string, meter metric.Meter) (ins *instrumenter) {
	ins = new(instrumenter)
	mt := metric.Must(meter)

	defaultLabels := []label.KeyValue{label.String("name", appName)}

	seen := mt.NewInt64Counter("occurrenceSeen")
	dropped := mt.NewInt64Counter("occurrenceDropped")
	processingTime := mt.NewInt64ValueRecorder("occurrenceProcessingTimeMillis")

	ins.metrics = pipelineMetrics{
		occurrencesSeen:      seen.Bind(defaultLabels...),
		occurrencesDropped:   dropped.Bind(defaultLabels...),
		occurrencesProcessed: newBoundCounterByKind("occurrenceProcessed", appName, meter, messageKind, reactionKind),
		processingFailures:   newBoundCounterByKind("processingFailure", appName, meter, userResolveFailure, storeReadFailure, storeWriteFailure),
		processingTimeMillis: processingTime.Bind(defaultLabels...),
	}

	return ins
}

func newBoundCounterByKind(counterName string, appName string, meter metric.Meter, kinds ...string) (boundCounters map[string]metric.BoundInt64Counter) {
	boundCounters = make(map[string]metric.BoundInt64Counter)
	mt := metric.Must(meter)

	c := mt.NewInt64Counter(counterName)
	for _, kind := range kinds {
		boundCounters[kind] = c.Bind(label.String("name", appName), label.String("kind", kind))
	}

	return boundCounters
}

// countFailure increments the failure counter for the given kind
func (ins *instrumenter) countFailure(kind string) {
	if c, ok := ins.metrics.processingFailures[kind]; ok {
		c.Add(context.Background(), 1)
	}
}

// countProcessed increments the processed counter for the occurrence kind and
// records the time processing took
func (ins *instrumenter) countProcessed(kind string, d time.Duration) {
	if c, ok := ins.metrics.occurrencesProcessed[kind]; ok {
		c.Add(context.Background(), 1)
	}

	ins.metrics.processingTimeMillis.Record(context.Background(), d.Milliseconds())
}
