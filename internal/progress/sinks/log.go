package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/gildedpress/luxwire/internal/progress"
)

// LogSink writes each run event as a structured log line. Useful when no
// durable sink is configured, and during development.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs each event in the batch.
func (s *LogSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		fields := []zap.Field{
			zap.String("run_id", evt.RunID.String()),
			zap.String("stage", string(evt.Stage)),
		}
		if evt.Publication != "" {
			fields = append(fields, zap.String("publication", evt.Publication))
		}
		if evt.URL != "" {
			fields = append(fields, zap.String("url", evt.URL))
		}
		if evt.Stage == progress.StageSourceDone || evt.Stage == progress.StageRunDone {
			fields = append(fields,
				zap.Int("candidates", evt.Candidates),
				zap.Int("selected", evt.Selected),
				zap.Duration("dur", evt.Dur))
		}
		if evt.Score > 0 {
			fields = append(fields, zap.Float64("score", evt.Score))
		}
		if evt.Note != "" {
			fields = append(fields, zap.String("note", evt.Note))
		}
		s.logger.Info("run event", fields...)
	}
	return nil
}

// Close implements the Sink interface.
func (s *LogSink) Close(context.Context) error { return nil }
