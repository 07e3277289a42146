package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (s *captureSink) Consume(_ context.Context, batch []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, batch...)
	return nil
}

func (s *captureSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func validEvent(stage Stage) Event {
	return Event{
		RunID:       uuid.New(),
		TS:          time.Now().UTC(),
		Stage:       stage,
		Publication: "Professional Jeweller",
		URL:         "https://example.com/a",
	}
}

func TestHubDeliversAndCloses(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(Config{MaxBatchEvents: 2}, sink)

	hub.Emit(validEvent(StageRunStart))
	hub.Emit(validEvent(StageSourceStart))
	hub.Emit(validEvent(StageSourceDone))

	require.NoError(t, hub.Close(context.Background()))
	got := sink.snapshot()
	assert.Len(t, got, 3)
	assert.True(t, sink.closed)
	assert.Zero(t, hub.Dropped())
}

func TestHubDiscardsInvalidEvents(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(Config{}, sink)

	hub.Emit(Event{Stage: StageRunStart}) // no run id or timestamp
	require.NoError(t, hub.Close(context.Background()))
	assert.Empty(t, sink.snapshot())
}

func TestHubEmitAfterCloseIsNoop(t *testing.T) {
	sink := &captureSink{}
	hub := NewHub(Config{}, sink)
	require.NoError(t, hub.Close(context.Background()))

	hub.Emit(validEvent(StageRunStart))
	assert.Empty(t, sink.snapshot())
}

func TestEventValidate(t *testing.T) {
	base := validEvent(StageSourceDone)

	missing := base
	missing.Publication = ""
	assert.Error(t, missing.Validate())

	article := validEvent(StageArticleKept)
	assert.NoError(t, article.Validate())
	article.URL = ""
	assert.Error(t, article.Validate())

	bogus := base
	bogus.Stage = "WAT"
	assert.Error(t, bogus.Validate())
}
