package sinks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gildedpress/luxwire/internal/progress"
)

// SourceState is the per-publication view inside a run snapshot.
type SourceState struct {
	Publication string    `json:"publication"`
	Status      string    `json:"status"`
	Candidates  int       `json:"candidates"`
	Selected    int       `json:"selected"`
	Error       string    `json:"error,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RunSnapshot is the aggregated state of one collection run.
type RunSnapshot struct {
	RunID      uuid.UUID     `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Running    bool          `json:"running"`
	Selected   int           `json:"selected"`
	Sources    []SourceState `json:"sources"`
}

// SnapshotSink folds events into in-memory run snapshots for the status API.
// It retains only the most recent runs.
type SnapshotSink struct {
	mu     sync.RWMutex
	runs   map[uuid.UUID]*runState
	order  []uuid.UUID
	retain int
}

type runState struct {
	snap    RunSnapshot
	sources map[string]*SourceState
}

// NewSnapshotSink retains up to `retain` runs (default 16).
func NewSnapshotSink(retain int) *SnapshotSink {
	if retain <= 0 {
		retain = 16
	}
	return &SnapshotSink{runs: make(map[uuid.UUID]*runState), retain: retain}
}

// Consume applies the batch to the snapshots.
func (s *SnapshotSink) Consume(_ context.Context, batch []progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		rs := s.run(evt.RunID)
		switch evt.Stage {
		case progress.StageRunStart:
			rs.snap.StartedAt = evt.TS
			rs.snap.Running = true
		case progress.StageRunDone:
			rs.snap.FinishedAt = evt.TS
			rs.snap.Running = false
			rs.snap.Selected = evt.Selected
		case progress.StageSourceStart:
			st := rs.source(evt.Publication)
			st.Status = "running"
			st.UpdatedAt = evt.TS
		case progress.StageSourceDone:
			st := rs.source(evt.Publication)
			st.Status = "done"
			st.Candidates = evt.Candidates
			st.Selected = evt.Selected
			st.UpdatedAt = evt.TS
		case progress.StageSourceError:
			st := rs.source(evt.Publication)
			st.Status = "error"
			st.Error = evt.Note
			st.UpdatedAt = evt.TS
		case progress.StageArticleKept:
			// Selection counts land on SOURCE_DONE; nothing to fold here.
		}
	}
	return nil
}

// Close implements the Sink interface.
func (s *SnapshotSink) Close(context.Context) error { return nil }

// Snapshot returns the state of one run.
func (s *SnapshotSink) Snapshot(runID uuid.UUID) (RunSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.runs[runID]
	if !ok {
		return RunSnapshot{}, false
	}
	return rs.view(), true
}

// Latest returns the most recently started run.
func (s *SnapshotSink) Latest() (RunSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.order) == 0 {
		return RunSnapshot{}, false
	}
	return s.runs[s.order[len(s.order)-1]].view(), true
}

func (s *SnapshotSink) run(id uuid.UUID) *runState {
	if rs, ok := s.runs[id]; ok {
		return rs
	}
	rs := &runState{
		snap:    RunSnapshot{RunID: id},
		sources: make(map[string]*SourceState),
	}
	s.runs[id] = rs
	s.order = append(s.order, id)
	if len(s.order) > s.retain {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return rs
}

func (rs *runState) source(publication string) *SourceState {
	if st, ok := rs.sources[publication]; ok {
		return st
	}
	st := &SourceState{Publication: publication, Status: "pending"}
	rs.sources[publication] = st
	return st
}

// view materializes a copy safe to hand to HTTP handlers.
func (rs *runState) view() RunSnapshot {
	out := rs.snap
	out.Sources = make([]SourceState, 0, len(rs.sources))
	for _, st := range rs.sources {
		out.Sources = append(out.Sources, *st)
	}
	sort.Slice(out.Sources, func(i, j int) bool {
		return out.Sources[i].Publication < out.Sources[j].Publication
	})
	return out
}
