// Package progress defines the events emitted while a collection run works
// through its sources, and the hub that fans them out to sinks.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the milestone an Event represents.
type Stage string

// Supported run stages.
const (
	StageRunStart    Stage = "RUN_START"
	StageRunDone     Stage = "RUN_DONE"
	StageSourceStart Stage = "SOURCE_START"
	StageSourceDone  Stage = "SOURCE_DONE"
	StageSourceError Stage = "SOURCE_ERROR"
	StageArticleKept Stage = "ARTICLE_KEPT"
)

// Event is a single collection-run milestone.
type Event struct {
	// RunID identifies the collection run.
	RunID uuid.UUID
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage is the milestone kind.
	Stage Stage
	// Publication scopes source and article events.
	Publication string
	// URL is set on article events.
	URL string
	// Candidates is the candidate count for SOURCE_DONE events.
	Candidates int
	// Selected is the kept-article count for SOURCE_DONE and RUN_DONE.
	Selected int
	// Score carries the relevance score on article events.
	Score float64
	// Dur is the elapsed time for DONE events.
	Dur time.Duration
	// Note carries low-volume context such as error text.
	Note string
}

// Validate rejects events a sink could not attribute.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageSourceStart, StageSourceDone, StageSourceError:
		if e.Publication == "" {
			return fmt.Errorf("%s requires a publication", e.Stage)
		}
	case StageArticleKept:
		if e.Publication == "" || e.URL == "" {
			return errors.New("article events require publication and url")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}
