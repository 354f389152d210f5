package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/pptree/pkg/dataset"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeSamplesGenerated is emitted after preference samples are
	// generated from a PPT document.
	EventTypeSamplesGenerated = "pptree.samples.generated"
)

// SamplesGeneratedEvent is a transport-neutral event payload carrying the
// samples generated from one PPT document.
type SamplesGeneratedEvent struct {
	SchemaVersion int              `json:"schema_version"`
	EventType     string           `json:"event_type"`
	EventID       string           `json:"event_id"`
	EmittedAt     time.Time        `json:"emitted_at"`
	Source        EventSource      `json:"source"`
	TurnCount     int              `json:"turn_count"`
	Samples       []dataset.Record `json:"samples"`
}

// EventSource identifies the document the samples came from.
type EventSource struct {
	Path    string `json:"path,omitempty"`
	Grammar string `json:"grammar"`
}

// NewEvent builds a SamplesGeneratedEvent with a fresh event id.
func NewEvent(source EventSource, turnCount int, records []dataset.Record) *SamplesGeneratedEvent {
	if records == nil {
		records = []dataset.Record{}
	}

	return &SamplesGeneratedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeSamplesGenerated,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        source,
		TurnCount:     turnCount,
		Samples:       records,
	}
}
