package eventstream

import "context"

// Publisher publishes sample events to an event stream backend.
type Publisher interface {
	PublishSamples(ctx context.Context, event *SamplesGeneratedEvent) error
	Close() error
}
