package worker

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/logger"
)

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*eventstream.SamplesGeneratedEvent
	err    error
	block  chan struct{}
}

func (r *recordingPublisher) PublishSamples(_ context.Context, event *eventstream.SamplesGeneratedEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) published() []*eventstream.SamplesGeneratedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*eventstream.SamplesGeneratedEvent(nil), r.events...)
}

func newEvent(path string) *eventstream.SamplesGeneratedEvent {
	return eventstream.NewEvent(eventstream.EventSource{Path: path, Grammar: "blankline"}, 2, nil)
}

var _ = Describe("Worker Pool", func() {
	var (
		wp  *Pool
		pub *recordingPublisher
	)

	BeforeEach(func() {
		pub = &recordingPublisher{}

		var err error
		wp, err = NewPool(&Config{
			Publisher: pub,
			Logger:    logger.Nop(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		wp.Close()
	})

	Describe("NewPool", func() {
		It("requires a publisher", func() {
			_, err := NewPool(&Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("publisher is required")))
		})

		It("requires a logger", func() {
			_, err := NewPool(&Config{Publisher: pub})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("applies defaults", func() {
			Expect(wp.config.NumWorkers).To(Equal(defaultNumWorkers))
			Expect(wp.config.QueueSize).To(Equal(defaultJobQueueSize))
			Expect(wp.config.JobTimeout).To(Equal(defaultJobTimeout))
			wp.Close()
		})
	})

	Describe("Enqueue", func() {
		It("returns true when the queue has capacity", func() {
			Expect(wp.Enqueue(Job{Event: newEvent("a.ppt")})).To(BeTrue())
			wp.Close()
		})

		It("rejects nil events", func() {
			Expect(wp.Enqueue(Job{})).To(BeFalse())
			wp.Close()
		})

		It("publishes every enqueued event before Close returns", func() {
			for _, p := range []string{"a.ppt", "b.ppt", "c.ppt"} {
				Expect(wp.Enqueue(Job{Event: newEvent(p)})).To(BeTrue())
			}

			// Drain the worker pool to ensure publishing completes before assertions
			wp.Close()

			paths := []string{}
			for _, e := range pub.published() {
				paths = append(paths, e.Source.Path)
			}
			Expect(paths).To(ConsistOf("a.ppt", "b.ppt", "c.ppt"))
		})

		It("drops jobs once closed", func() {
			wp.Close()
			Expect(wp.Enqueue(Job{Event: newEvent("late.ppt")})).To(BeFalse())
		})

		It("drops jobs when the queue is full", func() {
			blocked := &recordingPublisher{block: make(chan struct{})}
			small, err := NewPool(&Config{
				Publisher:  blocked,
				NumWorkers: 1,
				QueueSize:  1,
				Logger:     logger.Nop(),
			})
			Expect(err).NotTo(HaveOccurred())

			// The first job occupies the worker, the second fills the queue.
			Expect(small.Enqueue(Job{Event: newEvent("1")})).To(BeTrue())
			Eventually(func() int { return len(small.queue) }).Should(Equal(0))
			Expect(small.Enqueue(Job{Event: newEvent("2")})).To(BeTrue())
			Expect(small.Enqueue(Job{Event: newEvent("3")})).To(BeFalse())

			close(blocked.block)
			small.Close()
			Expect(blocked.published()).To(HaveLen(2))
		})
	})

	Describe("publish failures", func() {
		It("are logged and do not stop the pool", func() {
			failing := &recordingPublisher{err: errors.New("broker down")}
			p, err := NewPool(&Config{Publisher: failing, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			Expect(p.Enqueue(Job{Event: newEvent("a.ppt")})).To(BeTrue())
			Expect(p.Enqueue(Job{Event: newEvent("b.ppt")})).To(BeTrue())
			p.Close()

			Expect(failing.published()).To(BeEmpty())
		})
	})

	It("can be closed twice", func() {
		wp.Close()
		wp.Close()
	})
})
