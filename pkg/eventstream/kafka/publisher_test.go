package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/eventstream/kafka"
)

type fakeWriter struct {
	msgs     []kafkago.Message
	deadline bool
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

var _ = Describe("Publisher", func() {
	var (
		w *fakeWriter
		p *kafka.Publisher
	)

	BeforeEach(func() {
		w = &fakeWriter{}
		p = kafka.NewPublisherWithWriter(w, time.Second)
	})

	It("satisfies the eventstream.Publisher interface", func() {
		var _ eventstream.Publisher = p
	})

	It("writes the event as a JSON message keyed by source path", func() {
		event := eventstream.NewEvent(eventstream.EventSource{Path: "a.ppt", Grammar: "blankline"}, 3, nil)
		Expect(p.PublishSamples(context.Background(), event)).To(Succeed())

		Expect(w.msgs).To(HaveLen(1))
		Expect(string(w.msgs[0].Key)).To(Equal("a.ppt"))
		Expect(w.deadline).To(BeTrue())

		var got eventstream.SamplesGeneratedEvent
		Expect(json.Unmarshal(w.msgs[0].Value, &got)).To(Succeed())
		Expect(got.EventID).To(Equal(event.EventID))
		Expect(got.TurnCount).To(Equal(3))
		Expect(got.Source.Grammar).To(Equal("blankline"))
	})

	It("tags messages with the event type", func() {
		event := eventstream.NewEvent(eventstream.EventSource{}, 0, nil)
		Expect(p.PublishSamples(context.Background(), event)).To(Succeed())

		Expect(w.msgs[0].Headers).To(ContainElement(kafkago.Header{
			Key:   "event_type",
			Value: []byte(eventstream.EventTypeSamplesGenerated),
		}))
	})

	It("returns ErrNilEvent for nil events", func() {
		Expect(p.PublishSamples(context.Background(), nil)).To(MatchError(eventstream.ErrNilEvent))
		Expect(w.msgs).To(BeEmpty())
	})

	It("wraps writer errors", func() {
		w.err = errors.New("broker down")
		err := p.PublishSamples(context.Background(), eventstream.NewEvent(eventstream.EventSource{}, 0, nil))
		Expect(err).To(MatchError(ContainSubstring("broker down")))
		Expect(errors.Is(err, w.err)).To(BeTrue())
	})

	It("closes the underlying writer", func() {
		Expect(p.Close()).To(Succeed())
		Expect(w.closed).To(BeTrue())
	})

	Describe("NewPublisher", func() {
		It("requires brokers", func() {
			_, err := kafka.NewPublisher(kafka.Config{Topic: "t"})
			Expect(err).To(HaveOccurred())
		})

		It("requires a topic", func() {
			_, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}})
			Expect(err).To(HaveOccurred())
		})

		It("builds a publisher without dialing", func() {
			pub, err := kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "t"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pub.Close()).To(Succeed())
		})
	})
})
