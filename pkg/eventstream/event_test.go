package eventstream_test

import (
	"encoding/json"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pptree/pkg/conversation"
	"github.com/papercomputeco/pptree/pkg/dataset"
	"github.com/papercomputeco/pptree/pkg/eventstream"
)

var _ = Describe("Event", func() {
	records := []dataset.Record{{
		Prompt:   []conversation.Message{{Role: "user", Content: "Hi"}},
		Chosen:   []conversation.Message{{Role: "assistant", Content: "Hello!"}},
		Rejected: []conversation.Message{{Role: "assistant", Content: "Go away."}},
	}}

	It("marshals SamplesGeneratedEvent with expected top-level keys", func() {
		event := eventstream.NewEvent(eventstream.EventSource{
			Path:    "dialogue.ppt",
			Grammar: "blankline",
		}, 2, records)

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKeyWithValue("turn_count", BeNumerically("==", 2)))
		Expect(got).To(HaveKeyWithValue("samples", HaveLen(1)))
	})

	It("fills the envelope fields", func() {
		event := eventstream.NewEvent(eventstream.EventSource{Grammar: "blankline"}, 2, records)

		Expect(event.SchemaVersion).To(Equal(eventstream.SchemaVersionV1))
		Expect(event.EventType).To(Equal(eventstream.EventTypeSamplesGenerated))
		Expect(event.EmittedAt.IsZero()).To(BeFalse())

		id, err := uuid.Parse(event.EventID)
		Expect(err).NotTo(HaveOccurred())
		Expect(id.Version()).To(Equal(uuid.Version(4)))
	})

	It("assigns distinct event ids", func() {
		a := eventstream.NewEvent(eventstream.EventSource{}, 0, nil)
		b := eventstream.NewEvent(eventstream.EventSource{}, 0, nil)
		Expect(a.EventID).NotTo(Equal(b.EventID))
	})

	It("never emits a null samples array", func() {
		payload, err := json.Marshal(eventstream.NewEvent(eventstream.EventSource{}, 0, nil))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(payload)).To(ContainSubstring(`"samples":[]`))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeSamplesGenerated).To(Equal("pptree.samples.generated"))
	})

	It("provides ErrNilEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilEvent).To(MatchError("nil samples event"))
	})
})
