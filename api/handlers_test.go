package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/logger"
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/worker"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*eventstream.SamplesGeneratedEvent
}

func (p *capturePublisher) PublishSamples(_ context.Context, e *eventstream.SamplesGeneratedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

const dialogue = "Hi\n\n\nHello!\n\n- Go away.\n\n"

var _ = Describe("Handlers", func() {
	var server *Server

	BeforeEach(func() {
		var err error
		server, err = NewServer(Config{ListenAddr: ":0"}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	do := func(method, target, body string) (*http.Response, []byte) {
		req, err := http.NewRequest(method, target, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", "text/plain")

		resp, err := server.app.Test(req)
		Expect(err).NotTo(HaveOccurred())

		respBody, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		return resp, respBody
	}

	Describe("NewServer", func() {
		It("requires a logger", func() {
			_, err := NewServer(Config{}, nil)
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp, body := do(http.MethodGet, "/ping", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(Equal(`"pong"`))
		})
	})

	Describe("POST /v1/turns", func() {
		It("returns the parsed turns", func() {
			resp, body := do(http.MethodPost, "/v1/turns", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result TurnsResponse
			Expect(json.Unmarshal(body, &result)).To(Succeed())
			Expect(result.Turns).To(HaveLen(2))
			Expect(result.Turns[0].Role).To(Equal(ppt.RoleUser))
			Expect(result.Turns[1].Role).To(Equal(ppt.RoleAssistant))
			Expect(result.Turns[1].Rejecteds).To(Equal([]string{"Go away."}))
		})

		It("returns an empty list for an empty body", func() {
			resp, body := do(http.MethodPost, "/v1/turns", "")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body).To(MatchJSON(`{"turns": []}`))
		})

		It("parses the continuation grammar", func() {
			resp, body := do(http.MethodPost, "/v1/turns?grammar=continuation", "Hi\nHello\n+Hey")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result TurnsResponse
			Expect(json.Unmarshal(body, &result)).To(Succeed())
			Expect(result.Turns).To(HaveLen(2))
			Expect(result.Turns[1].Chosens).To(Equal([]string{"Hey"}))
		})

		It("returns 422 with the line for format errors", func() {
			resp, body := do(http.MethodPost, "/v1/turns", "Hi\n\nHello\n\n")
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))

			var result ErrorResponse
			Expect(json.Unmarshal(body, &result)).To(Succeed())
			Expect(result.Line).To(Equal(3))
			Expect(result.Error).To(ContainSubstring("should start with"))
		})

		It("returns 400 for an unknown grammar", func() {
			resp, body := do(http.MethodPost, "/v1/turns?grammar=yaml", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(string(body)).To(ContainSubstring("unknown grammar"))
		})
	})

	Describe("POST /v1/conversation", func() {
		It("returns main-text messages", func() {
			resp, body := do(http.MethodPost, "/v1/conversation", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body).To(MatchJSON(`{"messages": [
				{"role": "user", "content": "Hi"},
				{"role": "assistant", "content": "Hello!"}
			]}`))
		})
	})

	Describe("POST /v1/preferences", func() {
		It("returns every sample", func() {
			resp, body := do(http.MethodPost, "/v1/preferences", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body).To(MatchJSON(`{"count": 1, "samples": [{
				"prompt": [{"role": "user", "content": "Hi"}],
				"chosen": [{"role": "assistant", "content": "Hello!"}],
				"rejected": [{"role": "assistant", "content": "Go away."}]
			}]}`))
		})

		It("adds ids on request", func() {
			resp, body := do(http.MethodPost, "/v1/preferences?ids=true", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result PreferencesResponse
			Expect(json.Unmarshal(body, &result)).To(Succeed())
			Expect(result.Samples[0].ID).NotTo(BeEmpty())
		})

		It("expands a single turn", func() {
			resp, body := do(http.MethodPost, "/v1/preferences?turn=1", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			var result PreferencesResponse
			Expect(json.Unmarshal(body, &result)).To(Succeed())
			Expect(result.Count).To(Equal(1))
		})

		It("returns 422 for a turn without rejected content", func() {
			resp, body := do(http.MethodPost, "/v1/preferences?turn=0", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
			Expect(string(body)).To(ContainSubstring("no rejected content"))
		})

		It("returns 400 for a non-numeric turn", func() {
			resp, body := do(http.MethodPost, "/v1/preferences?turn=abc", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
			Expect(body).To(MatchJSON(`{"error": "invalid turn: abc"}`))
		})

		It("returns 422 for an out of range turn", func() {
			resp, body := do(http.MethodPost, "/v1/preferences?turn=-1", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusUnprocessableEntity))
			Expect(string(body)).To(ContainSubstring("out of range"))
		})

		It("returns an empty sample list for an unannotated document", func() {
			resp, body := do(http.MethodPost, "/v1/preferences", "Hi\n\n\nHello!\n\n")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(body).To(MatchJSON(`{"count": 0, "samples": []}`))
		})
	})

	Describe("POST /v1/format", func() {
		It("normalizes a document", func() {
			resp, body := do(http.MethodPost, "/v1/format", "Hi\n\n\nHello!\n\n- Go away.")
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/plain"))
			Expect(string(body)).To(Equal(dialogue))
		})

		It("converts between grammars", func() {
			resp, body := do(http.MethodPost, "/v1/format?to=continuation", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))
			Expect(string(body)).To(Equal("Hi\nHello!\n-Go away."))
		})

		It("returns 400 for an unknown target grammar", func() {
			resp, _ := do(http.MethodPost, "/v1/format?to=yaml", dialogue)
			Expect(resp.StatusCode).To(Equal(fiber.StatusBadRequest))
		})
	})

	Describe("/mcp", func() {
		It("mounts the MCP handler", func() {
			resp, _ := do(http.MethodGet, "/mcp", "")
			Expect(resp.StatusCode).NotTo(Equal(fiber.StatusNotFound))
		})

		It("can be disabled", func() {
			s, err := NewServer(Config{DisableMCP: true}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodGet, "/mcp", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := s.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusNotFound))
		})
	})

	Describe("samples events", func() {
		It("publishes one event per preferences request", func() {
			pub := &capturePublisher{}
			pool, err := worker.NewPool(&worker.Config{Publisher: pub, Logger: logger.Nop()})
			Expect(err).NotTo(HaveOccurred())

			s, err := NewServer(Config{Events: pool, DisableMCP: true}, logger.Nop())
			Expect(err).NotTo(HaveOccurred())

			req, err := http.NewRequest(http.MethodPost, "/v1/preferences", strings.NewReader(dialogue))
			Expect(err).NotTo(HaveOccurred())
			resp, err := s.app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(fiber.StatusOK))

			req, err = http.NewRequest(http.MethodPost, "/v1/turns", strings.NewReader(dialogue))
			Expect(err).NotTo(HaveOccurred())
			_, err = s.app.Test(req)
			Expect(err).NotTo(HaveOccurred())

			pool.Close()

			Expect(pub.events).To(HaveLen(1))
			event := pub.events[0]
			Expect(event.Source.Path).To(Equal("/v1/preferences"))
			Expect(event.Source.Grammar).To(Equal("blankline"))
			Expect(event.TurnCount).To(Equal(2))
			Expect(event.Samples).To(HaveLen(1))
		})
	})
})
