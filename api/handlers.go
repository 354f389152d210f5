package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/pptree/pkg/conversation"
	"github.com/papercomputeco/pptree/pkg/dataset"
	"github.com/papercomputeco/pptree/pkg/eventstream"
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/preference"
	"github.com/papercomputeco/pptree/pkg/worker"
)

// ErrorResponse is the JSON body of every failed request. Line is set for
// PPT format errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

// TurnsResponse is returned by POST /v1/turns.
type TurnsResponse struct {
	Turns ppt.PT `json:"turns"`
}

// ConversationResponse is returned by POST /v1/conversation.
type ConversationResponse struct {
	Messages []conversation.Message `json:"messages"`
}

// PreferencesResponse is returned by POST /v1/preferences.
type PreferencesResponse struct {
	Samples []dataset.Record `json:"samples"`
	Count   int              `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleTurns parses the request body and returns its turns.
func (s *Server) handleTurns(c *fiber.Ctx) error {
	pt, err := s.parseBody(c, "grammar")
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(TurnsResponse{Turns: pt})
}

// handleConversation returns the main-text conversation of the request body.
func (s *Server) handleConversation(c *fiber.Ctx) error {
	pt, err := s.parseBody(c, "grammar")
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(ConversationResponse{Messages: conversation.Project(pt)})
}

// handlePreferences returns the preference samples of the request body. The
// "turn" query parameter restricts expansion to one turn.
func (s *Server) handlePreferences(c *fiber.Ctx) error {
	pt, err := s.parseBody(c, "grammar")
	if err != nil {
		return s.writeError(c, err)
	}

	var samples []preference.Sample
	if raw := c.Query("turn"); raw != "" {
		turn, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return s.writeError(c, fiber.NewError(fiber.StatusBadRequest, "invalid turn: "+raw))
		}

		samples, err = preference.ExpandTurn(pt, turn)
		if err != nil {
			return s.writeError(c, err)
		}
	} else {
		samples = preference.GenerateAll(pt)
	}

	records := dataset.NewRecords(samples, c.QueryBool("ids"))
	s.publish(c, pt, records)
	return c.JSON(PreferencesResponse{Samples: records, Count: len(records)})
}

// handleFormat re-serializes the request body, optionally converting
// between grammars.
func (s *Server) handleFormat(c *fiber.Ctx) error {
	pt, err := s.parseBody(c, "from")
	if err != nil {
		return s.writeError(c, err)
	}

	to, err := s.parser(c.Query("to", c.Query("from")))
	if err != nil {
		return s.writeError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(to.Dumps(pt))
}

// publish hands the generated records to the event pool, if configured.
func (s *Server) publish(c *fiber.Ctx, pt ppt.PT, records []dataset.Record) {
	if s.config.Events == nil {
		return
	}

	// Fiber reuses request buffers, so values escaping the handler are copied.
	grammar := strings.Clone(c.Query("grammar", string(s.config.DefaultGrammar)))
	event := eventstream.NewEvent(eventstream.EventSource{
		Path:    strings.Clone(c.Path()),
		Grammar: grammar,
	}, len(pt), records)

	if !s.config.Events.Enqueue(worker.Job{Event: event}) {
		s.logger.Warn("samples event dropped", "event_id", event.EventID)
	}
}

func (s *Server) parser(grammar string) (ppt.Parser, error) {
	if grammar == "" {
		grammar = string(s.config.DefaultGrammar)
	}

	p, err := ppt.NewParser(ppt.Grammar(grammar))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return p, nil
}

// parseBody parses the raw request body with the grammar named by the given
// query parameter.
func (s *Server) parseBody(c *fiber.Ctx, grammarParam string) (ppt.PT, error) {
	p, err := s.parser(c.Query(grammarParam))
	if err != nil {
		return nil, err
	}

	pt, err := p.Loads(string(c.Body()))
	if err != nil {
		return nil, err
	}
	if pt == nil {
		pt = ppt.PT{}
	}
	return pt, nil
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	var (
		fe *ppt.FormatError
		ve *preference.ValidationError
		he *fiber.Error
	)

	switch {
	case errors.As(err, &fe):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Error: fe.Reason,
			Line:  fe.Line,
		})
	case errors.As(err, &ve):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: ve.Error()})
	case errors.As(err, &he):
		return c.Status(he.Code).JSON(ErrorResponse{Error: he.Message})
	default:
		s.logger.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
