package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/pptree/pkg/dataset"
	"github.com/papercomputeco/pptree/pkg/ppt"
	"github.com/papercomputeco/pptree/pkg/preference"
)

var (
	parseToolName    = "parse_ppt"
	parseDescription = "Parse a Plain-Preference-Tree document into its turns. Each turn has a role, a main text, and optional chosen and rejected alternatives."

	generateToolName    = "generate_preferences"
	generateDescription = "Generate (prompt, chosen, rejected) preference samples from a Plain-Preference-Tree document. Expands every annotated turn, or only turn_index when given."
)

// ParseInput represents the input arguments for the parse_ppt tool.
type ParseInput struct {
	Text    string `json:"text" jsonschema:"the PPT document text"`
	Grammar string `json:"grammar,omitempty" jsonschema:"PPT grammar: blankline (default) or continuation"`
}

// ParseOutput represents the output of the parse_ppt tool.
type ParseOutput struct {
	Turns ppt.PT `json:"turns"`
	Count int    `json:"count"`
}

// GenerateInput represents the input arguments for the generate_preferences tool.
type GenerateInput struct {
	Text      string `json:"text" jsonschema:"the PPT document text"`
	Grammar   string `json:"grammar,omitempty" jsonschema:"PPT grammar: blankline (default) or continuation"`
	TurnIndex *int   `json:"turn_index,omitempty" jsonschema:"zero-based index of a single turn to expand"`
	IDs       bool   `json:"ids,omitempty" jsonschema:"include a content-derived id with every sample"`
}

// GenerateOutput represents the output of the generate_preferences tool.
type GenerateOutput struct {
	Samples []dataset.Record `json:"samples"`
	Count   int              `json:"count"`
}

// handleParse processes a parse_ppt request.
func (s *Server) handleParse(_ context.Context, _ *mcp.CallToolRequest, input ParseInput) (*mcp.CallToolResult, ParseOutput, error) {
	pt, err := s.load(input.Text, input.Grammar)
	if err != nil {
		return errorResult(err), ParseOutput{}, nil
	}

	output := ParseOutput{Turns: pt, Count: len(pt)}
	result, err := textResult(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal parse output", "error", err)
		return errorResult(err), ParseOutput{}, nil
	}

	return result, output, nil
}

// handleGenerate processes a generate_preferences request.
func (s *Server) handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	pt, err := s.load(input.Text, input.Grammar)
	if err != nil {
		return errorResult(err), GenerateOutput{}, nil
	}

	var samples []preference.Sample
	if input.TurnIndex != nil {
		samples, err = preference.ExpandTurn(pt, *input.TurnIndex)
		if err != nil {
			return errorResult(err), GenerateOutput{}, nil
		}
	} else {
		samples = preference.GenerateAll(pt)
	}

	s.config.Logger.Debug("MCP generate request",
		"turns", len(pt),
		"samples", len(samples),
	)

	records := dataset.NewRecords(samples, input.IDs)
	output := GenerateOutput{Samples: records, Count: len(records)}
	result, err := textResult(output)
	if err != nil {
		s.config.Logger.Error("failed to marshal generate output", "error", err)
		return errorResult(err), GenerateOutput{}, nil
	}

	return result, output, nil
}

func (s *Server) load(text, grammar string) (ppt.PT, error) {
	g := s.config.DefaultGrammar
	if grammar != "" {
		g = ppt.Grammar(grammar)
	}

	parser, err := ppt.NewParser(g)
	if err != nil {
		return nil, err
	}

	pt, err := parser.Loads(text)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		pt = ppt.PT{}
	}
	return pt, nil
}

// errorResult reports a tool failure to the client as an IsError result.
func errorResult(err error) *mcp.CallToolResult {
	msg := err.Error()

	var fe *ppt.FormatError
	if errors.As(err, &fe) {
		msg = fmt.Sprintf("Invalid PPT document: %v", fe)
	}

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

// textResult serializes the structured output as JSON for the text field so
// clients without structured content support still get the payload.
func textResult(output any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, nil
}
