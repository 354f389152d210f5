package ppt

import (
	"fmt"
	"io"
	"strings"
)

// Parser is a PPT parsing strategy: a bidirectional mapping between PPT text
// and a PT.
type Parser interface {
	// Loads parses a whole PPT document.
	Loads(text string) (PT, error)

	// Dumps serializes pt so that Loads(Dumps(pt)) reproduces it.
	Dumps(pt PT) string
}

// Grammar names a Parser strategy.
type Grammar string

const (
	// GrammarBlankLine is the authoritative grammar, where blank lines
	// delimit turns and "+ " / "- " alternative blocks.
	GrammarBlankLine Grammar = "blankline"

	// GrammarContinuation is the legacy grammar using ":" continuation lines
	// and single-character "+", "-", "*", "?" subnode signs.
	GrammarContinuation Grammar = "continuation"
)

// Grammars returns every supported grammar, default first.
func Grammars() []Grammar {
	return []Grammar{GrammarBlankLine, GrammarContinuation}
}

// ParseGrammar converts a user-facing name into a Grammar. The empty string
// selects the default grammar.
func ParseGrammar(name string) (Grammar, error) {
	switch Grammar(strings.ToLower(strings.TrimSpace(name))) {
	case "", GrammarBlankLine:
		return GrammarBlankLine, nil
	case GrammarContinuation:
		return GrammarContinuation, nil
	default:
		return "", fmt.Errorf("unknown grammar: %q (available: %s, %s)", name, GrammarBlankLine, GrammarContinuation)
	}
}

// NewParser returns the Parser for the given grammar.
func NewParser(g Grammar) (Parser, error) {
	g, err := ParseGrammar(string(g))
	if err != nil {
		return nil, err
	}

	switch g {
	case GrammarContinuation:
		return &ContinuationParser{}, nil
	default:
		return &BlankLineParser{}, nil
	}
}

// Default returns the blank-line grammar parser.
func Default() Parser {
	return &BlankLineParser{}
}

// Loads parses text with the default grammar.
func Loads(text string) (PT, error) {
	return Default().Loads(text)
}

// Dumps serializes pt with the default grammar.
func Dumps(pt PT) string {
	return Default().Dumps(pt)
}

// Load reads all of r and parses it with p. A nil p selects the default grammar.
func Load(r io.Reader, p Parser) (PT, error) {
	if p == nil {
		p = Default()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ppt input: %w", err)
	}

	return p.Loads(string(data))
}
