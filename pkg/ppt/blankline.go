package ppt

import (
	"fmt"
	"strings"
)

const (
	chosenSign   = "+ "
	rejectedSign = "- "
)

// BlankLineParser implements the blank-line PPT grammar:
//
//	main text, one or more lines
//	<blank>
//	+ chosen alternative
//	<blank>
//	- rejected alternative
//	<blank>
//	<blank>
//	next turn ...
//
// A single blank line separates a turn's main body from each alternative
// block; two consecutive blank lines close the turn.
type BlankLineParser struct{}

// Loads parses PPT text. The closing double blank line of the final turn is
// optional.
func (p *BlankLineParser) Loads(text string) (PT, error) {
	lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}

	c := &cursor{lines: lines}
	pt := PT{}
	for !c.done() {
		// Surplus blank lines after the last turn do not open a new one.
		if c.restBlank() {
			break
		}

		turn := Turn{Role: RoleAt(len(pt))}
		turn.Main = c.untilBlank()

		if err := p.readAlternatives(c, &turn); err != nil {
			return nil, err
		}

		pt = append(pt, turn)
	}

	return pt, nil
}

// readAlternatives consumes the alternative blocks following a main body and
// the blank line that closes the turn.
func (p *BlankLineParser) readAlternatives(c *cursor, turn *Turn) error {
	for !c.done() {
		if line := c.lineNo(); c.next() != "" {
			return &FormatError{Line: line, Reason: "should be empty"}
		}

		if c.done() {
			return nil
		}

		// A second blank line closes the turn. Anything else starts an
		// alternative block.
		if c.peek() == "" {
			c.next()
			return nil
		}

		line := c.lineNo()
		block := c.untilBlank()
		sign, content := splitSign(block)

		switch sign {
		case chosenSign:
			turn.Chosens = append(turn.Chosens, content)
		case rejectedSign:
			turn.Rejecteds = append(turn.Rejecteds, content)
		default:
			return &FormatError{
				Line:   line,
				Reason: fmt.Sprintf("should start with either %q or %q", chosenSign, rejectedSign),
			}
		}
	}

	return nil
}

// Dumps serializes pt in the blank-line grammar. Drafts and Unrated have no
// representation in this grammar and are not written.
func (p *BlankLineParser) Dumps(pt PT) string {
	var lines []string
	put := func(l string) { lines = append(lines, l) }

	for _, turn := range pt {
		put(turn.Main)
		put("")
		for _, c := range turn.Chosens {
			put(chosenSign + c)
			put("")
		}
		for _, r := range turn.Rejecteds {
			put(rejectedSign + r)
			put("")
		}
		put("")
	}

	return strings.Join(lines, "\n")
}

func splitSign(block string) (string, string) {
	if len(block) < len(chosenSign) {
		return block, ""
	}
	return block[:2], block[2:]
}
