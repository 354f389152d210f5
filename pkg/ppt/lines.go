package ppt

import (
	"bufio"
	"fmt"
	"strings"
)

const maxLineSize = 16 * 1024 * 1024

// splitLines splits text on "\n" or "\r\n". A trailing line terminator does
// not produce a final empty line and empty text produces no lines.
func splitLines(text string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("splitting lines: %w", err)
	}

	return lines, nil
}

// cursor walks a slice of lines front to back.
type cursor struct {
	lines []string
	pos   int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.lines)
}

func (c *cursor) peek() string {
	return c.lines[c.pos]
}

func (c *cursor) next() string {
	line := c.lines[c.pos]
	c.pos++
	return line
}

// lineNo returns the 1-based number of the line peek would return.
func (c *cursor) lineNo() int {
	return c.pos + 1
}

// restBlank reports whether every remaining line is blank.
func (c *cursor) restBlank() bool {
	for _, l := range c.lines[c.pos:] {
		if l != "" {
			return false
		}
	}
	return true
}

// untilBlank consumes lines up to, but not including, the next blank line and
// joins them with "\n".
func (c *cursor) untilBlank() string {
	start := c.pos
	for !c.done() && c.peek() != "" {
		c.pos++
	}
	return strings.Join(c.lines[start:c.pos], "\n")
}
