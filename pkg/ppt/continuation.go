package ppt

import "strings"

const continuationPrefix = ":"

// ContinuationParser implements the legacy PPT grammar. Each body is a line
// followed by any number of ":"-prefixed continuation lines. A body whose first
// character is "+", "-", "*" or "?" is an alternative of the current turn;
// any other body starts the next turn.
//
//	Hello
//	Hi there!
//	+Hello! Nice to see you.
//	-Go away.
//	:I mean it.
type ContinuationParser struct{}

// Loads parses legacy PPT text. It never fails.
func (p *ContinuationParser) Loads(text string) (PT, error) {
	lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}

	pt := PT{}
	if len(lines) == 0 {
		return pt, nil
	}

	c := &cursor{lines: lines}

	// The first body is always the user's main text, whatever it starts with.
	turn := Turn{Role: RoleAt(0), Main: readBody(c)}

	for !c.done() {
		body := readBody(c)
		if body == "" {
			continue
		}

		content := body[1:]
		switch body[0] {
		case '+':
			turn.Chosens = append(turn.Chosens, content)
		case '-':
			turn.Rejecteds = append(turn.Rejecteds, content)
		case '*':
			turn.Drafts = append(turn.Drafts, content)
		case '?':
			turn.Unrated = append(turn.Unrated, content)
		default:
			pt = append(pt, turn)
			turn = Turn{Role: RoleAt(len(pt)), Main: body}
		}
	}

	return append(pt, turn), nil
}

// Dumps serializes pt in the legacy grammar.
func (p *ContinuationParser) Dumps(pt PT) string {
	var lines []string
	put := func(content string) {
		parts := strings.Split(content, "\n")
		lines = append(lines, parts[0])
		for _, part := range parts[1:] {
			lines = append(lines, continuationPrefix+part)
		}
	}

	for _, turn := range pt {
		put(turn.Main)
		for _, c := range turn.Chosens {
			put("+" + c)
		}
		for _, r := range turn.Rejecteds {
			put("-" + r)
		}
		for _, d := range turn.Drafts {
			put("*" + d)
		}
		for _, u := range turn.Unrated {
			put("?" + u)
		}
	}

	return strings.Join(lines, "\n")
}

// readBody consumes one line plus its continuation lines.
func readBody(c *cursor) string {
	read := []string{c.next()}
	for !c.done() && strings.HasPrefix(c.peek(), continuationPrefix) {
		read = append(read, strings.TrimPrefix(c.next(), continuationPrefix))
	}
	return strings.Join(read, "\n")
}
