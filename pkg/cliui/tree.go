package cliui

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/pptree/pkg/ppt"
)

// TreeMarkdown renders a preference tree as markdown: one section per turn
// with its alternatives quoted underneath.
func TreeMarkdown(pt ppt.PT) string {
	if len(pt) == 0 {
		return "_empty tree_\n"
	}

	var b strings.Builder
	for i, t := range pt {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, t.Role)
		b.WriteString(t.Main)
		b.WriteString("\n")

		writeAlternatives(&b, "Chosen", t.Chosens)
		writeAlternatives(&b, "Rejected", t.Rejecteds)
		writeAlternatives(&b, "Drafts", t.Drafts)
		writeAlternatives(&b, "Unrated", t.Unrated)
	}

	return b.String()
}

func writeAlternatives(b *strings.Builder, title string, alts []string) {
	if len(alts) == 0 {
		return
	}

	fmt.Fprintf(b, "\n**%s**\n", title)
	for _, alt := range alts {
		b.WriteString("\n")
		for _, line := range strings.Split(alt, "\n") {
			b.WriteString(strings.TrimRight("> "+line, " "))
			b.WriteString("\n")
		}
	}
}
