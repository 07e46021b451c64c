package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("gsplit %s — %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	col := 0
	for _, a := range c.Args {
		if len(a.Name) > col {
			col = len(a.Name)
		}
	}
	for _, f := range c.Flags {
		if len(f.Name) > col {
			col = len(f.Name)
		}
	}
	col += 3

	if len(c.Args) > 0 {
		var s strings.Builder
		s.WriteString("Arguments:\n")
		for _, a := range c.Args {
			fmt.Fprintf(&s, "  %-*s%s\n", col, a.Name, a.Desc)
		}
		sections = append(sections, strings.TrimRight(s.String(), "\n"))
	}

	if len(c.Flags) > 0 {
		var s strings.Builder
		s.WriteString("Flags:\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&s, "  %-*s%s\n", col, f.Name, f.Desc)
		}
		sections = append(sections, strings.TrimRight(s.String(), "\n"))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		var s strings.Builder
		s.WriteString("Examples:\n")
		for _, e := range c.Examples {
			s.WriteString("  " + e + "\n")
		}
		sections = append(sections, strings.TrimRight(s.String(), "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for gsplit help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "gsplit v%s — %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	maxWidth := len("gsplit help")
	for _, s := range subs {
		if len(s.Usage) > maxWidth {
			maxWidth = len(s.Usage)
		}
	}

	for _, s := range subs {
		fmt.Fprintf(&b, "  %-*s%s\n", maxWidth+3, s.Usage, s.Brief)
	}
	fmt.Fprintf(&b, "  %-*s%s\n", maxWidth+3, "gsplit help", "Show this help")

	b.WriteString("\nConfiguration: ~/.config/gsplit/config.toml\n")
	return b.String()
}
