package generator

import "strings"

// Generated files target the 100 column limit of Android Java style.
const lineWidth = 100

// wrapIndent greedily wraps text at the given width, prefixing every
// line with indent. The indent counts against the width. A word longer
// than the width gets a line of its own rather than being split.
func wrapIndent(text string, width int, indent string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := indent + words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) <= width {
			line += " " + word
			continue
		}
		lines = append(lines, line)
		line = indent + word
	}
	return append(lines, line)
}
