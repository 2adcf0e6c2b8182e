// Package formatter renders serialized btor2 listings for terminal
// display.
package formatter

import (
	"strings"

	"github.com/fatih/color"
)

var (
	lidStyle     = color.New(color.FgCyan)
	opcodeStyle  = color.New(color.FgYellow, color.Bold)
	blockStyle   = color.New(color.FgMagenta, color.Bold)
	commentStyle = color.New(color.FgHiBlack)
)

// Listing colorizes a serialized program line by line: lids cyan,
// opcodes yellow, block delimiters magenta, comments dim.
func Listing(serialized string) string {
	lines := strings.Split(serialized, "\n")
	for i, line := range lines {
		lines[i] = formatLine(line)
	}
	return strings.Join(lines, "\n")
}

func formatLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return line
	case strings.HasPrefix(trimmed, ";"):
		return commentStyle.Sprint(line)
	case strings.HasPrefix(trimmed, "module") || strings.HasPrefix(trimmed, "contract") || trimmed == "}":
		return blockStyle.Sprint(line)
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return line
	}
	out := []string{lidStyle.Sprint(fields[0]), opcodeStyle.Sprint(fields[1])}
	out = append(out, fields[2:]...)
	return strings.Join(out, " ")
}
