// Package stringtest builds expected text-art output for tests.
package stringtest

import (
	"strings"
)

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected frames row by row.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"██",
//		"░░",
//	) // -> "██\n░░"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Input strips one leading newline and a trailing blank line from s and
// removes the indentation common to all non-empty lines. It lets expected frames be
// written as indented raw string literals.
func Input(s string) string {
	s = strings.TrimPrefix(s, "\n")

	lines := strings.Split(s, "\n")
	if n := len(lines); n > 1 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}

	indent := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent == -1 || n < indent {
			indent = n
		}
	}

	if indent <= 0 {
		return strings.Join(lines, "\n")
	}

	for i, line := range lines {
		if len(line) >= indent {
			lines[i] = line[indent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}

	return strings.Join(lines, "\n")
}

// Grid returns a frame of rows lines, each holding cols copies of r.
func Grid(r rune, cols, rows int) string {
	row := strings.Repeat(string(r), cols)

	lines := make([]string, rows)
	for i := range lines {
		lines[i] = row
	}

	return strings.Join(lines, "\n")
}
