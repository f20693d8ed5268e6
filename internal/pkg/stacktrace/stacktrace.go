// Package stacktrace trims runtime stacks down to the frames of this module.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

const marker = "/internal/"

// InternalPaths returns the file:line locations of frames that belong to
// packages under internal/, innermost first. Paths are cut to start at
// "internal/" and the program counter offset is dropped.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := sc.Text()
		// Location lines are the tab indented half of each frame.
		if !strings.HasPrefix(line, "\t") {
			continue
		}

		loc, _, _ := strings.Cut(strings.TrimSpace(line), " +0x")
		idx := strings.Index(loc, marker)
		if idx == -1 || !strings.Contains(loc, ".go:") {
			continue
		}

		paths = append(paths, loc[idx+1:])
	}

	return paths
}
