package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const (
	modulePrefix = "go.ngs.io/perf-worksheet/"
	maxFrames    = 8
)

// Frame is one caller recorded with a log entry.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f Frame) String() string {
	return f.File + ":" + strconv.Itoa(f.Line) + " " + f.Function
}

// callers returns up to maxFrames of this module's frames, innermost first,
// starting skip frames above its caller. Runtime, gin and testing frames
// are left out.
func callers(skip int) []Frame {
	var pcs [32]uintptr
	n := runtime.Callers(skip+2, pcs[:])
	it := runtime.CallersFrames(pcs[:n])

	var out []Frame
	for {
		f, more := it.Next()
		if name, ok := moduleFunction(f.Function); ok {
			out = append(out, Frame{File: filepath.Base(f.File), Line: f.Line, Function: name})
			if len(out) == maxFrames {
				break
			}
		}
		if !more {
			break
		}
	}
	return out
}

// moduleFunction shortens a function name from this module or a main
// package and reports false for everything else.
func moduleFunction(fn string) (string, bool) {
	if rest, ok := strings.CutPrefix(fn, modulePrefix); ok {
		return strings.TrimPrefix(rest, "internal/"), true
	}
	if strings.HasPrefix(fn, "main.") {
		return fn, true
	}
	return "", false
}
