package check

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CallSite identifies the point in test code where a failed check was made.
// It is best-effort diagnostic information, not load-bearing logic: any field
// that cannot be determined is left empty.
type CallSite struct {
	File     string // relative to the working directory when possible
	Line     int
	Function string
	Source   string // the trimmed source line, if the file could be read
}

func (s CallSite) String() string {
	ret := fmt.Sprintf("%s:%d in %s", s.File, s.Line, s.Function)
	if s.Source != "" {
		ret += "\n    " + s.Source
	}
	return ret
}

// callSite captures the stack frame skip levels above the caller of callSite.
// skip=0 means the caller's caller.
func callSite(skip int) (CallSite, bool) {
	pc, file, line, ok := runtime.Caller(skip + 2)
	if !ok {
		return CallSite{}, false
	}
	site := CallSite{File: relativePath(file), Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		site.Function = shortFuncName(fn.Name())
	}
	site.Source = sourceLine(file, line)
	return site, true
}

func relativePath(file string) string {
	wd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil {
		// e.g. a different volume root; fall back to the absolute path
		return file
	}
	return rel
}

func shortFuncName(name string) string {
	// runtime gives us "import/path/pkg.Func"; keep "Func"
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func sourceLine(file string, line int) string {
	data, err := os.ReadFile(file)
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
