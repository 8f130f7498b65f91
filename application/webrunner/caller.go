package webrunner

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// packagePath is this package's import path
var packagePath = reflect.TypeOf(WebRunner{}).PkgPath()

var closureSuffix = regexp.MustCompile(`^(func|gowrap)?\d+$`)

// caller identifies the page object method that called into the runner
type caller struct {
	Type   string
	Method string
}

// callerOutside returns the first stack frame outside this package
func callerOutside() caller {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	prefix := packagePath + "."
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !strings.HasPrefix(frame.Function, prefix) {
			return parseFunction(frame.Function)
		}
		if !more {
			return caller{Type: "unknown", Method: "unknown"}
		}
	}
}

// parseFunction splits a runtime function name such as
// "shop/pages.(*LoginPage).Submit.func1" into type and method. Plain
// functions use the package name as the type.
func parseFunction(fn string) caller {
	name := strings.ReplaceAll(fn, "[...]", "")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	pkg, rest, found := strings.Cut(name, ".")
	if !found {
		return caller{Type: pkg, Method: pkg}
	}

	var parts []string
	for _, p := range strings.Split(rest, ".") {
		if closureSuffix.MatchString(p) {
			break
		}
		parts = append(parts, p)
	}

	switch len(parts) {
	case 0:
		return caller{Type: pkg, Method: pkg}
	case 1:
		return caller{Type: pkg, Method: parts[0]}
	}

	typ := strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
	return caller{Type: typ, Method: parts[1]}
}
