// Package xlog is the ambient structured logger shared by the arena and the
// skip list. It is deliberately only touched on rare, structural events (a
// new slab committed, the list height growing) and never on the per-Insert
// or per-Contains hot path.
package xlog

import (
	"fmt"
	"io"
	"strings"

	"github.com/phuslu/log"
)

// Logger is the package-level logger used by arena and skiplist.
var Logger *log.Logger

func init() {
	Logger = &log.Logger{
		Level: log.ParseLevel("info"),
		Writer: &log.ConsoleWriter{
			Formatter: func(w io.Writer, a *log.FormatterArgs) (int, error) {
				return fmt.Fprintf(w, "%c%s %s] %s\n", strings.ToUpper(a.Level)[0],
					a.Time, a.Caller, a.Message)
			},
		},
	}
}
