package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// stdoutLogger is the CLI's common.Logger implementation: timestamped text
// lines with sorted key=value metadata.
type stdoutLogger struct {
	out      io.Writer
	minLevel int
}

var levelRanks = map[string]int{
	"DEBUG":   0,
	"INFO":    1,
	"WARNING": 2,
	"WARN":    2,
	"ERROR":   3,
}

// NewStdoutLogger creates a logger writing to out, suppressing everything
// below the configured level.
func NewStdoutLogger(out io.Writer, level string) *stdoutLogger {
	rank, ok := levelRanks[strings.ToUpper(level)]
	if !ok {
		rank = levelRanks["INFO"]
	}
	return &stdoutLogger{out: out, minLevel: rank}
}

func (l *stdoutLogger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := levelRanks[strings.ToUpper(level)]
	if !ok {
		rank = levelRanks["INFO"]
	}
	if rank < l.minLevel {
		return
	}

	line := fmt.Sprintf("%s [%s] %s", time.Now().Format("15:04:05"), strings.ToUpper(level), message)
	if len(metadata) > 0 {
		keys := make([]string, 0, len(metadata))
		for k := range metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, metadata[k])
		}
	}
	fmt.Fprintln(l.out, line)
}
