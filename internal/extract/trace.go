package extract

import (
	"fmt"
	"sync"
)

// Trace collects human-readable diagnostic lines for one extraction.
// It is advisory only: the engine writes to it and never reads it back,
// so a nil *Trace is always safe to pass.
type Trace struct {
	lines []string
}

// Logf appends one formatted line. No-op on a nil receiver.
func (t *Trace) Logf(format string, args ...any) {
	if t == nil {
		return
	}
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

// Lines returns the collected lines in order.
func (t *Trace) Lines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

const fingerprintRunes = 32

// Fingerprint keys a trace by the leading runes of the normalized text.
func Fingerprint(text string) string {
	r := []rune(text)
	if len(r) > fingerprintRunes {
		r = r[:fingerprintRunes]
	}
	return string(r)
}

var (
	traceMu  sync.Mutex
	traceLog = map[string][]string{}
)

// recordTrace stores a finished trace in the process-wide registry.
// The registry has no eviction; ResetTraces clears it in full.
func recordTrace(text string, t *Trace) {
	if t == nil {
		return
	}
	traceMu.Lock()
	defer traceMu.Unlock()
	traceLog[Fingerprint(text)] = t.Lines()
}

// Traces returns a copy of the registry for debugging UIs.
func Traces() map[string][]string {
	traceMu.Lock()
	defer traceMu.Unlock()
	out := make(map[string][]string, len(traceLog))
	for k, v := range traceLog {
		lines := make([]string, len(v))
		copy(lines, v)
		out[k] = lines
	}
	return out
}

// ResetTraces drops every recorded trace.
func ResetTraces() {
	traceMu.Lock()
	defer traceMu.Unlock()
	traceLog = map[string][]string{}
}
