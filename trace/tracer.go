package trace

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Tracer provides execution tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	logger  zerolog.Logger
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer. Filters are glob patterns matched
// against opcode mnemonics (e.g. "JUMP*", "CALL").
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = New(enabled, filters, writer)
}

// New creates a tracer writing JSON events to writer
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	upper := make([]string, 0, len(filters))
	for _, f := range filters {
		if f = strings.TrimSpace(f); f != "" {
			upper = append(upper, strings.ToUpper(f))
		}
	}
	return &Tracer{
		enabled: enabled,
		filters: upper,
		logger:  zerolog.New(writer).With().Str("component", "trace").Logger(),
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if an opcode matches any of the filter patterns
func (t *Tracer) matchesFilter(op string) bool {
	if len(t.filters) == 0 {
		return true
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, op); matched {
			return true
		}
	}
	return false
}

// Step logs an instruction about to execute
func (t *Tracer) Step(pc int, order int64, op string, args []string) {
	if !t.enabled || !t.matchesFilter(op) {
		return
	}
	t.logger.Debug().
		Int("pc", pc).
		Int64("order", order).
		Str("op", op).
		Strs("args", args).
		Msg("step")
}

// Call logs a CALL transfer
func (t *Tracer) Call(pc int, label string, target int, depth int) {
	if !t.enabled || !t.matchesFilter("CALL") {
		return
	}
	t.logger.Debug().
		Int("pc", pc).
		Str("label", label).
		Int("target", target).
		Int("depth", depth).
		Msg("call")
}

// Return logs a RETURN transfer
func (t *Tracer) Return(pc int, target int, depth int) {
	if !t.enabled || !t.matchesFilter("RETURN") {
		return
	}
	t.logger.Debug().
		Int("pc", pc).
		Int("target", target).
		Int("depth", depth).
		Msg("return")
}

// Exception logs an instruction failure. Failures ignore the filters.
func (t *Tracer) Exception(pc int, order int64, op string, err error) {
	if !t.enabled {
		return
	}
	t.logger.Warn().
		Int("pc", pc).
		Int64("order", order).
		Str("op", op).
		Err(err).
		Msg("exception")
}

// Exit logs program termination
func (t *Tracer) Exit(code int, executed int64) {
	if !t.enabled {
		return
	}
	t.logger.Debug().
		Int("code", code).
		Int64("executed", executed).
		Msg("exit")
}

// Global convenience functions

// Step logs an instruction using the global tracer
func Step(pc int, order int64, op string, args []string) {
	if globalTracer != nil {
		globalTracer.Step(pc, order, op, args)
	}
}

// Call logs a CALL using the global tracer
func Call(pc int, label string, target int, depth int) {
	if globalTracer != nil {
		globalTracer.Call(pc, label, target, depth)
	}
}

// Return logs a RETURN using the global tracer
func Return(pc int, target int, depth int) {
	if globalTracer != nil {
		globalTracer.Return(pc, target, depth)
	}
}

// Exception logs a failure using the global tracer
func Exception(pc int, order int64, op string, err error) {
	if globalTracer != nil {
		globalTracer.Exception(pc, order, op, err)
	}
}

// Exit logs termination using the global tracer
func Exit(code int, executed int64) {
	if globalTracer != nil {
		globalTracer.Exit(code, executed)
	}
}
