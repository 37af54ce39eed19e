// Package trace records what the generator does and how long it takes.
//
// # Usage
//
//	mpirt-gen generate --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero overhead when disabled
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: last N events in memory, dumped when generation fails
//   - MultiTracer: fan-out
//
// # Levels and scopes
//
// Events carry a scope; the level decides which scopes are kept:
//
//   - ScopeDriver: one CLI command (level phase and up)
//   - ScopePass: load, emit, format, write (level phase and up)
//   - ScopeUnit: one generated file (level detail and up)
//   - ScopeSymbol: one function, constant or callback (level debug)
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "emit", parentID)
//	defer span.End("")
package trace
