// Package trace records what the karta tool is doing: command boundaries,
// pipeline phases (load, tokenize, parse, cache) and per-file work.
//
// Enable it from the command line:
//
//	karta check --trace=- --trace-level=detail ./conf
//
// Levels, from quiet to chatty: off, error, phase, detail, debug. Events are
// written as text or NDJSON (selected by the .ndjson extension of the output
// path). The tracer travels through the pipeline inside a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
package trace
