package karta

import "karta/internal/diag"

type config struct {
	strictFields bool
	requireEOF   bool
	maxDepth     uint
	normalizeNFC bool
	reporter     diag.Reporter
}

// Option configures Parse.
type Option func(*config)

// WithStrictFields makes GetField resolve a name that never occurs in the
// document to the .nil node, like any other absent key. By default such a
// lookup leaves the query where it was.
func WithStrictFields() Option {
	return func(c *config) { c.strictFields = true }
}

// WithRequireEOF rejects input that continues after the root expression.
func WithRequireEOF() Option {
	return func(c *config) { c.requireEOF = true }
}

// WithMaxDepth limits how deeply maps and lists may nest. Zero disables the limit.
func WithMaxDepth(n uint) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithNormalizeNFC converts the source to Unicode NFC before tokenizing.
func WithNormalizeNFC() Option {
	return func(c *config) { c.normalizeNFC = true }
}

// WithReporter receives a diagnostic for every tokenize or parse failure in
// addition to the returned error.
func WithReporter(r diag.Reporter) Option {
	return func(c *config) { c.reporter = r }
}

func buildConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}
