// Package diag defines the diagnostic model shared by the tokenizer, the
// parser and the driver.
//
// Producers emit through a Reporter so they stay independent of storage;
// BagReporter collects into a bounded Bag that the CLI sorts and renders via
// internal/diagfmt. Package diag performs no formatting beyond the stable
// one-line form used for short output and tests.
package diag
