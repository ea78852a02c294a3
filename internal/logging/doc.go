// Package logging builds the slog loggers used across photosort.
//
// It provides a console handler that renders compact single-line records
// with the component name folded into the prefix, a JSON handler for
// machine consumption, and small attr helpers so call sites stay terse.
// Components obtain their logger through NewComponentLogger and never
// construct handlers themselves.
package logging
