// Package pipeline orchestrates one session per marker trigger through the
// collect, archive, organize, and record stages, and owns the process-wide
// halt state consulted by the dispatcher.
package pipeline
