// Package archiver writes the durable pre-move backup of a session. Copies
// are integrity-verified; the originals stay untouched until the organizer
// takes over.
package archiver
