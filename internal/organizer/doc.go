// Package organizer finalizes a session by moving its files into the
// per-subject, per-date destination layout with order-stable sequence
// filenames. It runs only after the archiver has taken a verified backup.
package organizer
