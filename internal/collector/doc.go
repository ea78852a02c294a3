// Package collector turns a marker trigger into the ordered candidate set
// of the session: every supported image in the watch folder captured inside
// the configured window before the marker, excluding the marker itself and
// anything inside reserved folders.
package collector
