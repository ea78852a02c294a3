// Package marker detects the session-ending marker photo: an image carrying
// a scannable QR payload naming the session's subject. Detection failures on
// individual files are logged and swallowed so a corrupt upload can never
// stall the watch loop.
package marker
