// Package notifications delivers session outcome alerts through ntfy.
// Notifications are best-effort: delivery failures are reported to the
// caller for logging but never affect session processing.
package notifications
