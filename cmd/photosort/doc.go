// Command photosort is the CLI for the photo session organizer: it runs the
// watch daemon in the foreground, lists recorded session outcomes, and
// manages configuration.
package main
