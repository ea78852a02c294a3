// Package outcome persists the terminal result of every session attempt as a
// small text record in the done or error folder, and reads those folders back
// for status reporting.
package outcome
