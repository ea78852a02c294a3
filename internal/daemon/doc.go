// Package daemon assembles the watch pipeline into a long-running process
// with single-instance locking and a clean shutdown path.
package daemon
