// Package dispatcher turns file-creation events and the startup backlog scan
// into serialized marker triggers for the session pipeline.
package dispatcher
