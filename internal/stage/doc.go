// Package stage carries the error taxonomy and health records shared by the
// pipeline stages. Errors are tagged with sentinel markers (validation,
// configuration, transient) so the controller can classify a failure without
// inspecting message text.
package stage
