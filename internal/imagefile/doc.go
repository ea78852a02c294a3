// Package imagefile models the photos photosort works on: supported
// extension checks, the reserved-name convention for folders owned by the
// pipeline, and capture-time resolution from embedded metadata with a
// modification-time fallback.
package imagefile
