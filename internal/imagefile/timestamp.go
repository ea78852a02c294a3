package imagefile

import (
	"log/slog"
	"os"
	"time"

	"github.com/evanoberholster/imagemeta"

	"photosort/internal/logging"
)

// Resolver derives the logical capture time of an image: EXIF
// DateTimeOriginal when present, the embedded create date as a second
// choice, and the filesystem modification time otherwise. Resolve never
// returns an error; decode problems downgrade to the fallback.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a resolver. A nil logger is replaced with a no-op.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logging.NewComponentLogger(logger, "timestamp")}
}

// Resolve returns the capture time for the file at path.
func (r *Resolver) Resolve(path string) time.Time {
	if ts, ok := r.metadataTime(path); ok {
		return ts
	}

	info, err := os.Stat(path)
	if err != nil {
		r.logger.Warn("stat failed; file has no usable timestamp",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return time.Time{}
	}
	r.logger.Debug("using file modification time",
		logging.String(logging.FieldFile, path),
	)
	return info.ModTime()
}

func (r *Resolver) metadataTime(path string) (time.Time, bool) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer file.Close()

	meta, err := imagemeta.Decode(file)
	if err != nil {
		r.logger.Debug("no decodable metadata",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return time.Time{}, false
	}
	if ts := meta.DateTimeOriginal(); !ts.IsZero() {
		return ts, true
	}
	if ts := meta.CreateDate(); !ts.IsZero() {
		return ts, true
	}
	return time.Time{}, false
}
