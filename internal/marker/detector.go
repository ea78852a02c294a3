package marker

import (
	"image"
	"log/slog"
	"os"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"photosort/internal/logging"

	// Register decoders for every supported marker format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// subjectPrefix is the structured payload form "PATIENT_ID:<id>". Payloads
// without the prefix are used verbatim.
const subjectPrefix = "PATIENT_ID:"

// Detector extracts a subject identifier from an image, if one is present.
type Detector interface {
	Detect(path string) (subjectID string, found bool)
}

// QRDetector decodes QR codes using gozxing. Only the first decoded payload
// is used; disambiguating multiple codes in one image is not supported.
type QRDetector struct {
	logger *slog.Logger
}

// NewQRDetector constructs the production detector.
func NewQRDetector(logger *slog.Logger) *QRDetector {
	return &QRDetector{logger: logging.NewComponentLogger(logger, "marker")}
}

// Detect reports the subject id encoded in the image at path. An unreadable
// image is logged and treated as "no marker", never as a fatal error.
func (d *QRDetector) Detect(path string) (string, bool) {
	file, err := os.Open(path)
	if err != nil {
		d.logger.Warn("could not open image",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return "", false
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		d.logger.Warn("could not read image",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return "", false
	}

	bitmap, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		d.logger.Warn("could not binarize image",
			logging.String(logging.FieldFile, path),
			logging.Error(err),
		)
		return "", false
	}

	result, err := qrcode.NewQRCodeReader().Decode(bitmap, nil)
	if err != nil {
		// Most images carry no code at all; stay quiet about it.
		d.logger.Debug("no marker code found",
			logging.String(logging.FieldFile, path),
		)
		return "", false
	}

	subject := ParsePayload(result.GetText())
	if subject == "" {
		d.logger.Warn("marker payload is empty",
			logging.String(logging.FieldFile, path),
		)
		return "", false
	}

	d.logger.Info("marker decoded",
		logging.String(logging.FieldFile, path),
		logging.String(logging.FieldSubjectID, subject),
	)
	return subject, true
}

// ParsePayload normalizes a decoded payload into a subject id. The structured
// "PATIENT_ID:<id>" form yields <id>; any other payload is used as-is. Both
// forms are trimmed of surrounding whitespace.
func ParsePayload(payload string) string {
	if rest, ok := strings.CutPrefix(payload, subjectPrefix); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(payload)
}
