package moderation

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// blurSigma matches the fixed radius of the original moderation transform.
const blurSigma = 24

// blurImage applies an irreversible Gaussian blur across the full frame,
// alpha channel included, re-encoding in the format named by the object path.
func blurImage(data []byte, objectName string) ([]byte, error) {
	format, err := imaging.FormatFromFilename(objectName)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format for %s: %w", objectName, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", objectName, err)
	}

	blurred := imaging.Blur(img, blurSigma)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, blurred, format); err != nil {
		return nil, fmt.Errorf("failed to encode blurred %s: %w", objectName, err)
	}
	return buf.Bytes(), nil
}
