// Package imaging normalizes uploaded product photos into a single storage
// format: JPEG, no side longer than MaxDimension.
package imaging

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"time"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// ErrBadImage marks input that is not a decodable JPEG or PNG. Callers treat
// it as a client error; any other failure is a processing error.
var ErrBadImage = errors.New("not a supported image")

// allowedMIME lists the accepted input MIME types, as sniffed from the bytes.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Result is a normalized upload ready for storage.
type Result struct {
	Data []byte
	MIME string
}

// Normalize reads uploaded image data, sniffs the real format from the bytes
// (the declared content type is ignored), downscales anything larger than
// MaxDimension, and re-encodes. The output is always JPEG, whatever came in.
func Normalize(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	if mime := http.DetectContentType(data); !allowedMIME[mime] {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrBadImage, mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return &Result{
		Data: buf.Bytes(),
		MIME: "image/jpeg",
	}, nil
}

// StorageName derives a collision-resistant object name for remote storage:
// UTC timestamp plus random suffix. The extension is always .jpg because
// Normalize re-encodes everything as JPEG.
func StorageName() string {
	buf := make([]byte, 4)
	rand.Read(buf)
	return fmt.Sprintf("%s-%s.jpg", time.Now().UTC().Format("20060102T150405"), hex.EncodeToString(buf))
}

// downscale scales the image so its longest side is at most maxDim, keeping
// the aspect ratio. Images already within bounds pass through untouched.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longest := max(w, h)
	if longest <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longest)
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// jpeg registers itself on import; png is pulled in for its decoder.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
