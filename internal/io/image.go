package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// Covers are always saved with a .jpg name, so whatever format the
// site serves is converted before writing. Resizing is optional.
//
// Example usage:
//
//	svc := NewImageService()
//	data, _ := client.Get(ctx, coverURL, timeout)
//	jpg, err := svc.ConvertToJPEG(data)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
//
// Returns an error if the data cannot be decoded as an image; callers
// fall back to writing the raw bytes in that case.
func (s *ImageService) ConvertToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to fit within the given maximum
// dimensions, preserving aspect ratio, and returns it JPEG-encoded.
//
// Images already within bounds are re-encoded unchanged in size.
// The Catmull-Rom algorithm is used for high-quality scaling.
func (s *ImageService) ResizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
