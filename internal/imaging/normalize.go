// Package imaging bounds the size of uploaded photos before they are sent
// to the vision API. Compression is best effort: a photo that cannot be
// decoded is forwarded as-is.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
)

const (
	// MaxDimension is the longest edge allowed after normalization.
	MaxDimension = 1000
	// JPEGQuality is the quality factor for re-encoding.
	JPEGQuality = 80
)

// Normalize downscales img so neither dimension exceeds MaxDimension
// (aspect ratio preserved, small images are never upscaled) and re-encodes
// it as JPEG. On any processing failure the original bytes are returned
// unchanged.
func Normalize(data []byte) []byte {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("[WARN] Image normalization skipped, decode failed: %v", err)
		return data
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return data
	}

	newW, newH := fit(w, h, MaxDimension)
	out := src
	if newW != w || newH != h {
		out = scaleDown(src, newW, newH)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		log.Printf("[WARN] Image normalization skipped, encode failed: %v", err)
		return data
	}
	return buf.Bytes()
}

// Dimensions reports the pixel dimensions of an encoded image.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// fit returns the target dimensions so that neither edge exceeds max,
// never growing the image.
func fit(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, h * max / w
	}
	return w * max / h, max
}

func scaleDown(src image.Image, newW, newH int) image.Image {
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	sb := src.Bounds()
	srcW := sb.Dx()
	srcH := sb.Dy()
	for y := 0; y < newH; y++ {
		sy := sb.Min.Y + (y*srcH)/newH
		for x := 0; x < newW; x++ {
			sx := sb.Min.X + (x*srcW)/newW
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}
