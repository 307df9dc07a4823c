package capture

import (
	"Invoice-Capture/domain"
	"image"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// TargetPixels is the 2 MP budget photos are downsampled to.
const TargetPixels = 2 * 1024 * 1024

// ScaledSize applies scale = sqrt(w*h/target). When scale > 1 the result is
// w/scale by h/scale, truncated; otherwise w and h are returned unchanged.
func ScaledSize(width, height, targetPixels int) (int, int, bool) {
	if width <= 0 || height <= 0 || targetPixels <= 0 {
		return width, height, false
	}
	scale := math.Sqrt(float64(width) * float64(height) / float64(targetPixels))
	if scale <= 1 {
		return width, height, false
	}
	return int(float64(width) / scale), int(float64(height) / scale), true
}

// Resize downsamples photo to targetPixels and writes the result as a new
// JPEG at maximum quality next to the original. Photos already within
// budget are returned as-is.
func Resize(photo domain.CapturedPhoto, targetPixels int) (domain.CapturedPhoto, error) {
	w, h, ok := ScaledSize(photo.Width, photo.Height, targetPixels)
	if !ok {
		return photo, nil
	}

	in, err := os.Open(photo.Path)
	if err != nil {
		return domain.CapturedPhoto{}, &domain.IOError{Op: "open", Path: photo.Path, Err: err}
	}
	src, _, err := image.Decode(in)
	in.Close()
	if err != nil {
		return domain.CapturedPhoto{}, &domain.IOError{Op: "decode", Path: photo.Path, Err: err}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	filename := uuid.NewString() + ".jpg"
	path := filepath.Join(filepath.Dir(photo.Path), filename)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return domain.CapturedPhoto{}, &domain.IOError{Op: "create", Path: path, Err: err}
	}
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: 100}); err != nil {
		out.Close()
		_ = os.Remove(path)
		return domain.CapturedPhoto{}, &domain.IOError{Op: "encode", Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return domain.CapturedPhoto{}, &domain.IOError{Op: "close", Path: path, Err: err}
	}

	return domain.CapturedPhoto{Path: path, Filename: filename, Width: w, Height: h}, nil
}
