package capture

import (
	"Invoice-Capture/domain"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
}

func TestScaledSize(t *testing.T) {
	cases := []struct {
		name         string
		w, h         int
		wantW, wantH int
		scaled       bool
	}{
		{"12MP landscape", 4000, 3000, 1672, 1254, true},
		{"12MP portrait", 3000, 4000, 1254, 1672, true},
		{"under budget", 1600, 1200, 1600, 1200, false},
		{"exactly on budget", 2048, 1024, 2048, 1024, false},
		{"tiny", 10, 10, 10, 10, false},
		{"zero", 0, 0, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h, scaled := ScaledSize(tc.w, tc.h, TargetPixels)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
			assert.Equal(t, tc.scaled, scaled)
		})
	}
}

func TestScaledSize_StaysWithinBudgetAndKeepsAspect(t *testing.T) {
	sizes := [][2]int{{4000, 3000}, {4032, 3024}, {5000, 1000}, {1449, 1449}, {8000, 6000}, {2049, 1024}}
	for _, s := range sizes {
		w, h, scaled := ScaledSize(s[0], s[1], TargetPixels)
		require.True(t, scaled, "%v", s)
		assert.LessOrEqual(t, w*h, TargetPixels, "%v", s)

		// Truncation moves each side by less than one pixel.
		want := float64(s[0]) / float64(s[1])
		assert.InDelta(t, want*float64(h), float64(w), want+1, "%v", s)
		assert.Greater(t, float64((w+1)*(h+1)), float64(TargetPixels)*0.99, "%v", s)
	}
}

func TestScaledSize_Formula(t *testing.T) {
	scale := math.Sqrt(4000.0 * 3000.0 / float64(TargetPixels))
	assert.InDelta(t, 2.392, scale, 0.001)
}

func TestResize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "orig.jpg")
	writeJPEG(t, src, 400, 300)

	photo, err := Inspect(src)
	require.NoError(t, err)
	assert.Equal(t, 400, photo.Width)
	assert.Equal(t, 300, photo.Height)

	resized, err := Resize(photo, 30000)
	require.NoError(t, err)
	assert.NotEqual(t, photo.Path, resized.Path)
	assert.Equal(t, dir, filepath.Dir(resized.Path))
	assert.Equal(t, 200, resized.Width)
	assert.Equal(t, 150, resized.Height)

	onDisk, err := Inspect(resized.Path)
	require.NoError(t, err)
	assert.Equal(t, resized, onDisk)

	_, err = os.Stat(src)
	assert.NoError(t, err, "original must be kept")
}

func TestResize_WithinBudgetIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.jpg")
	writeJPEG(t, src, 64, 48)

	photo, err := Inspect(src)
	require.NoError(t, err)

	out, err := Resize(photo, TargetPixels)
	require.NoError(t, err)
	assert.Equal(t, photo, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResize_UnreadableSource(t *testing.T) {
	photo := domain.CapturedPhoto{Path: filepath.Join(t.TempDir(), "gone.jpg"), Width: 4000, Height: 3000}

	_, err := Resize(photo, TargetPixels)
	var ioErr *domain.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)
}
