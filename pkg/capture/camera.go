package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var ErrNoMoreShots = errors.New("camera has no more shots")

// Camera writes one full-resolution JPEG to path per call.
type Camera interface {
	Capture(ctx context.Context, path string) error
}

// FileCamera "shoots" by copying the next queued file. It stands in for a
// device camera on machines that have none.
type FileCamera struct {
	mu      sync.Mutex
	sources []string
}

func NewFileCamera(sources ...string) *FileCamera {
	return &FileCamera{sources: append([]string(nil), sources...)}
}

// Remaining reports how many queued shots are left.
func (c *FileCamera) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

func (c *FileCamera) next() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sources) == 0 {
		return "", false
	}
	src := c.sources[0]
	c.sources = c.sources[1:]
	return src, true
}

func (c *FileCamera) Capture(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src, ok := c.next()
	if !ok {
		return ErrNoMoreShots
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
