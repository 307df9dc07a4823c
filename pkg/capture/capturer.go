package capture

import (
	"Invoice-Capture/domain"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const photoDirName = "invoice-capture"

// Capturer owns the private photo directory and turns camera shots into
// CapturedPhoto handles.
type Capturer struct {
	camera Camera
	dir    string
	log    *logrus.Logger
}

// NewCapturer uses primaryDir, or fallbackRoot/invoice-capture when the
// primary directory cannot be created.
func NewCapturer(camera Camera, primaryDir, fallbackRoot string, log *logrus.Logger) (*Capturer, error) {
	dir, err := resolveDir(primaryDir, fallbackRoot, log)
	if err != nil {
		return nil, err
	}
	return &Capturer{camera: camera, dir: dir, log: log}, nil
}

func resolveDir(primary, fallbackRoot string, log *logrus.Logger) (string, error) {
	if primary != "" {
		err := ensureWritable(primary)
		if err == nil {
			return primary, nil
		}
		log.WithError(err).WithField("dir", primary).Warn("photo directory unusable, falling back")
	}
	if fallbackRoot == "" {
		fallbackRoot = os.TempDir()
	}
	fallback := filepath.Join(fallbackRoot, photoDirName)
	if err := ensureWritable(fallback); err != nil {
		return "", &domain.IOError{Op: "create photo dir", Path: fallback, Err: err}
	}
	return fallback, nil
}

func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return err
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func (c *Capturer) Dir() string { return c.dir }

// Capture takes one shot into a fresh <uuid>.jpg file.
func (c *Capturer) Capture(ctx context.Context) (domain.CapturedPhoto, error) {
	filename := uuid.NewString() + ".jpg"
	path := filepath.Join(c.dir, filename)

	if err := c.camera.Capture(ctx, path); err != nil {
		if errors.Is(err, ErrNoMoreShots) || errors.Is(err, context.Canceled) {
			return domain.CapturedPhoto{}, err
		}
		return domain.CapturedPhoto{}, &domain.IOError{Op: "capture", Path: path, Err: err}
	}

	photo, err := Inspect(path)
	if err != nil {
		_ = os.Remove(path)
		return domain.CapturedPhoto{}, err
	}
	c.log.WithFields(logrus.Fields{
		"photo":  photo.Filename,
		"width":  photo.Width,
		"height": photo.Height,
	}).Debug("photo captured")
	return photo, nil
}

// Inspect reads the image header at path.
func Inspect(path string) (domain.CapturedPhoto, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.CapturedPhoto{}, &domain.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return domain.CapturedPhoto{}, &domain.IOError{Op: "decode header", Path: path, Err: err}
	}
	return domain.CapturedPhoto{
		Path:     path,
		Filename: filepath.Base(path),
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Discard removes the photo files. Missing files are ignored.
func Discard(photos ...domain.CapturedPhoto) error {
	var errs []error
	for _, p := range photos {
		if p.Path == "" {
			continue
		}
		if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
