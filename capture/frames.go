// Package capture provides the hardware side of the client: camera frames
// and audio containers.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

const (
	FrameWidth   = 640
	FrameHeight  = 480
	FrameQuality = 80
)

var ErrClosed = errors.New("capture: camera not open")

// Camera yields encoded still frames while open.
type Camera interface {
	Open(ctx context.Context) error
	Frame(ctx context.Context) ([]byte, error)
	Close() error
}

type FrameOptions struct {
	Width   int
	Height  int
	Quality int
}

func (o FrameOptions) withDefaults() FrameOptions {
	if o.Width <= 0 {
		o.Width = FrameWidth
	}
	if o.Height <= 0 {
		o.Height = FrameHeight
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = FrameQuality
	}
	return o
}

// DirCamera replays the images of a directory in name order, looping, as if
// they came from a webcam. Each frame is scaled to the configured size and
// re-encoded as JPEG.
type DirCamera struct {
	dir  string
	opts FrameOptions

	mu    sync.Mutex
	files []string
	next  int
	open  bool
}

func NewDirCamera(dir string, opts FrameOptions) *DirCamera {
	return &DirCamera{dir: dir, opts: opts.withDefaults()}
}

func (c *DirCamera) Open(ctx context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("open camera %s: %w", c.dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(c.dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("open camera %s: no jpeg or png frames", c.dir)
	}
	sort.Strings(files)

	c.mu.Lock()
	c.files, c.next, c.open = files, 0, true
	c.mu.Unlock()
	return nil
}

func (c *DirCamera) Frame(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	path := c.files[c.next]
	c.next = (c.next + 1) % len(c.files)
	c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return EncodeFrame(src, c.opts)
}

func (c *DirCamera) Close() error {
	c.mu.Lock()
	c.open = false
	c.files = nil
	c.mu.Unlock()
	return nil
}

// EncodeFrame scales src to the frame size and encodes it as JPEG.
func EncodeFrame(src image.Image, opts FrameOptions) ([]byte, error) {
	opts = opts.withDefaults()
	var img image.Image = src
	if b := src.Bounds(); b.Dx() != opts.Width || b.Dy() != opts.Height {
		dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
