package capture

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDirCamera_FramesLoopAndScale(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 32, 24, color.White)
	writePNG(t, filepath.Join(dir, "a.png"), 640, 480, color.Black)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644)

	cam := NewDirCamera(dir, FrameOptions{})
	ctx := context.Background()
	if err := cam.Open(ctx); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	var lum []uint32
	for i := 0; i < 3; i++ {
		data, err := cam.Frame(ctx)
		if err != nil {
			t.Fatalf("Frame() error = %v", err)
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("frame %d is not a jpeg: %v", i, err)
		}
		if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
			t.Errorf("frame %d size = %dx%d", i, b.Dx(), b.Dy())
		}
		r, _, _, _ := img.At(10, 10).RGBA()
		lum = append(lum, r)
	}
	// a.png (black), b.png (white), then back to a.png.
	if !(lum[0] < 0x1000 && lum[1] > 0xe000 && lum[2] < 0x1000) {
		t.Errorf("unexpected frame order, luminance = %v", lum)
	}
}

func TestDirCamera_Errors(t *testing.T) {
	ctx := context.Background()
	if err := NewDirCamera(filepath.Join(t.TempDir(), "missing"), FrameOptions{}).Open(ctx); err == nil {
		t.Error("expected error for missing directory")
	}
	if err := NewDirCamera(t.TempDir(), FrameOptions{}).Open(ctx); err == nil {
		t.Error("expected error for empty directory")
	}

	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4, color.White)
	cam := NewDirCamera(dir, FrameOptions{})
	if _, err := cam.Frame(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() before Open = %v, want ErrClosed", err)
	}
	cam.Open(ctx)
	cam.Close()
	if _, err := cam.Frame(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame() after Close = %v, want ErrClosed", err)
	}
}

func TestEncodeWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767}
	wav := EncodeWAV(samples, 16000, 1)

	if len(wav) != 44+len(samples)*2 {
		t.Fatalf("len = %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Errorf("bad chunk ids: %q", wav[:40])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 16000 {
		t.Errorf("sample rate = %d", rate)
	}
	if n := binary.LittleEndian.Uint32(wav[40:44]); n != 8 {
		t.Errorf("data len = %d", n)
	}
	if s := int16(binary.LittleEndian.Uint16(wav[46:48])); s != 1000 {
		t.Errorf("second sample = %d", s)
	}
}
