package stellar

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-resize", "after-resize"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		128, 64, 0, 128, // half-transparent orange
		255, 255, 255, 255,
		0, 0, 0, 0,
	}
	img := unpremultiply(pixels, 3, 1)
	want := []color.NRGBA{{255, 127, 0, 128}, {255, 255, 255, 255}, {0, 0, 0, 0}}
	for x, w := range want {
		if got := img.NRGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestScreenshotQueueFlush(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	q := screenshotQueue{dir: dir}
	if q.pending() {
		t.Fatal("new queue pending")
	}
	q.push("first frame")
	q.push("lines")
	q.flush(image.NewNRGBA(image.Rect(0, 0, 4, 3)))

	if q.pending() {
		t.Error("labels left after flush")
	}
	if len(q.written) != 2 {
		t.Fatalf("written = %v", q.written)
	}
	if !strings.HasSuffix(q.written[0], "_first_frame.png") {
		t.Errorf("path = %s", q.written[0])
	}
	f, err := os.Open(q.written[1])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
}

func TestWritePNGBadPath(t *testing.T) {
	err := writePNG(filepath.Join(t.TempDir(), "missing", "x.png"), image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}
