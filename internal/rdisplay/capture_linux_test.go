//go:build linux

package rdisplay

import (
	"bytes"
	"errors"
	"os"
	"testing"
)

// newX11Capturer connects to the X server in $DISPLAY, skipping the test
// when none is reachable.
func newX11Capturer(t *testing.T, opts ...Option) *x11Capturer {
	t.Helper()
	if os.Getenv("DISPLAY") == "" {
		t.Skip("DISPLAY not set")
	}
	c, err := NewCapturer(opts...)
	if errors.Is(err, ErrConnection) || errors.Is(err, ErrExtensionMissing) {
		t.Skipf("no usable X server: %v", err)
	}
	if err != nil {
		t.Fatalf("NewCapturer: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c.(*x11Capturer)
}

func TestX11CaptureMatchesDisplayGeometry(t *testing.T) {
	for _, tt := range []struct {
		name string
		opts []Option
	}{
		{"default", nil},
		{"standard path", []Option{WithoutSharedMemory()}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := newX11Capturer(t, tt.opts...)
			displays := c.Displays()
			if len(displays) == 0 {
				t.Fatal("no displays after successful init")
			}
			for i, d := range displays {
				img, err := c.Capture(i)
				if err != nil {
					t.Fatalf("Capture(%d): %v", i, err)
				}
				if img.Width != d.Width || img.Height != d.Height {
					t.Fatalf("Capture(%d) size = %dx%d, want %dx%d", i, img.Width, img.Height, d.Width, d.Height)
				}
			}
		})
	}
}

func TestX11CaptureOutOfRange(t *testing.T) {
	c := newX11Capturer(t)
	n := len(c.Displays())
	for _, index := range []int{n, n + 1, n + 100, -1} {
		if _, err := c.Capture(index); !errors.Is(err, ErrDisplayNotFound) {
			t.Fatalf("Capture(%d) error = %v, want ErrDisplayNotFound", index, err)
		}
	}
	if _, err := c.Capture(0); err != nil {
		t.Fatalf("Capture(0) after failed lookups: %v", err)
	}
}

func TestX11SharedMemoryMatchesStandardPath(t *testing.T) {
	fast := newX11Capturer(t)
	if !fast.SharedMemory() {
		t.Skip("MIT-SHM unavailable")
	}
	slow := newX11Capturer(t, WithoutSharedMemory())
	if slow.SharedMemory() {
		t.Fatal("WithoutSharedMemory still selected the shm path")
	}

	var frames [][]byte
	for _, c := range []*x11Capturer{fast, fast, slow, slow} {
		img, err := c.Capture(0)
		if err != nil {
			t.Fatalf("Capture(0): %v", err)
		}
		frames = append(frames, img.Bytes())
	}
	for i := 1; i < len(frames); i++ {
		if !bytes.Equal(frames[0], frames[i]) {
			t.Fatalf("frame %d differs from frame 0", i)
		}
	}
}

func TestX11CaptureAllMatchesCapture(t *testing.T) {
	c := newX11Capturer(t)
	all, err := c.CaptureAll()
	if err != nil {
		t.Fatalf("CaptureAll: %v", err)
	}
	if len(all) != len(c.Displays()) {
		t.Fatalf("CaptureAll returned %d images for %d displays", len(all), len(c.Displays()))
	}
	for i, img := range all {
		single, err := c.Capture(i)
		if err != nil {
			t.Fatalf("Capture(%d): %v", i, err)
		}
		if !bytes.Equal(img.Bytes(), single.Bytes()) {
			t.Fatalf("CaptureAll()[%d] differs from Capture(%d)", i, i)
		}
	}
}

func TestX11SharedMemoryDoesNotLeak(t *testing.T) {
	first := newX11Capturer(t)
	if !first.SharedMemory() {
		t.Skip("MIT-SHM unavailable")
	}
	first.Close()

	for i := 0; i < 100; i++ {
		c, err := NewCapturer()
		if err != nil {
			t.Fatalf("iteration %d: NewCapturer: %v", i, err)
		}
		if !c.(*x11Capturer).SharedMemory() {
			c.Close()
			t.Fatalf("iteration %d: shared memory segment could not be re-acquired", i)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("iteration %d: Close: %v", i, err)
		}
	}
}

func TestX11RefreshAndClose(t *testing.T) {
	c := newX11Capturer(t)
	before := c.Displays()
	if err := c.RefreshDisplays(); err != nil {
		t.Fatalf("RefreshDisplays: %v", err)
	}
	if len(c.Displays()) != len(before) {
		t.Fatalf("display count changed from %d to %d on a static server", len(before), len(c.Displays()))
	}
	if _, err := c.CapturePrimary(); err != nil {
		t.Fatalf("CapturePrimary: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := c.Capture(0); !errors.Is(err, ErrClosed) {
		t.Fatalf("Capture after Close error = %v, want ErrClosed", err)
	}
}
