package rdisplay

import (
	"strings"
	"testing"
)

// quadFor returns a distinct BGRX quad for pixel (x, y).
func quadFor(x, y int) (r, g, b uint8) {
	return uint8(10*x + 1), uint8(20*y + 2), uint8(x*y + 3)
}

func makeBGRX(width, height, stride int) []byte {
	raw := make([]byte, stride*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b := quadFor(x, y)
			i := y*stride + x*4
			raw[i], raw[i+1], raw[i+2], raw[i+3] = b, g, r, 0xee
		}
	}
	return raw
}

func TestNormalizeBGRX(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		stride        int
	}{
		{"packed 4x2", 4, 2, 16},
		{"packed odd 5x3", 5, 3, 20},
		{"padded rows 3x3", 3, 3, 16},
		{"padded rows 7x2", 7, 2, 64},
		{"single pixel", 1, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := normalizeBGRX(makeBGRX(tt.width, tt.height, tt.stride), tt.width, tt.height, tt.stride)
			if img.Width != tt.width || img.Height != tt.height {
				t.Fatalf("size = %dx%d, want %dx%d", img.Width, img.Height, tt.width, tt.height)
			}
			if len(img.Pix) != tt.width*tt.height*3 {
				t.Fatalf("len(Pix) = %d, want %d", len(img.Pix), tt.width*tt.height*3)
			}
			for y := 0; y < tt.height; y++ {
				for x := 0; x < tt.width; x++ {
					r, g, b := quadFor(x, y)
					got := img.RGBAt(x, y)
					if got.R != r || got.G != g || got.B != b {
						t.Fatalf("pixel (%d,%d) = %v, want (%d,%d,%d)", x, y, got, r, g, b)
					}
				}
			}
		})
	}
}

func TestNormalizeBGRXAcceptsShortLastRow(t *testing.T) {
	// The last row of a padded buffer need not carry its padding.
	raw := makeBGRX(2, 2, 12)[:12+8]
	img := normalizeBGRX(raw, 2, 2, 12)
	if got := img.RGBAt(1, 1); got.R != 11 {
		t.Fatalf("pixel (1,1) R = %d, want 11", got.R)
	}
}

func TestNormalizeBGRXEmpty(t *testing.T) {
	img := normalizeBGRX(nil, 0, 0, 0)
	if img.Width != 0 || img.Height != 0 || len(img.Pix) != 0 {
		t.Fatalf("expected empty image, got %dx%d with %d bytes", img.Width, img.Height, len(img.Pix))
	}
}

func TestNormalizeBGRXPanics(t *testing.T) {
	tests := []struct {
		name          string
		raw           []byte
		width, height int
		stride        int
		want          string
	}{
		{"short buffer", make([]byte, 15), 2, 2, 8, "raw buffer"},
		{"stride below row", make([]byte, 64), 4, 2, 12, "stride"},
		{"negative size", nil, -1, 2, 0, "invalid frame size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if msg, _ := r.(string); !strings.Contains(msg, tt.want) {
					t.Fatalf("panic = %v, want it to mention %q", r, tt.want)
				}
			}()
			normalizeBGRX(tt.raw, tt.width, tt.height, tt.stride)
		})
	}
}
