package rdisplay

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestImageAccessors(t *testing.T) {
	img := NewImage(3, 2)
	img.SetRGB(2, 1, 1, 2, 3)
	img.SetRGB(5, 5, 9, 9, 9) // out of bounds, ignored

	if got := img.RGBAt(2, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xff}) {
		t.Fatalf("RGBAt(2,1) = %v", got)
	}
	if got := img.At(-1, 0); got != (color.RGBA{}) {
		t.Fatalf("At outside bounds = %v, want zero", got)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("Bounds = %v", b)
	}
	if off := img.PixOffset(2, 1); off != 15 {
		t.Fatalf("PixOffset(2,1) = %d, want 15", off)
	}
	if got := img.Bytes(); len(got) != 18 || got[15] != 1 || got[17] != 3 {
		t.Fatalf("Bytes = %v", got)
	}
}

func TestImageBytesRepacksStride(t *testing.T) {
	img := &Image{Width: 1, Height: 2, Stride: 4, Pix: []uint8{1, 2, 3, 0, 4, 5, 6}}
	want := []byte{1, 2, 3, 4, 5, 6}
	if got := img.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("Bytes = %v, want %v", got, want)
	}
}

func TestImageEncodesAsPNG(t *testing.T) {
	img := NewImage(2, 2)
	img.SetRGB(0, 0, 255, 0, 0)
	img.SetRGB(1, 1, 0, 0, 255)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 || g != 0 || b != 0 {
		t.Fatalf("decoded (0,0) = %d,%d,%d", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = decoded.At(1, 1).RGBA()
	if r != 0 || g != 0 || b>>8 != 255 {
		t.Fatalf("decoded (1,1) = %d,%d,%d", r>>8, g>>8, b>>8)
	}
}
