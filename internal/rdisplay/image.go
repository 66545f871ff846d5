package rdisplay

import (
	"image"
	"image/color"
)

// Image is an owned 8-bit RGB raster, 3 bytes per pixel, row-major,
// top-to-bottom. It implements image.Image so it can be handed to any
// encoder directly.
type Image struct {
	Width  int
	Height int
	// Stride is the byte distance between vertically adjacent pixels.
	Stride int
	Pix    []uint8
}

// NewImage allocates a zeroed width x height RGB image.
func NewImage(width, height int) *Image {
	if width < 0 || height < 0 {
		panic("rdisplay: negative image size")
	}
	return &Image{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pix:    make([]uint8, width*height*3),
	}
}

// ColorModel implements image.Image.
func (p *Image) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (p *Image) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

// At implements image.Image.
func (p *Image) At(x, y int) color.Color { return p.RGBAt(x, y) }

// PixOffset returns the index of the first byte of pixel (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return y*p.Stride + x*3
}

// RGBAt returns the opaque color of pixel (x, y), or the zero color when
// the point lies outside the image.
func (p *Image) RGBAt(x, y int) color.RGBA {
	if !image.Pt(x, y).In(p.Bounds()) {
		return color.RGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
}

// SetRGB sets pixel (x, y). Points outside the image are ignored.
func (p *Image) SetRGB(x, y int, r, g, b uint8) {
	if !image.Pt(x, y).In(p.Bounds()) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+3 : i+3]
	s[0], s[1], s[2] = r, g, b
}

// Bytes returns the tightly packed row-major RGB buffer.
func (p *Image) Bytes() []byte {
	if p.Stride == p.Width*3 {
		return p.Pix[:p.Width*p.Height*3]
	}
	out := make([]byte, 0, p.Width*p.Height*3)
	for y := 0; y < p.Height; y++ {
		row := y * p.Stride
		out = append(out, p.Pix[row:row+p.Width*3]...)
	}
	return out
}

var _ image.Image = (*Image)(nil)
