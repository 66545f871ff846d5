package rdisplay

import (
	"fmt"
)

// bytesPerQuad is the size of one native pixel on every backend:
// blue, green, red, unused.
const bytesPerQuad = 4

// normalizeBGRX copies a raw BGRX buffer into a new RGB image. stride is the
// number of bytes between source rows; pass width*4 for packed buffers.
//
// A short buffer means the backend miscomputed its own geometry, so it
// panics instead of returning an error.
func normalizeBGRX(raw []byte, width, height, stride int) *Image {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("rdisplay: invalid frame size %dx%d", width, height))
	}
	rowBytes := width * bytesPerQuad
	if stride < rowBytes {
		panic(fmt.Sprintf("rdisplay: stride %d shorter than row of %d bytes", stride, rowBytes))
	}
	img := NewImage(width, height)
	if width == 0 || height == 0 {
		return img
	}
	if need := stride*(height-1) + rowBytes; len(raw) < need {
		panic(fmt.Sprintf("rdisplay: raw buffer holds %d bytes, %dx%d frame needs %d", len(raw), width, height, need))
	}

	for y := 0; y < height; y++ {
		src := raw[y*stride : y*stride+rowBytes]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*3]
		for x, d := 0, 0; x < rowBytes; x, d = x+bytesPerQuad, d+3 {
			dst[d] = src[x+2]
			dst[d+1] = src[x+1]
			dst[d+2] = src[x]
		}
	}
	return img
}
