package encoding

import (
	"image"
	"image/jpeg"
	"io"
)

//JPEGEncoder jpeg encoder
type JPEGEncoder struct {
	quality int
}

func newJPEGEncoder(opts Options) Encoder {
	return &JPEGEncoder{quality: opts.Quality}
}

//Encode writes img as baseline jpeg
func (e *JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: e.quality})
}

func (*JPEGEncoder) Extension() string   { return "jpg" }
func (*JPEGEncoder) ContentType() string { return "image/jpeg" }

func init() {
	registeredEncoders[JPEG] = newJPEGEncoder
}
