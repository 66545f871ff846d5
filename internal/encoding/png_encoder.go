package encoding

import (
	"image"
	"image/png"
	"io"
)

//PNGEncoder png encoder
type PNGEncoder struct {
	encoder png.Encoder
}

func newPNGEncoder(Options) Encoder {
	return &PNGEncoder{encoder: png.Encoder{CompressionLevel: png.BestSpeed}}
}

//Encode writes img as png
func (e *PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return e.encoder.Encode(w, img)
}

func (*PNGEncoder) Extension() string   { return "png" }
func (*PNGEncoder) ContentType() string { return "image/png" }

func init() {
	registeredEncoders[PNG] = newPNGEncoder
}
