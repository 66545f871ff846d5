package encoding

import (
	"image"

	"github.com/nfnt/resize"
)

// Fit downscales img to maxWidth keeping the aspect ratio. Images already
// narrow enough, and a maxWidth of zero, return img unchanged.
func Fit(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}
