//go:build freebsd || openbsd || netbsd

package rdisplay

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

// screenshotCapturer delegates to kbinani/screenshot on platforms without a
// native backend in this package.
type screenshotCapturer struct {
	logger *zap.Logger
	set    displaySet
	closed bool
}

func newPlatformCapturer(cfg config) (Capturer, error) {
	set, err := newDisplaySet(enumerateScreenshot())
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("screenshot capturer ready", zap.Int("displays", len(set.displays)))
	return &screenshotCapturer{logger: cfg.logger, set: set}, nil
}

func enumerateScreenshot() []Display {
	n := screenshot.NumActiveDisplays()
	displays := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, displayFromEdges(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y))
	}
	return displays
}

func (c *screenshotCapturer) Displays() []Display {
	return c.set.list()
}

func (c *screenshotCapturer) Capture(index int) (*Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	d, err := c.set.lookup(index)
	if err != nil {
		return nil, err
	}
	rgba, err := screenshot.CaptureRect(d.Bounds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	return fromRGBA(rgba), nil
}

func (c *screenshotCapturer) CaptureAll() ([]*Image, error) {
	return captureAll(len(c.set.displays), c.Capture)
}

func (c *screenshotCapturer) PrimaryIndex() int {
	return c.set.primary
}

func (c *screenshotCapturer) CapturePrimary() (*Image, error) {
	return c.Capture(c.set.primary)
}

func (c *screenshotCapturer) RefreshDisplays() error {
	if c.closed {
		return ErrClosed
	}
	return c.set.replace(enumerateScreenshot(), nil)
}

func (c *screenshotCapturer) Close() error {
	c.closed = true
	return nil
}

// fromRGBA drops the alpha channel of an RGBA frame.
func fromRGBA(src *image.RGBA) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for y := 0; y < img.Height; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+img.Width*4]
		d := img.Pix[y*img.Stride : y*img.Stride+img.Width*3]
		for x, o := 0, 0; x < len(s); x, o = x+4, o+3 {
			d[o], d[o+1], d[o+2] = s[x], s[x+1], s[x+2]
		}
	}
	return img
}

var (
	_ PrimaryCapturer = (*screenshotCapturer)(nil)
	_ Refresher       = (*screenshotCapturer)(nil)
)
