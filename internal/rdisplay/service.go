package rdisplay

import (
	"image"
)

// Display is the geometry of one monitor in the backend's native coordinate
// space. Width and Height are the visual, post-rotation dimensions.
type Display struct {
	Top    int `json:"top" yaml:"top"`
	Left   int `json:"left" yaml:"left"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Bounds returns the display rectangle in desktop coordinates.
func (d Display) Bounds() image.Rectangle {
	return image.Rect(d.Left, d.Top, d.Left+d.Width, d.Top+d.Height)
}

// Capturer grabs single frames from the displays of the running desktop
// session. Implementations are not safe for concurrent use.
type Capturer interface {
	// Displays returns a copy of the enumerated displays, in OS order.
	Displays() []Display
	// Capture returns a snapshot of the display at index.
	Capture(index int) (*Image, error)
	// CaptureAll captures every display in Displays order. The first
	// failure aborts the batch.
	CaptureAll() ([]*Image, error)
	// Close releases the OS resources held by the capturer.
	Close() error
}

// PrimaryCapturer is implemented by capturers that know which display is
// the primary one.
type PrimaryCapturer interface {
	Capturer
	PrimaryIndex() int
	CapturePrimary() (*Image, error)
}

// Refresher is implemented by capturers that can re-enumerate displays
// in place.
type Refresher interface {
	Capturer
	RefreshDisplays() error
}

// NewCapturer initializes the capture backend compiled in for this platform.
func NewCapturer(opts ...Option) (Capturer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newPlatformCapturer(cfg)
}
