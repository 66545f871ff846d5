package rdisplay

import (
	"go.uber.org/zap"
)

// allPlanes requests every bit plane of the drawable.
const allPlanes = 0xffffffff

type config struct {
	logger      *zap.Logger
	displayName string
	noShm       bool
	planeMask   uint32
}

func defaultConfig() config {
	return config{
		logger:    zap.NewNop(),
		planeMask: allPlanes,
	}
}

// Option configures NewCapturer.
type Option func(*config)

// WithLogger sets the logger used by the backend.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDisplayName selects the X11 display to connect to. Empty means $DISPLAY.
// Other backends ignore it.
func WithDisplayName(name string) Option {
	return func(c *config) {
		c.displayName = name
	}
}

// WithoutSharedMemory disables the X11 shared-memory fast path.
func WithoutSharedMemory() Option {
	return func(c *config) {
		c.noShm = true
	}
}

// WithPlaneMask sets the plane mask of X11 image requests.
func WithPlaneMask(mask uint32) Option {
	return func(c *config) {
		c.planeMask = mask
	}
}
