//go:build !darwin && !windows && !linux && !freebsd && !openbsd && !netbsd

package rdisplay

// newPlatformCapturer returns an error on unsupported platforms
func newPlatformCapturer(cfg config) (Capturer, error) {
	return nil, ErrNotSupported
}
