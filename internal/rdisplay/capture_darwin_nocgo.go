//go:build darwin && !cgo

package rdisplay

// newPlatformCapturer returns an error on macOS when built without CGO,
// since CoreGraphics is only reachable through CGO.
func newPlatformCapturer(cfg config) (Capturer, error) {
	return nil, ErrNotSupported
}
