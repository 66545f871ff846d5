package rdisplay

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSupported is returned when no capture backend exists for the platform.
	ErrNotSupported = errors.New("screen capture not supported on this platform")
	// ErrClosed is returned by a capturer after Close.
	ErrClosed = errors.New("capturer closed")

	ErrNoDisplays       = errors.New("no displays found")
	ErrEnumeration      = errors.New("display enumeration failed")
	ErrDisplayNotFound  = errors.New("display not found")
	ErrExtensionMissing = errors.New("required X11 extension missing")
	ErrConnection       = errors.New("display server connection failed")
	ErrProtocol         = errors.New("display server request failed")
	ErrDeviceContext    = errors.New("device context unavailable")
	ErrAllocationFailed = errors.New("bitmap allocation failed")
	ErrSelectionFailed  = errors.New("bitmap selection failed")
	ErrBlitFailed       = errors.New("bit block transfer failed")
	ErrReleaseFailed    = errors.New("bitmap release failed")
	ErrScreenshotFailed = errors.New("screenshot failed")
)

// DisplayNotFoundError reports an index outside the enumerated display list.
type DisplayNotFoundError struct {
	Index int
	Count int
}

func (e *DisplayNotFoundError) Error() string {
	return fmt.Sprintf("display %d not found (%d available)", e.Index, e.Count)
}

// Is lets errors.Is match ErrDisplayNotFound.
func (e *DisplayNotFoundError) Is(target error) bool {
	return target == ErrDisplayNotFound
}
