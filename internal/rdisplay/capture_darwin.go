//go:build darwin && cgo

package rdisplay

/*
#cgo CFLAGS: -Wno-deprecated-declarations
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>

#define MAX_DISPLAYS 32

typedef struct {
    double x;
    double y;
    double width;
    double height;
    double rotation;
} DisplayInfo;

// listDisplays fills out with the active displays and returns their count,
// or -1 when the display list cannot be read.
static int listDisplays(DisplayInfo* out) {
    CGDirectDisplayID ids[MAX_DISPLAYS];
    uint32_t count = 0;
    if (CGGetActiveDisplayList(MAX_DISPLAYS, ids, &count) != kCGErrorSuccess) {
        return -1;
    }
    for (uint32_t i = 0; i < count; i++) {
        CGRect bounds = CGDisplayBounds(ids[i]);
        out[i].x = bounds.origin.x;
        out[i].y = bounds.origin.y;
        out[i].width = bounds.size.width;
        out[i].height = bounds.size.height;
        out[i].rotation = CGDisplayRotation(ids[i]);
    }
    return (int)count;
}

typedef struct {
    CFDataRef data;
    const UInt8* bytes;
    long length;
    long width;
    long height;
    long bytesPerRow;
    long bitsPerPixel;
    int error;
} Screenshot;

// captureRect composites every on-screen window inside rect into a bitmap
// and copies out its backing bytes. The caller releases data.
static Screenshot captureRect(double x, double y, double width, double height) {
    Screenshot s = {0};
    CGImageRef image = CGWindowListCreateImage(
        CGRectMake(x, y, width, height),
        kCGWindowListOptionAll,
        kCGNullWindowID,
        kCGWindowImageDefault
    );
    if (image == NULL) {
        s.error = 1;
        return s;
    }

    s.width = (long)CGImageGetWidth(image);
    s.height = (long)CGImageGetHeight(image);
    s.bytesPerRow = (long)CGImageGetBytesPerRow(image);
    s.bitsPerPixel = (long)CGImageGetBitsPerPixel(image);

    s.data = CGDataProviderCopyData(CGImageGetDataProvider(image));
    CGImageRelease(image);
    if (s.data == NULL) {
        s.error = 2;
        return s;
    }
    s.bytes = CFDataGetBytePtr(s.data);
    s.length = (long)CFDataGetLength(s.data);
    return s;
}

static void releaseScreenshot(Screenshot* s) {
    if (s->data != NULL) {
        CFRelease(s->data);
        s->data = NULL;
    }
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"
)

// cgCapturer captures displays with CoreGraphics. It holds no OS resources
// between calls.
type cgCapturer struct {
	logger *zap.Logger
	set    displaySet
	closed bool
}

func newPlatformCapturer(cfg config) (Capturer, error) {
	displays, err := enumerateCG()
	if err != nil {
		return nil, err
	}
	set, err := newDisplaySet(displays)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("coregraphics capturer ready",
		zap.Int("displays", len(displays)),
		zap.Int("primary", set.primary))
	return &cgCapturer{logger: cfg.logger, set: set}, nil
}

func enumerateCG() ([]Display, error) {
	var infos [C.MAX_DISPLAYS]C.DisplayInfo
	n := int(C.listDisplays(&infos[0]))
	if n < 0 {
		return nil, fmt.Errorf("%w: CGGetActiveDisplayList failed", ErrEnumeration)
	}
	if n == 0 {
		return nil, ErrNoDisplays
	}
	displays := make([]Display, 0, n)
	for _, info := range infos[:n] {
		displays = append(displays, displayFromRotatedBounds(
			float64(info.x), float64(info.y),
			float64(info.width), float64(info.height),
			float64(info.rotation)))
	}
	return displays, nil
}

func (c *cgCapturer) Displays() []Display {
	return c.set.list()
}

// Capture screenshots the display's rectangle. The image takes the bitmap's
// own size, which is larger than the display's on scaled (Retina) screens.
func (c *cgCapturer) Capture(index int) (*Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	d, err := c.set.lookup(index)
	if err != nil {
		return nil, err
	}

	shot := C.captureRect(C.double(d.Left), C.double(d.Top), C.double(d.Width), C.double(d.Height))
	if shot.error != 0 {
		return nil, translateDarwinError(int(shot.error))
	}
	defer C.releaseScreenshot(&shot)

	if bpp := int(shot.bitsPerPixel); bpp != bytesPerQuad*8 {
		return nil, fmt.Errorf("%w: unsupported %d bits per pixel", ErrScreenshotFailed, bpp)
	}
	width, height, stride := int(shot.width), int(shot.height), int(shot.bytesPerRow)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(shot.bytes)), int(shot.length))
	return normalizeBGRX(raw, width, height, stride), nil
}

func (c *cgCapturer) CaptureAll() ([]*Image, error) {
	return captureAll(len(c.set.displays), c.Capture)
}

func (c *cgCapturer) PrimaryIndex() int {
	return c.set.primary
}

func (c *cgCapturer) CapturePrimary() (*Image, error) {
	return c.Capture(c.set.primary)
}

// RefreshDisplays re-enumerates and swaps the list and primary index together.
func (c *cgCapturer) RefreshDisplays() error {
	if c.closed {
		return ErrClosed
	}
	displays, err := enumerateCG()
	return c.set.replace(displays, err)
}

func (c *cgCapturer) Close() error {
	c.closed = true
	return nil
}

// translateDarwinError converts captureRect error codes to Go errors.
func translateDarwinError(code int) error {
	switch code {
	case 1:
		return fmt.Errorf("%w: no image returned (is screen recording permitted?)", ErrScreenshotFailed)
	case 2:
		return fmt.Errorf("%w: bitmap data unavailable", ErrScreenshotFailed)
	default:
		return fmt.Errorf("%w: unknown error %d", ErrScreenshotFailed, code)
	}
}

var (
	_ PrimaryCapturer = (*cgCapturer)(nil)
	_ Refresher       = (*cgCapturer)(nil)
)
