//go:build windows

package rdisplay

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/lxn/win"
	"go.uber.org/zap"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetWindowDC         = user32.NewProc("GetWindowDC")
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procSetProcessDPIAware  = user32.NewProc("SetProcessDPIAware")
	procCreateDIBSection    = gdi32.NewProc("CreateDIBSection")
)

// captureBlt includes layered windows in the BitBlt.
const captureBlt = 0x40000000

var dpiAwareOnce sync.Once

// EnumDisplayMonitors hands rectangles to a callback. Callbacks created with
// NewCallback are never freed, so one is shared and the enumeration it
// feeds is serialized.
var (
	enumMu       sync.Mutex
	enumDisplays []Display
	enumCallback = windows.NewCallback(func(_ win.HMONITOR, _ win.HDC, rect *win.RECT, _ uintptr) uintptr {
		enumDisplays = append(enumDisplays, displayFromEdges(
			int(rect.Left), int(rect.Top), int(rect.Right), int(rect.Bottom)))
		return 1
	})
)

// gdiCapturer captures displays with GDI. The window DC and its compatible
// memory DC live as long as the capturer; a DIB section is created per frame.
type gdiCapturer struct {
	hdc          win.HDC
	memDC        win.HDC
	bitsPerPixel uint16
	logger       *zap.Logger

	set    displaySet
	closed bool
}

func newPlatformCapturer(cfg config) (Capturer, error) {
	dpiAwareOnce.Do(func() {
		if procSetProcessDPIAware.Find() == nil {
			procSetProcessDPIAware.Call()
		}
	})

	r, _, _ := procGetWindowDC.Call(0)
	hdc := win.HDC(r)
	if hdc == 0 {
		return nil, fmt.Errorf("%w: GetWindowDC failed", ErrDeviceContext)
	}

	memDC := win.CreateCompatibleDC(hdc)
	if memDC == 0 {
		win.ReleaseDC(0, hdc)
		return nil, fmt.Errorf("%w: CreateCompatibleDC failed", ErrDeviceContext)
	}

	c := &gdiCapturer{
		hdc:          hdc,
		memDC:        memDC,
		bitsPerPixel: uint16(win.GetDeviceCaps(hdc, win.BITSPIXEL)),
		logger:       cfg.logger,
	}
	if c.bitsPerPixel != 32 {
		// The DIB section converts on BitBlt, so frames stay in the BGRX layout.
		c.logger.Debug("display is not 32 bpp, requesting 32 bpp sections",
			zap.Uint16("bpp", c.bitsPerPixel))
		c.bitsPerPixel = 32
	}

	displays, err := enumerateMonitors()
	if err == nil {
		c.set, err = newDisplaySet(displays)
	}
	if err != nil {
		c.releaseDCs()
		return nil, err
	}

	c.logger.Debug("gdi capturer ready", zap.Int("displays", len(displays)))
	return c, nil
}

func enumerateMonitors() ([]Display, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumDisplays = nil
	r, _, callErr := procEnumDisplayMonitors.Call(0, 0, enumCallback, 0)
	displays := enumDisplays
	enumDisplays = nil
	if r == 0 {
		return nil, fmt.Errorf("%w: EnumDisplayMonitors: %v", ErrEnumeration, callErr)
	}
	if len(displays) == 0 {
		return nil, ErrNoDisplays
	}
	return displays, nil
}

func (c *gdiCapturer) Displays() []Display {
	return c.set.list()
}

// Capture copies the display into a fresh DIB section. If only releasing the
// section fails, the image is returned together with an ErrReleaseFailed error.
func (c *gdiCapturer) Capture(index int) (*Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	d, err := c.set.lookup(index)
	if err != nil {
		return nil, err
	}

	header := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(d.Width),
		BiHeight:      -int32(d.Height), // top-down rows
		BiPlanes:      1,
		BiBitCount:    c.bitsPerPixel,
		BiCompression: win.BI_RGB,
	}
	var bits unsafe.Pointer
	r, _, _ := procCreateDIBSection.Call(
		uintptr(c.hdc),
		uintptr(unsafe.Pointer(&header)),
		uintptr(win.DIB_RGB_COLORS),
		uintptr(unsafe.Pointer(&bits)),
		0,
		0,
	)
	section := win.HBITMAP(r)
	if section == 0 || bits == nil {
		return nil, fmt.Errorf("%w: CreateDIBSection %dx%d", ErrAllocationFailed, d.Width, d.Height)
	}

	old := win.SelectObject(c.memDC, win.HGDIOBJ(section))
	if old == 0 {
		win.DeleteObject(win.HGDIOBJ(section))
		return nil, ErrSelectionFailed
	}

	if !win.BitBlt(c.memDC, 0, 0, int32(d.Width), int32(d.Height),
		c.hdc, int32(d.Left), int32(d.Top), win.SRCCOPY|captureBlt) {
		win.SelectObject(c.memDC, old)
		win.DeleteObject(win.HGDIOBJ(section))
		return nil, ErrBlitFailed
	}

	raw := unsafe.Slice((*byte)(bits), d.Width*d.Height*bytesPerQuad)
	img := normalizeBGRX(raw, d.Width, d.Height, d.Width*bytesPerQuad)

	win.SelectObject(c.memDC, old)
	if !win.DeleteObject(win.HGDIOBJ(section)) {
		return img, ErrReleaseFailed
	}
	return img, nil
}

func (c *gdiCapturer) CaptureAll() ([]*Image, error) {
	return captureAll(len(c.set.displays), c.Capture)
}

func (c *gdiCapturer) PrimaryIndex() int {
	return c.set.primary
}

func (c *gdiCapturer) CapturePrimary() (*Image, error) {
	return c.Capture(c.set.primary)
}

func (c *gdiCapturer) RefreshDisplays() error {
	if c.closed {
		return ErrClosed
	}
	displays, err := enumerateMonitors()
	return c.set.replace(displays, err)
}

// Close releases both device contexts. It is safe to call more than once.
func (c *gdiCapturer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.releaseDCs()
	return nil
}

func (c *gdiCapturer) releaseDCs() {
	if !win.DeleteDC(c.memDC) {
		c.logger.Debug("DeleteDC failed")
	}
	if !win.ReleaseDC(0, c.hdc) {
		c.logger.Debug("ReleaseDC failed")
	}
}

var (
	_ PrimaryCapturer = (*gdiCapturer)(nil)
	_ Refresher       = (*gdiCapturer)(nil)
)
