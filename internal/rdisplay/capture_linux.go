//go:build linux

package rdisplay

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"go.uber.org/zap"
)

// x11Capturer captures displays over the X11 protocol. Pixels travel either
// inline in the reply or through a shared-memory segment, chosen once at
// construction.
type x11Capturer struct {
	conn   *xgb.Conn
	source pixelSource
	logger *zap.Logger

	set    displaySet
	roots  []xproto.Window // root window of each display, parallel to set
	closed bool
}

func newPlatformCapturer(cfg config) (Capturer, error) {
	conn, err := xgb.NewConnDisplay(cfg.displayName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: RANDR: %v", ErrExtensionMissing, err)
	}

	c := &x11Capturer{
		conn:   conn,
		logger: cfg.logger,
	}
	c.source = c.selectSource(cfg)

	displays, roots, err := enumerateX11(conn, cfg.logger)
	if err == nil {
		c.set, err = newDisplaySet(displays)
	}
	if err != nil {
		c.source.release()
		conn.Close()
		return nil, err
	}
	c.roots = roots

	c.logger.Debug("x11 capturer ready",
		zap.String("path", c.source.name()),
		zap.Int("displays", len(displays)))
	return c, nil
}

// selectSource prefers the shared-memory path and falls back to the wire
// path on any failure.
func (c *x11Capturer) selectSource(cfg config) pixelSource {
	wire := &wireSource{conn: c.conn, planeMask: cfg.planeMask}
	if cfg.noShm {
		return wire
	}

	src, err := newShmSource(c.conn, largestRootArea(c.conn)*bytesPerQuad, cfg.planeMask, c.logger)
	if err != nil {
		c.logger.Warn("shared memory capture unavailable, using standard path", zap.Error(err))
		return wire
	}
	return src
}

// largestRootArea returns the pixel area of the biggest root screen.
func largestRootArea(conn *xgb.Conn) int {
	area := 0
	for _, screen := range xproto.Setup(conn).Roots {
		if a := int(screen.WidthInPixels) * int(screen.HeightInPixels); a > area {
			area = a
		}
	}
	return area
}

// enumerateX11 lists the enabled CRTCs of every root screen. Screens and
// CRTCs the server cannot describe are skipped.
func enumerateX11(conn *xgb.Conn, logger *zap.Logger) ([]Display, []xproto.Window, error) {
	var (
		displays []Display
		roots    []xproto.Window
	)
	for _, screen := range xproto.Setup(conn).Roots {
		crtcs, ts, err := screenCrtcs(conn, screen.Root)
		if err != nil {
			logger.Debug("skipping screen without randr resources",
				zap.Uint32("root", uint32(screen.Root)), zap.Error(err))
			continue
		}
		for _, crtc := range crtcs {
			info, err := randr.GetCrtcInfo(conn, crtc, ts).Reply()
			if err != nil || info == nil {
				continue
			}
			if info.Mode == 0 || info.Width == 0 || info.Height == 0 {
				continue
			}
			displays = append(displays, Display{
				Top:    int(info.Y),
				Left:   int(info.X),
				Width:  int(info.Width),
				Height: int(info.Height),
			})
			roots = append(roots, screen.Root)
		}
	}
	if len(displays) == 0 {
		return nil, nil, ErrNoDisplays
	}
	return displays, roots, nil
}

// screenCrtcs prefers the cheap "current" query and falls back to the full
// resources query on servers that do not implement it.
func screenCrtcs(conn *xgb.Conn, root xproto.Window) ([]randr.Crtc, xproto.Timestamp, error) {
	cur, err := randr.GetScreenResourcesCurrent(conn, root).Reply()
	if err == nil && cur != nil {
		return cur.Crtcs, cur.ConfigTimestamp, nil
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: GetScreenResources: %v", ErrEnumeration, err)
	}
	if res == nil {
		return nil, 0, fmt.Errorf("%w: GetScreenResources returned no reply", ErrEnumeration)
	}
	return res.Crtcs, res.ConfigTimestamp, nil
}

func (c *x11Capturer) Displays() []Display {
	return c.set.list()
}

// Capture fetches the display's rectangle from its root window. On the
// shared-memory path the segment is fully copied before returning.
func (c *x11Capturer) Capture(index int) (*Image, error) {
	if c.closed {
		return nil, ErrClosed
	}
	d, err := c.set.lookup(index)
	if err != nil {
		return nil, err
	}
	raw, err := c.source.fetch(c.roots[index], d)
	if err != nil {
		return nil, err
	}
	return normalizeBGRX(raw, d.Width, d.Height, d.Width*bytesPerQuad), nil
}

func (c *x11Capturer) CaptureAll() ([]*Image, error) {
	return captureAll(len(c.set.displays), c.Capture)
}

func (c *x11Capturer) PrimaryIndex() int {
	return c.set.primary
}

func (c *x11Capturer) CapturePrimary() (*Image, error) {
	return c.Capture(c.set.primary)
}

func (c *x11Capturer) RefreshDisplays() error {
	if c.closed {
		return ErrClosed
	}
	displays, roots, err := enumerateX11(c.conn, c.logger)
	if err := c.set.replace(displays, err); err != nil {
		return err
	}
	c.roots = roots
	return nil
}

// SharedMemory reports whether captures use the shared-memory path.
func (c *x11Capturer) SharedMemory() bool {
	_, ok := c.source.(*shmSource)
	return ok
}

// Close releases the shared-memory segment, if any, and the connection.
func (c *x11Capturer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.source.release()
	c.conn.Close()
	return nil
}

var (
	_ PrimaryCapturer = (*x11Capturer)(nil)
	_ Refresher       = (*x11Capturer)(nil)
)
