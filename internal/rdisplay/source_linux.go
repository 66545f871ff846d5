//go:build linux

package rdisplay

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	xshm "github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/gen2brain/shm"
	"go.uber.org/zap"
)

// shmReadOnly is SHM_RDONLY from <sys/shm.h>.
const shmReadOnly = 0o10000

// pixelSource fetches the raw BGRX pixels of one display rectangle.
// The returned slice is only valid until the next fetch.
type pixelSource interface {
	fetch(root xproto.Window, d Display) ([]byte, error)
	release()
	name() string
}

// wireSource receives pixels inline in the GetImage reply.
type wireSource struct {
	conn      *xgb.Conn
	planeMask uint32
}

func (s *wireSource) name() string { return "standard" }

func (s *wireSource) fetch(root xproto.Window, d Display) ([]byte, error) {
	reply, err := xproto.GetImage(s.conn, xproto.ImageFormatZPixmap, xproto.Drawable(root),
		int16(d.Left), int16(d.Top), uint16(d.Width), uint16(d.Height), s.planeMask).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: GetImage: %v", ErrProtocol, err)
	}
	if reply == nil {
		return nil, fmt.Errorf("%w: GetImage returned no reply", ErrProtocol)
	}
	if err := checkFrameSize(len(reply.Data), d); err != nil {
		return nil, err
	}
	return reply.Data, nil
}

func (s *wireSource) release() {}

// shmSource has the server write pixels into a SysV segment mapped
// read-only into this process. The segment is a single slot reused by
// every fetch.
type shmSource struct {
	conn      *xgb.Conn
	planeMask uint32
	logger    *zap.Logger

	seg  xshm.Seg
	id   int
	data []byte
}

// newShmSource sets up a segment of size bytes and registers it with the
// server. Partially acquired resources are released on failure.
func newShmSource(conn *xgb.Conn, size int, planeMask uint32, logger *zap.Logger) (*shmSource, error) {
	if err := xshm.Init(conn); err != nil {
		return nil, fmt.Errorf("%w: MIT-SHM: %v", ErrExtensionMissing, err)
	}

	id, err := shm.Get(shm.IPC_PRIVATE, size, shm.IPC_CREAT|0o600)
	if err != nil {
		return nil, fmt.Errorf("shmget %d bytes: %w", size, err)
	}

	data, err := shm.At(id, 0, shmReadOnly)
	if err != nil {
		shm.Rm(id)
		return nil, fmt.Errorf("shmat: %w", err)
	}

	seg, err := xshm.NewSegId(conn)
	if err != nil {
		shm.Dt(data)
		shm.Rm(id)
		return nil, fmt.Errorf("allocate segment id: %w", err)
	}

	if err := xshm.AttachChecked(conn, seg, uint32(id), false).Check(); err != nil {
		shm.Dt(data)
		shm.Rm(id)
		return nil, fmt.Errorf("%w: ShmAttach: %v", ErrProtocol, err)
	}

	return &shmSource{
		conn:      conn,
		planeMask: planeMask,
		logger:    logger,
		seg:       seg,
		id:        id,
		data:      data,
	}, nil
}

func (s *shmSource) name() string { return "shm" }

func (s *shmSource) fetch(root xproto.Window, d Display) ([]byte, error) {
	reply, err := xshm.GetImage(s.conn, xproto.Drawable(root),
		int16(d.Left), int16(d.Top), uint16(d.Width), uint16(d.Height),
		s.planeMask, xproto.ImageFormatZPixmap, s.seg, 0).Reply()
	if err != nil {
		return nil, fmt.Errorf("%w: ShmGetImage: %v", ErrProtocol, err)
	}
	if reply == nil {
		return nil, fmt.Errorf("%w: ShmGetImage returned no reply", ErrProtocol)
	}
	size := int(reply.Size)
	if size > len(s.data) {
		return nil, fmt.Errorf("%w: ShmGetImage wrote %d bytes into a %d byte segment", ErrProtocol, size, len(s.data))
	}
	if err := checkFrameSize(size, d); err != nil {
		return nil, err
	}
	return s.data[:size], nil
}

// release detaches the segment from the server, unmaps it locally and
// removes it, in that order. Every step runs even if an earlier one fails.
func (s *shmSource) release() {
	if s.data == nil {
		return
	}
	if err := xshm.DetachChecked(s.conn, s.seg).Check(); err != nil {
		s.logger.Debug("ShmDetach failed", zap.Error(err))
	}
	if err := shm.Dt(s.data); err != nil {
		s.logger.Debug("shmdt failed", zap.Error(err))
	}
	if err := shm.Rm(s.id); err != nil {
		s.logger.Debug("shmctl IPC_RMID failed", zap.Int("shmid", s.id), zap.Error(err))
	}
	s.data = nil
}

// checkFrameSize rejects replies that cannot hold a 32 bits per pixel frame,
// which happens on servers running at a different depth.
func checkFrameSize(n int, d Display) error {
	if want := d.Width * d.Height * bytesPerQuad; n < want {
		return fmt.Errorf("%w: got %d bytes for a %dx%d frame, want %d (unsupported pixel depth?)",
			ErrProtocol, n, d.Width, d.Height, want)
	}
	return nil
}
