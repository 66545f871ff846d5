package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/klarity-app/captis/internal/encoding"
	"github.com/klarity-app/captis/internal/rdisplay"
	"go.uber.org/zap"
)

// Defaults apply to capture requests that carry no query overrides.
type Defaults struct {
	Format   encoding.Format
	Quality  int
	MaxWidth int
}

// handler serializes every engine call; engines are single-threaded.
type handler struct {
	mu       sync.Mutex
	capturer rdisplay.Capturer
	logger   *zap.Logger
	defaults Defaults
}

// MakeHandler returns an HTTP handler exposing capturer
func MakeHandler(capturer rdisplay.Capturer, logger *zap.Logger, defaults Defaults) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.Format == "" {
		defaults.Format = encoding.PNG
	}
	h := &handler{capturer: capturer, logger: logger, defaults: defaults}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /displays", h.displays)
	mux.HandleFunc("POST /displays/refresh", h.refresh)
	mux.HandleFunc("GET /capture/primary", h.capturePrimary)
	mux.HandleFunc("GET /capture/{index}", h.captureIndex)
	return mux
}

func (h *handler) handleError(w http.ResponseWriter, status int, err error) {
	h.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// primaryIndex must be called with h.mu held.
func (h *handler) primaryIndex() int {
	if p, ok := h.capturer.(rdisplay.PrimaryCapturer); ok {
		return p.PrimaryIndex()
	}
	return 0
}

func (h *handler) displays(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	resp := newDisplaysResponse(h.capturer.Displays(), h.primaryIndex())
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	refresher, ok := h.capturer.(rdisplay.Refresher)
	if !ok {
		h.handleError(w, http.StatusNotImplemented, rdisplay.ErrNotSupported)
		return
	}

	h.mu.Lock()
	err := refresher.RefreshDisplays()
	resp := newDisplaysResponse(h.capturer.Displays(), h.primaryIndex())
	h.mu.Unlock()

	if err != nil {
		h.handleError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) capturePrimary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	index := h.primaryIndex()
	h.mu.Unlock()
	h.capture(w, r, index)
}

func (h *handler) captureIndex(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.handleError(w, http.StatusBadRequest, errors.New("display index must be an integer"))
		return
	}
	h.capture(w, r, index)
}

func (h *handler) capture(w http.ResponseWriter, r *http.Request, index int) {
	opts, err := h.requestOptions(r)
	if err != nil {
		h.handleError(w, http.StatusBadRequest, err)
		return
	}
	enc, err := encoding.NewEncoder(opts.Format, encoding.Options{Quality: opts.Quality})
	if err != nil {
		h.handleError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	logger := h.logger.With(zap.String("capture_id", id), zap.Int("display", index))

	h.mu.Lock()
	img, err := h.capturer.Capture(index)
	h.mu.Unlock()

	if err != nil {
		if img == nil {
			h.handleError(w, statusFor(err), err)
			return
		}
		logger.Warn("capture succeeded with cleanup error", zap.Error(err))
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, encoding.Fit(img, opts.MaxWidth)); err != nil {
		h.handleError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Debug("capture served",
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Capture-Id", id)
	w.Header().Set("X-Display-Index", strconv.Itoa(index))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *handler) requestOptions(r *http.Request) (Defaults, error) {
	opts := h.defaults
	q := r.URL.Query()
	if v := q.Get("format"); v != "" {
		opts.Format = v
	}
	if v := q.Get("quality"); v != "" {
		quality, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New("quality must be an integer")
		}
		opts.Quality = quality
	}
	if v := q.Get("max_width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width < 0 {
			return opts, errors.New("max_width must be a non-negative integer")
		}
		opts.MaxWidth = width
	}
	return opts, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, rdisplay.ErrDisplayNotFound):
		return http.StatusNotFound
	case errors.Is(err, rdisplay.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, rdisplay.ErrNotSupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
