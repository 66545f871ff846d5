package encoding

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sort"
	"strings"
)

// Format names an output image codec
type Format = string

const (
	//PNG lossless
	PNG Format = "png"
	//JPEG lossy, honours Options.Quality
	JPEG Format = "jpeg"
)

// DefaultQuality is used when Options.Quality is zero
const DefaultQuality = 90

// ErrUnsupportedFormat is returned for formats no encoder registered
var ErrUnsupportedFormat = errors.New("encoding: format not supported")

// Encoder writes a captured frame in one codec
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Extension is the file extension without the dot.
	Extension() string
	ContentType() string
}

// Options tune an encoder instance
type Options struct {
	// Quality is the JPEG quality, 1-100.
	Quality int
}

type encoderFactory = func(opts Options) Encoder

// Index of supported codecs, each encoder registers itself from init.
var registeredEncoders = make(map[Format]encoderFactory, 2)

//NewEncoder creates an encoder of the selected format
func NewEncoder(format Format, opts Options) (Encoder, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if opts.Quality == 0 {
		opts.Quality = DefaultQuality
	}
	if opts.Quality < 1 || opts.Quality > 100 {
		return nil, fmt.Errorf("encoding: quality %d out of range 1-100", opts.Quality)
	}
	return registeredEncoders[format](opts), nil
}

//Supports returns a boolean indicating if the format is supported
func Supports(format Format) bool {
	_, err := ParseFormat(format)
	return err == nil
}

// ParseFormat normalizes a user supplied format name ("PNG", "jpg").
func ParseFormat(name string) (Format, error) {
	format := strings.ToLower(strings.TrimSpace(name))
	if format == "jpg" {
		format = JPEG
	}
	if _, found := registeredEncoders[format]; !found {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return format, nil
}

// Formats lists the registered formats in sorted order.
func Formats() []Format {
	formats := make([]Format, 0, len(registeredEncoders))
	for f := range registeredEncoders {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
