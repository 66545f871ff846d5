package rdisplay

import (
	"fmt"
	"math"
	"slices"
)

// displaySet is the enumerated display list shared by every backend.
// It is replaced wholesale, never edited in place.
type displaySet struct {
	displays []Display
	primary  int
}

func newDisplaySet(displays []Display) (displaySet, error) {
	if len(displays) == 0 {
		return displaySet{}, ErrNoDisplays
	}
	return displaySet{
		displays: displays,
		primary:  primaryIndex(displays),
	}, nil
}

func (s *displaySet) list() []Display {
	return slices.Clone(s.displays)
}

func (s *displaySet) lookup(index int) (Display, error) {
	if index < 0 || index >= len(s.displays) {
		return Display{}, &DisplayNotFoundError{Index: index, Count: len(s.displays)}
	}
	return s.displays[index], nil
}

// replace swaps in a freshly enumerated list. A failed or empty enumeration
// leaves the current list untouched.
func (s *displaySet) replace(displays []Display, err error) error {
	if err != nil {
		return err
	}
	next, err := newDisplaySet(displays)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEnumeration, err)
	}
	*s = next
	return nil
}

// primaryIndex returns the index of the display anchored at the desktop
// origin, or 0 when none is.
func primaryIndex(displays []Display) int {
	for i, d := range displays {
		if d.Left == 0 && d.Top == 0 {
			return i
		}
	}
	return 0
}

// displayFromEdges builds a Display from rectangle edges, which some APIs
// report with right < left or bottom < top.
func displayFromEdges(left, top, right, bottom int) Display {
	return Display{
		Top:    top,
		Left:   left,
		Width:  absInt(right - left),
		Height: absInt(bottom - top),
	}
}

// displayFromRotatedBounds builds a Display from bounds reported before
// rotation. Quarter turns swap width and height.
func displayFromRotatedBounds(x, y, width, height, rotation float64) Display {
	if rotation == 90 || rotation == -90 {
		width, height = height, width
	}
	return Display{
		Top:    int(math.Round(y)),
		Left:   int(math.Round(x)),
		Width:  int(math.Abs(math.Round(width))),
		Height: int(math.Abs(math.Round(height))),
	}
}

// captureAll captures indices 0..n-1 in order and stops at the first error.
func captureAll(n int, capture func(int) (*Image, error)) ([]*Image, error) {
	images := make([]*Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := capture(i)
		if err != nil {
			return nil, fmt.Errorf("display %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
