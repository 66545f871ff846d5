package main

import (
	"reflect"
	"testing"

	"github.com/klarity-app/captis/internal/rdisplay"
)

type stubCapturer struct {
	displays []rdisplay.Display
	primary  int
}

func (s *stubCapturer) Displays() []rdisplay.Display            { return s.displays }
func (s *stubCapturer) Capture(int) (*rdisplay.Image, error)   { return rdisplay.NewImage(1, 1), nil }
func (s *stubCapturer) CaptureAll() ([]*rdisplay.Image, error) { return nil, nil }
func (s *stubCapturer) Close() error                            { return nil }
func (s *stubCapturer) PrimaryIndex() int                       { return s.primary }
func (s *stubCapturer) CapturePrimary() (*rdisplay.Image, error) { return s.Capture(s.primary) }

func TestTargetIndices(t *testing.T) {
	c := &stubCapturer{displays: make([]rdisplay.Display, 3), primary: 2}
	tests := []struct {
		name    string
		args    []string
		all     bool
		primary bool
		want    []int
		wantErr bool
	}{
		{"default is every display", nil, false, false, []int{0, 1, 2}, false},
		{"all", nil, true, false, []int{0, 1, 2}, false},
		{"primary", nil, false, true, []int{2}, false},
		{"explicit", []string{"1", "0"}, false, false, []int{1, 0}, false},
		{"out of range passes through", []string{"7"}, false, false, []int{7}, false},
		{"not a number", []string{"one"}, false, false, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetIndices(c, tt.args, tt.all, tt.primary)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("targetIndices: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureRepeatedReturnsLastFrame(t *testing.T) {
	c := &stubCapturer{displays: make([]rdisplay.Display, 1)}
	img, err := captureRepeated(c, 0, 3)
	if err != nil {
		t.Fatalf("captureRepeated: %v", err)
	}
	if img == nil || img.Width != 1 {
		t.Fatalf("img = %+v", img)
	}
}
