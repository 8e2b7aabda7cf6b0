package platform

import (
	"image/color"
	"testing"

	"github.com/milk9111/alvere/app"
	"github.com/milk9111/alvere/common"
)

func TestLayoutTracksResizableWindow(t *testing.T) {
	tests := []struct {
		name      string
		resizable bool
		wantW     int
		wantH     int
	}{
		{"fixed", false, 640, 360},
		{"resizable", true, 1024, 768},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHost(WindowOptions{Width: 640, Height: 360, Resizable: tc.resizable}, nil)
			w, ht := h.Layout(1024, 768)
			if w != tc.wantW || ht != tc.wantH {
				t.Fatalf("Layout = %dx%d, want %dx%d", w, ht, tc.wantW, tc.wantH)
			}
			if sw, sh := h.Size(); sw != tc.wantW || sh != tc.wantH {
				t.Fatalf("Size = %dx%d, want %dx%d", sw, sh, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestDrawingWithoutScreenIsIgnored(t *testing.T) {
	h := NewHost(WindowOptions{Width: 10, Height: 10}, nil)
	h.SetClearColour(color.RGBA{R: 1, A: 255})
	h.Clear()
	h.FillRect(common.Rect{Width: 1, Height: 1}, color.RGBA{A: 255})
	h.SwapBuffers()

	var got []app.Event
	h.SetEventHandler(func(e app.Event) { got = append(got, e) })
	h.emit(app.ResizeEvent{Width: 1, Height: 2})
	if len(got) != 1 {
		t.Fatalf("expected handler to receive emitted event, got %v", got)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
