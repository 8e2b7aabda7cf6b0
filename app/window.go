package app

import (
	"image/color"

	"github.com/milk9111/alvere/common"
)

// Event is something a window reports while polling.
type Event interface {
	isEvent()
}

// CloseEvent asks the application to stop.
type CloseEvent struct{}

// ResizeEvent reports the new framebuffer size in pixels.
type ResizeEvent struct {
	Width, Height int
}

// KeyEvent reports a key transition. Key is the backend's key name.
type KeyEvent struct {
	Key     string
	Pressed bool
}

// TextEvent carries characters typed since the last poll.
type TextEvent struct {
	Text string
}

func (CloseEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (KeyEvent) isEvent()    {}
func (TextEvent) isEvent()   {}

// Window is the platform surface the loop drives. PollEvents delivers pending
// events to the handler installed with SetEventHandler.
type Window interface {
	PollEvents()
	SwapBuffers()
	Size() (width, height int)
	SetEventHandler(fn func(Event))
	Close() error
}

// Renderer draws into the current frame.
type Renderer interface {
	Clear()
	SetClearColour(c color.RGBA)
	FillRect(r common.Rect, c color.RGBA)
}

// Game is what the application advances and draws. Update runs zero or more
// times per iteration with the fixed step in seconds; Render runs once.
type Game interface {
	Update(dt float64) error
	Render() error
	Close() error
}
