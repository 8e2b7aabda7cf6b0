package app

import (
	"image/color"

	"github.com/milk9111/alvere/common"
)

// HeadlessWindow is a Window with no display. Events can be scheduled for a
// given poll, and the window can close itself after a number of polls.
type HeadlessWindow struct {
	width, height int
	handler       func(Event)
	scheduled     map[int][]Event
	closeAfter    int
	polls         int
	swaps         int
	closed        bool
}

func NewHeadlessWindow(width, height int) *HeadlessWindow {
	return &HeadlessWindow{
		width:     width,
		height:    height,
		scheduled: map[int][]Event{},
	}
}

// Schedule delivers events during the poll with the given zero-based index.
func (w *HeadlessWindow) Schedule(poll int, events ...Event) {
	w.scheduled[poll] = append(w.scheduled[poll], events...)
}

// CloseAfter sends a CloseEvent on poll n. Zero disables it.
func (w *HeadlessWindow) CloseAfter(n int) {
	w.closeAfter = n
}

func (w *HeadlessWindow) PollEvents() {
	poll := w.polls
	w.polls++
	for _, evt := range w.scheduled[poll] {
		if r, ok := evt.(ResizeEvent); ok {
			w.width, w.height = r.Width, r.Height
		}
		w.emit(evt)
	}
	delete(w.scheduled, poll)
	if w.closeAfter > 0 && w.polls == w.closeAfter {
		w.emit(CloseEvent{})
	}
}

func (w *HeadlessWindow) emit(evt Event) {
	if w.handler != nil {
		w.handler(evt)
	}
}

func (w *HeadlessWindow) SwapBuffers()                   { w.swaps++ }
func (w *HeadlessWindow) Size() (int, int)               { return w.width, w.height }
func (w *HeadlessWindow) SetEventHandler(fn func(Event)) { w.handler = fn }

func (w *HeadlessWindow) Close() error {
	w.closed = true
	return nil
}

func (w *HeadlessWindow) Polls() int   { return w.polls }
func (w *HeadlessWindow) Swaps() int   { return w.swaps }
func (w *HeadlessWindow) Closed() bool { return w.closed }

// Fill is one recorded FillRect call.
type Fill struct {
	Rect   common.Rect
	Colour color.RGBA
}

// Text is one recorded DebugPrint call.
type Text struct {
	Text string
	X, Y int
}

// RecordingRenderer remembers what was drawn. Fills and Texts hold the calls
// since the last Clear.
type RecordingRenderer struct {
	ClearColour color.RGBA
	Clears      int
	Fills       []Fill
	TotalFills  int
	Texts       []Text
}

func NewRecordingRenderer() *RecordingRenderer {
	return &RecordingRenderer{}
}

func (r *RecordingRenderer) Clear() {
	r.Clears++
	r.Fills = r.Fills[:0]
	r.Texts = r.Texts[:0]
}

func (r *RecordingRenderer) SetClearColour(c color.RGBA) {
	r.ClearColour = c
}

func (r *RecordingRenderer) FillRect(rect common.Rect, c color.RGBA) {
	r.Fills = append(r.Fills, Fill{Rect: rect, Colour: c})
	r.TotalFills++
}

func (r *RecordingRenderer) DebugPrint(text string, x, y int) {
	r.Texts = append(r.Texts, Text{Text: text, X: x, Y: y})
}
