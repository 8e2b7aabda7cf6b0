package platform

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/alvere/app"
	"github.com/milk9111/alvere/common"
	"github.com/milk9111/alvere/debug/console"
	"go.uber.org/zap"
)

var (
	_ app.Window      = (*Host)(nil)
	_ app.Renderer    = (*Host)(nil)
	_ console.Printer = (*Host)(nil)
	_ ebiten.Game     = (*Host)(nil)
)

type WindowOptions struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// Host is an ebiten-backed app.Window and app.Renderer. ebiten owns the frame
// callback, so the host drives the application through Advance in Update and
// Present in Draw instead of calling Run.
type Host struct {
	opts    WindowOptions
	app     *app.Application
	handler func(app.Event)
	log     *zap.Logger

	screen  *ebiten.Image
	clear   color.RGBA
	present bool

	width, height        int
	reportedW, reportedH int
	keys                 []ebiten.Key
	chars                []rune
	closed               bool
}

func NewHost(opts WindowOptions, log *zap.Logger) *Host {
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{
		opts:      opts,
		log:       log,
		width:     opts.Width,
		height:    opts.Height,
		reportedW: opts.Width,
		reportedH: opts.Height,
	}
}

// Run opens the window and blocks until the application stops. The
// application is closed before Run returns.
func (h *Host) Run(a *app.Application) error {
	h.app = a

	ebiten.SetWindowTitle(h.opts.Title)
	ebiten.SetWindowSize(h.opts.Width, h.opts.Height)
	if h.opts.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)

	a.Start()
	err := ebiten.RunGame(h)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}
	return errors.Join(err, a.Close())
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.present = h.app.Advance()
	if !h.app.Running() {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. The screen keeps the previous frame when the
// application skipped presenting.
func (h *Host) Draw(screen *ebiten.Image) {
	if !h.present {
		return
	}
	h.present = false
	h.screen = screen
	h.app.Present()
	h.screen = nil
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if h.opts.Resizable {
		h.width, h.height = outsideWidth, outsideHeight
	}
	return h.width, h.height
}

func (h *Host) PollEvents() {
	if ebiten.IsWindowBeingClosed() {
		h.emit(app.CloseEvent{})
	}
	if h.width != h.reportedW || h.height != h.reportedH {
		h.reportedW, h.reportedH = h.width, h.height
		h.emit(app.ResizeEvent{Width: h.width, Height: h.height})
	}

	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		h.emit(app.KeyEvent{Key: k.String(), Pressed: true})
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		h.emit(app.KeyEvent{Key: k.String(), Pressed: false})
	}
	h.chars = ebiten.AppendInputChars(h.chars[:0])
	if len(h.chars) > 0 {
		h.emit(app.TextEvent{Text: string(h.chars)})
	}
}

func (h *Host) emit(evt app.Event) {
	if h.handler != nil {
		h.handler(evt)
	}
}

// SwapBuffers is a no-op; ebiten presents the screen after Draw returns.
func (h *Host) SwapBuffers() {}

func (h *Host) Size() (int, int) {
	return h.width, h.height
}

func (h *Host) SetEventHandler(fn func(app.Event)) {
	h.handler = fn
}

func (h *Host) Close() error {
	if !h.closed {
		h.closed = true
		h.log.Debug("window closed")
	}
	return nil
}

func (h *Host) Clear() {
	if h.screen != nil {
		h.screen.Fill(h.clear)
	}
}

func (h *Host) SetClearColour(c color.RGBA) {
	h.clear = c
}

// FillRect draws r in world coordinates, y up, onto the screen, y down.
func (h *Host) FillRect(r common.Rect, c color.RGBA) {
	if h.screen == nil {
		return
	}
	y := float32(h.height) - r.Top()
	vector.FillRect(h.screen, r.X, y, r.Width, r.Height, c, false)
}

// DebugPrint draws text with ebiten's built-in debug font, in screen pixels.
func (h *Host) DebugPrint(text string, x, y int) {
	if h.screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(h.screen, text, x, y)
}
