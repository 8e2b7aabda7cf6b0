package console

import (
	"fmt"
	"strings"

	"github.com/milk9111/alvere/app"
	"go.uber.org/zap"
)

const (
	DefaultPageSize     = 14
	DefaultHistoryLimit = 64
	DefaultOutputLimit  = 1000

	// ToggleKey shows and hides the console.
	ToggleKey = "Backquote"

	prompt     = "> "
	lineHeight = 16
	margin     = 4
)

// Printer draws debug text at screen pixel coordinates, y down.
type Printer interface {
	DebugPrint(text string, x, y int)
}

type Option func(*Console)

func WithLogger(log *zap.Logger) Option {
	return func(c *Console) {
		if log != nil {
			c.log = log
		}
	}
}

func WithPageSize(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithHistoryLimit(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.historyLimit = n
		}
	}
}

// Console is the interactive front of a Registry: an input line, a history
// of submitted lines and a paged output log.
type Console struct {
	reg *Registry
	log *zap.Logger

	shown bool
	input string

	// history is newest first; cursor indexes it while browsing, -1 otherwise.
	history      []string
	cursor       int
	historyLimit int

	output      []string
	outputLimit int
	page        int
	pageSize    int
}

// New returns a hidden console over reg and registers console.clear on it.
// A registry backs at most one console; a second New panics.
func New(reg *Registry, opts ...Option) *Console {
	c := &Console{
		reg:          reg,
		log:          zap.NewNop(),
		cursor:       -1,
		historyLimit: DefaultHistoryLimit,
		outputLimit:  DefaultOutputLimit,
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	reg.mustRegister(Command{
		Name:        "console.clear",
		Description: "Clears the console output.",
		Run: func(Args) (string, error) {
			c.output = c.output[:0]
			c.page = 0
			return "", nil
		},
	})
	return c
}

func (c *Console) Registry() *Registry { return c.reg }
func (c *Console) Shown() bool         { return c.shown }
func (c *Console) Input() string       { return c.input }
func (c *Console) History() []string   { return c.history }
func (c *Console) Output() []string    { return c.output }
func (c *Console) Page() int           { return c.page }

func (c *Console) Show() {
	c.shown = true
	c.page = 0
}

func (c *Console) Hide() { c.shown = false }

func (c *Console) Toggle() {
	if c.shown {
		c.Hide()
		return
	}
	c.Show()
}

// Type appends text to the input line. The toggle key's glyphs are dropped
// since they arrive alongside the toggle itself.
func (c *Console) Type(text string) {
	text = strings.Map(func(r rune) rune {
		if r == '`' || r == '~' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, text)
	c.input += text
	c.cursor = -1
}

func (c *Console) Backspace() {
	if c.input == "" {
		return
	}
	r := []rune(c.input)
	c.input = string(r[:len(r)-1])
}

// Submit runs the input line, records it in history and appends the echoed
// line and its result to the output.
func (c *Console) Submit() (string, error) {
	line := c.input
	c.input = ""
	c.cursor = -1
	return c.Exec(line)
}

// Exec runs line as if it had been typed and submitted.
func (c *Console) Exec(line string) (string, error) {
	if strings.TrimSpace(line) != "" {
		c.history = append([]string{line}, c.history...)
		if len(c.history) > c.historyLimit {
			c.history = c.history[:c.historyLimit]
		}
	}
	c.print(prompt + line)

	out, err := c.reg.Execute(line)
	if err != nil {
		c.print("error: " + err.Error())
		c.log.Warn("console command failed", zap.String("line", line), zap.Error(err))
	} else {
		if out != "" {
			c.print(out)
		}
		c.log.Info("console command", zap.String("line", line), zap.String("output", out))
	}
	c.page = 0
	return out, err
}

func (c *Console) print(text string) {
	c.output = append(c.output, strings.Split(text, "\n")...)
	if over := len(c.output) - c.outputLimit; over > 0 {
		c.output = append(c.output[:0], c.output[over:]...)
	}
}

// HistoryBack replaces the input with the next older history entry.
func (c *Console) HistoryBack() {
	if c.cursor+1 >= len(c.history) {
		return
	}
	c.cursor++
	c.input = c.history[c.cursor]
}

// HistoryForward moves toward newer entries; past the newest it clears the
// input.
func (c *Console) HistoryForward() {
	switch {
	case c.cursor < 0:
		return
	case c.cursor == 0:
		c.cursor = -1
		c.input = ""
	default:
		c.cursor--
		c.input = c.history[c.cursor]
	}
}

// Pages is the number of output pages, at least one.
func (c *Console) Pages() int {
	return max(1, (len(c.output)+c.pageSize-1)/c.pageSize)
}

// PageUp moves toward older output.
func (c *Console) PageUp() {
	if c.page+1 < c.Pages() {
		c.page++
	}
}

func (c *Console) PageDown() {
	if c.page > 0 {
		c.page--
	}
}

// Visible returns the output lines of the current page. Page zero holds the
// newest lines.
func (c *Console) Visible() []string {
	end := len(c.output) - c.page*c.pageSize
	start := max(0, end-c.pageSize)
	return c.output[start:end]
}

// HandleEvent consumes the events meant for the console and reports whether
// it did. Everything passes through while the console is hidden, except the
// toggle key.
func (c *Console) HandleEvent(evt app.Event) bool {
	switch e := evt.(type) {
	case app.KeyEvent:
		if e.Key == ToggleKey {
			if e.Pressed {
				c.Toggle()
			}
			return true
		}
		if !c.shown {
			return false
		}
		if e.Pressed {
			c.key(e.Key)
		}
		return true
	case app.TextEvent:
		if !c.shown {
			return false
		}
		c.Type(e.Text)
		return true
	}
	return false
}

func (c *Console) key(name string) {
	switch name {
	case "Enter", "NumpadEnter":
		_, _ = c.Submit()
	case "Backspace":
		c.Backspace()
	case "ArrowUp":
		c.HistoryBack()
	case "ArrowDown":
		c.HistoryForward()
	case "PageUp":
		c.PageUp()
	case "PageDown":
		c.PageDown()
	case "Escape":
		c.Hide()
	}
}

// Draw prints the visible page, the page counter and the input line.
func (c *Console) Draw(p Printer) {
	if !c.shown || p == nil {
		return
	}
	y := margin
	for _, line := range c.Visible() {
		p.DebugPrint(line, margin, y)
		y += lineHeight
	}
	if c.Pages() > 1 {
		p.DebugPrint(fmt.Sprintf("%d/%d", c.page+1, c.Pages()), margin, y)
		y += lineHeight
	}
	p.DebugPrint(prompt+c.input+"_", margin, y)
}
