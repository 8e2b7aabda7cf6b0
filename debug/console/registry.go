package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	ErrUnknownCommand    = errors.New("console: unknown command")
	ErrCommandExists     = errors.New("console: command already registered")
	ErrInvalidCommand    = errors.New("console: invalid command")
	ErrInvalidArgs       = errors.New("console: invalid arguments")
	ErrUnterminatedQuote = errors.New("console: unterminated quote")
	ErrAliasLoop         = errors.New("console: alias expands too deeply")
)

// maxAliasDepth bounds alias-to-alias expansion.
const maxAliasDepth = 8

// Command is a named action the console can run. Run receives arguments
// already validated against Params and returns the text to print.
type Command struct {
	Name        string
	Description string
	Params      []Param
	Run         func(args Args) (string, error)
}

// Signature is the name followed by each parameter's signature.
func (c Command) Signature() string {
	parts := []string{c.Name}
	for _, p := range c.Params {
		parts = append(parts, p.Signature())
	}
	return strings.Join(parts, " ")
}

// Alias is a name that expands to a command line. Arguments given to the
// alias are appended to the expansion.
type Alias struct {
	Name        string
	Line        string
	Description string
}

// Registry owns the commands and aliases of one console. It is not safe for
// concurrent use; commands run on the loop thread.
type Registry struct {
	commands map[string]Command
	aliases  map[string]Alias
}

// NewRegistry returns a registry holding the built-in help and alias
// commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: map[string]Command{},
		aliases:  map[string]Alias{},
	}
	r.mustRegister(Command{
		Name:        "help",
		Description: "Lists every command, or describes one.",
		Params: []Param{
			{Name: "command", Description: "Command or alias to describe.", Kind: KindString},
		},
		Run: r.help,
	})
	r.mustRegister(Command{
		Name:        "alias.new",
		Description: "Creates an alias for a command line.",
		Params: []Param{
			{Name: "name", Description: "Name of the new alias.", Kind: KindString, Required: true},
			{Name: "line", Description: "Command line the alias runs.", Kind: KindString, Required: true},
			{Name: "description", Description: "What the alias does.", Kind: KindString},
		},
		Run: func(args Args) (string, error) {
			if err := r.Alias(args.String("name"), args.String("line"), args.String("description")); err != nil {
				return "", err
			}
			return fmt.Sprintf("created alias %q", normalizeName(args.String("name"))), nil
		},
	})
	r.mustRegister(Command{
		Name:        "alias.delete",
		Description: "Deletes an alias.",
		Params: []Param{
			{Name: "name", Description: "Alias to delete.", Kind: KindString, Required: true},
		},
		Run: func(args Args) (string, error) {
			name := args.String("name")
			if !r.RemoveAlias(name) {
				return "", fmt.Errorf("%w: no alias %q", ErrUnknownCommand, name)
			}
			return fmt.Sprintf("deleted alias %q", normalizeName(name)), nil
		},
	})
	return r
}

func (r *Registry) mustRegister(c Command) {
	if err := r.Register(c); err != nil {
		panic(err)
	}
}

// Register adds c. Names are case-insensitive and must be unique across
// commands and aliases. Required parameters must precede optional ones.
func (r *Registry) Register(c Command) error {
	c.Name = normalizeName(c.Name)
	if c.Name == "" || strings.ContainsFunc(c.Name, unicode.IsSpace) {
		return fmt.Errorf("%w: bad name %q", ErrInvalidCommand, c.Name)
	}
	if c.Run == nil {
		return fmt.Errorf("%w: %q has no Run", ErrInvalidCommand, c.Name)
	}
	optional := false
	for _, p := range c.Params {
		if p.Required && optional {
			return fmt.Errorf("%w: %q: required parameter %s follows an optional one", ErrInvalidCommand, c.Name, p.Name)
		}
		optional = optional || !p.Required
		if p.Kind == KindOption && len(p.Options) == 0 {
			return fmt.Errorf("%w: %q: option parameter %s lists no options", ErrInvalidCommand, c.Name, p.Name)
		}
	}
	if r.taken(c.Name) {
		return fmt.Errorf("%w: %q", ErrCommandExists, c.Name)
	}
	r.commands[c.Name] = c
	return nil
}

func (r *Registry) Unregister(name string) bool {
	name = normalizeName(name)
	if _, ok := r.commands[name]; !ok {
		return false
	}
	delete(r.commands, name)
	return true
}

// Alias makes name run line.
func (r *Registry) Alias(name, line, description string) error {
	name = normalizeName(name)
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return fmt.Errorf("%w: bad alias name %q", ErrInvalidCommand, name)
	}
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("%w: alias %q has an empty command line", ErrInvalidCommand, name)
	}
	if r.taken(name) {
		return fmt.Errorf("%w: %q", ErrCommandExists, name)
	}
	r.aliases[name] = Alias{Name: name, Line: line, Description: description}
	return nil
}

func (r *Registry) RemoveAlias(name string) bool {
	name = normalizeName(name)
	if _, ok := r.aliases[name]; !ok {
		return false
	}
	delete(r.aliases, name)
	return true
}

func (r *Registry) taken(name string) bool {
	_, cmd := r.commands[name]
	_, alias := r.aliases[name]
	return cmd || alias
}

// Commands returns the registered commands sorted by name.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Aliases returns the aliases sorted by name.
func (r *Registry) Aliases() []Alias {
	out := make([]Alias, 0, len(r.aliases))
	for _, a := range r.aliases {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs one command line. A blank line does nothing.
func (r *Registry) Execute(line string) (string, error) {
	return r.execute(line, 0)
}

func (r *Registry) execute(line string, depth int) (string, error) {
	parts, err := split(line)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", nil
	}
	name, raw := normalizeName(parts[0]), parts[1:]

	if c, ok := r.commands[name]; ok {
		args, err := bind(c.Params, raw)
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.Signature(), err)
		}
		return c.Run(args)
	}
	if a, ok := r.aliases[name]; ok {
		if depth >= maxAliasDepth {
			return "", fmt.Errorf("%w: %q", ErrAliasLoop, name)
		}
		expanded := a.Line
		for _, arg := range raw {
			expanded += " " + quote(arg)
		}
		return r.execute(expanded, depth+1)
	}
	return "", fmt.Errorf("%w: %q, type 'help' for a list of commands", ErrUnknownCommand, name)
}

func (r *Registry) help(args Args) (string, error) {
	var b strings.Builder
	if !args.Has("command") {
		b.WriteString("Commands")
		for _, c := range r.Commands() {
			fmt.Fprintf(&b, "\n  %s : %s", c.Signature(), c.Description)
		}
		if aliases := r.Aliases(); len(aliases) > 0 {
			b.WriteString("\nAliases")
			for _, a := range aliases {
				fmt.Fprintf(&b, "\n  %s : (%s) %s", a.Name, a.Line, a.Description)
			}
		}
		return b.String(), nil
	}

	name := normalizeName(args.String("command"))
	if c, ok := r.commands[name]; ok {
		b.WriteString(c.Signature())
		if c.Description != "" {
			b.WriteString("\n  " + c.Description)
		}
		for _, p := range c.Params {
			fmt.Fprintf(&b, "\n  %s : %s", p.Signature(), p.Description)
		}
		return b.String(), nil
	}
	if a, ok := r.aliases[name]; ok {
		fmt.Fprintf(&b, "%s (alias)\n  (%s)", a.Name, a.Line)
		if a.Description != "" {
			b.WriteString("\n  " + a.Description)
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("%w: %q, type 'help' for a list of commands", ErrUnknownCommand, name)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// split breaks a line on whitespace. Single or double quotes group words
// into one argument.
func split(line string) ([]string, error) {
	var (
		parts []string
		cur   strings.Builder
		delim rune
		open  bool
	)
	for _, c := range line {
		switch {
		case delim != 0:
			if c == delim {
				delim = 0
				continue
			}
			cur.WriteRune(c)
		case c == '"' || c == '\'':
			delim, open = c, true
		case unicode.IsSpace(c):
			if open {
				parts = append(parts, cur.String())
				cur.Reset()
				open = false
			}
		default:
			cur.WriteRune(c)
			open = true
		}
	}
	if delim != 0 {
		return nil, fmt.Errorf("%w: expecting matching %c", ErrUnterminatedQuote, delim)
	}
	if open {
		parts = append(parts, cur.String())
	}
	return parts, nil
}

// quote makes arg survive split unchanged.
func quote(arg string) string {
	switch {
	case strings.Contains(arg, `"`):
		return "'" + arg + "'"
	case arg == "" || strings.ContainsFunc(arg, unicode.IsSpace) || strings.Contains(arg, "'"):
		return `"` + arg + `"`
	}
	return arg
}
