package console

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the type a parameter's argument is parsed into.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindOption
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindOption:
		return "option"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Param describes one positional parameter of a command.
type Param struct {
	Name        string
	Description string
	Kind        Kind
	Required    bool
	// Options lists the accepted values of a KindOption parameter.
	Options []string
}

// Signature renders the parameter as <name:kind> when required and
// [name:kind] otherwise.
func (p Param) Signature() string {
	kind := p.Kind.String()
	if p.Kind == KindOption {
		kind = strings.Join(p.Options, "|")
	}
	if p.Required {
		return "<" + p.Name + ":" + kind + ">"
	}
	return "[" + p.Name + ":" + kind + "]"
}

func (p Param) parse(raw string) (any, error) {
	switch p.Kind {
	case KindString:
		return raw, nil
	case KindBool:
		return strconv.ParseBool(raw)
	case KindInt:
		return strconv.ParseInt(raw, 10, 64)
	case KindUint:
		return strconv.ParseUint(raw, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(raw, 64)
	case KindOption:
		for _, opt := range p.Options {
			if strings.EqualFold(opt, raw) {
				return opt, nil
			}
		}
		return nil, fmt.Errorf("want one of %s", strings.Join(p.Options, ", "))
	}
	return nil, fmt.Errorf("unknown parameter kind %v", p.Kind)
}

// Args holds the parsed arguments of one invocation, addressed by parameter
// name. Optional parameters that were not given read as the zero value.
type Args struct {
	params []Param
	values []any
}

func (a Args) index(name string) int {
	for i, p := range a.params {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (a Args) value(name string) any {
	i := a.index(name)
	if i < 0 || i >= len(a.values) {
		return nil
	}
	return a.values[i]
}

// Len is the number of arguments given.
func (a Args) Len() int { return len(a.values) }

// Has reports whether the named argument was given.
func (a Args) Has(name string) bool {
	i := a.index(name)
	return i >= 0 && i < len(a.values)
}

func (a Args) String(name string) string {
	s, _ := a.value(name).(string)
	return s
}

func (a Args) Bool(name string) bool {
	b, _ := a.value(name).(bool)
	return b
}

func (a Args) Int(name string) int64 {
	n, _ := a.value(name).(int64)
	return n
}

func (a Args) Uint(name string) uint64 {
	n, _ := a.value(name).(uint64)
	return n
}

func (a Args) Float(name string) float64 {
	f, _ := a.value(name).(float64)
	return f
}

// bind validates raw against params and parses each argument.
func bind(params []Param, raw []string) (Args, error) {
	if len(raw) > len(params) {
		return Args{}, fmt.Errorf("%w: expected at most %d arguments, got %d", ErrInvalidArgs, len(params), len(raw))
	}
	args := Args{params: params, values: make([]any, 0, len(raw))}
	for i, p := range params {
		if i >= len(raw) {
			if p.Required {
				return Args{}, fmt.Errorf("%w: missing required argument %s", ErrInvalidArgs, p.Signature())
			}
			break
		}
		v, err := p.parse(raw[i])
		if err != nil {
			return Args{}, fmt.Errorf("%w: argument %s: %q: %v", ErrInvalidArgs, p.Name, raw[i], err)
		}
		args.values = append(args.values, v)
	}
	return args, nil
}
