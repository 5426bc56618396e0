// Package turtle interprets L-system strings as turtle graphics commands.
//
//	F      move forward by Step and draw
//	+      turn by +Turn degrees (counterclockwise)
//	- −    turn by -Turn degrees
//	[      save position and heading
//	]      restore the last saved state and move there without drawing
//
// Any other rune is ignored.
package turtle

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/edwingeng/deque"
	"github.com/pkg/errors"
	"pgregory.net/rand"
)

var (
	ErrBadArgument       = errors.New("bad argument")
	ErrUnbalancedBracket = errors.New("unbalanced bracket")
)

// UnbalancedBracketError reports a ']' without a matching '['.
type UnbalancedBracketError struct {
	// Offset is the byte offset of the ']' in the interpreted string.
	Offset int
}

func (e *UnbalancedBracketError) Error() string {
	return "unbalanced bracket at offset " + strconv.Itoa(e.Offset)
}

func (e *UnbalancedBracketError) Is(target error) bool {
	return target == ErrUnbalancedBracket
}

type Rand interface {
	Float64() float64
}

type Op uint8

const (
	MoveTo Op = iota
	LineTo
)

func (o Op) String() string {
	switch o {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	default:
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
}

// Primitive is a single drawing command in turtle coordinates.
type Primitive struct {
	Op   Op
	X, Y float64
}

func (p Primitive) String() string {
	return p.Op.String() + "(" + strconv.FormatFloat(p.X, 'g', 6, 64) + ", " + strconv.FormatFloat(p.Y, 'g', 6, 64) + ")"
}

// Sink receives drawing primitives.
type Sink interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
}

type Config struct {
	Step float64
	// Turn is the rotation of '+' and '-' in degrees.
	Turn float64
	// Jitter in [0, 1] randomizes every step and turn within ±Jitter of its value.
	Jitter      float64
	InitHeading float64
	// Rand is required only when Jitter > 0; nil selects a randomly seeded source.
	Rand Rand
}

func (c Config) Validate() error {
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return errors.Wrapf(ErrBadArgument, "step must be positive, got %v", c.Step)
	}
	if !(c.Turn > 0) || math.IsInf(c.Turn, 0) {
		return errors.Wrapf(ErrBadArgument, "turn must be positive, got %v", c.Turn)
	}
	if !(c.Jitter >= 0 && c.Jitter <= 1) {
		return errors.Wrapf(ErrBadArgument, "jitter must be within [0, 1], got %v", c.Jitter)
	}
	if math.IsNaN(c.InitHeading) || math.IsInf(c.InitHeading, 0) {
		return errors.Wrapf(ErrBadArgument, "initial heading must be finite, got %v", c.InitHeading)
	}
	return nil
}

type state struct {
	x, y    float64
	heading float64
}

// source yields the runes to interpret together with their byte offset in
// the UTF-8 form of the input.
type source interface {
	next() (r rune, at int, ok bool)
}

type stringSource struct {
	s      string
	offset int
}

func (src *stringSource) next() (rune, int, bool) {
	if src.offset >= len(src.s) {
		return 0, src.offset, false
	}
	at := src.offset
	r, size := utf8.DecodeRuneInString(src.s[at:])
	src.offset += size
	return r, at, true
}

// symbolSource reads encoded symbols in place, decoding one at a time.
type symbolSource[S ~byte] struct {
	symbols []S
	decode  func(S) rune
	i       int
	offset  int
}

func (src *symbolSource[S]) next() (rune, int, bool) {
	if src.i >= len(src.symbols) {
		return 0, src.offset, false
	}
	r := src.decode(src.symbols[src.i])
	src.i++
	at := src.offset
	if n := utf8.RuneLen(r); n > 0 {
		src.offset += n
	} else {
		src.offset += utf8.RuneLen(utf8.RuneError)
	}
	return r, at, true
}

// Interpreter walks a symbol string lazily, one primitive per call to Next.
type Interpreter struct {
	cfg Config
	in  source

	state
	saved deque.Deque

	started bool
	current Primitive
	err     error
}

func New(symbols string, cfg Config) (*Interpreter, error) {
	return newInterpreter(&stringSource{s: symbols}, cfg)
}

// NewSymbols interprets encoded symbols without decoding them into a string
// first; decode maps each code to its rune. Error offsets are byte offsets in
// the decoded string.
func NewSymbols[S ~byte](symbols []S, decode func(S) rune, cfg Config) (*Interpreter, error) {
	return newInterpreter(&symbolSource[S]{symbols: symbols, decode: decode}, cfg)
}

func newInterpreter(in source, cfg Config) (*Interpreter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Jitter > 0 && cfg.Rand == nil {
		cfg.Rand = rand.New()
	}
	return &Interpreter{
		cfg:   cfg,
		in:    in,
		state: state{heading: cfg.InitHeading},
		saved: deque.NewDeque(),
	}, nil
}

// Next advances to the next primitive. It returns false at the end of the
// string or on error; Err distinguishes the two.
func (t *Interpreter) Next() bool {
	if t.err != nil {
		return false
	}
	if !t.started {
		t.started = true
		t.current = Primitive{Op: MoveTo, X: t.x, Y: t.y}
		return true
	}

	for {
		r, at, ok := t.in.next()
		if !ok {
			return false
		}

		switch r {
		case 'F':
			t.forward(t.jitter(t.cfg.Step))
			t.current = Primitive{Op: LineTo, X: t.x, Y: t.y}
			return true
		case '+':
			t.heading += t.jitter(t.cfg.Turn)
		case '-', '−':
			t.heading -= t.jitter(t.cfg.Turn)
		case '[':
			t.saved.PushBack(t.state)
		case ']':
			if t.saved.Empty() {
				t.err = &UnbalancedBracketError{Offset: at}
				return false
			}
			t.state = t.saved.Back().(state)
			t.saved.PopBack()
			t.current = Primitive{Op: MoveTo, X: t.x, Y: t.y}
			return true
		}
	}
}

func (t *Interpreter) Primitive() Primitive {
	return t.current
}

func (t *Interpreter) Err() error {
	return t.err
}

func (t *Interpreter) Position() (x, y float64) {
	return t.x, t.y
}

func (t *Interpreter) Heading() float64 {
	return t.heading
}

// Depth is the number of saved states.
func (t *Interpreter) Depth() int {
	return t.saved.Len()
}

func (t *Interpreter) forward(step float64) {
	rad := t.heading * math.Pi / 180
	t.x += step * math.Cos(rad)
	t.y += step * math.Sin(rad)
}

func (t *Interpreter) jitter(v float64) float64 {
	if t.cfg.Jitter == 0 {
		return v
	}
	return v * (1 - t.cfg.Jitter + 2*t.cfg.Jitter*t.cfg.Rand.Float64())
}

// Walk interprets symbols and forwards every primitive to sink.
func Walk(symbols string, cfg Config, sink Sink) error {
	t, err := New(symbols, cfg)
	if err != nil {
		return err
	}
	return t.walk(sink)
}

// WalkSymbols is Walk over encoded symbols.
func WalkSymbols[S ~byte](symbols []S, decode func(S) rune, cfg Config, sink Sink) error {
	t, err := NewSymbols(symbols, decode, cfg)
	if err != nil {
		return err
	}
	return t.walk(sink)
}

func (t *Interpreter) walk(sink Sink) error {
	for t.Next() {
		p := t.Primitive()
		switch p.Op {
		case MoveTo:
			sink.MoveTo(p.X, p.Y)
		case LineTo:
			sink.LineTo(p.X, p.Y)
		}
	}
	return t.Err()
}

// Interpret collects all primitives of symbols.
func Interpret(symbols string, cfg Config) ([]Primitive, error) {
	t, err := New(symbols, cfg)
	if err != nil {
		return nil, err
	}
	var primitives []Primitive
	for t.Next() {
		primitives = append(primitives, t.Primitive())
	}
	return primitives, t.Err()
}
