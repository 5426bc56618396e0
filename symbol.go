package lsystem

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxSymbols is the number of distinct runes an Alphabet can encode.
const MaxSymbols = 256

// Symbol is the byte code of a single rune within an Alphabet.
type Symbol byte

type SymbolSet map[Symbol]struct{}

func (ss SymbolSet) Contains(s Symbol) bool {
	_, exists := ss[s]
	return exists
}

func (ss SymbolSet) Add(s Symbol) {
	ss[s] = struct{}{}
}

func (ss SymbolSet) AsSlice() []Symbol {
	slice := make([]Symbol, 0, len(ss))
	for s := range ss {
		slice = append(slice, s)
	}
	return slice
}

// Alphabet assigns Symbol codes to runes in order of first appearance.
type Alphabet struct {
	codes map[rune]Symbol
	runes []rune
}

func NewAlphabet() *Alphabet {
	return &Alphabet{
		codes: make(map[rune]Symbol),
		runes: make([]rune, 0, 16),
	}
}

func (a *Alphabet) Len() int {
	return len(a.runes)
}

// Symbol returns the code of r, assigning a new one if r has not been seen yet.
func (a *Alphabet) Symbol(r rune) (Symbol, error) {
	if s, ok := a.codes[r]; ok {
		return s, nil
	}
	if len(a.runes) >= MaxSymbols {
		return 0, errors.Wrapf(ErrBadArgument, "alphabet is full, cannot add %q", r)
	}
	s := Symbol(len(a.runes))
	a.codes[r] = s
	a.runes = append(a.runes, r)
	return s, nil
}

// Lookup returns the code of r without extending the alphabet.
func (a *Alphabet) Lookup(r rune) (Symbol, bool) {
	s, ok := a.codes[r]
	return s, ok
}

func (a *Alphabet) Rune(s Symbol) rune {
	if int(s) >= len(a.runes) {
		return utf8.RuneError
	}
	return a.runes[s]
}

func (a *Alphabet) Encode(str string) ([]Symbol, error) {
	symbols := make([]Symbol, 0, utf8.RuneCountInString(str))
	for _, r := range str {
		s, err := a.Symbol(r)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}

func (a *Alphabet) Decode(symbols []Symbol) string {
	var sb strings.Builder
	sb.Grow(len(symbols))
	for _, s := range symbols {
		sb.WriteRune(a.Rune(s))
	}
	return sb.String()
}
