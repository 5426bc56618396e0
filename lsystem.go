package lsystem

import (
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrBadArgument       = errors.New("bad argument")
	ErrEmptyAlternatives = errors.New("stochastic rule has no positive weight")
)

// LSystem is a context-free, optionally stochastic, L-system. Rules are kept
// in declaration order; the first rule for a predecessor wins.
type LSystem struct {
	Name      string
	Axiom     []Symbol
	Rules     []ProductionRule
	TurnAngle float64
	InitAngle float64
	Alphabet  *Alphabet

	ruleTable [MaxSymbols]*ProductionRule
	shadowed  []rune
	maxLen    int

	MemPool    *BufferPool
	generation int
}

func NewLSystem(name, axiom string, turnAngle, initAngle float64) (*LSystem, error) {
	alphabet := NewAlphabet()
	encoded, err := alphabet.Encode(axiom)
	if err != nil {
		return nil, errors.Wrap(err, "axiom")
	}

	l := &LSystem{
		Name:      name,
		Axiom:     encoded,
		TurnAngle: turnAngle,
		InitAngle: initAngle,
		Alphabet:  alphabet,
		maxLen:    1,
		MemPool:   NewBufferPool(len(encoded) * 4),
	}
	l.Reset()
	return l, nil
}

type Alternative struct {
	Probability float64
	Successor   string
}

func (l *LSystem) AddRule(predecessor rune, successor string) error {
	pred, err := l.Alphabet.Symbol(predecessor)
	if err != nil {
		return err
	}
	succ, err := l.Alphabet.Encode(successor)
	if err != nil {
		return err
	}
	l.addRule(NewProductionRule(pred, succ))
	return nil
}

func (l *LSystem) AddStochasticRule(predecessor rune, alternatives ...Alternative) error {
	pred, err := l.Alphabet.Symbol(predecessor)
	if err != nil {
		return err
	}
	weights := make([]WeightedSuccessor, len(alternatives))
	for i, alt := range alternatives {
		succ, err := l.Alphabet.Encode(alt.Successor)
		if err != nil {
			return err
		}
		weights[i] = WeightedSuccessor{Probability: alt.Probability, Successor: succ}
	}
	rule, err := NewStochasticRule(pred, weights)
	if err != nil {
		return errors.Wrapf(err, "rule %q", predecessor)
	}
	l.addRule(rule)
	return nil
}

func (l *LSystem) addRule(rule ProductionRule) {
	l.Rules = append(l.Rules, rule)
	if l.ruleTable[rule.Predecessor] != nil {
		l.shadowed = append(l.shadowed, l.Alphabet.Rune(rule.Predecessor))
		return
	}
	// Rules may grow and move; the table points at its own copy.
	r := rule
	l.ruleTable[rule.Predecessor] = &r
	if n := r.MaxSuccessorLen(); n > l.maxLen {
		l.maxLen = n
	}
}

// Rule returns the rule that rewrites s, if any.
func (l *LSystem) Rule(s Symbol) (*ProductionRule, bool) {
	r := l.ruleTable[s]
	return r, r != nil
}

// Shadowed lists predecessors of rules that are never applied because an
// earlier rule has the same predecessor.
func (l *LSystem) Shadowed() []rune {
	return l.shadowed
}

func (l *LSystem) IsVariable(s Symbol) bool {
	return l.ruleTable[s] != nil
}

func (l *LSystem) IsConstant(s Symbol) bool {
	return int(s) < l.Alphabet.Len() && l.ruleTable[s] == nil
}

func (l *LSystem) Variables() SymbolSet {
	vars := make(SymbolSet)
	for i := 0; i < l.Alphabet.Len(); i++ {
		if l.IsVariable(Symbol(i)) {
			vars.Add(Symbol(i))
		}
	}
	return vars
}

func (l *LSystem) Constants() SymbolSet {
	consts := make(SymbolSet)
	for i := 0; i < l.Alphabet.Len(); i++ {
		if l.IsConstant(Symbol(i)) {
			consts.Add(Symbol(i))
		}
	}
	return consts
}

// Apply rewrites a single symbol. Symbols without a rule map to themselves.
func (l *LSystem) Apply(s Symbol, rng Rand) ([]Symbol, error) {
	rule, ok := l.Rule(s)
	if !ok {
		return []Symbol{s}, nil
	}
	successor, err := rule.Expand(s, rng)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q", l.Alphabet.Rune(s))
	}
	return successor, nil
}

// IterateOnce performs one parallel rewrite: every symbol of the committed
// generation is expanded into the write buffer, which is then committed.
func (l *LSystem) IterateOnce(rng Rand) error {
	if rng == nil {
		rng = NewRand()
	}
	current := l.MemPool.ReadAll()
	l.MemPool.Reserve(len(current) * l.maxLen)

	for _, s := range current {
		rule := l.ruleTable[s]
		if rule == nil {
			l.MemPool.Append(s)
			continue
		}
		successor, err := rule.Expand(s, rng)
		if err != nil {
			return errors.Wrapf(err, "rule %q", l.Alphabet.Rune(s))
		}
		l.MemPool.AppendSlice(successor)
	}

	l.MemPool.Swap()
	l.generation++
	return nil
}

// Iterate restarts from the axiom and rewrites n times. A nil rng uses a
// randomly seeded source.
func (l *LSystem) Iterate(n int, rng Rand) error {
	if n < 0 {
		return errors.Wrapf(ErrBadArgument, "negative iteration count %d", n)
	}
	if rng == nil {
		rng = NewRand()
	}
	l.Reset()
	for i := 0; i < n; i++ {
		if err := l.IterateOnce(rng); err != nil {
			return errors.Wrapf(err, "generation %d", i+1)
		}
	}
	return nil
}

func (l *LSystem) Reset() {
	l.MemPool.Reset()
	l.MemPool.Load(l.Axiom)
	l.generation = 0
}

// State returns the current generation. The slice is reused by later rewrites.
func (l *LSystem) State() []Symbol {
	return l.MemPool.ReadAll()
}

func (l *LSystem) Generation() int {
	return l.generation
}

func (l *LSystem) Encode(str string) ([]Symbol, error) {
	return l.Alphabet.Encode(str)
}

func (l *LSystem) Decode(symbols []Symbol) string {
	return l.Alphabet.Decode(symbols)
}

// String returns the current generation as text.
func (l *LSystem) String() string {
	return l.Decode(l.State())
}

// SymbolOf returns the code of the first rune of str, for tests and tooling
// that address symbols by their text.
func (l *LSystem) SymbolOf(str string) (Symbol, bool) {
	r, _ := utf8.DecodeRuneInString(str)
	return l.Alphabet.Lookup(r)
}
