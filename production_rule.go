package lsystem

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"pgregory.net/rand"
)

// Rand is the randomness source consumed by stochastic rules.
type Rand interface {
	Float64() float64
}

// NewRand returns a Rand seeded with seed, or randomly seeded when no seed is given.
func NewRand(seed ...uint64) Rand {
	return rand.New(seed...)
}

type RuleKind uint8

const (
	Deterministic RuleKind = iota
	Stochastic
)

func (k RuleKind) String() string {
	switch k {
	case Deterministic:
		return "simple"
	case Stochastic:
		return "stochastic"
	default:
		return "RuleKind(" + strconv.Itoa(int(k)) + ")"
	}
}

type WeightedSuccessor struct {
	Probability float64
	Successor   []Symbol
}

// ProductionRule rewrites a single predecessor symbol. Kind selects which of
// Successor and Alternatives is meaningful.
type ProductionRule struct {
	Kind         RuleKind
	Predecessor  Symbol
	Successor    []Symbol
	Alternatives []WeightedSuccessor
}

func NewProductionRule(predecessor Symbol, successor []Symbol) ProductionRule {
	return ProductionRule{
		Kind:        Deterministic,
		Predecessor: predecessor,
		Successor:   successor,
	}
}

func NewStochasticRule(predecessor Symbol, alternatives []WeightedSuccessor) (ProductionRule, error) {
	for _, wt := range alternatives {
		switch {
		case wt.Probability < 0:
			return ProductionRule{}, errors.Wrapf(ErrBadArgument, "negative weight %v", wt.Probability)
		case math.IsNaN(wt.Probability) || math.IsInf(wt.Probability, 0):
			return ProductionRule{}, errors.Wrapf(ErrBadArgument, "weight %v is not finite", wt.Probability)
		}
	}
	return ProductionRule{
		Kind:         Stochastic,
		Predecessor:  predecessor,
		Alternatives: alternatives,
	}, nil
}

func (r *ProductionRule) Matches(s Symbol) bool {
	return r.Predecessor == s
}

// Expand returns the successor of the predecessor symbol. The symbol itself is
// not inspected; callers check Matches first.
func (r *ProductionRule) Expand(_ Symbol, rng Rand) ([]Symbol, error) {
	if r.Kind == Deterministic {
		return r.Successor, nil
	}
	return r.ChooseSuccessor(rng)
}

// ChooseSuccessor draws u from [0, W) and returns the first alternative whose
// cumulative weight exceeds u. A nil rng uses a randomly seeded source.
func (r *ProductionRule) ChooseSuccessor(rng Rand) ([]Symbol, error) {
	total := r.TotalWeight()
	if len(r.Alternatives) == 0 || !(total > 0) || math.IsInf(total, 1) {
		return nil, ErrEmptyAlternatives
	}
	if rng == nil {
		rng = NewRand()
	}

	random := rng.Float64() * total
	cumulative := 0.0
	last := -1
	for i, wt := range r.Alternatives {
		if wt.Probability <= 0 {
			continue
		}
		cumulative += wt.Probability
		if cumulative > random {
			return wt.Successor, nil
		}
		last = i
	}
	// only reachable through rounding of the cumulative sum
	return r.Alternatives[last].Successor, nil
}

func (r *ProductionRule) TotalWeight() float64 {
	total := 0.0
	for _, wt := range r.Alternatives {
		total += wt.Probability
	}
	return total
}

// MaxSuccessorLen is the longest successor the rule can produce.
func (r *ProductionRule) MaxSuccessorLen() int {
	if r.Kind == Deterministic {
		return len(r.Successor)
	}
	longest := 0
	for _, wt := range r.Alternatives {
		if len(wt.Successor) > longest {
			longest = len(wt.Successor)
		}
	}
	return longest
}

// Format renders the rule with runes taken from the alphabet.
func (r *ProductionRule) Format(a *Alphabet) string {
	var sb strings.Builder
	sb.WriteRune('"')
	sb.WriteRune(a.Rune(r.Predecessor))
	sb.WriteRune('"')
	sb.WriteString(": `")
	if r.Kind == Deterministic {
		sb.WriteString(a.Decode(r.Successor))
	}
	for i, wt := range r.Alternatives {
		sb.WriteString(strconv.FormatFloat(wt.Probability, 'f', 2, 64))
		sb.WriteString(" ")
		sb.WriteString(a.Decode(wt.Successor))
		if i != len(r.Alternatives)-1 {
			sb.WriteString("; ")
		}
	}
	sb.WriteString("`")
	return sb.String()
}
