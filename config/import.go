package config

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"

	lsystem "github.com/viktordanov/lsystem-svg"
)

// Import builds the L-system described by format.
func (format *Format) Import() (*lsystem.LSystem, error) {
	switch {
	case format.Name == nil:
		return nil, errors.Wrap(ErrConfigParse, "missing field name")
	case format.Axiom == nil:
		return nil, errors.Wrap(ErrConfigParse, "missing field axiom")
	case format.TurnAngle == nil:
		return nil, errors.Wrap(ErrConfigParse, "missing field turn_angle")
	case format.InitAngle == nil:
		return nil, errors.Wrap(ErrConfigParse, "missing field init_angle")
	case format.Rules == nil:
		return nil, errors.Wrap(ErrConfigParse, "missing field rules")
	}

	ls, err := lsystem.NewLSystem(*format.Name, *format.Axiom, float64(*format.TurnAngle), float64(*format.InitAngle))
	if err != nil {
		return nil, errors.Wrapf(ErrConfigParse, "system %q: %v", *format.Name, err)
	}

	for i, rule := range *format.Rules {
		if err := rule.addTo(ls); err != nil {
			return nil, errors.Wrapf(err, "system %q, rule %d", *format.Name, i)
		}
	}
	return ls, nil
}

func (rule *Rule) addTo(ls *lsystem.LSystem) error {
	if utf8.RuneCountInString(rule.Predecessor) != 1 {
		return errors.Wrapf(ErrConfigParse, "predecessor %q must be a single character", rule.Predecessor)
	}
	predecessor, _ := utf8.DecodeRuneInString(rule.Predecessor)

	switch rule.RuleType {
	case RuleSimple:
		if rule.Successor == nil {
			return errors.Wrap(ErrConfigParse, "missing field successor")
		}
		if err := ls.AddRule(predecessor, *rule.Successor); err != nil {
			return errors.Wrapf(ErrConfigParse, "%v", err)
		}
	case RuleStochastic:
		alternatives, err := rule.alternatives()
		if err != nil {
			return err
		}
		if err := ls.AddStochasticRule(predecessor, alternatives...); err != nil {
			return errors.Wrapf(ErrConfigParse, "%v", err)
		}
	case "":
		return errors.Wrap(ErrConfigParse, "missing field ruletype")
	default:
		return errors.Wrapf(ErrConfigParse, "unknown ruletype %q", rule.RuleType)
	}
	return nil
}

func (rule *Rule) alternatives() ([]lsystem.Alternative, error) {
	if !rule.Successors.IsSet() {
		return nil, errors.Wrap(ErrConfigParse, "missing field successors")
	}
	if rule.Successors.List == nil {
		alternatives, err := lsystem.ParseAlternatives(rule.Successors.Compact)
		if err != nil {
			return nil, errors.Wrapf(ErrConfigParse, "%v", err)
		}
		return alternatives, nil
	}

	alternatives := make([]lsystem.Alternative, len(rule.Successors.List))
	for i, s := range rule.Successors.List {
		if s.Probability == nil {
			return nil, errors.Wrapf(ErrConfigParse, "successor %d: missing field probability", i)
		}
		if s.Successor == nil {
			return nil, errors.Wrapf(ErrConfigParse, "successor %d: missing field successor", i)
		}
		alternatives[i] = lsystem.Alternative{Probability: *s.Probability, Successor: *s.Successor}
	}
	return alternatives, nil
}

// Read imports every document of the stream r.
func Read(r io.Reader) ([]*lsystem.LSystem, error) {
	dec := NewDecoder(r)
	var systems []*lsystem.LSystem
	for {
		format, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", len(systems))
		}
		ls, err := format.Import()
		if err != nil {
			return nil, errors.Wrapf(err, "document %d", len(systems))
		}
		systems = append(systems, ls)
	}
	if len(systems) == 0 {
		return nil, errors.Wrap(ErrConfigParse, "no description found")
	}
	return systems, nil
}

// Load opens path and imports every description in it.
func Load(path string) ([]*lsystem.LSystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIO, "%v", err)
	}
	defer f.Close()

	systems, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return systems, nil
}
