// Package config reads L-system descriptions from YAML.
//
//	name: sierpinski
//	axiom: A
//	turn_angle: 60
//	init_angle: 0
//	rules:
//	  - ruletype: simple
//	    predecessor: A
//	    successor: +B−A−B+
//	  - ruletype: stochastic
//	    predecessor: B
//	    successors:
//	      - probability: 0.5
//	        successor: −A+B+A−
//	      - probability: 0.5
//	        successor: A
//
// A stochastic rule may also give its successors in the compact form
// "0.5 −A+B+A−; 0.5 A".
package config

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	RuleSimple     = "simple"
	RuleStochastic = "stochastic"
)

var (
	ErrConfigParse = errors.New("malformed description")
	ErrIO          = errors.New("i/o error")
)

// Format mirrors one YAML document. Pointer fields are required and nil
// when missing.
type Format struct {
	Name      *string `yaml:"name"`
	Axiom     *string `yaml:"axiom"`
	TurnAngle *int    `yaml:"turn_angle"`
	InitAngle *int    `yaml:"init_angle"`
	Rules     *[]Rule `yaml:"rules"`
}

type Rule struct {
	RuleType    string     `yaml:"ruletype"`
	Predecessor string     `yaml:"predecessor"`
	Successor   *string    `yaml:"successor"`
	Successors  Successors `yaml:"successors"`
}

type Successor struct {
	Probability *float64 `yaml:"probability"`
	Successor   *string  `yaml:"successor"`
}

// Successors accepts either a list of {probability, successor} or the
// compact string form.
type Successors struct {
	List    []Successor
	Compact string
	set     bool
}

func (s *Successors) UnmarshalYAML(value *yaml.Node) error {
	s.set = true
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&s.Compact)
	}
	return value.Decode(&s.List)
}

func (s Successors) IsSet() bool {
	return s.set
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{
		in:          in,
		yamlDecoder: yaml.NewDecoder(in),
	}
}

// Decode reads the next document of the stream. It returns io.EOF when the
// stream is exhausted.
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	err := dec.yamlDecoder.Decode(format)
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrapf(ErrConfigParse, "%v", err)
	}
	return format, nil
}
