package lsystem

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseAlternatives reads the compact weighted form of a stochastic rule:
// groups separated by ';', each a weight followed by the successor, e.g.
// "0.33 F[+F]F; 0.33 F[-F]F; 0.34 F". Whitespace inside a successor is dropped.
func ParseAlternatives(str string) ([]Alternative, error) {
	groups := strings.Split(strings.ReplaceAll(str, "\n", ""), ";")
	var alternatives []Alternative

	for _, group := range groups {
		if strings.TrimSpace(group) == "" {
			continue
		}
		fields := strings.Fields(group)
		weight, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrBadArgument, "weight %q", fields[0])
		}
		alternatives = append(alternatives, Alternative{
			Probability: weight,
			Successor:   strings.Join(fields[1:], ""),
		})
	}
	return alternatives, nil
}

// FormatAlternatives is the inverse of ParseAlternatives.
func FormatAlternatives(alternatives []Alternative) string {
	var sb strings.Builder
	for i, alt := range alternatives {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(strconv.FormatFloat(alt.Probability, 'g', -1, 64))
		if alt.Successor != "" {
			sb.WriteString(" ")
			sb.WriteString(alt.Successor)
		}
	}
	return sb.String()
}
