package lsystem

import (
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

type GenerationStats struct {
	Generation int
	Length     int
	Variables  int
	Constants  int
	// Growth is Length divided by the previous generation's length, 0 for
	// the axiom or after an empty generation.
	Growth float64
}

type GrowthReport struct {
	Name        string
	Generations []GenerationStats
}

// AnalyseGrowth rewrites the system n times from the axiom and records the
// composition of every generation, the axiom included. The system is left
// at generation n.
func (l *LSystem) AnalyseGrowth(n int, rng Rand) (*GrowthReport, error) {
	if n < 0 {
		return nil, errors.Wrapf(ErrBadArgument, "negative iteration count %d", n)
	}
	if rng == nil {
		rng = NewRand()
	}

	report := &GrowthReport{
		Name:        l.Name,
		Generations: make([]GenerationStats, 0, n+1),
	}

	l.Reset()
	prevLen := 0
	for i := 0; ; i++ {
		stats := GenerationStats{Generation: i, Length: len(l.State())}
		for _, s := range l.State() {
			if l.IsVariable(s) {
				stats.Variables++
			} else {
				stats.Constants++
			}
		}
		if prevLen > 0 {
			stats.Growth = float64(stats.Length) / float64(prevLen)
		}
		prevLen = stats.Length
		report.Generations = append(report.Generations, stats)

		if i == n {
			break
		}
		if err := l.IterateOnce(rng); err != nil {
			return nil, errors.Wrapf(err, "generation %d", i+1)
		}
	}
	return report, nil
}

// AverageGrowth is the mean growth factor over all generations that have one.
func (gr *GrowthReport) AverageGrowth() float64 {
	total := 0.0
	count := 0
	for _, g := range gr.Generations {
		if g.Growth > 0 {
			total += g.Growth
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// RenderChart writes an HTML bar chart of the symbol counts per generation.
func (gr *GrowthReport) RenderChart(w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title: "Growth Analysis",
		Subtitle: "Symbols per generation of " + gr.Name + " over " + strconv.Itoa(len(gr.Generations)) +
			" generations (avg growth " + strconv.FormatFloat(gr.AverageGrowth(), 'f', 4, 64) + ")",
	}))

	labels := make([]string, len(gr.Generations))
	variables := make([]opts.BarData, len(gr.Generations))
	constants := make([]opts.BarData, len(gr.Generations))
	for i, g := range gr.Generations {
		labels[i] = strconv.Itoa(g.Generation)
		variables[i] = opts.BarData{Value: g.Variables}
		constants[i] = opts.BarData{Value: g.Constants}
	}

	bar.SetXAxis(labels).
		AddSeries("variables", variables).
		AddSeries("constants", constants)
	return bar.Render(w)
}
