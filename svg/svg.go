// Package svg collects turtle primitives into SVG path data and writes the
// document.
package svg

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"
)

const DefaultDecimals = 3

type Options struct {
	Title       string
	Stroke      string
	StrokeWidth float64
	// Margin is added around the drawing's bounding box.
	Margin float64
}

func DefaultOptions() Options {
	return Options{
		Stroke:      "black",
		StrokeWidth: 1,
		Margin:      10,
	}
}

// Path accumulates MoveTo and LineTo commands. It implements turtle.Sink.
type Path struct {
	Decimals int

	d     strings.Builder
	count int

	minX, minY, maxX, maxY float64
}

func NewPath() *Path {
	return &Path{
		Decimals: DefaultDecimals,
		minX:     math.Inf(1),
		minY:     math.Inf(1),
		maxX:     math.Inf(-1),
		maxY:     math.Inf(-1),
	}
}

func (p *Path) MoveTo(x, y float64) {
	p.command('M', x, y)
}

func (p *Path) LineTo(x, y float64) {
	p.command('L', x, y)
}

func (p *Path) command(c byte, x, y float64) {
	if p.count > 0 {
		p.d.WriteByte(' ')
	}
	p.d.WriteByte(c)
	p.d.WriteString(p.format(x))
	p.d.WriteByte(' ')
	p.d.WriteString(p.format(y))
	p.count++

	p.minX = math.Min(p.minX, x)
	p.minY = math.Min(p.minY, y)
	p.maxX = math.Max(p.maxX, x)
	p.maxY = math.Max(p.maxY, y)
}

func (p *Path) format(v float64) string {
	s := strconv.FormatFloat(v, 'f', p.Decimals, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Data returns the path data, e.g. "M0 0 L0 1".
func (p *Path) Data() string {
	return p.d.String()
}

// Len is the number of commands in the path.
func (p *Path) Len() int {
	return p.count
}

// Bounds returns the bounding box of all points; it is empty for an empty path.
func (p *Path) Bounds() (minX, minY, maxX, maxY float64) {
	if p.count == 0 {
		return 0, 0, 0, 0
	}
	return p.minX, p.minY, p.maxX, p.maxY
}

// Render writes the path as a standalone SVG document. The y axis is
// flipped so that positive turns are counterclockwise on screen.
func (p *Path) Render(w io.Writer, opts Options) error {
	minX, minY, maxX, maxY := p.Bounds()
	width := maxX - minX + 2*opts.Margin
	height := maxY - minY + 2*opts.Margin
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	bw := bufio.NewWriter(w)
	canvas := svgo.New(bw)
	canvas.Decimals = p.Decimals
	canvas.Startview(width, height, minX-opts.Margin, -maxY-opts.Margin, width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Gtransform("scale(1,-1)")
	if p.count > 0 {
		canvas.Path(p.Data(), p.style(opts))
	}
	canvas.Gend()
	canvas.End()
	return bw.Flush()
}

func (p *Path) style(opts Options) string {
	stroke := opts.Stroke
	if stroke == "" {
		stroke = "black"
	}
	return `fill="none" stroke="` + stroke + `" stroke-width="` + p.format(opts.StrokeWidth) +
		`" stroke-linecap="round" stroke-linejoin="round" vector-effect="non-scaling-stroke"`
}
