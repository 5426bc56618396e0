package turtle

import (
	"regexp"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const delta = 1e-9

type constRand float64

func (r constRand) Float64() float64 {
	return float64(r)
}

func unit(initHeading float64) Config {
	return Config{Step: 1, Turn: 90, InitHeading: initHeading}
}

func assertPrimitives(t *testing.T, expected, actual []Primitive) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Op, actual[i].Op, "primitive %d", i)
		assert.InDelta(t, expected[i].X, actual[i].X, delta, "primitive %d x", i)
		assert.InDelta(t, expected[i].Y, actual[i].Y, delta, "primitive %d y", i)
	}
}

func TestTurtleBalance(t *testing.T) {
	it, err := New("F[+F]F", unit(90))
	require.NoError(t, err)

	var primitives []Primitive
	for it.Next() {
		primitives = append(primitives, it.Primitive())
	}
	require.NoError(t, it.Err())

	assertPrimitives(t, []Primitive{
		{Op: MoveTo, X: 0, Y: 0},
		{Op: LineTo, X: 0, Y: 1},
		{Op: LineTo, X: -1, Y: 1},
		{Op: MoveTo, X: 0, Y: 1},
		{Op: LineTo, X: 0, Y: 2},
	}, primitives)

	x, y := it.Position()
	assert.InDelta(t, 0, x, delta)
	assert.InDelta(t, 2, y, delta)
	assert.InDelta(t, 90, it.Heading(), delta)
	assert.Zero(t, it.Depth())
}

func TestBracketImbalance(t *testing.T) {
	primitives, err := Interpret("F]", unit(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnbalancedBracket))

	var unbalanced *UnbalancedBracketError
	require.True(t, errors.As(err, &unbalanced))
	assert.Equal(t, 1, unbalanced.Offset)
	assert.Len(t, primitives, 2)
}

func TestBracketOffsetIsByteOffset(t *testing.T) {
	_, err := Interpret("−F]", unit(0))
	var unbalanced *UnbalancedBracketError
	require.True(t, errors.As(err, &unbalanced))
	assert.Equal(t, 4, unbalanced.Offset)
}

func TestEmptyInputEmitsInitialMove(t *testing.T) {
	primitives, err := Interpret("", unit(0))
	require.NoError(t, err)
	assert.Equal(t, []Primitive{{Op: MoveTo}}, primitives)
}

func TestTurns(t *testing.T) {
	tests := []struct {
		name    string
		symbols string
		x, y    float64
	}{
		{"forward", "F", 1, 0},
		{"plus is counterclockwise", "+F", 0, 1},
		{"hyphen", "-F", 0, -1},
		{"minus sign", "−F", 0, -1},
		{"square", "F+F+F+F", 0, 0},
		{"unknown symbols ignored", "AXF|F", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primitives, err := Interpret(tt.symbols, unit(0))
			require.NoError(t, err)
			last := primitives[len(primitives)-1]
			assert.InDelta(t, tt.x, last.X, delta)
			assert.InDelta(t, tt.y, last.Y, delta)
		})
	}
}

func TestOnlyForwardDraws(t *testing.T) {
	primitives, err := Interpret("+-[]AB", unit(0))
	require.NoError(t, err)
	for _, p := range primitives {
		assert.Equal(t, MoveTo, p.Op)
	}
	assert.Len(t, primitives, 2)
}

var brackets = regexp.MustCompile(`\[[^\[\]]*\]`)

func stripBranches(s string) string {
	for brackets.MatchString(s) {
		s = brackets.ReplaceAllString(s, "")
	}
	return s
}

func finalPosition(t *testing.T, symbols string, cfg Config) (float64, float64) {
	t.Helper()
	it, err := New(symbols, cfg)
	require.NoError(t, err)
	for it.Next() {
	}
	require.NoError(t, it.Err())
	return it.Position()
}

func TestBranchesDoNotMoveTurtle(t *testing.T) {
	cfg := Config{Step: 3, Turn: 25, InitHeading: 90}
	inputs := []string{
		"F[+F]F",
		"F[+F[-F]F]F[-F]F",
		"FF-[-F+F+F]+[+F-F-F]",
		"X[[F]]F[+[−F]F+]−F",
	}
	for _, in := range inputs {
		x1, y1 := finalPosition(t, in, cfg)
		x2, y2 := finalPosition(t, stripBranches(in), cfg)
		assert.InDelta(t, x2, x1, delta, in)
		assert.InDelta(t, y2, y1, delta, in)
	}
}

func TestNestedDepth(t *testing.T) {
	it, err := New("[[[F", unit(0))
	require.NoError(t, err)
	for it.Next() {
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 3, it.Depth())
}

func TestJitter(t *testing.T) {
	cfg := Config{Step: 10, Turn: 90, Jitter: 0.5, Rand: constRand(1)}
	primitives, err := Interpret("F", cfg)
	require.NoError(t, err)
	assert.InDelta(t, 15, primitives[1].X, delta)

	cfg.Rand = constRand(0)
	primitives, err = Interpret("+F", cfg)
	require.NoError(t, err)
	// heading 45, step 5
	assert.InDelta(t, 5/1.4142135623730951, primitives[1].X, delta)
	assert.InDelta(t, 5/1.4142135623730951, primitives[1].Y, delta)
}

func TestJitterStaysInRange(t *testing.T) {
	cfg := Config{Step: 1, Turn: 90, Jitter: 0.15}
	primitives, err := Interpret("FFFFFFFFFF", cfg)
	require.NoError(t, err)
	for i := 1; i < len(primitives); i++ {
		step := primitives[i].X - primitives[i-1].X
		assert.GreaterOrEqual(t, step, 0.85-delta)
		assert.LessOrEqual(t, step, 1.15+delta)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero step", Config{Step: 0, Turn: 90}},
		{"negative turn", Config{Step: 1, Turn: -90}},
		{"jitter above one", Config{Step: 1, Turn: 90, Jitter: 1.5}},
		{"negative jitter", Config{Step: 1, Turn: 90, Jitter: -0.1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("F", tt.cfg)
			assert.True(t, errors.Is(err, ErrBadArgument))
		})
	}
}

type recorder struct {
	ops []string
}

func (r *recorder) MoveTo(x, y float64) { r.ops = append(r.ops, "M") }
func (r *recorder) LineTo(x, y float64) { r.ops = append(r.ops, "L") }

func TestWalk(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Walk("F[+F]F", unit(90), r))
	assert.Equal(t, []string{"M", "L", "L", "M", "L"}, r.ops)

	err := Walk("]", unit(0), &recorder{})
	assert.True(t, errors.Is(err, ErrUnbalancedBracket))
}

// codes encodes str with one byte per distinct rune, in order of appearance.
func codes(str string) ([]uint8, func(uint8) rune) {
	var runes []rune
	index := map[rune]uint8{}
	var symbols []uint8
	for _, r := range str {
		c, ok := index[r]
		if !ok {
			c = uint8(len(runes))
			index[r] = c
			runes = append(runes, r)
		}
		symbols = append(symbols, c)
	}
	return symbols, func(c uint8) rune { return runes[c] }
}

func TestWalkSymbolsMatchesWalk(t *testing.T) {
	for _, str := range []string{"", "F[+F]F", "F−F[−F+F]F", "X+F[A]-F"} {
		fromString := &recorder{}
		require.NoError(t, Walk(str, unit(90), fromString))

		symbols, decode := codes(str)
		fromSymbols := &recorder{}
		require.NoError(t, WalkSymbols(symbols, decode, unit(90), fromSymbols))
		assert.Equal(t, fromString.ops, fromSymbols.ops, str)
	}
}

func TestWalkSymbolsByteOffset(t *testing.T) {
	symbols, decode := codes("−F]")
	err := WalkSymbols(symbols, decode, unit(0), &recorder{})
	require.Error(t, err)

	var unbalanced *UnbalancedBracketError
	require.True(t, errors.As(err, &unbalanced))
	assert.Equal(t, 4, unbalanced.Offset)
}

func TestPrimitiveString(t *testing.T) {
	assert.Equal(t, "LineTo(-1, 2.5)", Primitive{Op: LineTo, X: -1, Y: 2.5}.String())
}

func BenchmarkInterpret(b *testing.B) {
	symbols := "F[+F]F[-F]F"
	for i := 0; i < 5; i++ {
		symbols = symbols + "[" + symbols + "]"
	}
	cfg := Config{Step: 1, Turn: 25}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Interpret(symbols, cfg)
	}
}
