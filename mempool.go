package lsystem

type Buffer struct {
	Symbols []Symbol
}

func (b *Buffer) Len() int {
	return len(b.Symbols)
}

// BufferPool holds the committed generation and the one being built. Swap
// commits the built generation; the old one becomes the next write target.
type BufferPool struct {
	active   *Buffer
	inactive *Buffer

	swap bool
}

func NewBufferPool(capacity int) *BufferPool {
	return &BufferPool{
		active: &Buffer{
			Symbols: make([]Symbol, 0, capacity),
		},
		inactive: &Buffer{
			Symbols: make([]Symbol, 0, capacity),
		},

		swap: false,
	}
}

func (m *BufferPool) Reset() {
	m.active.Symbols = m.active.Symbols[:0]
	m.inactive.Symbols = m.inactive.Symbols[:0]
	m.swap = false
}

// GetActive returns the committed generation.
func (m *BufferPool) GetActive() *Buffer {
	if m.swap {
		return m.inactive
	}
	return m.active
}

// GetSwap returns the generation under construction.
func (m *BufferPool) GetSwap() *Buffer {
	if m.swap {
		return m.active
	}
	return m.inactive
}

// Load replaces the committed generation with a copy of symbols.
func (m *BufferPool) Load(symbols []Symbol) {
	active := m.GetActive()
	active.Symbols = append(active.Symbols[:0], symbols...)
}

// Reserve truncates the write buffer and makes room for n symbols.
func (m *BufferPool) Reserve(n int) {
	target := m.GetSwap()
	if cap(target.Symbols) < n {
		target.Symbols = make([]Symbol, 0, n)
		return
	}
	target.Symbols = target.Symbols[:0]
}

func (m *BufferPool) Append(s Symbol) {
	target := m.GetSwap()
	target.Symbols = append(target.Symbols, s)
}

func (m *BufferPool) AppendSlice(symbols []Symbol) {
	target := m.GetSwap()
	target.Symbols = append(target.Symbols, symbols...)
}

func (m *BufferPool) GetLen() int {
	return m.GetActive().Len()
}

func (m *BufferPool) GetCap() int {
	return cap(m.GetActive().Symbols)
}

// Swap commits the write buffer.
func (m *BufferPool) Swap() {
	m.swap = !m.swap
}

func (m *BufferPool) ReadAll() []Symbol {
	return m.GetActive().Symbols
}
