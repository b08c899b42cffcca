package session

// Ledger is the round score. It is unclamped and may go negative.
type Ledger struct {
	value int
	trace []int
}

// NewLedger returns a ledger at zero.
func NewLedger() *Ledger {
	return &Ledger{trace: []int{0}}
}

func (l *Ledger) Increment() {
	l.value++
	l.trace = append(l.trace, l.value)
}

func (l *Ledger) Decrement() {
	l.value--
	l.trace = append(l.trace, l.value)
}

// Reset sets the score back to zero and starts a new trace.
func (l *Ledger) Reset() {
	l.value = 0
	l.trace = []int{0}
}

func (l *Ledger) Value() int {
	return l.value
}

// Trace returns every score the ledger has held since the last reset.
func (l *Ledger) Trace() []int {
	out := make([]int, len(l.trace))
	copy(out, l.trace)
	return out
}

// Bounds is the inclusive score range a round stays alive in.
type Bounds struct {
	Min int
	Max int
}

// Contains reports whether score is within the bounds.
func (b Bounds) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}
