package bufop

// Ring is the fixed-size window of samples behind a rolling statistic.
//
//	window: (size=4, cursor=1)
//
// inputs --------10 20 20 30 <- [ 50 | 60 80 90 ]  <- 80
//
//	          ^^
//	          next slot to overwrite
//
// Next window: [50 80 80 90], cursor=2, evicted=60
//
// While the ring is warming up Put appends and nothing is evicted. Once it is
// full every Put overwrites the oldest value (the one at the cursor) and
// returns it, so callers can undo its contribution to any cached operation
// without walking the rest of the window.
type Ring struct {
	buf    []float64
	cursor int
}

// New returns an empty Ring able to hold `size` values. size must be > 0.
func New(size int) *Ring {
	return &Ring{
		buf: make([]float64, 0, size),
	}
}

// From returns a full Ring containing a copy of `seed`, in order. The next
// Put overwrites seed[0].
func From(seed []float64) *Ring {
	buf := make([]float64, len(seed))
	copy(buf, seed)
	return &Ring{buf: buf}
}

// Put inserts `v`. If the ring was already full it returns the evicted value
// and ok=true.
func (r *Ring) Put(v float64) (evicted float64, ok bool) {
	if len(r.buf) < cap(r.buf) {
		r.buf = append(r.buf, v)
		return 0, false
	}
	evicted = r.buf[r.cursor]
	r.buf[r.cursor] = v
	r.cursor = (r.cursor + 1) % len(r.buf)
	return evicted, true
}

// At returns the i-th oldest value of the window. ok is false when i is
// outside [0, Len()).
func (r *Ring) At(i int) (v float64, ok bool) {
	if i < 0 || i >= len(r.buf) {
		return 0, false
	}
	return r.buf[(r.cursor+i)%len(r.buf)], true
}

func (r *Ring) Len() int {
	return len(r.buf)
}

func (r *Ring) Cap() int {
	return cap(r.buf)
}

func (r *Ring) Full() bool {
	return len(r.buf) == cap(r.buf)
}

// Cursor is the index of the slot that the next Put overwrites once the ring
// is full.
func (r *Ring) Cursor() int {
	return r.cursor
}

// Values returns a copy of the window, oldest first.
func (r *Ring) Values() []float64 {
	out := make([]float64, 0, len(r.buf))
	out = append(out, r.buf[r.cursor:]...)
	return append(out, r.buf[:r.cursor]...)
}
