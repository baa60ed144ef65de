package batch

// fifo is a ring-buffer deque of sealed batches. It keeps the total number of
// queued items so the backpressure gate can check it without a scan.
type fifo[T any] struct {
	buf   [][]T
	head  int
	n     int
	items int
}

func (f *fifo[T]) len() int {
	return f.n
}

func (f *fifo[T]) pushBack(b []T) {
	if f.n == len(f.buf) {
		f.grow()
	}
	f.buf[(f.head+f.n)%len(f.buf)] = b
	f.n++
	f.items += len(b)
}

func (f *fifo[T]) pushFront(b []T) {
	if f.n == len(f.buf) {
		f.grow()
	}
	f.head = (f.head - 1 + len(f.buf)) % len(f.buf)
	f.buf[f.head] = b
	f.n++
	f.items += len(b)
}

func (f *fifo[T]) popFront() []T {
	b := f.buf[f.head]
	f.buf[f.head] = nil
	f.head = (f.head + 1) % len(f.buf)
	f.n--
	f.items -= len(b)
	return b
}

// appendBack adds x to the tail batch when that fits without reallocating and
// keeps the batch under maxBatch.
func (f *fifo[T]) appendBack(x T, maxBatch int) bool {
	if f.n == 0 {
		return false
	}
	i := (f.head + f.n - 1) % len(f.buf)
	tail := f.buf[i]
	if len(tail) == cap(tail) || len(tail) >= maxBatch {
		return false
	}
	f.buf[i] = append(tail, x)
	f.items++
	return true
}

// topOff copies as many leading elements of src as fit into the spare
// capacity of the tail batch, without exceeding maxBatch, and returns how
// many were copied.
func (f *fifo[T]) topOff(src []T, maxBatch int) int {
	if f.n == 0 {
		return 0
	}
	i := (f.head + f.n - 1) % len(f.buf)
	tail := f.buf[i]
	room := min(cap(tail), maxBatch) - len(tail)
	if room <= 0 {
		return 0
	}
	k := min(room, len(src))
	f.buf[i] = append(tail, src[:k]...)
	f.items += k
	return k
}

// reset drops every queued batch.
func (f *fifo[T]) reset() {
	clear(f.buf)
	f.head, f.n, f.items = 0, 0, 0
}

func (f *fifo[T]) grow() {
	size := 2 * len(f.buf)
	if size == 0 {
		size = 4
	}
	buf := make([][]T, size)
	for i := 0; i < f.n; i++ {
		buf[i] = f.buf[(f.head+i)%len(f.buf)]
	}
	f.buf = buf
	f.head = 0
}
